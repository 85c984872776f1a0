// Package storage provides utilities shared across the activity store
// implementations: sentinel errors and the seeded default catalog.
//
// Store adapters (memory, postgres) implement the transport.ActivityStore
// interface defined in pkg/transport/handler.go. This package contains
// only shared types and helpers, not the interface itself.
package storage
