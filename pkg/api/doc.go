// Package api defines the wire types for the campus backend: the GenAI
// task requests and their three-state results, the activity catalog types,
// structured API errors, and request validation.
//
// The types in this package are shared between the HTTP transport, the
// GenAI facade, and the storage adapters. They carry JSON tags matching
// the public API surface and contain no behavior beyond construction and
// validation helpers.
package api
