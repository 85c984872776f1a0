// Package transport defines the handler contracts between the HTTP layer
// and the application core, plus shared HTTP middleware and error mapping.
//
// The HTTP adapter in pkg/transport/http depends only on the ActivityStore
// and TaskRunner interfaces declared here, so storage backends and the
// GenAI facade can be swapped without touching the routing code.
package transport
