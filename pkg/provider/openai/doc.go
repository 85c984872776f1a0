// Package openai provides a provider.Completer backed by the OpenAI Chat
// Completions API or any API-compatible backend. The base URL is
// configurable so tests and local development can point the client at a
// mock backend.
package openai
