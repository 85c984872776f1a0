// Package genai implements the system-engineering assistant facade. An
// Engineer turns free-form task text into a fixed prompt, makes exactly one
// call to the configured language-model backend, and maps the outcome onto
// a three-state TaskResult (disabled, error, success).
//
// Task methods never return a Go error: a facade without a credential
// short-circuits to a disabled result without touching the network, and
// every provider or transport failure is absorbed into an error result.
package genai
