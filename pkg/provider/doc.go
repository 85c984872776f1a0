// Package provider defines the contract between the GenAI facade and the
// external language-model backends. The facade depends only on the
// Completer interface; concrete adapters live in subpackages.
package provider
