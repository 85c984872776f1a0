package provider

import "context"

// Message is a single chat message sent to the backend.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Message roles.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ChatRequest is a provider-neutral completion request. Optional sampling
// fields are pointers so that "unset" is distinguishable from zero.
type ChatRequest struct {
	Model       string
	Messages    []Message
	Temperature *float64
	MaxTokens   *int
}

// Usage holds token accounting reported by the backend.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ChatResponse is the provider-neutral completion result. Text is the
// content of the first choice, kept verbatim.
type ChatResponse struct {
	Text  string
	Model string
	Usage *Usage
}

// Completer performs a single blocking completion call against a backend.
//
// Complete must respect ctx cancellation and return exactly one response
// or one error; it never retries. Close releases any held connections.
type Completer interface {
	Complete(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
	Close() error
}
