// Command mock-backend runs a deterministic Chat Completions server for
// testing the campus GenAI endpoints without a real provider. It inspects
// the system prompt to decide which engineering task is being exercised
// and returns a canned answer for it.
//
// Configuration:
//
//	MOCK_PORT - Listen port (default: 9090)
//	MOCK_FAIL - When "true", every completion answers HTTP 500
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9090"
	}
	alwaysFail := os.Getenv("MOCK_FAIL") == "true"

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		handleChatCompletions(w, r, alwaysFail)
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock backend starting", "port", port, "always_fail", alwaysFail)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock backend failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock backend shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

// --- Request types ---

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// --- Response types ---

type chatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Index        int     `json:"index"`
	Message      chatMsg `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type chatMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// --- Handler ---

func handleChatCompletions(w http.ResponseWriter, r *http.Request, alwaysFail bool) {
	if alwaysFail {
		http.Error(w, `{"error":{"message":"mock backend failure","type":"server_error"}}`, http.StatusInternalServerError)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":{"message":"invalid request","type":"invalid_request_error"}}`, http.StatusBadRequest)
		return
	}

	resp := classifyAndRespond(&req)
	resp.Model = req.Model
	if resp.Model == "" {
		resp.Model = "mock-model"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// classifyAndRespond picks a canned answer based on the system prompt of
// the request, one per engineering task.
func classifyAndRespond(req *chatRequest) chatResponse {
	system := strings.ToLower(systemPrompt(req))

	switch {
	case strings.Contains(system, "system engineering expert"):
		// Requirements analysis answers in JSON so the facade exercises
		// its structured-parse path.
		return makeTextResponse(`{"clarity": "Requirements are mostly clear.", "completeness": "Error handling is unspecified.", "testability": "All requirements are testable.", "conflicts": [], "suggestions": ["Add latency targets."]}`)
	case strings.Contains(system, "system designer"):
		return makeTextResponse("## Design Document\n\nA layered architecture with an HTTP API, a task facade, and a storage backend.")
	case strings.Contains(system, "risk assessment"):
		return makeTextResponse("1. Technical risk: single provider dependency (High). Mitigation: mock fallback.")
	case strings.Contains(system, "test engineering"):
		return makeTextResponse("TC-001: Verify signup appends the student email. Priority: High.")
	case strings.Contains(system, "optimization expert"):
		return makeTextResponse("Add a cache in front of the catalog store. Impact: high. Complexity: Easy.")
	default:
		return makeTextResponse("Hello, nice day!")
	}
}

func makeTextResponse(text string) chatResponse {
	return chatResponse{
		ID:     "chatcmpl-mock-text",
		Object: "chat.completion",
		Choices: []chatChoice{
			{
				Index: 0,
				Message: chatMsg{
					Role:    "assistant",
					Content: text,
				},
				FinishReason: "stop",
			},
		},
		Usage: chatUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}
}

// systemPrompt returns the first system message content.
func systemPrompt(req *chatRequest) string {
	for _, msg := range req.Messages {
		if msg.Role == "system" {
			return msg.Content
		}
	}
	return ""
}
