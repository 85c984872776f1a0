// Package debug gates verbose diagnostic output for the campus server.
//
// CAMPUS_DEBUG selects categories (comma separated), CAMPUS_LOG_LEVEL
// sets the slog threshold. The categories in use are "provider" (wire
// traffic to the LLM backend), "genai" (task dispatch), "storage", and
// "all".
//
//	CAMPUS_DEBUG=provider CAMPUS_LOG_LEVEL=TRACE ./server
package debug

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// LevelTrace sits below slog.LevelDebug. At TRACE, Raw emits full
// untruncated request bodies.
const LevelTrace = slog.LevelDebug - 4

// enabled holds the active categories. Written only by init and Init,
// both before any request is served.
var enabled map[string]bool

func init() {
	enabled = splitCategories(os.Getenv("CAMPUS_DEBUG"))
}

// Init re-reads the environment and installs the default slog handler at
// the configured level. Called once at process start.
func Init() {
	enabled = splitCategories(os.Getenv("CAMPUS_DEBUG"))

	level := levelFromString(os.Getenv("CAMPUS_LOG_LEVEL"))
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// Enabled reports whether output is active for the category.
func Enabled(category string) bool {
	return enabled["all"] || enabled[category]
}

// Log emits a debug message for the category; a no-op when the category
// is off, so callers need no guard for cheap attributes.
func Log(category string, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Debug(msg, append([]any{"debug", category}, args...)...)
}

// Raw writes plain text to stderr with no slog framing, for copy-paste
// ready payloads. Emitted only when the category is on and the level is
// TRACE.
func Raw(category string, text string) {
	if !Enabled(category) || !slog.Default().Enabled(nil, LevelTrace) {
		return
	}
	fmt.Fprintln(os.Stderr, text)
}

func levelFromString(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func splitCategories(s string) map[string]bool {
	m := make(map[string]bool)
	for _, cat := range strings.Split(s, ",") {
		if cat = strings.TrimSpace(strings.ToLower(cat)); cat != "" {
			m[cat] = true
		}
	}
	return m
}
