package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mergington/campus/pkg/api"
	"github.com/mergington/campus/pkg/observability"
	"github.com/mergington/campus/pkg/transport"
)

// DefaultBypassEndpoints lists routes that skip authentication. Entries
// ending in "/" match by prefix so static assets stay reachable.
var DefaultBypassEndpoints = []string{"/healthz", "/metrics", "/", "/static/"}

// Middleware creates HTTP middleware from a Chain and optional RateLimiter.
// It checks the bypass list, runs authentication, injects the identity into
// the request context, and optionally enforces rate limits.
func Middleware(chain *Chain, limiter RateLimiter, bypassEndpoints []string) transport.Middleware {
	exact := make(map[string]bool, len(bypassEndpoints))
	var prefixes []string
	for _, ep := range bypassEndpoints {
		if strings.HasSuffix(ep, "/") && ep != "/" {
			prefixes = append(prefixes, ep)
			continue
		}
		exact[ep] = true
	}

	bypassed := func(path string) bool {
		if exact[path] {
			return true
		}
		for _, p := range prefixes {
			if strings.HasPrefix(path, p) {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bypassed(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			result := chain.Authenticate(r.Context(), r)

			if result.Decision == No {
				slog.Warn("authentication failed",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"error", result.Err,
				)
				transport.WriteErrorResponse(w,
					api.NewInvalidRequestError("", "authentication required"),
					http.StatusUnauthorized,
				)
				return
			}

			if result.Decision != Yes || result.Identity == nil {
				transport.WriteErrorResponse(w,
					api.NewInvalidRequestError("", "authentication required"),
					http.StatusUnauthorized,
				)
				return
			}

			if result.Identity.Subject == "" {
				slog.Error("authenticator returned identity with empty subject")
				transport.WriteErrorResponse(w,
					api.NewServerError("internal authentication error"),
					http.StatusInternalServerError,
				)
				return
			}

			slog.Debug("authentication succeeded",
				"subject", result.Identity.Subject,
				"path", r.URL.Path,
			)

			if limiter != nil {
				if err := limiter.Allow(r.Context(), result.Identity); err != nil {
					slog.Warn("rate limit exceeded",
						"subject", result.Identity.Subject,
						"tier", result.Identity.ServiceTier,
					)
					observability.RateLimitRejectedTotal.WithLabelValues(result.Identity.ServiceTier).Inc()
					transport.WriteErrorResponse(w,
						api.NewInvalidRequestError("", "rate limit exceeded"),
						http.StatusTooManyRequests,
					)
					return
				}
			}

			ctx := SetIdentity(r.Context(), result.Identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
