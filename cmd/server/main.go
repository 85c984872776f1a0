// Command server runs the Mergington High School activities API with the
// GenAI System Engineering endpoints.
//
// Configuration is layered: built-in defaults, an optional YAML config
// file, then environment variables. The most common variables:
//
//	OPENAI_API_KEY     - provider credential; unset leaves GenAI tasks disabled
//	OPENAI_MODEL       - model name (default: gpt-4)
//	OPENAI_BASE_URL    - alternative Chat Completions backend (e.g. a mock)
//	OPENAI_TEMPERATURE - sampling temperature (default: 0.7)
//	GENAI_MAX_TOKENS   - per-call token budget (default: 2000)
//	CAMPUS_PORT        - listen port (default: 8080)
//	CAMPUS_STORAGE     - "memory" or "postgres" (default: memory)
//	CAMPUS_CONFIG      - path to a YAML config file
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/mergington/campus/pkg/auth"
	"github.com/mergington/campus/pkg/auth/apikey"
	authjwt "github.com/mergington/campus/pkg/auth/jwt"
	"github.com/mergington/campus/pkg/auth/noop"
	"github.com/mergington/campus/pkg/config"
	"github.com/mergington/campus/pkg/debug"
	"github.com/mergington/campus/pkg/genai"
	"github.com/mergington/campus/pkg/provider"
	"github.com/mergington/campus/pkg/provider/openai"
	"github.com/mergington/campus/pkg/storage/memory"
	"github.com/mergington/campus/pkg/storage/postgres"
	"github.com/mergington/campus/pkg/transport"
	transporthttp "github.com/mergington/campus/pkg/transport/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	// Load a local .env file when present; the real environment wins.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	debug.Init()

	store, err := buildStore(cfg)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer store.Close()

	// Three tiers of GenAI availability: a nil handle switches the
	// endpoints off entirely, a facade without a credential answers
	// disabled results, and a configured facade forwards tasks to the
	// provider.
	var tasks transport.TaskRunner
	if cfg.GenAI.Disabled {
		slog.Info("genai endpoints switched off")
	} else {
		var client *openai.Client
		if cfg.GenAI.APIKey != "" {
			client = openai.New(openai.Config{
				BaseURL: cfg.GenAI.BaseURL,
				APIKey:  cfg.GenAI.APIKey,
				Timeout: cfg.GenAI.Timeout,
			})
			defer client.Close()
			slog.Info("genai enabled", "model", cfg.GenAI.Model)
		} else {
			slog.Info("genai not configured, tasks answer disabled results")
		}
		tasks = genai.New(genai.Config{
			APIKey:      cfg.GenAI.APIKey,
			Model:       cfg.GenAI.Model,
			Temperature: &cfg.GenAI.Temperature,
			MaxTokens:   cfg.GenAI.MaxTokens,
			Timeout:     cfg.GenAI.Timeout,
		}, completerOrNil(client))
	}

	opts := []transporthttp.ServerOption{
		transporthttp.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
		transporthttp.WithMaxBodySize(cfg.Server.MaxBodySize),
		transporthttp.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		transporthttp.WithMetrics(cfg.Observability.Metrics.Enabled, cfg.Observability.Metrics.Path),
	}
	if cfg.Server.StaticDir != "" {
		opts = append(opts, transporthttp.WithStaticDir(cfg.Server.StaticDir))
	}

	authMW, err := buildAuthMiddleware(cfg)
	if err != nil {
		return fmt.Errorf("configuring auth: %w", err)
	}
	if authMW != nil {
		opts = append(opts, transporthttp.WithMiddleware(authMW))
	}

	srv := transporthttp.NewServer(store, tasks, opts...)

	slog.Info("campus server configured",
		"port", cfg.Server.Port,
		"storage", cfg.Storage.Type,
		"auth", cfg.Auth.Type,
	)
	return srv.ListenAndServe()
}

// buildStore creates the configured activity store backend.
func buildStore(cfg *config.Config) (transport.ActivityStore, error) {
	switch cfg.Storage.Type {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return postgres.New(ctx, postgres.Config{
			DSN:            cfg.Storage.Postgres.DSN,
			MaxConns:       cfg.Storage.Postgres.MaxConns,
			MigrateOnStart: cfg.Storage.Postgres.MigrateOnStart,
		})
	default:
		return memory.New(), nil
	}
}

// buildAuthMiddleware assembles the auth chain from configuration.
// Returns nil when auth is switched off and no rate limit applies.
func buildAuthMiddleware(cfg *config.Config) (transport.Middleware, error) {
	if cfg.Auth.Type == "none" && !cfg.Auth.RateLimit.Enabled {
		return nil, nil
	}

	chain := &auth.Chain{DefaultDecision: auth.No}

	switch cfg.Auth.Type {
	case "none":
		// Rate limiting without authentication: every request passes
		// as anonymous and the limiter buckets on that identity.
		chain.Authenticators = append(chain.Authenticators, &noop.Authenticator{})
	case "apikey":
		entries := make([]apikey.RawKeyEntry, 0, len(cfg.Auth.APIKeys))
		for _, k := range cfg.Auth.APIKeys {
			entries = append(entries, apikey.RawKeyEntry{
				Key: k.Key,
				Identity: auth.Identity{
					Subject:     k.Subject,
					ServiceTier: k.ServiceTier,
				},
			})
		}
		chain.Authenticators = append(chain.Authenticators, apikey.New(entries))
	case "jwt":
		a, err := authjwt.New(authjwt.Config{
			Secret:   cfg.Auth.JWT.Secret,
			Issuer:   cfg.Auth.JWT.Issuer,
			Audience: cfg.Auth.JWT.Audience,
		})
		if err != nil {
			return nil, err
		}
		chain.Authenticators = append(chain.Authenticators, a)
	}

	var limiter auth.RateLimiter
	if cfg.Auth.RateLimit.Enabled {
		tiers := make(map[string]auth.TierConfig, len(cfg.Auth.RateLimit.Tiers))
		for name, rpm := range cfg.Auth.RateLimit.Tiers {
			tiers[name] = auth.TierConfig{RequestsPerMinute: rpm}
		}
		limiter = auth.NewInProcessLimiter(tiers, cfg.Auth.RateLimit.DefaultRPM)
	}

	return auth.Middleware(chain, limiter, auth.DefaultBypassEndpoints), nil
}

// completerOrNil converts a possibly-nil concrete client into the
// interface the facade expects, avoiding a non-nil interface around a
// nil pointer.
func completerOrNil(c *openai.Client) provider.Completer {
	if c == nil {
		return nil
	}
	return c
}
