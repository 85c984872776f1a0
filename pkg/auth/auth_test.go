package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// voteAuthenticator returns a fixed result, recording whether it ran.
type voteAuthenticator struct {
	result Result
	called bool
}

func (v *voteAuthenticator) Authenticate(_ context.Context, _ *http.Request) Result {
	v.called = true
	return v.result
}

func TestChainStopsOnYes(t *testing.T) {
	first := &voteAuthenticator{result: Result{Decision: Yes, Identity: &Identity{Subject: "alice"}}}
	second := &voteAuthenticator{result: Result{Decision: No, Err: ErrUnauthenticated}}

	chain := &Chain{Authenticators: []Authenticator{first, second}}
	result := chain.Authenticate(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))

	if result.Decision != Yes {
		t.Fatalf("decision = %d, want Yes", result.Decision)
	}
	if result.Identity.Subject != "alice" {
		t.Errorf("subject = %q, want alice", result.Identity.Subject)
	}
	if second.called {
		t.Error("chain did not stop on first Yes")
	}
}

func TestChainStopsOnNo(t *testing.T) {
	first := &voteAuthenticator{result: Result{Decision: No, Err: ErrUnauthenticated}}
	second := &voteAuthenticator{result: Result{Decision: Yes, Identity: &Identity{Subject: "bob"}}}

	chain := &Chain{Authenticators: []Authenticator{first, second}}
	result := chain.Authenticate(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))

	if result.Decision != No {
		t.Fatalf("decision = %d, want No", result.Decision)
	}
	if second.called {
		t.Error("chain did not stop on first No")
	}
}

func TestChainSkipsAbstain(t *testing.T) {
	first := &voteAuthenticator{result: Result{Decision: Abstain}}
	second := &voteAuthenticator{result: Result{Decision: Yes, Identity: &Identity{Subject: "carol"}}}

	chain := &Chain{Authenticators: []Authenticator{first, second}}
	result := chain.Authenticate(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))

	if result.Decision != Yes || result.Identity.Subject != "carol" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestChainAllAbstainDefaultYes(t *testing.T) {
	chain := &Chain{
		Authenticators:  []Authenticator{&voteAuthenticator{result: Result{Decision: Abstain}}},
		DefaultDecision: Yes,
	}
	result := chain.Authenticate(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))

	if result.Decision != Yes {
		t.Fatalf("decision = %d, want Yes", result.Decision)
	}
	if result.Identity.Subject != "anonymous" {
		t.Errorf("subject = %q, want anonymous", result.Identity.Subject)
	}
}

func TestChainAllAbstainDefaultNo(t *testing.T) {
	chain := &Chain{
		Authenticators:  []Authenticator{&voteAuthenticator{result: Result{Decision: Abstain}}},
		DefaultDecision: No,
	}
	result := chain.Authenticate(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))

	if result.Decision != No {
		t.Fatalf("decision = %d, want No", result.Decision)
	}
	if !errors.Is(result.Err, ErrUnauthenticated) {
		t.Errorf("err = %v, want ErrUnauthenticated", result.Err)
	}
}

func TestInProcessLimiterEnforcesTier(t *testing.T) {
	limiter := NewInProcessLimiter(map[string]TierConfig{
		"basic": {RequestsPerMinute: 3},
	}, 100)

	id := &Identity{Subject: "student", ServiceTier: "basic"}
	for i := 0; i < 3; i++ {
		if err := limiter.Allow(context.Background(), id); err != nil {
			t.Fatalf("request %d unexpectedly limited: %v", i+1, err)
		}
	}
	if err := limiter.Allow(context.Background(), id); !errors.Is(err, ErrTooManyRequests) {
		t.Errorf("request 4: err = %v, want ErrTooManyRequests", err)
	}
}

func TestInProcessLimiterIsolatesSubjects(t *testing.T) {
	limiter := NewInProcessLimiter(nil, 1)

	if err := limiter.Allow(context.Background(), &Identity{Subject: "a"}); err != nil {
		t.Fatalf("first subject limited: %v", err)
	}
	if err := limiter.Allow(context.Background(), &Identity{Subject: "b"}); err != nil {
		t.Errorf("second subject limited by first subject's window: %v", err)
	}
}

func TestInProcessLimiterZeroMeansUnlimited(t *testing.T) {
	limiter := NewInProcessLimiter(nil, 0)
	id := &Identity{Subject: "x"}
	for i := 0; i < 50; i++ {
		if err := limiter.Allow(context.Background(), id); err != nil {
			t.Fatalf("unexpected limit with rpm=0: %v", err)
		}
	}
}
