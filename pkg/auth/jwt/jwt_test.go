package jwt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/mergington/campus/pkg/auth"
)

const testSecret = "campus-test-secret"

func signToken(t *testing.T, secret string, claims jwtlib.MapClaims) string {
	t.Helper()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func request(header string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		r.Header.Set("Authorization", header)
	}
	return r
}

func TestNewRequiresSecret(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestAuthenticateValidToken(t *testing.T) {
	a, err := New(Config{Secret: testSecret})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	token := signToken(t, testSecret, jwtlib.MapClaims{
		"sub":   "student-42",
		"tier":  "basic",
		"scope": "signup genai",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	result := a.Authenticate(context.Background(), request("Bearer "+token))
	if result.Decision != auth.Yes {
		t.Fatalf("decision = %d, want Yes (err: %v)", result.Decision, result.Err)
	}
	if result.Identity.Subject != "student-42" {
		t.Errorf("subject = %q, want student-42", result.Identity.Subject)
	}
	if result.Identity.ServiceTier != "basic" {
		t.Errorf("tier = %q, want basic", result.Identity.ServiceTier)
	}
	if len(result.Identity.Scopes) != 2 || result.Identity.Scopes[0] != "signup" {
		t.Errorf("scopes = %v, want [signup genai]", result.Identity.Scopes)
	}
}

func TestAuthenticateScopesArray(t *testing.T) {
	a, _ := New(Config{Secret: testSecret})
	token := signToken(t, testSecret, jwtlib.MapClaims{
		"sub":   "student-1",
		"scope": []string{"read", "write"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	result := a.Authenticate(context.Background(), request("Bearer "+token))
	if result.Decision != auth.Yes {
		t.Fatalf("decision = %d, want Yes (err: %v)", result.Decision, result.Err)
	}
	if len(result.Identity.Scopes) != 2 || result.Identity.Scopes[1] != "write" {
		t.Errorf("scopes = %v, want [read write]", result.Identity.Scopes)
	}
}

func TestAuthenticateWrongSecret(t *testing.T) {
	a, _ := New(Config{Secret: testSecret})
	token := signToken(t, "other-secret", jwtlib.MapClaims{
		"sub": "student-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	result := a.Authenticate(context.Background(), request("Bearer "+token))
	if result.Decision != auth.No {
		t.Errorf("decision = %d, want No", result.Decision)
	}
}

func TestAuthenticateExpiredToken(t *testing.T) {
	a, _ := New(Config{Secret: testSecret})
	token := signToken(t, testSecret, jwtlib.MapClaims{
		"sub": "student-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	result := a.Authenticate(context.Background(), request("Bearer "+token))
	if result.Decision != auth.No {
		t.Errorf("decision = %d, want No", result.Decision)
	}
}

func TestAuthenticateIssuerMismatch(t *testing.T) {
	a, _ := New(Config{Secret: testSecret, Issuer: "campus"})
	token := signToken(t, testSecret, jwtlib.MapClaims{
		"sub": "student-1",
		"iss": "someone-else",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	result := a.Authenticate(context.Background(), request("Bearer "+token))
	if result.Decision != auth.No {
		t.Errorf("decision = %d, want No", result.Decision)
	}
}

func TestAuthenticateMissingSubject(t *testing.T) {
	a, _ := New(Config{Secret: testSecret})
	token := signToken(t, testSecret, jwtlib.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	result := a.Authenticate(context.Background(), request("Bearer "+token))
	if result.Decision != auth.No {
		t.Errorf("decision = %d, want No", result.Decision)
	}
}

func TestAuthenticateCustomClaims(t *testing.T) {
	a, _ := New(Config{Secret: testSecret, UserClaim: "email", TierClaim: "plan"})
	token := signToken(t, testSecret, jwtlib.MapClaims{
		"email": "kid@mergington.edu",
		"plan":  "premium",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	result := a.Authenticate(context.Background(), request("Bearer "+token))
	if result.Decision != auth.Yes {
		t.Fatalf("decision = %d, want Yes (err: %v)", result.Decision, result.Err)
	}
	if result.Identity.Subject != "kid@mergington.edu" {
		t.Errorf("subject = %q, want kid@mergington.edu", result.Identity.Subject)
	}
	if result.Identity.ServiceTier != "premium" {
		t.Errorf("tier = %q, want premium", result.Identity.ServiceTier)
	}
}

func TestAuthenticateNoHeaderAbstains(t *testing.T) {
	a, _ := New(Config{Secret: testSecret})
	result := a.Authenticate(context.Background(), request(""))
	if result.Decision != auth.Abstain {
		t.Errorf("decision = %d, want Abstain", result.Decision)
	}
}
