package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(UserFromContext(r.Context())))
	})
}

func TestAPIKeyOracle(t *testing.T) {
	h := Identify(NewAPIKeyOracle(map[string]string{"alice": "k-alice", "bob": "k-bob"}))(echoUser())
	tests := []struct {
		name, auth, want string
	}{
		{"bearer", "Bearer k-alice", "alice"},
		{"raw key", "k-bob", "bob"},
		{"unknown", "Bearer nope", ""},
		{"missing", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK || rec.Body.String() != tt.want {
				t.Fatalf("got %d %q, want 200 %q", rec.Code, rec.Body.String(), tt.want)
			}
		})
	}
}

func TestHeaderOracle(t *testing.T) {
	h := Identify(HeaderOracle{})(echoUser())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-Id", "alice")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Body.String() != "alice" {
		t.Fatalf("expected alice, got %q", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-Id", "bad user;drop")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Body.String() != "" {
		t.Fatalf("invalid header should be anonymous, got %q", rec.Body.String())
	}
}

func TestRequireUser(t *testing.T) {
	h := RequireUser(echoUser())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analyze", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	req = req.WithContext(WithUser(req.Context(), "alice"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	defer rl.Stop()
	h := RateLimitMiddleware(rl)(echoUser())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
		req = req.WithContext(WithUser(req.Context(), "alice"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests && rec.Header().Get("Retry-After") == "" {
			t.Fatal("missing Retry-After")
		}
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes %v", codes)
	}

	// other users have their own bucket
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	req = req.WithContext(WithUser(req.Context(), "bob"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected bob to pass, got %d", rec.Code)
	}
}

func TestHealthHandlers(t *testing.T) {
	ok := CheckFunc(func(context.Context) error { return nil })
	bad := CheckFunc(func(context.Context) error { return errors.New("no key") })

	rec := httptest.NewRecorder()
	HealthHandler(map[string]HealthChecker{"database": ok})(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	ReadinessHandler(map[string]HealthChecker{"generation": bad})(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestValidateAnalysisID(t *testing.T) {
	if err := ValidateAnalysisID("6f1c2b8e-7f3a-4c55-9a51-2b3f0e4d1a10"); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"", "123", "../etc/passwd"} {
		if ValidateAnalysisID(id) == nil {
			t.Errorf("%q should be invalid", id)
		}
	}
	if ValidateLimit(500) != 100 || ValidateLimit(0) != 20 || ValidatePage(-1) != 1 {
		t.Fatal("unexpected pagination defaults")
	}
}
