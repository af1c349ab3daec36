package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var testSecret = []byte("test-secret")

func signed(t *testing.T, claims jwt.MapClaims, secret []byte) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRequireOperator(t *testing.T) {
	var gotUserID int
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := RequireOperator(testSecret)(next)
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signed(t, jwt.MapClaims{"user_id": 1, "role": "operator", "exp": exp}, []byte("other")), http.StatusUnauthorized},
		{"expired", "Bearer " + signed(t, jwt.MapClaims{"user_id": 1, "role": "operator", "exp": time.Now().Add(-time.Minute).Unix()}, testSecret), http.StatusUnauthorized},
		{"viewer role", "Bearer " + signed(t, jwt.MapClaims{"user_id": 1, "role": "viewer", "exp": exp}, testSecret), http.StatusForbidden},
		{"no role", "Bearer " + signed(t, jwt.MapClaims{"user_id": 1, "exp": exp}, testSecret), http.StatusForbidden},
		{"operator", "Bearer " + signed(t, jwt.MapClaims{"user_id": 7, "role": "operator", "exp": exp}, testSecret), http.StatusNoContent},
		{"admin", "Bearer " + signed(t, jwt.MapClaims{"user_id": "7", "role": "admin", "exp": exp}, testSecret), http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUserID = 0
			req := httptest.NewRequest(http.MethodPost, "/api/games/1/actions", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
			if tt.want == http.StatusNoContent && gotUserID != 7 {
				t.Errorf("user id = %d, want 7", gotUserID)
			}
		})
	}
}

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	for i := 0; i < 2; i++ {
		if code := do("10.0.0.1:5000"); code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, code)
		}
	}
	if code := do("10.0.0.1:5001"); code != http.StatusTooManyRequests {
		t.Errorf("third request from the same ip: status %d", code)
	}
	if code := do("10.0.0.2:5000"); code != http.StatusOK {
		t.Errorf("other ip throttled: status %d", code)
	}

	if n := rl.Cleanup(-time.Second); n != 2 {
		t.Errorf("cleanup removed %d limiters, want 2", n)
	}
}
