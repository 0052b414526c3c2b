package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthorizeOwner(t *testing.T) {
	owner := &TokenClaims{UserID: "user-a"}
	other := &TokenClaims{UserID: "user-b"}
	if !AuthorizeOwner(owner, "user-a") {
		t.Error("owner must be authorized")
	}
	if AuthorizeOwner(other, "user-a") {
		t.Error("non-owner must be forbidden")
	}
	if AuthorizeOwner(nil, "user-a") {
		t.Error("nil claims must be forbidden")
	}
}

func TestVerifyMiddleware(t *testing.T) {
	jm, _ := NewJWTManager("test-secret", "test", 3600)
	expiredJM, _ := NewJWTManager("test-secret", "test", -10)
	expired, _, _ := expiredJM.GenerateToken(testUser())
	valid, _, _ := jm.GenerateToken(testUser())

	var seen *TokenClaims
	h := VerifyMiddleware(jm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ClaimsFromCtx(r)
		w.WriteHeader(http.StatusOK)
	}))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic dXNlcjpwdw==", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized},
		{"valid token", "Bearer " + valid, http.StatusOK},
	}

	var rejectionBody string
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if tc.status == http.StatusUnauthorized {
				body, _ := io.ReadAll(rec.Body)
				if rejectionBody == "" {
					rejectionBody = string(body)
				} else if string(body) != rejectionBody {
					// every rejection reason must be indistinguishable
					t.Errorf("401 body differs across causes: %q vs %q", body, rejectionBody)
				}
			}
		})
	}

	if seen == nil || seen.UserID != "u_1" {
		t.Errorf("claims not propagated to handler: %+v", seen)
	}
}
