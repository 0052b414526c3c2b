package main

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const ctxClaimsKey = contextKey("claims")

// VerifyMiddleware checks Authorization: Bearer <token> and puts the claims
// into the request context. Missing header, wrong scheme, bad signature and
// expired tokens all get the same 401 body.
func VerifyMiddleware(jm *JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" || !strings.HasPrefix(h, "Bearer ") {
				writeUnauthorized(w)
				return
			}
			token := strings.TrimPrefix(h, "Bearer ")
			claims, err := jm.VerifyToken(token)
			if err != nil {
				writeUnauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), ctxClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{"unauthorized": "Invalid or missing token"})
}

// ClaimsFromCtx returns the verified claims, or nil outside the middleware.
func ClaimsFromCtx(r *http.Request) *TokenClaims {
	v := r.Context().Value(ctxClaimsKey)
	if v == nil {
		return nil
	}
	if c, ok := v.(*TokenClaims); ok {
		return c
	}
	return nil
}

// AuthorizeOwner reports whether the authenticated identity owns the
// resource. Callers load the resource first, so a missing resource is a 404
// before ownership is ever compared.
func AuthorizeOwner(claims *TokenClaims, ownerID string) bool {
	return claims != nil && claims.UserID == ownerID
}
