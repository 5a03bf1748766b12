package auth

import (
	"net/http"
)

// Header names populated by the authenticating gateway in front of this
// service. Token verification happens at the edge; this service only trusts
// the forwarded identity.
const (
	userIDHeader    = "X-User-Id"
	userEmailHeader = "X-User-Email"
)

// Middleware attaches the forwarded user identity to the request context.
// Requests without an identity are rejected with 401. devUserID, when
// non-empty, substitutes for a missing header so the service can be
// exercised locally without a gateway - never set it in production.
func Middleware(devUserID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid := r.Header.Get(userIDHeader)
			if uid == "" {
				uid = devUserID
			}
			if uid == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"Unauthorized"}`))
				return
			}

			claims := &UserClaims{
				UID:   uid,
				Email: r.Header.Get(userEmailHeader),
			}
			next.ServeHTTP(w, r.WithContext(WithUserClaims(r.Context(), claims)))
		})
	}
}
