package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	request "flexcard/pkg/platform/middleware/request"
)

// HeaderAdminToken carries the operator secret for card provisioning.
const HeaderAdminToken = "X-Admin-Token"

const unauthorizedBody = `{"error":"unauthorized","error_description":"admin token required"}`

// RequireAdminToken guards the provisioning routes. With an empty expected
// token every request is refused, so an unset secret never opens the surface.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	expected := []byte(expectedToken)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !tokenMatches(expected, r.Header.Get(HeaderAdminToken)) {
				ctx := r.Context()
				logger.WarnContext(ctx, "admin request rejected",
					"request_id", request.GetRequestID(ctx),
					"path", r.URL.Path,
					"token_present", r.Header.Get(HeaderAdminToken) != "",
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(unauthorizedBody))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tokenMatches(expected []byte, got string) bool {
	if len(expected) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), expected) == 1
}
