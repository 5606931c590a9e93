// Package requesttime pins a single "now" per request so activation timestamps,
// day buckets and log lines agree.
package requesttime

import (
	"net/http"
	"time"

	"flexcard/pkg/requestcontext"
)

// Middleware captures the current UTC time at the start of the request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
