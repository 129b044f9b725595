package middleware

import "net/http"

// BodyLimit caps request body size before any parsing happens. Oversized
// bodies surface as an http.MaxBytesError from whichever reader hits the cap.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
