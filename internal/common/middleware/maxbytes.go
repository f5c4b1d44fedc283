package middleware

import (
	"net/http"
)

// LimitRequestBody creates middleware that caps the request body at maxBytes.
// Reads past the limit fail, so oversized payloads are rejected when the
// handler decodes the body.
func LimitRequestBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
