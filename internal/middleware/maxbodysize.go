package middleware

import "net/http"

// NewMaxBodySizeHandler limits request bodies to limit bytes.
// A declared Content-Length over the limit is answered with 413 straight away.
// Otherwise the body is wrapped in http.MaxBytesReader, so a handler decoding
// an oversized chunked body gets an *http.MaxBytesError and answers 413 itself.
func NewMaxBodySizeHandler(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				writeTooLarge(w)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

func writeTooLarge(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusRequestEntityTooLarge)
	_, _ = w.Write([]byte(`{"error":{"code":"body_too_large","message":"request body too large"}}`))
}
