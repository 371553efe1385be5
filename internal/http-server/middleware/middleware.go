package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/wb-go/wbf/zlog"
)

// CallerIDHeader carries the opaque caller identity issued by the external
// auth provider. The service never interprets it beyond presence.
const CallerIDHeader = "X-Caller-Id"

type callerIDKey struct{}

// RequireCallerID rejects requests without a caller identity. Listing stays
// outside this middleware: GET calls carry no identity header.
func RequireCallerID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callerID := r.Header.Get(CallerIDHeader)
		if callerID == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Unauthorized","message":"Caller identity is required"}`))
			return
		}

		ctx := context.WithValue(r.Context(), callerIDKey{}, callerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CallerID returns the identity injected by RequireCallerID.
func CallerID(ctx context.Context) string {
	id, _ := ctx.Value(callerIDKey{}).(string)
	return id
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		zlog.Logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("query", r.URL.RawQuery).
			Dur("duration", time.Since(start)).
			Msg("Request completed")
	})
}

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				zlog.Logger.Error().
					Interface("error", err).
					Str("path", r.URL.Path).
					Msg("Panic recovered")

				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
