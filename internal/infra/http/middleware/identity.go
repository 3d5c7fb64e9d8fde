package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/leadgen-io/leadgen-api/internal/infra/audit"
)

const actorIDKey ctxKey = iota + 10

// Identity lifts the acting operator's id (supplied by the fronting auth
// layer via X-User-ID) and the client address into the request context.
// Missing or malformed attribution is tolerated: lead operations never fail
// over who asked for them.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := audit.WithClientIP(r.Context(), clientIP(r))

		if raw := r.Header.Get("X-User-ID"); raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
				ctx = context.WithValue(ctx, actorIDKey, id)
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorID returns the authenticated operator id, or nil when the request
// was anonymous.
func ActorID(ctx context.Context) *int64 {
	if id, ok := ctx.Value(actorIDKey).(int64); ok {
		return &id
	}
	return nil
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i > 0 {
			return strings.TrimSpace(xff[:i])
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
