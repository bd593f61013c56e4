package middleware

import (
	"context"
	"net/http"
)

// ActorHeader carries the operator identity recorded on every movement.
const ActorHeader = "X-Actor"

type actorContextKey struct{}

// Actor extracts the X-Actor header into the request context. Movements
// posted without it are attributed to "unknown" rather than rejected;
// authentication is out of scope for this service.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := r.Header.Get(ActorHeader)
		if actor == "" {
			actor = "unknown"
		}

		ctx := context.WithValue(r.Context(), actorContextKey{}, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorFromContext returns the actor recorded by the Actor middleware.
func ActorFromContext(ctx context.Context) string {
	if actor, ok := ctx.Value(actorContextKey{}).(string); ok {
		return actor
	}
	return "unknown"
}
