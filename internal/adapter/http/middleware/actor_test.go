package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestActorMiddleware(t *testing.T) {
	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ActorFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/receipts", nil)
	req.Header.Set(ActorHeader, "warehouse-clerk-7")
	Actor(next).ServeHTTP(httptest.NewRecorder(), req)

	if got != "warehouse-clerk-7" {
		t.Fatalf("expected actor from header, got %q", got)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/inventory/receipts", nil)
	Actor(next).ServeHTTP(httptest.NewRecorder(), req)

	if got != "unknown" {
		t.Fatalf("expected fallback actor, got %q", got)
	}
}

func TestActorFromContextWithoutMiddleware(t *testing.T) {
	if got := ActorFromContext(context.Background()); got != "unknown" {
		t.Fatalf("expected unknown for bare context, got %q", got)
	}
}
