package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/stockledger/internal/domain"
	"github.com/iho/stockledger/internal/usecase/mocks"
)

func TestCachedDirectory_LookupHitsInnerOnce(t *testing.T) {
	base := mocks.NewMockDirectory()
	base.AddWarehouse(&domain.Warehouse{ID: "wh-a", Name: "Central"})

	calls := 0
	counting := mocks.NewMockDirectory()
	counting.LookupWarehouseFunc = func(ctx context.Context, id string) (*domain.Warehouse, error) {
		calls++
		return base.LookupWarehouse(ctx, id)
	}

	cached := NewCachedDirectory(counting, mocks.NewMockCache(), zerolog.Nop())

	for i := 0; i < 3; i++ {
		w, err := cached.LookupWarehouse(context.Background(), "wh-a")
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if w.Name != "Central" {
			t.Fatalf("unexpected warehouse %+v", w)
		}
	}

	if calls != 1 {
		t.Fatalf("expected 1 inner lookup, got %d", calls)
	}
}

func TestCachedDirectory_UnknownIsNotCached(t *testing.T) {
	inner := mocks.NewMockDirectory()
	cached := NewCachedDirectory(inner, mocks.NewMockCache(), zerolog.Nop())

	ok, err := cached.WarehouseExists(context.Background(), "wh-missing")
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if ok {
		t.Fatal("expected unknown warehouse")
	}

	// The warehouse appears later; the decorator must see it.
	inner.AddWarehouse(&domain.Warehouse{ID: "wh-missing", Name: "New"})

	ok, err = cached.WarehouseExists(context.Background(), "wh-missing")
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if !ok {
		t.Fatal("expected warehouse after directory update")
	}
}

func TestCachedDirectory_CacheFailureFallsThrough(t *testing.T) {
	inner := mocks.NewMockDirectory()
	inner.AddProduct(&domain.Product{ID: "prod-1", SKU: "SKU-001", Name: "Widget"})

	cache := mocks.NewMockCache()
	cache.GetFunc = func(ctx context.Context, key string) ([]byte, error) {
		return nil, errors.New("redis down")
	}
	cache.SetFunc = func(ctx context.Context, key string, value []byte, ttl time.Duration) error {
		return errors.New("redis down")
	}

	cached := NewCachedDirectory(inner, cache, zerolog.Nop())

	p, err := cached.LookupProduct(context.Background(), "prod-1")
	if err != nil {
		t.Fatalf("lookup must survive cache failure: %v", err)
	}
	if p.SKU != "SKU-001" {
		t.Fatalf("unexpected product %+v", p)
	}
}
