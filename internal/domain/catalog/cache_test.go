package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/gamepin/gamepin-api/internal/domain/catalog"
)

// Exercises the in-process fallback mode. The Redis mode runs the same
// interface against a live server and is covered by deployment smoke tests.
func TestPriceCacheInProcess(t *testing.T) {
	cache := catalog.NewPriceCache(nil)
	ctx := context.Background()

	if _, ok := cache.Get(ctx, 1); ok {
		t.Fatal("empty cache must miss")
	}

	tier := &catalog.Tier{
		ID:        1,
		Name:      "Free Fire 110",
		UnitPrice: 1500,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	cache.Set(ctx, tier)

	got, ok := cache.Get(ctx, 1)
	if !ok {
		t.Fatal("expected hit after set")
	}
	if got.UnitPrice != 1500 || got.Name != "Free Fire 110" {
		t.Errorf("unexpected cached tier %+v", got)
	}

	// A cached value is a copy. Mutating it must not poison the cache.
	got.UnitPrice = 9999
	again, ok := cache.Get(ctx, 1)
	if !ok || again.UnitPrice != 1500 {
		t.Errorf("cache entry mutated through returned pointer: %+v", again)
	}

	cache.Invalidate(ctx, 1)
	if _, ok := cache.Get(ctx, 1); ok {
		t.Fatal("expected miss after invalidate")
	}
}

func TestPriceCacheInvalidateMissing(t *testing.T) {
	cache := catalog.NewPriceCache(nil)
	// Invalidating an id that was never cached is a no-op.
	cache.Invalidate(context.Background(), 42)
}
