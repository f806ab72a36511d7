package pricing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/packkart/PackKart/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGiftCatalog struct {
	mu    sync.Mutex
	tiers []models.GiftTier
	err   error
}

func (f *fakeGiftCatalog) ActiveGiftTiers(ctx context.Context) ([]models.GiftTier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.GiftTier, len(f.tiers))
	copy(out, f.tiers)
	return out, nil
}

func (f *fakeGiftCatalog) setTiers(tiers []models.GiftTier) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tiers = tiers
}

func tier(id uint, name string, threshold float64, limit int, items ...models.GiftItem) models.GiftTier {
	return models.GiftTier{
		ID: id, Name: name, SpendingThreshold: threshold,
		GiftLimit: limit, IsActive: true, Items: items,
	}
}

func giftItem(id uint, name string) models.GiftItem {
	return models.GiftItem{ID: id, Name: name, IsActive: true, StockQuantity: 10}
}

func TestResolveSplitsQualifyingAndNearby(t *testing.T) {
	// Bronze (50) and Gold (100) at a post-discount amount of 75: Bronze
	// qualifies, Gold is 25 away.
	catalog := &fakeGiftCatalog{tiers: []models.GiftTier{
		tier(1, "Bronze", 50, 1),
		tier(2, "Gold", 100, 2),
	}}
	r := NewResolver(catalog)

	set, err := r.Resolve(context.Background(), 75)
	require.NoError(t, err)
	require.Len(t, set.Qualifying, 1)
	assert.Equal(t, "Bronze", set.Qualifying[0].Name)
	require.Len(t, set.Nearby, 1)
	assert.Equal(t, "Gold", set.Nearby[0].Name)
	assert.Equal(t, 25.00, set.Nearby[0].AmountNeeded)
}

func TestResolveOrdering(t *testing.T) {
	catalog := &fakeGiftCatalog{tiers: []models.GiftTier{
		tier(1, "Bronze", 50, 1),
		tier(2, "Silver", 150, 1),
		tier(3, "Gold", 300, 2),
		tier(4, "Platinum", 500, 3),
	}}
	r := NewResolver(catalog)

	set, err := r.Resolve(context.Background(), 200)
	require.NoError(t, err)

	// Best reward first.
	require.Len(t, set.Qualifying, 2)
	assert.Equal(t, "Silver", set.Qualifying[0].Name)
	assert.Equal(t, "Bronze", set.Qualifying[1].Name)

	// Closest reward first, full set returned.
	require.Len(t, set.Nearby, 2)
	assert.Equal(t, "Gold", set.Nearby[0].Name)
	assert.Equal(t, 100.00, set.Nearby[0].AmountNeeded)
	assert.Equal(t, "Platinum", set.Nearby[1].Name)
	assert.Equal(t, 300.00, set.Nearby[1].AmountNeeded)
}

func TestResolveThresholdTieBreaksByID(t *testing.T) {
	catalog := &fakeGiftCatalog{tiers: []models.GiftTier{
		tier(9, "B-Second", 50, 1),
		tier(3, "B-First", 50, 1),
	}}
	r := NewResolver(catalog)

	set, err := r.Resolve(context.Background(), 60)
	require.NoError(t, err)
	require.Len(t, set.Qualifying, 2)
	assert.Equal(t, uint(3), set.Qualifying[0].ID)
	assert.Equal(t, uint(9), set.Qualifying[1].ID)

	set, err = r.Resolve(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, set.Nearby, 2)
	assert.Equal(t, uint(3), set.Nearby[0].ID)
	assert.Equal(t, uint(9), set.Nearby[1].ID)
}

func TestResolveSkipsInactiveTiers(t *testing.T) {
	inactive := tier(2, "Retired", 10, 1)
	inactive.IsActive = false
	catalog := &fakeGiftCatalog{tiers: []models.GiftTier{tier(1, "Bronze", 50, 1), inactive}}
	r := NewResolver(catalog)

	set, err := r.Resolve(context.Background(), 60)
	require.NoError(t, err)
	require.Len(t, set.Qualifying, 1)
	assert.Equal(t, "Bronze", set.Qualifying[0].Name)
	assert.Empty(t, set.Nearby)
}

func TestResolveQualificationMonotonicInAmount(t *testing.T) {
	catalog := &fakeGiftCatalog{tiers: []models.GiftTier{
		tier(1, "Bronze", 50, 1),
		tier(2, "Silver", 150, 1),
		tier(3, "Gold", 300, 2),
	}}
	r := NewResolver(catalog)

	prevQualifying := -1
	prevNearby := 4
	for _, amount := range []float64{0, 49.99, 50, 149, 150, 299.99, 300, 1000} {
		set, err := r.Resolve(context.Background(), amount)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(set.Qualifying), prevQualifying, "amount %.2f", amount)
		assert.LessOrEqual(t, len(set.Nearby), prevNearby, "amount %.2f", amount)
		prevQualifying = len(set.Qualifying)
		prevNearby = len(set.Nearby)
	}
}

func TestResolveCatalogFailure(t *testing.T) {
	catalog := &fakeGiftCatalog{err: errors.New("timeout")}
	r := NewResolver(catalog)

	_, err := r.Resolve(context.Background(), 100)
	assert.Error(t, err)
}
