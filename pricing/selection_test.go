package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectEnforcesTierLimit(t *testing.T) {
	gold := tier(2, "Gold", 100, 2, giftItem(10, "Mug"), giftItem(11, "Tote"), giftItem(12, "Pen"))
	s := NewSelections()

	require.NoError(t, s.Select(gold, 10))
	require.NoError(t, s.Select(gold, 11))

	// The limit+1-th distinct item is rejected.
	assert.ErrorIs(t, s.Select(gold, 12), ErrSelectionLimit)

	// Re-selecting an already chosen item is a no-op, not a violation.
	assert.NoError(t, s.Select(gold, 10))

	// Removing one and re-adding a different one succeeds.
	s.Deselect(gold.ID, 11)
	assert.NoError(t, s.Select(gold, 12))
	assert.Equal(t, map[uint][]uint{2: {10, 12}}, s.Chosen())
}

func TestSelectRejectsForeignAndInactiveItems(t *testing.T) {
	inactive := giftItem(11, "Discontinued")
	inactive.IsActive = false
	bronze := tier(1, "Bronze", 50, 1, giftItem(10, "Sticker"), inactive)
	s := NewSelections()

	assert.ErrorIs(t, s.Select(bronze, 99), ErrGiftNotInTier)
	assert.ErrorIs(t, s.Select(bronze, 11), ErrGiftInactive)
	assert.Empty(t, s.Chosen())
}

func TestDeselectAbsentIsNoop(t *testing.T) {
	s := NewSelections()
	s.Deselect(1, 10)
	assert.Empty(t, s.Chosen())
}

func TestRevalidateDropsUnearnedTiers(t *testing.T) {
	bronze := tier(1, "Bronze", 50, 1, giftItem(10, "Sticker"))
	gold := tier(2, "Gold", 100, 2, giftItem(20, "Mug"), giftItem(21, "Tote"))
	s := NewSelections()
	require.NoError(t, s.Select(bronze, 10))
	require.NoError(t, s.Select(gold, 20))
	require.NoError(t, s.Select(gold, 21))

	// Gold drops out of the qualifying set; its selections go with it.
	dropped := s.Revalidate([]QualifyingTier{bronze})
	assert.Equal(t, map[uint][]uint{2: {20, 21}}, dropped)
	assert.Equal(t, map[uint][]uint{1: {10}}, s.Chosen())

	// An unchanged qualifying set drops nothing.
	assert.Nil(t, s.Revalidate([]QualifyingTier{bronze}))
	assert.Equal(t, map[uint][]uint{1: {10}}, s.Chosen())
}

func TestRevalidateDropsItemsRemovedFromTier(t *testing.T) {
	gold := tier(2, "Gold", 100, 2, giftItem(20, "Mug"), giftItem(21, "Tote"))
	s := NewSelections()
	require.NoError(t, s.Select(gold, 20))
	require.NoError(t, s.Select(gold, 21))

	// The tier still qualifies but one item left its gift list.
	trimmed := tier(2, "Gold", 100, 2, giftItem(20, "Mug"))
	dropped := s.Revalidate([]QualifyingTier{trimmed})
	assert.Equal(t, map[uint][]uint{2: {21}}, dropped)
	assert.Equal(t, map[uint][]uint{2: {20}}, s.Chosen())
}

func TestClear(t *testing.T) {
	bronze := tier(1, "Bronze", 50, 1, giftItem(10, "Sticker"))
	s := NewSelections()
	require.NoError(t, s.Select(bronze, 10))
	s.Clear()
	assert.Empty(t, s.Chosen())
}
