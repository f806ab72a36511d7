package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartSubtotalTracksLineTotals(t *testing.T) {
	cart := NewCart()
	cart.Add("BOX-S", "Small box", 2.50, 4)
	cart.Add("TAPE", "Packing tape", 3.99, 2)

	assert.Equal(t, 17.98, cart.Subtotal())

	require.NoError(t, cart.SetQuantity("BOX-S", 1))
	assert.Equal(t, 10.48, cart.Subtotal())

	require.NoError(t, cart.Remove("TAPE"))
	assert.Equal(t, 2.50, cart.Subtotal())

	cart.Clear()
	assert.Equal(t, 0.0, cart.Subtotal())
	assert.Empty(t, cart.Lines())
}

func TestCartAddMergesExistingLine(t *testing.T) {
	cart := NewCart()
	cart.Add("BOX-S", "Small box", 2.50, 1)
	cart.Add("BOX-S", "Small box", 2.50, 2)

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, 7.50, lines[0].LineTotal)
}

func TestCartSetQuantityUnknownSKU(t *testing.T) {
	cart := NewCart()
	assert.ErrorIs(t, cart.SetQuantity("NOPE", 2), ErrItemNotInCart)
	assert.ErrorIs(t, cart.Remove("NOPE"), ErrItemNotInCart)
}

func TestCartListenersFireOnlyOnSubtotalChange(t *testing.T) {
	cart := NewCart()
	var notified []float64
	cart.OnSubtotalChange(func(subtotal float64) {
		notified = append(notified, subtotal)
	})

	cart.Add("BOX-S", "Small box", 2.50, 2)
	require.Equal(t, []float64{5.00}, notified)

	// Re-setting the same quantity changes nothing and must not re-fire.
	require.NoError(t, cart.SetQuantity("BOX-S", 2))
	assert.Len(t, notified, 1)

	require.NoError(t, cart.SetQuantity("BOX-S", 3))
	assert.Equal(t, []float64{5.00, 7.50}, notified)

	// Charges sit outside the subtotal and never trigger listeners.
	cart.SetCharges(1.20, 50)
	assert.Len(t, notified, 2)
	assert.Equal(t, 58.70, cart.Total())

	cart.Clear()
	assert.Equal(t, []float64{5.00, 7.50, 0}, notified)
}

func TestCartHydrateRecomputesAndNotifies(t *testing.T) {
	cart := NewCart()
	var notified []float64
	cart.OnSubtotalChange(func(subtotal float64) {
		notified = append(notified, subtotal)
	})

	cart.Hydrate([]Line{
		{SKU: "BOX-S", Name: "Small box", UnitPrice: 2.50, Quantity: 4},
		{SKU: "TAPE", Name: "Packing tape", UnitPrice: 3.99, Quantity: 1},
	})

	assert.Equal(t, 13.99, cart.Subtotal())
	lines := cart.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 10.00, lines[0].LineTotal)
	assert.Equal(t, []float64{13.99}, notified)

	// Hydrating an empty cart from no rows is not a change.
	empty := NewCart()
	fired := false
	empty.OnSubtotalChange(func(float64) { fired = true })
	empty.Hydrate(nil)
	assert.False(t, fired)
}
