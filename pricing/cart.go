package pricing

import "sync"

// Line is one cart entry. LineTotal is always UnitPrice * Quantity.
type Line struct {
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// Cart is the authoritative mutable aggregate for one session. The subtotal
// is recomputed synchronously on every mutation, and registered listeners are
// notified with the new subtotal whenever it actually changed. Mutating the
// cart is the only event that triggers coupon revalidation.
type Cart struct {
	mu          sync.Mutex
	lines       []Line
	subtotal    float64
	tax         float64
	shippingFee float64
	listeners   []func(subtotal float64)
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// OnSubtotalChange registers a listener invoked after every mutation that
// changed the subtotal. Listeners run outside the cart lock.
func (c *Cart) OnSubtotalChange(fn func(subtotal float64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Hydrate replaces the cart contents, for loading a persisted cart into a
// fresh session. Listeners fire like on any other mutation so derived state
// catches up with the restored subtotal.
func (c *Cart) Hydrate(lines []Line) {
	c.mu.Lock()
	c.lines = make([]Line, len(lines))
	copy(c.lines, lines)
	c.finishMutation(-1)
}

// Add adds quantity of a SKU, merging with an existing line.
func (c *Cart) Add(sku, name string, unitPrice float64, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	c.mu.Lock()
	for i := range c.lines {
		if c.lines[i].SKU == sku {
			c.lines[i].Quantity += quantity
			c.finishMutation(i)
			return
		}
	}
	c.lines = append(c.lines, Line{SKU: sku, Name: name, UnitPrice: unitPrice, Quantity: quantity})
	c.finishMutation(len(c.lines) - 1)
}

// SetQuantity sets the quantity of an existing line. A quantity below one
// removes the line.
func (c *Cart) SetQuantity(sku string, quantity int) error {
	c.mu.Lock()
	for i := range c.lines {
		if c.lines[i].SKU == sku {
			if quantity < 1 {
				c.lines = append(c.lines[:i], c.lines[i+1:]...)
				c.finishMutation(-1)
				return nil
			}
			c.lines[i].Quantity = quantity
			c.finishMutation(i)
			return nil
		}
	}
	c.mu.Unlock()
	return ErrItemNotInCart
}

// Remove deletes a line.
func (c *Cart) Remove(sku string) error {
	c.mu.Lock()
	for i := range c.lines {
		if c.lines[i].SKU == sku {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.finishMutation(-1)
			return nil
		}
	}
	c.mu.Unlock()
	return ErrItemNotInCart
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	c.lines = nil
	c.finishMutation(-1)
}

// SetCharges sets tax and shipping. These sit outside the subtotal and never
// trigger revalidation; coupon minimums and gift thresholds are evaluated on
// the subtotal alone.
func (c *Cart) SetCharges(tax, shippingFee float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tax = tax
	c.shippingFee = shippingFee
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Subtotal returns the sum of current line totals.
func (c *Cart) Subtotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtotal
}

// Charges returns the current tax and shipping fee.
func (c *Cart) Charges() (tax, shippingFee float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tax, c.shippingFee
}

// Total returns subtotal + tax + shipping before any coupon discount.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Round2(c.subtotal + c.tax + c.shippingFee)
}

// finishMutation recomputes totals for the line at index i (or all lines when
// i is negative), releases the lock, and notifies listeners if the subtotal
// moved. Callers must hold the lock.
func (c *Cart) finishMutation(i int) {
	if i >= 0 {
		c.lines[i].LineTotal = Round2(c.lines[i].UnitPrice * float64(c.lines[i].Quantity))
	}
	old := c.subtotal
	c.recomputeLocked()
	changed := c.subtotal != old
	subtotal := c.subtotal
	listeners := c.listeners
	c.mu.Unlock()

	if changed {
		for _, fn := range listeners {
			fn(subtotal)
		}
	}
}

func (c *Cart) recomputeLocked() {
	var sum float64
	for i := range c.lines {
		c.lines[i].LineTotal = Round2(c.lines[i].UnitPrice * float64(c.lines[i].Quantity))
		sum += c.lines[i].LineTotal
	}
	c.subtotal = Round2(sum)
}
