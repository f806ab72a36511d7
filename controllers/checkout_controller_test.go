package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderCharges(t *testing.T) {
	tests := []struct {
		name        string
		orderAmount float64
		tax         float64
		shipping    float64
	}{
		{"below free shipping", 100, 5.00, 50},
		{"at free shipping threshold", 500, 25.00, 0},
		{"above free shipping threshold", 600, 30.00, 0},
		{"tax rounds to cents", 9.99, 0.50, 50},
		{"discounted amount taxed, not subtotal", 54, 2.70, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax, shipping := orderCharges(tt.orderAmount)
			assert.Equal(t, tt.tax, tax)
			assert.Equal(t, tt.shipping, shipping)
		})
	}
}
