package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateShipping(t *testing.T) {
	tests := []struct {
		name      string
		subtotal  float64
		fee       float64
		threshold float64
		want      float64
	}{
		{name: "below threshold pays default fee", subtotal: 100, fee: 5, threshold: 150, want: 5},
		{name: "at threshold ships free", subtotal: 150, fee: 5, threshold: 150, want: 0},
		{name: "above threshold ships free", subtotal: 200, fee: 5, threshold: 150, want: 0},
		{name: "zero threshold disables free shipping", subtotal: 10000, fee: 5, threshold: 0, want: 5},
		{name: "negative threshold disables free shipping", subtotal: 10000, fee: 5, threshold: -1, want: 5},
		{name: "zero subtotal below threshold", subtotal: 0, fee: 7.5, threshold: 150, want: 7.5},
		{name: "custom fee below threshold", subtotal: 50, fee: 12.9, threshold: 150, want: 12.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateShipping(
				decimal.NewFromFloat(tt.subtotal),
				decimal.NewFromFloat(tt.fee),
				decimal.NewFromFloat(tt.threshold),
			)
			assert.True(t, got.Equal(decimal.NewFromFloat(tt.want)),
				"got %s, want %v", got, tt.want)
		})
	}
}
