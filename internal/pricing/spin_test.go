package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bookverse/bookverse-api/internal/pricing"
)

func TestSpinValue(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		subtotal float64
		want     float64
	}{
		{"percentage", "20%", 500, 100},
		{"percentage with spaces", " 10 % ", 200, 20},
		{"code 50 maps to 5", "50", 500, 5},
		{"code 100 maps to 10", "100", 500, 10},
		{"other numeric is literal", "75", 500, 75},
		{"numeric with trailing text", "20 off", 500, 20},
		{"currency marked", "₹150", 500, 150},
		{"free sentinel", "free", 500, 50},
		{"free shipping label", "free shipping", 500, 50},
		{"yes sentinel", "YES", 500, 50},
		{"empty", "", 500, 0},
		{"garbage", "better luck next time", 500, 0},
		{"currency with no digits", "₹", 500, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, pricing.SpinValue(tc.raw, tc.subtotal))
		})
	}
}
