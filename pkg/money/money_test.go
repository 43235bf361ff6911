package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "₹1,500/day", want: "1500", ok: true},
		{in: "40 per kg", want: "40", ok: true},
		{in: "Rs. 12.555", want: "12.56", ok: true},
		{in: "₹9,999,999,999.99/season", want: "9999999999.99", ok: true},
		{in: "₹12345678901/day", ok: false},
		{in: "9999999999.995", ok: false},
		{in: "negotiable", ok: false},
		{in: "", ok: false},
	}
	for _, tc := range cases {
		got := ParseAmount(tc.in)
		assert.Equal(t, tc.ok, got.Valid, tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got.Decimal.String(), tc.in)
		}
	}
}

func TestEnsureRupeePrefix(t *testing.T) {
	assert.Equal(t, "₹2000/day", EnsureRupeePrefix("2000/day"))
	assert.Equal(t, "₹2000/day", EnsureRupeePrefix(" ₹2000/day "))
	assert.Equal(t, "2000 ₹/day", EnsureRupeePrefix("2000 ₹/day"))
}
