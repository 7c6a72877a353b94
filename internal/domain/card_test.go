package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCardNumber(t *testing.T) {
	cases := []struct {
		name string
		in   string
		ok   bool
	}{
		{name: "visa_test_number", in: "4111111111111111", ok: true},
		{name: "mastercard_test_number", in: "5555555555554444", ok: true},
		{name: "with_spaces", in: "4111 1111 1111 1111", ok: true},
		{name: "bad_checksum", in: "4111111111111112", ok: false},
		{name: "too_short", in: "411111111111", ok: false},
		{name: "too_long", in: "41111111111111111111", ok: false},
		{name: "non_digits", in: "4111-1111-1111-1111", ok: false},
		{name: "empty", in: "", ok: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.ok, ValidCardNumber(tc.in))
		})
	}
}

func TestMaskCard(t *testing.T) {
	assert.Equal(t, "************1111", MaskCard("4111111111111111"))
	assert.Equal(t, "****", MaskCard("1234"))
	assert.Equal(t, "", MaskCard(""))
}

func TestNewBlockedCard(t *testing.T) {
	card := NewBlockedCard("4111111111111111", "confirmed fraud")

	assert.Equal(t, "4111111111111111", card.CardNumber())
	assert.Equal(t, "confirmed fraud", card.Reason())
	assert.False(t, card.CreatedAt().IsZero())
}
