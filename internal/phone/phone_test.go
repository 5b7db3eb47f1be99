package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"5551234567", "+15551234567"},
		{"(555) 123-4567", "+15551234567"},
		{"15551234567", "+15551234567"},
		{"1-555-123-4567", "+15551234567"},
		{"+15551234567", "+15551234567"},
		{"+44 20 7946 0958", "+442079460958"},
		{"  +44 20 7946 0958  ", "+442079460958"},
		{"442079460958", "+442079460958"},
		{"25551234567", "+25551234567"},
		{"", ""},
		{"+", ""},
		{"call me maybe", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("+15551234567"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("+"))
	assert.False(t, Valid("5551234567"))
	assert.False(t, Valid("+1 555"))
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "15551234567", Digits("+1 (555) 123-4567"))
	assert.Equal(t, "", Digits("none"))
}
