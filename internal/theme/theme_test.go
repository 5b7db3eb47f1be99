package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		in     string
		wantID string
	}{
		{"", DefaultID},
		{"   ", DefaultID},
		{"Barbie", "barbie"},
		{"  OCEAN ", "ocean"},
		{"I love my cat", "cats"},
		{"pink things", "barbie"},
		{"rocket ships", "space"},
		{"starfish", "space"},
		{"going to the beach", "ocean"},
		{"video games", "minecraft"},
		{"my kitty", "cats"},
		{"houseplants", "nature"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.wantID, Lookup(tt.in).ID)
		})
	}
}

func TestLookup_UnknownKeepsDefaultStyling(t *testing.T) {
	got := Lookup("  Jazz Music ")
	def := Lookup("")

	assert.Equal(t, "jazz music", got.ID)
	assert.Equal(t, "  Jazz Music ", got.Label)
	assert.Equal(t, def.PrimaryColor, got.PrimaryColor)
	assert.Equal(t, def.Greeting, got.Greeting)
}

func TestLookup_ReturnsCopies(t *testing.T) {
	got := Lookup("cats")
	got.Label = "Dogs"

	assert.Equal(t, "Cats", Lookup("cats").Label)
	all := All()
	delete(all, "cats")
	assert.Equal(t, "cats", Lookup("cats").ID)
}

func TestAll(t *testing.T) {
	all := All()
	assert.Len(t, all, 7)
	for id, th := range all {
		assert.Equal(t, id, th.ID)
		assert.NotEmpty(t, th.Greeting)
	}
}
