package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Dana", "dana"},
		{"leading and trailing spaces", "  Dana  ", "dana"},
		{"internal runs collapse", "Dana   Levi", "dana levi"},
		{"tabs and newlines", "\tDana \n Levi ", "dana levi"},
		{"case folds", "DANA LEVI", "dana levi"},
		{"empty", "", ""},
		{"only whitespace", "   ", ""},
		{"non-ascii preserved", "  נועה  כהן ", "נועה כהן"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonical(tt.in))
		})
	}
}

func TestCanonicalWriteReadAgreement(t *testing.T) {
	// The same function serves both sides, so any two spellings of a name
	// that differ only in whitespace or case must land on the same key.
	assert.Equal(t, Canonical("  a  "), Canonical("A"))
	assert.Equal(t, Canonical("dana  levi"), Canonical(" DANA LEVI "))
}
