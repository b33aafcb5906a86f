package usecase

import (
	"strings"
	"testing"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSector(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		known  bool
		reject bool
	}{
		{name: "known", raw: "technology", want: "technology", known: true},
		{name: "trim and lower", raw: "Technology ", want: "technology", known: true},
		{name: "multi word", raw: "Renewable Energy", want: "renewable energy", known: true},
		{name: "unknown allowed", raw: "quantum-computing_2", want: "quantum-computing_2"},
		{name: "empty", raw: "", reject: true},
		{name: "only spaces", raw: "   ", reject: true},
		{name: "too short", raw: "a", reject: true},
		{name: "too short after trim", raw: " a ", reject: true},
		{name: "too long", raw: strings.Repeat("x", 51), reject: true},
		{name: "max length", raw: strings.Repeat("x", 50), want: strings.Repeat("x", 50)},
		{name: "punctuation", raw: "tech!", reject: true},
		{name: "path traversal", raw: "../etc", reject: true},
		{name: "percent", raw: "tech%41", reject: true},
		{name: "kelvin sign lowers to ascii", raw: "\u212Aite", reject: true},
		{name: "non ascii letter", raw: "café", reject: true},
		{name: "upper ascii kept until lowered", raw: "KITE", want: "kite"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, known, err := NormalizeSector(tt.raw)
			if tt.reject {
				require.Error(t, err)
				se := errors.FromError(err)
				assert.Equal(t, int32(400), se.Code)
				assert.Equal(t, ReasonInvalidSector, se.Reason)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, known)
		})
	}
}

func TestNormalizeSector_Messages(t *testing.T) {
	tests := map[string]string{
		"":                      "Sector name cannot be empty",
		"  ":                    "Sector name cannot be empty",
		"a":                     "Sector name must be at least 2 characters long",
		strings.Repeat("x", 51): "Sector name must be at most 50 characters long",
		"tech!":                 "Sector name contains invalid characters. Use only letters, numbers, spaces, hyphens, and underscores.",
	}
	for raw, msg := range tests {
		_, _, err := NormalizeSector(raw)
		require.Error(t, err, raw)
		assert.Equal(t, msg, errors.FromError(err).Message, raw)
	}
}
