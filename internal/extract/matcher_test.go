package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/circuit-extractor/internal/domain"
)

func TestNewMatcher_RejectsBlankKeywords(t *testing.T) {
	tests := []struct {
		name     string
		instance string
		outer    string
	}{
		{"empty instance", "", "outer 1002"},
		{"blank instance", "   ", "outer 1002"},
		{"empty outer", "ae2", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMatcher(tt.instance, tt.outer)
			require.Error(t, err)
			assert.Nil(t, m)
			assert.ErrorIs(t, err, ErrEmptyKeyword)
			assert.Equal(t, domain.ErrorTypeValidation, domain.TypeOf(err))
		})
	}
}

func TestMatcher_AgreesWithFunctions(t *testing.T) {
	m, err := NewMatcher("ae2.1", "outer 1002")
	require.NoError(t, err)

	texts := []string{
		"AE2.1 unit 5 outer_1002",
		"ae2x1 outer1002",
		"nothing",
	}
	for _, text := range texts {
		gotI, okI := m.Instance(text)
		wantI, wantOKI := MatchLiteral(text, "ae2.1")
		assert.Equal(t, wantOKI, okI, text)
		assert.Equal(t, wantI, gotI, text)

		gotO, okO := m.Outer(text)
		wantO, wantOKO := MatchFlexible(text, "outer 1002")
		assert.Equal(t, wantOKO, okO, text)
		assert.Equal(t, wantO, gotO, text)
	}
}
