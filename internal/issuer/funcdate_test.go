package issuer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveFunctionalDate(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	createdAt := time.Date(2026, 8, 14, 23, 30, 0, 0, time.UTC)

	t.Run("parses dotted full year", func(t *testing.T) {
		date, matched := deriveFunctionalDate("Sommerfest 24.12.2026 Halle A", createdAt, loc)
		assert.True(t, matched)
		assert.Equal(t, time.Date(2026, 12, 24, 0, 0, 0, 0, loc), date)
	})

	t.Run("parses compact digits", func(t *testing.T) {
		date, matched := deriveFunctionalDate("Lauf 05092026", createdAt, loc)
		assert.True(t, matched)
		assert.Equal(t, time.Date(2026, 9, 5, 0, 0, 0, 0, loc), date)
	})

	t.Run("parses dotted two-digit year", func(t *testing.T) {
		date, matched := deriveFunctionalDate("Stand 01.03.27", createdAt, loc)
		assert.True(t, matched)
		assert.Equal(t, time.Date(2027, 3, 1, 0, 0, 0, 0, loc), date)
	})

	t.Run("prefers the full-year form over its two-digit prefix", func(t *testing.T) {
		date, matched := deriveFunctionalDate("24.12.2026", createdAt, loc)
		assert.True(t, matched)
		assert.Equal(t, 2026, date.Year())
	})

	t.Run("rejects digits that only look like a date", func(t *testing.T) {
		// creation day fallback: 23:30 UTC on the 14th is already the 15th at UTC+2
		date, matched := deriveFunctionalDate("Tombola 31.02.2026", createdAt, loc)
		assert.False(t, matched)
		assert.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, loc), date)
	})

	t.Run("falls back to the creation day in the target zone", func(t *testing.T) {
		date, matched := deriveFunctionalDate("no date here", createdAt, loc)
		assert.False(t, matched)
		assert.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, loc), date)
		assert.Equal(t, 0, date.Hour())
	})

	t.Run("empty description falls back", func(t *testing.T) {
		_, matched := deriveFunctionalDate("", createdAt, loc)
		assert.False(t, matched)
	})
}
