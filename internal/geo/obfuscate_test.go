package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamstay/server/internal/models"
)

func TestObfuscate_Deterministic(t *testing.T) {
	l := listingAt("listing-1", 29.7604, -95.3698)

	first, ok := Obfuscate(l, 7)
	require.True(t, ok)

	for i := 0; i < 5; i++ {
		again, ok := Obfuscate(l, 7)
		require.True(t, ok)
		assert.Equal(t, first, again)
	}
}

func TestObfuscate_OffsetWithinBand(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for _, id := range ids {
		l := listingAt(id, 29.7604, -95.3698)
		truePos, _ := l.Coordinate()

		for salt := 0; salt < 4; salt++ {
			displayed, ok := Obfuscate(l, salt)
			require.True(t, ok)

			offset := DistanceMeters(truePos, displayed)
			assert.GreaterOrEqual(t, offset, 49.0, "listing %s salt %d", id, salt)
			assert.LessOrEqual(t, offset, 151.0, "listing %s salt %d", id, salt)
		}
	}
}

func TestObfuscate_SaltChangesPosition(t *testing.T) {
	l := listingAt("listing-1", 29.7604, -95.3698)

	a, _ := Obfuscate(l, 0)
	b, _ := Obfuscate(l, 1)
	assert.NotEqual(t, a, b)
}

func TestObfuscate_DifferentListingsDiffer(t *testing.T) {
	a, _ := Obfuscate(listingAt("one", 29.7604, -95.3698), 0)
	b, _ := Obfuscate(listingAt("two", 29.7604, -95.3698), 0)
	assert.NotEqual(t, a, b)
}

func TestObfuscate_InvalidCoordinates(t *testing.T) {
	_, ok := Obfuscate(models.Listing{ID: "no-coords"}, 0)
	assert.False(t, ok)
}
