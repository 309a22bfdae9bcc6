package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVarianceTag(t *testing.T) {
	itemID := uuid.New()
	branchID := uuid.New()
	taggedBy := uuid.New()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	t.Run("creates tag for a valid observation", func(t *testing.T) {
		tag, err := NewVarianceTag(itemID, branchID, start, end, RootCauseSpoilage, "walk-in fridge failure", taggedBy)

		require.NoError(t, err)
		assert.Equal(t, RootCauseSpoilage, tag.Cause)
		assert.Equal(t, "walk-in fridge failure", tag.Note)
		assert.Equal(t, taggedBy, tag.TaggedBy)
	})

	t.Run("rejects unknown root cause", func(t *testing.T) {
		_, err := NewVarianceTag(itemID, branchID, start, end, RootCause("GHOSTS"), "", taggedBy)

		require.Error(t, err)
	})

	t.Run("rejects inverted period", func(t *testing.T) {
		_, err := NewVarianceTag(itemID, branchID, end, start, RootCauseTheft, "", taggedBy)
		require.Error(t, err)

		_, err = NewVarianceTag(itemID, branchID, start, start, RootCauseTheft, "", taggedBy)
		require.Error(t, err)
	})
}

func TestVarianceTag_Retag(t *testing.T) {
	start := time.Now().Add(-30 * 24 * time.Hour)
	tag, err := NewVarianceTag(uuid.New(), uuid.New(), start, time.Now(), RootCauseUnknown, "", uuid.New())
	require.NoError(t, err)

	newTagger := uuid.New()
	require.NoError(t, tag.Retag(RootCauseMiscount, "recount confirmed", newTagger))

	assert.Equal(t, RootCauseMiscount, tag.Cause)
	assert.Equal(t, "recount confirmed", tag.Note)
	assert.Equal(t, newTagger, tag.TaggedBy)

	t.Run("rejects invalid cause", func(t *testing.T) {
		require.Error(t, tag.Retag(RootCause(""), "", newTagger))
	})
}

func TestRootCause_IsValid(t *testing.T) {
	for _, c := range []RootCause{
		RootCauseSpoilage, RootCauseTheft, RootCauseMiscount, RootCauseBreakage,
		RootCauseDeliveryShortage, RootCausePrepWaste, RootCauseUnknown,
	} {
		assert.True(t, c.IsValid(), c.String())
	}
	assert.False(t, RootCause("OTHER").IsValid())
}
