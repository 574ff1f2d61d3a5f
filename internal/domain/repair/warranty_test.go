package repair

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeWarrantyEndDate(t *testing.T) {
	t.Run("adds months from start of day", func(t *testing.T) {
		start := time.Date(2026, 3, 15, 14, 45, 12, 0, time.UTC)

		end := ComputeWarrantyEndDate(start, 6)

		require.NotNil(t, end)
		assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), *end)
	})

	t.Run("keeps the start location", func(t *testing.T) {
		loc := time.FixedZone("UTC+2", 2*60*60)
		start := time.Date(2026, 1, 31, 23, 0, 0, 0, loc)

		end := ComputeWarrantyEndDate(start, 1)

		require.NotNil(t, end)
		assert.Equal(t, loc, end.Location())
	})

	t.Run("no warranty without months", func(t *testing.T) {
		assert.Nil(t, ComputeWarrantyEndDate(time.Now(), 0))
		assert.Nil(t, ComputeWarrantyEndDate(time.Now(), -3))
	})
}
