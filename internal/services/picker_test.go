package services

import (
	"testing"

	"savepoint/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestPickRandom(t *testing.T) {
	t.Run("empty backlog", func(t *testing.T) {
		pick, err := PickRandom(nil)

		assert.Nil(t, pick)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("single item", func(t *testing.T) {
		items := []models.LibraryItem{{ID: 42}}

		pick, err := PickRandom(items)

		assert.NoError(t, err)
		assert.Equal(t, int64(42), pick.ID)
	})

	t.Run("pick is always a member", func(t *testing.T) {
		items := []models.LibraryItem{{ID: 1}, {ID: 2}, {ID: 3}}

		seen := make(map[int64]bool)
		for i := 0; i < 100; i++ {
			pick, err := PickRandom(items)
			assert.NoError(t, err)
			seen[pick.ID] = true
			assert.Contains(t, []int64{1, 2, 3}, pick.ID)
		}

		// 100 draws over 3 items should hit more than one of them.
		assert.Greater(t, len(seen), 1)
	})

	t.Run("picks are roughly uniform", func(t *testing.T) {
		items := []models.LibraryItem{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}

		const draws = 10000
		counts := make(map[int64]int, len(items))
		for i := 0; i < draws; i++ {
			pick, err := PickRandom(items)
			assert.NoError(t, err)
			counts[pick.ID]++
		}

		assert.Len(t, counts, len(items))

		// Expected 2500 per item; ±500 is over 10 standard deviations,
		// so a uniform picker essentially never trips this.
		for id, n := range counts {
			assert.InDelta(t, draws/len(items), n, 500, "item %d drawn %d times", id, n)
		}
	})
}
