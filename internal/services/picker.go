package services

import (
	"fmt"
	"math/rand/v2"

	"savepoint/internal/models"
)

// PickRandom selects one candidate uniformly at random. An empty candidate
// set is a caller error, not a crash.
func PickRandom(items []models.LibraryItem) (*models.LibraryItem, error) {
	const op = "services.picker.PickRandom"

	if len(items) == 0 {
		return nil, fmt.Errorf("%s: nothing to pick from: %w", op, ErrInvalidArgument)
	}

	return &items[rand.IntN(len(items))], nil
}
