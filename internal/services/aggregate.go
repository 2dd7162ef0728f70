package services

import (
	"savepoint/internal/models"
)

// GroupByGame folds items into per-game groups, keeping the first-encounter
// order of the input. Items whose game is missing from the lookup are skipped.
func GroupByGame(items []models.LibraryItem, games map[int64]models.Game) []models.GameWithItems {
	groups := make([]models.GameWithItems, 0)
	index := make(map[int64]int)

	for _, item := range items {
		game, ok := games[item.GameID]
		if !ok {
			continue
		}

		pos, ok := index[item.GameID]
		if !ok {
			pos = len(groups)
			index[item.GameID] = pos
			groups = append(groups, models.GameWithItems{Game: game})
		}
		groups[pos].Items = append(groups[pos].Items, item)
	}

	return groups
}

// GroupByOwner folds items into per-user groups keyed by the profile lookup.
// Items of users without a profile (no public username) are skipped.
func GroupByOwner(items []models.LibraryItem, profiles map[int64]models.UserProfile) []models.UserWithItems {
	groups := make([]models.UserWithItems, 0)
	index := make(map[int64]int)

	for _, item := range items {
		profile, ok := profiles[item.UserID]
		if !ok {
			continue
		}

		pos, ok := index[item.UserID]
		if !ok {
			pos = len(groups)
			index[item.UserID] = pos
			groups = append(groups, models.UserWithItems{
				UserID:   profile.UserID,
				Username: profile.Username,
			})
		}
		groups[pos].Items = append(groups[pos].Items, item)
	}

	return groups
}

// SumPlaytime totals the playtime estimates, counting nil as zero.
func SumPlaytime(items []models.LibraryItem) int {
	total := 0
	for _, item := range items {
		if item.PlaytimeHours != nil {
			total += *item.PlaytimeHours
		}
	}
	return total
}
