package models

import "time"

// Game is the canonical record shared by every library entry that references
// it. It is created lazily the first time any user adds the game and is
// unique by IGDB id.
type Game struct {
	ID             int64      `json:"id" gorm:"primaryKey"`
	Title          string     `json:"title" gorm:"size:255;not null"`
	IgdbID         *int64     `json:"igdb_id" gorm:"uniqueIndex"`
	HltbID         int64      `json:"hltb_id"`
	CoverImage     string     `json:"cover_image" gorm:"size:500"`
	Description    string     `json:"description"`
	ReleaseYear    string     `json:"release_year" gorm:"size:20"`
	Rating         float64    `json:"rating"`
	MainStoryHours int        `json:"main_story_hours"`
	CreatedAt      *time.Time `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
}
