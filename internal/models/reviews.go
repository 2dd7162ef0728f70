package models

import "time"

// Review is a free-text reflection tied to one user and one game. A user may
// write any number of reviews for the same game.
type Review struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	UserID      int64      `json:"user_id" gorm:"index;not null"`
	GameID      int64      `json:"game_id" gorm:"index;not null"`
	Rating      *int       `json:"rating"`
	Content     string     `json:"content"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   *time.Time `json:"created_at"`
}
