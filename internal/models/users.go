package models

import "time"

// UserProfile holds the app-local profile for an SSO user. Username is what
// the public backlog and wishlist views are keyed by; users without one stay
// invisible there.
type UserProfile struct {
	UserID    int64      `json:"user_id" gorm:"primaryKey"`
	Username  string     `json:"username" gorm:"size:64;uniqueIndex"`
	SteamID   string     `json:"steam_id" gorm:"size:32"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
