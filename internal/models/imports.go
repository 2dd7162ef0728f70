package models

import "time"

// ImportedGame is a staging row for one merged Steam library entry that has
// not been reconciled into a LibraryItem yet. Playtime fields are minutes,
// as reported by Steam. Rows are removed once approved or dismissed.
type ImportedGame struct {
	ID              int64      `json:"id" gorm:"primaryKey"`
	UserID          int64      `json:"user_id" gorm:"index;not null"`
	Name            string     `json:"name" gorm:"size:255;not null"`
	SteamAppID      int64      `json:"steam_app_id"`
	Playtime        int64      `json:"playtime"`
	PlaytimeWindows int64      `json:"playtime_windows"`
	PlaytimeMac     int64      `json:"playtime_mac"`
	PlaytimeLinux   int64      `json:"playtime_linux"`
	IconURL         string     `json:"icon_url" gorm:"size:500"`
	CreatedAt       *time.Time `json:"created_at"`
}
