package models

import "time"

type LibraryItemStatus string

const (
	StatusToPlay     LibraryItemStatus = "TO_PLAY"
	StatusPlaying    LibraryItemStatus = "PLAYING"
	StatusPlayed     LibraryItemStatus = "PLAYED"
	StatusCompleted  LibraryItemStatus = "COMPLETED"
	StatusWishlist   LibraryItemStatus = "WISHLIST"
	StatusRevisiting LibraryItemStatus = "REVISITING"
)

func AllStatuses() []LibraryItemStatus {
	return []LibraryItemStatus{
		StatusToPlay,
		StatusPlaying,
		StatusPlayed,
		StatusCompleted,
		StatusWishlist,
		StatusRevisiting,
	}
}

func (s LibraryItemStatus) Valid() bool {
	switch s {
	case StatusToPlay, StatusPlaying, StatusPlayed, StatusCompleted, StatusWishlist, StatusRevisiting:
		return true
	}
	return false
}

type AcquisitionType string

const (
	AcquisitionPhysical     AcquisitionType = "PHYSICAL"
	AcquisitionDigital      AcquisitionType = "DIGITAL"
	AcquisitionSubscription AcquisitionType = "SUBSCRIPTION"
)

func (a AcquisitionType) Valid() bool {
	switch a {
	case AcquisitionPhysical, AcquisitionDigital, AcquisitionSubscription:
		return true
	}
	return false
}

// LibraryItem is one user's record of owning or wanting a game on a platform.
// DeletedAt is an explicit tombstone: list and get operations exclude
// tombstoned rows unless asked otherwise, the row itself is never removed.
type LibraryItem struct {
	ID              int64             `json:"id" gorm:"primaryKey"`
	UserID          int64             `json:"user_id" gorm:"index;not null"`
	GameID          int64             `json:"game_id" gorm:"index;not null"`
	Platform        string            `json:"platform" gorm:"size:100"`
	Status          LibraryItemStatus `json:"status" gorm:"type:varchar(20);default:'TO_PLAY'"`
	AcquisitionType AcquisitionType   `json:"acquisition_type" gorm:"type:varchar(20);default:'DIGITAL'"`
	PlaytimeHours   *int              `json:"playtime_hours"`
	CreatedAt       *time.Time        `json:"created_at"`
	UpdatedAt       *time.Time        `json:"updated_at"`
	StartedAt       *time.Time        `json:"started_at"`
	CompletedAt     *time.Time        `json:"completed_at"`
	DeletedAt       *time.Time        `json:"deleted_at" gorm:"index"`
}

// LibraryItemResponse is the joined row returned by list views.
type LibraryItemResponse struct {
	ID              int64             `json:"id"`
	UserID          int64             `json:"user_id"`
	GameID          int64             `json:"game_id"`
	Platform        string            `json:"platform"`
	Status          LibraryItemStatus `json:"status"`
	AcquisitionType AcquisitionType   `json:"acquisition_type"`
	PlaytimeHours   *int              `json:"playtime_hours"`
	CreatedAt       *time.Time        `json:"created_at"`
	StartedAt       *time.Time        `json:"started_at"`
	CompletedAt     *time.Time        `json:"completed_at"`
	Title           string            `json:"title"`
	CoverImage      string            `json:"cover_image"`
	ReleaseYear     string            `json:"release_year"`
}

type GameWithItems struct {
	Game  Game          `json:"game"`
	Items []LibraryItem `json:"items"`
}

type UserWithItems struct {
	UserID   int64         `json:"user_id"`
	Username string        `json:"username"`
	Items    []LibraryItem `json:"items"`
}

type StatusCount struct {
	Status LibraryItemStatus `json:"status"`
	Count  int64             `json:"count"`
}

// ListFilter carries the user-supplied list criteria. A nil Status means
// "all non-wishlist statuses".
type ListFilter struct {
	Platform       string
	Status         *LibraryItemStatus
	Search         string
	SortBy         string
	SortOrder      string
	Page           int
	IncludeDeleted bool
}
