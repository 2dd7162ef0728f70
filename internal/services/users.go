package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"savepoint/internal/models"
	"savepoint/internal/storage/mariadb"

	"gorm.io/gorm"
)

type UserService struct {
	storage *mariadb.Storage
	log     *slog.Logger
}

func NewUserService(s *mariadb.Storage, log *slog.Logger) *UserService {
	return &UserService{storage: s, log: log}
}

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)

// UpsertProfile claims or changes the caller's public username. Usernames
// are unique across the app; a taken name is rejected.
func (s *UserService) UpsertProfile(ctx context.Context, userID int64, username string) (*models.UserProfile, error) {
	const op = "services.users.UpsertProfile"

	if userID <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	if !usernameRe.MatchString(username) {
		return nil, fmt.Errorf("%s: invalid username %q: %w", op, username, ErrInvalidArgument)
	}

	var existing models.UserProfile
	err := s.storage.DB.WithContext(ctx).Where("username = ?", username).First(&existing).Error
	if err == nil && existing.UserID != userID {
		return nil, fmt.Errorf("%s: username %q is taken: %w", op, username, ErrInvalidArgument)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	timeNow := time.Now()

	var profile models.UserProfile
	err = s.storage.DB.WithContext(ctx).First(&profile, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.UserProfile{
			UserID:    userID,
			Username:  username,
			CreatedAt: &timeNow,
			UpdatedAt: &timeNow,
		}
		if err := s.storage.DB.WithContext(ctx).Create(&profile).Error; err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &profile, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	profile.Username = username
	profile.UpdatedAt = &timeNow
	if err := s.storage.DB.WithContext(ctx).Save(&profile).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &profile, nil
}

// GetProfile returns the caller's profile, or ErrNotFound if none was
// created yet.
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	const op = "services.users.GetProfile"

	var profile models.UserProfile
	err := s.storage.DB.WithContext(ctx).First(&profile, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &profile, nil
}
