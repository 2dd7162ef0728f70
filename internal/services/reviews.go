package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"savepoint/internal/models"
	"savepoint/internal/storage/mariadb"

	"gorm.io/gorm"
)

type ReviewService struct {
	storage *mariadb.Storage
	log     *slog.Logger
}

func NewReviewService(s *mariadb.Storage, log *slog.Logger) *ReviewService {
	return &ReviewService{storage: s, log: log}
}

type CreateReviewRequest struct {
	GameID      int64      `json:"game_id"`
	Rating      *int       `json:"rating"`
	Content     string     `json:"content"`
	CompletedAt *time.Time `json:"completed_at"`
}

// CreateReview attaches a review to a game. Rating is optional but must be
// 1..10 when present; the game has to exist.
func (s *ReviewService) CreateReview(ctx context.Context, userID int64, req CreateReviewRequest) (*models.Review, error) {
	const op = "services.reviews.CreateReview"

	if userID <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 10) {
		return nil, fmt.Errorf("%s: rating must be between 1 and 10: %w", op, ErrInvalidArgument)
	}

	if req.Rating == nil && req.Content == "" {
		return nil, fmt.Errorf("%s: review is empty: %w", op, ErrInvalidArgument)
	}

	var game models.Game
	err := s.storage.DB.WithContext(ctx).First(&game, req.GameID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	timeNow := time.Now()
	review := &models.Review{
		UserID:      userID,
		GameID:      req.GameID,
		Rating:      req.Rating,
		Content:     req.Content,
		CompletedAt: req.CompletedAt,
		CreatedAt:   &timeNow,
	}

	if err := s.storage.DB.WithContext(ctx).Create(review).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return review, nil
}

// GetReviewsForGame lists every review of one game, newest first. Reviews
// are shared content, not scoped to their author.
func (s *ReviewService) GetReviewsForGame(ctx context.Context, gameID int64) ([]models.Review, error) {
	const op = "services.reviews.GetReviewsForGame"

	var reviews []models.Review
	err := s.storage.DB.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("created_at desc").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return reviews, nil
}

// GetReviewsForUser lists everything the caller ever wrote, newest first.
func (s *ReviewService) GetReviewsForUser(ctx context.Context, userID int64) ([]models.Review, error) {
	const op = "services.reviews.GetReviewsForUser"

	var reviews []models.Review
	err := s.storage.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return reviews, nil
}

// DeleteReview removes one of the caller's reviews.
func (s *ReviewService) DeleteReview(ctx context.Context, userID, reviewID int64) error {
	const op = "services.reviews.DeleteReview"

	var review models.Review
	err := s.storage.DB.WithContext(ctx).First(&review, reviewID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if review.UserID != userID {
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	if err := s.storage.DB.WithContext(ctx).Delete(&models.Review{}, review.ID).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
