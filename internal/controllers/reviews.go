package controllers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"savepoint/internal/models"
	"savepoint/internal/services"
)

type ReviewServicer interface {
	CreateReview(ctx context.Context, userID int64, req services.CreateReviewRequest) (*models.Review, error)
	GetReviewsForGame(ctx context.Context, gameID int64) ([]models.Review, error)
	GetReviewsForUser(ctx context.Context, userID int64) ([]models.Review, error)
	DeleteReview(ctx context.Context, userID, reviewID int64) error
}

type ReviewController struct {
	service ReviewServicer
	log     *slog.Logger
}

func NewReviewController(s ReviewServicer, log *slog.Logger) *ReviewController {
	return &ReviewController{service: s, log: log}
}

func (c *ReviewController) Create(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.reviews.Create"

	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	var req services.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	review, err := c.service.CreateReview(r.Context(), userID, req)
	if err != nil {
		c.log.Error(ErrCreate.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		http.Error(w, ErrCreate.Error(), errorStatus(err))
		return
	}

	writeJSON(w, c.log, http.StatusCreated, review)
}

// ListForGame lists every review of one game, regardless of author.
func (c *ReviewController) ListForGame(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.reviews.ListForGame"

	gameID, ok := itemIDFrom(w, r)
	if !ok {
		return
	}

	reviews, err := c.service.GetReviewsForGame(r.Context(), gameID)
	if err != nil {
		c.log.Error(ErrGetReviews.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		http.Error(w, ErrGetReviews.Error(), errorStatus(err))
		return
	}

	writeJSON(w, c.log, http.StatusOK, reviews)
}

// ListMine lists every review the caller wrote.
func (c *ReviewController) ListMine(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.reviews.ListMine"

	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	reviews, err := c.service.GetReviewsForUser(r.Context(), userID)
	if err != nil {
		c.log.Error(ErrGetReviews.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		http.Error(w, ErrGetReviews.Error(), errorStatus(err))
		return
	}

	writeJSON(w, c.log, http.StatusOK, reviews)
}

func (c *ReviewController) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.reviews.Delete"

	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	reviewID, ok := itemIDFrom(w, r)
	if !ok {
		return
	}

	if err := c.service.DeleteReview(r.Context(), userID, reviewID); err != nil {
		c.log.Error(ErrDelete.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		http.Error(w, ErrDelete.Error(), errorStatus(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
