package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"savepoint/internal/models"

	"github.com/go-chi/chi/v5"
)

// PublicServicer serves the read-only share views, no authentication.
type PublicServicer interface {
	GetBacklogByUsername(ctx context.Context, username string) ([]models.LibraryItemResponse, error)
	GetWishlistByUsername(ctx context.Context, username string) ([]models.LibraryItemResponse, error)
}

type PublicController struct {
	service PublicServicer
	log     *slog.Logger
}

func NewPublicController(s PublicServicer, log *slog.Logger) *PublicController {
	return &PublicController{service: s, log: log}
}

func (c *PublicController) GetBacklog(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.public.GetBacklog"

	username := chi.URLParam(r, "username")
	items, err := c.service.GetBacklogByUsername(r.Context(), username)
	if err != nil {
		c.log.Error(ErrGetItems.Error(),
			slog.String("operation", op),
			slog.String("username", username),
			slog.String("error", err.Error()))
		http.Error(w, ErrGetItems.Error(), errorStatus(err))
		return
	}

	writeJSON(w, c.log, http.StatusOK, items)
}

func (c *PublicController) GetWishlist(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.public.GetWishlist"

	username := chi.URLParam(r, "username")
	items, err := c.service.GetWishlistByUsername(r.Context(), username)
	if err != nil {
		c.log.Error(ErrGetItems.Error(),
			slog.String("operation", op),
			slog.String("username", username),
			slog.String("error", err.Error()))
		http.Error(w, ErrGetItems.Error(), errorStatus(err))
		return
	}

	writeJSON(w, c.log, http.StatusOK, items)
}
