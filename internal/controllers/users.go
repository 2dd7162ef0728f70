package controllers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"savepoint/internal/models"
)

type UserServicer interface {
	UpsertProfile(ctx context.Context, userID int64, username string) (*models.UserProfile, error)
	GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error)
}

type UpsertProfileRequest struct {
	Username string `json:"username"`
}

type UserController struct {
	service UserServicer
	log     *slog.Logger
}

func NewUserController(s UserServicer, log *slog.Logger) *UserController {
	return &UserController{service: s, log: log}
}

func (c *UserController) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.users.UpsertProfile"

	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	var req UpsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	profile, err := c.service.UpsertProfile(r.Context(), userID, req.Username)
	if err != nil {
		c.log.Error(ErrSaveProfile.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		http.Error(w, ErrSaveProfile.Error(), errorStatus(err))
		return
	}

	writeJSON(w, c.log, http.StatusOK, profile)
}

func (c *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.users.GetProfile"

	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	profile, err := c.service.GetProfile(r.Context(), userID)
	if err != nil {
		c.log.Error(ErrGetProfile.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		http.Error(w, ErrGetProfile.Error(), errorStatus(err))
		return
	}

	writeJSON(w, c.log, http.StatusOK, profile)
}
