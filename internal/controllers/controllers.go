package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"savepoint/internal/services"
)

var (
	ErrBadRequest  = errors.New("bad request")
	ErrInvalidID   = errors.New("invalid id")
	ErrGetItems    = errors.New("failed to get library items")
	ErrCreate      = errors.New("failed to create")
	ErrUpdate      = errors.New("failed to update")
	ErrDelete      = errors.New("failed to delete")
	ErrGetStats    = errors.New("failed to get stats")
	ErrImport      = errors.New("failed to import library")
	ErrGetReviews  = errors.New("failed to get reviews")
	ErrGetProfile  = errors.New("failed to get profile")
	ErrSaveProfile = errors.New("failed to save profile")
	ErrEncoding    = errors.New("failed to encode")
)

// errorStatus maps the service error taxonomy to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}
