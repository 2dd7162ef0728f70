package controllers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"savepoint/internal/models"
)

type ImportServicer interface {
	ImportLibrary(ctx context.Context, userID int64, identifier string) (int, error)
	ListImported(ctx context.Context, userID int64) ([]models.ImportedGame, error)
	ApproveImported(ctx context.Context, userID, importID int64, platform string, status models.LibraryItemStatus) (*models.LibraryItem, error)
	DismissImported(ctx context.Context, userID, importID int64) error
}

type StartImportRequest struct {
	Identifier string `json:"identifier"`
}

type StartImportResponse struct {
	Imported int `json:"imported"`
}

type ApproveImportRequest struct {
	Platform string                   `json:"platform"`
	Status   models.LibraryItemStatus `json:"status"`
}

type ImportController struct {
	service ImportServicer
	log     *slog.Logger
}

func NewImportController(s ImportServicer, log *slog.Logger) *ImportController {
	return &ImportController{service: s, log: log}
}

// Start fetches the Steam library into the staging table. The identifier is
// optional; without it the stored steam id or the SSO profile is used.
func (c *ImportController) Start(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.imports.Start"

	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	var req StartImportRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
			return
		}
	}

	count, err := c.service.ImportLibrary(r.Context(), userID, req.Identifier)
	if err != nil {
		c.log.Error(ErrImport.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		http.Error(w, ErrImport.Error(), errorStatus(err))
		return
	}

	writeJSON(w, c.log, http.StatusOK, StartImportResponse{Imported: count})
}

func (c *ImportController) List(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.imports.List"

	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	rows, err := c.service.ListImported(r.Context(), userID)
	if err != nil {
		c.log.Error(ErrGetItems.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		http.Error(w, ErrGetItems.Error(), errorStatus(err))
		return
	}

	writeJSON(w, c.log, http.StatusOK, rows)
}

func (c *ImportController) Approve(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.imports.Approve"

	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	importID, ok := itemIDFrom(w, r)
	if !ok {
		return
	}

	var req ApproveImportRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
			return
		}
	}

	item, err := c.service.ApproveImported(r.Context(), userID, importID, req.Platform, req.Status)
	if err != nil {
		c.log.Error(ErrCreate.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		http.Error(w, ErrCreate.Error(), errorStatus(err))
		return
	}

	writeJSON(w, c.log, http.StatusCreated, item)
}

func (c *ImportController) Dismiss(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.imports.Dismiss"

	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	importID, ok := itemIDFrom(w, r)
	if !ok {
		return
	}

	if err := c.service.DismissImported(r.Context(), userID, importID); err != nil {
		c.log.Error(ErrDelete.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		http.Error(w, ErrDelete.Error(), errorStatus(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
