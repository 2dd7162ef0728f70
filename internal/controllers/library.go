package controllers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"savepoint/internal/middleware"
	"savepoint/internal/models"
	"savepoint/internal/services"

	"github.com/go-chi/chi/v5"
)

type LibraryServicer interface {
	AddGame(ctx context.Context, userID int64, req services.AddGameRequest) (*models.LibraryItem, error)
	GetItems(ctx context.Context, userID int64, f models.ListFilter) ([]models.LibraryItemResponse, int, error)
	ChangeStatus(ctx context.Context, userID, itemID int64, target models.LibraryItemStatus) (*models.LibraryItem, error)
	SoftDelete(ctx context.Context, userID, itemID int64) error
	GetStatusCounts(ctx context.Context, userID int64) ([]models.StatusCount, error)
	GetAggregatedPlaytime(ctx context.Context, userID int64, statuses []models.LibraryItemStatus) (int, error)
	GetBacklogItems(ctx context.Context, userID int64) ([]models.LibraryItem, error)
	GetGroupedByGame(ctx context.Context, userID int64) ([]models.GameWithItems, error)
	GetGame(ctx context.Context, gameID int64) (*models.Game, error)
	GetOtherBacklogs(ctx context.Context, userID int64) ([]models.UserWithItems, error)
}

type PaginationResponse struct {
	Total   int                          `json:"total"`
	Pages   int                          `json:"pages"`
	Current int                          `json:"current"`
	Size    int                          `json:"size"`
	Data    []models.LibraryItemResponse `json:"data"`
}

type ChangeStatusRequest struct {
	Status models.LibraryItemStatus `json:"status"`
}

type StatsResponse struct {
	Counts          []models.StatusCount `json:"counts"`
	BacklogPlaytime int                  `json:"backlog_playtime_hours"`
}

type LibraryController struct {
	service LibraryServicer
	log     *slog.Logger
}

func NewLibraryController(s LibraryServicer, log *slog.Logger) *LibraryController {
	return &LibraryController{service: s, log: log}
}

func userIDFrom(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok || userID <= 0 {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return 0, false
	}
	return userID, true
}

func itemIDFrom(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, ErrInvalidID.Error(), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (c *LibraryController) Create(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.library.Create"

	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	var req services.AddGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	item, err := c.service.AddGame(r.Context(), userID, req)
	if err != nil {
		c.log.Error(ErrCreate.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		http.Error(w, ErrCreate.Error(), errorStatus(err))
		return
	}

	writeJSON(w, c.log, http.StatusCreated, item)
}

// List serves the paginated library view. Query parameters: page, status,
// platform, search, sort_by, order, include_deleted.
func (c *LibraryController) List(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.library.List"

	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()

	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	filter := models.ListFilter{
		Platform:       query.Get("platform"),
		Search:         query.Get("search"),
		SortBy:         query.Get("sort_by"),
		SortOrder:      query.Get("order"),
		Page:           page,
		IncludeDeleted: query.Get("include_deleted") == "true",
	}

	if raw := query.Get("status"); raw != "" {
		status := models.LibraryItemStatus(raw)
		filter.Status = &status
	}

	items, total, err := c.service.GetItems(r.Context(), userID, filter)
	if err != nil {
		c.log.Error(ErrGetItems.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		http.Error(w, ErrGetItems.Error(), errorStatus(err))
		return
	}

	totalPages := total / services.PageSize
	if total%services.PageSize != 0 {
		totalPages++
	}

	writeJSON(w, c.log, http.StatusOK, PaginationResponse{
		Total:   total,
		Pages:   totalPages,
		Current: page,
		Size:    services.PageSize,
		Data:    items,
	})
}

func (c *LibraryController) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.library.ChangeStatus"

	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	itemID, ok := itemIDFrom(w, r)
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	item, err := c.service.ChangeStatus(r.Context(), userID, itemID, req.Status)
	if err != nil {
		c.log.Error(ErrUpdate.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		http.Error(w, ErrUpdate.Error(), errorStatus(err))
		return
	}

	writeJSON(w, c.log, http.StatusOK, item)
}

func (c *LibraryController) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.library.Delete"

	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	itemID, ok := itemIDFrom(w, r)
	if !ok {
		return
	}

	if err := c.service.SoftDelete(r.Context(), userID, itemID); err != nil {
		c.log.Error(ErrDelete.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		http.Error(w, ErrDelete.Error(), errorStatus(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Stats runs the two independent reads in parallel and combines the result.
func (c *LibraryController) Stats(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.library.Stats"

	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	var (
		wg       sync.WaitGroup
		counts   []models.StatusCount
		playtime int
		countErr error
		timeErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		counts, countErr = c.service.GetStatusCounts(r.Context(), userID)
	}()
	go func() {
		defer wg.Done()
		playtime, timeErr = c.service.GetAggregatedPlaytime(r.Context(), userID,
			[]models.LibraryItemStatus{models.StatusToPlay})
	}()
	wg.Wait()

	if countErr != nil || timeErr != nil {
		err := countErr
		if err == nil {
			err = timeErr
		}
		c.log.Error(ErrGetStats.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		http.Error(w, ErrGetStats.Error(), errorStatus(err))
		return
	}

	writeJSON(w, c.log, http.StatusOK, StatsResponse{
		Counts:          counts,
		BacklogPlaytime: playtime,
	})
}

// PickRandom answers "what should I play next" with one random backlog item.
func (c *LibraryController) PickRandom(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.library.PickRandom"

	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	items, err := c.service.GetBacklogItems(r.Context(), userID)
	if err != nil {
		c.log.Error(ErrGetItems.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		http.Error(w, ErrGetItems.Error(), errorStatus(err))
		return
	}

	pick, err := services.PickRandom(items)
	if err != nil {
		http.Error(w, "backlog is empty", errorStatus(err))
		return
	}

	writeJSON(w, c.log, http.StatusOK, pick)
}

func (c *LibraryController) GroupedByGame(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.library.GroupedByGame"

	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	groups, err := c.service.GetGroupedByGame(r.Context(), userID)
	if err != nil {
		c.log.Error(ErrGetItems.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		http.Error(w, ErrGetItems.Error(), errorStatus(err))
		return
	}

	writeJSON(w, c.log, http.StatusOK, groups)
}

func (c *LibraryController) GetGame(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.library.GetGame"

	if _, ok := userIDFrom(w, r); !ok {
		return
	}

	gameID, ok := itemIDFrom(w, r)
	if !ok {
		return
	}

	game, err := c.service.GetGame(r.Context(), gameID)
	if err != nil {
		c.log.Error(ErrGetItems.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		http.Error(w, ErrGetItems.Error(), errorStatus(err))
		return
	}

	writeJSON(w, c.log, http.StatusOK, game)
}

// OtherBacklogs lists every other named user's backlog for browsing.
func (c *LibraryController) OtherBacklogs(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.library.OtherBacklogs"

	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}

	groups, err := c.service.GetOtherBacklogs(r.Context(), userID)
	if err != nil {
		c.log.Error(ErrGetItems.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		http.Error(w, ErrGetItems.Error(), errorStatus(err))
		return
	}

	writeJSON(w, c.log, http.StatusOK, groups)
}
