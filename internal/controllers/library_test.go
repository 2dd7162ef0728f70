package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"savepoint/internal/middleware"
	"savepoint/internal/models"
	"savepoint/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockLibraryService struct {
	mock.Mock
}

func (m *MockLibraryService) AddGame(ctx context.Context, userID int64, req services.AddGameRequest) (*models.LibraryItem, error) {
	args := m.Called(userID, req)
	return args.Get(0).(*models.LibraryItem), args.Error(1)
}

func (m *MockLibraryService) GetItems(ctx context.Context, userID int64, f models.ListFilter) ([]models.LibraryItemResponse, int, error) {
	args := m.Called(userID, f)
	return args.Get(0).([]models.LibraryItemResponse), args.Int(1), args.Error(2)
}

func (m *MockLibraryService) ChangeStatus(ctx context.Context, userID, itemID int64, target models.LibraryItemStatus) (*models.LibraryItem, error) {
	args := m.Called(userID, itemID, target)
	return args.Get(0).(*models.LibraryItem), args.Error(1)
}

func (m *MockLibraryService) SoftDelete(ctx context.Context, userID, itemID int64) error {
	args := m.Called(userID, itemID)
	return args.Error(0)
}

func (m *MockLibraryService) GetStatusCounts(ctx context.Context, userID int64) ([]models.StatusCount, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.StatusCount), args.Error(1)
}

func (m *MockLibraryService) GetAggregatedPlaytime(ctx context.Context, userID int64, statuses []models.LibraryItemStatus) (int, error) {
	args := m.Called(userID, statuses)
	return args.Int(0), args.Error(1)
}

func (m *MockLibraryService) GetBacklogItems(ctx context.Context, userID int64) ([]models.LibraryItem, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.LibraryItem), args.Error(1)
}

func (m *MockLibraryService) GetGroupedByGame(ctx context.Context, userID int64) ([]models.GameWithItems, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.GameWithItems), args.Error(1)
}

func (m *MockLibraryService) GetGame(ctx context.Context, gameID int64) (*models.Game, error) {
	args := m.Called(gameID)
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockLibraryService) GetOtherBacklogs(ctx context.Context, userID int64) ([]models.UserWithItems, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.UserWithItems), args.Error(1)
}

func setupLibraryController() (*LibraryController, *MockLibraryService, *chi.Mux) {
	mockService := &MockLibraryService{}
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
	controller := NewLibraryController(mockService, logger)

	r := chi.NewRouter()
	r.Get("/api/library", controller.List)
	r.Post("/api/library", controller.Create)
	r.Get("/api/library/stats", controller.Stats)
	r.Get("/api/library/pick", controller.PickRandom)
	r.Patch("/api/library/{id}/status", controller.ChangeStatus)
	r.Delete("/api/library/{id}", controller.Delete)

	return controller, mockService, r
}

func authed(req *http.Request, userID int64) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func TestLibraryController_List(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		_, mockService, r := setupLibraryController()

		items := []models.LibraryItemResponse{
			{ID: 1, Title: "Hades", Status: models.StatusToPlay},
		}

		expectedFilter := models.ListFilter{Page: 1}
		mockService.On("GetItems", int64(1), expectedFilter).Return(items, 21, nil)

		req := authed(httptest.NewRequest("GET", "/api/library", nil), 1)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		resp := w.Result()
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var page PaginationResponse
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
		assert.Equal(t, 21, page.Total)
		assert.Equal(t, 2, page.Pages)
		assert.Equal(t, 1, page.Current)
		assert.Equal(t, services.PageSize, page.Size)
		assert.Len(t, page.Data, 1)

		mockService.AssertExpectations(t)
	})

	t.Run("status filter is passed through", func(t *testing.T) {
		_, mockService, r := setupLibraryController()

		wishlist := models.StatusWishlist
		expectedFilter := models.ListFilter{Page: 1, Status: &wishlist}
		mockService.On("GetItems", int64(1), expectedFilter).
			Return([]models.LibraryItemResponse{}, 0, nil)

		req := authed(httptest.NewRequest("GET", "/api/library?status=WISHLIST", nil), 1)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
		mockService.AssertExpectations(t)
	})

	t.Run("unauthorized without user", func(t *testing.T) {
		_, _, r := setupLibraryController()

		req := httptest.NewRequest("GET", "/api/library", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
	})
}

func TestLibraryController_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		_, mockService, r := setupLibraryController()

		item := &models.LibraryItem{ID: 7, GameID: 3, Status: models.StatusToPlay}
		mockService.On("AddGame", int64(1), mock.AnythingOfType("services.AddGameRequest")).
			Return(item, nil)

		body := bytes.NewBufferString(`{"title":"Hades","platform":"PC"}`)
		req := authed(httptest.NewRequest("POST", "/api/library", body), 1)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		resp := w.Result()
		defer resp.Body.Close()

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var created models.LibraryItem
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
		assert.Equal(t, int64(7), created.ID)

		mockService.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		_, _, r := setupLibraryController()

		body := bytes.NewBufferString(`{not json`)
		req := authed(httptest.NewRequest("POST", "/api/library", body), 1)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
	})

	t.Run("invalid argument maps to 400", func(t *testing.T) {
		_, mockService, r := setupLibraryController()

		mockService.On("AddGame", int64(1), mock.AnythingOfType("services.AddGameRequest")).
			Return((*models.LibraryItem)(nil), services.ErrInvalidArgument)

		body := bytes.NewBufferString(`{"status":"FINISHED"}`)
		req := authed(httptest.NewRequest("POST", "/api/library", body), 1)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
		mockService.AssertExpectations(t)
	})
}

func TestLibraryController_ChangeStatus(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		_, mockService, r := setupLibraryController()

		item := &models.LibraryItem{ID: 5, Status: models.StatusCompleted}
		mockService.On("ChangeStatus", int64(1), int64(5), models.StatusCompleted).
			Return(item, nil)

		body := bytes.NewBufferString(`{"status":"COMPLETED"}`)
		req := authed(httptest.NewRequest("PATCH", "/api/library/5/status", body), 1)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
		mockService.AssertExpectations(t)
	})

	t.Run("forbidden maps to 403", func(t *testing.T) {
		_, mockService, r := setupLibraryController()

		mockService.On("ChangeStatus", int64(1), int64(5), models.StatusPlaying).
			Return((*models.LibraryItem)(nil), services.ErrForbidden)

		body := bytes.NewBufferString(`{"status":"PLAYING"}`)
		req := authed(httptest.NewRequest("PATCH", "/api/library/5/status", body), 1)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Result().StatusCode)
		mockService.AssertExpectations(t)
	})

	t.Run("bad id", func(t *testing.T) {
		_, _, r := setupLibraryController()

		body := bytes.NewBufferString(`{"status":"PLAYING"}`)
		req := authed(httptest.NewRequest("PATCH", "/api/library/abc/status", body), 1)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
	})
}

func TestLibraryController_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		_, mockService, r := setupLibraryController()

		mockService.On("SoftDelete", int64(1), int64(5)).Return(nil)

		req := authed(httptest.NewRequest("DELETE", "/api/library/5", nil), 1)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Result().StatusCode)
		mockService.AssertExpectations(t)
	})

	t.Run("not found maps to 404", func(t *testing.T) {
		_, mockService, r := setupLibraryController()

		mockService.On("SoftDelete", int64(1), int64(99)).Return(services.ErrNotFound)

		req := authed(httptest.NewRequest("DELETE", "/api/library/99", nil), 1)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
		mockService.AssertExpectations(t)
	})
}

func TestLibraryController_Stats(t *testing.T) {
	_, mockService, r := setupLibraryController()

	counts := []models.StatusCount{
		{Status: models.StatusToPlay, Count: 12},
	}
	mockService.On("GetStatusCounts", int64(1)).Return(counts, nil)
	mockService.On("GetAggregatedPlaytime", int64(1),
		[]models.LibraryItemStatus{models.StatusToPlay}).Return(57, nil)

	req := authed(httptest.NewRequest("GET", "/api/library/stats", nil), 1)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stats StatsResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, 57, stats.BacklogPlaytime)
	assert.Len(t, stats.Counts, 1)

	mockService.AssertExpectations(t)
}

func TestLibraryController_PickRandom(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		_, mockService, r := setupLibraryController()

		items := []models.LibraryItem{{ID: 3, Status: models.StatusToPlay}}
		mockService.On("GetBacklogItems", int64(1)).Return(items, nil)

		req := authed(httptest.NewRequest("GET", "/api/library/pick", nil), 1)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		resp := w.Result()
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var pick models.LibraryItem
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&pick))
		assert.Equal(t, int64(3), pick.ID)

		mockService.AssertExpectations(t)
	})

	t.Run("empty backlog maps to 400", func(t *testing.T) {
		_, mockService, r := setupLibraryController()

		mockService.On("GetBacklogItems", int64(1)).Return([]models.LibraryItem{}, nil)

		req := authed(httptest.NewRequest("GET", "/api/library/pick", nil), 1)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
		mockService.AssertExpectations(t)
	})
}
