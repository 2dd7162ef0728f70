package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"savepoint/internal/models"
	"savepoint/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPublicService struct {
	mock.Mock
}

func (m *MockPublicService) GetBacklogByUsername(ctx context.Context, username string) ([]models.LibraryItemResponse, error) {
	args := m.Called(username)
	return args.Get(0).([]models.LibraryItemResponse), args.Error(1)
}

func (m *MockPublicService) GetWishlistByUsername(ctx context.Context, username string) ([]models.LibraryItemResponse, error) {
	args := m.Called(username)
	return args.Get(0).([]models.LibraryItemResponse), args.Error(1)
}

func setupPublicController() (*MockPublicService, *chi.Mux) {
	mockService := &MockPublicService{}
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
	controller := NewPublicController(mockService, logger)

	r := chi.NewRouter()
	r.Get("/public/{username}/backlog", controller.GetBacklog)
	r.Get("/public/{username}/wishlist", controller.GetWishlist)

	return mockService, r
}

func TestPublicController_GetBacklog(t *testing.T) {
	t.Run("success without auth", func(t *testing.T) {
		mockService, r := setupPublicController()

		items := []models.LibraryItemResponse{
			{ID: 1, Title: "Hades", Status: models.StatusToPlay},
		}
		mockService.On("GetBacklogByUsername", "alice").Return(items, nil)

		req := httptest.NewRequest("GET", "/public/alice/backlog", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		resp := w.Result()
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got []models.LibraryItemResponse
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Len(t, got, 1)
		assert.Equal(t, "Hades", got[0].Title)

		mockService.AssertExpectations(t)
	})

	t.Run("unknown username maps to 404", func(t *testing.T) {
		mockService, r := setupPublicController()

		mockService.On("GetBacklogByUsername", "nobody").
			Return([]models.LibraryItemResponse(nil), services.ErrNotFound)

		req := httptest.NewRequest("GET", "/public/nobody/backlog", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
		mockService.AssertExpectations(t)
	})
}

func TestPublicController_GetWishlist(t *testing.T) {
	mockService, r := setupPublicController()

	items := []models.LibraryItemResponse{
		{ID: 2, Title: "Silksong", Status: models.StatusWishlist},
	}
	mockService.On("GetWishlistByUsername", "alice").Return(items, nil)

	req := httptest.NewRequest("GET", "/public/alice/wishlist", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got []models.LibraryItemResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Len(t, got, 1)
	assert.Equal(t, models.StatusWishlist, got[0].Status)

	mockService.AssertExpectations(t)
}
