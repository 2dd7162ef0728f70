package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"savepoint/internal/clients/hltb"
	"savepoint/internal/clients/igdb"
	"savepoint/internal/models"
	"savepoint/internal/storage/covers"
	"savepoint/internal/storage/mariadb"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PageSize is the fixed page size of every list view.
const PageSize = 20

// Search strings shorter than this are treated as "no search filter".
const minSearchLength = 3

// CatalogClient resolves canonical game data from the external catalog.
type CatalogClient interface {
	SearchGames(ctx context.Context, query string) ([]igdb.GameInfo, error)
	GetByID(ctx context.Context, id int64) (*igdb.GameInfo, error)
}

// EstimateClient fetches completion-length estimates by title.
type EstimateClient interface {
	Search(ctx context.Context, title string) (*hltb.Estimate, error)
}

type LibraryService struct {
	storage  *mariadb.Storage
	catalog  CatalogClient
	estimate EstimateClient
	covers   covers.ICovers
	client   *http.Client
	log      *slog.Logger
}

func NewLibraryService(
	s *mariadb.Storage,
	catalog CatalogClient,
	estimate EstimateClient,
	cv covers.ICovers,
	log *slog.Logger,
) *LibraryService {
	return &LibraryService{
		storage:  s,
		catalog:  catalog,
		estimate: estimate,
		covers:   cv,
		client:   &http.Client{Timeout: 30 * time.Second},
		log:      log,
	}
}

type AddGameRequest struct {
	IgdbID          int64                    `json:"igdb_id"`
	Title           string                   `json:"title"`
	Platform        string                   `json:"platform"`
	Status          models.LibraryItemStatus `json:"status"`
	AcquisitionType models.AcquisitionType   `json:"acquisition_type"`
	PlaytimeHours   *int                     `json:"playtime_hours"`
}

// AddGame creates a library item for the user, lazily creating the shared
// canonical Game on first use. Catalog, length-estimate and cover failures
// leave enrichment fields empty instead of failing the add.
func (s *LibraryService) AddGame(ctx context.Context, userID int64, req AddGameRequest) (*models.LibraryItem, error) {
	const op = "services.library.AddGame"

	if userID <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	if req.Status == "" {
		req.Status = models.StatusToPlay
	}
	if !req.Status.Valid() {
		return nil, fmt.Errorf("%s: unknown status %q: %w", op, req.Status, ErrInvalidArgument)
	}

	if req.AcquisitionType == "" {
		req.AcquisitionType = models.AcquisitionDigital
	}
	if !req.AcquisitionType.Valid() {
		return nil, fmt.Errorf("%s: unknown acquisition type %q: %w", op, req.AcquisitionType, ErrInvalidArgument)
	}

	if req.IgdbID == 0 && req.Title == "" {
		return nil, fmt.Errorf("%s: igdb id or title is required: %w", op, ErrInvalidArgument)
	}

	game, err := s.findOrCreateGame(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	timeNow := time.Now()
	item := &models.LibraryItem{
		UserID:          userID,
		GameID:          game.ID,
		Platform:        req.Platform,
		Status:          req.Status,
		AcquisitionType: req.AcquisitionType,
		PlaytimeHours:   req.PlaytimeHours,
		CreatedAt:       &timeNow,
		UpdatedAt:       &timeNow,
	}

	if err := s.storage.DB.WithContext(ctx).Create(item).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return item, nil
}

func (s *LibraryService) gameByIgdbID(db *gorm.DB, igdbID int64) (*models.Game, error) {
	var game models.Game
	err := db.Where("igdb_id = ?", igdbID).First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *LibraryService) findOrCreateGame(ctx context.Context, req AddGameRequest) (*models.Game, error) {
	db := s.storage.DB.WithContext(ctx)

	if req.IgdbID != 0 {
		existing, err := s.gameByIgdbID(db, req.IgdbID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	info := s.lookupCatalog(ctx, req)
	if info == nil && req.Title == "" {
		return nil, ErrUpstreamUnavailable
	}

	igdbID := req.IgdbID
	if info != nil && igdbID == 0 {
		igdbID = info.IgdbID
	}

	// A title-only add may resolve to a catalog id that already has a row.
	if igdbID != 0 && req.IgdbID == 0 {
		existing, err := s.gameByIgdbID(db, igdbID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	timeNow := time.Now()
	game := &models.Game{
		Title:     req.Title,
		CreatedAt: &timeNow,
		UpdatedAt: &timeNow,
	}
	if igdbID != 0 {
		game.IgdbID = &igdbID
	}

	// Locally supplied fields win over fetched ones.
	if info != nil {
		if game.Title == "" {
			game.Title = info.Title
		}
		game.Description = info.Description
		game.ReleaseYear = info.ReleaseYear
		game.Rating = info.Rating
		game.CoverImage = s.downloadCover(ctx, info.CoverURL)
	}

	if est := s.lookupEstimate(ctx, game.Title); est != nil {
		game.HltbID = est.ID
		game.MainStoryHours = est.MainStory
	}

	if err := db.Create(game).Error; err != nil {
		return nil, err
	}

	return game, nil
}

func (s *LibraryService) lookupCatalog(ctx context.Context, req AddGameRequest) *igdb.GameInfo {
	if s.catalog == nil {
		return nil
	}

	if req.IgdbID != 0 {
		info, err := s.catalog.GetByID(ctx, req.IgdbID)
		if err != nil {
			s.log.Warn("catalog lookup failed", slog.String("error", err.Error()), slog.Int64("igdb_id", req.IgdbID))
			return nil
		}
		return info
	}

	candidates, err := s.catalog.SearchGames(ctx, req.Title)
	if err != nil {
		s.log.Warn("catalog search failed", slog.String("error", err.Error()), slog.String("title", req.Title))
		return nil
	}
	if len(candidates) == 0 {
		return nil
	}
	return &candidates[0]
}

func (s *LibraryService) lookupEstimate(ctx context.Context, title string) *hltb.Estimate {
	if s.estimate == nil || title == "" {
		return nil
	}

	est, err := s.estimate.Search(ctx, title)
	if err != nil {
		s.log.Warn("length estimate lookup failed", slog.String("error", err.Error()), slog.String("title", title))
		return nil
	}
	return est
}

func (s *LibraryService) downloadCover(ctx context.Context, coverURL string) string {
	if coverURL == "" || s.covers == nil {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, coverURL, nil)
	if err != nil {
		return ""
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn("failed to download cover", slog.String("error", err.Error()), slog.String("url", coverURL))
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "image/") {
		return ""
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}

	filename := uuid.New().String() + extFromContentType(resp.Header.Get("Content-Type"))
	if err := s.covers.SaveCover(data, filename); err != nil {
		s.log.Warn("failed to save cover", slog.String("error", err.Error()), slog.String("filename", filename))
		return ""
	}

	return filename
}

func extFromContentType(contentType string) string {
	switch {
	case strings.Contains(contentType, "png"):
		return ".png"
	case strings.Contains(contentType, "gif"):
		return ".gif"
	case strings.Contains(contentType, "webp"):
		return ".webp"
	default:
		return ".jpg"
	}
}

const itemColumns = "library_items.id, library_items.user_id, library_items.game_id, " +
	"library_items.platform, library_items.status, library_items.acquisition_type, " +
	"library_items.playtime_hours, library_items.created_at, library_items.started_at, " +
	"library_items.completed_at, games.title, games.cover_image, games.release_year"

// GetItems applies the filter criteria and returns one page plus the total
// count of the filtered set (counted before pagination).
func (s *LibraryService) GetItems(ctx context.Context, userID int64, f models.ListFilter) ([]models.LibraryItemResponse, int, error) {
	const op = "services.library.GetItems"

	if userID <= 0 {
		return nil, 0, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * PageSize

	db := s.storage.DB.WithContext(ctx).
		Table("library_items").
		Select(itemColumns).
		Joins("JOIN games ON games.id = library_items.game_id").
		Where("library_items.user_id = ?", userID)

	if !f.IncludeDeleted {
		db = db.Where("library_items.deleted_at IS NULL")
	}

	if f.Status != nil {
		if !f.Status.Valid() {
			return nil, 0, fmt.Errorf("%s: unknown status %q: %w", op, *f.Status, ErrInvalidArgument)
		}
		db = db.Where("library_items.status = ?", *f.Status)
	} else {
		db = db.Where("library_items.status <> ?", models.StatusWishlist)
	}

	if f.Platform != "" {
		db = db.Where("library_items.platform = ?", f.Platform)
	}

	if len(f.Search) >= minSearchLength {
		db = db.Where("LOWER(games.title) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}

	var count int64
	if err := db.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	allowedSort := map[string]string{
		"created":   "library_items.created_at",
		"release":   "games.release_year",
		"started":   "library_items.started_at",
		"completed": "library_items.completed_at",
	}

	sortField, ok := allowedSort[f.SortBy]
	if !ok {
		sortField = "library_items.created_at"
	}

	sortOrder := "desc"
	if strings.ToLower(f.SortOrder) == "asc" {
		sortOrder = "asc"
	}

	var results []models.LibraryItemResponse
	if err := db.
		Order(fmt.Sprintf("%s %s", sortField, sortOrder)).
		Offset(offset).
		Limit(PageSize).
		Scan(&results).Error; err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return results, int(count), nil
}

// ownedItem loads an item and enforces existence (including the tombstone)
// and ownership, in that order.
func (s *LibraryService) ownedItem(db *gorm.DB, userID, itemID int64) (*models.LibraryItem, error) {
	var item models.LibraryItem
	err := db.First(&item, itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if item.DeletedAt != nil {
		return nil, ErrNotFound
	}
	if item.UserID != userID {
		return nil, ErrForbidden
	}
	return &item, nil
}

// ChangeStatus reassigns the item's status. Any-to-any transitions are
// allowed; the only guards are existence and ownership. CompletedAt and
// StartedAt are set once and never cleared by later transitions.
func (s *LibraryService) ChangeStatus(ctx context.Context, userID, itemID int64, target models.LibraryItemStatus) (*models.LibraryItem, error) {
	const op = "services.library.ChangeStatus"

	if userID <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}
	if !target.Valid() {
		return nil, fmt.Errorf("%s: unknown status %q: %w", op, target, ErrInvalidArgument)
	}

	tx := s.storage.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("%s: %w", op, tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	item, err := s.ownedItem(tx, userID, itemID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	timeNow := time.Now()
	item.Status = target
	item.UpdatedAt = &timeNow

	if target == models.StatusCompleted && item.CompletedAt == nil {
		item.CompletedAt = &timeNow
	}
	if target == models.StatusPlaying && item.StartedAt == nil {
		item.StartedAt = &timeNow
	}

	if err := tx.Save(item).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return item, nil
}

// SoftDelete sets the tombstone timestamp; the row is retained for audit.
func (s *LibraryService) SoftDelete(ctx context.Context, userID, itemID int64) error {
	const op = "services.library.SoftDelete"

	if userID <= 0 {
		return fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	tx := s.storage.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("%s: %w", op, tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	item, err := s.ownedItem(tx, userID, itemID)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	timeNow := time.Now()
	item.DeletedAt = &timeNow
	item.UpdatedAt = &timeNow

	if err := tx.Save(item).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// GetStatusCounts returns the per-status badge counters in one query.
func (s *LibraryService) GetStatusCounts(ctx context.Context, userID int64) ([]models.StatusCount, error) {
	const op = "services.library.GetStatusCounts"

	var counts []models.StatusCount
	err := s.storage.DB.WithContext(ctx).
		Model(&models.LibraryItem{}).
		Select("status, COUNT(*) as count").
		Where("user_id = ?", userID).
		Where("deleted_at IS NULL").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return counts, nil
}

// GetAggregatedPlaytime sums playtime estimates over the given statuses,
// counting missing estimates as zero. An empty status list means all
// non-wishlist statuses.
func (s *LibraryService) GetAggregatedPlaytime(ctx context.Context, userID int64, statuses []models.LibraryItemStatus) (int, error) {
	const op = "services.library.GetAggregatedPlaytime"

	db := s.storage.DB.WithContext(ctx).
		Model(&models.LibraryItem{}).
		Where("user_id = ?", userID).
		Where("deleted_at IS NULL")

	if len(statuses) > 0 {
		db = db.Where("status IN ?", statuses)
	} else {
		db = db.Where("status <> ?", models.StatusWishlist)
	}

	var total int64
	if err := db.Select("COALESCE(SUM(COALESCE(playtime_hours, 0)), 0)").Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return int(total), nil
}

// GetBacklogItems returns the user's TO_PLAY items in insertion order, the
// candidate set for the random picker.
func (s *LibraryService) GetBacklogItems(ctx context.Context, userID int64) ([]models.LibraryItem, error) {
	const op = "services.library.GetBacklogItems"

	var items []models.LibraryItem
	err := s.storage.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("status = ?", models.StatusToPlay).
		Where("deleted_at IS NULL").
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// GetGame returns one canonical game record.
func (s *LibraryService) GetGame(ctx context.Context, gameID int64) (*models.Game, error) {
	const op = "services.library.GetGame"

	var game models.Game
	err := s.storage.DB.WithContext(ctx).First(&game, gameID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &game, nil
}

// GetGroupedByGame returns the user's collection grouped by canonical game,
// in first-encounter order of the underlying items.
func (s *LibraryService) GetGroupedByGame(ctx context.Context, userID int64) ([]models.GameWithItems, error) {
	const op = "services.library.GetGroupedByGame"

	var items []models.LibraryItem
	err := s.storage.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("deleted_at IS NULL").
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	gameIDs := make([]int64, 0, len(items))
	seen := make(map[int64]bool, len(items))
	for _, it := range items {
		if !seen[it.GameID] {
			seen[it.GameID] = true
			gameIDs = append(gameIDs, it.GameID)
		}
	}

	games := make(map[int64]models.Game, len(gameIDs))
	if len(gameIDs) > 0 {
		var rows []models.Game
		if err := s.storage.DB.WithContext(ctx).Where("id IN ?", gameIDs).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		for _, g := range rows {
			games[g.ID] = g
		}
	}

	return GroupByGame(items, games), nil
}

func (s *LibraryService) profileByUsername(ctx context.Context, username string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.storage.DB.WithContext(ctx).Where("username = ?", username).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *LibraryService) itemsByUserAndStatus(ctx context.Context, userID int64, status models.LibraryItemStatus) ([]models.LibraryItemResponse, error) {
	var results []models.LibraryItemResponse
	err := s.storage.DB.WithContext(ctx).
		Table("library_items").
		Select(itemColumns).
		Joins("JOIN games ON games.id = library_items.game_id").
		Where("library_items.user_id = ?", userID).
		Where("library_items.status = ?", status).
		Where("library_items.deleted_at IS NULL").
		Order("library_items.created_at asc").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetBacklogByUsername is the public read-only backlog view.
func (s *LibraryService) GetBacklogByUsername(ctx context.Context, username string) ([]models.LibraryItemResponse, error) {
	const op = "services.library.GetBacklogByUsername"

	profile, err := s.profileByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.itemsByUserAndStatus(ctx, profile.UserID, models.StatusToPlay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// GetWishlistByUsername is the public read-only wishlist view.
func (s *LibraryService) GetWishlistByUsername(ctx context.Context, username string) ([]models.LibraryItemResponse, error) {
	const op = "services.library.GetWishlistByUsername"

	profile, err := s.profileByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.itemsByUserAndStatus(ctx, profile.UserID, models.StatusWishlist)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// GetOtherBacklogs returns every other named user's backlog, grouped by
// owner. Users without a username stay invisible.
func (s *LibraryService) GetOtherBacklogs(ctx context.Context, userID int64) ([]models.UserWithItems, error) {
	const op = "services.library.GetOtherBacklogs"

	var profiles []models.UserProfile
	err := s.storage.DB.WithContext(ctx).
		Where("username <> ''").
		Where("user_id <> ?", userID).
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	profileMap := make(map[int64]models.UserProfile, len(profiles))
	ownerIDs := make([]int64, 0, len(profiles))
	for _, p := range profiles {
		profileMap[p.UserID] = p
		ownerIDs = append(ownerIDs, p.UserID)
	}

	if len(ownerIDs) == 0 {
		return []models.UserWithItems{}, nil
	}

	var items []models.LibraryItem
	err = s.storage.DB.WithContext(ctx).
		Where("user_id IN ?", ownerIDs).
		Where("status = ?", models.StatusToPlay).
		Where("deleted_at IS NULL").
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return GroupByOwner(items, profileMap), nil
}
