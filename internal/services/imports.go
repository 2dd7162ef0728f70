package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"savepoint/internal/clients/steam"
	"savepoint/internal/models"
	"savepoint/internal/storage/mariadb"

	"gorm.io/gorm"
)

// SteamClient is the slice of the Steam Web API the importer needs.
type SteamClient interface {
	ResolveVanityURL(ctx context.Context, vanity string) (string, error)
	GetOwnedGames(ctx context.Context, steamID string) ([]steam.OwnedGame, error)
}

// IdentityClient exposes the SSO profile lookup used as a steam id fallback.
type IdentityClient interface {
	GetUserInfo(ctx context.Context, userID int64) (email, steamURL, photo string, err error)
}

type ImportService struct {
	storage *mariadb.Storage
	steam   SteamClient
	sso     IdentityClient
	library *LibraryService
	log     *slog.Logger
}

func NewImportService(
	s *mariadb.Storage,
	steamClient SteamClient,
	sso IdentityClient,
	library *LibraryService,
	log *slog.Logger,
) *ImportService {
	return &ImportService{
		storage: s,
		steam:   steamClient,
		sso:     sso,
		library: library,
		log:     log,
	}
}

var (
	steamID64Re  = regexp.MustCompile(`^\d{17}$`)
	profileURLRe = regexp.MustCompile(`steamcommunity\.com/profiles/(\d{17})`)
	vanityURLRe  = regexp.MustCompile(`steamcommunity\.com/id/([^/?#]+)`)

	// Suffixes Steam tacks onto app names that should merge into the base game.
	titleNoiseRe = regexp.MustCompile(`(?i)\b(demo|beta|soundtrack|test)\b`)
	titleYearRe  = regexp.MustCompile(`\(\d{4}\)`)
	spacesRe     = regexp.MustCompile(`\s+`)
)

// normalizeSteamTitle reduces a Steam app name to a merge key: trademark
// symbols, colons, hyphens, edition noise words and parenthesized years go,
// whitespace collapses, case folds.
func normalizeSteamTitle(name string) string {
	cleaned := strings.NewReplacer("™", "", "©", "", "®", "", ":", "", "-", "").Replace(name)
	cleaned = titleYearRe.ReplaceAllString(cleaned, "")
	cleaned = titleNoiseRe.ReplaceAllString(cleaned, "")
	cleaned = spacesRe.ReplaceAllString(cleaned, " ")
	return strings.ToLower(strings.TrimSpace(cleaned))
}

// MergeOwnedGames folds duplicate Steam apps (demos, betas, soundtracks of
// the same game) into one entry per normalized title. The first occurrence
// is canonical; playtime fields are summed across the group.
func MergeOwnedGames(games []steam.OwnedGame) []steam.OwnedGame {
	merged := make([]steam.OwnedGame, 0, len(games))
	index := make(map[string]int, len(games))

	for _, g := range games {
		key := normalizeSteamTitle(g.Name)
		if key == "" {
			continue
		}

		pos, ok := index[key]
		if !ok {
			index[key] = len(merged)
			merged = append(merged, g)
			continue
		}

		merged[pos].PlaytimeForever += g.PlaytimeForever
		merged[pos].PlaytimeWindows += g.PlaytimeWindows
		merged[pos].PlaytimeMac += g.PlaytimeMac
		merged[pos].PlaytimeLinux += g.PlaytimeLinux
	}

	return merged
}

// suggestStatus maps imported playtime to an initial lifecycle status:
// untouched games go to the backlog, everything else counts as played.
func suggestStatus(playtimeMinutes int64) models.LibraryItemStatus {
	if playtimeMinutes == 0 {
		return models.StatusToPlay
	}
	return models.StatusPlayed
}

// resolveSteamID turns whatever the user pasted (a 64-bit id, a vanity name
// or a full profile URL) into a 64-bit steam id. Empty result means the
// identifier could not be resolved.
func (s *ImportService) resolveSteamID(ctx context.Context, identifier string) (string, error) {
	identifier = strings.TrimSpace(identifier)

	if steamID64Re.MatchString(identifier) {
		return identifier, nil
	}

	if m := profileURLRe.FindStringSubmatch(identifier); m != nil {
		return m[1], nil
	}

	vanity := identifier
	if m := vanityURLRe.FindStringSubmatch(identifier); m != nil {
		vanity = m[1]
	}
	if vanity == "" {
		return "", nil
	}

	return s.steam.ResolveVanityURL(ctx, vanity)
}

// steamIDFallback digs up a steam id when the request carried none: first
// the stored profile, then the SSO account's steam url.
func (s *ImportService) steamIDFallback(ctx context.Context, userID int64) (string, error) {
	var profile models.UserProfile
	err := s.storage.DB.WithContext(ctx).First(&profile, userID).Error
	if err == nil && profile.SteamID != "" {
		return profile.SteamID, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	if s.sso == nil {
		return "", nil
	}

	_, steamURL, _, err := s.sso.GetUserInfo(ctx, userID)
	if err != nil {
		s.log.Warn("sso profile lookup failed", slog.String("error", err.Error()), slog.Int64("user_id", userID))
		return "", nil
	}
	if steamURL == "" {
		return "", nil
	}

	return s.resolveSteamID(ctx, steamURL)
}

// ImportLibrary fetches the user's Steam library, merges duplicate titles
// and replaces the user's staging rows with the result. Returns the number
// of staged entries.
func (s *ImportService) ImportLibrary(ctx context.Context, userID int64, identifier string) (int, error) {
	const op = "services.imports.ImportLibrary"

	if userID <= 0 {
		return 0, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	var steamID string
	var err error
	if identifier != "" {
		steamID, err = s.resolveSteamID(ctx, identifier)
	} else {
		steamID, err = s.steamIDFallback(ctx, userID)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	// An unresolvable identifier stages nothing; existing rows are untouched.
	if steamID == "" {
		s.log.Warn("steam id could not be resolved", slog.Int64("user_id", userID))
		return 0, nil
	}

	owned, err := s.steam.GetOwnedGames(ctx, steamID)
	if err != nil {
		if errors.Is(err, steam.ErrProfilePrivate) {
			return 0, fmt.Errorf("%s: steam profile is private: %w", op, ErrInvalidArgument)
		}
		return 0, fmt.Errorf("%s: %w", op, ErrUpstreamUnavailable)
	}

	merged := MergeOwnedGames(owned)

	timeNow := time.Now()
	rows := make([]models.ImportedGame, 0, len(merged))
	for _, g := range merged {
		rows = append(rows, models.ImportedGame{
			UserID:          userID,
			Name:            g.Name,
			SteamAppID:      g.AppID,
			Playtime:        g.PlaytimeForever,
			PlaytimeWindows: g.PlaytimeWindows,
			PlaytimeMac:     g.PlaytimeMac,
			PlaytimeLinux:   g.PlaytimeLinux,
			IconURL:         g.ImgIconURL,
			CreatedAt:       &timeNow,
		})
	}

	tx := s.storage.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return 0, fmt.Errorf("%s: %w", op, tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// A re-import replaces whatever staging rows are left from the last run.
	if err := tx.Where("user_id = ?", userID).Delete(&models.ImportedGame{}).Error; err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if len(rows) > 0 {
		if err := tx.Create(&rows).Error; err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	// Remember the resolved id so the next import can skip the lookup.
	s.rememberSteamID(ctx, userID, steamID)

	return len(rows), nil
}

func (s *ImportService) rememberSteamID(ctx context.Context, userID int64, steamID string) {
	var profile models.UserProfile
	err := s.storage.DB.WithContext(ctx).First(&profile, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		timeNow := time.Now()
		profile = models.UserProfile{UserID: userID, SteamID: steamID, CreatedAt: &timeNow, UpdatedAt: &timeNow}
		if err := s.storage.DB.WithContext(ctx).Create(&profile).Error; err != nil {
			s.log.Warn("failed to store steam id", slog.String("error", err.Error()))
		}
		return
	}
	if err != nil {
		s.log.Warn("failed to load profile", slog.String("error", err.Error()))
		return
	}

	if profile.SteamID == steamID {
		return
	}

	timeNow := time.Now()
	profile.SteamID = steamID
	profile.UpdatedAt = &timeNow
	if err := s.storage.DB.WithContext(ctx).Save(&profile).Error; err != nil {
		s.log.Warn("failed to store steam id", slog.String("error", err.Error()))
	}
}

// ListImported returns the user's staging rows in import order.
func (s *ImportService) ListImported(ctx context.Context, userID int64) ([]models.ImportedGame, error) {
	const op = "services.imports.ListImported"

	var rows []models.ImportedGame
	err := s.storage.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rows, nil
}

func (s *ImportService) ownedImport(ctx context.Context, userID, importID int64) (*models.ImportedGame, error) {
	var row models.ImportedGame
	err := s.storage.DB.WithContext(ctx).First(&row, importID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if row.UserID != userID {
		return nil, ErrForbidden
	}
	return &row, nil
}

// ApproveImported turns one staging row into a real library item and drops
// the row. Platform and status default to "PC" and the playtime-based
// suggestion when the caller does not override them.
func (s *ImportService) ApproveImported(ctx context.Context, userID, importID int64, platform string, status models.LibraryItemStatus) (*models.LibraryItem, error) {
	const op = "services.imports.ApproveImported"

	row, err := s.ownedImport(ctx, userID, importID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if platform == "" {
		platform = "PC"
	}
	if status == "" {
		status = suggestStatus(row.Playtime)
	}

	hours := int(row.Playtime / 60)
	item, err := s.library.AddGame(ctx, userID, AddGameRequest{
		Title:         row.Name,
		Platform:      platform,
		Status:        status,
		PlaytimeHours: &hours,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.DB.WithContext(ctx).Delete(&models.ImportedGame{}, row.ID).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return item, nil
}

// DismissImported drops one staging row without creating anything.
func (s *ImportService) DismissImported(ctx context.Context, userID, importID int64) error {
	const op = "services.imports.DismissImported"

	row, err := s.ownedImport(ctx, userID, importID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.DB.WithContext(ctx).Delete(&models.ImportedGame{}, row.ID).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
