package controllers

import _ "savepoint/internal/models"

// ListLibrary godoc
// @Summary      List library items
// @Description  Returns the user's library items with filtering by status and platform, title search, sorting and pagination. Without a status filter wishlist entries are excluded.
// @Tags         library
// @Produce      json
// @Param        status          query     string  false  "Status filter (TO_PLAY, PLAYING, PLAYED, COMPLETED, WISHLIST, REVISITING)"
// @Param        platform        query     string  false  "Platform filter"
// @Param        search          query     string  false  "Title search, minimum 3 characters"
// @Param        sort_by         query     string  false  "Sort field: created, release, started, completed"
// @Param        order           query     string  false  "Sort order: asc or desc"
// @Param        page            query     int     false  "Page number (default 1, 20 items per page)"
// @Param        include_deleted query     bool    false  "Include soft-deleted items"
// @Success      200  {object}  controllers.PaginationResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /library [get]
func ListLibrary() {}

// AddLibraryItem godoc
// @Summary      Add a game to the library
// @Description  Creates a library item, creating the canonical game record on first use. Catalog and length-estimate enrichment is best effort.
// @Tags         library
// @Accept       json
// @Produce      json
// @Param        request body  services.AddGameRequest  true  "Game to add"
// @Success      201  {object}  models.LibraryItem
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /library [post]
func AddLibraryItem() {}

// ChangeItemStatus godoc
// @Summary      Change item status
// @Description  Moves an item to a new lifecycle status. Any transition is allowed; first PLAYING sets started_at, first COMPLETED sets completed_at.
// @Tags         library
// @Accept       json
// @Produce      json
// @Param        id      path  int                   true  "Item ID"
// @Param        request body  ChangeStatusRequest   true  "Target status"
// @Success      200  {object}  models.LibraryItem
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /library/{id}/status [patch]
func ChangeItemStatus() {}

// DeleteLibraryItem godoc
// @Summary      Remove an item
// @Description  Soft-deletes a library item. The row is kept but disappears from all default views.
// @Tags         library
// @Param        id  path  int  true  "Item ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /library/{id} [delete]
func DeleteLibraryItem() {}

// GetLibraryStats godoc
// @Summary      Library statistics
// @Description  Returns per-status item counts and the summed playtime estimate of the backlog.
// @Tags         library
// @Produce      json
// @Success      200  {object}  StatsResponse
// @Failure      401  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /library/stats [get]
func GetLibraryStats() {}

// PickRandomItem godoc
// @Summary      Pick a random backlog game
// @Description  Returns one uniformly random TO_PLAY item. An empty backlog is a 400.
// @Tags         library
// @Produce      json
// @Success      200  {object}  models.LibraryItem
// @Failure      400  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /library/pick [get]
func PickRandomItem() {}

// StartSteamImport godoc
// @Summary      Import a Steam library
// @Description  Fetches the owned games of a Steam profile, merges duplicate titles (demos, betas, soundtracks) and stages them for review. The identifier may be a 64-bit id, a vanity name or a profile URL; when omitted the stored id or the SSO profile is used.
// @Tags         imports
// @Accept       json
// @Produce      json
// @Param        request body  StartImportRequest  false  "Steam identifier"
// @Success      200  {object}  StartImportResponse
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /imports/steam [post]
func StartSteamImport() {}

// GetPublicBacklog godoc
// @Summary      Public backlog view
// @Description  Returns the TO_PLAY items of the named user. No authentication.
// @Tags         public
// @Produce      json
// @Param        username  path  string  true  "Public username"
// @Success      200  {array}   models.LibraryItemResponse
// @Failure      404  {object}  map[string]string
// @Router       /public/{username}/backlog [get]
func GetPublicBacklog() {}
