package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.steampowered.com"

// ErrProfilePrivate means the profile exists but its game details are hidden.
var ErrProfilePrivate = errors.New("steam profile is private")

// OwnedGame is one entry of a Steam library, playtime in minutes.
type OwnedGame struct {
	AppID           int64  `json:"appid"`
	Name            string `json:"name"`
	PlaytimeForever int64  `json:"playtime_forever"`
	PlaytimeWindows int64  `json:"playtime_windows_forever"`
	PlaytimeMac     int64  `json:"playtime_mac_forever"`
	PlaytimeLinux   int64  `json:"playtime_linux_forever"`
	ImgIconURL      string `json:"img_icon_url"`
}

type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

func New(log *slog.Logger, apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// NewWithBaseURL is used by tests to point the client at a local server.
func NewWithBaseURL(log *slog.Logger, apiKey, baseURL string, timeout time.Duration) *Client {
	c := New(log, apiKey, timeout)
	c.baseURL = baseURL
	return c
}

type resolveVanityResponse struct {
	Response struct {
		Success int    `json:"success"`
		SteamID string `json:"steamid"`
		Message string `json:"message"`
	} `json:"response"`
}

// ResolveVanityURL resolves a custom profile name to a 64-bit steam id.
// A profile that cannot be resolved yields an empty id and no error, so a
// bad vanity name never aborts an import.
func (c *Client) ResolveVanityURL(ctx context.Context, vanity string) (string, error) {
	const op = "clients.steam.ResolveVanityURL"

	params := url.Values{}
	params.Add("key", c.apiKey)
	params.Add("vanityurl", vanity)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ISteamUser/ResolveVanityURL/v1/", nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.URL.RawQuery = params.Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: unexpected status code: %d", op, resp.StatusCode)
	}

	var data resolveVanityResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if data.Response.Success != 1 || data.Response.SteamID == "" {
		c.log.Warn("steam vanity url not resolved",
			slog.String("vanity", vanity),
			slog.String("message", data.Response.Message))
		return "", nil
	}

	return data.Response.SteamID, nil
}

type ownedGamesResponse struct {
	Response struct {
		GameCount int         `json:"game_count"`
		Games     []OwnedGame `json:"games"`
	} `json:"response"`
}

// GetOwnedGames fetches the owned-game list with per-title playtime.
func (c *Client) GetOwnedGames(ctx context.Context, steamID string) ([]OwnedGame, error) {
	const op = "clients.steam.GetOwnedGames"

	params := url.Values{}
	params.Add("key", c.apiKey)
	params.Add("steamid", steamID)
	params.Add("include_appinfo", "1")
	params.Add("include_played_free_games", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/IPlayerService/GetOwnedGames/v1/", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.URL.RawQuery = params.Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status code: %d", op, resp.StatusCode)
	}

	var data ownedGamesResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// A non-zero count with no game list means the library is hidden.
	if len(data.Response.Games) == 0 {
		if data.Response.GameCount > 0 {
			return nil, fmt.Errorf("%s: %w", op, ErrProfilePrivate)
		}
		return []OwnedGame{}, nil
	}

	return data.Response.Games, nil
}
