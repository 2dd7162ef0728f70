package igdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultAPIURL   = "https://api.igdb.com/v4"
	defaultTokenURL = "https://id.twitch.tv/oauth2/token"
)

// GameInfo is one catalog candidate.
type GameInfo struct {
	IgdbID      int64
	Title       string
	CoverURL    string
	ReleaseYear string
	Rating      float64
	Description string
}

// Client looks games up in the IGDB catalog. IGDB authenticates through
// Twitch client credentials; the token is cached until shortly before expiry.
type Client struct {
	clientID     string
	clientSecret string
	apiURL       string
	tokenURL     string
	client       *http.Client
	log          *slog.Logger

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

func New(log *slog.Logger, clientID, clientSecret string, timeout time.Duration) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		apiURL:       defaultAPIURL,
		tokenURL:     defaultTokenURL,
		client:       &http.Client{Timeout: timeout},
		log:          log,
	}
}

// NewWithURLs is used by tests to point the client at local servers.
func NewWithURLs(log *slog.Logger, clientID, clientSecret, apiURL, tokenURL string, timeout time.Duration) *Client {
	c := New(log, clientID, clientSecret, timeout)
	c.apiURL = apiURL
	c.tokenURL = tokenURL
	return c
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (c *Client) getToken(ctx context.Context) (string, error) {
	const op = "clients.igdb.getToken"

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExp) {
		return c.token, nil
	}

	params := url.Values{}
	params.Add("client_id", c.clientID)
	params.Add("client_secret", c.clientSecret)
	params.Add("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(params.Encode()))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: unexpected status code: %d", op, resp.StatusCode)
	}

	var data tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	c.token = data.AccessToken
	c.tokenExp = time.Now().Add(time.Duration(data.ExpiresIn)*time.Second - time.Minute)

	return c.token, nil
}

type igdbGame struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Summary          string  `json:"summary"`
	Rating           float64 `json:"rating"`
	FirstReleaseDate int64   `json:"first_release_date"`
	Cover            struct {
		URL string `json:"url"`
	} `json:"cover"`
}

const gameFields = "fields name,summary,rating,first_release_date,cover.url;"

func (c *Client) query(ctx context.Context, body string) ([]GameInfo, error) {
	const op = "clients.igdb.query"

	token, err := c.getToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/games", strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status code: %d", op, resp.StatusCode)
	}

	var games []igdbGame
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]GameInfo, 0, len(games))
	for _, g := range games {
		info := GameInfo{
			IgdbID:      g.ID,
			Title:       g.Name,
			Rating:      g.Rating,
			Description: g.Summary,
		}
		if g.FirstReleaseDate > 0 {
			info.ReleaseYear = time.Unix(g.FirstReleaseDate, 0).UTC().Format("2006")
		}
		if g.Cover.URL != "" {
			info.CoverURL = normalizeCoverURL(g.Cover.URL)
		}
		result = append(result, info)
	}

	return result, nil
}

// IGDB returns protocol-relative thumbnail URLs; list views want the big one.
func normalizeCoverURL(u string) string {
	if strings.HasPrefix(u, "//") {
		u = "https:" + u
	}
	return strings.Replace(u, "t_thumb", "t_cover_big", 1)
}

// SearchGames returns catalog candidates for a free-text title search.
// An empty result is "no match", never an error.
func (c *Client) SearchGames(ctx context.Context, query string) ([]GameInfo, error) {
	const op = "clients.igdb.SearchGames"

	if query == "" {
		return nil, fmt.Errorf("%s: query is empty", op)
	}

	body := fmt.Sprintf("%s search %q; limit 10;", gameFields, query)
	return c.query(ctx, body)
}

// GetByID fetches a single catalog entry; nil when the id is unknown.
func (c *Client) GetByID(ctx context.Context, id int64) (*GameInfo, error) {
	const op = "clients.igdb.GetByID"

	body := fmt.Sprintf("%s where id = %d;", gameFields, id)
	games, err := c.query(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(games) == 0 {
		return nil, nil
	}

	return &games[0], nil
}
