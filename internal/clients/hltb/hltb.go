package hltb

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const defaultBaseURL = "https://howlongtobeat.com"

// Estimate holds the hour figures for one matched title.
type Estimate struct {
	ID            int64
	Title         string
	MainStory     int
	MainExtra     int
	Completionist int
}

type Client struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

func New(log *slog.Logger, timeout time.Duration) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// NewWithBaseURL is used by tests to point the client at a local server.
func NewWithBaseURL(log *slog.Logger, baseURL string, timeout time.Duration) *Client {
	c := New(log, timeout)
	c.baseURL = baseURL
	return c
}

var (
	hoursRe  = regexp.MustCompile(`([\d½.]+)\s*Hour`)
	gameIDRe = regexp.MustCompile(`game\?id=(\d+)|game/(\d+)`)
)

// Search scrapes the search results page and returns the first match.
// No match yields a nil estimate and no error.
func (c *Client) Search(ctx context.Context, title string) (*Estimate, error) {
	const op = "clients.hltb.Search"

	form := url.Values{}
	form.Add("queryString", title)
	form.Add("t", "games")
	form.Add("sorthead", "popular")

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/search_results?page=1",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.36")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status code: %d", op, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var est *Estimate
	doc.Find("li div.search_list_details").EachWithBreak(func(i int, s *goquery.Selection) bool {
		link := s.Find("h3 a").First()
		name := strings.TrimSpace(link.Text())
		if name == "" {
			return true
		}

		e := &Estimate{Title: name}
		if href, ok := link.Attr("href"); ok {
			e.ID = parseGameID(href)
		}

		labels := s.Find("div.search_list_tidbit.text_white")
		values := s.Find("div.search_list_tidbit.center")
		labels.Each(func(j int, label *goquery.Selection) {
			if j >= values.Length() {
				return
			}
			hours := parseHours(values.Eq(j).Text())
			switch strings.TrimSpace(label.Text()) {
			case "Main Story":
				e.MainStory = hours
			case "Main + Extra":
				e.MainExtra = hours
			case "Completionist":
				e.Completionist = hours
			}
		})

		est = e
		return false
	})

	if est == nil {
		c.log.Warn("no length estimate found", slog.String("title", title))
		return nil, nil
	}

	return est, nil
}

func parseGameID(href string) int64 {
	matches := gameIDRe.FindStringSubmatch(href)
	if len(matches) == 0 {
		return 0
	}
	for _, m := range matches[1:] {
		if m != "" {
			id, err := strconv.ParseInt(m, 10, 64)
			if err == nil {
				return id
			}
		}
	}
	return 0
}

// parseHours rounds "12½ Hours" style figures to whole hours.
func parseHours(text string) int {
	matches := hoursRe.FindStringSubmatch(text)
	if len(matches) < 2 {
		return 0
	}

	raw := strings.ReplaceAll(matches[1], "½", ".5")
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}

	return int(f + 0.5)
}
