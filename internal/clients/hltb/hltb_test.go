package hltb

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

const searchResultHTML = `
<ul>
  <li>
    <div class="search_list_details">
      <h3><a href="game?id=10270">Portal 2</a></h3>
      <div class="search_list_tidbit text_white">Main Story</div>
      <div class="search_list_tidbit center">8&#189; Hours</div>
      <div class="search_list_tidbit text_white">Main + Extra</div>
      <div class="search_list_tidbit center">11 Hours</div>
      <div class="search_list_tidbit text_white">Completionist</div>
      <div class="search_list_tidbit center">21 Hours</div>
    </div>
  </li>
</ul>`

func TestClient_Search(t *testing.T) {
	t.Run("parses first match", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "Portal 2", r.Form.Get("queryString"))
			w.Write([]byte(searchResultHTML))
		}))
		defer srv.Close()

		client := NewWithBaseURL(testLogger(), srv.URL, time.Second)

		est, err := client.Search(context.Background(), "Portal 2")

		assert.NoError(t, err)
		assert.NotNil(t, est)
		assert.Equal(t, int64(10270), est.ID)
		assert.Equal(t, "Portal 2", est.Title)
		assert.Equal(t, 9, est.MainStory)
		assert.Equal(t, 11, est.MainExtra)
		assert.Equal(t, 21, est.Completionist)
	})

	t.Run("no match yields nil without error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<ul></ul>`))
		}))
		defer srv.Close()

		client := NewWithBaseURL(testLogger(), srv.URL, time.Second)

		est, err := client.Search(context.Background(), "definitely not a game")

		assert.NoError(t, err)
		assert.Nil(t, est)
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		client := NewWithBaseURL(testLogger(), srv.URL, time.Second)

		est, err := client.Search(context.Background(), "Portal 2")

		assert.Error(t, err)
		assert.Nil(t, est)
	})
}

func TestParseHours(t *testing.T) {
	assert.Equal(t, 12, parseHours("12 Hours"))
	assert.Equal(t, 9, parseHours("8½ Hours"))
	assert.Equal(t, 1, parseHours("1 Hour"))
	assert.Equal(t, 0, parseHours("--"))
}

func TestParseGameID(t *testing.T) {
	assert.Equal(t, int64(10270), parseGameID("game?id=10270"))
	assert.Equal(t, int64(10270), parseGameID("game/10270"))
	assert.Equal(t, int64(0), parseGameID("about"))
}
