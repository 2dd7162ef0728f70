package steam

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

func TestClient_ResolveVanityURL(t *testing.T) {
	t.Run("resolved", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/ISteamUser/ResolveVanityURL/v1/", r.URL.Path)
			assert.Equal(t, "gaben", r.URL.Query().Get("vanityurl"))
			w.Write([]byte(`{"response":{"success":1,"steamid":"76561197960287930"}}`))
		}))
		defer srv.Close()

		client := NewWithBaseURL(testLogger(), "key", srv.URL, time.Second)

		steamID, err := client.ResolveVanityURL(context.Background(), "gaben")

		assert.NoError(t, err)
		assert.Equal(t, "76561197960287930", steamID)
	})

	t.Run("not resolved yields empty id without error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"response":{"success":42,"message":"No match"}}`))
		}))
		defer srv.Close()

		client := NewWithBaseURL(testLogger(), "key", srv.URL, time.Second)

		steamID, err := client.ResolveVanityURL(context.Background(), "nobody")

		assert.NoError(t, err)
		assert.Empty(t, steamID)
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewWithBaseURL(testLogger(), "key", srv.URL, time.Second)

		_, err := client.ResolveVanityURL(context.Background(), "gaben")

		assert.Error(t, err)
	})
}

func TestClient_GetOwnedGames(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/IPlayerService/GetOwnedGames/v1/", r.URL.Path)
			assert.Equal(t, "76561197960287930", r.URL.Query().Get("steamid"))
			w.Write([]byte(`{"response":{"game_count":2,"games":[
				{"appid":620,"name":"Portal 2","playtime_forever":120},
				{"appid":400,"name":"Portal","playtime_forever":60,"playtime_linux_forever":10}
			]}}`))
		}))
		defer srv.Close()

		client := NewWithBaseURL(testLogger(), "key", srv.URL, time.Second)

		games, err := client.GetOwnedGames(context.Background(), "76561197960287930")

		assert.NoError(t, err)
		assert.Len(t, games, 2)
		assert.Equal(t, "Portal 2", games[0].Name)
		assert.Equal(t, int64(120), games[0].PlaytimeForever)
		assert.Equal(t, int64(10), games[1].PlaytimeLinux)
	})

	t.Run("private profile", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"response":{"game_count":150}}`))
		}))
		defer srv.Close()

		client := NewWithBaseURL(testLogger(), "key", srv.URL, time.Second)

		games, err := client.GetOwnedGames(context.Background(), "76561197960287930")

		assert.Nil(t, games)
		assert.ErrorIs(t, err, ErrProfilePrivate)
	})

	t.Run("empty library", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"response":{"game_count":0}}`))
		}))
		defer srv.Close()

		client := NewWithBaseURL(testLogger(), "key", srv.URL, time.Second)

		games, err := client.GetOwnedGames(context.Background(), "76561197960287930")

		assert.NoError(t, err)
		assert.Empty(t, games)
	})
}
