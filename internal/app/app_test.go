package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/gorilla/websocket"
	"github.com/snakes-game/go-client/internal/config"
	"github.com/snakes-game/go-client/snakes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempDataHome(t *testing.T) {
	t.Helper()

	dataHome := xdg.DataHome
	xdg.DataHome = t.TempDir()
	t.Cleanup(func() {
		xdg.DataHome = dataHome
	})
}

func testConfig(url, name string) *config.Config {
	return &config.Config{
		Server: config.Server{
			URL:              url,
			HandshakeTimeout: time.Second,
			SendBuffer:       4,
		},
		Player: config.Player{
			Name:     name,
			Profile:  "test",
			Strategy: "clockwise",
		},
	}
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestPlay(t *testing.T) {
	useTempDataHome(t)

	// Given: a server that sends one board and closes after the answer
	received := make(chan string, 2)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_, msg, _ := conn.ReadMessage()
		received <- string(msg)
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"Board":[]}`))
		_, msg, _ = conn.ReadMessage()
		received <- string(msg)
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_, _, _ = conn.ReadMessage()
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// When: the client plays
	err := Play(ctx, discardLogger, testConfig(srv.URL, "Alice"))

	// Then: the session ends gracefully and the profile is remembered
	require.NoError(t, err)
	assert.Equal(t, `{"SetName":"Alice"}`, <-received)
	assert.Equal(t, `{"Turn":"Clockwise"}`, <-received)

	profile, err := snakes.RestoreProfile("test")
	require.NoError(t, err)
	assert.Equal(t, srv.URL, profile.URL)
	assert.Equal(t, "Alice", profile.Username)
}

func TestPlay_CancelledContext(t *testing.T) {
	useTempDataHome(t)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	require.NoError(t, Play(ctx, discardLogger, testConfig(srv.URL, "Alice")))
}

func TestPlay_ConfigErrors(t *testing.T) {
	useTempDataHome(t)
	ctx := context.Background()

	err := Play(ctx, discardLogger, testConfig("", "Alice"))
	require.ErrorIs(t, err, ErrServerURLNotFound)

	err = Play(ctx, discardLogger, testConfig("localhost:8000", ""))
	require.ErrorIs(t, err, ErrNameNotFound)

	conf := testConfig("localhost:8000", "Alice")
	conf.Player.Strategy = "kamikaze"
	require.Error(t, Play(ctx, discardLogger, conf))

	var connectErr *snakes.ConnectError
	err = Play(ctx, discardLogger, testConfig("ftp://localhost", "Alice"))
	require.ErrorAs(t, err, &connectErr)
}

func TestPlay_FailedConnectionIsNotRemembered(t *testing.T) {
	useTempDataHome(t)

	// Given: a server that refuses the upgrade
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// When: the client plays
	err := Play(ctx, discardLogger, testConfig(srv.URL, "Alice"))

	// Then: the session fails and no profile is saved
	require.ErrorIs(t, err, snakes.ErrFailed)
	_, err = snakes.RestoreProfile("test")
	require.Error(t, err)
}

func TestResolveProfile(t *testing.T) {
	useTempDataHome(t)

	// Given: a remembered profile
	require.NoError(t, snakes.Profile{Name: "test", URL: "ws://old:8000/ws", Username: "Old"}.Save())

	// When: only the name is configured
	profile, err := resolveProfile(testConfig("", "New"))

	// Then: the remembered url is reused and the configured name wins
	require.NoError(t, err)
	assert.Equal(t, snakes.Profile{Name: "test", URL: "ws://old:8000/ws", Username: "New"}, profile)
}
