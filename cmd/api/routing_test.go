package main

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"bookcollection/internal/book"
	"bookcollection/internal/httpx"
	"bookcollection/internal/testutil"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := config{
		AllowedOrigins: []string{"https://app.example"},
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		MaxBodyBytes:   64,
		StorageDriver:  driverMemory,
	}
	repo, closeRepo, err := openRepository(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(closeRepo)

	svc := book.NewService(repo, zerolog.Nop())
	return newRouter(cfg, zerolog.Nop(), svc, httpx.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))
}

func TestRouter_Probes(t *testing.T) {
	h := newTestRouter(t)

	w := testutil.Serve(h, testutil.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	w = testutil.Serve(h, testutil.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ready", w.Body.String())
}

func TestRouter_AppliesMiddleware(t *testing.T) {
	h := newTestRouter(t)

	req := testutil.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.example")
	w := testutil.Serve(h, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_BookLifecycle(t *testing.T) {
	h := newTestRouter(t)

	w := testutil.Serve(h, testutil.NewRequest(http.MethodPost, "/books", `{"title":"Dune","author":"Herbert"}`))
	require.Equal(t, http.StatusCreated, w.Code)

	w = testutil.Serve(h, testutil.NewRequest(http.MethodGet, "/books?limit=1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var books []book.Book
	require.NoError(t, testutil.DecodeData(w, &books))
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)
}

func TestRouter_RejectsOversizedBody(t *testing.T) {
	h := newTestRouter(t)

	body := `{"title":"` + strings.Repeat("x", 128) + `","author":"A"}`
	w := testutil.Serve(h, testutil.NewRequest(http.MethodPost, "/books", body))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
