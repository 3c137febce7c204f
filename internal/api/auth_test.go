package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ruangkampus/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authedConfig() config.APIConfig {
	return config.APIConfig{
		Auth: config.APIAuthConfig{
			Enabled: true,
			APIKeys: []config.APIClientKey{
				{Key: "reader-key", Extra: "reader-extra", Name: "reader", Permissions: []string{"read:loans"}},
				{Key: "writer-key", Extra: "writer-extra", Name: "writer", Permissions: []string{"read:loans", "write:loans"}},
			},
		},
	}
}

func doAuthed(t *testing.T, handler http.Handler, method, path, key, extra string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if key != "" {
		req.Header.Set("X-Api-Key", key)
	}
	if extra != "" {
		req.Header.Set("X-Api-Extra", extra)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthMissingHeaders(t *testing.T) {
	auth := NewHTTPAuth(authedConfig())
	h := auth.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := doAuthed(t, h, http.MethodGet, "/api/v1/loans", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthWrongExtra(t *testing.T) {
	auth := NewHTTPAuth(authedConfig())
	h := auth.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := doAuthed(t, h, http.MethodGet, "/api/v1/loans", "reader-key", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthReadOnlyKeyCannotWrite(t *testing.T) {
	auth := NewHTTPAuth(authedConfig())
	h := auth.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := doAuthed(t, h, http.MethodGet, "/api/v1/loans", "reader-key", "reader-extra")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doAuthed(t, h, http.MethodPost, "/api/v1/loans", "reader-key", "reader-extra")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doAuthed(t, h, http.MethodPost, "/api/v1/loans", "writer-key", "writer-extra")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHealthzBypass(t *testing.T) {
	auth := NewHTTPAuth(authedConfig())
	h := auth.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := doAuthed(t, h, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitPerKey(t *testing.T) {
	cfg := authedConfig()
	cfg.RateLimit = config.APIRateLimitConfig{RPS: 1, Burst: 2}
	auth := NewHTTPAuth(cfg)
	h := auth.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i := 0; i < 2; i++ {
		rec := doAuthed(t, h, http.MethodGet, "/api/v1/loans", "reader-key", "reader-extra")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := doAuthed(t, h, http.MethodGet, "/api/v1/loans", "reader-key", "reader-extra")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different key has its own bucket.
	rec = doAuthed(t, h, http.MethodGet, "/api/v1/loans", "writer-key", "writer-extra")
	assert.Equal(t, http.StatusOK, rec.Code)
}
