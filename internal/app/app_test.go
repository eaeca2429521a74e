package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/webcite/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		Server:     config.ServerConfig{Port: 18080, RequestTimeout: 5 * time.Second},
		Fetch:      config.FetchConfig{Timeout: 2 * time.Second, UserAgent: config.DefaultUserAgent},
		Politeness: config.PolitenessConfig{},
		Citation:   config.CitationConfig{TimeZone: "UTC"},
	}
}

func TestNewRejectsBadTimeZone(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Citation.TimeZone = "Nowhere/Land"
	_, err := New(cfg, zap.NewNop())
	require.Error(t, err)
}

func TestAppExtract(t *testing.T) {
	t.Parallel()

	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != config.DefaultUserAgent {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`<html><head><title>Browser Only</title></head></html>`))
	}))
	defer site.Close()

	a, err := New(testConfig(), nil)
	require.NoError(t, err)
	defer a.Close()

	rec := a.Extract(context.Background(), site.URL)
	require.Equal(t, "Browser Only", rec.Title)
	require.Equal(t, time.Now().UTC().Format("2006-01-02"), rec.AccessDate)
}

func TestAppHandlerServesReference(t *testing.T) {
	t.Parallel()

	a, err := New(testConfig(), nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/reference", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Server.Port = 18181
	a, err := New(cfg, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
