package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fxrates/internal/api"
	"fxrates/internal/config"
	"fxrates/internal/service"
	"fxrates/internal/telemetry"
)

func newFrankfurterStub(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/latest":
			if r.URL.Query().Get("base") == "XYZ" {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"message":"not found"}`))
				return
			}
			_, _ = w.Write([]byte(`{"amount":1,"base":"EUR","date":"2026-01-02","rates":{"USD":1.2,"SEK":10.3}}`))
		case "/2026-01-01..2026-01-03":
			_, _ = w.Write([]byte(`{"amount":1,"base":"EUR","start_date":"2026-01-01","end_date":"2026-01-03",` +
				`"rates":{"2026-01-03":{"USD":1.22},"2026-01-01":{"USD":1.2},"2026-01-02":{"USD":1.21}}}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T, upstreamURL string) (*App, http.Handler) {
	t.Helper()
	cfg := &config.Config{
		Server:      config.ServerConfig{Port: 8080, ServeSwagger: true},
		Frankfurter: config.FrankfurterConfig{BaseURL: upstreamURL, Timeout: 5},
		Rates:       config.RatesConfig{DefaultBase: "EUR"},
		Cache: config.CacheConfig{
			Backend:          config.CacheBackendMemory,
			LatestTTLSec:     60,
			HistoricalTTLSec: 600,
			MemorySizeMB:     1,
		},
	}
	logger := zap.NewNop().Sugar()

	tp, err := telemetry.Setup(context.Background(), config.TelemetryConfig{ServiceName: "fxrates-test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	app := &App{cfg: cfg, logger: logger, telemetry: tp}
	source, err := newRatesSource(cfg, app.snapshotCache(), tp, logger)
	require.NoError(t, err)
	app.source = source

	return app, app.router(service.NewLookupService(source, logger))
}

func TestRouter_LatestIsCached(t *testing.T) {
	var calls atomic.Int32
	upstream := newFrankfurterStub(t, &calls)
	_, router := newTestApp(t, upstream.URL)

	for range 2 {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rates/latest?symbol=SEK", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var resp api.RateResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, 10.3, resp.Rate)
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	}

	assert.Equal(t, int32(1), calls.Load())
}

func TestRouter_UnsupportedBase(t *testing.T) {
	var calls atomic.Int32
	upstream := newFrankfurterStub(t, &calls)
	_, router := newTestApp(t, upstream.URL)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/convert?from=XYZ&to=USD&amount=1", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "currency is not supported: XYZ")
}

func TestRouter_PeriodIsChronological(t *testing.T) {
	var calls atomic.Int32
	upstream := newFrankfurterStub(t, &calls)
	_, router := newTestApp(t, upstream.URL)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rates/period?start=2026-01-01&end=2026-01-03&symbol=USD", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.PeriodResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Points, 3)
	for i, want := range []float64{1.20, 1.21, 1.22} {
		require.NotNil(t, resp.Points[i].Rate)
		assert.Equal(t, want, *resp.Points[i].Rate)
	}
}

func TestRouter_HealthAndSwagger(t *testing.T) {
	var calls atomic.Int32
	upstream := newFrankfurterStub(t, &calls)
	_, router := newTestApp(t, upstream.URL)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		Paths map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Contains(t, doc.Paths, "/rates/latest")
	assert.Contains(t, doc.Paths, "/convert")

	assert.Zero(t, calls.Load())
}

func TestNewRatesSource_NoneConfigured(t *testing.T) {
	tp, err := telemetry.Setup(context.Background(), config.TelemetryConfig{})
	require.NoError(t, err)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, err = newRatesSource(&config.Config{}, nil, tp, zap.NewNop().Sugar())
	assert.ErrorContains(t, err, "no rate sources")
}
