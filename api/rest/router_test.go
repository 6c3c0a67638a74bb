package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpugauge/api/rest/handler"
	"cpugauge/internal/domain"
	"cpugauge/internal/logger"
	"cpugauge/internal/storage/snapshot"
)

func serve(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func newRouter(store handler.SnapshotReader) http.Handler {
	return NewRouter(&RouterDeps{Metrics: handler.NewMetricsHandler(store)}, logger.Discard())
}

func seededStore() *snapshot.GaugeStore {
	store := snapshot.NewGaugeStore()
	store.Set(domain.Snapshot{
		Tick: 9,
		CPUs: []domain.CPUReading{
			{Index: 0, Name: "CPU", Percent: domain.CPUPercent{Total: 35}},
			{Index: 1, Name: "CPU1", Percent: domain.CPUPercent{Total: 70}},
		},
	})
	return store
}

func TestHealth(t *testing.T) {
	rec := serve(t, newRouter(snapshot.NewGaugeStore()), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestMetricsBeforeFirstSnapshot(t *testing.T) {
	rec := serve(t, newRouter(snapshot.NewGaugeStore()), "/metrics")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsReturnsLatestSnapshot(t *testing.T) {
	rec := serve(t, newRouter(seededStore()), "/metrics")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Message string          `json:"message"`
		Data    domain.Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, uint64(9), body.Data.Tick)
	assert.Len(t, body.Data.CPUs, 2)
}

func TestMetricsCPU(t *testing.T) {
	router := newRouter(seededStore())

	tests := []struct {
		path   string
		status int
		total  int
	}{
		{"/metrics/cpu/1", http.StatusOK, 70},
		{"/metrics/cpu/0", http.StatusOK, 35},
		{"/metrics/cpu/5", http.StatusNotFound, 0},
		{"/metrics/cpu/abc", http.StatusBadRequest, 0},
		{"/metrics/cpu/-1", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(t, router, tt.path)
			require.Equal(t, tt.status, rec.Code)

			if tt.status != http.StatusOK {
				return
			}

			var body struct {
				Data domain.CPUReading `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.total, body.Data.Percent.Total)
		})
	}
}

func TestFeedRouteIsOptional(t *testing.T) {
	rec := serve(t, newRouter(seededStore()), "/ws")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	called := false
	router := NewRouter(&RouterDeps{
		Metrics: handler.NewMetricsHandler(seededStore()),
		Feed:    func(w http.ResponseWriter, r *http.Request) { called = true },
	}, logger.Discard())

	serve(t, router, "/ws")
	assert.True(t, called)
}

func TestRecoverMiddleware(t *testing.T) {
	router := newRouter(panickingStore{})

	rec := serve(t, router, "/metrics")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type panickingStore struct{}

func (panickingStore) Get() (domain.Snapshot, bool) {
	panic("store exploded")
}
