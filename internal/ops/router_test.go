package ops

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exportlens/backend/internal/contracts"
	"github.com/exportlens/backend/pkg/logger"
)

type stubStore struct {
	summary *contracts.RunSummary
	err     error
}

func (s *stubStore) SaveRun(context.Context, *contracts.RunOutput) error { return nil }

func (s *stubStore) LastRun(context.Context, int) (*contracts.RunSummary, error) {
	return s.summary, s.err
}

func TestLastRunEndpoint(t *testing.T) {
	store := &stubStore{summary: &contracts.RunSummary{
		Year:            2024,
		Fingerprint:     "abc123",
		SignalRows:      7,
		RecordsRead:     1000,
		RecordsExcluded: 12,
		ExcludedShare:   0.012,
	}}
	router := NewRouter(nil, store, logger.NewNop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/ops/runs/2024", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got contracts.RunSummary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, 2024, got.Year)
	assert.Equal(t, 7, got.SignalRows)
}

func TestLastRunNotFound(t *testing.T) {
	router := NewRouter(nil, &stubStore{}, logger.NewNop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/ops/runs/2019", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExclusionsEndpoint(t *testing.T) {
	store := &stubStore{summary: &contracts.RunSummary{
		Year:            2024,
		RecordsRead:     1000,
		RecordsExcluded: 12,
		ExcludedShare:   0.012,
	}}
	router := NewRouter(nil, store, logger.NewNop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/ops/runs/2024/exclusions", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, float64(12), got["records_excluded"])
	assert.InDelta(t, 0.012, got["excluded_share"].(float64), 1e-9)
}

func TestInvalidYearRejected(t *testing.T) {
	router := NewRouter(nil, &stubStore{}, logger.NewNop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/ops/runs/notayear", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
