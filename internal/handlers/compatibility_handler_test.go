package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jzhengTT/compatibility-matrix/internal/common"
	"github.com/jzhengTT/compatibility-matrix/internal/services/cache"
)

func newTestHandler(fetch cache.FetchFunc, ttl time.Duration) *CompatibilityHandler {
	logger := common.GetLogger()
	return NewCompatibilityHandler(cache.NewService(fetch, ttl, logger), logger)
}

func TestGetCompatibilityHandler(t *testing.T) {
	doc := `{"metadata":{"schema_version":"1.0"},"models":[]}`
	h := newTestHandler(func(ctx context.Context) ([]byte, error) {
		return []byte(doc), nil
	}, time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/compatibility", nil)
	rec := httptest.NewRecorder()
	h.GetCompatibilityHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, doc, rec.Body.String())
}

func TestGetCompatibilityHandlerUnavailable(t *testing.T) {
	h := newTestHandler(func(ctx context.Context) ([]byte, error) {
		return nil, errors.New("backend down")
	}, time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/compatibility", nil)
	rec := httptest.NewRecorder()
	h.GetCompatibilityHandler(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.NotEmpty(t, body["error"])
}

func TestGetCompatibilityHandlerMethodNotAllowed(t *testing.T) {
	h := newTestHandler(func(ctx context.Context) ([]byte, error) {
		return []byte(`{}`), nil
	}, time.Minute)

	req := httptest.NewRequest(http.MethodPost, "/compatibility", nil)
	rec := httptest.NewRecorder()
	h.GetCompatibilityHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	h := newTestHandler(func(ctx context.Context) ([]byte, error) {
		return []byte(`{}`), nil
	}, 5*time.Minute)

	// Before any fetch the slot is empty: the age is present but null.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.HealthHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(300), body["cache_ttl_seconds"])
	assert.Contains(t, body, "cache_age_seconds")
	assert.Nil(t, body["cache_age_seconds"])

	ts, ok := body["timestamp"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, ts)
	assert.NoError(t, err)

	// After a fetch the age is a number.
	getReq := httptest.NewRequest(http.MethodGet, "/compatibility", nil)
	h.GetCompatibilityHandler(httptest.NewRecorder(), getReq)

	rec = httptest.NewRecorder()
	h.HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	_, isNumber := body["cache_age_seconds"].(float64)
	assert.True(t, isNumber)
}

func TestClearCacheHandler(t *testing.T) {
	calls := 0
	h := newTestHandler(func(ctx context.Context) ([]byte, error) {
		calls++
		return []byte(`{}`), nil
	}, time.Hour)

	getReq := httptest.NewRequest(http.MethodGet, "/compatibility", nil)
	h.GetCompatibilityHandler(httptest.NewRecorder(), getReq)
	h.GetCompatibilityHandler(httptest.NewRecorder(), getReq)
	assert.Equal(t, 1, calls)

	req := httptest.NewRequest(http.MethodPost, "/cache/clear", nil)
	rec := httptest.NewRecorder()
	h.ClearCacheHandler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	h.GetCompatibilityHandler(httptest.NewRecorder(), getReq)
	assert.Equal(t, 2, calls)
}

func TestClearCacheHandlerRequiresPost(t *testing.T) {
	h := newTestHandler(func(ctx context.Context) ([]byte, error) {
		return []byte(`{}`), nil
	}, time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/cache/clear", nil)
	rec := httptest.NewRecorder()
	h.ClearCacheHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
