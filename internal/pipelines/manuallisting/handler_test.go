package manuallisting

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kalastra-backend/internal/common/errors"
	"kalastra-backend/internal/common/logger"
)

func newTestRouter(t *testing.T, enricher Enricher, store ProductStore, cfg *Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := NewService(ServiceDependencies{
		Enricher: enricher,
		Store:    store,
		Logger:   logger.NewTestLogger(t),
	}, cfg)

	handler := NewHandler(HandlerOptions{
		Service: svc,
		Config:  cfg,
		Logger:  logger.NewTestLogger(t),
	})

	router := gin.New()
	router.POST("/api/products/manual", handler.Create)
	return router
}

func postJSON(router *gin.Engine, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/products/manual", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Create_Success(t *testing.T) {
	enricher := new(MockEnricher)
	enricher.On("Enrich", mock.Anything, mock.Anything).Return(sampleListing(), nil)

	store := new(MockProductStore)
	store.On("Create", mock.Anything, mock.Anything).Return(nil)

	router := newTestRouter(t, enricher, store, DefaultConfig())

	rec := postJSON(router, map[string]interface{}{
		"title":       "Blue Ceramic Vase",
		"description": "Hand-thrown stoneware vase.",
		"price":       55,
		"type":        "sell",
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Output
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Product)
	assert.Equal(t, "Blue Ceramic Vase", resp.Product.Title)
	assert.NotEmpty(t, resp.Product.ID)
	require.NotNil(t, resp.Suggestions)
	assert.True(t, resp.Suggestions.Applied)
}

func TestHandler_Create_DegradesWhenEnrichmentDown(t *testing.T) {
	enricher := new(MockEnricher)
	enricher.On("Enrich", mock.Anything, mock.Anything).
		Return(nil, errors.NewEnrichmentUnavailableError("timeout"))

	store := new(MockProductStore)
	store.On("Create", mock.Anything, mock.Anything).Return(nil)

	router := newTestRouter(t, enricher, store, DefaultConfig())

	rec := postJSON(router, map[string]interface{}{
		"title":       "Blue Vase",
		"description": "Handmade",
		"price":       20,
		"type":        "sell",
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Output
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Blue Vase", resp.Product.Title)
	assert.False(t, resp.Suggestions.Applied)
	assert.Equal(t, "Optimize tags for more reach", resp.Suggestions.SEOTip)
}

func TestHandler_Create_ValidationFailure(t *testing.T) {
	enricher := new(MockEnricher)
	store := new(MockProductStore)
	router := newTestRouter(t, enricher, store, DefaultConfig())

	rec := postJSON(router, map[string]interface{}{
		"description": "no title here",
		"price":       10,
		"type":        "sell",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(errors.ErrCodeInvalidListingInput), resp.Code)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	enricher.AssertNotCalled(t, "Enrich", mock.Anything, mock.Anything)
}

func TestHandler_Create_NonJSONBody(t *testing.T) {
	router := newTestRouter(t, new(MockEnricher), new(MockProductStore), DefaultConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/products/manual",
		bytes.NewBufferString("title=Blue+Vase"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Create_PersistFailure(t *testing.T) {
	enricher := new(MockEnricher)
	enricher.On("Enrich", mock.Anything, mock.Anything).Return(sampleListing(), nil)

	store := new(MockProductStore)
	store.On("Create", mock.Anything, mock.Anything).
		Return(assert.AnError)

	router := newTestRouter(t, enricher, store, DefaultConfig())

	rec := postJSON(router, map[string]interface{}{
		"title":       "Blue Vase",
		"description": "Handmade",
		"price":       20,
		"type":        "sell",
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(errors.ErrCodeProductPersistFailed), resp.Code)
}

func TestHandler_Create_PipelineDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false
	router := newTestRouter(t, new(MockEnricher), new(MockProductStore), cfg)

	rec := postJSON(router, map[string]interface{}{
		"title":       "Blue Vase",
		"description": "Handmade",
		"price":       20,
		"type":        "sell",
	})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
