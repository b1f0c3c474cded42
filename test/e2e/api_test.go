// test/e2e/api_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"kalastra-backend/internal/common/logger"
	"kalastra-backend/internal/models"
	"kalastra-backend/internal/pipelines/ailisting"
	"kalastra-backend/internal/pipelines/manuallisting"
	"kalastra-backend/internal/products"
	"kalastra-backend/internal/server"
)

// fakeTranscriber echoes the clip bytes as text, with optional per-clip
// failures and delays to exercise the concurrent join.
type fakeTranscriber struct {
	mu      sync.Mutex
	failOn  map[string]bool
	delays  map[string]time.Duration
	calls   int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	text := string(audio)
	if d, ok := f.delays[text]; ok {
		time.Sleep(d)
	}
	if f.failOn[text] {
		return "", fmt.Errorf("deepgram: 503")
	}
	return text, nil
}

// fakeEnricher records the narrative it received and returns a canned
// listing.
type fakeEnricher struct {
	mu        sync.Mutex
	narrative string
	err       error
	calls     int
}

func (f *fakeEnricher) Enrich(ctx context.Context, narrative string) (*models.StructuredListing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.narrative = narrative
	if f.err != nil {
		return nil, f.err
	}
	return &models.StructuredListing{
		Title:       "Hand-Carved Walnut Chess Set",
		Description: "A complete chess set carved from walnut and maple.",
		Price:       "120",
		Category:    "Crafts",
		SEOTags:     []string{"chess", "walnut", "handmade"},
		SEOTip:      "Lead with the wood species in your tags",
		ReachChance: "81",
	}, nil
}

type memoryStore struct {
	mu       sync.Mutex
	products []*models.Product
}

func (m *memoryStore) Create(ctx context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = append(m.products, p)
	return nil
}

func newTestAPI(t *testing.T, transcriber ailisting.Transcriber, enricher *fakeEnricher, store *memoryStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewTestLogger(t)

	aiCfg := ailisting.DefaultConfig()
	aiService := ailisting.NewService(ailisting.ServiceDependencies{
		Transcriber: transcriber,
		Enricher:    enricher,
		Logger:      log,
	}, aiCfg)
	aiHandler := ailisting.NewHandler(ailisting.HandlerOptions{
		Service: aiService,
		Config:  aiCfg,
		Logger:  log,
	})

	manualCfg := manuallisting.DefaultConfig()
	manualService := manuallisting.NewService(manuallisting.ServiceDependencies{
		Enricher: enricher,
		Store:    store,
		Logger:   log,
	}, manualCfg)
	manualHandler := manuallisting.NewHandler(manuallisting.HandlerOptions{
		Service: manualService,
		Config:  manualCfg,
		Logger:  log,
	})

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery("FROM products ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "description", "price", "quantity", "image_url", "seo_tags",
			"reach_chance", "recommended_price", "seo_tip", "type", "artisan_id",
			"created_at", "updated_at",
		}))
	pgStore := products.NewPostgresStore(db, log)
	productHandler := products.NewHandler(pgStore, nil, log)

	return server.NewRouter(server.RouterOptions{
		Logger:        zaptest.NewLogger(t),
		AIListing:     aiHandler,
		ManualListing: manualHandler,
		Products:      productHandler,
		HealthCheckers: map[string]func() error{
			"self": func() error { return nil },
		},
	})
}

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for field, content := range files {
		part, err := writer.CreateFormFile(field, field+".webm")
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestAPI_AIGenerateListing_FullQuestionnaire(t *testing.T) {
	answers := []string{
		"it is a chess set",
		"carved from walnut and maple",
		"took me three weeks",
		"the pieces are weighted",
		"I would sell it for one twenty",
		"I have one in stock",
		"I can make more on commission",
		"I work from my home workshop",
	}

	// Scramble completion order so index-based assembly is actually exercised.
	transcriber := &fakeTranscriber{
		delays: map[string]time.Duration{
			answers[0]: 30 * time.Millisecond,
			answers[3]: 20 * time.Millisecond,
			answers[7]: 10 * time.Millisecond,
		},
	}
	enricher := &fakeEnricher{}
	router := newTestAPI(t, transcriber, enricher, &memoryStore{})

	files := map[string]string{}
	for i, a := range answers {
		files[fmt.Sprintf("audio_question_%d", i)] = a
	}
	body, contentType := multipartBody(t, files)

	req := httptest.NewRequest(http.MethodPost, "/api/products/ai-generate-listing", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 8, transcriber.calls)
	assert.Equal(t, 1, enricher.calls)
	assert.Equal(t, strings.Join(answers, "\n"), enricher.narrative)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, true, resp["aiGenerated"])
	assert.Equal(t, "Hand-Carved Walnut Chess Set", resp["Title"])
	assert.Equal(t, "81", resp["Reach_Chance"])
}

func TestAPI_AIGenerateListing_PartialClipFailure(t *testing.T) {
	transcriber := &fakeTranscriber{failOn: map[string]bool{"broken clip": true}}
	enricher := &fakeEnricher{}
	router := newTestAPI(t, transcriber, enricher, &memoryStore{})

	body, contentType := multipartBody(t, map[string]string{
		"audio_question_0": "a ceramic mug",
		"audio_question_3": "broken clip",
		"audio_question_5": "costs fifteen dollars",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/products/ai-generate-listing", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "a ceramic mug\ncosts fifteen dollars", enricher.narrative)
}

func TestAPI_ManualListing_CreateAndDegrade(t *testing.T) {
	store := &memoryStore{}
	enricher := &fakeEnricher{err: fmt.Errorf("gemini: quota exceeded")}
	router := newTestAPI(t, &fakeTranscriber{}, enricher, store)

	payload, _ := json.Marshal(map[string]interface{}{
		"title":       "Blue Vase",
		"description": "Handmade",
		"price":       20,
		"type":        "sell",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/products/manual", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, store.products, 1)
	assert.Equal(t, "Blue Vase", store.products[0].Title)

	var resp struct {
		Success     bool `json:"success"`
		Suggestions struct {
			Applied bool   `json:"applied"`
			SEOTip  string `json:"seoTip"`
		} `json:"aiSuggestions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.False(t, resp.Suggestions.Applied)
	assert.Equal(t, "Optimize tags for more reach", resp.Suggestions.SEOTip)
}

func TestAPI_ListProducts(t *testing.T) {
	router := newTestAPI(t, &fakeTranscriber{}, &fakeEnricher{}, &memoryStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success  bool              `json:"success"`
		Products []*models.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Products)
}

func TestAPI_Healthz(t *testing.T) {
	router := newTestAPI(t, &fakeTranscriber{}, &fakeEnricher{}, &memoryStore{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
