package manuallisting

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kalastra-backend/internal/common/errors"
	"kalastra-backend/internal/common/logger"
	"kalastra-backend/internal/models"
)

// ==========================
// Mock Dependencies
// ==========================

type MockEnricher struct {
	mock.Mock
}

func (m *MockEnricher) Enrich(ctx context.Context, narrative string) (*models.StructuredListing, error) {
	args := m.Called(ctx, narrative)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StructuredListing), args.Error(1)
}

type MockProductStore struct {
	mock.Mock
}

func (m *MockProductStore) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) ListingPublished(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

// ==========================
// Test Helpers
// ==========================

func newTestService(t *testing.T, enricher Enricher, store ProductStore, notifier Notifier, cfg *Config) *Service {
	t.Helper()
	return NewService(ServiceDependencies{
		Enricher: enricher,
		Store:    store,
		Notifier: notifier,
		Logger:   logger.NewTestLogger(t),
	}, cfg)
}

func validInput() *Input {
	return &Input{
		Title:       "Blue Ceramic Vase",
		Description: "Hand-thrown stoneware vase with a cobalt glaze.",
		Price:       55,
		Type:        models.ProductTypeSell,
		ArtisanID:   "artisan-42",
	}
}

func sampleListing() *models.StructuredListing {
	return &models.StructuredListing{
		Title:       "Cobalt Blue Hand-Thrown Vase",
		Description: "One of a kind stoneware vase finished in a deep cobalt glaze.",
		Price:       "60",
		Category:    "Home Decor",
		SEOTags:     []string{"vase", "ceramic", "cobalt"},
		SEOTip:      "Add material and finish keywords to your tags",
		ReachChance: "68",
	}
}

// ==========================
// Create Tests
// ==========================

func TestService_Create_MergesAISuggestions(t *testing.T) {
	enricher := new(MockEnricher)
	enricher.On("Enrich", mock.Anything,
		"Blue Ceramic Vase Hand-thrown stoneware vase with a cobalt glaze.").
		Return(sampleListing(), nil)

	store := new(MockProductStore)
	store.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(t, enricher, store, nil, DefaultConfig())

	out, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	// Seller's own words and price stay authoritative by default.
	assert.Equal(t, "Blue Ceramic Vase", out.Product.Title)
	assert.Equal(t, "Hand-thrown stoneware vase with a cobalt glaze.", out.Product.Description)
	assert.Equal(t, 55.0, out.Product.Price)
	assert.Equal(t, models.ProductTypeSell, out.Product.Type)

	// AI metadata is attached.
	assert.Equal(t, []string{"vase", "ceramic", "cobalt"}, out.Product.SEOTags)
	assert.Equal(t, "Add material and finish keywords to your tags", out.Product.SEOTip)
	require.NotNil(t, out.Product.ReachChance)
	assert.Equal(t, 68.0, *out.Product.ReachChance)
	require.NotNil(t, out.Product.RecommendedPrice)
	assert.Equal(t, 60.0, *out.Product.RecommendedPrice)

	assert.True(t, out.Suggestions.Applied)
	assert.Equal(t, "Home Decor", out.Suggestions.Category)

	enricher.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestService_Create_PreferAIContentReplacesText(t *testing.T) {
	enricher := new(MockEnricher)
	enricher.On("Enrich", mock.Anything, mock.Anything).Return(sampleListing(), nil)

	store := new(MockProductStore)
	store.On("Create", mock.Anything, mock.Anything).Return(nil)

	cfg := DefaultConfig()
	cfg.PreferAIContent = true
	svc := newTestService(t, enricher, store, nil, cfg)

	out, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, "Cobalt Blue Hand-Thrown Vase", out.Product.Title)
	assert.Equal(t, "One of a kind stoneware vase finished in a deep cobalt glaze.", out.Product.Description)
	// Price and type are never overridden.
	assert.Equal(t, 55.0, out.Product.Price)
	assert.Equal(t, models.ProductTypeSell, out.Product.Type)
}

func TestService_Create_SurvivesEnrichmentOutage(t *testing.T) {
	enricher := new(MockEnricher)
	enricher.On("Enrich", mock.Anything, mock.Anything).
		Return(nil, errors.NewEnrichmentUnavailableError("model overloaded"))

	store := new(MockProductStore)
	store.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(t, enricher, store, nil, DefaultConfig())

	out, err := svc.Create(context.Background(), &Input{
		Title:       "Blue Vase",
		Description: "Handmade",
		Price:       20,
		Type:        models.ProductTypePortfolio,
	})
	require.NoError(t, err)

	assert.Equal(t, "Blue Vase", out.Product.Title)
	assert.Equal(t, "Handmade", out.Product.Description)
	assert.Equal(t, []string{}, out.Product.SEOTags)
	assert.Nil(t, out.Product.ReachChance)

	assert.False(t, out.Suggestions.Applied)
	assert.Equal(t, []string{}, out.Suggestions.SEOTags)
	assert.Equal(t, "Optimize tags for more reach", out.Suggestions.SEOTip)
	store.AssertExpectations(t)
}

func TestService_Create_NoEnricherConfigured(t *testing.T) {
	store := new(MockProductStore)
	store.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(t, nil, store, nil, DefaultConfig())

	out, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.False(t, out.Suggestions.Applied)
	assert.Equal(t, "Optimize tags for more reach", out.Suggestions.SEOTip)
}

func TestService_Create_PersistFailure(t *testing.T) {
	enricher := new(MockEnricher)
	enricher.On("Enrich", mock.Anything, mock.Anything).Return(sampleListing(), nil)

	store := new(MockProductStore)
	store.On("Create", mock.Anything, mock.Anything).Return(fmt.Errorf("pq: connection reset"))

	svc := newTestService(t, enricher, store, nil, DefaultConfig())

	out, err := svc.Create(context.Background(), validInput())
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Equal(t, errors.ErrCodeProductPersistFailed, errors.CodeOf(err))
}

func TestService_Create_NotifierFailureIsNotFatal(t *testing.T) {
	enricher := new(MockEnricher)
	enricher.On("Enrich", mock.Anything, mock.Anything).Return(sampleListing(), nil)

	store := new(MockProductStore)
	store.On("Create", mock.Anything, mock.Anything).Return(nil)

	notifier := new(MockNotifier)
	notifier.On("ListingPublished", mock.Anything, mock.Anything).
		Return(fmt.Errorf("ses: throttled"))

	svc := newTestService(t, enricher, store, notifier, DefaultConfig())

	out, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.NotNil(t, out.Product)
	notifier.AssertExpectations(t)
}

// ==========================
// Validation Tests
// ==========================

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name    string
		body    map[string]interface{}
		wantErr bool
	}{
		{
			name: "valid sell listing",
			body: map[string]interface{}{
				"title":       "Blue Vase",
				"description": "Handmade",
				"price":       20.0,
				"type":        "sell",
			},
		},
		{
			name: "valid portfolio listing",
			body: map[string]interface{}{
				"title":       "Wall Hanging",
				"description": "Macrame piece",
				"price":       0.0,
				"type":        "portfolio",
			},
		},
		{
			name: "missing title",
			body: map[string]interface{}{
				"description": "Handmade",
				"price":       20.0,
				"type":        "sell",
			},
			wantErr: true,
		},
		{
			name: "empty description",
			body: map[string]interface{}{
				"title":       "Blue Vase",
				"description": "",
				"price":       20.0,
				"type":        "sell",
			},
			wantErr: true,
		},
		{
			name: "negative price",
			body: map[string]interface{}{
				"title":       "Blue Vase",
				"description": "Handmade",
				"price":       -5.0,
				"type":        "sell",
			},
			wantErr: true,
		},
		{
			name: "unknown type",
			body: map[string]interface{}{
				"title":       "Blue Vase",
				"description": "Handmade",
				"price":       20.0,
				"type":        "auction",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInput(tt.body)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.ErrCodeInvalidListingInput, errors.CodeOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
