package manuallisting

import (
	"context"
	"time"

	"github.com/google/uuid"

	"kalastra-backend/internal/common/errors"
	"kalastra-backend/internal/common/logger"
	"kalastra-backend/internal/models"
)

// Enricher is the generative-text contract, shared with the AI pipeline.
type Enricher interface {
	Enrich(ctx context.Context, narrative string) (*models.StructuredListing, error)
}

// ProductStore persists finished products.
type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
}

// Notifier tells the seller their listing went live. Best-effort.
type Notifier interface {
	ListingPublished(ctx context.Context, product *models.Product) error
}

type ServiceDependencies struct {
	Enricher Enricher
	Store    ProductStore
	Notifier Notifier
	Logger   logger.Logger
}

// Service runs the manual listing pipeline: the seller's own form data is the
// source of truth and enrichment only augments it. An AI outage degrades the
// result, never fails it.
type Service struct {
	enricher Enricher
	store    ProductStore
	notifier Notifier
	config   *Config
	logger   logger.Logger
}

func NewService(deps ServiceDependencies, cfg *Config) *Service {
	return &Service{
		enricher: deps.Enricher,
		store:    deps.Store,
		notifier: deps.Notifier,
		config:   cfg,
		logger:   deps.Logger.WithFields(map[string]interface{}{"pipeline": PipelineName}),
	}
}

// Create builds, enriches and persists a product from the seller's form.
func (s *Service) Create(ctx context.Context, input *Input) (*Output, error) {
	now := time.Now().UTC()
	product := &models.Product{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Quantity:    1,
		SEOTags:     []string{},
		Type:        input.Type,
		ArtisanID:   input.ArtisanID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	suggestions := s.enrich(ctx, product, input)

	if err := s.store.Create(ctx, product); err != nil {
		s.logger.Error("product persist failed", map[string]interface{}{
			"productId": product.ID,
			"error":     err.Error(),
		})
		return nil, errors.NewProductPersistError(err.Error())
	}

	if s.notifier != nil {
		if err := s.notifier.ListingPublished(ctx, product); err != nil {
			s.logger.Warn("listing notification failed", map[string]interface{}{
				"productId": product.ID,
				"error":     err.Error(),
			})
		}
	}

	s.logger.Info("product created", map[string]interface{}{
		"productId": product.ID,
		"type":      product.Type,
		"aiApplied": suggestions.Applied,
	})
	return &Output{Product: product, Suggestions: suggestions}, nil
}

// enrich calls the vendor over the seller's own words and merges the result
// into the product. The seller's price and listing type always win. Title and
// description are replaced only when prefer_ai_content is on. Any enrichment
// failure falls back to the form data with default suggestions.
func (s *Service) enrich(ctx context.Context, product *models.Product, input *Input) *AISuggestions {
	if s.enricher == nil {
		return defaultSuggestions()
	}

	enrichCtx, cancel := context.WithTimeout(ctx, s.config.EnrichmentTimeout)
	defer cancel()

	narrative := input.Title + " " + input.Description
	listing, err := s.enricher.Enrich(enrichCtx, narrative)
	if err != nil {
		s.logger.Warn("enrichment unavailable, falling back to form data", map[string]interface{}{
			"code":  string(errors.CodeOf(err)),
			"error": err.Error(),
		})
		return defaultSuggestions()
	}

	suggestions := &AISuggestions{
		Category: listing.Category,
		SEOTags:  listing.SEOTags,
		SEOTip:   listing.SEOTip,
		Applied:  true,
	}
	if rc, err := listing.ReachChance.Float(); err == nil {
		suggestions.ReachChance = &rc
	}
	if rp, err := listing.Price.Float(); err == nil {
		suggestions.RecommendedPrice = &rp
	}

	product.SEOTags = listing.SEOTags
	product.SEOTip = listing.SEOTip
	product.ReachChance = suggestions.ReachChance
	product.RecommendedPrice = suggestions.RecommendedPrice
	if s.config.PreferAIContent {
		product.Title = listing.Title
		product.Description = listing.Description
	}

	return suggestions
}

func defaultSuggestions() *AISuggestions {
	return &AISuggestions{
		SEOTags: []string{},
		SEOTip:  fallbackSEOTip,
		Applied: false,
	}
}
