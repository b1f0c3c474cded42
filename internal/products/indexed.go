package products

import (
	"context"

	"kalastra-backend/internal/common/logger"
	"kalastra-backend/internal/models"
)

// Creator persists a new product.
type Creator interface {
	Create(ctx context.Context, product *models.Product) error
}

// Indexer mirrors a product into the search backend.
type Indexer interface {
	IndexProduct(ctx context.Context, product *models.Product) error
}

// IndexedStore writes to the primary store and then mirrors the document
// into the search index. The index write is best-effort; the database is the
// source of truth and a re-index can repair the search side later.
type IndexedStore struct {
	store   Creator
	indexer Indexer
	logger  logger.Logger
}

func NewIndexedStore(store Creator, indexer Indexer, log logger.Logger) *IndexedStore {
	return &IndexedStore{store: store, indexer: indexer, logger: log}
}

func (s *IndexedStore) Create(ctx context.Context, product *models.Product) error {
	if err := s.store.Create(ctx, product); err != nil {
		return err
	}

	if s.indexer != nil {
		if err := s.indexer.IndexProduct(ctx, product); err != nil {
			s.logger.Warn("search index write failed", map[string]interface{}{
				"productId": product.ID,
				"error":     err.Error(),
			})
		}
	}
	return nil
}
