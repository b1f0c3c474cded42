package products

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kalastra-backend/internal/common/logger"
	"kalastra-backend/internal/models"
)

type MockCreator struct {
	mock.Mock
}

func (m *MockCreator) Create(ctx context.Context, p *models.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type MockIndexer struct {
	mock.Mock
}

func (m *MockIndexer) IndexProduct(ctx context.Context, p *models.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func TestIndexedStore_Create(t *testing.T) {
	creator := new(MockCreator)
	creator.On("Create", mock.Anything, mock.Anything).Return(nil)

	indexer := new(MockIndexer)
	indexer.On("IndexProduct", mock.Anything, mock.Anything).Return(nil)

	s := NewIndexedStore(creator, indexer, logger.NewTestLogger(t))
	err := s.Create(context.Background(), sampleProduct())
	require.NoError(t, err)
	creator.AssertExpectations(t)
	indexer.AssertExpectations(t)
}

func TestIndexedStore_Create_IndexFailureIsNotFatal(t *testing.T) {
	creator := new(MockCreator)
	creator.On("Create", mock.Anything, mock.Anything).Return(nil)

	indexer := new(MockIndexer)
	indexer.On("IndexProduct", mock.Anything, mock.Anything).
		Return(fmt.Errorf("es: unavailable"))

	s := NewIndexedStore(creator, indexer, logger.NewTestLogger(t))
	err := s.Create(context.Background(), sampleProduct())
	assert.NoError(t, err)
}

func TestIndexedStore_Create_StoreFailureSkipsIndexing(t *testing.T) {
	creator := new(MockCreator)
	creator.On("Create", mock.Anything, mock.Anything).
		Return(fmt.Errorf("pq: connection reset"))

	indexer := new(MockIndexer)

	s := NewIndexedStore(creator, indexer, logger.NewTestLogger(t))
	err := s.Create(context.Background(), sampleProduct())
	require.Error(t, err)
	indexer.AssertNotCalled(t, "IndexProduct", mock.Anything, mock.Anything)
}
