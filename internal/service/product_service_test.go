package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"nexcommerce/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_GetAll_Success(t *testing.T) {
	ctx := context.Background()

	testProducts := []model.Product{
		{ID: "P001", Name: "Product 1", Price: decimal.NewFromInt(10), CategoryID: "C001", CreatedAt: time.Now()},
		{ID: "P002", Name: "Product 2", Price: decimal.NewFromInt(20), CategoryID: "C002", CreatedAt: time.Now()},
	}

	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo, zerolog.Nop())

	mockRepo.On("GetAll", ctx, 10, 0).Return(testProducts, nil)

	products, err := service.GetAll(ctx, 10, 0)

	require.NoError(t, err)
	assert.Len(t, products, 2)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetAll_ClampsPagination(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo, zerolog.Nop())

	mockRepo.On("GetAll", ctx, 100, 0).Return([]model.Product{}, nil)

	_, err := service.GetAll(ctx, 500, -3)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo, zerolog.Nop())

	mockRepo.On("GetByID", ctx, "MISSING").Return(nil, nil)

	product, err := service.GetByID(ctx, "MISSING")

	require.ErrorIs(t, err, model.ErrProductNotFound)
	assert.Nil(t, product)
}

func TestProductService_GetByID_EmptyID(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo, zerolog.Nop())

	product, err := service.GetByID(ctx, "")

	require.ErrorIs(t, err, model.ErrProductNotFound)
	assert.Nil(t, product)
	mockRepo.AssertNotCalled(t, "GetByID")
}

func TestProductService_GetByID_RepoError(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo, zerolog.Nop())

	mockRepo.On("GetByID", ctx, "P001").Return(nil, errors.New("connection reset"))

	product, err := service.GetByID(ctx, "P001")

	require.Error(t, err)
	assert.Nil(t, product)
	assert.Contains(t, err.Error(), "failed to get product")
}

func TestProductService_GetByIDs_EmptyInput(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo, zerolog.Nop())

	products, err := service.GetByIDs(ctx, nil)

	require.NoError(t, err)
	assert.Empty(t, products)
	mockRepo.AssertNotCalled(t, "GetByIDs")
}
