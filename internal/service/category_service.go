package service

import (
	"context"
	"fmt"

	"nexcommerce/internal/model"
	"nexcommerce/internal/repository"

	"github.com/rs/zerolog"
)

// categoryService implements CategoryService.
type categoryService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	logger       zerolog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		logger:       logger.With().Str("service", "category").Logger(),
	}
}

// GetAll retrieves all categories.
func (s *categoryService) GetAll(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get categories")
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	return categories, nil
}

// GetByID retrieves a single category by ID.
func (s *categoryService) GetByID(ctx context.Context, id string) (*model.Category, error) {
	if id == "" {
		return nil, model.ErrCategoryNotFound
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("category_id", id).Msg("failed to get category by ID")
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	if category == nil {
		s.logger.Debug().Str("category_id", id).Msg("category not found")
		return nil, model.ErrCategoryNotFound
	}

	return category, nil
}

// ProductsIn retrieves the products belonging to a category. The category
// must exist; an absent category is an error, not an empty list.
func (s *categoryService) ProductsIn(ctx context.Context, categoryID string) ([]model.Product, error) {
	if _, err := s.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}

	products, err := s.productRepo.GetByCategory(ctx, categoryID)
	if err != nil {
		s.logger.Error().Err(err).Str("category_id", categoryID).Msg("failed to get products in category")
		return nil, fmt.Errorf("failed to get products in category: %w", err)
	}

	return products, nil
}
