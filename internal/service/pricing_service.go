package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nexcommerce/internal/model"
	"nexcommerce/internal/pricing"
	"nexcommerce/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// pricingService implements PricingService.
type pricingService struct {
	promotionRepo repository.PromotionRepository
	productRepo   repository.ProductRepository
	categoryRepo  repository.CategoryRepository
	logger        zerolog.Logger
	now           func() time.Time
}

// NewPricingService creates a new pricing service.
func NewPricingService(
	promotionRepo repository.PromotionRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	logger zerolog.Logger,
) PricingService {
	return &pricingService{
		promotionRepo: promotionRepo,
		productRepo:   productRepo,
		categoryRepo:  categoryRepo,
		logger:        logger.With().Str("service", "pricing").Logger(),
		now:           time.Now,
	}
}

// PromotionsFor returns the promotions applicable to a subject right now.
func (s *pricingService) PromotionsFor(ctx context.Context, subject model.SubjectType, subjectID string) ([]model.Promotion, error) {
	promotions, err := s.eligiblePromotions(ctx, subject, subjectID, s.now())
	if err != nil {
		return nil, err
	}
	if promotions == nil {
		promotions = []model.Promotion{}
	}
	return promotions, nil
}

// BestDiscountFor computes the lowest price any eligible promotion
// produces. Promotions come back from the store ordered by ID, and only a
// strictly lower amount displaces the current best, so the lowest
// promotion ID wins ties.
func (s *pricingService) BestDiscountFor(ctx context.Context, subject model.SubjectType, subjectID string, originalPrice decimal.Decimal) (decimal.Decimal, error) {
	if originalPrice.IsNegative() {
		return decimal.Zero, model.NewValidationError("original price must be non-negative")
	}

	promotions, err := s.eligiblePromotions(ctx, subject, subjectID, s.now())
	if err != nil {
		return decimal.Zero, err
	}

	best := originalPrice
	for i := range promotions {
		amount, err := pricing.Apply(&promotions[i], originalPrice)
		if err != nil {
			// A coupon whose hard minimum is unmet cannot auto-apply;
			// a malformed promotion must not poison the whole quote.
			if !errors.Is(err, model.ErrBelowMinimumPurchase) {
				s.logger.Warn().
					Err(err).
					Int64("promotion_id", promotions[i].ID).
					Msg("skipping promotion that cannot be applied")
			}
			continue
		}
		if amount.LessThan(best) {
			best = amount
		}
	}

	return best, nil
}

// eligiblePromotions resolves the subject and loads its active
// promotions. A product with no direct promotions falls back to its
// category's promotions; the two levels are never merged.
func (s *pricingService) eligiblePromotions(ctx context.Context, subject model.SubjectType, subjectID string, at time.Time) ([]model.Promotion, error) {
	switch subject {
	case model.SubjectProduct:
		product, err := s.productRepo.GetByID(ctx, subjectID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve product: %w", err)
		}
		if product == nil {
			return nil, model.ErrProductNotFound
		}

		promotions, err := s.promotionRepo.GetActiveForProduct(ctx, subjectID, at)
		if err != nil {
			return nil, fmt.Errorf("failed to load product promotions: %w", err)
		}
		if len(promotions) > 0 {
			return promotions, nil
		}

		promotions, err = s.promotionRepo.GetActiveForCategory(ctx, product.CategoryID, at)
		if err != nil {
			return nil, fmt.Errorf("failed to load category promotions: %w", err)
		}
		return promotions, nil

	case model.SubjectCategory:
		category, err := s.categoryRepo.GetByID(ctx, subjectID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve category: %w", err)
		}
		if category == nil {
			return nil, model.ErrCategoryNotFound
		}

		promotions, err := s.promotionRepo.GetActiveForCategory(ctx, subjectID, at)
		if err != nil {
			return nil, fmt.Errorf("failed to load category promotions: %w", err)
		}
		return promotions, nil

	default:
		return nil, model.NewValidationError(fmt.Sprintf("unknown subject type %q", subject))
	}
}
