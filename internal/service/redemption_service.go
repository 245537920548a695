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

// redemptionService implements RedemptionService.
type redemptionService struct {
	promotionRepo repository.PromotionRepository
	logger        zerolog.Logger
	now           func() time.Time
}

// NewRedemptionService creates a new redemption service.
func NewRedemptionService(promotionRepo repository.PromotionRepository, logger zerolog.Logger) RedemptionService {
	return &redemptionService{
		promotionRepo: promotionRepo,
		logger:        logger.With().Str("service", "redemption").Logger(),
		now:           time.Now,
	}
}

// Redeem applies a promotion code to a subtotal. Every check runs before
// the single mutation: the conditional usage increment. The increment can
// still lose a race against concurrent redemptions of the same code, in
// which case the store reports the cap breach and nothing is committed.
func (s *redemptionService) Redeem(ctx context.Context, code string, subtotal decimal.Decimal) (decimal.Decimal, error) {
	if subtotal.IsNegative() {
		return decimal.Zero, model.NewValidationError("subtotal must be non-negative")
	}

	promotion, err := s.lookup(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}

	if err := validateRedeemable(promotion, s.now()); err != nil {
		s.logger.Debug().Str("code", code).Err(err).Msg("redemption rejected")
		return decimal.Zero, err
	}

	amount, err := pricing.Apply(promotion, subtotal)
	if err != nil {
		if errors.Is(err, model.ErrBelowMinimumPurchase) {
			return decimal.Zero, model.ErrBelowMinimumPurchase
		}
		s.logger.Error().Err(err).Str("code", code).Msg("discount computation failed")
		return decimal.Zero, fmt.Errorf("failed to compute discount: %w", err)
	}

	if err := s.promotionRepo.IncrementUsage(ctx, promotion.ID); err != nil {
		if errors.Is(err, model.ErrUsageLimitExceeded) {
			return decimal.Zero, model.ErrUsageLimitExceeded
		}
		return decimal.Zero, fmt.Errorf("failed to commit redemption: %w", err)
	}

	s.logger.Info().
		Str("code", code).
		Int64("promotion_id", promotion.ID).
		Str("subtotal", subtotal.String()).
		Str("discounted", amount.String()).
		Msg("promotion code redeemed")

	return amount, nil
}

// IsValid runs the redemption pre-checks without side effects. Business
// rejections map to false; infrastructure faults propagate as errors.
func (s *redemptionService) IsValid(ctx context.Context, code string) (bool, error) {
	promotion, err := s.lookup(ctx, code)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCode) {
			return false, nil
		}
		return false, err
	}

	if err := validateRedeemable(promotion, s.now()); err != nil {
		return false, nil
	}

	return true, nil
}

// lookup fetches the promotion carrying the code.
func (s *redemptionService) lookup(ctx context.Context, code string) (*model.Promotion, error) {
	if code == "" {
		return nil, model.ErrInvalidCode
	}

	promotion, err := s.promotionRepo.GetByCode(ctx, code)
	if err != nil {
		s.logger.Error().Err(err).Str("code", code).Msg("failed to look up promotion code")
		return nil, fmt.Errorf("failed to look up promotion code: %w", err)
	}

	if promotion == nil {
		s.logger.Debug().Str("code", code).Msg("unknown promotion code")
		return nil, model.ErrInvalidCode
	}

	return promotion, nil
}

// validateRedeemable runs the pure redemption checks in order: kill
// switch, window, usage cap.
func validateRedeemable(p *model.Promotion, at time.Time) error {
	if !p.IsActive {
		return model.ErrPromotionDisabled
	}
	if at.Before(p.StartDate) || at.After(p.EndDate) {
		return model.ErrPromotionNotInWindow
	}
	if p.UsageExhausted() {
		return model.ErrUsageLimitExceeded
	}
	return nil
}
