package service

import (
	"context"
	"fmt"
	"time"

	"nexcommerce/internal/config"
	"nexcommerce/internal/model"
	"nexcommerce/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// promotionService implements PromotionService.
type promotionService struct {
	promotionRepo repository.PromotionRepository
	productRepo   repository.ProductRepository
	categoryRepo  repository.CategoryRepository
	cfg           config.PromotionConfig
	validate      *validator.Validate
	logger        zerolog.Logger
	now           func() time.Time
}

// NewPromotionService creates a new promotion lifecycle service. The
// promotion defaults come in explicitly through cfg.
func NewPromotionService(
	promotionRepo repository.PromotionRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	cfg config.PromotionConfig,
	logger zerolog.Logger,
) PromotionService {
	return &promotionService{
		promotionRepo: promotionRepo,
		productRepo:   productRepo,
		categoryRepo:  categoryRepo,
		cfg:           cfg,
		validate:      validator.New(),
		logger:        logger.With().Str("service", "promotion").Logger(),
		now:           time.Now,
	}
}

// Create validates and persists a new promotion.
func (s *promotionService) Create(ctx context.Context, req *model.PromotionRequest) (*model.Promotion, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	if err := s.resolveApplicability(ctx, req.ApplicableProductIDs, req.ApplicableCategoryIDs); err != nil {
		s.logger.Warn().Err(err).Str("name", req.Name).Msg("applicability resolution failed")
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	promotion := &model.Promotion{
		Name:                 req.Name,
		Description:          req.Description,
		Kind:                 req.Kind,
		DiscountRate:         req.DiscountRate,
		DiscountAmount:       req.DiscountAmount,
		MinPurchaseAmount:    req.MinPurchaseAmount,
		MaxDiscountAmount:    req.MaxDiscountAmount,
		Code:                 req.Code,
		ApplicableProducts:   req.ApplicableProductIDs,
		ApplicableCategories: req.ApplicableCategoryIDs,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		IsActive:             isActive,
		MaxUsageCount:        req.MaxUsageCount,
		CurrentUsageCount:    0,
	}

	if err := s.persistNew(ctx, promotion); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("promotion_id", promotion.ID).
		Str("kind", string(promotion.Kind)).
		Str("name", promotion.Name).
		Msg("promotion created")

	return promotion, nil
}

// Update validates and persists changes to an existing promotion.
// Applicability links are only rewritten when the request supplies id
// lists; the usage counter is never touched.
func (s *promotionService) Update(ctx context.Context, id int64, req *model.PromotionRequest) (*model.Promotion, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	if err := s.resolveApplicability(ctx, req.ApplicableProductIDs, req.ApplicableCategoryIDs); err != nil {
		s.logger.Warn().Err(err).Int64("promotion_id", id).Msg("applicability resolution failed")
		return nil, err
	}

	updated := *existing
	updated.Name = req.Name
	updated.Description = req.Description
	updated.Kind = req.Kind
	updated.DiscountRate = req.DiscountRate
	updated.DiscountAmount = req.DiscountAmount
	updated.MinPurchaseAmount = req.MinPurchaseAmount
	updated.MaxDiscountAmount = req.MaxDiscountAmount
	updated.Code = req.Code
	updated.StartDate = req.StartDate
	updated.EndDate = req.EndDate
	updated.MaxUsageCount = req.MaxUsageCount
	if req.IsActive != nil {
		updated.IsActive = *req.IsActive
	}

	tx, err := s.promotionRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update promotion: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.promotionRepo.Update(ctx, tx, &updated); err != nil {
		return nil, err
	}

	if req.ApplicableProductIDs != nil {
		if err = s.promotionRepo.ReplaceProductLinks(ctx, tx, id, req.ApplicableProductIDs); err != nil {
			return nil, err
		}
		updated.ApplicableProducts = req.ApplicableProductIDs
	}
	if req.ApplicableCategoryIDs != nil {
		if err = s.promotionRepo.ReplaceCategoryLinks(ctx, tx, id, req.ApplicableCategoryIDs); err != nil {
			return nil, err
		}
		updated.ApplicableCategories = req.ApplicableCategoryIDs
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to update promotion: %w", err)
	}

	s.logger.Info().Int64("promotion_id", id).Msg("promotion updated")

	return &updated, nil
}

// Get retrieves a promotion by ID.
func (s *promotionService) Get(ctx context.Context, id int64) (*model.Promotion, error) {
	promotion, err := s.promotionRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("promotion_id", id).Msg("failed to get promotion")
		return nil, fmt.Errorf("failed to get promotion: %w", err)
	}

	if promotion == nil {
		s.logger.Debug().Int64("promotion_id", id).Msg("promotion not found")
		return nil, model.ErrPromotionNotFound
	}

	return promotion, nil
}

// List retrieves all promotions.
func (s *promotionService) List(ctx context.Context) ([]model.Promotion, error) {
	promotions, err := s.promotionRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list promotions")
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}

	return promotions, nil
}

// ListActive retrieves the promotions active right now.
func (s *promotionService) ListActive(ctx context.Context) ([]model.Promotion, error) {
	promotions, err := s.promotionRepo.GetActive(ctx, s.now())
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list active promotions")
		return nil, fmt.Errorf("failed to list active promotions: %w", err)
	}

	return promotions, nil
}

// Activate flips the kill switch on.
func (s *promotionService) Activate(ctx context.Context, id int64) (*model.Promotion, error) {
	return s.setActive(ctx, id, true)
}

// Deactivate flips the kill switch off.
func (s *promotionService) Deactivate(ctx context.Context, id int64) (*model.Promotion, error) {
	return s.setActive(ctx, id, false)
}

func (s *promotionService) setActive(ctx context.Context, id int64, active bool) (*model.Promotion, error) {
	promotion, err := s.promotionRepo.SetActive(ctx, id, active)
	if err != nil {
		s.logger.Error().Err(err).Int64("promotion_id", id).Bool("active", active).Msg("failed to toggle promotion")
		return nil, fmt.Errorf("failed to toggle promotion: %w", err)
	}

	if promotion == nil {
		return nil, model.ErrPromotionNotFound
	}

	s.logger.Info().Int64("promotion_id", id).Bool("active", active).Msg("promotion toggled")

	return promotion, nil
}

// Delete removes a promotion.
func (s *promotionService) Delete(ctx context.Context, id int64) error {
	if err := s.promotionRepo.Delete(ctx, id); err != nil {
		if err == model.ErrPromotionNotFound {
			return err
		}
		s.logger.Error().Err(err).Int64("promotion_id", id).Msg("failed to delete promotion")
		return fmt.Errorf("failed to delete promotion: %w", err)
	}

	s.logger.Info().Int64("promotion_id", id).Msg("promotion deleted")

	return nil
}

// CreateFlashSale creates a time-boxed promotion over an explicit product
// set. Creation is all-or-nothing: a single missing product ID fails the
// whole request and nothing is persisted.
func (s *promotionService) CreateFlashSale(ctx context.Context, req *model.FlashSaleRequest) (*model.Promotion, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, model.NewValidationError(err.Error())
	}

	rate := req.DiscountRate
	if rate.IsZero() {
		rate = s.cfg.FlashSaleRate
	}
	if err := validateRate(rate); err != nil {
		return nil, err
	}

	hours := req.DurationHours
	if hours == 0 {
		hours = s.cfg.FlashSaleHours
	}

	if err := s.productRepo.ValidateProductsExist(ctx, req.ProductIDs); err != nil {
		s.logger.Warn().Err(err).Int("product_count", len(req.ProductIDs)).Msg("flash sale product validation failed")
		return nil, err
	}

	start := s.now()
	promotion := &model.Promotion{
		Name:               "Flash Sale",
		Description:        fmt.Sprintf("%d-hour flash sale", hours),
		Kind:               model.KindFlashSale,
		DiscountRate:       &rate,
		ApplicableProducts: req.ProductIDs,
		StartDate:          start,
		EndDate:            start.Add(time.Duration(hours) * time.Hour),
		IsActive:           true,
		CurrentUsageCount:  0,
	}

	if err := s.persistNew(ctx, promotion); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("promotion_id", promotion.ID).
		Int("product_count", len(req.ProductIDs)).
		Int("duration_hours", hours).
		Msg("flash sale created")

	return promotion, nil
}

// persistNew inserts a promotion and its links in one transaction.
func (s *promotionService) persistNew(ctx context.Context, promotion *model.Promotion) error {
	tx, err := s.promotionRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to create promotion: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.promotionRepo.Create(ctx, tx, promotion); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to create promotion: %w", err)
	}

	return nil
}

// validateRequest checks the structural and cross-field rules of a
// promotion request before anything touches the store.
func (s *promotionService) validateRequest(req *model.PromotionRequest) error {
	if req == nil {
		return model.NewValidationError("promotion request is nil")
	}

	if err := s.validate.Struct(req); err != nil {
		return model.NewValidationError(err.Error())
	}

	if !req.Kind.Valid() {
		return model.NewValidationError(fmt.Sprintf("unknown promotion kind %q", req.Kind))
	}

	if req.EndDate.Before(req.StartDate) {
		return model.NewValidationError("start date must not be after end date")
	}

	switch req.Kind {
	case model.KindFixedCoupon:
		if req.Code == nil || *req.Code == "" {
			return model.NewValidationError("a fixed coupon requires a redemption code")
		}
		if req.DiscountAmount == nil && req.DiscountRate == nil {
			return model.NewValidationError("a fixed coupon requires a discount amount or a discount rate")
		}
	case model.KindPercentage, model.KindFlashSale:
		if req.DiscountRate == nil {
			return model.NewValidationError(fmt.Sprintf("a %s promotion requires a discount rate", req.Kind))
		}
	}

	if req.DiscountRate != nil {
		if err := validateRate(*req.DiscountRate); err != nil {
			return err
		}
	}

	for name, amount := range map[string]*decimal.Decimal{
		"discountAmount":    req.DiscountAmount,
		"minPurchaseAmount": req.MinPurchaseAmount,
		"maxDiscountAmount": req.MaxDiscountAmount,
	} {
		if amount != nil && amount.IsNegative() {
			return model.NewValidationError(fmt.Sprintf("%s must be non-negative", name))
		}
	}

	return nil
}

// resolveApplicability checks every referenced product and category
// exists. Missing references fail before persistence.
func (s *promotionService) resolveApplicability(ctx context.Context, productIDs, categoryIDs []string) error {
	if err := s.productRepo.ValidateProductsExist(ctx, productIDs); err != nil {
		return err
	}
	return s.categoryRepo.ValidateCategoriesExist(ctx, categoryIDs)
}

// validateRate rejects rates outside (0, 1].
func validateRate(rate decimal.Decimal) error {
	if rate.LessThanOrEqual(decimal.Zero) || rate.GreaterThan(decimal.NewFromInt(1)) {
		return model.NewValidationError(fmt.Sprintf("discount rate must be in (0, 1], got %s", rate))
	}
	return nil
}
