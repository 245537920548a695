package service

import (
	"context"

	"nexcommerce/internal/model"

	"github.com/shopspring/decimal"
)

// ProductService defines read operations over the product catalogue.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)
}

// CategoryService defines read operations over the category catalogue.
type CategoryService interface {
	// GetAll retrieves all categories.
	GetAll(ctx context.Context) ([]model.Category, error)

	// GetByID retrieves a single category by ID.
	GetByID(ctx context.Context, id string) (*model.Category, error)

	// ProductsIn retrieves the products belonging to a category.
	ProductsIn(ctx context.Context, categoryID string) ([]model.Product, error)
}

// PromotionService defines lifecycle operations for promotions.
type PromotionService interface {
	// Create validates and persists a new promotion.
	Create(ctx context.Context, req *model.PromotionRequest) (*model.Promotion, error)

	// Update validates and persists changes to an existing promotion.
	// The usage counter is never writable through an update.
	Update(ctx context.Context, id int64, req *model.PromotionRequest) (*model.Promotion, error)

	// Get retrieves a promotion by ID.
	Get(ctx context.Context, id int64) (*model.Promotion, error)

	// List retrieves all promotions.
	List(ctx context.Context) ([]model.Promotion, error)

	// ListActive retrieves the promotions active right now.
	ListActive(ctx context.Context) ([]model.Promotion, error)

	// Activate flips the kill switch on; no other field changes.
	Activate(ctx context.Context, id int64) (*model.Promotion, error)

	// Deactivate flips the kill switch off; no other field changes.
	Deactivate(ctx context.Context, id int64) (*model.Promotion, error)

	// Delete removes a promotion from the store.
	Delete(ctx context.Context, id int64) error

	// CreateFlashSale creates a time-boxed promotion over an explicit
	// product set. All product IDs must exist, or nothing is created.
	CreateFlashSale(ctx context.Context, req *model.FlashSaleRequest) (*model.Promotion, error)
}

// PricingService resolves promotion eligibility and computes discounted
// prices.
type PricingService interface {
	// PromotionsFor returns the promotions applicable to a product or
	// category right now. An absent subject surfaces a not-found error.
	PromotionsFor(ctx context.Context, subject model.SubjectType, subjectID string) ([]model.Promotion, error)

	// BestDiscountFor computes the lowest price any eligible promotion
	// produces for the subject. With no eligible promotions the original
	// price comes back unchanged. A product with no direct promotions
	// falls back to its category's promotions.
	BestDiscountFor(ctx context.Context, subject model.SubjectType, subjectID string, originalPrice decimal.Decimal) (decimal.Decimal, error)
}

// RedemptionService applies promotion codes to subtotals.
type RedemptionService interface {
	// Redeem validates the code and, on success, computes the discounted
	// amount and consumes one unit of usage capacity in one logical
	// operation. Failures leave the usage counter untouched.
	Redeem(ctx context.Context, code string, subtotal decimal.Decimal) (decimal.Decimal, error)

	// IsValid runs the redemption pre-checks without computing an amount
	// or consuming capacity.
	IsValid(ctx context.Context, code string) (bool, error)
}
