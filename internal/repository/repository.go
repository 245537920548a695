package repository

import (
	"context"
	"time"

	"nexcommerce/internal/model"

	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns (nil, nil)
	// when the product does not exist.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// GetByCategory retrieves all products belonging to a category.
	GetByCategory(ctx context.Context, categoryID string) ([]model.Product, error)

	// ValidateProductsExist checks if all provided product IDs exist in
	// the database. Returns model.ErrProductNotFound if any ID is missing.
	ValidateProductsExist(ctx context.Context, ids []string) error
}

// CategoryRepository defines the interface for category data access operations.
type CategoryRepository interface {
	// GetAll retrieves all categories.
	GetAll(ctx context.Context) ([]model.Category, error)

	// GetByID retrieves a single category by its ID. Returns (nil, nil)
	// when the category does not exist.
	GetByID(ctx context.Context, id string) (*model.Category, error)

	// ValidateCategoriesExist checks if all provided category IDs exist in
	// the database. Returns model.ErrCategoryNotFound if any ID is missing.
	ValidateCategoriesExist(ctx context.Context, ids []string) error
}

// PromotionRepository defines the interface for promotion data access
// operations. Writes that touch a promotion together with its
// applicability links run inside a caller-managed transaction.
type PromotionRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a promotion with its applicability links within the
	// provided transaction and fills in the generated ID and timestamps.
	Create(ctx context.Context, tx pgx.Tx, p *model.Promotion) error

	// Update rewrites the mutable columns of a promotion within the
	// provided transaction. It never touches current_usage_count.
	Update(ctx context.Context, tx pgx.Tx, p *model.Promotion) error

	// ReplaceProductLinks replaces the promotion→product applicability
	// set within the provided transaction.
	ReplaceProductLinks(ctx context.Context, tx pgx.Tx, promotionID int64, productIDs []string) error

	// ReplaceCategoryLinks replaces the promotion→category applicability
	// set within the provided transaction.
	ReplaceCategoryLinks(ctx context.Context, tx pgx.Tx, promotionID int64, categoryIDs []string) error

	// GetByID retrieves a promotion with its applicability links. Returns
	// (nil, nil) when the promotion does not exist.
	GetByID(ctx context.Context, id int64) (*model.Promotion, error)

	// GetByCode retrieves a promotion by its redemption code. Returns
	// (nil, nil) when no promotion carries the code.
	GetByCode(ctx context.Context, code string) (*model.Promotion, error)

	// GetAll retrieves all promotions ordered by ID.
	GetAll(ctx context.Context) ([]model.Promotion, error)

	// GetActive retrieves all promotions whose kill switch is on and
	// whose window contains the given instant, ordered by ID.
	GetActive(ctx context.Context, at time.Time) ([]model.Promotion, error)

	// GetActiveForProduct retrieves active-in-window promotions linked
	// directly to the product, ordered by ID.
	GetActiveForProduct(ctx context.Context, productID string, at time.Time) ([]model.Promotion, error)

	// GetActiveForCategory retrieves active-in-window promotions linked
	// to the category, ordered by ID.
	GetActiveForCategory(ctx context.Context, categoryID string, at time.Time) ([]model.Promotion, error)

	// SetActive toggles the kill switch and returns the updated
	// promotion. Returns (nil, nil) when the promotion does not exist.
	SetActive(ctx context.Context, id int64, active bool) (*model.Promotion, error)

	// Delete removes a promotion and its links. Returns
	// model.ErrPromotionNotFound when the promotion does not exist.
	Delete(ctx context.Context, id int64) error

	// IncrementUsage atomically increments current_usage_count by one,
	// conditional on the usage cap not being reached. Returns
	// model.ErrUsageLimitExceeded when the cap is already consumed and
	// model.ErrPromotionNotFound when the row does not exist.
	IncrementUsage(ctx context.Context, id int64) error
}
