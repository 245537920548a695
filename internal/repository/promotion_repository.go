package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"nexcommerce/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// promotionColumns selects a promotion row together with its aggregated
// applicability links. Queries built on it must GROUP BY p.id.
const promotionColumns = `
	SELECT p.id, p.name, p.description, p.kind,
	       p.discount_rate, p.discount_amount, p.min_purchase_amount, p.max_discount_amount,
	       p.code, p.start_date, p.end_date, p.is_active,
	       p.max_usage_count, p.current_usage_count, p.created_at, p.updated_at,
	       COALESCE(ARRAY_AGG(DISTINCT pp.product_id) FILTER (WHERE pp.product_id IS NOT NULL), '{}'),
	       COALESCE(ARRAY_AGG(DISTINCT pc.category_id) FILTER (WHERE pc.category_id IS NOT NULL), '{}')
	FROM promotions p
	LEFT JOIN promotion_products pp ON pp.promotion_id = p.id
	LEFT JOIN promotion_categories pc ON pc.promotion_id = p.id
`

// promotionRepository implements the PromotionRepository interface using PostgreSQL.
type promotionRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPromotionRepository creates a new PostgreSQL-backed promotion repository.
func NewPromotionRepository(pool *pgxpool.Pool, logger zerolog.Logger) PromotionRepository {
	return &promotionRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "promotion").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *promotionRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Create inserts a promotion with its applicability links within the
// provided transaction.
func (r *promotionRepository) Create(ctx context.Context, tx pgx.Tx, p *model.Promotion) error {
	query := `
		INSERT INTO promotions (
			name, description, kind,
			discount_rate, discount_amount, min_purchase_amount, max_discount_amount,
			code, start_date, end_date, is_active, max_usage_count, current_usage_count
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		p.Name, p.Description, string(p.Kind),
		nullDecimal(p.DiscountRate), nullDecimal(p.DiscountAmount),
		nullDecimal(p.MinPurchaseAmount), nullDecimal(p.MaxDiscountAmount),
		p.Code, p.StartDate, p.EndDate, p.IsActive, p.MaxUsageCount, p.CurrentUsageCount,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("name", p.Name).Msg("failed to insert promotion")
		return fmt.Errorf("failed to insert promotion: %w", err)
	}

	if err := r.ReplaceProductLinks(ctx, tx, p.ID, p.ApplicableProducts); err != nil {
		return err
	}
	if err := r.ReplaceCategoryLinks(ctx, tx, p.ID, p.ApplicableCategories); err != nil {
		return err
	}

	r.logger.Debug().
		Int64("promotion_id", p.ID).
		Str("kind", string(p.Kind)).
		Msg("promotion created")

	return nil
}

// Update rewrites the mutable columns of a promotion within the provided
// transaction. current_usage_count is deliberately absent from the column
// list: it only moves through IncrementUsage.
func (r *promotionRepository) Update(ctx context.Context, tx pgx.Tx, p *model.Promotion) error {
	query := `
		UPDATE promotions
		SET name = $2, description = $3, kind = $4,
		    discount_rate = $5, discount_amount = $6,
		    min_purchase_amount = $7, max_discount_amount = $8,
		    code = $9, start_date = $10, end_date = $11,
		    is_active = $12, max_usage_count = $13,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := tx.QueryRow(ctx, query,
		p.ID, p.Name, p.Description, string(p.Kind),
		nullDecimal(p.DiscountRate), nullDecimal(p.DiscountAmount),
		nullDecimal(p.MinPurchaseAmount), nullDecimal(p.MaxDiscountAmount),
		p.Code, p.StartDate, p.EndDate, p.IsActive, p.MaxUsageCount,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return model.ErrPromotionNotFound
		}
		r.logger.Error().Err(err).Int64("promotion_id", p.ID).Msg("failed to update promotion")
		return fmt.Errorf("failed to update promotion: %w", err)
	}

	return nil
}

// ReplaceProductLinks replaces the promotion→product applicability set.
func (r *promotionRepository) ReplaceProductLinks(ctx context.Context, tx pgx.Tx, promotionID int64, productIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM promotion_products WHERE promotion_id = $1`, promotionID); err != nil {
		return fmt.Errorf("failed to clear product links: %w", err)
	}
	return r.insertLinks(ctx, tx, `INSERT INTO promotion_products (promotion_id, product_id) VALUES ($1, $2)`, promotionID, productIDs)
}

// ReplaceCategoryLinks replaces the promotion→category applicability set.
func (r *promotionRepository) ReplaceCategoryLinks(ctx context.Context, tx pgx.Tx, promotionID int64, categoryIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM promotion_categories WHERE promotion_id = $1`, promotionID); err != nil {
		return fmt.Errorf("failed to clear category links: %w", err)
	}
	return r.insertLinks(ctx, tx, `INSERT INTO promotion_categories (promotion_id, category_id) VALUES ($1, $2)`, promotionID, categoryIDs)
}

// insertLinks batch-inserts applicability link rows.
func (r *promotionRepository) insertLinks(ctx context.Context, tx pgx.Tx, query string, promotionID int64, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(query, promotionID, id)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(ids); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Int64("promotion_id", promotionID).
				Str("linked_id", ids[i]).
				Msg("failed to insert applicability link")
			return fmt.Errorf("failed to insert applicability link: %w", err)
		}
	}

	return results.Close()
}

// GetByID retrieves a promotion with its applicability links.
func (r *promotionRepository) GetByID(ctx context.Context, id int64) (*model.Promotion, error) {
	query := promotionColumns + `
		WHERE p.id = $1
		GROUP BY p.id
	`

	p, err := scanPromotion(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Int64("promotion_id", id).Msg("promotion not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("promotion_id", id).Msg("failed to query promotion")
		return nil, fmt.Errorf("failed to query promotion: %w", err)
	}

	return p, nil
}

// GetByCode retrieves a promotion by its redemption code.
func (r *promotionRepository) GetByCode(ctx context.Context, code string) (*model.Promotion, error) {
	query := promotionColumns + `
		WHERE p.code = $1
		GROUP BY p.id
	`

	p, err := scanPromotion(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("code", code).Msg("no promotion carries this code")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query promotion by code")
		return nil, fmt.Errorf("failed to query promotion by code: %w", err)
	}

	return p, nil
}

// GetAll retrieves all promotions ordered by ID.
func (r *promotionRepository) GetAll(ctx context.Context) ([]model.Promotion, error) {
	query := promotionColumns + `
		GROUP BY p.id
		ORDER BY p.id
	`

	return r.queryPromotions(ctx, query)
}

// GetActive retrieves all promotions active at the given instant.
func (r *promotionRepository) GetActive(ctx context.Context, at time.Time) ([]model.Promotion, error) {
	query := promotionColumns + `
		WHERE p.is_active AND p.start_date <= $1 AND p.end_date >= $1
		GROUP BY p.id
		ORDER BY p.id
	`

	return r.queryPromotions(ctx, query, at)
}

// GetActiveForProduct retrieves active-in-window promotions linked
// directly to the product.
func (r *promotionRepository) GetActiveForProduct(ctx context.Context, productID string, at time.Time) ([]model.Promotion, error) {
	query := promotionColumns + `
		WHERE p.is_active AND p.start_date <= $2 AND p.end_date >= $2
		  AND p.id IN (SELECT promotion_id FROM promotion_products WHERE product_id = $1)
		GROUP BY p.id
		ORDER BY p.id
	`

	return r.queryPromotions(ctx, query, productID, at)
}

// GetActiveForCategory retrieves active-in-window promotions linked to
// the category.
func (r *promotionRepository) GetActiveForCategory(ctx context.Context, categoryID string, at time.Time) ([]model.Promotion, error) {
	query := promotionColumns + `
		WHERE p.is_active AND p.start_date <= $2 AND p.end_date >= $2
		  AND p.id IN (SELECT promotion_id FROM promotion_categories WHERE category_id = $1)
		GROUP BY p.id
		ORDER BY p.id
	`

	return r.queryPromotions(ctx, query, categoryID, at)
}

// SetActive toggles the kill switch and returns the updated promotion.
func (r *promotionRepository) SetActive(ctx context.Context, id int64, active bool) (*model.Promotion, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE promotions SET is_active = $2, updated_at = NOW() WHERE id = $1`,
		id, active,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("promotion_id", id).Bool("active", active).Msg("failed to toggle promotion")
		return nil, fmt.Errorf("failed to toggle promotion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, id)
}

// Delete removes a promotion. Link rows go with it via ON DELETE CASCADE.
func (r *promotionRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("promotion_id", id).Msg("failed to delete promotion")
		return fmt.Errorf("failed to delete promotion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPromotionNotFound
	}

	r.logger.Debug().Int64("promotion_id", id).Msg("promotion deleted")
	return nil
}

// IncrementUsage atomically consumes one unit of usage capacity. The
// usage cap is enforced inside the UPDATE itself, so concurrent
// redemptions of the same code serialize on the row and never push the
// counter past the cap, regardless of how many service instances run.
func (r *promotionRepository) IncrementUsage(ctx context.Context, id int64) error {
	query := `
		UPDATE promotions
		SET current_usage_count = current_usage_count + 1, updated_at = NOW()
		WHERE id = $1
		  AND (max_usage_count IS NULL OR current_usage_count < max_usage_count)
	`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("promotion_id", id).Msg("failed to increment usage count")
		return fmt.Errorf("failed to increment usage count: %w", err)
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM promotions WHERE id = $1)`, id,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check promotion existence: %w", err)
		}
		if !exists {
			return model.ErrPromotionNotFound
		}
		r.logger.Warn().Int64("promotion_id", id).Msg("usage cap reached")
		return model.ErrUsageLimitExceeded
	}

	return nil
}

// queryPromotions runs a multi-row promotion query and scans the results.
func (r *promotionRepository) queryPromotions(ctx context.Context, query string, args ...any) ([]model.Promotion, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query promotions")
		return nil, fmt.Errorf("failed to query promotions: %w", err)
	}
	defer rows.Close()

	var promotions []model.Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan promotion row")
			return nil, fmt.Errorf("failed to scan promotion: %w", err)
		}
		promotions = append(promotions, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating promotions: %w", err)
	}

	return promotions, nil
}

// scanPromotion maps one promotion row, converting nullable columns.
func scanPromotion(row pgx.Row) (*model.Promotion, error) {
	var (
		p        model.Promotion
		kind     string
		rate     decimal.NullDecimal
		amount   decimal.NullDecimal
		minP     decimal.NullDecimal
		maxP     decimal.NullDecimal
		code     sql.NullString
		maxUsage sql.NullInt32
	)

	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &kind,
		&rate, &amount, &minP, &maxP,
		&code, &p.StartDate, &p.EndDate, &p.IsActive,
		&maxUsage, &p.CurrentUsageCount, &p.CreatedAt, &p.UpdatedAt,
		&p.ApplicableProducts, &p.ApplicableCategories,
	)
	if err != nil {
		return nil, err
	}

	p.Kind = model.PromotionKind(kind)
	if rate.Valid {
		p.DiscountRate = &rate.Decimal
	}
	if amount.Valid {
		p.DiscountAmount = &amount.Decimal
	}
	if minP.Valid {
		p.MinPurchaseAmount = &minP.Decimal
	}
	if maxP.Valid {
		p.MaxDiscountAmount = &maxP.Decimal
	}
	if code.Valid {
		p.Code = &code.String
	}
	if maxUsage.Valid {
		n := int(maxUsage.Int32)
		p.MaxUsageCount = &n
	}

	return &p, nil
}

// nullDecimal adapts an optional decimal for a nullable numeric column.
func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
