package integration

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	// Create connection pool
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	poolConfig.MaxConns = 10
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	// Create schema
	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS categories (
			id VARCHAR(50) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description VARCHAR(500) NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS products (
			id VARCHAR(50) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			price DECIMAL(12, 2) NOT NULL,
			category_id VARCHAR(50) NOT NULL REFERENCES categories(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS promotions (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description VARCHAR(500) NOT NULL DEFAULT '',
			kind VARCHAR(20) NOT NULL,
			discount_rate DECIMAL(6, 4),
			discount_amount DECIMAL(12, 2),
			min_purchase_amount DECIMAL(12, 2),
			max_discount_amount DECIMAL(12, 2),
			code VARCHAR(64),
			start_date TIMESTAMPTZ NOT NULL,
			end_date TIMESTAMPTZ NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			max_usage_count INTEGER,
			current_usage_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_promotions_code ON promotions(code) WHERE code IS NOT NULL;

		CREATE TABLE IF NOT EXISTS promotion_products (
			promotion_id BIGINT NOT NULL REFERENCES promotions(id) ON DELETE CASCADE,
			product_id VARCHAR(50) NOT NULL REFERENCES products(id),
			PRIMARY KEY (promotion_id, product_id)
		);

		CREATE TABLE IF NOT EXISTS promotion_categories (
			promotion_id BIGINT NOT NULL REFERENCES promotions(id) ON DELETE CASCADE,
			category_id VARCHAR(50) NOT NULL REFERENCES categories(id),
			PRIMARY KEY (promotion_id, category_id)
		);

		CREATE INDEX IF NOT EXISTS idx_promotion_products_product_id ON promotion_products(product_id);
		CREATE INDEX IF NOT EXISTS idx_promotion_categories_category_id ON promotion_categories(category_id);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedCatalogue inserts test category and product data.
func SeedCatalogue(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	categories := []struct {
		id   string
		name string
	}{
		{"C001", "Electronics"},
		{"C002", "Books"},
	}

	for _, c := range categories {
		_, err := pool.Exec(ctx,
			`INSERT INTO categories (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
			c.id, c.name,
		)
		if err != nil {
			t.Fatalf("failed to seed category %s: %v", c.id, err)
		}
	}

	products := []struct {
		id         string
		name       string
		price      string
		categoryID string
	}{
		{"P001", "Wireless Headphones", "99.99", "C001"},
		{"P002", "Mechanical Keyboard", "150.00", "C001"},
		{"P003", "Go Programming Book", "45.50", "C002"},
	}

	for _, p := range products {
		_, err := pool.Exec(ctx,
			`INSERT INTO products (id, name, price, category_id) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING`,
			p.id, p.name, decimal.RequireFromString(p.price), p.categoryID,
		)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.id, err)
		}
	}
}

// TruncatePromotions clears promotion data between tests. Catalogue rows
// stay put.
func TruncatePromotions(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`TRUNCATE promotion_products, promotion_categories, promotions RESTART IDENTITY`,
	)
	if err != nil {
		t.Fatalf("failed to truncate promotions: %v", err)
	}
}
