package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopcore/inventory/domain"
	"github.com/shopcore/inventory/repository"
)

const productColumns = `
	id, name, price, list_price, count_in_stock, min_stock_level, max_stock_level,
	tags, original_tags, is_promotion_active, promotion_start_date, promotion_expiry_date,
	num_sales, created_at, updated_at`

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a Postgres-backed implementation of ProductRepository.
func NewProductRepository(pool *pgxpool.Pool) repository.ProductRepository {
	return &productRepository{pool: pool}
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const query = `
	SELECT` + productColumns + `
	FROM products
	WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	return scanProduct(row)
}

func (r *productRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	const query = `
	SELECT` + productColumns + `
	FROM products
	WHERE ($1 = false OR min_stock_level = 0 OR max_stock_level = 0)
	ORDER BY created_at DESC
	LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, filter.MissingThresholdsOnly, clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, domain.StoreError("list products", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *productRepository) FindExpiredPromotions(ctx context.Context, now time.Time) ([]domain.Product, error) {
	const query = `
	SELECT` + productColumns + `
	FROM products
	WHERE is_promotion_active = true
	  AND promotion_expiry_date IS NOT NULL
	  AND promotion_expiry_date <= $1
	ORDER BY promotion_expiry_date ASC
	`
	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, domain.StoreError("find expired promotions", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *productRepository) FindByStockStatus(ctx context.Context, status domain.StockStatus, global domain.Thresholds) ([]domain.Product, error) {
	switch status {
	case domain.StockStatusOut:
		const query = `
		SELECT` + productColumns + `
		FROM products
		WHERE count_in_stock = 0
		ORDER BY updated_at DESC
		`
		rows, err := r.pool.Query(ctx, query)
		if err != nil {
			return nil, domain.StoreError("find out-of-stock products", err)
		}
		defer rows.Close()
		return collectProducts(rows)

	case domain.StockStatusLow:
		// Per-product overrides resolve inside the predicate: the low
		// cutoff is max_stock_level when the override pair is set.
		const query = `
		SELECT` + productColumns + `
		FROM products
		WHERE count_in_stock > 0
		  AND count_in_stock <= CASE
			WHEN min_stock_level > 0 AND max_stock_level > 0 THEN max_stock_level
			ELSE $1
		  END
		ORDER BY count_in_stock ASC
		`
		rows, err := r.pool.Query(ctx, query, global.Low)
		if err != nil {
			return nil, domain.StoreError("find low-stock products", err)
		}
		defer rows.Close()
		return collectProducts(rows)

	default:
		return nil, domain.NewError(domain.ErrCodeInvalid, "unsupported stock status query")
	}
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	if product == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE products
	SET price = $2,
		list_price = $3,
		count_in_stock = $4,
		tags = $5,
		original_tags = $6,
		is_promotion_active = $7,
		promotion_start_date = $8,
		promotion_expiry_date = $9,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		product.ID,
		product.Price,
		product.ListPrice,
		product.CountInStock,
		marshalTags(product.Tags),
		marshalTags(product.OriginalTags),
		product.IsPromotionActive,
		nullableTime(product.PromotionStartDate),
		nullableTime(product.PromotionExpiryDate),
	).Scan(&product.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrProductNotFound
		}
		return domain.StoreError("update product", err)
	}
	return nil
}

func (r *productRepository) UpdateThresholds(ctx context.Context, id string, minLevel, maxLevel int) error {
	const query = `
	UPDATE products
	SET min_stock_level = $2,
		max_stock_level = $3,
		updated_at = NOW()
	WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, minLevel, maxLevel)
	if err != nil {
		return domain.StoreError("update product thresholds", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func scanProduct(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Product, error) {
	var p domain.Product
	var (
		tags         []byte
		originalTags []byte
		start        *time.Time
		expiry       *time.Time
	)

	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&p.ListPrice,
		&p.CountInStock,
		&p.MinStockLevel,
		&p.MaxStockLevel,
		&tags,
		&originalTags,
		&p.IsPromotionActive,
		&start,
		&expiry,
		&p.NumSales,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.StoreError("scan product", err)
	}

	p.Tags = unmarshalTags(tags)
	p.OriginalTags = unmarshalTags(originalTags)
	p.PromotionStartDate = start
	p.PromotionExpiryDate = expiry
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]domain.Product, error) {
	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("iterate products", err)
	}
	return products, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 500
	}
	return limit
}
