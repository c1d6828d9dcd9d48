package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/aftab6393/finmini/internal/core/domain"
)

const productColumns = `id, name, category, price_per_unit, metric, description, price_history, created_at`

type CatalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListProducts returns the whole catalog.
func (r *CatalogRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// GetProduct fetches a single product.
func (r *CatalogRepository) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	return p, nil
}

// CreateProduct inserts a catalog entry. Used by seeding only.
func (r *CatalogRepository) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO products (name, category, price_per_unit, metric, description, price_history)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + productColumns

	created, err := scanProduct(r.db.QueryRow(ctx, query,
		p.Name, p.Category, p.PricePerUnit, p.Metric, p.Description, p.PriceHistory))
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return created, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var history []decimal.Decimal
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.PricePerUnit, &p.Metric,
		&p.Description, &history, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.PriceHistory = history
	return &p, nil
}
