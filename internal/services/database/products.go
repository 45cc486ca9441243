package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"insurance-recommendation-engine/internal/models"
)

// productsSchema creates the catalog table. Coverage flags keep the catalog's
// "Yes"/"No" literals so exports round-trip byte for byte.
const productsSchema = `
	CREATE TABLE IF NOT EXISTS insurance_products (
		id               TEXT PRIMARY KEY,
		name             TEXT NOT NULL,
		type             TEXT NOT NULL,
		coverage         BIGINT NOT NULL CHECK (coverage > 0),
		monthly_premium  BIGINT NOT NULL CHECK (monthly_premium > 0),
		critical_illness TEXT NOT NULL DEFAULT 'No',
		maternity        TEXT NOT NULL DEFAULT 'No',
		accident         TEXT NOT NULL DEFAULT 'No',
		co_pay           INTEGER NOT NULL CHECK (co_pay BETWEEN 0 AND 100),
		age_min          INTEGER NOT NULL,
		age_max          INTEGER NOT NULL,
		position         INTEGER NOT NULL DEFAULT 0,
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (age_min <= age_max)
	)`

// ErrEmptyCatalog is returned when replacing the catalog with no products.
var ErrEmptyCatalog = errors.New("refusing to replace catalog with no products")

const productColumns = `id, name, type, coverage, monthly_premium,
	critical_illness, maternity, accident, co_pay, age_min, age_max`

// ProductRepository handles insurance catalog database operations.
type ProductRepository struct {
	db *DB
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// EnsureSchema creates the catalog table if it does not exist.
func (r *ProductRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, productsSchema); err != nil {
		return fmt.Errorf("failed to create insurance_products table: %w", err)
	}
	return nil
}

// ListAll retrieves the full catalog in its original row order.
func (r *ProductRepository) ListAll(ctx context.Context) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM insurance_products ORDER BY position, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query insurance products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan insurance product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate insurance products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a catalog product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM insurance_products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get insurance product: %w", err)
	}

	return product, nil
}

// BulkUpsert writes products in one transaction, preserving their order.
// Rows for ids not in products are left in place. It returns the number of
// rows written.
func (r *ProductRepository) BulkUpsert(ctx context.Context, products []*models.Product) (int, error) {
	written := 0

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		written, err = upsertProducts(ctx, tx, products)
		return err
	})
	if err != nil {
		return 0, err
	}

	return written, nil
}

// ReplaceCatalog makes products the whole catalog: it upserts them and deletes
// every other row in the same transaction. An empty list is rejected so a bad
// import cannot wipe the table.
func (r *ProductRepository) ReplaceCatalog(ctx context.Context, products []*models.Product) (written, removed int, err error) {
	if len(products) == 0 {
		return 0, 0, ErrEmptyCatalog
	}

	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}

	err = r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		n, err := upsertProducts(ctx, tx, products)
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM insurance_products WHERE NOT (id = ANY($1))`, ids)
		if err != nil {
			return fmt.Errorf("failed to remove retired products: %w", err)
		}

		written, removed = n, int(tag.RowsAffected())
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	return written, removed, nil
}

func upsertProducts(ctx context.Context, tx pgx.Tx, products []*models.Product) (int, error) {
	now := time.Now().UTC()
	for i, p := range products {
		_, err := tx.Exec(ctx, `
			INSERT INTO insurance_products (
				id, name, type, coverage, monthly_premium,
				critical_illness, maternity, accident, co_pay, age_min, age_max,
				position, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				type = EXCLUDED.type,
				coverage = EXCLUDED.coverage,
				monthly_premium = EXCLUDED.monthly_premium,
				critical_illness = EXCLUDED.critical_illness,
				maternity = EXCLUDED.maternity,
				accident = EXCLUDED.accident,
				co_pay = EXCLUDED.co_pay,
				age_min = EXCLUDED.age_min,
				age_max = EXCLUDED.age_max,
				position = EXCLUDED.position,
				updated_at = EXCLUDED.updated_at`,
			p.ID,
			p.Name,
			string(p.Type),
			p.Coverage,
			p.MonthlyPremium,
			models.FlagLiteral(p.CriticalIllness),
			models.FlagLiteral(p.Maternity),
			models.FlagLiteral(p.Accident),
			p.CoPay,
			p.AgeMin,
			p.AgeMax,
			i,
			now,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert product %s: %w", p.ID, err)
		}
	}
	return len(products), nil
}

// Count returns the number of catalog rows.
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM insurance_products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count insurance products: %w", err)
	}
	return n, nil
}

// scanProduct scans a single row into a Product, normalizing the flag literals.
func scanProduct(row pgx.Row) (*models.Product, error) {
	var product models.Product
	var productType, critical, maternity, accident string

	err := row.Scan(
		&product.ID,
		&product.Name,
		&productType,
		&product.Coverage,
		&product.MonthlyPremium,
		&critical,
		&maternity,
		&accident,
		&product.CoPay,
		&product.AgeMin,
		&product.AgeMax,
	)
	if err != nil {
		return nil, err
	}

	product.Type = models.ProductType(productType)
	product.CriticalIllness = models.ParseFlag(critical)
	product.Maternity = models.ParseFlag(maternity)
	product.Accident = models.ParseFlag(accident)

	return &product, nil
}
