// Package catalog holds the immutable, load-once insurance product catalog.
package catalog

import (
	"errors"
	"fmt"

	"insurance-recommendation-engine/internal/models"
)

// ErrEmptyCatalog is returned when a catalog has no products.
var ErrEmptyCatalog = errors.New("catalog contains no products")

// Stats holds catalog-wide maxima used to normalize scores.
// They are computed over the full catalog, never over a filtered subset.
type Stats struct {
	MaxPremium  int64 `json:"max_premium"`
	MaxCoverage int64 `json:"max_coverage"`
	MaxCoPay    int   `json:"max_co_pay"`
}

// Catalog is a read-only, ordered product table. It is safe for concurrent use.
type Catalog struct {
	products []*models.Product
	byID     map[string]*models.Product
	stats    Stats
}

// New validates products and builds a catalog preserving their order.
func New(products []*models.Product) (*Catalog, error) {
	if len(products) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		products: make([]*models.Product, 0, len(products)),
		byID:     make(map[string]*models.Product, len(products)),
	}

	var errs []error
	for i, p := range products {
		if p == nil {
			errs = append(errs, fmt.Errorf("row %d: nil product", i+1))
			continue
		}
		if err := models.ValidateProduct(p); err != nil {
			errs = append(errs, fmt.Errorf("row %d (%s): %w", i+1, p.ID, err))
			continue
		}
		if _, dup := c.byID[p.ID]; dup {
			errs = append(errs, fmt.Errorf("row %d: duplicate product id %q", i+1, p.ID))
			continue
		}

		// Copy so callers cannot mutate the catalog through their slice.
		cp := *p
		c.products = append(c.products, &cp)
		c.byID[cp.ID] = &cp

		if cp.MonthlyPremium > c.stats.MaxPremium {
			c.stats.MaxPremium = cp.MonthlyPremium
		}
		if cp.Coverage > c.stats.MaxCoverage {
			c.stats.MaxCoverage = cp.Coverage
		}
		if cp.CoPay > c.stats.MaxCoPay {
			c.stats.MaxCoPay = cp.CoPay
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid catalog: %w", errors.Join(errs...))
	}

	return c, nil
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Stats returns the precomputed catalog-wide maxima.
func (c *Catalog) Stats() Stats {
	return c.stats
}

// Products returns the products in catalog order.
// The slice is a copy; the products must be treated as read-only.
func (c *Catalog) Products() []*models.Product {
	out := make([]*models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// FilterByAge returns the products whose inclusive age band admits age,
// in catalog order. A nil age returns the whole catalog.
// An empty result is not an error.
func (c *Catalog) FilterByAge(age *int) []*models.Product {
	if age == nil {
		return c.Products()
	}

	eligible := make([]*models.Product, 0, len(c.products))
	for _, p := range c.products {
		if p.AdmitsAge(*age) {
			eligible = append(eligible, p)
		}
	}
	return eligible
}

// Get returns the product with the given id.
func (c *Catalog) Get(id string) (*models.Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrProductNotFound, id)
	}
	return p, nil
}
