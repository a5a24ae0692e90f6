package domain

import (
	"fmt"
	"strings"
)

// Product is a single catalog entry. Products are treated as immutable values.
type Product struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	Description    string         `json:"description" yaml:"description"`
	Brand          string         `json:"brand" yaml:"brand"`
	Category       string         `json:"category" yaml:"category"`
	Price          float64        `json:"price" yaml:"price"`
	Rating         float64        `json:"rating" yaml:"rating"` // expected 0-5
	InStock        bool           `json:"inStock" yaml:"inStock"`
	ImageURL       string         `json:"imageUrl" yaml:"imageUrl"`
	Specifications Specifications `json:"specifications,omitempty" yaml:"specifications,omitempty"`
}

// ProductFilter restricts GetAll results. A nil field means no constraint.
type ProductFilter struct {
	Category *string
	Brand    *string
	InStock  *bool
}

// Matches reports whether p satisfies every non-nil constraint.
func (f ProductFilter) Matches(p Product) bool {
	if f.Category != nil && !strings.EqualFold(p.Category, *f.Category) {
		return false
	}
	if f.Brand != nil && !strings.EqualFold(p.Brand, *f.Brand) {
		return false
	}
	if f.InStock != nil && p.InStock != *f.InStock {
		return false
	}
	return true
}

// PriceRange summarizes prices over a product set.
type PriceRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

// Stats is the aggregate view over the full catalog.
type Stats struct {
	Total      int        `json:"total"`
	Categories []string   `json:"categories"`
	Brands     []string   `json:"brands"`
	PriceRange PriceRange `json:"priceRange"`
	InStock    int        `json:"inStock"`
	OutOfStock int        `json:"outOfStock"`
}

// PriceSummary is the presentation of the catalog-wide price range.
type PriceSummary struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Average  float64 `json:"average"`
	Currency string  `json:"currency"`
}

// ValidateCatalog checks the catalog invariants: non-empty unique ids and non-negative prices.
func ValidateCatalog(products []Product) error {
	seen := make(map[string]int, len(products))
	for i, p := range products {
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("%w: record %d has an empty id", ErrInvalidCatalog, i)
		}
		if j, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q at records %d and %d", ErrInvalidCatalog, p.ID, j, i)
		}
		seen[p.ID] = i
		if p.Price < 0 {
			return fmt.Errorf("%w: product %q has negative price %v", ErrInvalidCatalog, p.ID, p.Price)
		}
	}
	return nil
}
