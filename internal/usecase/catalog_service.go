package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/catalogcompare/backend/internal/domain"
)

// CatalogService is the read-only accessor over a CatalogSource.
// Every call reloads the full catalog so external changes are visible on the next request.
type CatalogService struct {
	source domain.CatalogSource
	logger *zap.Logger
}

// NewCatalogService creates a catalog accessor. A nil logger disables logging.
func NewCatalogService(source domain.CatalogSource, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		source: source,
		logger: logger.Named("catalog"),
	}
}

// load reads the full catalog, classifying failures as internal unless the source tagged them.
func (s *CatalogService) load(ctx context.Context) ([]domain.Product, error) {
	products, err := s.source.LoadAll(ctx)
	if err != nil {
		s.logger.Error("catalog load failed", zap.Error(err))
		var de *domain.Error
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, domain.Internal(domain.CodeCatalogUnavailable, "Failed to read products data", err)
	}
	s.logger.Debug("catalog loaded", zap.Int("products", len(products)))
	return products, nil
}

// GetAll returns every product matching the filter.
func (s *CatalogService) GetAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if filter.Matches(p) {
			result = append(result, p)
		}
	}
	return result, nil
}

// GetByID returns the product with the given id.
func (s *CatalogService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.InvalidInput(domain.CodeMissingID, "Product ID is required")
	}

	products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, domain.NotFound(domain.CodeProductNotFound, "Product not found")
}

// GetByIDs resolves ids in the order given, skipping unknown ids.
// Fails with NotFound when nothing resolves.
func (s *CatalogService) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, domain.InvalidInput(domain.CodeInvalidIDs, "Product IDs array is required")
	}

	products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]int, len(products))
	for i := len(products) - 1; i >= 0; i-- {
		byID[products[i].ID] = i
	}

	result := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if i, ok := byID[id]; ok {
			result = append(result, products[i])
		}
	}

	if len(result) == 0 {
		return nil, domain.NotFound(domain.CodeProductsNotFound, "No products found with the provided IDs")
	}
	return result, nil
}

// Search matches query case-insensitively against name, description and brand.
func (s *CatalogService) Search(ctx context.Context, query string) ([]domain.Product, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.InvalidInput(domain.CodeMissingQuery, "Search query is required")
	}

	products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(query)
	result := make([]domain.Product, 0)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) ||
			strings.Contains(strings.ToLower(p.Brand), term) {
			result = append(result, p)
		}
	}
	return result, nil
}

// GetByCategory returns products whose category equals category, ignoring case.
func (s *CatalogService) GetByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	if strings.TrimSpace(category) == "" {
		return nil, domain.InvalidInput(domain.CodeMissingCategory, "Category is required")
	}
	return s.GetAll(ctx, domain.ProductFilter{Category: &category})
}

// GetCategories returns the distinct categories in ascending order.
func (s *CatalogService) GetCategories(ctx context.Context) ([]string, error) {
	products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return sortedDistinct(products, func(p domain.Product) string { return p.Category }), nil
}

// GetBrands returns the distinct brands in ascending order.
func (s *CatalogService) GetBrands(ctx context.Context) ([]string, error) {
	products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return sortedDistinct(products, func(p domain.Product) string { return p.Brand }), nil
}

// GetStats aggregates the full catalog. The price average keeps full precision.
func (s *CatalogService) GetStats(ctx context.Context) (*domain.Stats, error) {
	products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.Stats{
		Total:      len(products),
		Categories: sortedDistinct(products, func(p domain.Product) string { return p.Category }),
		Brands:     sortedDistinct(products, func(p domain.Product) string { return p.Brand }),
	}

	sum := 0.0
	for i, p := range products {
		if i == 0 || p.Price < stats.PriceRange.Min {
			stats.PriceRange.Min = p.Price
		}
		if i == 0 || p.Price > stats.PriceRange.Max {
			stats.PriceRange.Max = p.Price
		}
		sum += p.Price
		if p.InStock {
			stats.InStock++
		} else {
			stats.OutOfStock++
		}
	}
	if len(products) > 0 {
		stats.PriceRange.Average = sum / float64(len(products))
	}

	return stats, nil
}

// GetPriceRange summarizes catalog prices with the average rounded to 2 decimals.
func (s *CatalogService) GetPriceRange(ctx context.Context) (*domain.PriceSummary, error) {
	stats, err := s.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.PriceSummary{
		Min:      stats.PriceRange.Min,
		Max:      stats.PriceRange.Max,
		Average:  Round2(stats.PriceRange.Average),
		Currency: "USD",
	}, nil
}

func sortedDistinct(products []domain.Product, field func(domain.Product) string) []string {
	values := distinct(products, field)
	sort.Strings(values)
	return values
}
