package usecase

import (
	"context"
	"sync"

	"github.com/catalogcompare/backend/internal/domain"
)

// MockCatalogSource is an in-memory domain.CatalogSource that counts loads
type MockCatalogSource struct {
	mu       sync.Mutex
	products []domain.Product
	err      error
	loads    int
}

func NewMockCatalogSource(products []domain.Product) *MockCatalogSource {
	return &MockCatalogSource{products: products}
}

func (m *MockCatalogSource) LoadAll(ctx context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.Product, len(m.products))
	copy(out, m.products)
	return out, nil
}

func (m *MockCatalogSource) Replace(products []domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = products
}

func (m *MockCatalogSource) Loads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}

func specs(pairs ...any) domain.Specifications {
	out := domain.Specifications{}
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.Spec{Name: pairs[i].(string), Value: pairs[i+1]})
	}
	return out
}

// testCatalog returns a small catalog covering every price and rating bucket
func testCatalog() []domain.Product {
	return []domain.Product{
		{
			ID: "1", Name: "iPhone 15 Pro", Description: "Titanium smartphone", Brand: "Apple",
			Category: "smartphones", Price: 999, Rating: 4.8, InStock: true,
			ImageURL:       "https://img.example.com/1.jpg",
			Specifications: specs("storage", "128GB", "display", "6.1 inch", "camera", "48MP"),
		},
		{
			ID: "2", Name: "Galaxy S24", Description: "Android flagship", Brand: "Samsung",
			Category: "smartphones", Price: 799, Rating: 4.6, InStock: true,
			ImageURL:       "https://img.example.com/2.jpg",
			Specifications: specs("storage", "256GB", "display", "6.2 inch", "battery", "4000mAh"),
		},
		{
			ID: "3", Name: "MacBook Air", Description: "Thin and light laptop", Brand: "Apple",
			Category: "laptops", Price: 1199, Rating: 4.7, InStock: false,
			Specifications: specs("processor", "M3", "storage", "256GB"),
		},
		{
			ID: "4", Name: "Pixel 8", Description: "Google phone with AI camera", Brand: "Google",
			Category: "smartphones", Price: 699, Rating: 4.4, InStock: true,
			Specifications: specs("storage", "128GB", "camera", ""),
		},
		{
			ID: "5", Name: "WH-1000XM5", Description: "Noise cancelling headphones", Brand: "Sony",
			Category: "headphones", Price: 399, Rating: 4.5, InStock: true,
		},
		{
			ID: "6", Name: "XPS 13", Description: "Compact ultrabook", Brand: "Dell",
			Category: "laptops", Price: 1299, Rating: 4.3, InStock: false,
			Specifications: specs("processor", "i7"),
		},
		{
			ID: "7", Name: "Budget Buds", Description: "Entry level earbuds", Brand: "Anker",
			Category: "headphones", Price: 49, Rating: 3.2, InStock: true,
		},
	}
}

func newTestServices() (*MockCatalogSource, *CatalogService, *ComparisonService) {
	source := NewMockCatalogSource(testCatalog())
	catalog := NewCatalogService(source, nil)
	return source, catalog, NewComparisonService(catalog, nil)
}

func productIDs(products []domain.Product) []string {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}
