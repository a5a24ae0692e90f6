package domain

import "context"

// CatalogSource loads the complete product set from its backing store.
// Implementations must return a fresh slice on every call; callers never cache the result.
type CatalogSource interface {
	LoadAll(ctx context.Context) ([]Product, error)
}

// CatalogSourceFunc adapts a plain function to CatalogSource.
type CatalogSourceFunc func(ctx context.Context) ([]Product, error)

// LoadAll calls f(ctx).
func (f CatalogSourceFunc) LoadAll(ctx context.Context) ([]Product, error) {
	return f(ctx)
}
