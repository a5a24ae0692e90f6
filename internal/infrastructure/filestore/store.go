package filestore

import (
	"context"
	"fmt"
	"os"

	"github.com/catalogcompare/backend/internal/domain"
	"github.com/catalogcompare/backend/internal/infrastructure/catalogdata"
)

// Store reads the catalog from a local JSON or YAML file.
// The file is read on every LoadAll so edits show up on the next request.
type Store struct {
	path   string
	format catalogdata.Format
}

// NewStore creates a file-backed catalog source. The format follows the file extension.
func NewStore(path string) *Store {
	return &Store{
		path:   path,
		format: catalogdata.FormatFromPath(path),
	}
}

// Path returns the catalog file location.
func (s *Store) Path() string {
	return s.path
}

// LoadAll reads and decodes the whole catalog file.
func (s *Store) LoadAll(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	products, err := catalogdata.Decode(data, s.format)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", s.path, err)
	}
	return products, nil
}
