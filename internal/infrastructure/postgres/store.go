package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/catalogcompare/backend/internal/domain"
)

// querier is the slice of *pgxpool.Pool used by Store
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store reads the catalog from a products table.
//
// Expected columns: id text, name text, description text, brand text, category text,
// price numeric, rating numeric, in_stock boolean, image_url text,
// specifications jsonb or json, position integer (catalog order).
// Specifications are selected as text so the document's key order survives.
type Store struct {
	db     querier
	pool   *pgxpool.Pool
	query  string
	logger *zap.Logger
}

// NewStore opens a connection pool and verifies it with a ping.
func NewStore(ctx context.Context, databaseURL, table string, logger *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping: %v", domain.ErrCatalogUnavailable, err)
	}

	s := newStore(pool, table, logger)
	s.pool = pool
	return s, nil
}

func newStore(db querier, table string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		db:     db,
		query:  selectQuery(table),
		logger: logger.Named("postgres"),
	}
}

func selectQuery(table string) string {
	ident := pgx.Identifier(strings.Split(table, ".")).Sanitize()
	return `SELECT id, name, COALESCE(description, ''), brand, category, price, rating, in_stock,
	COALESCE(image_url, ''), COALESCE(specifications::text, '')
FROM ` + ident + `
ORDER BY position, id`
}

// Close releases the pool. Safe to call on a store built without one.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// LoadAll reads every row of the products table.
func (s *Store) LoadAll(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.Query(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("%w: query products: %v", domain.ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var (
			p     domain.Product
			specs string
		)
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Brand, &p.Category,
			&p.Price, &p.Rating, &p.InStock, &p.ImageURL, &specs,
		); err != nil {
			return nil, fmt.Errorf("%w: scan product: %v", domain.ErrInvalidCatalog, err)
		}
		if specs != "" {
			if err := json.Unmarshal([]byte(specs), &p.Specifications); err != nil {
				return nil, fmt.Errorf("%w: product %q specifications: %v", domain.ErrInvalidCatalog, p.ID, err)
			}
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read products: %v", domain.ErrCatalogUnavailable, err)
	}

	if err := domain.ValidateCatalog(products); err != nil {
		return nil, err
	}

	s.logger.Debug("catalog rows loaded", zap.Int("products", len(products)))
	return products, nil
}
