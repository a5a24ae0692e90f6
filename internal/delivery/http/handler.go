package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/catalogcompare/backend/internal/domain"
	"github.com/catalogcompare/backend/internal/observability"
	"github.com/catalogcompare/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog     *usecase.CatalogService
	comparisons *usecase.ComparisonService
	environment string
	production  bool
	logger      *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(catalog *usecase.CatalogService, comparisons *usecase.ComparisonService, environment string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		catalog:     catalog,
		comparisons: comparisons,
		environment: environment,
		production:  environment == "production",
		logger:      logger.Named("http"),
	}
}

// listQuery is the query string of GET /products
type listQuery struct {
	Category string `form:"category" json:"category,omitempty"`
	Brand    string `form:"brand" json:"brand,omitempty"`
	InStock  string `form:"inStock" json:"inStock,omitempty"`
	Search   string `form:"search" json:"search,omitempty"`
}

// filter converts the query into a ProductFilter; empty values mean no constraint.
func (q listQuery) filter() (domain.ProductFilter, error) {
	var f domain.ProductFilter
	if q.Category != "" {
		f.Category = &q.Category
	}
	if q.Brand != "" {
		f.Brand = &q.Brand
	}
	if q.InStock != "" {
		inStock, err := strconv.ParseBool(q.InStock)
		if err != nil {
			return f, domain.InvalidInput(domain.CodeInvalidFilter, "inStock must be true or false")
		}
		f.InStock = &inStock
	}
	return f, nil
}

type compareQuery struct {
	IDs      string `form:"ids"`
	Criteria string `form:"criteria"`
}

type searchQuery struct {
	Q string `form:"q"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"status":      "healthy",
		"message":     "Product Comparison API is running",
		"service":     "catalogcompare-backend",
		"version":     "1.0.0",
		"environment": h.environment,
		"timestamp":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// ListProducts handles GET /products. A search term takes precedence over the filters.
func (h *Handler) ListProducts(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.respondError(c, domain.InvalidInput(domain.CodeInvalidFilter, err.Error()))
		return
	}

	var (
		products []domain.Product
		err      error
	)
	if q.Search != "" {
		products, err = h.catalog.Search(c.Request.Context(), q.Search)
	} else {
		var filter domain.ProductFilter
		if filter, err = q.filter(); err == nil {
			products, err = h.catalog.GetAll(c.Request.Context(), filter)
		}
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondOK(c, products, gin.H{
		"total":   len(products),
		"filters": q,
	})
}

// GetProduct handles GET /products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, product, nil)
}

// compareFunc runs one comparison view over the raw ids and criteria
type compareFunc func(ctx context.Context, ids, criteria string) (any, *domain.Comparison, error)

func (h *Handler) compare(view string, run compareFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q compareQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			h.respondError(c, domain.InvalidInput(domain.CodeInvalidIDs, err.Error()))
			return
		}

		data, cmp, err := run(c.Request.Context(), q.IDs, q.Criteria)
		observability.RecordComparison(view, err)
		if err != nil {
			h.respondError(c, err)
			return
		}
		respondComparison(c, data, cmp)
	}
}

// CompareProducts handles GET /products/compare
func (h *Handler) CompareProducts(c *gin.Context) {
	h.compare("basic", func(ctx context.Context, ids, _ string) (any, *domain.Comparison, error) {
		return h.comparisons.CompareBasic(ctx, ids)
	})(c)
}

// CompareDetailed handles GET /products/compare/detailed
func (h *Handler) CompareDetailed(c *gin.Context) {
	h.compare("detailed", func(ctx context.Context, ids, _ string) (any, *domain.Comparison, error) {
		return h.comparisons.CompareDetailed(ctx, ids)
	})(c)
}

// CompareVisual handles GET /products/compare/visual
func (h *Handler) CompareVisual(c *gin.Context) {
	h.compare("visual", func(ctx context.Context, ids, _ string) (any, *domain.Comparison, error) {
		return h.comparisons.CompareVisual(ctx, ids)
	})(c)
}

// CompareMatrix handles GET /products/compare/matrix
func (h *Handler) CompareMatrix(c *gin.Context) {
	h.compare("matrix", func(ctx context.Context, ids, _ string) (any, *domain.Comparison, error) {
		return h.comparisons.CompareMatrix(ctx, ids)
	})(c)
}

// CompareRecommendations handles GET /products/compare/recommendations
func (h *Handler) CompareRecommendations(c *gin.Context) {
	h.compare("recommendations", func(ctx context.Context, ids, criteria string) (any, *domain.Comparison, error) {
		return h.comparisons.CompareRecommendations(ctx, ids, criteria)
	})(c)
}

// SearchProducts handles GET /products/search?q=
func (h *Handler) SearchProducts(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.respondError(c, domain.InvalidInput(domain.CodeMissingQuery, err.Error()))
		return
	}

	products, err := h.catalog.Search(c.Request.Context(), q.Q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, products, gin.H{
		"total": len(products),
		"query": q.Q,
	})
}

// GetStats handles GET /products/stats/overview
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.catalog.GetStats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, stats, nil)
}

// ListCategories handles GET /products/categories/list
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.GetCategories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, categories, gin.H{"total": len(categories)})
}

// ListBrands handles GET /products/brands/list
func (h *Handler) ListBrands(c *gin.Context) {
	brands, err := h.catalog.GetBrands(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, brands, gin.H{"total": len(brands)})
}

// GetPriceRange handles GET /products/price-range
func (h *Handler) GetPriceRange(c *gin.Context) {
	summary, err := h.catalog.GetPriceRange(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, summary, nil)
}

// ListByCategory handles GET /products/category/:category
func (h *Handler) ListByCategory(c *gin.Context) {
	category := c.Param("category")
	products, err := h.catalog.GetByCategory(c.Request.Context(), category)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, products, gin.H{
		"total":    len(products),
		"category": category,
	})
}

// RouteNotFound answers unknown routes with the standard failure envelope.
func (h *Handler) RouteNotFound(c *gin.Context) {
	abortWithError(c, http.StatusNotFound, codeRouteNotFound, "Route "+c.Request.URL.Path+" not found")
}
