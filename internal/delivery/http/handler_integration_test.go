package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalogcompare/backend/config"
	"github.com/catalogcompare/backend/internal/domain"
	"github.com/catalogcompare/backend/internal/infrastructure/ratelimit"
	"github.com/catalogcompare/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testProducts() []domain.Product {
	return []domain.Product{
		{
			ID: "1", Name: "iPhone 15 Pro", Description: "Titanium smartphone", Brand: "Apple",
			Category: "smartphones", Price: 999, Rating: 4.8, InStock: true,
			Specifications: domain.Specifications{
				{Name: "storage", Value: "128GB"},
				{Name: "display", Value: "6.1 inch"},
				{Name: "camera", Value: "48MP"},
			},
		},
		{
			ID: "2", Name: "Galaxy S24", Description: "Android flagship", Brand: "Samsung",
			Category: "smartphones", Price: 799, Rating: 4.6, InStock: true,
			Specifications: domain.Specifications{
				{Name: "storage", Value: "256GB"},
				{Name: "battery", Value: "4000mAh"},
			},
		},
		{
			ID: "3", Name: "MacBook Air", Description: "Thin and light laptop", Brand: "Apple",
			Category: "laptops", Price: 1199, Rating: 4.7, InStock: false,
		},
		{
			ID: "4", Name: "WH-1000XM5", Description: "Noise cancelling headphones", Brand: "Sony",
			Category: "headphones", Price: 399, Rating: 4.5, InStock: true,
		},
	}
}

func testConfig(environment string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    environment,
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Metrics: config.MetricsConfig{Enabled: true},
	}
}

// setupTestRouter creates a test router over source with the given environment
func setupTestRouter(source domain.CatalogSource, environment string, limiter Limiter) *gin.Engine {
	catalog := usecase.NewCatalogService(source, nil)
	comparisons := usecase.NewComparisonService(catalog, nil)
	handler := NewHandler(catalog, comparisons, environment, nil)
	return SetupRouter(testConfig(environment), handler, nil, limiter)
}

func staticSource() domain.CatalogSource {
	return domain.CatalogSourceFunc(func(ctx context.Context) ([]domain.Product, error) {
		return testProducts(), nil
	})
}

// envelope covers every field the API puts next to data
type envelope struct {
	Success      bool              `json:"success"`
	Data         json.RawMessage   `json:"data"`
	Total        int               `json:"total"`
	RequestedIDs []string          `json:"requestedIds"`
	FoundIDs     []string          `json:"foundIds"`
	MissingIDs   []string          `json:"missingIds"`
	Query        string            `json:"query"`
	Category     string            `json:"category"`
	Filters      map[string]string `json:"filters"`
	Error        *errorBody        `json:"error"`
}

func get(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return w, body
}

func ids(t *testing.T, raw json.RawMessage) []string {
	t.Helper()
	var products []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &products))
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestHealthCheckEndpoint(t *testing.T) {
	router := setupTestRouter(staticSource(), "test", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "healthy", response["status"])
	assert.Equal(t, "test", response["environment"])

	_, err := time.Parse(time.RFC3339Nano, response["timestamp"].(string))
	assert.NoError(t, err)
}

func TestListProducts(t *testing.T) {
	router := setupTestRouter(staticSource(), "test", nil)

	tests := []struct {
		name string
		path string
		want []string
	}{
		{"all", "/api/v1/products", []string{"1", "2", "3", "4"}},
		{"category", "/api/v1/products?category=SMARTPHONES", []string{"1", "2"}},
		{"brand and stock", "/api/v1/products?brand=apple&inStock=false", []string{"3"}},
		{"search wins over filters", "/api/v1/products?search=apple&category=headphones", []string{"1", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := get(t, router, tt.path)
			require.Equal(t, http.StatusOK, w.Code)
			assert.True(t, body.Success)
			assert.Equal(t, tt.want, ids(t, body.Data))
			assert.Equal(t, len(tt.want), body.Total)
		})
	}

	t.Run("echoes filters", func(t *testing.T) {
		_, body := get(t, router, "/api/v1/products?brand=Apple&inStock=true")
		assert.Equal(t, map[string]string{"brand": "Apple", "inStock": "true"}, body.Filters)
	})

	t.Run("rejects malformed inStock", func(t *testing.T) {
		w, body := get(t, router, "/api/v1/products?inStock=maybe")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, body.Success)
		assert.Equal(t, domain.CodeInvalidFilter, body.Error.Code)
	})
}

func TestGetProduct(t *testing.T) {
	router := setupTestRouter(staticSource(), "test", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	// specifications keep their catalog order on the wire
	raw := w.Body.String()
	storage := strings.Index(raw, `"storage"`)
	display := strings.Index(raw, `"display"`)
	camera := strings.Index(raw, `"camera"`)
	assert.True(t, storage < display && display < camera, "specification order lost: %s", raw)

	w, body := get(t, router, "/api/v1/products/999")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, domain.CodeProductNotFound, body.Error.Code)
	assert.Equal(t, "Product not found", body.Error.Message)
}

func TestCompareEndpoints(t *testing.T) {
	router := setupTestRouter(staticSource(), "test", nil)

	for _, path := range []string{
		"/api/v1/products/compare?ids=1,2,ghost",
		"/api/v1/products/compare/detailed?ids=1,2,ghost",
		"/api/v1/products/compare/visual?ids=1,2,ghost",
		"/api/v1/products/compare/matrix?ids=1,2,ghost",
		"/api/v1/products/compare/recommendations?ids=1,2,ghost",
	} {
		t.Run(path, func(t *testing.T) {
			w, body := get(t, router, path)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.True(t, body.Success)
			assert.Equal(t, 2, body.Total)
			assert.Equal(t, []string{"1", "2", "ghost"}, body.RequestedIDs)
			assert.Equal(t, []string{"1", "2"}, body.FoundIDs)
			assert.Equal(t, []string{"ghost"}, body.MissingIDs)
		})
	}
}

func TestCompareBasicPayload(t *testing.T) {
	router := setupTestRouter(staticSource(), "test", nil)

	_, body := get(t, router, "/api/v1/products/compare?ids=1,2")

	var data struct {
		Comparison struct {
			PriceRange       domain.PriceRange    `json:"priceRange"`
			RatingComparison []domain.RatingEntry `json:"ratingComparison"`
			PriceComparison  []domain.PriceEntry  `json:"priceComparison"`
		} `json:"comparison"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, domain.PriceRange{Min: 799, Max: 999, Average: 899}, data.Comparison.PriceRange)
	assert.Equal(t, "1", data.Comparison.RatingComparison[0].ID)
	assert.Equal(t, "2", data.Comparison.PriceComparison[0].ID)
	assert.Equal(t, 173.7, data.Comparison.PriceComparison[0].PricePerRating)
}

func TestCompareMatrixPayload(t *testing.T) {
	router := setupTestRouter(staticSource(), "test", nil)

	_, body := get(t, router, "/api/v1/products/compare/matrix?ids=1,2")

	var data struct {
		Features []string `json:"features"`
		Matrix   []struct {
			Feature string `json:"feature"`
			Values  []struct {
				Value      any  `json:"value"`
				HasFeature bool `json:"hasFeature"`
			} `json:"values"`
		} `json:"matrix"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, []string{"storage", "display", "camera", "battery"}, data.Features)
	assert.Equal(t, "N/A", data.Matrix[3].Values[0].Value)
	assert.False(t, data.Matrix[3].Values[0].HasFeature)
	assert.Equal(t, "4000mAh", data.Matrix[3].Values[1].Value)
}

func TestCompareRecommendationsCriteria(t *testing.T) {
	router := setupTestRouter(staticSource(), "test", nil)

	_, body := get(t, router, "/api/v1/products/compare/recommendations?ids=1&criteria=rating,%20price")

	var data struct {
		Criteria        []string `json:"criteria"`
		Recommendations struct {
			BudgetFriendly []domain.Alternative `json:"budgetFriendly"`
			Premium        []domain.Alternative `json:"premium"`
		} `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, []string{"rating", "price"}, data.Criteria)
	require.Len(t, data.Recommendations.BudgetFriendly, 2)
	assert.Equal(t, "4", data.Recommendations.BudgetFriendly[0].ID)
	assert.Equal(t, "More affordable options", data.Recommendations.BudgetFriendly[0].Reason)
	require.Len(t, data.Recommendations.Premium, 1)
	assert.Equal(t, "3", data.Recommendations.Premium[0].ID)
}

func TestCompareErrors(t *testing.T) {
	router := setupTestRouter(staticSource(), "test", nil)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name: "missing ids", path: "/api/v1/products/compare",
			wantStatus: http.StatusBadRequest, wantCode: domain.CodeTooFewIDs,
			wantMsg: "At least one valid product ID is required",
		},
		{
			name: "blank ids", path: "/api/v1/products/compare/matrix?ids=,%20,",
			wantStatus: http.StatusBadRequest, wantCode: domain.CodeTooFewIDs,
		},
		{
			name: "too many for visual", path: "/api/v1/products/compare/visual?ids=1,2,3,4,5,6,7",
			wantStatus: http.StatusBadRequest, wantCode: domain.CodeTooManyIDs,
			wantMsg: "Maximum 6 products can be compared visually",
		},
		{
			name: "nothing resolves", path: "/api/v1/products/compare/detailed?ids=x,y",
			wantStatus: http.StatusNotFound, wantCode: domain.CodeProductsNotFound,
			wantMsg: "No products found with the provided IDs",
		},
		{
			name: "malformed criteria", path: "/api/v1/products/compare/recommendations?ids=1&criteria=,,",
			wantStatus: http.StatusBadRequest, wantCode: domain.CodeInvalidCriteria,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := get(t, router, tt.path)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body.Error.Message)
			}
		})
	}
}

func TestSearchEndpoint(t *testing.T) {
	router := setupTestRouter(staticSource(), "test", nil)

	w, body := get(t, router, "/api/v1/products/search?q=LAPTOP")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"3"}, ids(t, body.Data))
	assert.Equal(t, "LAPTOP", body.Query)

	w, body = get(t, router, "/api/v1/products/search")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.CodeMissingQuery, body.Error.Code)
	assert.Equal(t, "Search query is required", body.Error.Message)
}

func TestCatalogOverviewEndpoints(t *testing.T) {
	router := setupTestRouter(staticSource(), "test", nil)

	t.Run("stats", func(t *testing.T) {
		_, body := get(t, router, "/api/v1/products/stats/overview")
		var stats domain.Stats
		require.NoError(t, json.Unmarshal(body.Data, &stats))
		assert.Equal(t, 4, stats.Total)
		assert.Equal(t, 3, stats.InStock)
		assert.Equal(t, 1, stats.OutOfStock)
		assert.Equal(t, 849.0, stats.PriceRange.Average)
	})

	t.Run("categories", func(t *testing.T) {
		_, body := get(t, router, "/api/v1/products/categories/list")
		var categories []string
		require.NoError(t, json.Unmarshal(body.Data, &categories))
		assert.Equal(t, []string{"headphones", "laptops", "smartphones"}, categories)
		assert.Equal(t, 3, body.Total)
	})

	t.Run("brands", func(t *testing.T) {
		_, body := get(t, router, "/api/v1/products/brands/list")
		var brands []string
		require.NoError(t, json.Unmarshal(body.Data, &brands))
		assert.Equal(t, []string{"Apple", "Samsung", "Sony"}, brands)
	})

	t.Run("price range", func(t *testing.T) {
		_, body := get(t, router, "/api/v1/products/price-range")
		var summary domain.PriceSummary
		require.NoError(t, json.Unmarshal(body.Data, &summary))
		assert.Equal(t, domain.PriceSummary{Min: 399, Max: 1199, Average: 849, Currency: "USD"}, summary)
	})

	t.Run("category", func(t *testing.T) {
		w, body := get(t, router, "/api/v1/products/category/Laptops")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"3"}, ids(t, body.Data))
		assert.Equal(t, "Laptops", body.Category)

		w, body = get(t, router, "/api/v1/products/category/%20")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, domain.CodeMissingCategory, body.Error.Code)
	})
}

func TestRouteNotFound(t *testing.T) {
	router := setupTestRouter(staticSource(), "test", nil)

	w, body := get(t, router, "/api/v2/nothing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, codeRouteNotFound, body.Error.Code)
	assert.Equal(t, "Route /api/v2/nothing not found", body.Error.Message)
}

func TestCatalogFailure(t *testing.T) {
	failing := domain.CatalogSourceFunc(func(ctx context.Context) ([]domain.Product, error) {
		return nil, errors.New("open data/products.json: no such file or directory")
	})

	t.Run("development shows the cause code", func(t *testing.T) {
		w, body := get(t, setupTestRouter(failing, "development", nil), "/api/v1/products")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, domain.CodeCatalogUnavailable, body.Error.Code)
	})

	t.Run("production redacts", func(t *testing.T) {
		w, body := get(t, setupTestRouter(failing, "production", nil), "/api/v1/products/compare?ids=1")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, domain.CodeInternal, body.Error.Code)
		assert.Equal(t, "Internal server error", body.Error.Message)
	})

	t.Run("validation still precedes catalog access", func(t *testing.T) {
		w, body := get(t, setupTestRouter(failing, "development", nil), "/api/v1/products/compare")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, domain.CodeTooFewIDs, body.Error.Code)
	})
}

func TestRateLimitOnlyGuardsAPI(t *testing.T) {
	limiter := ratelimit.NewStore(2, time.Minute)
	defer limiter.Close()
	router := setupTestRouter(staticSource(), "test", limiter)

	for i := 0; i < 2; i++ {
		w, _ := get(t, router, "/api/v1/products/categories/list")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, body := get(t, router, "/api/v1/products/categories/list")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, codeRateLimitExceeded, body.Error.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	w, _ = get(t, router, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupTestRouter(staticSource(), "test", nil)
	get(t, router, "/api/v1/products/compare?ids=1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `comparisons_total{result="ok",view="basic"}`)
	assert.Contains(t, w.Body.String(), `route="/api/v1/products/compare"`)
}

func TestResponseHeaders(t *testing.T) {
	router := setupTestRouter(staticSource(), "test", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/1", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
