package usecase

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/catalogcompare/backend/internal/domain"
)

const (
	maxVisualColumns   = 6
	gridThreshold      = 3
	alternativesPerSet = 3
	notAvailable       = "N/A"
)

// Reasons attached to recommended alternatives
const (
	reasonBestValue = "Best value for money"
	reasonBestRated = "Highest rated alternatives"
	reasonBudget    = "More affordable options"
	reasonPremium   = "Premium alternatives"
)

// ComparisonService builds the comparison views over products resolved by a CatalogService.
type ComparisonService struct {
	catalog *CatalogService
	logger  *zap.Logger
}

// NewComparisonService creates a comparison engine backed by the catalog accessor.
func NewComparisonService(catalog *CatalogService, logger *zap.Logger) *ComparisonService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComparisonService{
		catalog: catalog,
		logger:  logger.Named("comparison"),
	}
}

// resolve validates the raw id list for view, then resolves and reconciles it.
func (s *ComparisonService) resolve(ctx context.Context, rawIDs string, view View) (*domain.Comparison, error) {
	ids, err := ParseIDList(rawIDs, view)
	if err != nil {
		return nil, err
	}
	return s.resolveIDs(ctx, ids, view)
}

func (s *ComparisonService) resolveIDs(ctx context.Context, ids []string, view View) (*domain.Comparison, error) {
	products, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	rec := reconcile(ids, products)
	if len(rec.MissingIDs) > 0 {
		s.logger.Debug("unresolved ids in comparison",
			zap.String("view", view.Name),
			zap.Strings("missing", rec.MissingIDs))
	}

	return &domain.Comparison{Products: products, Reconciliation: rec}, nil
}

// CompareBasic builds the price range, rating ranking and price ranking for the requested ids.
func (s *ComparisonService) CompareBasic(ctx context.Context, rawIDs string) (*domain.BasicView, *domain.Comparison, error) {
	cmp, err := s.resolve(ctx, rawIDs, ViewBasic)
	if err != nil {
		return nil, nil, err
	}
	products := cmp.Products

	ratings := make([]domain.RatingEntry, len(products))
	prices := make([]domain.PriceEntry, len(products))
	for i, p := range products {
		ratings[i] = domain.RatingEntry{
			ID:       p.ID,
			Name:     p.Name,
			Rating:   p.Rating,
			Price:    p.Price,
			Category: p.Category,
			Brand:    p.Brand,
		}
		prices[i] = domain.PriceEntry{
			ID:             p.ID,
			Name:           p.Name,
			Price:          p.Price,
			PricePerRating: PricePerRating(p.Price, p.Rating),
		}
	}
	sort.SliceStable(ratings, func(a, b int) bool { return ratings[a].Rating > ratings[b].Rating })
	sort.SliceStable(prices, func(a, b int) bool { return prices[a].Price < prices[b].Price })

	view := &domain.BasicView{
		Products: products,
		Comparison: domain.BasicSummary{
			Total:            len(products),
			RequestedIDs:     cmp.RequestedIDs,
			FoundIDs:         cmp.FoundIDs,
			MissingIDs:       cmp.MissingIDs,
			PriceRange:       priceRange(products),
			RatingComparison: ratings,
			PriceComparison:  prices,
		},
	}
	return view, cmp, nil
}

// CompareDetailed adds price distribution, rating analysis and value analysis.
func (s *ComparisonService) CompareDetailed(ctx context.Context, rawIDs string) (*domain.DetailedView, *domain.Comparison, error) {
	cmp, err := s.resolve(ctx, rawIDs, ViewDetailed)
	if err != nil {
		return nil, nil, err
	}
	products := cmp.Products

	distribution := make([]domain.PriceDistributionEntry, len(products))
	ratingDist := make([]domain.RatingDistributionEntry, len(products))
	values := make([]domain.ValueEntry, len(products))
	for i, p := range products {
		distribution[i] = domain.PriceDistributionEntry{
			ID:            p.ID,
			Name:          p.Name,
			Price:         p.Price,
			PriceCategory: PriceBucket(p.Price),
		}
		ratingDist[i] = domain.RatingDistributionEntry{
			ID:             p.ID,
			Name:           p.Name,
			Rating:         p.Rating,
			RatingCategory: RatingBucket(p.Rating, true),
		}
		values[i] = domain.ValueEntry{
			ID:             p.ID,
			Name:           p.Name,
			Price:          p.Price,
			Rating:         p.Rating,
			ValueScore:     ValueScore(p.Rating, p.Price),
			Recommendation: Recommendation(p),
		}
	}
	sort.SliceStable(values, func(a, b int) bool { return values[a].ValueScore > values[b].ValueScore })

	bestRated, _ := BestBy(products, higherRating)

	view := &domain.DetailedView{
		Products: products,
		Analysis: domain.DetailedAnalysis{
			Categories: distinct(products, func(p domain.Product) string { return p.Category }),
			Brands:     distinct(products, func(p domain.Product) string { return p.Brand }),
			PriceAnalysis: domain.PriceAnalysis{
				Range:        priceRange(products),
				Distribution: distribution,
			},
			RatingAnalysis: domain.RatingAnalysis{
				BestRated:          bestRated,
				AverageRating:      ratingRange(products).Average,
				RatingDistribution: ratingDist,
			},
			ValueAnalysis: values,
		},
	}
	return view, cmp, nil
}

// CompareVisual shapes products for a side-by-side layout.
func (s *ComparisonService) CompareVisual(ctx context.Context, rawIDs string) (*domain.VisualView, *domain.Comparison, error) {
	cmp, err := s.resolve(ctx, rawIDs, ViewVisual)
	if err != nil {
		return nil, nil, err
	}
	products := cmp.Products

	responsive := "table"
	if len(products) > gridThreshold {
		responsive = "grid"
	}

	cards := make([]domain.VisualProduct, len(products))
	for i, p := range products {
		topFeature, ok := p.Specifications.First()
		if !ok {
			topFeature = notAvailable
		}
		cards[i] = domain.VisualProduct{
			ProductSummary: summaryOf(p),
			Highlights: domain.Highlights{
				TopFeature:  topFeature,
				PriceRange:  PriceBucket(p.Price),
				RatingLevel: RatingBucket(p.Rating, false),
			},
		}
	}

	pr := priceRange(products)
	bestValue, _ := BestBy(products, higherValue)

	view := &domain.VisualView{
		Layout: domain.Layout{
			Columns:    len(products),
			MaxColumns: maxVisualColumns,
			Responsive: responsive,
		},
		Products: cards,
		Comparison: domain.VisualSummary{
			PriceRange: domain.MinMax{Min: pr.Min, Max: pr.Max},
			Categories: distinct(products, func(p domain.Product) string { return p.Category }),
			Brands:     distinct(products, func(p domain.Product) string { return p.Brand }),
			BestValue:  bestValue,
		},
	}
	return view, cmp, nil
}

// CompareMatrix lays every specification key out against every product.
func (s *ComparisonService) CompareMatrix(ctx context.Context, rawIDs string) (*domain.MatrixView, *domain.Comparison, error) {
	cmp, err := s.resolve(ctx, rawIDs, ViewMatrix)
	if err != nil {
		return nil, nil, err
	}
	products := cmp.Products

	features := featureUnion(products)

	rows := make([]domain.MatrixRow, len(features))
	for i, feature := range features {
		cells := make([]domain.MatrixCell, len(products))
		for j, p := range products {
			cell := domain.MatrixCell{
				ProductID:   p.ID,
				ProductName: p.Name,
				Value:       notAvailable,
			}
			if v, ok := p.Specifications.Lookup(feature); ok && domain.Truthy(v) {
				cell.Value = v
				cell.HasFeature = true
			}
			cells[j] = cell
		}
		rows[i] = domain.MatrixRow{Feature: feature, Values: cells}
	}

	summaries := make([]domain.ProductSummary, len(products))
	for i, p := range products {
		summaries[i] = summaryOf(p)
	}

	view := &domain.MatrixView{
		Products: summaries,
		Features: features,
		Matrix:   rows,
		Summary: domain.MatrixSummary{
			TotalProducts: len(products),
			TotalFeatures: len(features),
			PriceRange:    priceRange(products),
			RatingRange:   ratingRange(products),
		},
	}
	return view, cmp, nil
}

// CompareRecommendations suggests alternatives from the rest of the catalog.
// rawCriteria is echoed back and does not influence ranking.
func (s *ComparisonService) CompareRecommendations(ctx context.Context, rawIDs, rawCriteria string) (*domain.RecommendationsView, *domain.Comparison, error) {
	ids, err := ParseIDList(rawIDs, ViewRecommendations)
	if err != nil {
		return nil, nil, err
	}
	criteria, err := ParseCriteria(rawCriteria)
	if err != nil {
		return nil, nil, err
	}

	cmp, err := s.resolveIDs(ctx, ids, ViewRecommendations)
	if err != nil {
		return nil, nil, err
	}
	products := cmp.Products

	all, err := s.catalog.GetAll(ctx, domain.ProductFilter{})
	if err != nil {
		return nil, nil, err
	}

	requested := make(map[string]bool, len(ids))
	for _, id := range ids {
		requested[id] = true
	}
	candidates := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if !requested[p.ID] {
			candidates = append(candidates, p)
		}
	}

	pr := priceRange(products)
	rr := ratingRange(products)

	view := &domain.RecommendationsView{
		AnalyzedProducts: products,
		Criteria:         criteria,
		Recommendations: domain.Alternatives{
			BestValue:      bestValueAlternatives(candidates),
			BestRated:      bestRatedAlternatives(candidates),
			BudgetFriendly: budgetAlternatives(candidates, pr.Min),
			Premium:        premiumAlternatives(candidates, pr.Max),
		},
		Analysis: domain.RecommendationAnalysis{
			CurrentAveragePrice:  pr.Average,
			CurrentAverageRating: rr.Average,
			PriceRange:           domain.MinMax{Min: pr.Min, Max: pr.Max},
		},
	}
	return view, cmp, nil
}

func bestValueAlternatives(candidates []domain.Product) []domain.Alternative {
	ranked := rankBy(candidates, func(a, b domain.Product) bool {
		return ValueRatio(a.Rating, a.Price) > ValueRatio(b.Rating, b.Price)
	})
	out := make([]domain.Alternative, len(ranked))
	for i, p := range ranked {
		score := ValueScore(p.Rating, p.Price)
		out[i] = alternative(p, reasonBestValue)
		out[i].ValueScore = &score
	}
	return out
}

func bestRatedAlternatives(candidates []domain.Product) []domain.Alternative {
	return alternatives(rankBy(candidates, higherRating), reasonBestRated)
}

// budgetAlternatives keeps products strictly cheaper than the cheapest requested product.
func budgetAlternatives(candidates []domain.Product, minPrice float64) []domain.Alternative {
	cheaper := make([]domain.Product, 0)
	for _, p := range candidates {
		if p.Price < minPrice {
			cheaper = append(cheaper, p)
		}
	}
	ranked := rankBy(cheaper, func(a, b domain.Product) bool { return a.Price < b.Price })
	return alternatives(ranked, reasonBudget)
}

// premiumAlternatives keeps products strictly pricier than the most expensive requested product.
func premiumAlternatives(candidates []domain.Product, maxPrice float64) []domain.Alternative {
	pricier := make([]domain.Product, 0)
	for _, p := range candidates {
		if p.Price > maxPrice {
			pricier = append(pricier, p)
		}
	}
	return alternatives(rankBy(pricier, higherRating), reasonPremium)
}

// rankBy stable-sorts a copy of products and keeps the top entries.
func rankBy(products []domain.Product, less func(a, b domain.Product) bool) []domain.Product {
	ranked := make([]domain.Product, len(products))
	copy(ranked, products)
	sort.SliceStable(ranked, func(i, j int) bool { return less(ranked[i], ranked[j]) })
	if len(ranked) > alternativesPerSet {
		ranked = ranked[:alternativesPerSet]
	}
	return ranked
}

func alternatives(products []domain.Product, reason string) []domain.Alternative {
	out := make([]domain.Alternative, len(products))
	for i, p := range products {
		out[i] = alternative(p, reason)
	}
	return out
}

func alternative(p domain.Product, reason string) domain.Alternative {
	return domain.Alternative{
		ID:     p.ID,
		Name:   p.Name,
		Price:  p.Price,
		Rating: p.Rating,
		Reason: reason,
	}
}

// featureUnion collects specification keys in order of first appearance.
func featureUnion(products []domain.Product) []string {
	seen := make(map[string]bool)
	features := make([]string, 0)
	for _, p := range products {
		for _, key := range p.Specifications.Keys() {
			if !seen[key] {
				seen[key] = true
				features = append(features, key)
			}
		}
	}
	return features
}

func summaryOf(p domain.Product) domain.ProductSummary {
	return domain.ProductSummary{
		ID:       p.ID,
		Name:     p.Name,
		ImageURL: p.ImageURL,
		Price:    p.Price,
		Rating:   p.Rating,
		Category: p.Category,
		Brand:    p.Brand,
		InStock:  p.InStock,
	}
}
