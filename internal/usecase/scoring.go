package usecase

import (
	"math"

	"github.com/catalogcompare/backend/internal/domain"
)

// Price bucket thresholds (USD)
const (
	budgetCeiling   = 500.0
	midRangeCeiling = 1000.0
)

// Rating bucket thresholds
const (
	excellentRating = 4.5
	goodRating      = 4.0
	averageRating   = 3.5
)

// Value recommendation limits
const (
	bestValueMaxPrice = 1000.0
	goodValueMaxPrice = 800.0
)

// Bucket labels
const (
	PriceBudget   = "Budget"
	PriceMidRange = "Mid-range"
	PricePremium  = "Premium"

	RatingExcellent    = "Excellent"
	RatingGood         = "Good"
	RatingAverage      = "Average"
	RatingBelowAverage = "Below Average"

	RecommendBestValue = "Best Value"
	RecommendGoodValue = "Good Value"
	RecommendConsider  = "Consider Alternatives"
)

// Round2 rounds half-up to two decimal places.
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

// ratio divides a by b, returning 0 when b is zero so results stay JSON-encodable.
func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// ValueRatio is the raw rating-per-price ratio used for value ordering.
func ValueRatio(rating, price float64) float64 {
	return ratio(rating, price)
}

// ValueScore is the rating-per-thousand-dollars score rounded to 2 decimals.
func ValueScore(rating, price float64) float64 {
	return Round2(ValueRatio(rating, price) * 1000)
}

// PricePerRating is price divided by rating, rounded to 2 decimals.
func PricePerRating(price, rating float64) float64 {
	return Round2(ratio(price, rating))
}

// PriceBucket labels a price as Budget, Mid-range or Premium.
func PriceBucket(price float64) string {
	switch {
	case price < budgetCeiling:
		return PriceBudget
	case price < midRangeCeiling:
		return PriceMidRange
	default:
		return PricePremium
	}
}

// RatingBucket labels a rating. Without the below-average tier everything under Good is Average.
func RatingBucket(rating float64, withBelowAverage bool) string {
	switch {
	case rating >= excellentRating:
		return RatingExcellent
	case rating >= goodRating:
		return RatingGood
	case !withBelowAverage || rating >= averageRating:
		return RatingAverage
	default:
		return RatingBelowAverage
	}
}

// Recommendation classifies a product's value for money.
func Recommendation(p domain.Product) string {
	switch {
	case p.Rating >= excellentRating && p.Price < bestValueMaxPrice:
		return RecommendBestValue
	case p.Rating >= goodRating && p.Price < goodValueMaxPrice:
		return RecommendGoodValue
	default:
		return RecommendConsider
	}
}

// BestBy folds left over products keeping the current best unless better(candidate, best)
// holds, so the first occurrence wins ties. Returns false for an empty slice.
func BestBy(products []domain.Product, better func(candidate, best domain.Product) bool) (domain.Product, bool) {
	if len(products) == 0 {
		return domain.Product{}, false
	}
	best := products[0]
	for _, p := range products[1:] {
		if better(p, best) {
			best = p
		}
	}
	return best, true
}

// higherRating prefers a strictly greater rating.
func higherRating(candidate, best domain.Product) bool {
	return candidate.Rating > best.Rating
}

// higherValue prefers a strictly greater rating-per-price ratio.
func higherValue(candidate, best domain.Product) bool {
	return ValueRatio(candidate.Rating, candidate.Price) > ValueRatio(best.Rating, best.Price)
}

// priceRange computes min, max and the average rounded to 2 decimals.
func priceRange(products []domain.Product) domain.PriceRange {
	return summarize(products, func(p domain.Product) float64 { return p.Price })
}

// ratingRange computes min, max and the average rating rounded to 2 decimals.
func ratingRange(products []domain.Product) domain.PriceRange {
	return summarize(products, func(p domain.Product) float64 { return p.Rating })
}

func summarize(products []domain.Product, field func(domain.Product) float64) domain.PriceRange {
	if len(products) == 0 {
		return domain.PriceRange{}
	}
	r := domain.PriceRange{Min: math.Inf(1), Max: math.Inf(-1)}
	sum := 0.0
	for _, p := range products {
		v := field(p)
		r.Min = math.Min(r.Min, v)
		r.Max = math.Max(r.Max, v)
		sum += v
	}
	r.Average = Round2(sum / float64(len(products)))
	return r
}

// distinct returns values in first-occurrence order without duplicates.
func distinct(products []domain.Product, field func(domain.Product) string) []string {
	seen := make(map[string]bool, len(products))
	out := make([]string, 0, len(products))
	for _, p := range products {
		v := field(p)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
