package domain

// DefaultCriteria is echoed by recommendations when the caller supplies none.
var DefaultCriteria = []string{"value", "rating", "price"}

// Reconciliation classifies requested ids as found or missing.
type Reconciliation struct {
	RequestedIDs []string `json:"requestedIds"`
	FoundIDs     []string `json:"foundIds"`
	MissingIDs   []string `json:"missingIds"`
}

// MinMax is a range without an average.
type MinMax struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ProductSummary is the catalog entry without description and specifications.
type ProductSummary struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ImageURL string  `json:"imageUrl"`
	Price    float64 `json:"price"`
	Rating   float64 `json:"rating"`
	Category string  `json:"category"`
	Brand    string  `json:"brand"`
	InStock  bool    `json:"inStock"`
}

// Comparison is the result shared by every view: resolved products plus reconciliation.
type Comparison struct {
	Products []Product
	Reconciliation
}

// Basic view.

type RatingEntry struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Rating   float64 `json:"rating"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Brand    string  `json:"brand"`
}

type PriceEntry struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	PricePerRating float64 `json:"pricePerRating"`
}

type BasicSummary struct {
	Total            int           `json:"total"`
	RequestedIDs     []string      `json:"requestedIds"`
	FoundIDs         []string      `json:"foundIds"`
	MissingIDs       []string      `json:"missingIds"`
	PriceRange       PriceRange    `json:"priceRange"`
	RatingComparison []RatingEntry `json:"ratingComparison"`
	PriceComparison  []PriceEntry  `json:"priceComparison"`
}

type BasicView struct {
	Products   []Product    `json:"products"`
	Comparison BasicSummary `json:"comparison"`
}

// Detailed view.

type PriceDistributionEntry struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	PriceCategory string  `json:"priceCategory"`
}

type PriceAnalysis struct {
	Range        PriceRange               `json:"range"`
	Distribution []PriceDistributionEntry `json:"distribution"`
}

type RatingDistributionEntry struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Rating         float64 `json:"rating"`
	RatingCategory string  `json:"ratingCategory"`
}

type RatingAnalysis struct {
	BestRated          Product                   `json:"bestRated"`
	AverageRating      float64                   `json:"averageRating"`
	RatingDistribution []RatingDistributionEntry `json:"ratingDistribution"`
}

type ValueEntry struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	Rating         float64 `json:"rating"`
	ValueScore     float64 `json:"valueScore"`
	Recommendation string  `json:"recommendation"`
}

type DetailedAnalysis struct {
	Categories     []string       `json:"categories"`
	Brands         []string       `json:"brands"`
	PriceAnalysis  PriceAnalysis  `json:"priceAnalysis"`
	RatingAnalysis RatingAnalysis `json:"ratingAnalysis"`
	ValueAnalysis  []ValueEntry   `json:"valueAnalysis"`
}

type DetailedView struct {
	Products []Product       `json:"products"`
	Analysis DetailedAnalysis `json:"analysis"`
}

// Visual view.

type Layout struct {
	Columns    int    `json:"columns"`
	MaxColumns int    `json:"maxColumns"`
	Responsive string `json:"responsive"`
}

type Highlights struct {
	TopFeature  string `json:"topFeature"`
	PriceRange  string `json:"priceRange"`
	RatingLevel string `json:"ratingLevel"`
}

type VisualProduct struct {
	ProductSummary
	Highlights Highlights `json:"highlights"`
}

type VisualSummary struct {
	PriceRange MinMax   `json:"priceRange"`
	Categories []string `json:"categories"`
	Brands     []string `json:"brands"`
	BestValue  Product  `json:"bestValue"`
}

type VisualView struct {
	Layout     Layout          `json:"layout"`
	Products   []VisualProduct `json:"products"`
	Comparison VisualSummary   `json:"comparison"`
}

// Matrix view.

type MatrixCell struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Value       any    `json:"value"`
	HasFeature  bool   `json:"hasFeature"`
}

type MatrixRow struct {
	Feature string       `json:"feature"`
	Values  []MatrixCell `json:"values"`
}

type MatrixSummary struct {
	TotalProducts int        `json:"totalProducts"`
	TotalFeatures int        `json:"totalFeatures"`
	PriceRange    PriceRange `json:"priceRange"`
	RatingRange   PriceRange `json:"ratingRange"`
}

type MatrixView struct {
	Products []ProductSummary `json:"products"`
	Features []string         `json:"features"`
	Matrix   []MatrixRow      `json:"matrix"`
	Summary  MatrixSummary    `json:"summary"`
}

// Recommendations view.

type Alternative struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Price      float64  `json:"price"`
	Rating     float64  `json:"rating"`
	ValueScore *float64 `json:"valueScore,omitempty"`
	Reason     string   `json:"reason"`
}

type Alternatives struct {
	BestValue      []Alternative `json:"bestValue"`
	BestRated      []Alternative `json:"bestRated"`
	BudgetFriendly []Alternative `json:"budgetFriendly"`
	Premium        []Alternative `json:"premium"`
}

type RecommendationAnalysis struct {
	CurrentAveragePrice  float64 `json:"currentAveragePrice"`
	CurrentAverageRating float64 `json:"currentAverageRating"`
	PriceRange           MinMax  `json:"priceRange"`
}

type RecommendationsView struct {
	AnalyzedProducts []Product              `json:"analyzedProducts"`
	Criteria         []string               `json:"criteria"`
	Recommendations  Alternatives           `json:"recommendations"`
	Analysis         RecommendationAnalysis `json:"analysis"`
}
