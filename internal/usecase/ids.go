package usecase

import (
	"fmt"
	"strings"

	"github.com/catalogcompare/backend/internal/domain"
)

// View identifies one comparison view and its id cap.
type View struct {
	Name     string
	MaxIDs   int
	Overflow string // message used when the cap is exceeded
}

// Comparison views and their caps
var (
	ViewBasic = View{
		Name:     "basic",
		MaxIDs:   10,
		Overflow: "Maximum 10 products can be compared at once",
	}
	ViewDetailed = View{
		Name:     "detailed",
		MaxIDs:   10,
		Overflow: "Maximum 10 products can be compared at once",
	}
	ViewVisual = View{
		Name:     "visual",
		MaxIDs:   6,
		Overflow: "Maximum 6 products can be compared visually",
	}
	ViewMatrix = View{
		Name:     "matrix",
		MaxIDs:   8,
		Overflow: "Maximum 8 products can be compared in matrix view",
	}
	ViewRecommendations = View{
		Name:     "recommendations",
		MaxIDs:   10,
		Overflow: "Maximum 10 products can be analyzed for recommendations",
	}
)

const msgTooFewIDs = "At least one valid product ID is required"

// splitList splits a comma-separated list, trimming segments and dropping empty ones.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ParseIDList parses a comma-separated id list and enforces the view's cap.
// Duplicates are kept.
func ParseIDList(raw string, view View) ([]string, error) {
	ids := splitList(raw)
	if len(ids) == 0 {
		return nil, domain.InvalidInput(domain.CodeTooFewIDs, msgTooFewIDs)
	}
	if len(ids) > view.MaxIDs {
		return nil, domain.TooMany(domain.CodeTooManyIDs, view.Overflow)
	}
	return ids, nil
}

// ParseCriteria parses the optional recommendation criteria list.
// An empty string selects the defaults; a list with no usable entries is malformed.
func ParseCriteria(raw string) ([]string, error) {
	if raw == "" {
		out := make([]string, len(domain.DefaultCriteria))
		copy(out, domain.DefaultCriteria)
		return out, nil
	}
	criteria := splitList(raw)
	if len(criteria) == 0 {
		return nil, domain.InvalidInput(domain.CodeInvalidCriteria,
			fmt.Sprintf("Invalid recommendation criteria %q", raw))
	}
	return criteria, nil
}

// reconcile reports which requested ids resolved. missingIds preserves request order.
func reconcile(requested []string, products []domain.Product) domain.Reconciliation {
	found := make([]string, len(products))
	foundSet := make(map[string]bool, len(products))
	for i, p := range products {
		found[i] = p.ID
		foundSet[p.ID] = true
	}

	missing := make([]string, 0)
	for _, id := range requested {
		if !foundSet[id] {
			missing = append(missing, id)
		}
	}

	return domain.Reconciliation{
		RequestedIDs: requested,
		FoundIDs:     found,
		MissingIDs:   missing,
	}
}
