package catalogdata

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/catalogcompare/backend/internal/domain"
)

// Format is the serialization of a catalog document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. Anything that is not .yaml/.yml is JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// FormatFromContentType picks the format from an HTTP Content-Type header, falling back to
// the extension of the request path.
func FormatFromContentType(contentType, path string) Format {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "yaml") {
		return FormatYAML
	}
	if strings.Contains(ct, "json") {
		return FormatJSON
	}
	return FormatFromPath(path)
}

// Decode parses a catalog document (a top-level array of products) and validates it.
func Decode(data []byte, format Format) ([]domain.Product, error) {
	products := make([]domain.Product, 0)

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &products); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
		}
	default:
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidCatalog)
		}
		if err := json.Unmarshal(data, &products); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
		}
	}

	// yaml.v3 leaves the slice nil for an empty document
	if products == nil {
		products = make([]domain.Product, 0)
	}

	if err := domain.ValidateCatalog(products); err != nil {
		return nil, err
	}
	return products, nil
}
