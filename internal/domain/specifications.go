package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Spec is a single named feature value.
type Spec struct {
	Name  string
	Value any
}

// Specifications is an ordered feature-name to value mapping. Order follows the source document.
type Specifications []Spec

// Len returns the number of features.
func (s Specifications) Len() int {
	return len(s)
}

// Keys returns feature names in insertion order.
func (s Specifications) Keys() []string {
	keys := make([]string, len(s))
	for i, spec := range s {
		keys[i] = spec.Name
	}
	return keys
}

// First returns the first feature name, if any.
func (s Specifications) First() (string, bool) {
	if len(s) == 0 {
		return "", false
	}
	return s[0].Name, true
}

// Lookup returns the value stored under the exact (case-sensitive) feature name.
func (s Specifications) Lookup(name string) (any, bool) {
	for _, spec := range s {
		if spec.Name == name {
			return spec.Value, true
		}
	}
	return nil, false
}

// set replaces an existing value in place or appends a new feature.
func (s Specifications) set(name string, value any) Specifications {
	for i := range s {
		if s[i].Name == name {
			s[i].Value = value
			return s
		}
	}
	return append(s, Spec{Name: name, Value: value})
}

// Truthy reports whether a specification value counts as present:
// non-empty strings, non-zero numbers and true.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0
	case float32:
		return val != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	case json.Number:
		f, err := val.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}

// MarshalJSON writes the features as a JSON object preserving order.
func (s Specifications) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, spec := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(spec.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(spec.Value)
		if err != nil {
			return nil, fmt.Errorf("specification %q: %w", spec.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping the key order of the document.
func (s *Specifications) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("specifications: expected object, got %v", tok)
	}

	out := Specifications{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("specifications: expected key, got %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("specification %q: %w", name, err)
		}
		out = out.set(name, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = out
	return nil
}

// UnmarshalYAML reads a YAML mapping keeping the key order of the document.
func (s *Specifications) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*s = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("specifications: expected mapping at line %d", node.Line)
	}

	out := Specifications{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		var value any
		if err := node.Content[i+1].Decode(&value); err != nil {
			return fmt.Errorf("specification %q: %w", name, err)
		}
		out = out.set(name, normalizeYAMLValue(value))
	}

	*s = out
	return nil
}

// normalizeYAMLValue maps YAML integers onto float64 so both formats carry the same types.
func normalizeYAMLValue(v any) any {
	switch val := v.(type) {
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case uint64:
		return float64(val)
	default:
		return v
	}
}
