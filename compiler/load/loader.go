package load

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format of a schema file.
type Format string

// Supported schema file formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf returns the schema format implied by the file extension.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported schema file extension %q", ext)
	}
}

// ParseFile loads and parses a schema file from the given path.
func ParseFile(path string) (*Set, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}
	set, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Parse decodes schema data of the given format, applies defaults and
// checks each schema for structural completeness.
func Parse(data []byte, format Format) (*Set, error) {
	var set Set
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&set); err != nil {
			return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&set); err != nil {
			return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported schema format %q", format)
	}
	for i, s := range set.Schemas {
		if s == nil {
			return nil, fmt.Errorf("schema #%d is empty", i)
		}
		if err := s.Check(); err != nil {
			return nil, err
		}
	}
	applyDefaults(&set)
	return &set, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(set *Set) {
	if set.Version == "" {
		set.Version = "1"
	}
	for _, s := range set.Schemas {
		if s.DisplayName == "" {
			s.DisplayName = s.Name
		}
		for _, a := range s.Attributes {
			if a.Kind == "" {
				a.Kind = KindScalar
			}
		}
	}
}

// Marshal serializes a schema set in the given format.
func Marshal(set *Set, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(set)
	case FormatJSON:
		return json.MarshalIndent(set, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported schema format %q", format)
	}
}
