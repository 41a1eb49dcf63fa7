package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
	"gopkg.in/yaml.v3"
)

// LoadCatalog reads a YAML catalog override. Lists missing from the file keep
// the built-in values; an empty path returns the built-in catalog.
func LoadCatalog(path string) (domain.Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return domain.DefaultCatalog(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("read catalog file %s: %w", path, err)
	}

	return ParseCatalog(raw)
}

// ParseCatalog decodes a YAML catalog document.
func ParseCatalog(raw []byte) (domain.Catalog, error) {
	var catalog domain.Catalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return domain.Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}

	return catalog.Merge(domain.DefaultCatalog()), nil
}
