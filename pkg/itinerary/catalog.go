package itinerary

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/aretw0/triprules/pkg/domain"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultCatalog []byte

// Profile is the copy used for one audience.
type Profile struct {
	Title       string   `yaml:"title"`
	Morning     string   `yaml:"morning"`
	Afternoon   string   `yaml:"afternoon"`
	Evening     string   `yaml:"evening"`
	Constraints []string `yaml:"constraints"`
	Packing     []string `yaml:"packing"`
	BudgetTip   string   `yaml:"budget_tip"`
}

// Catalog holds the document layout and the per-audience copy.
type Catalog struct {
	Layout    string                      `yaml:"layout"`
	Audiences map[domain.Audience]Profile `yaml:"audiences"`
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// DefaultCatalogYAML returns a copy of the embedded catalog source, a starting
// point for custom catalogs.
func DefaultCatalogYAML() []byte {
	return append([]byte(nil), defaultCatalog...)
}

// LoadCatalog reads a catalog file. Missing audiences fall back to the embedded copy.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template catalog: %w", err)
	}

	custom, err := ParseCatalog(data)
	if err != nil {
		return nil, err
	}
	base, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}

	if custom.Layout == "" {
		custom.Layout = base.Layout
	}
	if custom.Audiences == nil {
		custom.Audiences = map[domain.Audience]Profile{}
	}
	for a, p := range base.Audiences {
		if _, ok := custom.Audiences[a]; !ok {
			custom.Audiences[a] = p
		}
	}
	return custom, nil
}

// ParseCatalog decodes a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse template catalog: %w", err)
	}
	for a := range c.Audiences {
		if !a.Valid() {
			return nil, fmt.Errorf("template catalog: %w: %q", domain.ErrInvalidAudience, a)
		}
	}
	return &c, nil
}
