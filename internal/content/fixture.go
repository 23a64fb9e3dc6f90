package content

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Fixture is the on-disk description of a site: registered types,
// terms, posts and the raw option rows that hold index page bindings.
type Fixture struct {
	BaseURL    string            `yaml:"base_url"`
	PostTypes  []PostType        `yaml:"post_types"`
	Taxonomies []Taxonomy        `yaml:"taxonomies"`
	Terms      []Term            `yaml:"terms"`
	Posts      []Post            `yaml:"posts"`
	Options    map[string]string `yaml:"options"`
}

// LoadFixture reads a YAML site fixture from disk
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes a YAML site fixture
func ParseFixture(data []byte) (*Fixture, error) {
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("failed to parse site fixture: %w", err)
	}
	return &fx, nil
}

// Build creates a Site from the fixture. baseURL overrides the fixture's
// base_url when non-empty.
func (fx *Fixture) Build(baseURL string) (*Site, error) {
	if baseURL == "" {
		baseURL = fx.BaseURL
	}
	site := NewSite(baseURL)

	for _, pt := range fx.PostTypes {
		if err := site.RegisterPostType(pt); err != nil {
			return nil, err
		}
	}
	for _, tax := range fx.Taxonomies {
		if err := site.RegisterTaxonomy(tax); err != nil {
			return nil, err
		}
	}
	for _, term := range fx.Terms {
		if err := site.AddTerm(term); err != nil {
			return nil, err
		}
	}
	for _, post := range fx.Posts {
		if err := site.AddPost(post); err != nil {
			return nil, err
		}
	}

	return site, nil
}
