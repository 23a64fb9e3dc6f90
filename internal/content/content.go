// Package content models the site objects the index-page core reads but
// does not own: post types, taxonomies, terms and pages.
//
// The core only depends on the small lookup interfaces declared here
// (Types, Terms, Pages, Permalinker). Site is an in-memory implementation
// of all of them, loadable from a YAML fixture.
package content

// FeatureIndexPage is the post type feature that explicitly opts a post
// type into index page support.
const FeatureIndexPage = "index-page"

// Built-in post types and taxonomies.
const (
	PostTypePost = "post"
	PostTypePage = "page"

	TaxonomyCategory = "category"
	TaxonomyTag      = "post_tag"
)

// PostType describes a registered post type
type PostType struct {
	Name       string   `yaml:"name" json:"name"`
	Label      string   `yaml:"label" json:"label,omitempty"`
	Public     bool     `yaml:"public" json:"public"`
	HasArchive bool     `yaml:"has_archive" json:"has_archive"`
	Features   []string `yaml:"supports" json:"supports,omitempty"`
}

// Supports reports whether the post type has the given feature
func (pt *PostType) Supports(feature string) bool {
	for _, f := range pt.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// Taxonomy describes a registered taxonomy
type Taxonomy struct {
	Name        string   `yaml:"name" json:"name"`
	Label       string   `yaml:"label" json:"label,omitempty"`
	Public      bool     `yaml:"public" json:"public"`
	ObjectTypes []string `yaml:"object_types" json:"object_types,omitempty"`
}

// Term is a single term of a taxonomy
type Term struct {
	ID       int    `yaml:"id" json:"id"`
	Taxonomy string `yaml:"taxonomy" json:"taxonomy"`
	Slug     string `yaml:"slug" json:"slug"`
	Name     string `yaml:"name" json:"name"`
}

// Post is any stored post; pages are posts of type "page".
type Post struct {
	ID     int    `yaml:"id" json:"id"`
	Type   string `yaml:"type" json:"type"`
	Slug   string `yaml:"slug" json:"slug"`
	Title  string `yaml:"title" json:"title"`
	Parent int    `yaml:"parent" json:"parent,omitempty"`
}

// Types answers post type and taxonomy registration queries.
// PostTypes must return post types in registration order.
type Types interface {
	PostType(name string) (*PostType, bool)
	PostTypes() []*PostType
	Taxonomy(name string) (*Taxonomy, bool)
}

// Terms resolves terms by id or by slug within a taxonomy
type Terms interface {
	Term(id int) (*Term, bool)
	TermBySlug(slug, taxonomy string) (*Term, bool)
}

// Pages resolves pages by id or by hierarchical path ("parent/child")
type Pages interface {
	Page(id int) (*Post, bool)
	PageByPath(path string) (*Post, bool)
}

// Permalinker generates public URLs
type Permalinker interface {
	Permalink(id int) (string, bool)
	ArchiveLink(postType string) (string, bool)
	TermLink(term *Term) string
}
