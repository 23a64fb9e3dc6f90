// Package registry resolves bindings between pages and the post types or
// terms they act as index pages for.
//
// A Registry is built once per request and loaded from option storage on
// first use. After Load its bindings do not change unless Load is called
// again with reload set, so every lookup made while serving a request
// sees the same snapshot.
package registry

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/dougwollison/index-pages/internal/content"
	"github.com/dougwollison/index-pages/internal/options"
)

// Registry holds the page bindings of a single request
type Registry struct {
	store  options.Store
	types  content.Types
	terms  content.Terms
	hooks  Hooks
	logger *zap.Logger

	loaded     bool
	postTypes  map[string]int
	termPages  map[int]int
	taxonomies []string

	// optIn overrides the index-page feature of a post type for this
	// registry: true adds support, false removes it.
	optIn map[string]bool
}

// Option configures a Registry
type Option func(*Registry)

// WithHooks installs lookup hooks
func WithHooks(hooks Hooks) Option {
	return func(r *Registry) {
		r.hooks = hooks
	}
}

// WithLogger sets the logger used for storage failures
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates an empty, unloaded Registry
func New(store options.Store, types content.Types, terms content.Terms, opts ...Option) *Registry {
	r := &Registry{
		store:     store,
		types:     types,
		terms:     terms,
		logger:    zap.NewNop(),
		postTypes: make(map[string]int),
		termPages: make(map[int]int),
		optIn:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Loaded reports whether Load has run
func (r *Registry) Loaded() bool {
	return r.loaded
}

// Load reads the bindings from option storage. It does nothing when the
// registry is already loaded, unless reload is true.
//
// Missing rows are unbound, not errors. A storage failure is returned,
// but the registry is still marked loaded with whatever was read before
// the failure, so lookups keep working and report those bindings only.
func (r *Registry) Load(ctx context.Context, reload bool) error {
	if r.loaded && !reload {
		return nil
	}

	postTypes := make(map[string]int)
	termPages := make(map[int]int)
	var taxonomies []string

	defer func() {
		r.postTypes = postTypes
		r.termPages = termPages
		r.taxonomies = taxonomies
		r.loaded = true
	}()

	value, _, err := r.store.Get(ctx, options.PageForPosts)
	if err != nil {
		return r.loadError(options.PageForPosts, err)
	}
	postTypes[content.PostTypePost] = options.ParsePageID(value)

	rows, err := r.store.Scan(ctx, options.BindingPrefix)
	if err != nil {
		return r.loadError(options.BindingPrefix+"*", err)
	}
	for _, row := range rows {
		if postType, ok := options.ParsePostTypeOption(row.Name); ok {
			postTypes[postType] = options.ParsePageID(row.Value)
			continue
		}
		if termID, ok := options.ParseTermOption(row.Name); ok {
			termPages[termID] = options.ParsePageID(row.Value)
		}
	}

	value, _, err = r.store.Get(ctx, options.SupportedTaxList)
	if err != nil {
		return r.loadError(options.SupportedTaxList, err)
	}
	taxonomies = options.ParseList(value)

	r.logger.Debug("index page bindings loaded",
		zap.Int("post_types", len(postTypes)),
		zap.Int("terms", len(termPages)),
		zap.Strings("taxonomies", taxonomies),
	)
	return nil
}

func (r *Registry) loadError(option string, err error) error {
	r.logger.Warn("failed to load index page bindings", zap.String("option", option), zap.Error(err))
	return fmt.Errorf("failed to load %s: %w", option, err)
}

// Bindings is a read-only snapshot of the loaded bindings
type Bindings struct {
	postTypes  map[string]int
	termPages  map[int]int
	taxonomies []string
}

// Bindings returns a copy of the current bindings
func (r *Registry) Bindings() Bindings {
	b := Bindings{
		postTypes:  make(map[string]int, len(r.postTypes)),
		termPages:  make(map[int]int, len(r.termPages)),
		taxonomies: append([]string(nil), r.taxonomies...),
	}
	for k, v := range r.postTypes {
		b.postTypes[k] = v
	}
	for k, v := range r.termPages {
		b.termPages[k] = v
	}
	return b
}

// PostTypes returns the page id bound to each post type, including
// unbound (zero) entries read from storage.
func (b Bindings) PostTypes() map[string]int {
	return b.postTypes
}

// Terms returns the page id bound to each term id
func (b Bindings) Terms() map[int]int {
	return b.termPages
}

// SupportedTaxonomies returns the taxonomies opted into term pages
func (b Bindings) SupportedTaxonomies() []string {
	return b.taxonomies
}

// SupportedTaxonomies returns the taxonomies opted into term pages,
// whether or not they are currently registered.
func (r *Registry) SupportedTaxonomies() []string {
	return append([]string(nil), r.taxonomies...)
}

// AddPostTypes opts post types into index page support for this
// registry. The site's post type registrations are not changed.
func (r *Registry) AddPostTypes(postTypes ...string) {
	for _, pt := range postTypes {
		r.optIn[pt] = true
	}
}

// RemovePostTypes removes the explicit opt-in from post types for this
// registry, including one declared at registration. Types with archives
// stay supported.
func (r *Registry) RemovePostTypes(postTypes ...string) {
	for _, pt := range postTypes {
		r.optIn[pt] = false
	}
}

// AddTaxonomies opts taxonomies into term page support for this registry.
// The change is not persisted.
func (r *Registry) AddTaxonomies(taxonomies ...string) {
	for _, tax := range taxonomies {
		if !contains(r.taxonomies, tax) {
			r.taxonomies = append(r.taxonomies, tax)
		}
	}
}

// RemoveTaxonomies removes taxonomies from term page support for this
// registry. The change is not persisted.
func (r *Registry) RemoveTaxonomies(taxonomies ...string) {
	kept := r.taxonomies[:0]
	for _, tax := range r.taxonomies {
		if !contains(taxonomies, tax) {
			kept = append(kept, tax)
		}
	}
	r.taxonomies = kept
}

// sortedTermIDs returns the bound term ids in ascending order
func (r *Registry) sortedTermIDs() []int {
	ids := make([]int, 0, len(r.termPages))
	for id := range r.termPages {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
