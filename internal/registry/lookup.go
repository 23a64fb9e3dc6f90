package registry

import (
	"github.com/dougwollison/index-pages/internal/content"
)

// Hooks are ordered callback chains run by the lookups. Each callback
// receives the result of the previous one.
type Hooks struct {
	// GetIndexPage overrides the page id resolved for a post type
	GetIndexPage []func(pageID int, postType string) int

	// GetTermPage overrides the page id resolved for a term
	GetTermPage []func(pageID int, term *content.Term, taxonomy string) int

	// IsIndexPage transforms the page id before a post type reverse lookup
	IsIndexPage []func(pageID int) int

	// IsTermPage transforms the page id before a term reverse lookup
	IsTermPage []func(pageID int) int
}

func applyIDHooks(hooks []func(int) int, pageID int) int {
	for _, hook := range hooks {
		pageID = hook(pageID)
	}
	return pageID
}

// TermRef identifies a term for GetTermPage: a TermID, a TermSlug or a
// *content.Term.
type TermRef interface {
	resolve(terms content.Terms, taxonomy string) (*content.Term, bool)
}

// TermID refers to a term by id
type TermID int

func (id TermID) resolve(terms content.Terms, taxonomy string) (*content.Term, bool) {
	term, ok := terms.Term(int(id))
	if !ok {
		return nil, false
	}
	if taxonomy != "" && term.Taxonomy != taxonomy {
		return nil, false
	}
	return term, true
}

// TermSlug refers to a term by slug. Slugs are only unique within a
// taxonomy, so a taxonomy is required.
type TermSlug string

func (slug TermSlug) resolve(terms content.Terms, taxonomy string) (*content.Term, bool) {
	if taxonomy == "" {
		return nil, false
	}
	return terms.TermBySlug(string(slug), taxonomy)
}

// termValue passes an already resolved term through
type termValue struct {
	term *content.Term
}

func (t termValue) resolve(content.Terms, string) (*content.Term, bool) {
	return t.term, t.term != nil
}

// Term wraps a resolved term as a TermRef
func Term(term *content.Term) TermRef {
	return termValue{term: term}
}

// IsPostTypeSupported reports whether a post type can have an index page.
// "post" is always supported. Other types must be registered and either
// opted in or have an archive. An opt-in made on this registry takes
// precedence over the index-page feature declared at registration.
func (r *Registry) IsPostTypeSupported(postType string) bool {
	if postType == content.PostTypePost {
		return true
	}

	pt, ok := r.types.PostType(postType)
	if !ok {
		return false
	}
	if pt.HasArchive {
		return true
	}
	if optIn, ok := r.optIn[postType]; ok {
		return optIn
	}
	return pt.Supports(content.FeatureIndexPage)
}

// IsTaxonomySupported reports whether terms of a taxonomy can have index
// pages: the taxonomy must exist, be opted in and be public.
func (r *Registry) IsTaxonomySupported(taxonomy string) bool {
	tax, ok := r.types.Taxonomy(taxonomy)
	if !ok {
		return false
	}
	if !contains(r.taxonomies, taxonomy) {
		return false
	}
	return tax.Public
}

// GetIndexPage returns the page bound to a post type. ok is false when
// the post type is unsupported or no page is bound.
func (r *Registry) GetIndexPage(postType string) (int, bool) {
	if !r.IsPostTypeSupported(postType) {
		return 0, false
	}

	pageID := r.postTypes[postType]
	for _, hook := range r.hooks.GetIndexPage {
		pageID = hook(pageID, postType)
	}
	return pageID, pageID > 0
}

// GetTermPage returns the page bound to a term. taxonomy is required for
// TermSlug references and narrows TermID references.
func (r *Registry) GetTermPage(ref TermRef, taxonomy string) (int, bool) {
	if ref == nil {
		return 0, false
	}

	term, ok := ref.resolve(r.terms, taxonomy)
	if !ok {
		return 0, false
	}
	if !r.IsTaxonomySupported(term.Taxonomy) {
		return 0, false
	}

	pageID := r.termPages[term.ID]
	for _, hook := range r.hooks.GetTermPage {
		pageID = hook(pageID, term, taxonomy)
	}
	return pageID, pageID > 0
}

// IsIndexPage returns the post type a page is the index page for. When
// several supported post types share the page, "post" wins, then the
// first in registration order.
func (r *Registry) IsIndexPage(pageID int) (string, bool) {
	postTypes := r.IndexPostTypes(pageID)
	if len(postTypes) == 0 {
		return "", false
	}
	return postTypes[0], true
}

// IndexPostTypes returns every supported post type bound to the page,
// "post" first, then in registration order. Bindings to unregistered or
// unsupported post types are skipped.
func (r *Registry) IndexPostTypes(pageID int) []string {
	pageID = applyIDHooks(r.hooks.IsIndexPage, pageID)
	if pageID <= 0 {
		return nil
	}

	var postTypes []string
	if r.postTypes[content.PostTypePost] == pageID {
		postTypes = append(postTypes, content.PostTypePost)
	}
	for _, pt := range r.types.PostTypes() {
		if pt.Name == content.PostTypePost {
			continue
		}
		if bound, ok := r.postTypes[pt.Name]; ok && bound == pageID && r.IsPostTypeSupported(pt.Name) {
			postTypes = append(postTypes, pt.Name)
		}
	}
	return postTypes
}

// IsTermPage returns the term a page is the index page for. When several
// terms share the page the lowest term id wins.
func (r *Registry) IsTermPage(pageID int) (*content.Term, bool) {
	terms := r.TermPages(pageID)
	if len(terms) == 0 {
		return nil, false
	}
	return terms[0], true
}

// TermPages returns every term bound to the page, by ascending term id.
// Bindings to deleted terms or unsupported taxonomies are skipped.
func (r *Registry) TermPages(pageID int) []*content.Term {
	pageID = applyIDHooks(r.hooks.IsTermPage, pageID)
	if pageID <= 0 {
		return nil
	}

	var terms []*content.Term
	for _, termID := range r.sortedTermIDs() {
		if r.termPages[termID] != pageID {
			continue
		}
		term, ok := r.terms.Term(termID)
		if !ok || !r.IsTaxonomySupported(term.Taxonomy) {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}
