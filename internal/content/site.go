package content

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Site is a thread-safe, in-memory content repository. It implements
// Types, Terms, Pages and Permalinker.
type Site struct {
	mu      sync.RWMutex
	baseURL string

	postTypes     []*PostType
	postTypeIndex map[string]*PostType
	taxonomies    map[string]*Taxonomy
	terms         map[int]*Term
	posts         map[int]*Post
}

// NewSite creates a Site with the built-in post types (post, page) and
// taxonomies (category, post_tag) registered.
func NewSite(baseURL string) *Site {
	s := &Site{
		baseURL:       strings.TrimRight(baseURL, "/"),
		postTypeIndex: make(map[string]*PostType),
		taxonomies:    make(map[string]*Taxonomy),
		terms:         make(map[int]*Term),
		posts:         make(map[int]*Post),
	}

	s.mustRegisterPostType(PostType{Name: PostTypePost, Label: "Posts", Public: true})
	s.mustRegisterPostType(PostType{Name: PostTypePage, Label: "Pages", Public: true})
	s.mustRegisterTaxonomy(Taxonomy{Name: TaxonomyCategory, Label: "Categories", Public: true, ObjectTypes: []string{PostTypePost}})
	s.mustRegisterTaxonomy(Taxonomy{Name: TaxonomyTag, Label: "Tags", Public: true, ObjectTypes: []string{PostTypePost}})

	return s
}

func (s *Site) mustRegisterPostType(pt PostType) {
	if err := s.RegisterPostType(pt); err != nil {
		panic(err)
	}
}

func (s *Site) mustRegisterTaxonomy(tax Taxonomy) {
	if err := s.RegisterTaxonomy(tax); err != nil {
		panic(err)
	}
}

// BaseURL returns the site's home URL without a trailing slash
func (s *Site) BaseURL() string {
	return s.baseURL
}

// RegisterPostType registers a post type. Registration order is kept.
func (s *Site) RegisterPostType(pt PostType) error {
	if pt.Name == "" {
		return fmt.Errorf("post type name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.postTypeIndex[pt.Name]; exists {
		return fmt.Errorf("post type %q already registered", pt.Name)
	}

	stored := pt
	stored.Features = append([]string(nil), pt.Features...)
	s.postTypes = append(s.postTypes, &stored)
	s.postTypeIndex[pt.Name] = &stored
	return nil
}

// UnregisterPostType removes a post type. Bindings to it become stale.
func (s *Site) UnregisterPostType(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.postTypeIndex[name]; !exists {
		return
	}
	delete(s.postTypeIndex, name)

	kept := s.postTypes[:0]
	for _, pt := range s.postTypes {
		if pt.Name != name {
			kept = append(kept, pt)
		}
	}
	s.postTypes = kept
}

// RegisterTaxonomy registers a taxonomy
func (s *Site) RegisterTaxonomy(tax Taxonomy) error {
	if tax.Name == "" {
		return fmt.Errorf("taxonomy name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.taxonomies[tax.Name]; exists {
		return fmt.Errorf("taxonomy %q already registered", tax.Name)
	}

	stored := tax
	stored.ObjectTypes = append([]string(nil), tax.ObjectTypes...)
	s.taxonomies[tax.Name] = &stored
	return nil
}

// UnregisterTaxonomy removes a taxonomy
func (s *Site) UnregisterTaxonomy(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.taxonomies, name)
}

// AddTerm stores a term. Its taxonomy must be registered.
func (s *Site) AddTerm(term Term) error {
	if term.ID <= 0 {
		return fmt.Errorf("term id must be positive, got %d", term.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.taxonomies[term.Taxonomy]; !ok {
		return fmt.Errorf("term %d: unknown taxonomy %q", term.ID, term.Taxonomy)
	}
	if _, exists := s.terms[term.ID]; exists {
		return fmt.Errorf("term %d already exists", term.ID)
	}

	stored := term
	s.terms[term.ID] = &stored
	return nil
}

// DeleteTerm removes a term
func (s *Site) DeleteTerm(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.terms, id)
}

// AddPost stores a post. An empty type means "page".
func (s *Site) AddPost(post Post) error {
	if post.ID <= 0 {
		return fmt.Errorf("post id must be positive, got %d", post.ID)
	}
	if post.Type == "" {
		post.Type = PostTypePage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.posts[post.ID]; exists {
		return fmt.Errorf("post %d already exists", post.ID)
	}

	stored := post
	s.posts[post.ID] = &stored
	return nil
}

// PostType returns a registered post type
func (s *Site) PostType(name string) (*PostType, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pt, ok := s.postTypeIndex[name]
	if !ok {
		return nil, false
	}
	cp := *pt
	cp.Features = append([]string(nil), pt.Features...)
	return &cp, true
}

// PostTypes returns all registered post types in registration order
func (s *Site) PostTypes() []*PostType {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*PostType, 0, len(s.postTypes))
	for _, pt := range s.postTypes {
		cp := *pt
		cp.Features = append([]string(nil), pt.Features...)
		result = append(result, &cp)
	}
	return result
}

// AddPostTypeSupport adds features to a registered post type
func (s *Site) AddPostTypeSupport(name string, features ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pt, ok := s.postTypeIndex[name]
	if !ok {
		return
	}
	for _, f := range features {
		if !pt.Supports(f) {
			pt.Features = append(pt.Features, f)
		}
	}
}

// RemovePostTypeSupport removes features from a registered post type
func (s *Site) RemovePostTypeSupport(name string, features ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pt, ok := s.postTypeIndex[name]
	if !ok {
		return
	}
	kept := pt.Features[:0]
	for _, f := range pt.Features {
		if !contains(features, f) {
			kept = append(kept, f)
		}
	}
	pt.Features = kept
}

// Taxonomy returns a registered taxonomy
func (s *Site) Taxonomy(name string) (*Taxonomy, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tax, ok := s.taxonomies[name]
	if !ok {
		return nil, false
	}
	cp := *tax
	cp.ObjectTypes = append([]string(nil), tax.ObjectTypes...)
	return &cp, true
}

// Taxonomies returns the registered taxonomy names, sorted
func (s *Site) Taxonomies() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.taxonomies))
	for name := range s.taxonomies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Term returns a term by id. Terms of unregistered taxonomies are not found.
func (s *Site) Term(id int) (*Term, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	term, ok := s.terms[id]
	if !ok {
		return nil, false
	}
	if _, ok := s.taxonomies[term.Taxonomy]; !ok {
		return nil, false
	}
	cp := *term
	return &cp, true
}

// TermBySlug returns the term with the given slug in a taxonomy
func (s *Site) TermBySlug(slug, taxonomy string) (*Term, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.taxonomies[taxonomy]; !ok {
		return nil, false
	}
	for _, term := range s.terms {
		if term.Taxonomy == taxonomy && term.Slug == slug {
			cp := *term
			return &cp, true
		}
	}
	return nil, false
}

// Post returns a post of any type
func (s *Site) Post(id int) (*Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, false
	}
	cp := *post
	return &cp, true
}

// Page returns a post of type page
func (s *Site) Page(id int) (*Post, bool) {
	post, ok := s.Post(id)
	if !ok || post.Type != PostTypePage {
		return nil, false
	}
	return post, true
}

// Pages returns copies of the pages whose parent is parent, by id. A
// parent of 0 returns the top-level pages.
func (s *Site) Pages(parent int) []*Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pages []*Post
	for _, post := range s.posts {
		if post.Type == PostTypePage && post.Parent == parent {
			cp := *post
			pages = append(pages, &cp)
		}
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].ID < pages[j].ID })
	return pages
}

// PageByPath finds a page by its slug path, e.g. "about/team". The
// path's segments must match the page's ancestor chain exactly.
func (s *Site) PageByPath(path string) (*Post, bool) {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil, false
	}
	segments := strings.Split(path, "/")
	leaf := segments[len(segments)-1]

	s.mu.RLock()
	defer s.mu.RUnlock()

	// Lowest id wins when several pages share a path
	var candidates []int
	for id, post := range s.posts {
		if post.Type == PostTypePage && post.Slug == leaf {
			candidates = append(candidates, id)
		}
	}
	sort.Ints(candidates)

	for _, id := range candidates {
		if s.pathLocked(id) == path {
			cp := *s.posts[id]
			return &cp, true
		}
	}
	return nil, false
}

// PagePath returns the hierarchical slug path of a page
func (s *Site) PagePath(id int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pathLocked(id)
}

func (s *Site) pathLocked(id int) string {
	var slugs []string
	seen := make(map[int]bool)
	for id != 0 && !seen[id] {
		seen[id] = true
		post, ok := s.posts[id]
		if !ok {
			break
		}
		slugs = append([]string{post.Slug}, slugs...)
		id = post.Parent
	}
	return strings.Join(slugs, "/")
}

// Permalink returns the public URL of a post
func (s *Site) Permalink(id int) (string, bool) {
	post, ok := s.Post(id)
	if !ok {
		return "", false
	}
	if post.Type == PostTypePage {
		return s.baseURL + "/" + s.PagePath(id) + "/", true
	}
	return s.baseURL + "/?p=" + strconv.Itoa(id), true
}

// ArchiveLink returns the native archive URL of a post type. Posts are
// archived on the home page; other types need archive support.
func (s *Site) ArchiveLink(postType string) (string, bool) {
	if postType == PostTypePost {
		return s.baseURL + "/", true
	}
	pt, ok := s.PostType(postType)
	if !ok || !pt.HasArchive {
		return "", false
	}
	return s.baseURL + "/" + pt.Name + "/", true
}

// TermLink returns the native archive URL of a term
func (s *Site) TermLink(term *Term) string {
	base := term.Taxonomy
	switch term.Taxonomy {
	case TaxonomyCategory:
		base = "category"
	case TaxonomyTag:
		base = "tag"
	}
	return s.baseURL + "/" + base + "/" + term.Slug + "/"
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
