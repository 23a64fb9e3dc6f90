// Package matcher rewrites requests for bound index pages into the
// archive requests they stand for.
//
// A request the router resolved as a literal page is matched against the
// page path, date and pagination groups. If the page exists and is bound
// to a post type or to terms, the page query vars are cleared and replaced
// with archive vars. Any failure leaves the request untouched.
package matcher

import (
	"strings"

	"go.uber.org/zap"

	"github.com/dougwollison/index-pages/internal/content"
	"github.com/dougwollison/index-pages/internal/pattern"
	"github.com/dougwollison/index-pages/internal/query"
	"github.com/dougwollison/index-pages/internal/registry"
)

// Outcome is the result of HandleRequest
type Outcome int

const (
	// Untouched means the request keeps its original vars
	Untouched Outcome = iota
	// Rewritten means archive vars were merged into the request
	Rewritten
)

func (o Outcome) String() string {
	if o == Rewritten {
		return "rewritten"
	}
	return "untouched"
}

// MarshalText implements encoding.TextMarshaler
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Request is a request resolved as a page
type Request struct {
	// Path is the requested path, without the query string
	Path string

	// Vars are the live query vars; they are modified on rewrite
	Vars query.Vars
}

// Matches holds every submatch of the path expression, named or not.
// Index 0 is the whole match; groups that did not participate are empty.
type Matches []string

// GroupFilter adjusts the groups compiled for a request
type GroupFilter func(groups []pattern.Group, req *Request) []pattern.Group

// VarsFilter adjusts the vars merged into a rewritten request. Returning
// nil cancels the rewrite.
type VarsFilter func(vars query.Vars, matches Matches, req *Request) query.Vars

// Matcher rewrites index page requests
type Matcher struct {
	registry     *registry.Registry
	pages        content.Pages
	groupFilters []GroupFilter
	varsFilters  []VarsFilter
	logger       *zap.Logger
}

// Option configures a Matcher
type Option func(*Matcher)

// WithGroupFilter appends a group filter
func WithGroupFilter(f GroupFilter) Option {
	return func(m *Matcher) {
		m.groupFilters = append(m.groupFilters, f)
	}
}

// WithVarsFilter appends a vars filter
func WithVarsFilter(f VarsFilter) Option {
	return func(m *Matcher) {
		m.varsFilters = append(m.varsFilters, f)
	}
}

// WithLogger sets the logger for match decisions
func WithLogger(logger *zap.Logger) Option {
	return func(m *Matcher) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a Matcher reading bindings from reg
func New(reg *registry.Registry, pages content.Pages, opts ...Option) *Matcher {
	m := &Matcher{
		registry: reg,
		pages:    pages,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// HandleRequest rewrites req if it is a request for a bound index page
func (m *Matcher) HandleRequest(req *Request) Outcome {
	if req == nil || req.Vars == nil || req.Vars[query.VarPageName] == nil {
		return Untouched
	}

	groups := pattern.DefaultGroups()
	for _, filter := range m.groupFilters {
		groups = filter(groups, req)
	}

	re, err := pattern.Regexp(groups)
	if err != nil {
		m.logger.Warn("invalid index page groups", zap.Error(err))
		return Untouched
	}

	path := strings.Trim(req.Path, "/")
	loc := re.FindStringSubmatchIndex(path)
	if loc == nil {
		m.logger.Debug("path does not match index page pattern", zap.String("path", path))
		return Untouched
	}

	matches := make(Matches, len(loc)/2)
	trueVars := make(query.Vars)
	for i, name := range re.SubexpNames() {
		if loc[2*i] < 0 {
			continue
		}
		matches[i] = path[loc[2*i]:loc[2*i+1]]
		if name != "" {
			trueVars[name] = matches[i]
		}
	}

	pagename := trueVars.String(query.VarPageName)
	if pagename == "" {
		return Untouched
	}
	page, ok := m.pages.PageByPath(pagename)
	if !ok {
		m.logger.Debug("no page at path", zap.String("pagename", pagename))
		return Untouched
	}

	trueVars[query.VarPageName] = ""
	trueVars[query.VarPage] = ""
	trueVars[query.VarName] = ""
	trueVars[query.VarIndexPage] = page.ID

	if postTypes := m.registry.IndexPostTypes(page.ID); len(postTypes) > 0 {
		if req.Vars.Empty(query.VarPostType) {
			if len(postTypes) == 1 {
				trueVars[query.VarPostType] = postTypes[0]
			} else {
				trueVars[query.VarPostType] = postTypes
			}
		}
	} else if terms := m.registry.TermPages(page.ID); len(terms) > 0 {
		termVars(trueVars, req.Vars, terms)
	} else {
		m.logger.Debug("page is not an index page", zap.Int("page_id", page.ID))
		return Untouched
	}

	for _, filter := range m.varsFilters {
		if trueVars = filter(trueVars, matches, req); trueVars == nil {
			return Untouched
		}
	}

	req.Vars.Merge(trueVars)
	m.logger.Debug("rewrote index page request",
		zap.String("path", path),
		zap.Int("page_id", page.ID),
	)
	return Rewritten
}

// termVars selects the terms' archives. The built-in taxonomies use their
// own vars, unless the request already selects a category or tag; other
// taxonomies get one tax_query clause each.
func termVars(trueVars, live query.Vars, terms []*content.Term) {
	var order []string
	ids := make(map[string][]int)
	for _, term := range terms {
		if _, seen := ids[term.Taxonomy]; !seen {
			order = append(order, term.Taxonomy)
		}
		ids[term.Taxonomy] = append(ids[term.Taxonomy], term.ID)
	}

	var clauses []query.TaxClause
	for _, taxonomy := range order {
		switch taxonomy {
		case content.TaxonomyCategory:
			if live.Empty(query.VarCat) && live.Empty(query.VarCatName) {
				trueVars[query.VarCat] = ids[taxonomy][0]
			}
		case content.TaxonomyTag:
			if live.Empty(query.VarTagID) && live.Empty(query.VarTag) {
				trueVars[query.VarTagID] = ids[taxonomy][0]
			}
		default:
			clauses = append(clauses, query.TaxClause{
				Taxonomy: taxonomy,
				Field:    "term_id",
				Terms:    ids[taxonomy],
			})
		}
	}
	if len(clauses) > 0 {
		trueVars[query.VarTaxQuery] = clauses
	}
}

// PatchQuery fixes the flags of a rewritten post type request the
// classifier took for the home page.
func PatchQuery(q *query.Query) {
	if q == nil || q.Vars.Empty(query.VarIndexPage) {
		return
	}

	postTypes := q.Vars.PostTypes()
	if len(postTypes) == 0 || q.IsArchive || !q.IsHome {
		return
	}

	q.IsArchive = true
	q.IsPostTypeArchive = true
	q.IsHome = false
	for _, pt := range postTypes {
		if pt == content.PostTypePost {
			q.IsHome = true
		}
	}
}
