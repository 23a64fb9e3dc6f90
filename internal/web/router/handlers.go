package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dougwollison/index-pages/internal/app"
	"github.com/dougwollison/index-pages/internal/content"
	"github.com/dougwollison/index-pages/internal/links"
	"github.com/dougwollison/index-pages/internal/matcher"
	"github.com/dougwollison/index-pages/internal/query"
	"github.com/dougwollison/index-pages/internal/registry"
	webctx "github.com/dougwollison/index-pages/internal/web/context"
	"github.com/dougwollison/index-pages/internal/web/request"
	"github.com/dougwollison/index-pages/internal/web/response"
)

// Handlers serves the lookup API and the front controller
type Handlers struct {
	app *app.App
}

// NewHandlers creates the handlers for a
func NewHandlers(a *app.App) *Handlers {
	return &Handlers{app: a}
}

// IndexPageResponse is returned by the post type lookup
type IndexPageResponse struct {
	PostType string `json:"post_type"`
	PageID   int    `json:"page_id"`
	URL      string `json:"url,omitempty"`
}

// TermPageResponse is returned by the term lookup
type TermPageResponse struct {
	TermID   int    `json:"term_id"`
	Taxonomy string `json:"taxonomy"`
	PageID   int    `json:"page_id"`
	URL      string `json:"url,omitempty"`
}

// PageResponse describes what a page is the index page for
type PageResponse struct {
	PageID    int             `json:"page_id"`
	IndexFor  string          `json:"index_for,omitempty"`
	PostTypes []string        `json:"post_types,omitempty"`
	Term      *content.Term   `json:"term,omitempty"`
	Terms     []*content.Term `json:"terms,omitempty"`
}

// BindingsResponse is the loaded bindings snapshot
type BindingsResponse struct {
	PostTypes  map[string]int `json:"post_types"`
	Terms      map[int]int    `json:"terms"`
	Taxonomies []string       `json:"taxonomies"`
}

// IndexPageView describes the current index page of a front request
type IndexPageView struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// PageView is the rendering of a front request
type PageView struct {
	Outcome     matcher.Outcome  `json:"outcome"`
	Vars        query.Vars       `json:"vars"`
	Flags       map[string]bool  `json:"flags"`
	IndexPage   *IndexPageView   `json:"index_page,omitempty"`
	Title       string           `json:"title,omitempty"`
	ArchiveLink string           `json:"archive_link,omitempty"`
	DateLink    string           `json:"date_link,omitempty"`
	Menu        []links.MenuItem `json:"menu,omitempty"`
}

func (h *Handlers) registry(w http.ResponseWriter, r *http.Request) (*registry.Registry, bool) {
	reg, ok := webctx.GetRegistry(r.Context())
	if !ok {
		webctx.GetLogger(r.Context()).Error("no registry on request context")
		response.RenderServiceUnavailable(w, r, "")
		return nil, false
	}
	return reg, true
}

// Health reports liveness
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Bindings returns every loaded binding
func (h *Handlers) Bindings(w http.ResponseWriter, r *http.Request) {
	reg, ok := h.registry(w, r)
	if !ok {
		return
	}

	b := reg.Bindings()
	taxonomies := b.SupportedTaxonomies()
	if taxonomies == nil {
		taxonomies = []string{}
	}
	response.JSON(w, http.StatusOK, BindingsResponse{
		PostTypes:  b.PostTypes(),
		Terms:      b.Terms(),
		Taxonomies: taxonomies,
	})
}

// IndexPage looks up the page bound to {postType}
func (h *Handlers) IndexPage(w http.ResponseWriter, r *http.Request) {
	reg, ok := h.registry(w, r)
	if !ok {
		return
	}

	postType := chi.URLParam(r, "postType")
	pageID, ok := reg.GetIndexPage(postType)
	if !ok {
		response.RenderNotFound(w, r, "No index page for post type "+postType)
		return
	}

	url, _ := h.app.Site.Permalink(pageID)
	response.JSON(w, http.StatusOK, IndexPageResponse{PostType: postType, PageID: pageID, URL: url})
}

// TermPage looks up the page bound to {termID}. ?taxonomy= narrows the
// lookup, and is required with ?slug= in place of an id.
func (h *Handlers) TermPage(w http.ResponseWriter, r *http.Request) {
	reg, ok := h.registry(w, r)
	if !ok {
		return
	}

	taxonomy := r.URL.Query().Get("taxonomy")
	param := chi.URLParam(r, "termID")

	var ref registry.TermRef
	if termID, err := strconv.Atoi(param); err == nil && termID > 0 {
		ref = registry.TermID(termID)
	} else if taxonomy != "" {
		ref = registry.TermSlug(param)
	} else {
		response.RenderBadRequest(w, r, "Term must be a positive id, or a slug with ?taxonomy=")
		return
	}

	pageID, ok := reg.GetTermPage(ref, taxonomy)
	if !ok {
		response.RenderNotFound(w, r, "No index page for term "+param)
		return
	}

	resp := TermPageResponse{PageID: pageID, Taxonomy: taxonomy}
	if termID, ok := ref.(registry.TermID); ok {
		resp.TermID = int(termID)
		if term, ok := h.app.Site.Term(int(termID)); ok {
			resp.Taxonomy = term.Taxonomy
		}
	} else if term, ok := h.app.Site.TermBySlug(param, taxonomy); ok {
		resp.TermID = term.ID
	}
	resp.URL, _ = h.app.Site.Permalink(pageID)
	response.JSON(w, http.StatusOK, resp)
}

// Page reports what {pageID} is the index page for
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	reg, ok := h.registry(w, r)
	if !ok {
		return
	}

	pageID, err := strconv.Atoi(chi.URLParam(r, "pageID"))
	if err != nil || pageID <= 0 {
		response.RenderBadRequest(w, r, "Page id must be a positive integer")
		return
	}
	if _, ok := h.app.Site.Page(pageID); !ok {
		response.RenderNotFound(w, r, "No such page")
		return
	}

	resp := PageResponse{PageID: pageID}
	if postTypes := reg.IndexPostTypes(pageID); len(postTypes) > 0 {
		resp.IndexFor = postTypes[0]
		resp.PostTypes = postTypes
	}
	if terms := reg.TermPages(pageID); len(terms) > 0 {
		resp.Term = terms[0]
		resp.Terms = terms
	}
	if resp.IndexFor == "" && resp.Term == nil {
		response.RenderNotFound(w, r, "Page is not an index page")
		return
	}
	response.JSON(w, http.StatusOK, resp)
}

// Front resolves any other path as a page request, rewrites it when it is
// a bound index page, and renders the classified query.
func (h *Handlers) Front(w http.ResponseWriter, r *http.Request) {
	reg, ok := h.registry(w, r)
	if !ok {
		return
	}

	view, status := h.View(reg, request.Resolve(r))

	webctx.GetLogger(r.Context()).Debug("front request resolved",
		zap.Stringer("outcome", view.Outcome),
		zap.Int("status", status),
	)
	response.JSON(w, status, view)
}

// View runs req through the matcher and classifies the result. The
// returned status is 404 when a singular or term request names nothing.
func (h *Handlers) View(reg *registry.Registry, req *matcher.Request) (PageView, int) {
	outcome := matcher.Untouched
	if req.Vars.Has(query.VarPageName) {
		outcome = h.app.Matcher(reg).HandleRequest(req)
	}

	q := query.Parse(req.Vars, h.app.Site)
	matcher.PatchQuery(q)

	l := h.app.Links(reg)
	queried := h.queried(q)

	view := PageView{
		Outcome: outcome,
		Vars:    req.Vars,
		Flags:   flags(q),
		Title:   h.title(l, q, queried),
	}

	current, ok := l.CurrentIndexPage(q, queried)
	if ok {
		view.IndexPage = &IndexPageView{ID: current}
		if page, ok := h.app.Site.Page(current); ok {
			view.IndexPage.Title = page.Title
		}
		view.IndexPage.URL, _ = h.app.Site.Permalink(current)
	}

	if q.IsPostTypeArchive || q.IsHome {
		if postTypes := q.Vars.PostTypes(); len(postTypes) > 0 {
			view.ArchiveLink, _ = l.PostTypeArchiveLink(postTypes[0])
		} else if q.IsHome {
			view.ArchiveLink, _ = l.PostTypeArchiveLink(content.PostTypePost)
		}
	}

	if q.IsDate {
		view.DateLink = h.dateLink(l, q)
	}
	view.Menu = links.MarkMenuItems(h.menu(), current, q.IsSingular)

	status := http.StatusOK
	if (q.IsSingular || q.IsCategory || q.IsTag || q.IsTax) && queried == nil {
		status = http.StatusNotFound
	}
	return view, status
}

// dateLink links to the date archive the query is for, under the index
// page of its post type when there is one.
func (h *Handlers) dateLink(l *links.Links, q *query.Query) string {
	vars := q.Vars
	year, month, day := vars.String(query.VarYear), vars.String(query.VarMonthNum), vars.String(query.VarDay)
	if m := vars.String("m"); year == "" && len(m) >= 4 {
		year = m[:4]
		if len(m) >= 6 {
			month = m[4:6]
		}
		if len(m) >= 8 {
			day = m[6:8]
		}
	}
	if year == "" {
		return ""
	}

	postType := content.PostTypePost
	if postTypes := vars.PostTypes(); len(postTypes) > 0 {
		postType = postTypes[0]
	}
	return l.DateLink(postType, year, month, day, time.Now())
}

// menu lists the top-level pages as navigation items
func (h *Handlers) menu() []links.MenuItem {
	pages := h.app.Site.Pages(0)
	items := make([]links.MenuItem, 0, len(pages))
	for _, page := range pages {
		url, _ := h.app.Site.Permalink(page.ID)
		items = append(items, links.MenuItem{
			ID:       page.ID,
			Title:    page.Title,
			URL:      url,
			Object:   content.PostTypePage,
			ObjectID: page.ID,
		})
	}
	return items
}

// queried returns the object the query is for: a page, a post or a term.
// A rewritten post type request is for its index page.
func (h *Handlers) queried(q *query.Query) any {
	site := h.app.Site
	vars := q.Vars

	switch {
	case q.IsPage:
		if page, ok := site.PageByPath(vars.String(query.VarPageName)); ok {
			return page
		}
		if page, ok := site.Page(vars.Int("page_id")); ok {
			return page
		}
	case q.IsSingle:
		if post, ok := site.Post(vars.Int("p")); ok {
			return post
		}
	case q.IsCategory:
		return termOrNil(site, vars.Int(query.VarCat), vars.String(query.VarCatName), content.TaxonomyCategory, q)
	case q.IsTag:
		return termOrNil(site, vars.Int(query.VarTagID), vars.String(query.VarTag), content.TaxonomyTag, q)
	case q.IsTax:
		for _, clause := range vars.TaxQuery() {
			for _, id := range clause.Terms {
				if term, ok := site.Term(id); ok {
					return term
				}
			}
		}
	case q.IsPostTypeArchive || q.IsHome:
		if page, ok := site.Page(vars.Int(query.VarIndexPage)); ok {
			return page
		}
	}
	return nil
}

func termOrNil(site *content.Site, id int, slug, taxonomy string, q *query.Query) any {
	if term, ok := site.Term(id); ok {
		return term
	}
	if term, ok := site.TermBySlug(slug, taxonomy); ok {
		return term
	}
	for _, clause := range q.Vars.TaxQuery() {
		if clause.Taxonomy != taxonomy {
			continue
		}
		for _, id := range clause.Terms {
			if term, ok := site.Term(id); ok {
				return term
			}
		}
	}
	return nil
}

func (h *Handlers) title(l *links.Links, q *query.Query, queried any) string {
	switch obj := queried.(type) {
	case *content.Term:
		return obj.Name
	case *content.Post:
		if q.IsSingular {
			return obj.Title
		}
	}

	postType := content.PostTypePost
	if postTypes := q.Vars.PostTypes(); len(postTypes) > 0 {
		postType = postTypes[0]
	} else if !q.IsHome {
		return ""
	}

	label := postType
	if pt, ok := h.app.Site.PostType(postType); ok && pt.Label != "" {
		label = pt.Label
	}
	return l.ArchiveTitle(label, postType)
}

func flags(q *query.Query) map[string]bool {
	all := map[string]bool{
		"is_single":            q.IsSingle,
		"is_page":              q.IsPage,
		"is_singular":          q.IsSingular,
		"is_archive":           q.IsArchive,
		"is_post_type_archive": q.IsPostTypeArchive,
		"is_date":              q.IsDate,
		"is_year":              q.IsYear,
		"is_month":             q.IsMonth,
		"is_day":               q.IsDay,
		"is_category":          q.IsCategory,
		"is_tag":               q.IsTag,
		"is_tax":               q.IsTax,
		"is_search":            q.IsSearch,
		"is_home":              q.IsHome,
		"is_paged":             q.IsPaged,
	}
	set := make(map[string]bool)
	for name, value := range all {
		if value {
			set[name] = true
		}
	}
	return set
}
