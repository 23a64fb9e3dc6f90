package query

import (
	"github.com/dougwollison/index-pages/internal/content"
)

// Query is a classified request. The flags follow the platform's main
// query: a request for a post type without an archive, and with no other
// archive selector, is classified as the home page.
type Query struct {
	Vars Vars `json:"vars"`

	IsSingle          bool `json:"is_single"`
	IsPage            bool `json:"is_page"`
	IsSingular        bool `json:"is_singular"`
	IsArchive         bool `json:"is_archive"`
	IsPostTypeArchive bool `json:"is_post_type_archive"`
	IsDate            bool `json:"is_date"`
	IsYear            bool `json:"is_year"`
	IsMonth           bool `json:"is_month"`
	IsDay             bool `json:"is_day"`
	IsCategory        bool `json:"is_category"`
	IsTag             bool `json:"is_tag"`
	IsTax             bool `json:"is_tax"`
	IsSearch          bool `json:"is_search"`
	IsHome            bool `json:"is_home"`
	IsPaged           bool `json:"is_paged"`
}

// Get returns a query variable as a string
func (q *Query) Get(key string) string {
	return q.Vars.String(key)
}

// Parse classifies vars. types is used to check archive support of the
// requested post type.
func Parse(vars Vars, types content.Types) *Query {
	q := &Query{Vars: vars}

	switch {
	case !vars.Empty(VarPageName) || !vars.Empty("page_id"):
		q.IsPage = true
	case !vars.Empty(VarName) || !vars.Empty("p"):
		q.IsSingle = true
	}
	q.IsSingular = q.IsSingle || q.IsPage

	if !q.IsSingular {
		q.classifyArchive(types)
	}

	q.IsSearch = !vars.Empty("s")
	q.IsPaged = vars.Int(VarPaged) > 1

	if q.IsPostTypeArchive || q.IsDate || q.IsCategory || q.IsTag || q.IsTax {
		q.IsArchive = true
	}
	if !q.IsSingular && !q.IsArchive && !q.IsSearch {
		q.IsHome = true
	}

	return q
}

func (q *Query) classifyArchive(types content.Types) {
	vars := q.Vars

	switch {
	case !vars.Empty(VarDay):
		q.IsDay = true
	case !vars.Empty(VarMonthNum):
		q.IsMonth = true
	case !vars.Empty(VarYear):
		q.IsYear = true
	}
	if m := vars.String("m"); len(m) >= 4 && vars.Int("m") > 0 {
		switch {
		case len(m) >= 8:
			q.IsDay = true
		case len(m) >= 6:
			q.IsMonth = true
		default:
			q.IsYear = true
		}
	}
	q.IsDate = q.IsYear || q.IsMonth || q.IsDay

	q.IsCategory = !vars.Empty(VarCat) || !vars.Empty(VarCatName)
	q.IsTag = !vars.Empty(VarTagID) || !vars.Empty(VarTag)
	for _, clause := range vars.TaxQuery() {
		switch clause.Taxonomy {
		case content.TaxonomyCategory:
			q.IsCategory = true
		case content.TaxonomyTag:
			q.IsTag = true
		default:
			q.IsTax = true
		}
	}

	// Lists of post types never make a post type archive
	if postType, ok := vars[VarPostType].(string); ok && postType != "" && types != nil {
		if pt, ok := types.PostType(postType); ok && pt.HasArchive {
			q.IsPostTypeArchive = true
		}
	}
}
