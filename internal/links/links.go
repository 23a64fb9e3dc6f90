// Package links rewrites archive links, titles and menus so that they
// point at the bound index pages.
package links

import (
	"github.com/dougwollison/index-pages/internal/content"
	"github.com/dougwollison/index-pages/internal/query"
	"github.com/dougwollison/index-pages/internal/registry"
)

// Links rewrites links using the bindings of one registry
type Links struct {
	registry   *registry.Registry
	types      content.Types
	pages      content.Pages
	permalinks content.Permalinker
	perma      Permastruct
}

// New creates a Links
func New(reg *registry.Registry, types content.Types, pages content.Pages, permalinks content.Permalinker, perma Permastruct) *Links {
	return &Links{
		registry:   reg,
		types:      types,
		pages:      pages,
		permalinks: permalinks,
		perma:      perma,
	}
}

// ArchiveLink returns the permalink of the post type's index page, or link
// when there is none.
func (l *Links) ArchiveLink(link, postType string) string {
	if pageID, ok := l.registry.GetIndexPage(postType); ok {
		if permalink, ok := l.permalinks.Permalink(pageID); ok {
			return permalink
		}
	}
	return link
}

// TermLink returns the permalink of the term's index page, or link when
// there is none.
func (l *Links) TermLink(link string, term *content.Term) string {
	if pageID, ok := l.registry.GetTermPage(registry.Term(term), ""); ok {
		if permalink, ok := l.permalinks.Permalink(pageID); ok {
			return permalink
		}
	}
	return link
}

// PostTypeArchiveLink returns the archive link of a post type, rewritten
// to its index page when one is bound.
func (l *Links) PostTypeArchiveLink(postType string) (string, bool) {
	link, ok := l.permalinks.ArchiveLink(postType)
	rewritten := l.ArchiveLink(link, postType)
	return rewritten, ok || rewritten != link
}

// ArchiveTitle returns the title of the post type's index page, or title
// when there is none.
func (l *Links) ArchiveTitle(title, postType string) string {
	if pageID, ok := l.registry.GetIndexPage(postType); ok {
		if page, ok := l.pages.Page(pageID); ok {
			return page.Title
		}
	}
	return title
}

// CurrentIndexPage returns the index page for the current request.
// queried is the queried object: a *content.Term on term archives, a
// *content.Post on singular views, and the index page itself on a
// rewritten post type request.
func (l *Links) CurrentIndexPage(q *query.Query, queried any) (int, bool) {
	if q == nil {
		return 0, false
	}

	if term, ok := queried.(*content.Term); ok && (q.IsCategory || q.IsTag || q.IsTax) {
		if pageID, ok := l.registry.GetTermPage(registry.Term(term), ""); ok {
			return pageID, true
		}
	}

	if post, ok := queried.(*content.Post); ok && (q.IsPostTypeArchive || q.IsHome) && post.Type == content.PostTypePage {
		return post.ID, true
	}

	postType := l.currentPostType(q, queried)
	if postType == "" {
		return 0, false
	}
	if _, ok := l.types.PostType(postType); !ok {
		return 0, false
	}
	return l.registry.GetIndexPage(postType)
}

func (l *Links) currentPostType(q *query.Query, queried any) string {
	switch {
	case q.IsHome:
		return content.PostTypePost
	case q.IsPostTypeArchive:
		if postTypes := q.Vars.PostTypes(); len(postTypes) > 0 {
			return postTypes[0]
		}
	case q.IsCategory || q.IsTag || q.IsTax:
		term, ok := queried.(*content.Term)
		if !ok {
			return ""
		}
		tax, ok := l.types.Taxonomy(term.Taxonomy)
		if !ok || len(tax.ObjectTypes) == 0 {
			return ""
		}
		return tax.ObjectTypes[0]
	case q.IsSingular:
		if post, ok := queried.(*content.Post); ok {
			return post.Type
		}
	}
	return ""
}

// IsIndexPage reports which post type a page is the index page for.
// Only pages can be index pages.
func (l *Links) IsIndexPage(pageID int) (string, bool) {
	page, ok := l.pages.Page(pageID)
	if !ok || page.Type != content.PostTypePage {
		return "", false
	}
	return l.registry.IsIndexPage(page.ID)
}
