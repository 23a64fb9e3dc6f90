package links

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dougwollison/index-pages/internal/content"
	"github.com/dougwollison/index-pages/internal/options"
	"github.com/dougwollison/index-pages/internal/query"
	"github.com/dougwollison/index-pages/internal/registry"
)

var now = time.Date(2024, time.March, 7, 12, 0, 0, 0, time.UTC)

func setupLinks(t *testing.T, perma Permastruct) (*Links, *content.Site) {
	site := content.NewSite("https://example.test")
	require.NoError(t, site.RegisterPostType(content.PostType{Name: "article", Public: true, HasArchive: true}))
	require.NoError(t, site.RegisterPostType(content.PostType{Name: "event", Public: true, Features: []string{content.FeatureIndexPage}}))
	require.NoError(t, site.RegisterPostType(content.PostType{Name: "recipe", Public: true, HasArchive: true}))
	require.NoError(t, site.RegisterTaxonomy(content.Taxonomy{Name: "genre", Public: true, ObjectTypes: []string{"article"}}))
	require.NoError(t, site.AddTerm(content.Term{ID: 3, Taxonomy: "genre", Slug: "jazz"}))
	require.NoError(t, site.AddTerm(content.Term{ID: 4, Taxonomy: "genre", Slug: "blues"}))

	for _, post := range []content.Post{
		{ID: 10, Slug: "news", Title: "Latest News"},
		{ID: 11, Slug: "whats-on", Title: "What's On"},
		{ID: 12, Slug: "music", Title: "Music"},
		{ID: 13, Slug: "about", Title: "About"},
		{ID: 20, Type: "article", Slug: "hello", Title: "Hello"},
	} {
		require.NoError(t, site.AddPost(post))
	}

	store := options.NewMemoryStore(map[string]string{
		"page_for_article_posts": "10",
		"page_for_event_posts":   "11",
		"page_for_term_3":        "12",
		"index_pages_taxonomies": `["genre"]`,
	})
	reg := registry.New(store, site, site)
	require.NoError(t, reg.Load(context.Background(), false))

	return New(reg, site, site, site, perma), site
}

func TestArchiveLink(t *testing.T) {
	l, _ := setupLinks(t, DefaultPermastruct())

	assert.Equal(t, "https://example.test/news/", l.ArchiveLink("https://example.test/article/", "article"))
	assert.Equal(t, "https://example.test/recipe/", l.ArchiveLink("https://example.test/recipe/", "recipe"))
	assert.Equal(t, "original", l.ArchiveLink("original", "unknown"))
}

func TestPostTypeArchiveLink(t *testing.T) {
	l, _ := setupLinks(t, DefaultPermastruct())

	link, ok := l.PostTypeArchiveLink("event")
	assert.True(t, ok, "bound page gives a type without archive a link")
	assert.Equal(t, "https://example.test/whats-on/", link)

	link, ok = l.PostTypeArchiveLink("recipe")
	assert.True(t, ok)
	assert.Equal(t, "https://example.test/recipe/", link)

	_, ok = l.PostTypeArchiveLink("page")
	assert.False(t, ok)
}

func TestTermLink(t *testing.T) {
	l, site := setupLinks(t, DefaultPermastruct())

	jazz, _ := site.Term(3)
	blues, _ := site.Term(4)

	assert.Equal(t, "https://example.test/music/", l.TermLink(site.TermLink(jazz), jazz))
	assert.Equal(t, "https://example.test/genre/blues/", l.TermLink(site.TermLink(blues), blues))
}

func TestArchiveTitle(t *testing.T) {
	l, _ := setupLinks(t, DefaultPermastruct())

	assert.Equal(t, "Latest News", l.ArchiveTitle("Articles", "article"))
	assert.Equal(t, "Recipes", l.ArchiveTitle("Recipes", "recipe"))
}

func TestDateLinks(t *testing.T) {
	l, _ := setupLinks(t, DefaultPermastruct())

	tests := []struct {
		name     string
		link     string
		expected string
	}{
		{"year", l.YearLink("article", "2023", now), "https://example.test/news/2023/"},
		{"current year", l.YearLink("article", "", now), "https://example.test/news/2024/"},
		{"month", l.MonthLink("article", "2023", "5", now), "https://example.test/news/2023/05/"},
		{"current month", l.MonthLink("article", "", "", now), "https://example.test/news/2024/03/"},
		{"day", l.DayLink("article", "2023", "05", "2", now), "https://example.test/news/2023/05/02/"},
		{"current day", l.DayLink("event", "", "", "", now), "https://example.test/whats-on/2024/03/07/"},
		{"unbound archive", l.YearLink("recipe", "2022", now), "https://example.test/recipe/2022/"},
		{"date link day", l.DateLink("article", "2023", "5", "2", now), "https://example.test/news/2023/05/02/"},
		{"date link month", l.DateLink("article", "2023", "5", "", now), "https://example.test/news/2023/05/"},
		{"date link year", l.DateLink("article", "", "", "", now), "https://example.test/news/2024/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.link)
		})
	}
}

func TestDateLinksPlainPermalinks(t *testing.T) {
	l, _ := setupLinks(t, Permastruct{})

	assert.Equal(t, "https://example.test/news?m=2023", l.YearLink("article", "2023", now))
	assert.Equal(t, "https://example.test/news?m=202305", l.MonthLink("article", "2023", "5", now))
	assert.Equal(t, "https://example.test/news?m=20230502", l.DayLink("article", "2023", "5", "2", now))
}

func TestDateLinksWithoutTrailingSlash(t *testing.T) {
	perma := DefaultPermastruct()
	perma.TrailingSlash = false
	l, _ := setupLinks(t, perma)

	assert.Equal(t, "https://example.test/news/2023/05", l.MonthLink("article", "2023", "05", now))
}

func TestCurrentIndexPage(t *testing.T) {
	l, site := setupLinks(t, DefaultPermastruct())

	jazz, _ := site.Term(3)
	blues, _ := site.Term(4)
	hello, _ := site.Post(20)
	news, _ := site.Page(10)
	about, _ := site.Page(13)

	tests := []struct {
		name     string
		query    *query.Query
		queried  any
		expected int
		ok       bool
	}{
		{
			name:     "post type archive",
			query:    &query.Query{Vars: query.Vars{"post_type": "article"}, IsArchive: true, IsPostTypeArchive: true},
			expected: 10,
			ok:       true,
		},
		{
			name:     "rewritten request with page queried",
			query:    &query.Query{Vars: query.Vars{"post_type": "event"}, IsArchive: true, IsPostTypeArchive: true},
			queried:  news,
			expected: 10,
			ok:       true,
		},
		{
			name:     "bound term archive",
			query:    &query.Query{Vars: query.Vars{}, IsArchive: true, IsTax: true},
			queried:  jazz,
			expected: 12,
			ok:       true,
		},
		{
			name:     "unbound term falls back to object type",
			query:    &query.Query{Vars: query.Vars{}, IsArchive: true, IsTax: true},
			queried:  blues,
			expected: 10,
			ok:       true,
		},
		{
			name:     "singular",
			query:    &query.Query{Vars: query.Vars{"name": "hello"}, IsSingle: true, IsSingular: true},
			queried:  hello,
			expected: 10,
			ok:       true,
		},
		{
			name:    "singular page",
			query:   &query.Query{Vars: query.Vars{"pagename": "about"}, IsPage: true, IsSingular: true},
			queried: about,
		},
		{
			name:  "home without posts page",
			query: &query.Query{Vars: query.Vars{}, IsHome: true},
		},
		{
			name:  "search",
			query: &query.Query{Vars: query.Vars{"s": "x"}, IsSearch: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pageID, ok := l.CurrentIndexPage(tt.query, tt.queried)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, pageID)
		})
	}

	_, ok := l.CurrentIndexPage(nil, nil)
	assert.False(t, ok)
}

func TestIsIndexPage(t *testing.T) {
	l, _ := setupLinks(t, DefaultPermastruct())

	postType, ok := l.IsIndexPage(10)
	assert.True(t, ok)
	assert.Equal(t, "article", postType)

	_, ok = l.IsIndexPage(20)
	assert.False(t, ok, "not a page")
	_, ok = l.IsIndexPage(13)
	assert.False(t, ok)
}

func TestMarkMenuItems(t *testing.T) {
	items := func() []MenuItem {
		return []MenuItem{
			{ID: 1, Object: "page", ObjectID: 10},
			{ID: 2, Object: "page", ObjectID: 13, Classes: []string{"menu-item"}},
			{ID: 3, Object: "category", ObjectID: 10},
		}
	}

	marked := MarkMenuItems(items(), 10, false)
	assert.Equal(t, []string{ClassCurrentMenuItem}, marked[0].Classes)
	assert.Equal(t, []string{"menu-item"}, marked[1].Classes)
	assert.Empty(t, marked[2].Classes)

	marked = MarkMenuItems(items(), 10, true)
	assert.Equal(t, []string{ClassCurrentPageParent}, marked[0].Classes)

	assert.Equal(t, items(), MarkMenuItems(items(), 0, false))
}
