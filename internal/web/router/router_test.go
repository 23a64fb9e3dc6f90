package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dougwollison/index-pages/internal/app"
	"github.com/dougwollison/index-pages/internal/cli/config"
	"github.com/dougwollison/index-pages/internal/links"
	"github.com/dougwollison/index-pages/internal/web/response"
)

func setupRouter(t *testing.T) *Router {
	t.Helper()
	cfg := &config.Config{
		Site:       config.SiteConfig{File: filepath.Join("..", "..", "app", "testdata", "site.yml")},
		Storage:    config.StorageConfig{Driver: config.DriverMemory},
		Permalinks: links.DefaultPermastruct(),
	}
	a, err := app.New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	return New(a, DefaultConfig(zap.NewNop()))
}

func get(t *testing.T, r http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestRouter_Routes(t *testing.T) {
	r := setupRouter(t)

	names := make(map[string]string)
	for _, info := range r.Routes() {
		names[info.Name] = info.Pattern
		assert.Equal(t, http.MethodGet, info.Method)
	}
	assert.Equal(t, "/api/index-pages/{postType}", names["index_page"])
	assert.Equal(t, "/*", names["front"])

	for _, info := range r.Routes() {
		if info.Name == "term_page" {
			assert.Equal(t, []string{"termID"}, info.Parameters)
		}
	}
}

func TestRouter_Health(t *testing.T) {
	rec := get(t, setupRouter(t), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	setupRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bindings", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
	assert.Equal(t, "method_not_allowed", decode[response.ErrorResponse](t, rec).Error)
}

func TestRouter_Bindings(t *testing.T) {
	rec := get(t, setupRouter(t), "/api/bindings")
	require.Equal(t, http.StatusOK, rec.Code)

	b := decode[BindingsResponse](t, rec)
	assert.Equal(t, 17, b.PostTypes["post"])
	assert.Equal(t, 10, b.PostTypes["article"])
	assert.Equal(t, 13, b.Terms[3])
	assert.Equal(t, []string{"genre", "category"}, b.Taxonomies)
}

func TestRouter_IndexPage(t *testing.T) {
	r := setupRouter(t)

	tests := []struct {
		postType string
		status   int
		pageID   int
		url      string
	}{
		{postType: "post", status: http.StatusOK, pageID: 17, url: "https://example.com/blog/"},
		{postType: "article", status: http.StatusOK, pageID: 10, url: "https://example.com/articles/"},
		{postType: "event", status: http.StatusOK, pageID: 12, url: "https://example.com/events/"},
		{postType: "product", status: http.StatusNotFound},
		{postType: "missing", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.postType, func(t *testing.T) {
			rec := get(t, r, "/api/index-pages/"+tt.postType)
			require.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				assert.Equal(t, "not_found", decode[response.ErrorResponse](t, rec).Error)
				return
			}
			resp := decode[IndexPageResponse](t, rec)
			assert.Equal(t, tt.postType, resp.PostType)
			assert.Equal(t, tt.pageID, resp.PageID)
			assert.Equal(t, tt.url, resp.URL)
		})
	}
}

func TestRouter_TermPage(t *testing.T) {
	r := setupRouter(t)

	t.Run("by id", func(t *testing.T) {
		rec := get(t, r, "/api/term-pages/3")
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[TermPageResponse](t, rec)
		assert.Equal(t, TermPageResponse{TermID: 3, Taxonomy: "genre", PageID: 13, URL: "https://example.com/music/"}, resp)
	})

	t.Run("by slug", func(t *testing.T) {
		rec := get(t, r, "/api/term-pages/jazz?taxonomy=genre")
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[TermPageResponse](t, rec)
		assert.Equal(t, 3, resp.TermID)
		assert.Equal(t, 13, resp.PageID)
	})

	t.Run("taxonomy mismatch", func(t *testing.T) {
		rec := get(t, r, "/api/term-pages/3?taxonomy=category")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("slug without taxonomy", func(t *testing.T) {
		rec := get(t, r, "/api/term-pages/jazz")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unbound", func(t *testing.T) {
		rec := get(t, r, "/api/term-pages/4")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouter_Page(t *testing.T) {
	r := setupRouter(t)

	t.Run("post type index", func(t *testing.T) {
		rec := get(t, r, "/api/pages/10")
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[PageResponse](t, rec)
		assert.Equal(t, "article", resp.IndexFor)
		assert.Equal(t, []string{"article"}, resp.PostTypes)
		assert.Nil(t, resp.Term)
	})

	t.Run("term index", func(t *testing.T) {
		rec := get(t, r, "/api/pages/13")
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[PageResponse](t, rec)
		assert.Empty(t, resp.IndexFor)
		require.NotNil(t, resp.Term)
		assert.Equal(t, "jazz", resp.Term.Slug)
	})

	t.Run("plain page", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get(t, r, "/api/pages/15").Code)
	})

	t.Run("not a page", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get(t, r, "/api/pages/20").Code)
	})

	t.Run("bad id", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, get(t, r, "/api/pages/abc").Code)
	})
}

func TestRouter_Front(t *testing.T) {
	r := setupRouter(t)

	tests := []struct {
		name      string
		target    string
		status    int
		outcome   string
		flags     []string
		title     string
		indexPage int
		vars      map[string]any
		archive   string
		dateLink  string
		menuClass string
	}{
		{
			name:      "post type archive",
			target:    "/articles/",
			status:    http.StatusOK,
			outcome:   "rewritten",
			flags:     []string{"is_archive", "is_post_type_archive"},
			title:     "Articles",
			indexPage: 10,
			vars:      map[string]any{"post_type": "article", "index_page": float64(10), "pagename": ""},
			archive:   "https://example.com/articles/",
		},
		{
			name:      "opted in post type without archive, paged",
			target:    "/events/page/2/",
			status:    http.StatusOK,
			outcome:   "rewritten",
			flags:     []string{"is_archive", "is_post_type_archive", "is_paged"},
			title:     "Events",
			indexPage: 12,
			vars:      map[string]any{"post_type": "event", "paged": "2"},
			archive:   "https://example.com/events/",
		},
		{
			name:      "date archive under index page",
			target:    "/articles/2024/03/",
			status:    http.StatusOK,
			outcome:   "rewritten",
			flags:     []string{"is_archive", "is_post_type_archive", "is_date", "is_month"},
			title:     "Articles",
			indexPage: 10,
			vars:      map[string]any{"year": "2024", "monthnum": "03"},
			dateLink:  "https://example.com/articles/2024/03/",
		},
		{
			name:      "single post under its index page",
			target:    "/?p=20",
			status:    http.StatusOK,
			outcome:   "untouched",
			flags:     []string{"is_single", "is_singular"},
			title:     "First Article",
			indexPage: 10,
			menuClass: links.ClassCurrentPageParent,
		},
		{
			name:      "custom taxonomy term page",
			target:    "/music/",
			status:    http.StatusOK,
			outcome:   "rewritten",
			flags:     []string{"is_archive", "is_tax"},
			title:     "Jazz",
			indexPage: 13,
		},
		{
			name:      "category term page",
			target:    "/updates/",
			status:    http.StatusOK,
			outcome:   "rewritten",
			flags:     []string{"is_archive", "is_category"},
			title:     "News",
			indexPage: 14,
			vars:      map[string]any{"cat": float64(5)},
		},
		{
			name:    "plain page",
			target:  "/about/press/",
			status:  http.StatusOK,
			outcome: "untouched",
			flags:   []string{"is_page", "is_singular"},
			title:   "Press",
			vars:    map[string]any{"pagename": "about/press"},
		},
		{
			name:      "home",
			target:    "/",
			status:    http.StatusOK,
			outcome:   "untouched",
			flags:     []string{"is_home"},
			title:     "Blog",
			indexPage: 17,
			archive:   "https://example.com/blog/",
		},
		{
			name:    "missing page",
			target:  "/nope/",
			status:  http.StatusNotFound,
			outcome: "untouched",
			flags:   []string{"is_page", "is_singular"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, r, tt.target)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			var view struct {
				Outcome   string          `json:"outcome"`
				Vars      map[string]any  `json:"vars"`
				Flags     map[string]bool `json:"flags"`
				IndexPage *IndexPageView  `json:"index_page"`
				Title     string          `json:"title"`
				Archive   string          `json:"archive_link"`
				DateLink  string           `json:"date_link"`
				Menu      []links.MenuItem `json:"menu"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))

			assert.Equal(t, tt.outcome, view.Outcome)
			assert.Equal(t, tt.title, view.Title)
			assert.Len(t, view.Flags, len(tt.flags))
			for _, flag := range tt.flags {
				assert.True(t, view.Flags[flag], flag)
			}
			if tt.indexPage == 0 {
				assert.Nil(t, view.IndexPage)
			} else {
				require.NotNil(t, view.IndexPage)
				assert.Equal(t, tt.indexPage, view.IndexPage.ID)
			}
			for key, want := range tt.vars {
				assert.Equal(t, want, view.Vars[key], key)
			}
			if tt.archive != "" {
				assert.Equal(t, tt.archive, view.Archive)
			}
			assert.Equal(t, tt.dateLink, view.DateLink)

			class := tt.menuClass
			if class == "" {
				class = links.ClassCurrentMenuItem
			}
			require.NotEmpty(t, view.Menu)
			for _, item := range view.Menu {
				if tt.indexPage != 0 && item.ObjectID == tt.indexPage {
					assert.Equal(t, []string{class}, item.Classes, "menu item %d", item.ObjectID)
				} else {
					assert.Empty(t, item.Classes, "menu item %d", item.ObjectID)
				}
			}
		})
	}
}

func TestRouter_FrontLiveSelectorWins(t *testing.T) {
	rec := get(t, setupRouter(t), "/updates/?cat=9")
	require.Equal(t, http.StatusNotFound, rec.Code)

	view := decode[map[string]any](t, rec)
	assert.Equal(t, "rewritten", view["outcome"])
	assert.Equal(t, "9", view["vars"].(map[string]any)["cat"])
	assert.Equal(t, true, view["flags"].(map[string]any)["is_category"])
}
