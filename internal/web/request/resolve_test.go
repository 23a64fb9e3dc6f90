package request

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dougwollison/index-pages/internal/query"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   query.Vars
	}{
		{
			name:   "root",
			target: "/",
			want:   query.Vars{},
		},
		{
			name:   "page",
			target: "/events/",
			want:   query.Vars{"pagename": "events", "page": ""},
		},
		{
			name:   "child page",
			target: "/about/press",
			want:   query.Vars{"pagename": "about/press", "page": ""},
		},
		{
			name:   "paged",
			target: "/events/page/3/",
			want:   query.Vars{"pagename": "events", "paged": "3"},
		},
		{
			name:   "date suffix stays in pagename",
			target: "/events/2024/03/",
			want:   query.Vars{"pagename": "events/2024", "page": "03"},
		},
		{
			name:   "query string wins",
			target: "/events/page/3/?paged=4&year=2024",
			want:   query.Vars{"pagename": "events", "paged": "4", "year": "2024"},
		},
		{
			name:   "query string only on root",
			target: "/?post_type=event",
			want:   query.Vars{"post_type": "event"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Resolve(httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, tt.want, req.Vars)
		})
	}
}

func TestResolvePath_NilVars(t *testing.T) {
	req := ResolvePath("/music", nil)
	assert.Equal(t, "/music", req.Path)
	assert.Equal(t, "music", req.Vars[query.VarPageName])
}
