// Package request turns an HTTP request into the query vars of a page
// request, the way the platform's rewrite rules would.
package request

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/dougwollison/index-pages/internal/matcher"
	"github.com/dougwollison/index-pages/internal/query"
)

// Rule is a rewrite rule. Vars names the var each capture group sets.
type Rule struct {
	Pattern *regexp.Regexp
	Vars    []string
}

// PageRules are the catch-all page rules, tried in order. They are the
// last rules of a site using "/%postname%/" permalinks.
var PageRules = []Rule{
	{
		Pattern: regexp.MustCompile(`^(.?.+?)/page/?([0-9]{1,})/?$`),
		Vars:    []string{query.VarPageName, query.VarPaged},
	},
	{
		Pattern: regexp.MustCompile(`^(.?.+?)(?:/([0-9]+))?/?$`),
		Vars:    []string{query.VarPageName, query.VarPage},
	},
}

// Resolve builds the matcher request for r. Public vars from the query
// string win over vars set by a rule. The site root matches no rule.
func Resolve(r *http.Request) *matcher.Request {
	return ResolvePath(r.URL.Path, query.FromURL(r.URL.Query()))
}

// ResolvePath applies PageRules to path and adds the captured vars to
// vars where they are not already set.
func ResolvePath(path string, vars query.Vars) *matcher.Request {
	if vars == nil {
		vars = make(query.Vars)
	}

	trimmed := strings.TrimLeft(path, "/")
	if trimmed == "" {
		return &matcher.Request{Path: path, Vars: vars}
	}

	for _, rule := range PageRules {
		m := rule.Pattern.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		for i, name := range rule.Vars {
			if _, set := vars[name]; !set && i+1 < len(m) {
				vars[name] = m[i+1]
			}
		}
		break
	}

	return &matcher.Request{Path: path, Vars: vars}
}
