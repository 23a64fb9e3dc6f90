// Package query models request query variables and the classification
// flags derived from them.
package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Query variable names used by the index page rewrite
const (
	VarPageName  = "pagename"
	VarPage      = "page"
	VarName      = "name"
	VarPostType  = "post_type"
	VarIndexPage = "index_page"
	VarYear      = "year"
	VarMonthNum  = "monthnum"
	VarDay       = "day"
	VarPaged     = "paged"
	VarCat       = "cat"
	VarCatName   = "category_name"
	VarTagID     = "tag_id"
	VarTag       = "tag"
	VarTaxQuery  = "tax_query"
)

// TaxClause selects posts by terms of one taxonomy
type TaxClause struct {
	Taxonomy string `json:"taxonomy"`
	Field    string `json:"field"`
	Terms    []int  `json:"terms"`
}

// Vars is a mutable set of query variables. Values are strings, ints,
// string slices (multiple post types) or []TaxClause.
type Vars map[string]any

// Has reports whether the key is set at all, even to an empty value
func (v Vars) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// String returns the value as a string; slices are comma joined
func (v Vars) String(key string) string {
	switch val := v[key].(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case []string:
		return strings.Join(val, ",")
	default:
		return fmt.Sprint(val)
	}
}

// Int returns the value as an int, or 0 when it is not numeric
func (v Vars) Int(key string) int {
	switch val := v[key].(type) {
	case int:
		return val
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// Empty reports whether the value is missing or blank. "0" and 0 are
// blank, as are empty slices.
func (v Vars) Empty(key string) bool {
	switch val := v[key].(type) {
	case nil:
		return true
	case string:
		return val == "" || val == "0"
	case int:
		return val == 0
	case bool:
		return !val
	case []string:
		return len(val) == 0
	case []TaxClause:
		return len(val) == 0
	default:
		return false
	}
}

// PostTypes returns the requested post types
func (v Vars) PostTypes() []string {
	switch val := v[VarPostType].(type) {
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	case []string:
		return append([]string(nil), val...)
	default:
		return nil
	}
}

// TaxQuery returns the taxonomy clauses, if any
func (v Vars) TaxQuery() []TaxClause {
	clauses, _ := v[VarTaxQuery].([]TaxClause)
	return clauses
}

// Clone returns a shallow copy. Slice values are copied too.
func (v Vars) Clone() Vars {
	out := make(Vars, len(v))
	for key, val := range v {
		switch s := val.(type) {
		case []string:
			out[key] = append([]string(nil), s...)
		case []TaxClause:
			out[key] = append([]TaxClause(nil), s...)
		default:
			out[key] = val
		}
	}
	return out
}

// Merge sets every key of other on v; keys of other win
func (v Vars) Merge(other Vars) Vars {
	for key, val := range other {
		v[key] = val
	}
	return v
}
