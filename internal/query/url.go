package query

import (
	"net/url"
	"strings"
)

// PublicVars are the query variables a visitor may set in the query string
var PublicVars = []string{
	"p", "page_id", VarPageName, VarName, VarPage, VarPostType,
	"m", VarYear, VarMonthNum, VarDay, VarPaged,
	VarCat, VarCatName, VarTagID, VarTag,
	"s", "author", "feed", "preview",
}

// FromURL extracts the public query variables from a query string.
// Repeated post_type values (or post_type[]) become a list.
// Example: ?post_type=article&paged=2 returns {"post_type": "article", "paged": "2"}
func FromURL(values url.Values) Vars {
	vars := make(Vars)

	for _, key := range PublicVars {
		list := append([]string(nil), values[key]...)
		if key == VarPostType {
			list = append(list, values[key+"[]"]...)
		}
		if len(list) == 0 {
			continue
		}

		if key == VarPostType && len(list) > 1 {
			types := make([]string, 0, len(list))
			for _, item := range list {
				if item = strings.TrimSpace(item); item != "" {
					types = append(types, item)
				}
			}
			vars[key] = types
			continue
		}
		vars[key] = strings.TrimSpace(list[0])
	}

	return vars
}
