package options

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Option names and prefixes used for index page bindings
const (
	PageForPosts     = "page_for_posts"
	SupportedTaxList = "index_pages_taxonomies"

	BindingPrefix  = "page_for_"
	postTypeSuffix = "_posts"
	termPrefix     = "page_for_term_"
)

// PostTypeOption returns the option name binding a page to a post type
func PostTypeOption(postType string) string {
	if postType == "post" {
		return PageForPosts
	}
	return BindingPrefix + postType + postTypeSuffix
}

// TermOption returns the option name binding a page to a term
func TermOption(termID int) string {
	return termPrefix + strconv.Itoa(termID)
}

// ParsePostTypeOption extracts the post type from a page_for_{type}_posts
// name. The built-in page_for_posts row does not match.
func ParsePostTypeOption(name string) (string, bool) {
	if len(name) <= len(BindingPrefix)+len(postTypeSuffix) {
		return "", false
	}
	if !strings.HasPrefix(name, BindingPrefix) || !strings.HasSuffix(name, postTypeSuffix) {
		return "", false
	}
	return name[len(BindingPrefix) : len(name)-len(postTypeSuffix)], true
}

// ParseTermOption extracts the term id from a page_for_term_{id} name
func ParseTermOption(name string) (int, bool) {
	if !strings.HasPrefix(name, termPrefix) {
		return 0, false
	}
	id, err := strconv.Atoi(name[len(termPrefix):])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ParsePageID converts a stored value to a page id the way a lenient
// integer cast would: leading whitespace and sign, then digits, anything
// else ends the number. Values that do not start with a number yield 0.
func ParsePageID(value string) int {
	s := strings.TrimLeft(value, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	id, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return id
}

var serializedString = regexp.MustCompile(`s:\d+:"([^"]*)";`)

// ParseList decodes a stored list of identifiers. JSON arrays are the
// native encoding; PHP-serialized arrays and comma separated lists from
// migrated sites are accepted too.
func ParseList(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	if strings.HasPrefix(value, "[") {
		var list []string
		if err := json.Unmarshal([]byte(value), &list); err == nil {
			return compact(list)
		}
		return nil
	}

	if strings.HasPrefix(value, "a:") {
		var list []string
		for _, m := range serializedString.FindAllStringSubmatch(value, -1) {
			list = append(list, m[1])
		}
		return compact(list)
	}

	return compact(strings.Split(value, ","))
}

// EncodeList encodes a list of identifiers for storage
func EncodeList(list []string) string {
	if list == nil {
		list = []string{}
	}
	data, _ := json.Marshal(compact(list))
	return string(data)
}

func compact(list []string) []string {
	result := make([]string, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, item := range list {
		item = strings.TrimSpace(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		result = append(result, item)
	}
	return result
}
