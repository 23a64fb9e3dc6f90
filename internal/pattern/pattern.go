// Package pattern compiles trees of named capture groups into the regular
// expression used to split a page request path into its page path and
// trailing date and pagination segments.
package pattern

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

const (
	// Anchor is prepended to every compiled expression
	Anchor = "^"

	// Suffix is appended to every compiled expression: an optional
	// trailing slash, then the end of the path.
	Suffix = "/?$"

	placeholder = "%s"
)

// ErrInvalidGroup is wrapped by every GroupError
var ErrInvalidGroup = errors.New("invalid regex group")

// GroupError describes a group that cannot be compiled
type GroupError struct {
	Name   string
	Reason string
}

func (e *GroupError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidGroup, e.Reason)
	}
	return fmt.Sprintf("%s %q: %s", ErrInvalidGroup, e.Name, e.Reason)
}

func (e *GroupError) Unwrap() error {
	return ErrInvalidGroup
}

// Group is a named capture group. Subgroups are compiled right after the
// group's own pattern, inside the same wrapper, so a whole subtree can be
// made optional at once.
type Group struct {
	// Name is the capture name and, when matched, the query var it sets
	Name string

	// Pattern is the content of the capture group
	Pattern string

	// Subgroups follow Pattern inside the wrapper
	Subgroups []Group

	// Wrapper embeds the group and its subgroups, e.g. "/%s"
	Wrapper string

	// Optional makes the wrapped unit optional
	Optional bool
}

// DefaultGroups returns the page path, date and pagination groups:
// pagename, then year/monthnum/day nested under each other, then paged.
func DefaultGroups() []Group {
	return []Group{
		{
			Name:    "pagename",
			Pattern: ".+?",
		},
		{
			Name:     "year",
			Pattern:  "[0-9]{4}",
			Wrapper:  "/%s",
			Optional: true,
			Subgroups: []Group{
				{
					Name:     "monthnum",
					Pattern:  "[0-9]{2}",
					Wrapper:  "/%s",
					Optional: true,
					Subgroups: []Group{
						{
							Name:     "day",
							Pattern:  "[0-9]{2}",
							Wrapper:  "/%s",
							Optional: true,
						},
					},
				},
			},
		},
		{
			Name:     "paged",
			Pattern:  "[0-9]+",
			Wrapper:  "/page/%s",
			Optional: true,
		},
	}
}

// Compile renders groups depth-first into a single pattern. It does not
// add Anchor or Suffix.
func Compile(groups []Group) string {
	var b strings.Builder
	for _, g := range groups {
		b.WriteString(compileGroup(g))
	}
	return b.String()
}

func compileGroup(g Group) string {
	p := "(?P<" + g.Name + ">" + g.Pattern + ")"
	p += Compile(g.Subgroups)

	if g.Wrapper != "" {
		p = "(?:" + strings.Replace(g.Wrapper, placeholder, p, 1) + ")"
	}
	if g.Optional {
		p += "?"
	}
	return p
}

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks group names and wrappers across the whole tree, then
// checks that the compiled expression is accepted by the regexp package.
func Validate(groups []Group) error {
	seen := make(map[string]bool)
	if err := validate(groups, seen); err != nil {
		return err
	}
	if _, err := regexp.Compile(Anchor + Compile(groups) + Suffix); err != nil {
		return &GroupError{Reason: err.Error()}
	}
	return nil
}

func validate(groups []Group, seen map[string]bool) error {
	for _, g := range groups {
		switch {
		case g.Name == "":
			return &GroupError{Reason: "empty name"}
		case !namePattern.MatchString(g.Name):
			return &GroupError{Name: g.Name, Reason: "name must be a valid identifier"}
		case seen[g.Name]:
			return &GroupError{Name: g.Name, Reason: "duplicate name"}
		case g.Wrapper != "" && !strings.Contains(g.Wrapper, placeholder):
			return &GroupError{Name: g.Name, Reason: "wrapper has no %s placeholder"}
		}
		seen[g.Name] = true

		if err := validate(g.Subgroups, seen); err != nil {
			return err
		}
	}
	return nil
}

// MaxCachedExpressions bounds the compiled expression cache. Group
// filters may build different groups per request; once the cache is full
// it is emptied before the next expression is stored.
const MaxCachedExpressions = 128

var cache = struct {
	sync.RWMutex
	entries map[string]*regexp.Regexp
}{entries: make(map[string]*regexp.Regexp)}

// Regexp validates groups and returns the anchored expression for them.
// Expressions are cached by source, so repeated requests with the same
// groups compile once.
func Regexp(groups []Group) (*regexp.Regexp, error) {
	source := Anchor + Compile(groups) + Suffix

	cache.RLock()
	re, ok := cache.entries[source]
	cache.RUnlock()
	if ok {
		return re, nil
	}

	if err := Validate(groups); err != nil {
		return nil, err
	}
	re = regexp.MustCompile(source)

	cache.Lock()
	defer cache.Unlock()
	if cached, ok := cache.entries[source]; ok {
		return cached, nil
	}
	if len(cache.entries) >= MaxCachedExpressions {
		clear(cache.entries)
	}
	cache.entries[source] = re
	return re, nil
}

func cachedExpressions() int {
	cache.RLock()
	defer cache.RUnlock()
	return len(cache.entries)
}
