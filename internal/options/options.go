// Package options provides read access (and, for outer surfaces, write
// access) to the flat key/value option rows that persist index page
// bindings.
//
// Row layout:
//
//	page_for_posts            -> page id bound to the built-in "post" type
//	page_for_{type}_posts     -> page id bound to a custom post type
//	page_for_term_{term id}   -> page id bound to a term
//	index_pages_taxonomies    -> list of taxonomies opted into term pages
package options

import (
	"context"
	"errors"
)

// ErrNotFound is returned by writers asked to delete a missing row
var ErrNotFound = errors.New("option not found")

// Option is a single stored row
type Option struct {
	Name  string `json:"name" dynamodbav:"option_name"`
	Value string `json:"value" dynamodbav:"option_value"`
}

// Store reads option rows. A missing row is reported with ok == false,
// never as an error.
type Store interface {
	// Get returns the value of a single row
	Get(ctx context.Context, name string) (value string, ok bool, err error)

	// Scan returns every row whose name starts with prefix, sorted by name
	Scan(ctx context.Context, prefix string) ([]Option, error)
}

// Writer mutates option rows. The index-page core never writes; writers
// are used by settings surfaces such as the CLI.
type Writer interface {
	Set(ctx context.Context, name, value string) error
	Delete(ctx context.Context, name string) error
}

// ReadWriter is a Store that can also write
type ReadWriter interface {
	Store
	Writer
}
