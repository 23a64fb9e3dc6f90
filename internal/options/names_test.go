package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostTypeOption(t *testing.T) {
	assert.Equal(t, "page_for_posts", PostTypeOption("post"))
	assert.Equal(t, "page_for_article_posts", PostTypeOption("article"))
	assert.Equal(t, "page_for_tribe_events_posts", PostTypeOption("tribe_events"))
}

func TestParsePostTypeOption(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"custom type", "page_for_article_posts", "article", true},
		{"underscored type", "page_for_tribe_events_posts", "tribe_events", true},
		{"built-in row", "page_for_posts", "", false},
		{"term row", "page_for_term_5", "", false},
		{"unrelated", "blogname", "", false},
		{"missing suffix", "page_for_article", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postType, ok := ParsePostTypeOption(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, postType)
		})
	}
}

func TestTermOptionRoundTrip(t *testing.T) {
	assert.Equal(t, "page_for_term_12", TermOption(12))

	id, ok := ParseTermOption(TermOption(12))
	assert.True(t, ok)
	assert.Equal(t, 12, id)

	_, ok = ParseTermOption("page_for_term_abc")
	assert.False(t, ok)
	_, ok = ParseTermOption("page_for_term_0")
	assert.False(t, ok)
	_, ok = ParseTermOption("page_for_posts")
	assert.False(t, ok)
}

func TestParsePageID(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"42", 42},
		{" 42", 42},
		{"42abc", 42},
		{"-3", -3},
		{"+7", 7},
		{"", 0},
		{"abc", 0},
		{"0", 0},
		{"-", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParsePageID(tt.input))
		})
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", nil},
		{"json", `["category","genre"]`, []string{"category", "genre"}},
		{"json duplicates", `["genre","genre"," post_tag "]`, []string{"genre", "post_tag"}},
		{"invalid json", `["genre"`, nil},
		{"serialized", `a:2:{i:0;s:8:"category";i:1;s:5:"genre";}`, []string{"category", "genre"}},
		{"comma list", "category, genre,,", []string{"category", "genre"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseList(tt.input))
		})
	}
}

func TestEncodeList(t *testing.T) {
	assert.Equal(t, "[]", EncodeList(nil))
	assert.Equal(t, `["genre","category"]`, EncodeList([]string{"genre", "category", "genre"}))
	assert.Equal(t, []string{"genre", "category"}, ParseList(EncodeList([]string{"genre", "category"})))
}
