package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatError(t *testing.T) {
	out := FormatError(ErrorOptions{
		Context:      "post type not found",
		Problem:      "Cannot find post type 'evnt'.",
		Consequence:  "Nothing was bound.",
		Suggestions:  []string{"event"},
		HelpCommands: []string{"indexpages lookup bindings"},
		NoColor:      true,
	})

	assert.Equal(t, "❌ POST TYPE NOT FOUND: Cannot find post type 'evnt'.\n"+
		"\n   Nothing was bound.\n"+
		"\n   Did you mean: event?\n"+
		"\n   → indexpages lookup bindings\n", out)
}

func TestFormatError_Levels(t *testing.T) {
	assert.Equal(t, "⚠️ careful\n", Warning("careful", true))
	assert.Equal(t, "ℹ️ note\n", FormatError(ErrorOptions{Level: ErrorLevelInfo, Problem: "note", NoColor: true}))
}

func TestNotFoundError(t *testing.T) {
	out := NotFoundError("post type", "evnt", []string{"article", "event", "product"}, true)
	assert.Contains(t, out, "POST TYPE NOT FOUND")
	assert.Contains(t, out, "Did you mean: event?")
}

func TestStorageAndConfigErrors(t *testing.T) {
	assert.Contains(t, StorageError("connection refused", true), "No bindings were changed.")
	assert.Contains(t, ConfigError("bad driver", true), "cat indexpages.yml")
}

func TestWriteSuccess(t *testing.T) {
	var buf bytes.Buffer
	WriteSuccess(&buf, "bound", true)
	assert.Equal(t, "✓ bound\n", buf.String())
}

func TestSuggest(t *testing.T) {
	candidates := []string{"article", "event", "events", "product", "post"}

	assert.Equal(t, []string{"event", "events"}, Suggest("evnt", candidates))
	assert.Equal(t, []string{"event"}, Suggest("Events", []string{"event", "article"}))
	assert.Empty(t, Suggest("zzzzzzzz", candidates))
	assert.Empty(t, Suggest("post", []string{"post"}))
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"post", "post", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevenshteinDistance(tt.a, tt.b), tt.a+"/"+tt.b)
	}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"POST TYPE", "PAGE"}, true)
	table.AddRow("article", "10")
	table.AddRow("post", "17")
	table.Render()

	assert.Equal(t, "POST TYPE  PAGE\n"+
		"─────────  ────\n"+
		"article    10\n"+
		"post       17\n", buf.String())
}

func TestKeyValueTable(t *testing.T) {
	var buf bytes.Buffer
	kv := NewKeyValueTable(&buf, true)
	kv.AddRow("page", "10")
	kv.AddRow("post type", "article")
	kv.Render()

	assert.Equal(t, "page:      10\npost type: article\n", buf.String())
}
