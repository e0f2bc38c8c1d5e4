package frontmatter

import (
	"testing"
)

const fullHeaderDoc = `# The Quiet Machine

By Ada Example

Published: March 4, 2024 on [The Example Times](https://example.com/quiet-machine)

Word count: 1,204

---

First paragraph of the body.

Second paragraph.`

func TestExtract_FullHeader(t *testing.T) {
	meta, body := Extract(fullHeaderDoc)
	if meta == nil {
		t.Fatal("Expected front matter, got nil")
	}

	if meta.Title != "The Quiet Machine" {
		t.Errorf("Expected title 'The Quiet Machine', got '%s'", meta.Title)
	}

	if meta.Author != "Ada Example" {
		t.Errorf("Expected author 'Ada Example', got '%s'", meta.Author)
	}

	if meta.SourceName != "The Example Times" {
		t.Errorf("Expected source name 'The Example Times', got '%s'", meta.SourceName)
	}

	if meta.SourceURL != "https://example.com/quiet-machine" {
		t.Errorf("Expected source URL, got '%s'", meta.SourceURL)
	}

	expectedBody := "First paragraph of the body.\n\nSecond paragraph."
	if body != expectedBody {
		t.Errorf("Expected body %q, got %q", expectedBody, body)
	}
}

func TestExtract_PublishedLineRetained(t *testing.T) {
	meta, _ := Extract(fullHeaderDoc)
	if meta == nil {
		t.Fatal("Expected front matter, got nil")
	}

	expected := "March 4, 2024 on [The Example Times](https://example.com/quiet-machine)"
	if meta.Published != expected {
		t.Errorf("Expected published line %q, got %q", expected, meta.Published)
	}
}

func TestExtract_TitleOnly(t *testing.T) {
	doc := "# Just a Title\n---\nBody text."

	meta, body := Extract(doc)
	if meta == nil {
		t.Fatal("Expected front matter, got nil")
	}

	if meta.Title != "Just a Title" {
		t.Errorf("Expected title 'Just a Title', got '%s'", meta.Title)
	}

	if meta.Author != "" {
		t.Errorf("Expected empty author, got '%s'", meta.Author)
	}

	if body != "Body text." {
		t.Errorf("Expected body 'Body text.', got %q", body)
	}
}

func TestExtract_NoSeparator(t *testing.T) {
	// Identical to a valid header except the separator is missing:
	// the whole document must come back untouched.
	doc := "# The Quiet Machine\n\nBy Ada Example\n\nFirst paragraph."

	meta, body := Extract(doc)
	if meta != nil {
		t.Fatalf("Expected no front matter, got %+v", meta)
	}

	if body != doc {
		t.Errorf("Expected unchanged document, got %q", body)
	}
}

func TestExtract_FirstLineNotTitle(t *testing.T) {
	doc := "Just some text\n# A Heading Later\n---\nBody."

	meta, body := Extract(doc)
	if meta != nil {
		t.Fatalf("Expected no front matter, got %+v", meta)
	}

	if body != doc {
		t.Errorf("Expected unchanged document, got %q", body)
	}
}

func TestExtract_UnrecognizedLineAbandons(t *testing.T) {
	doc := "# Title\nBy Author\nSomething unexpected\n---\nBody."

	meta, body := Extract(doc)
	if meta != nil {
		t.Fatalf("Expected no front matter, got %+v", meta)
	}

	if body != doc {
		t.Errorf("Expected unchanged document, got %q", body)
	}
}

func TestExtract_PublishedWithoutColonAbandons(t *testing.T) {
	// The publication marker is the literal "Published:"; without the
	// colon the line is unrecognized and the whole header is abandoned.
	doc := "# Title\n\nBy Author\n\nPublished June 1, 2026 on [Times](https://example.com/a)\n\n---\n\nBody."

	meta, body := Extract(doc)
	if meta != nil {
		t.Fatalf("Expected no front matter, got %+v", meta)
	}

	if body != doc {
		t.Errorf("Expected unchanged document, got %q", body)
	}
}

func TestExtract_SecondaryHeadingAbandons(t *testing.T) {
	// "## Section" is not a title line; a normal document that opens
	// with an h1 and continues with sections keeps its full body.
	doc := "# Title\n## Section\n\nBody text."

	meta, body := Extract(doc)
	if meta != nil {
		t.Fatalf("Expected no front matter, got %+v", meta)
	}

	if body != doc {
		t.Errorf("Expected unchanged document, got %q", body)
	}
}

func TestExtract_DuplicateFieldsLastWins(t *testing.T) {
	doc := "# First Title\n# Second Title\nBy First Author\nBy Second Author\n---\nBody."

	meta, _ := Extract(doc)
	if meta == nil {
		t.Fatal("Expected front matter, got nil")
	}

	if meta.Title != "Second Title" {
		t.Errorf("Expected last title to win, got '%s'", meta.Title)
	}

	if meta.Author != "Second Author" {
		t.Errorf("Expected last author to win, got '%s'", meta.Author)
	}
}

func TestExtract_WordCountDiscarded(t *testing.T) {
	doc := "# Title\nWord count: 9,999\n---\nShort body."

	meta, body := Extract(doc)
	if meta == nil {
		t.Fatal("Expected front matter, got nil")
	}

	if body != "Short body." {
		t.Errorf("Expected 'Short body.', got %q", body)
	}
}

func TestExtract_PublishedWithoutLink(t *testing.T) {
	doc := "# Title\nPublished: March 4, 2024\n---\nBody."

	meta, _ := Extract(doc)
	if meta == nil {
		t.Fatal("Expected front matter, got nil")
	}

	if meta.Published != "March 4, 2024" {
		t.Errorf("Expected published 'March 4, 2024', got '%s'", meta.Published)
	}

	if meta.SourceName != "" || meta.SourceURL != "" {
		t.Errorf("Expected no source, got name='%s' url='%s'", meta.SourceName, meta.SourceURL)
	}
}

func TestExtract_LongSeparator(t *testing.T) {
	doc := "# Title\n-------\nBody."

	meta, body := Extract(doc)
	if meta == nil {
		t.Fatal("Expected front matter with long separator, got nil")
	}

	if body != "Body." {
		t.Errorf("Expected 'Body.', got %q", body)
	}
}

func TestExtract_TwoHyphensIsNotSeparator(t *testing.T) {
	doc := "# Title\n--\nBody."

	meta, _ := Extract(doc)
	if meta != nil {
		t.Fatalf("Expected no front matter for two-hyphen line, got %+v", meta)
	}
}

func TestExtract_BlankLinesTolerated(t *testing.T) {
	doc := "# Title\n\n\nBy Author\n\n---\n\n\nBody text.\n\n"

	meta, body := Extract(doc)
	if meta == nil {
		t.Fatal("Expected front matter, got nil")
	}

	if meta.Author != "Author" {
		t.Errorf("Expected author 'Author', got '%s'", meta.Author)
	}

	if body != "Body text." {
		t.Errorf("Expected trimmed body, got %q", body)
	}
}

func TestExtract_EmptyDocument(t *testing.T) {
	meta, body := Extract("")
	if meta != nil {
		t.Fatalf("Expected no front matter for empty document, got %+v", meta)
	}

	if body != "" {
		t.Errorf("Expected empty body, got %q", body)
	}
}

func TestExtract_IndentedHeaderLines(t *testing.T) {
	doc := "  # Title  \n  By Author  \n---\nBody."

	meta, _ := Extract(doc)
	if meta == nil {
		t.Fatal("Expected front matter, got nil")
	}

	if meta.Title != "Title" {
		t.Errorf("Expected trimmed title, got '%s'", meta.Title)
	}

	if meta.Author != "Author" {
		t.Errorf("Expected trimmed author, got '%s'", meta.Author)
	}
}

// --- YAML dialect ---

func TestExtract_YAMLHeader(t *testing.T) {
	doc := `---
title: The Quiet Machine
author: Ada Example
source_name: The Example Times
source_url: https://example.com/quiet-machine
---
Body text.`

	meta, body := Extract(doc)
	if meta == nil {
		t.Fatal("Expected front matter, got nil")
	}

	if meta.Title != "The Quiet Machine" {
		t.Errorf("Expected title 'The Quiet Machine', got '%s'", meta.Title)
	}

	if meta.Author != "Ada Example" {
		t.Errorf("Expected author 'Ada Example', got '%s'", meta.Author)
	}

	if meta.SourceURL != "https://example.com/quiet-machine" {
		t.Errorf("Expected source URL, got '%s'", meta.SourceURL)
	}

	if body != "Body text." {
		t.Errorf("Expected 'Body text.', got %q", body)
	}
}

func TestExtract_BrokenYAMLFallsBack(t *testing.T) {
	doc := "---\ntitle: [unclosed\n---\nBody."

	meta, body := Extract(doc)
	if meta != nil {
		t.Fatalf("Expected no front matter for broken YAML, got %+v", meta)
	}

	if body != doc {
		t.Errorf("Expected unchanged document, got %q", body)
	}
}

// --- DocumentTitle ---

func TestDocumentTitle(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		expected string
	}{
		{"leading heading", "# My Title\n\nBody", "My Title"},
		{"leading blank lines skipped", "\n\n# My Title\nBody", "My Title"},
		{"heading after text ignored", "Intro text\n# Later Title\nBody", ""},
		{"no heading", "Just a paragraph.", ""},
		{"secondary heading only", "## Not a title\nBody", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DocumentTitle(tt.doc); got != tt.expected {
				t.Errorf("Expected title %q, got %q", tt.expected, got)
			}
		})
	}
}
