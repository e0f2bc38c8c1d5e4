// Package frontmatter extracts the metadata header of a Markdown
// document. Two dialects are recognized: the heading-style header
// (title line, optional byline and publication line, separator) and a
// fenced YAML block. Recognition is all-or-nothing; a header that does
// not fully match leaves the document untouched.
package frontmatter

import (
	"regexp"
	"strings"

	fm "github.com/adrg/frontmatter"
)

// FrontMatter holds the metadata of a recognized document header.
type FrontMatter struct {
	Title      string
	Author     string
	Published  string
	SourceName string
	SourceURL  string
}

// Header line patterns. Matching is explicit and line-anchored.
var (
	titleRe     = regexp.MustCompile(`^# (.+)$`)
	bylineRe    = regexp.MustCompile(`^By (.+)$`)
	sourceRe    = regexp.MustCompile(`on \[([^\]]+)\]\(([^)]+)\)`)
	separatorRe = regexp.MustCompile(`^-{3,}$`)
)

const (
	publishedPrefix = "Published:"
	wordCountPrefix = "Word count:"
)

// Extract splits a document into its front-matter record and body.
// When no header is recognized it returns nil and the document
// unchanged, so callers can always publish what they were given.
func Extract(doc string) (*FrontMatter, string) {
	if firstLine(doc) == "---" {
		return extractYAML(doc)
	}

	return extractHeading(doc)
}

// extractHeading parses the heading-style header. The first non-blank
// line must be a level-one heading; after it, bylines, publication
// lines, word-count lines and blank lines may appear in any order
// until a separator of three or more hyphens ends the header. Any
// other line abandons the whole interpretation.
func extractHeading(doc string) (*FrontMatter, string) {
	lines := strings.Split(doc, "\n")

	meta := &FrontMatter{}
	sawTitle := false
	bodyStart := -1

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			continue
		}

		if !sawTitle {
			m := titleRe.FindStringSubmatch(trimmed)
			if m == nil {
				return nil, doc
			}

			meta.Title = strings.TrimSpace(m[1])
			sawTitle = true

			continue
		}

		if separatorRe.MatchString(trimmed) {
			bodyStart = i + 1
			break
		}

		switch {
		case titleRe.MatchString(trimmed):
			meta.Title = strings.TrimSpace(titleRe.FindStringSubmatch(trimmed)[1])
		case bylineRe.MatchString(trimmed):
			meta.Author = strings.TrimSpace(bylineRe.FindStringSubmatch(trimmed)[1])
		case strings.HasPrefix(trimmed, publishedPrefix):
			meta.Published = strings.TrimSpace(strings.TrimPrefix(trimmed, publishedPrefix))

			if m := sourceRe.FindStringSubmatch(trimmed); m != nil {
				meta.SourceName = m[1]
				meta.SourceURL = m[2]
			}
		case strings.HasPrefix(trimmed, wordCountPrefix):
			// Recognized so the header stays intact, never retained.
		default:
			return nil, doc
		}
	}

	if bodyStart < 0 {
		return nil, doc
	}

	body := strings.Join(lines[bodyStart:], "\n")

	return meta, strings.TrimSpace(body)
}

// yamlHeader is the fenced-block dialect of the same record.
type yamlHeader struct {
	Title      string `yaml:"title"`
	Author     string `yaml:"author"`
	Published  string `yaml:"published"`
	SourceName string `yaml:"source_name"`
	SourceURL  string `yaml:"source_url"`
}

func extractYAML(doc string) (*FrontMatter, string) {
	var header yamlHeader

	body, err := fm.Parse(strings.NewReader(doc), &header)
	if err != nil {
		return nil, doc
	}

	meta := &FrontMatter{
		Title:      header.Title,
		Author:     header.Author,
		Published:  header.Published,
		SourceName: header.SourceName,
		SourceURL:  header.SourceURL,
	}

	return meta, strings.TrimSpace(string(body))
}

// DocumentTitle returns the text of a leading level-one heading, or ""
// when the document opens with anything else. Used as a title fallback
// after front-matter.
func DocumentTitle(doc string) string {
	if m := titleRe.FindStringSubmatch(firstLine(strings.TrimSpace(doc))); m != nil {
		return strings.TrimSpace(m[1])
	}

	return ""
}

func firstLine(doc string) string {
	first, _, _ := strings.Cut(doc, "\n")

	return strings.TrimRight(first, "\r")
}
