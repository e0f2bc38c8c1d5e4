// Package convert turns Markdown into Telegraph content nodes.
//
// Conversion runs in two stages: Markdown renders to HTML through
// goldmark, then the HTML tree folds into the closed Telegraph node
// vocabulary. Malformed inline markup never fails a conversion;
// unmatched markers simply survive as literal text.
package convert

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/whileseated/telegraph-markdown-uploader/internal/telegraph"
)

// Options controls a conversion.
type Options struct {
	// SourceName and SourceURL, when both set, prepend a leading
	// "via" paragraph linking back to the original article.
	SourceName string
	SourceURL  string
}

// engine renders Markdown the way the published documents expect:
// GitHub tables and strikethrough, definition lists, footnotes, hard
// line breaks, and raw HTML passed through for the node fold.
var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.DefinitionList,
		extension.Footnote,
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
		html.WithUnsafe(),
	),
)

// Convert renders a Markdown body into an ordered node sequence ready
// for publishing.
func Convert(body string, opts Options) ([]telegraph.Node, error) {
	nodes, err := MarkdownToNodes(body)
	if err != nil {
		return nil, err
	}

	if opts.SourceName != "" && opts.SourceURL != "" {
		nodes = append([]telegraph.Node{SourceLink(opts.SourceName, opts.SourceURL)}, nodes...)
	}

	return nodes, nil
}

// SourceLink builds the "via" attribution paragraph placed before
// sourced content.
func SourceLink(name, url string) telegraph.Node {
	return telegraph.NewElement("p",
		telegraph.Text("via "),
		telegraph.NewLink(url, telegraph.Text(name)),
	)
}

// MarkdownToNodes renders Markdown to HTML and folds the result into
// Telegraph nodes.
func MarkdownToNodes(md string) ([]telegraph.Node, error) {
	var buf bytes.Buffer
	if err := engine.Convert([]byte(md), &buf); err != nil {
		return nil, fmt.Errorf("failed to render markdown: %w", err)
	}

	return HTMLToNodes(buf.String())
}
