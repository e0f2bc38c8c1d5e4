package convert

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/whileseated/telegraph-markdown-uploader/internal/telegraph"
)

// tagMap folds HTML tags into the Telegraph vocabulary. h1 and h2
// clamp to h3, deeper headings to h4, because Telegraph reserves the
// top heading levels for the page title block.
var tagMap = map[string]string{
	"h1": "h3", "h2": "h3",
	"h3": "h4", "h4": "h4", "h5": "h4", "h6": "h4",
	"p":          "p",
	"a":          "a",
	"strong":     "strong",
	"b":          "strong",
	"em":         "em",
	"i":          "em",
	"u":          "u",
	"s":          "s",
	"strike":     "s",
	"del":        "s",
	"code":       "code",
	"pre":        "pre",
	"blockquote": "blockquote",
	"ul":         "ul",
	"ol":         "ol",
	"li":         "li",
	"br":         "br",
	"hr":         "hr",
	"img":        "img",
	"figure":     "figure",
	"figcaption": "figcaption",
	"aside":      "aside",
}

// HTMLToNodes folds an HTML fragment into Telegraph nodes, in document
// order. Elements outside the vocabulary are dropped but their content
// is kept in place.
func HTMLToNodes(fragment string) ([]telegraph.Node, error) {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	body := findBody(doc)
	if body == nil {
		return nil, nil
	}

	var nodes []telegraph.Node
	for child := body.FirstChild; child != nil; child = child.NextSibling {
		nodes = append(nodes, fold(child)...)
	}

	// Telegraph rejects loose top-level text, so stray text left over
	// from dropped wrappers gets its own paragraph.
	for i, n := range nodes {
		if text, ok := n.(telegraph.Text); ok {
			nodes[i] = telegraph.NewElement("p", text)
		}
	}

	return nodes, nil
}

// fold converts one HTML node into zero or more Telegraph nodes.
func fold(n *html.Node) []telegraph.Node {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return nil
		}

		return []telegraph.Node{telegraph.Text(n.Data)}
	case html.ElementNode:
		return foldElement(n)
	default:
		// Comments and doctypes carry nothing publishable.
		return nil
	}
}

func foldElement(n *html.Node) []telegraph.Node {
	if n.Data == "table" {
		if pre, ok := foldTable(n); ok {
			return []telegraph.Node{pre}
		}
	}

	var children []telegraph.Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		children = append(children, fold(child)...)
	}

	tag, ok := tagMap[n.Data]
	if !ok {
		if !telegraph.SupportedTags[n.Data] {
			// Unsupported wrapper: keep the content, drop the tag.
			return children
		}

		// Accepted tags with no Markdown spelling, such as iframe and
		// video in mirrored pages, pass through unrenamed.
		tag = n.Data
	}

	el := telegraph.Element{Tag: tag, Children: children}

	switch tag {
	case "a":
		if href := attrValue(n, "href"); href != "" {
			el.Attrs = map[string]string{"href": href}
		}
	case "img", "iframe", "video":
		if src := attrValue(n, "src"); src != "" {
			el.Attrs = map[string]string{"src": src}
		}
	}

	return []telegraph.Node{el}
}

func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}

	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if body := findBody(child); body != nil {
			return body
		}
	}

	return nil
}
