// Package telegraph provides client functionality for the Telegraph
// publishing API (telegra.ph).
package telegraph

import (
	"encoding/json"
	"fmt"
)

// SupportedTags is the closed set of element tags Telegraph accepts.
var SupportedTags = map[string]bool{
	"a": true, "aside": true, "b": true, "blockquote": true, "br": true,
	"code": true, "em": true, "figcaption": true, "figure": true,
	"h3": true, "h4": true, "hr": true, "i": true, "iframe": true,
	"img": true, "li": true, "ol": true, "p": true, "pre": true,
	"s": true, "strong": true, "u": true, "ul": true, "video": true,
}

// Node is one item of page content: either a Text literal or an
// Element. The set is closed; nothing else satisfies it.
type Node interface {
	node()
}

// Text is a literal text node. It encodes as a bare JSON string.
type Text string

func (Text) node() {}

// MarshalJSON encodes the text as a plain JSON string.
func (t Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

// Element is a tagged node with optional attributes and children.
type Element struct {
	Tag      string            `json:"tag"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []Node            `json:"children,omitempty"`
}

func (Element) node() {}

// NewElement returns an element node with the given children.
func NewElement(tag string, children ...Node) Element {
	return Element{Tag: tag, Children: children}
}

// NewLink returns an anchor element wrapping the given children.
func NewLink(href string, children ...Node) Element {
	return Element{
		Tag:      "a",
		Attrs:    map[string]string{"href": href},
		Children: children,
	}
}

// MarshalContent encodes a node sequence as the JSON array the API's
// content field carries.
func MarshalContent(nodes []Node) (string, error) {
	data, err := json.Marshal(nodes)
	if err != nil {
		return "", fmt.Errorf("failed to encode content: %w", err)
	}

	return string(data), nil
}

// ContentSize returns the byte length of the encoded content, the
// measure the API's page size limit applies to.
func ContentSize(nodes []Node) (int, error) {
	content, err := MarshalContent(nodes)
	if err != nil {
		return 0, err
	}

	return len(content), nil
}
