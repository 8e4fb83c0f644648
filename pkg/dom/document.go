package dom

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ContentMode selects what an element without a value property resolves to.
type ContentMode int

const (
	// ContentMarkup resolves to the element's inner HTML.
	ContentMarkup ContentMode = iota
	// ContentText resolves to the element's text with markup stripped.
	ContentText
)

// ParseContentMode maps configuration text onto a ContentMode.
func ParseContentMode(raw string) (ContentMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "markup", "html":
		return ContentMarkup, nil
	case "text":
		return ContentText, nil
	default:
		return ContentMarkup, fmt.Errorf("dom: unknown content mode %q", raw)
	}
}

// Document is a parsed HTML tree plus the live values assigned to its
// elements after parsing.
type Document struct {
	root *html.Node
	mode ContentMode

	mu       sync.RWMutex
	assigned map[*html.Node]string
}

// Option configures a Document.
type Option func(*Document)

// WithContentMode sets the fallback used for elements without a value.
func WithContentMode(mode ContentMode) Option {
	return func(d *Document) {
		d.mode = mode
	}
}

// Parse reads an HTML document.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	if r == nil {
		return nil, errors.New("dom: reader is nil")
	}
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	doc := &Document{
		root:     root,
		assigned: make(map[*html.Node]string),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(doc)
	}
	return doc, nil
}

// ParseString is Parse over a string.
func ParseString(markup string, opts ...Option) (*Document, error) {
	return Parse(strings.NewReader(markup), opts...)
}

// ElementsByClass returns every element whose class list contains name, in
// document order.
func (d *Document) ElementsByClass(name string) []*Element {
	if d == nil || d.root == nil || strings.TrimSpace(name) == "" {
		return nil
	}
	var out []*Element
	walk(d.root, func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, name) {
			out = append(out, d.wrap(n))
		}
	})
	return out
}

// Elements returns every element with the given tag name, in document order.
func (d *Document) Elements(tag string) []*Element {
	if d == nil || d.root == nil {
		return nil
	}
	tag = strings.ToLower(tag)
	var out []*Element
	walk(d.root, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, d.wrap(n))
		}
	})
	return out
}

// Render writes the document markup. Assigned values are not reflected.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func (d *Document) wrap(n *html.Node) *Element {
	return &Element{doc: d, node: n}
}

func (d *Document) assignedValue(n *html.Node) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.assigned[n]
	return v, ok
}

func (d *Document) assign(n *html.Node, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.assigned[n] = value
}

// walk visits n and its descendants depth first in document order.
func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func hasClass(n *html.Node, name string) bool {
	raw, ok := attr(n, "class")
	if !ok {
		return false
	}
	for _, token := range strings.FieldsFunc(raw, isASCIISpace) {
		if token == name {
			return true
		}
	}
	return false
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

// isFormControl lists the elements that expose a value property.
func isFormControl(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Input, atom.Textarea, atom.Select, atom.Button, atom.Option,
		atom.Output, atom.Data, atom.Param, atom.Li, atom.Meter, atom.Progress:
		return true
	}
	return false
}
