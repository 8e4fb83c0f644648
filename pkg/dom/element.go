package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-formbind/pkg/request"
)

// Element is a handle on a node of a Document.
type Element struct {
	doc  *Document
	node *html.Node
}

// Node exposes the underlying node. Two handles refer to the same element when
// their nodes are equal.
func (e *Element) Node() *html.Node {
	return e.node
}

// Tag returns the lower-cased tag name.
func (e *Element) Tag() string {
	return e.node.Data
}

// Attr returns the attribute value and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	return attr(e.node, strings.ToLower(name))
}

// SetAttr sets or adds an attribute.
func (e *Element) SetAttr(name, value string) {
	name = strings.ToLower(name)
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// HasClass reports whether the class list contains name.
func (e *Element) HasClass(name string) bool {
	return hasClass(e.node, name)
}

// QueryAll returns the descendants carrying the attribute, in document order.
func (e *Element) QueryAll(attrName string) []*Element {
	attrName = strings.ToLower(attrName)
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		walk(c, func(n *html.Node) {
			if n.Type != html.ElementNode {
				return
			}
			if _, ok := attr(n, attrName); ok {
				out = append(out, e.doc.wrap(n))
			}
		})
	}
	return out
}

// InnerHTML serializes the element's children. Text keeps quotes as written
// and void elements carry no closing slash.
func (e *Element) InnerHTML() string {
	var b strings.Builder
	serializeChildren(&b, e.node)
	return b.String()
}

// TextContent concatenates the text of every descendant text node.
func (e *Element) TextContent() string {
	return textContent(e.node)
}

// SetValue assigns the element's live value, as a user edit or script would.
// It takes precedence over markup on every later read.
func (e *Element) SetValue(value string) {
	e.doc.assign(e.node, value)
}

// Value resolves the element's current value: its value property when it has
// one, otherwise its content.
func (e *Element) Value() request.Value {
	return request.FirstPresent(e.property(), e.content())
}

func (e *Element) property() request.Value {
	if v, ok := e.doc.assignedValue(e.node); ok {
		return request.Some(v)
	}
	if !isFormControl(e.node) {
		return request.None()
	}
	switch e.node.DataAtom {
	case atom.Input:
		if v, ok := attr(e.node, "value"); ok {
			return request.Some(v)
		}
		switch t, _ := attr(e.node, "type"); strings.ToLower(t) {
		case "checkbox", "radio":
			return request.Some("on")
		}
		return request.Some("")
	case atom.Textarea, atom.Output:
		return request.Some(textContent(e.node))
	case atom.Select:
		return request.Some(selectValue(e.node))
	case atom.Option:
		return request.Some(optionValue(e.node))
	case atom.Li:
		return request.Some(listItemValue(e.node))
	case atom.Progress:
		return request.Some(progressValue(e.node))
	case atom.Meter:
		return request.Some(meterValue(e.node))
	default:
		v, _ := attr(e.node, "value")
		return request.Some(v)
	}
}

func (e *Element) content() request.Value {
	if e.doc.mode == ContentText {
		return request.Some(stripMarkup(e.InnerHTML()))
	}
	return request.Some(e.InnerHTML())
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return b.String()
}

func optionValue(n *html.Node) string {
	if v, ok := attr(n, "value"); ok {
		return v
	}
	return strings.Join(strings.FieldsFunc(textContent(n), isASCIISpace), " ")
}

// selectValue returns the value of the first selected option, falling back to
// the first option.
func selectValue(n *html.Node) string {
	var first, selected *html.Node
	walk(n, func(c *html.Node) {
		if c.Type != html.ElementNode || c.DataAtom != atom.Option {
			return
		}
		if first == nil {
			first = c
		}
		if _, ok := attr(c, "selected"); ok && selected == nil {
			selected = c
		}
	})
	switch {
	case selected != nil:
		return optionValue(selected)
	case first != nil:
		return optionValue(first)
	default:
		return ""
	}
}

// Options lists the option values of a select element in document order. It
// is nil for every other element.
func (e *Element) Options() []string {
	if e.node.DataAtom != atom.Select {
		return nil
	}
	var out []string
	walk(e.node, func(c *html.Node) {
		if c.Type == html.ElementNode && c.DataAtom == atom.Option {
			out = append(out, optionValue(c))
		}
	})
	return out
}
