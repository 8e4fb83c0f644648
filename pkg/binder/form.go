package binder

import (
	"github.com/goliatone/go-formbind/pkg/dom"
	"github.com/goliatone/go-formbind/pkg/endpoint"
	"github.com/goliatone/go-formbind/pkg/request"
)

// Form is a bound form element. It holds no field values: every construction
// reads the current values from the document.
type Form struct {
	el          *dom.Element
	markers     Markers
	requestOpts []request.Option
}

// Element returns the form element.
func (f *Form) Element() *dom.Element {
	return f.el
}

// Descriptor returns the raw endpoint descriptor declared on the form.
func (f *Form) Descriptor() string {
	raw, _ := f.el.Attr(f.markers.Endpoint)
	return raw
}

// Template parses the declared endpoint descriptor.
func (f *Form) Template() (endpoint.Template, error) {
	return endpoint.Parse(f.Descriptor())
}

// Fields returns the marked field elements: path fields first, then query,
// then body, each in document order.
func (f *Form) Fields() []Field {
	var out []Field
	for _, group := range []struct {
		kind request.Kind
		attr string
	}{
		{request.KindPath, f.markers.PathArg},
		{request.KindQuery, f.markers.QueryArg},
		{request.KindBody, f.markers.BodyArg},
	} {
		for _, el := range f.el.QueryAll(group.attr) {
			key, _ := el.Attr(group.attr)
			out = append(out, Field{Kind: group.kind, Key: key, Element: el})
		}
	}
	return out
}

// Bindings snapshots the current field values.
func (f *Form) Bindings() []request.Binding {
	fields := f.Fields()
	out := make([]request.Binding, 0, len(fields))
	for _, field := range fields {
		out = append(out, field.Binding())
	}
	return out
}

// Construct builds the request from the current field values.
func (f *Form) Construct() (request.Descriptor, error) {
	return request.BuildBindings(f.Descriptor(), f.Bindings(), f.requestOpts...)
}

// Field is a marked input inside a form.
type Field struct {
	Kind    request.Kind
	Key     string
	Element *dom.Element
}

// Binding reads the field's current value.
func (f Field) Binding() request.Binding {
	return request.Binding{Kind: f.Kind, Key: f.Key, Value: f.Element.Value()}
}
