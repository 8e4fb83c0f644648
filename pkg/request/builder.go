package request

import (
	"encoding/json"
	"log/slog"

	"github.com/goliatone/go-formbind/pkg/endpoint"
)

// Descriptor is a fully resolved request ready for dispatch.
type Descriptor struct {
	Method string
	Path   string
	Query  string
	// Body is nil when the form declares no body fields.
	Body []byte
}

type descriptorJSON struct {
	Method string  `json:"method"`
	Path   string  `json:"path"`
	Query  string  `json:"query"`
	Body   *string `json:"body,omitempty"`
}

// MarshalJSON renders the body as a string and omits it when absent.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	out := descriptorJSON{Method: d.Method, Path: d.Path, Query: d.Query}
	if d.Body != nil {
		body := string(d.Body)
		out.Body = &body
	}
	return json.Marshal(out)
}

// LogValue renders the descriptor for slog.
func (d Descriptor) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("method", d.Method),
		slog.String("path", d.Path),
		slog.String("query", d.Query),
	}
	if d.Body != nil {
		attrs = append(attrs, slog.String("body", string(d.Body)))
	}
	return slog.GroupValue(attrs...)
}

// Target returns the request target, path followed by query.
func (d Descriptor) Target() string {
	return d.Path + d.Query
}

// HasBody reports whether a body should be sent.
func (d Descriptor) HasBody() bool {
	return d.Body != nil
}

// BodyString returns the serialized body, "" when absent.
func (d Descriptor) BodyString() string {
	return string(d.Body)
}

// Build parses descriptor and constructs the request. The only error is
// *endpoint.MalformedEndpointError.
func Build(descriptor string, path, query Args, body []Pair, opts ...Option) (Descriptor, error) {
	tpl, err := endpoint.Parse(descriptor)
	if err != nil {
		return Descriptor{}, err
	}
	return BuildTemplate(tpl, path, query, body, opts...), nil
}

// BuildBindings is Build over a flat binding list.
func BuildBindings(descriptor string, bindings []Binding, opts ...Option) (Descriptor, error) {
	path, query, body := Collect(bindings)
	return Build(descriptor, path, query, body, opts...)
}

// BuildTemplate constructs the request from an already parsed template. Missing
// keys and blank values never fail; they resolve to empty output.
func BuildTemplate(tpl endpoint.Template, path, query Args, body []Pair, opts ...Option) Descriptor {
	cfg := NewOptions(opts...)

	out := Descriptor{
		Method: tpl.Method,
		Path:   substitutePath(tpl.Path, path, cfg.pathEscaper()),
		Query:  composeQuery(query, cfg.queryEscaper()),
	}
	if tree := assembleBody(body, cfg.MergeBodyPaths); tree != nil {
		out.Body = tree.Bytes()
	}
	return out
}
