package openapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Document is a raw OpenAPI payload together with its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument validates the inputs and copies raw.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("openapi: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("openapi: raw document is empty")
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin of the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the origin identifier, "" for the zero Document.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// ParameterLocation is the OpenAPI "in" of a parameter.
type ParameterLocation string

const (
	InPath   ParameterLocation = "path"
	InQuery  ParameterLocation = "query"
	InHeader ParameterLocation = "header"
	InCookie ParameterLocation = "cookie"
)

// Parameter is a path, query, header or cookie parameter of an operation.
type Parameter struct {
	Name        string
	In          ParameterLocation
	Required    bool
	Description string
	Schema      Schema
}

// Operation is the subset of an OpenAPI operation needed to scaffold a form.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	Parameters  []Parameter
	RequestBody Schema
	// MediaType is the request body media type the schema was taken from.
	MediaType string
}

// NewOperation validates the identifying fields.
func NewOperation(id, method, path string) (Operation, error) {
	if id == "" {
		return Operation{}, errors.New("openapi: operation id is required")
	}
	if method == "" {
		return Operation{}, errors.New("openapi: operation method is required")
	}
	if path == "" {
		return Operation{}, errors.New("openapi: operation path is required")
	}
	return Operation{ID: id, Method: strings.ToUpper(method), Path: path}, nil
}

// MustNewOperation panics when construction fails.
func MustNewOperation(id, method, path string) Operation {
	op, err := NewOperation(id, method, path)
	if err != nil {
		panic(err)
	}
	return op
}

// Endpoint renders the operation as an endpoint descriptor, "METHOD /path".
// OpenAPI path templates use the same {name} placeholders the request builder
// substitutes.
func (op Operation) Endpoint() string {
	return op.Method + " " + op.Path
}

// ParametersIn returns the parameters declared at loc, in declaration order.
func (op Operation) ParametersIn(loc ParameterLocation) []Parameter {
	var out []Parameter
	for _, p := range op.Parameters {
		if p.In == loc {
			out = append(out, p)
		}
	}
	return out
}

// Schema is a simplified JSON schema node.
type Schema struct {
	Ref         string
	Type        string
	Format      string
	Required    []string
	Properties  map[string]Schema
	Items       *Schema
	Enum        []any
	Description string
	Default     any
}

// IsRequired reports whether name is listed as required.
func (s Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// PropertyNames returns the property names sorted, since OpenAPI object
// properties carry no order once decoded.
func (s Schema) PropertyNames() []string {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DebugString summarises the schema for logs.
func (s Schema) DebugString() string {
	summary := fmt.Sprintf("type=%s", s.Type)
	if s.Ref != "" {
		summary += fmt.Sprintf(",ref=%s", s.Ref)
	}
	if len(s.Required) > 0 {
		summary += fmt.Sprintf(",required=%d", len(s.Required))
	}
	if len(s.Properties) > 0 {
		summary += fmt.Sprintf(",properties=%d", len(s.Properties))
	}
	if s.Items != nil {
		summary += ",items=true"
	}
	return summary
}

var methodOrder = map[string]int{
	"GET": 0, "PUT": 1, "POST": 2, "DELETE": 3, "PATCH": 4, "HEAD": 5, "OPTIONS": 6, "TRACE": 7,
}

// SortOperations returns the operations ordered by path, then by the order
// methods appear in an OpenAPI path item.
func SortOperations(ops map[string]Operation) []Operation {
	out := make([]Operation, 0, len(ops))
	for _, op := range ops {
		out = append(out, op)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		mi, mj := methodOrder[out[i].Method], methodOrder[out[j].Method]
		if mi != mj {
			return mi < mj
		}
		return out[i].ID < out[j].ID
	})
	return out
}
