package openapi

import (
	"fmt"
	"strconv"
)

// FieldSpec describes one annotated input of a scaffolded form.
type FieldSpec struct {
	// Key is the binding key: a parameter name, or a dotted body path.
	Key         string
	Type        string
	Format      string
	Required    bool
	Description string
	Default     string
	Enum        []string
}

// FormSpec is everything needed to emit an annotated form for an operation.
type FormSpec struct {
	ID        string
	Summary   string
	Endpoint  string
	PathArgs  []FieldSpec
	QueryArgs []FieldSpec
	BodyArgs  []FieldSpec
}

// Fields returns path, query and body fields in that order.
func (f FormSpec) Fields() []FieldSpec {
	out := make([]FieldSpec, 0, len(f.PathArgs)+len(f.QueryArgs)+len(f.BodyArgs))
	out = append(out, f.PathArgs...)
	out = append(out, f.QueryArgs...)
	return append(out, f.BodyArgs...)
}

// FormSpecFromOperation derives the form for op. Path and query parameters
// become path and query fields in declaration order. Body fields are the
// leaves of the request body object, keyed by their dotted path; array
// properties and unresolved references are skipped because a single input
// cannot bind them.
func FormSpecFromOperation(op Operation) FormSpec {
	spec := FormSpec{
		ID:       op.ID,
		Summary:  op.Summary,
		Endpoint: op.Endpoint(),
	}
	for _, p := range op.ParametersIn(InPath) {
		spec.PathArgs = append(spec.PathArgs, parameterField(p))
	}
	for _, p := range op.ParametersIn(InQuery) {
		spec.QueryArgs = append(spec.QueryArgs, parameterField(p))
	}
	if isObject(op.RequestBody) {
		spec.BodyArgs = bodyFields(op.RequestBody, "", nil)
	}
	return spec
}

// FormSpecs derives a form for every operation, ordered by path and method.
func FormSpecs(ops map[string]Operation) []FormSpec {
	sorted := SortOperations(ops)
	out := make([]FormSpec, 0, len(sorted))
	for _, op := range sorted {
		out = append(out, FormSpecFromOperation(op))
	}
	return out
}

func parameterField(p Parameter) FieldSpec {
	field := schemaField(p.Name, p.Schema)
	field.Required = p.Required || p.In == InPath
	if p.Description != "" {
		field.Description = p.Description
	}
	return field
}

func bodyFields(s Schema, prefix string, out []FieldSpec) []FieldSpec {
	for _, name := range s.PropertyNames() {
		prop := s.Properties[name]
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		switch {
		case prop.Type == "array":
			continue
		case isObject(prop) && len(prop.Properties) > 0:
			out = bodyFields(prop, key, out)
		case prop.Type == "" && prop.Ref != "" && len(prop.Properties) == 0:
			continue
		default:
			field := schemaField(key, prop)
			field.Required = s.IsRequired(name)
			out = append(out, field)
		}
	}
	return out
}

func schemaField(key string, s Schema) FieldSpec {
	field := FieldSpec{
		Key:         key,
		Type:        s.Type,
		Format:      s.Format,
		Description: s.Description,
	}
	if s.Default != nil {
		field.Default = scalarString(s.Default)
	}
	for _, v := range s.Enum {
		field.Enum = append(field.Enum, scalarString(v))
	}
	return field
}

func isObject(s Schema) bool {
	return s.Type == "object" || (s.Type == "" && len(s.Properties) > 0)
}

func scalarString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}
