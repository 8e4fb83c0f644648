package parser

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-formbind/pkg/openapi"
)

// convertSchema flattens a kin-openapi schema. allOf members are merged into
// the parent. A schema already being converted further up the tree is cut off
// and keeps only its reference, so recursive components terminate.
func convertSchema(ref *openapi3.SchemaRef) pkgopenapi.Schema {
	return convert(ref, make(map[*openapi3.Schema]bool))
}

func convert(ref *openapi3.SchemaRef, visiting map[*openapi3.Schema]bool) pkgopenapi.Schema {
	if ref == nil {
		return pkgopenapi.Schema{}
	}
	if ref.Value == nil || visiting[ref.Value] {
		return pkgopenapi.Schema{Ref: ref.Ref}
	}
	src := ref.Value
	visiting[src] = true
	defer delete(visiting, src)

	schema := pkgopenapi.Schema{
		Ref:         ref.Ref,
		Type:        firstSchemaType(src.Type),
		Format:      src.Format,
		Description: src.Description,
		Default:     src.Default,
	}
	if len(src.Required) > 0 {
		schema.Required = append([]string(nil), src.Required...)
	}
	if len(src.Enum) > 0 {
		schema.Enum = append([]any(nil), src.Enum...)
	}
	if len(src.Properties) > 0 {
		schema.Properties = make(map[string]pkgopenapi.Schema, len(src.Properties))
		for name, property := range src.Properties {
			schema.Properties[name] = convert(property, visiting)
		}
	}
	if src.Items != nil {
		items := convert(src.Items, visiting)
		schema.Items = &items
	}
	for _, member := range src.AllOf {
		mergeSchema(&schema, convert(member, visiting))
	}
	return schema
}

func mergeSchema(target *pkgopenapi.Schema, member pkgopenapi.Schema) {
	if target.Type == "" {
		target.Type = member.Type
	}
	if target.Format == "" {
		target.Format = member.Format
	}
	if target.Description == "" {
		target.Description = member.Description
	}
	if target.Default == nil {
		target.Default = member.Default
	}
	if len(target.Enum) == 0 && len(member.Enum) > 0 {
		target.Enum = member.Enum
	}
	if target.Items == nil {
		target.Items = member.Items
	}
	for _, name := range member.Required {
		if !target.IsRequired(name) {
			target.Required = append(target.Required, name)
		}
	}
	if len(member.Properties) > 0 {
		if target.Properties == nil {
			target.Properties = make(map[string]pkgopenapi.Schema, len(member.Properties))
		}
		for name, property := range member.Properties {
			if _, exists := target.Properties[name]; !exists {
				target.Properties[name] = property
			}
		}
	}
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, ",")
	}
}
