package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-formbind/pkg/openapi"
)

// Parser implements pkgopenapi.Parser using kin-openapi.
type Parser struct {
	options pkgopenapi.ParserOptions
}

var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgopenapi.ParserOptions) *Parser {
	return &Parser{options: options}
}

// bodyMediaTypes lists the request body media types a form can produce, in
// order of preference.
var bodyMediaTypes = []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"}

// Operations converts a Document into operations keyed by operation id.
// Operations without an id are keyed "method:path".
func (p *Parser) Operations(ctx context.Context, doc pkgopenapi.Document) (map[string]pkgopenapi.Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if p.options.Validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}

	operations := make(map[string]pkgopenapi.Operation)
	if spec.Paths != nil {
		for path, item := range spec.Paths.Map() {
			if item == nil {
				continue
			}
			for _, method := range []string{"GET", "PUT", "POST", "DELETE", "PATCH", "HEAD", "OPTIONS", "TRACE"} {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				p.collectOperation(operations, method, path, item.Parameters, item.GetOperation(method))
			}
		}
	}

	if len(operations) == 0 && !p.options.AllowEmpty {
		return nil, errors.New("openapi parser: no operations extracted")
	}
	return operations, nil
}

func (p *Parser) collectOperation(target map[string]pkgopenapi.Operation, method, path string, shared openapi3.Parameters, operation *openapi3.Operation) {
	if operation == nil {
		return
	}
	id := operation.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}
	op, err := pkgopenapi.NewOperation(id, method, path)
	if err != nil {
		return
	}
	op.Summary = operation.Summary
	op.Description = operation.Description
	op.Parameters = mergeParameters(shared, operation.Parameters)
	op.RequestBody, op.MediaType = extractRequestSchema(operation.RequestBody)
	target[id] = op
}

// mergeParameters applies operation parameters over path item parameters.
// A parameter is identified by name and location.
func mergeParameters(shared, own openapi3.Parameters) []pkgopenapi.Parameter {
	var out []pkgopenapi.Parameter
	index := make(map[string]int)
	for _, list := range []openapi3.Parameters{shared, own} {
		for _, ref := range list {
			if ref == nil || ref.Value == nil {
				continue
			}
			param := convertParameter(ref.Value)
			key := string(param.In) + ":" + param.Name
			if at, ok := index[key]; ok {
				out[at] = param
				continue
			}
			index[key] = len(out)
			out = append(out, param)
		}
	}
	return out
}

func convertParameter(src *openapi3.Parameter) pkgopenapi.Parameter {
	return pkgopenapi.Parameter{
		Name:        src.Name,
		In:          pkgopenapi.ParameterLocation(src.In),
		Required:    src.Required,
		Description: src.Description,
		Schema:      convertSchema(src.Schema),
	}
}

func extractRequestSchema(body *openapi3.RequestBodyRef) (pkgopenapi.Schema, string) {
	if body == nil {
		return pkgopenapi.Schema{}, ""
	}
	if body.Value == nil {
		return pkgopenapi.Schema{Ref: body.Ref}, ""
	}
	content := body.Value.Content
	for _, mediaType := range bodyMediaTypes {
		if mt, ok := content[mediaType]; ok && mt != nil {
			return convertSchema(mt.Schema), mediaType
		}
	}
	return pkgopenapi.Schema{}, ""
}
