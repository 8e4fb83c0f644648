// Package formbind binds annotated HTML forms to request construction and
// dispatch. The root package wires the OpenAPI loader and parser
// implementations and offers one-call scaffolding; the building blocks live
// under pkg/.
package formbind

import (
	internalLoader "github.com/goliatone/go-formbind/internal/openapi/loader"
	internalParser "github.com/goliatone/go-formbind/internal/openapi/parser"
	pkgopenapi "github.com/goliatone/go-formbind/pkg/openapi"
)

// NewLoader constructs a loader while keeping the concrete type hidden.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	return internalLoader.New(pkgopenapi.NewLoaderOptions(options...))
}

// NewParser constructs a kin-openapi backed parser.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	return internalParser.New(pkgopenapi.NewParserOptions(options...))
}
