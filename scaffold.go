package formbind

import (
	"bytes"
	"context"
	"fmt"

	pkgopenapi "github.com/goliatone/go-formbind/pkg/openapi"
	"github.com/goliatone/go-formbind/pkg/scaffold"
)

// Option configures ScaffoldHTML.
type Option func(*scaffoldConfig)

type scaffoldConfig struct {
	loader     pkgopenapi.Loader
	parser     pkgopenapi.Parser
	loaderOpts []pkgopenapi.LoaderOption
	parserOpts []pkgopenapi.ParserOption
	renderOpts []scaffold.Option
	operations []string
}

// WithLoader replaces the default loader.
func WithLoader(loader pkgopenapi.Loader) Option {
	return func(cfg *scaffoldConfig) {
		cfg.loader = loader
	}
}

// WithParser replaces the default parser.
func WithParser(parser pkgopenapi.Parser) Option {
	return func(cfg *scaffoldConfig) {
		cfg.parser = parser
	}
}

// WithLoaderOptions configures the default loader.
func WithLoaderOptions(opts ...pkgopenapi.LoaderOption) Option {
	return func(cfg *scaffoldConfig) {
		cfg.loaderOpts = append(cfg.loaderOpts, opts...)
	}
}

// WithParserOptions configures the default parser.
func WithParserOptions(opts ...pkgopenapi.ParserOption) Option {
	return func(cfg *scaffoldConfig) {
		cfg.parserOpts = append(cfg.parserOpts, opts...)
	}
}

// WithRenderOptions configures the scaffold renderer.
func WithRenderOptions(opts ...scaffold.Option) Option {
	return func(cfg *scaffoldConfig) {
		cfg.renderOpts = append(cfg.renderOpts, opts...)
	}
}

// WithOperations restricts output to the listed operation ids, in that order.
func WithOperations(ids ...string) Option {
	return func(cfg *scaffoldConfig) {
		cfg.operations = append(cfg.operations, ids...)
	}
}

// ScaffoldHTML loads the OpenAPI document at source and renders an annotated
// form for each of its operations.
func ScaffoldHTML(ctx context.Context, source pkgopenapi.Source, options ...Option) ([]byte, error) {
	cfg := newScaffoldConfig(options)
	doc, err := cfg.loader.Load(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("formbind: load %s: %w", source.Location(), err)
	}
	return scaffoldDocument(ctx, doc, cfg)
}

// ScaffoldHTMLFromDocument renders forms for an already loaded document.
func ScaffoldHTMLFromDocument(ctx context.Context, doc pkgopenapi.Document, options ...Option) ([]byte, error) {
	return scaffoldDocument(ctx, doc, newScaffoldConfig(options))
}

func newScaffoldConfig(options []Option) *scaffoldConfig {
	cfg := &scaffoldConfig{}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.loader == nil {
		cfg.loader = NewLoader(cfg.loaderOpts...)
	}
	if cfg.parser == nil {
		cfg.parser = NewParser(cfg.parserOpts...)
	}
	return cfg
}

func scaffoldDocument(ctx context.Context, doc pkgopenapi.Document, cfg *scaffoldConfig) ([]byte, error) {
	operations, err := cfg.parser.Operations(ctx, doc)
	if err != nil {
		return nil, err
	}

	var specs []pkgopenapi.FormSpec
	if len(cfg.operations) == 0 {
		specs = pkgopenapi.FormSpecs(operations)
	} else {
		for _, id := range cfg.operations {
			op, ok := operations[id]
			if !ok {
				return nil, fmt.Errorf("formbind: operation %q not found", id)
			}
			specs = append(specs, pkgopenapi.FormSpecFromOperation(op))
		}
	}

	var buf bytes.Buffer
	if err := scaffold.New(cfg.renderOpts...).Render(&buf, specs...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
