// Package scaffold renders annotated HTML forms from form specs. The output
// uses the same markup contract the binder reads, so a scaffolded page can be
// bound and submitted without edits.
package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"regexp"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formbind/pkg/binder"
	"github.com/goliatone/go-formbind/pkg/openapi"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the built-in page, form and field templates.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

const (
	pageTemplate = "page.tpl"
	formTemplate = "form.tpl"
)

// Option configures a Renderer.
type Option func(*config)

type config struct {
	templates   fs.FS
	markers     binder.Markers
	title       string
	submitLabel string
	fragment    bool
}

// WithTemplatesFS replaces the built-in templates. The filesystem must provide
// page.tpl, form.tpl and field.tpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithMarkers emits a custom markup contract.
func WithMarkers(markers binder.Markers) Option {
	return func(cfg *config) {
		cfg.markers = markers
	}
}

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(cfg *config) {
		cfg.title = title
	}
}

// WithSubmitLabel sets the text of every submit trigger.
func WithSubmitLabel(label string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(label) != "" {
			cfg.submitLabel = label
		}
	}
}

// WithFragment renders the forms without the surrounding page.
func WithFragment() Option {
	return func(cfg *config) {
		cfg.fragment = true
	}
}

// Renderer turns form specs into annotated markup.
type Renderer struct {
	cfg config

	mu        sync.Mutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
}

// New constructs a Renderer.
func New(options ...Option) *Renderer {
	cfg := config{
		templates:   TemplatesFS(),
		markers:     binder.DefaultMarkers(),
		title:       "Forms",
		submitLabel: "Submit",
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	cfg.markers = cfg.markers.WithDefaults()

	return &Renderer{
		cfg:       cfg,
		set:       pongo2.NewSet("formbind-scaffold", pongo2.NewFSLoader(cfg.templates)),
		templates: make(map[string]*pongo2.Template),
	}
}

// Render writes the markup for specs to w.
func (r *Renderer) Render(w io.Writer, specs ...openapi.FormSpec) error {
	if r == nil || r.set == nil {
		return errors.New("scaffold: renderer is nil")
	}
	name := pageTemplate
	if r.cfg.fragment {
		name = formTemplate
	}
	tpl, err := r.template(name)
	if err != nil {
		return err
	}

	views := formViews(specs, r.cfg.markers)
	if !r.cfg.fragment {
		return r.execute(tpl, r.context(pongo2.Context{"forms": views}), w)
	}
	for _, view := range views {
		if err := r.execute(tpl, r.context(pongo2.Context{"form": view}), w); err != nil {
			return err
		}
	}
	return nil
}

// Render scaffolds a full page for specs with the default renderer.
func Render(specs ...openapi.FormSpec) ([]byte, error) {
	var buf bytes.Buffer
	if err := New().Render(&buf, specs...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) context(data pongo2.Context) pongo2.Context {
	ctx := pongo2.Context{
		"markers":      r.cfg.markers,
		"title":        r.cfg.title,
		"submit_label": r.cfg.submitLabel,
	}
	ctx.Update(data)
	return ctx
}

func (r *Renderer) execute(tpl *pongo2.Template, ctx pongo2.Context, w io.Writer) error {
	if err := tpl.ExecuteWriter(ctx, w); err != nil {
		return fmt.Errorf("scaffold: execute template: %w", err)
	}
	return nil
}

func (r *Renderer) template(name string) (*pongo2.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tpl, ok := r.templates[name]; ok {
		return tpl, nil
	}
	tpl, err := r.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("scaffold: load template %q: %w", name, err)
	}
	r.templates[name] = tpl
	return tpl, nil
}

type formView struct {
	ID       string
	Summary  string
	Endpoint string
	Fields   []fieldView
}

type fieldView struct {
	ID          string
	Key         string
	Marker      string
	Control     string
	InputType   string
	Value       string
	Required    bool
	Description string
	Options     []optionView
}

type optionView struct {
	Value    string
	Selected bool
}

func formViews(specs []openapi.FormSpec, markers binder.Markers) []formView {
	views := make([]formView, 0, len(specs))
	for i, spec := range specs {
		id := slug(spec.ID)
		if id == "" {
			id = fmt.Sprintf("form-%d", i+1)
		}
		view := formView{ID: id, Summary: spec.Summary, Endpoint: spec.Endpoint}
		for _, group := range []struct {
			marker string
			fields []openapi.FieldSpec
		}{
			{markers.PathArg, spec.PathArgs},
			{markers.QueryArg, spec.QueryArgs},
			{markers.BodyArg, spec.BodyArgs},
		} {
			for _, field := range group.fields {
				view.Fields = append(view.Fields, fieldViewFor(id, group.marker, field))
			}
		}
		views = append(views, view)
	}
	return views
}

func fieldViewFor(formID, marker string, field openapi.FieldSpec) fieldView {
	view := fieldView{
		ID:          formID + "-" + strings.TrimPrefix(marker, "data-") + "-" + slug(field.Key),
		Key:         field.Key,
		Marker:      marker,
		Control:     "input",
		InputType:   inputType(field),
		Value:       field.Default,
		Required:    field.Required,
		Description: field.Description,
	}

	choices := field.Enum
	if len(choices) == 0 && field.Type == "boolean" {
		choices = []string{"true", "false"}
	}
	if len(choices) > 0 {
		view.Control = "select"
		for _, choice := range choices {
			view.Options = append(view.Options, optionView{Value: choice, Selected: choice == field.Default})
		}
	}
	return view
}

func inputType(field openapi.FieldSpec) string {
	switch field.Format {
	case "email":
		return "email"
	case "date":
		return "date"
	case "date-time":
		return "datetime-local"
	case "uri", "url":
		return "url"
	case "password":
		return "password"
	}
	switch field.Type {
	case "integer", "number":
		return "number"
	}
	return "text"
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slug(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
