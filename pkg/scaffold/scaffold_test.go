package scaffold_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/binder"
	"github.com/goliatone/go-formbind/pkg/dom"
	"github.com/goliatone/go-formbind/pkg/openapi"
	"github.com/goliatone/go-formbind/pkg/request"
	"github.com/goliatone/go-formbind/pkg/scaffold"
)

var specs = []openapi.FormSpec{
	{
		ID:        "getItem",
		Summary:   `Tom & "Jerry"`,
		Endpoint:  "GET /items/{id}",
		PathArgs:  []openapi.FieldSpec{{Key: "id", Type: "integer", Required: true}},
		QueryArgs: []openapi.FieldSpec{{Key: "sort", Type: "string", Enum: []string{"asc", "desc"}, Default: "desc"}},
	},
	{
		ID:       "createUser",
		Endpoint: "POST /users",
		BodyArgs: []openapi.FieldSpec{
			{Key: "name", Type: "string", Default: "Ada", Required: true},
			{Key: "meta.active", Type: "boolean", Default: "false"},
			{Key: "email", Type: "string", Format: "email", Description: "contact <address>"},
		},
	},
}

func bind(t *testing.T, markup []byte, opts ...binder.Option) (*binder.Page, *dom.Document) {
	t.Helper()
	doc, err := dom.Parse(bytes.NewReader(markup))
	if err != nil {
		t.Fatalf("parse scaffold: %v", err)
	}
	opts = append([]binder.Option{binder.WithLogger(slog.New(slog.DiscardHandler))}, opts...)
	return binder.New(opts...).Setup(context.Background(), doc), doc
}

func TestRender_RoundTripsThroughBinder(t *testing.T) {
	t.Parallel()

	markup, err := scaffold.Render(specs...)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	page, _ := bind(t, markup)
	if n := len(page.Failures()); n != 0 {
		t.Fatalf("expected no setup failures, got %d", n)
	}
	forms := page.Forms()
	if len(forms) != 2 {
		t.Fatalf("expected 2 bound forms, got %d", len(forms))
	}
	if n := len(page.Triggers()); n != 2 {
		t.Fatalf("expected one trigger per form, got %d", n)
	}

	forms[0].Fields()[0].Element.SetValue("42")

	var got []request.Descriptor
	for _, form := range forms {
		req, err := form.Construct()
		if err != nil {
			t.Fatalf("construct %s: %v", form.Descriptor(), err)
		}
		got = append(got, req)
	}
	want := []request.Descriptor{
		{Method: "GET", Path: "/items/42", Query: "?sort=desc"},
		{Method: "POST", Path: "/users", Body: []byte(`{"name":"Ada","meta":{"active":"false"},"email":""}`)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("constructed requests mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_EscapesContent(t *testing.T) {
	t.Parallel()

	markup, err := scaffold.Render(specs...)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if bytes.Contains(markup, []byte("<address>")) {
		t.Fatalf("description was not escaped:\n%s", markup)
	}

	_, doc := bind(t, markup)
	headings := doc.Elements("h2")
	if len(headings) != 1 {
		t.Fatalf("expected one heading, got %d", len(headings))
	}
	if got := headings[0].TextContent(); got != `Tom & "Jerry"` {
		t.Fatalf("unexpected heading %q", got)
	}
	if got := doc.Elements("title")[0].TextContent(); got != "Forms" {
		t.Fatalf("unexpected title %q", got)
	}
}

func TestRenderer_FragmentAndCustomMarkers(t *testing.T) {
	t.Parallel()

	markers := binder.Markers{FormClass: "api", Endpoint: "data-route", BodyArg: "data-field"}
	r := scaffold.New(
		scaffold.WithFragment(),
		scaffold.WithMarkers(markers),
		scaffold.WithSubmitLabel("Send"),
	)
	var buf bytes.Buffer
	if err := r.Render(&buf, specs[1]); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "<!DOCTYPE") {
		t.Fatalf("fragment should not include the page shell:\n%s", out)
	}
	for _, want := range []string{`class="api"`, `data-route="POST /users"`, `data-field="meta.active"`, `>Send</button>`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in:\n%s", want, out)
		}
	}

	page, _ := bind(t, buf.Bytes(), binder.WithMarkers(markers))
	if len(page.Forms()) != 1 {
		t.Fatalf("expected the fragment to bind with matching markers")
	}
}
