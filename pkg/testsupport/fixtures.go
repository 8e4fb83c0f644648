// Package testsupport holds fixture and golden helpers shared by the package
// tests.
package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/binder"
	"github.com/goliatone/go-formbind/pkg/dom"
	pkgopenapi "github.com/goliatone/go-formbind/pkg/openapi"
	"github.com/goliatone/go-formbind/pkg/request"
)

// UpdateEnv enables golden rewrites when set.
const UpdateEnv = "UPDATE_GOLDENS"

// LoadDocument reads a fixture and builds an openapi.Document using a file
// source.
func LoadDocument(t *testing.T, path string) pkgopenapi.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T.
func LoadDocumentFromPath(path string) (pkgopenapi.Document, error) {
	if path == "" {
		return pkgopenapi.Document{}, errors.New("testsupport: document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := pkgopenapi.NewDocument(pkgopenapi.SourceFromFile(path), data)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// MustLoadFormSpecs loads a JSON golden file of form specs.
func MustLoadFormSpecs(t *testing.T, path string) []pkgopenapi.FormSpec {
	t.Helper()

	var out []pkgopenapi.FormSpec
	if err := json.Unmarshal(MustReadGolden(t, path), &out); err != nil {
		t.Fatalf("unmarshal golden: %v", err)
	}
	return out
}

// BindPage parses markup and binds it with a discarding logger unless opts
// override it.
func BindPage(t *testing.T, markup []byte, opts ...binder.Option) *binder.Page {
	t.Helper()

	doc, err := dom.Parse(bytes.NewReader(markup))
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	opts = append([]binder.Option{binder.WithLogger(slog.New(slog.DiscardHandler))}, opts...)
	return binder.New(opts...).Setup(context.Background(), doc)
}

// ConstructAll builds the current request of every bound form on page.
func ConstructAll(t *testing.T, page *binder.Page) []request.Descriptor {
	t.Helper()

	var out []request.Descriptor
	for _, form := range page.Forms() {
		req, err := form.Construct()
		if err != nil {
			t.Fatalf("construct %s: %v", form.Descriptor(), err)
		}
		out = append(out, req)
	}
	return out
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv(UpdateEnv) == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}
