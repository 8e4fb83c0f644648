package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	pkgopenapi "github.com/goliatone/go-formbind/pkg/openapi"
)

const minimal = "openapi: 3.0.0\ninfo: {title: t, version: '1'}\npaths: {}\n"

func TestLoader_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "api.yaml")
	if err := os.WriteFile(path, []byte(minimal), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	doc, err := New(pkgopenapi.NewLoaderOptions()).Load(context.Background(), pkgopenapi.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != minimal {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}
	if doc.Location() != path {
		t.Fatalf("unexpected location %q", doc.Location())
	}
}

func TestLoader_FS(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{"specs/api.yaml": &fstest.MapFile{Data: []byte(minimal)}}
	l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithFileSystem(fsys)))

	if _, err := l.Load(context.Background(), pkgopenapi.SourceFromFS("specs/api.yaml")); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := l.Load(context.Background(), pkgopenapi.SourceFromFS("missing.yaml")); err == nil {
		t.Fatalf("expected error for missing entry")
	}
	if _, err := New(pkgopenapi.NewLoaderOptions()).Load(context.Background(), pkgopenapi.SourceFromFS("specs/api.yaml")); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected unsupported error without filesystem, got %v", err)
	}
}

func TestLoader_HTTP(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte(minimal))
	}))
	defer server.Close()

	if _, err := New(pkgopenapi.NewLoaderOptions()).Load(context.Background(), pkgopenapi.SourceFromURL(server.URL)); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected unsupported error without http client, got %v", err)
	}

	l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithHTTPFallback(0)))
	doc, err := l.Load(context.Background(), pkgopenapi.SourceFromURL(server.URL+"/api.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != minimal {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}

	_, err = l.Load(context.Background(), pkgopenapi.SourceFromURL(server.URL+"/missing"))
	var loadErr *Error
	if !errors.As(err, &loadErr) || loadErr.Kind != pkgopenapi.SourceKindURL || !strings.Contains(loadErr.Err.Error(), "404") {
		t.Fatalf("expected load error carrying the 404 status, got %v", err)
	}
}

func TestLoader_NilSource(t *testing.T) {
	t.Parallel()

	if _, err := New(pkgopenapi.LoaderOptions{}).Load(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil source")
	}
}

type customSource struct{}

func (customSource) Kind() pkgopenapi.SourceKind { return "ftp" }
func (customSource) Location() string            { return "ftp://example.test/api.yaml" }

func TestLoader_Errors(t *testing.T) {
	t.Parallel()

	l := New(pkgopenapi.NewLoaderOptions())

	if _, err := l.Load(context.Background(), customSource{}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected unsupported error for unknown kind, got %v", err)
	}

	_, err := l.Load(context.Background(), pkgopenapi.SourceFromFS(""))
	var emptyErr *Error
	if !errors.As(err, &emptyErr) || emptyErr.Kind != pkgopenapi.SourceKindFS || errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected location error before kind lookup, got %v", err)
	}

	missing := filepath.Join(t.TempDir(), "missing.yaml")
	_, err = l.Load(context.Background(), pkgopenapi.SourceFromFile(missing))
	var loadErr *Error
	if !errors.As(err, &loadErr) || loadErr.Location != missing || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist load error for %s, got %v", missing, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Load(ctx, pkgopenapi.SourceFromFile(missing)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
