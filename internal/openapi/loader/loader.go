// Package loader reads OpenAPI documents for the parser. Each source kind maps
// to one fetch function; kinds without a usable backend are left out of the
// table and rejected with ErrUnsupported.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"

	pkgopenapi "github.com/goliatone/go-formbind/pkg/openapi"
)

// maxDocumentSize bounds remote documents.
const maxDocumentSize = 16 << 20

const acceptHeader = "application/json, application/yaml;q=0.9, */*;q=0.5"

// ErrUnsupported marks a source kind the loader was not configured for.
var ErrUnsupported = errors.New("source kind not enabled")

// Error reports a failed load with the source that caused it.
type Error struct {
	Kind     pkgopenapi.SourceKind
	Location string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("openapi loader: %s %s: %v", e.Kind, e.Location, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type fetchFunc func(ctx context.Context, location string) ([]byte, error)

// Loader implements pkgopenapi.Loader over files, an fs.FS and HTTP.
type Loader struct {
	fetchers map[pkgopenapi.SourceKind]fetchFunc
}

var _ pkgopenapi.Loader = (*Loader)(nil)

// New constructs a Loader from resolved options. Files are always readable;
// fs sources need a FileSystem and URL sources need a client or the HTTP
// fallback.
func New(options pkgopenapi.LoaderOptions) *Loader {
	l := &Loader{fetchers: map[pkgopenapi.SourceKind]fetchFunc{
		pkgopenapi.SourceKindFile: func(_ context.Context, path string) ([]byte, error) {
			return os.ReadFile(path)
		},
	}}

	if fsys := options.FileSystem; fsys != nil {
		l.fetchers[pkgopenapi.SourceKindFS] = func(_ context.Context, name string) ([]byte, error) {
			return fs.ReadFile(fsys, name)
		}
	}

	if client := httpClient(options); client != nil {
		l.fetchers[pkgopenapi.SourceKindURL] = func(ctx context.Context, url string) ([]byte, error) {
			return fetchURL(ctx, client, url)
		}
	}
	return l
}

// Load reads src and wraps the payload in a Document.
func (l *Loader) Load(ctx context.Context, src pkgopenapi.Source) (pkgopenapi.Document, error) {
	if src == nil {
		return pkgopenapi.Document{}, errors.New("openapi loader: source is nil")
	}
	fail := func(err error) (pkgopenapi.Document, error) {
		return pkgopenapi.Document{}, &Error{Kind: src.Kind(), Location: src.Location(), Err: err}
	}

	if src.Location() == "" {
		return fail(errors.New("location is required"))
	}
	fetch, ok := l.fetchers[src.Kind()]
	if !ok {
		return fail(ErrUnsupported)
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	data, err := fetch(ctx, src.Location())
	if err != nil {
		return fail(err)
	}
	return pkgopenapi.NewDocument(src, data)
}

func httpClient(options pkgopenapi.LoaderOptions) *http.Client {
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if options.RequestTimeout > 0 && clone.Timeout == 0 {
			clone.Timeout = options.RequestTimeout
		}
		return &clone
	case options.AllowHTTPFallback:
		return &http.Client{Timeout: options.RequestTimeout}
	}
	return nil
}

func fetchURL(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
}
