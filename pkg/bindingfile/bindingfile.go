// Package bindingfile reads request bindings from YAML documents so a request
// can be constructed without a page:
//
//	endpoint: GET /items/{id}
//	path:
//	  id: 42
//	query:
//	  sort: asc
//	  filter: ~
//	body:
//	  name: Ada
//
// Mapping order is preserved, so it drives query and body order the same way
// document order does for a page. A YAML null produces a null value. Scalars
// are kept exactly as written. The body may also be a sequence of single-entry
// mappings when a key needs to repeat.
package bindingfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbind/pkg/request"
)

// ErrEmptyDocument is returned when the input holds no YAML document.
var ErrEmptyDocument = errors.New("bindingfile: empty document")

// File is a parsed binding document.
type File struct {
	Source   string
	Endpoint string
	Path     request.Args
	Query    request.Args
	Body     []request.Pair
}

// Build constructs the request described by the file.
func (f *File) Build(opts ...request.Option) (request.Descriptor, error) {
	if f == nil {
		return request.Descriptor{}, errors.New("bindingfile: nil file")
	}
	return request.Build(f.Endpoint, f.Path, f.Query, f.Body, opts...)
}

// Bindings flattens the file into path, query then body bindings.
func (f *File) Bindings() []request.Binding {
	if f == nil {
		return nil
	}
	out := make([]request.Binding, 0, f.Path.Len()+f.Query.Len()+len(f.Body))
	f.Path.Each(func(key string, value request.Value) bool {
		out = append(out, request.Binding{Kind: request.KindPath, Key: key, Value: value})
		return true
	})
	f.Query.Each(func(key string, value request.Value) bool {
		out = append(out, request.Binding{Kind: request.KindQuery, Key: key, Value: value})
		return true
	})
	for _, pair := range f.Body {
		out = append(out, request.Binding{Kind: request.KindBody, Key: pair.Key, Value: pair.Value})
	}
	return out
}

// Load reads and parses the binding file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bindingfile: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads and parses name from fsys.
func LoadFS(fsys fs.FS, name string) (*File, error) {
	if fsys == nil {
		return nil, errors.New("bindingfile: nil filesystem")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("bindingfile: read %s: %w", name, err)
	}
	return Parse(data, name)
}

// Parse decodes a binding document. source only labels errors.
func Parse(data []byte, source string) (*File, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, source)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("bindingfile: parse %s: %w", source, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, source)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("bindingfile: %s: top level must be a mapping", source)
	}

	file := &File{Source: source}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		var err error
		switch key.Value {
		case "endpoint":
			if value.Kind != yaml.ScalarNode {
				return nil, nodeError(source, value, "endpoint must be a string")
			}
			file.Endpoint = value.Value
		case "path":
			file.Path, err = decodeArgs(source, value)
		case "query":
			file.Query, err = decodeArgs(source, value)
		case "body":
			file.Body, err = decodeBody(source, value)
		default:
			return nil, nodeError(source, key, fmt.Sprintf("unknown key %q", key.Value))
		}
		if err != nil {
			return nil, err
		}
	}
	return file, nil
}

func decodeArgs(source string, node *yaml.Node) (request.Args, error) {
	pairs, err := decodePairs(source, node)
	if err != nil {
		return request.Args{}, err
	}
	return request.NewArgs(pairs...), nil
}

func decodeBody(source string, node *yaml.Node) ([]request.Pair, error) {
	if node.Kind != yaml.SequenceNode {
		return decodePairs(source, node)
	}
	var out []request.Pair
	for _, item := range node.Content {
		if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
			return nil, nodeError(source, item, "body entries must be single-key mappings")
		}
		pairs, err := decodePairs(source, item)
		if err != nil {
			return nil, err
		}
		out = append(out, pairs...)
	}
	return out, nil
}

func decodePairs(source string, node *yaml.Node) ([]request.Pair, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, nodeError(source, node, "expected a mapping")
	}
	out := make([]request.Pair, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, nodeError(source, key, "binding keys must be scalars")
		}
		v, err := scalarValue(source, value)
		if err != nil {
			return nil, err
		}
		out = append(out, request.Pair{Key: key.Value, Value: v})
	}
	return out, nil
}

func scalarValue(source string, node *yaml.Node) (request.Value, error) {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.ScalarNode {
		return request.None(), nodeError(source, node, "binding values must be scalars")
	}
	if isNull(node) {
		return request.None(), nil
	}
	return request.Some(node.Value), nil
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}

func nodeError(source string, node *yaml.Node, msg string) error {
	return fmt.Errorf("bindingfile: %s:%d:%d: %s", source, node.Line, node.Column, msg)
}
