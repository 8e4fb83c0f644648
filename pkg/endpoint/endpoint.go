package endpoint

import (
	"regexp"
	"strings"
)

// whitespace mirrors the ECMAScript \s class so descriptors split the same way
// they do in the browser host (Go's \s only covers ASCII).
const whitespace = `\t\n\v\f\r \x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}`

var descriptorPattern = regexp.MustCompile(`^(?P<method>[A-Za-z]+)[` + whitespace + `]+(?P<path>[^` + whitespace + `]+)$`)

// Template is the parsed form of an endpoint descriptor.
type Template struct {
	Method string
	Path   string
}

// Parse splits descriptor into its method and path. Descriptors that do not
// match "METHOD path" return a *MalformedEndpointError.
func Parse(descriptor string) (Template, error) {
	match := descriptorPattern.FindStringSubmatch(descriptor)
	if match == nil {
		return Template{}, &MalformedEndpointError{Descriptor: descriptor}
	}
	return Template{
		Method: match[descriptorPattern.SubexpIndex("method")],
		Path:   match[descriptorPattern.SubexpIndex("path")],
	}, nil
}

// MustParse is like Parse but panics on malformed input. Useful for fixtures.
func MustParse(descriptor string) Template {
	tpl, err := Parse(descriptor)
	if err != nil {
		panic(err)
	}
	return tpl
}

// String renders the template back into descriptor form.
func (t Template) String() string {
	if t.Method == "" && t.Path == "" {
		return ""
	}
	return t.Method + " " + t.Path
}

// Placeholders lists the placeholder names in the order they appear. A
// trailing unterminated placeholder is not included.
func (t Template) Placeholders() []string {
	var (
		names  []string
		inside bool
		name   strings.Builder
	)
	for i := 0; i < len(t.Path); i++ {
		c := t.Path[i]
		switch {
		case !inside && c == '{':
			inside = true
		case inside && c == '}':
			names = append(names, name.String())
			name.Reset()
			inside = false
		case inside:
			name.WriteByte(c)
		}
	}
	return names
}

// Unterminated reports whether the path ends inside an open placeholder. The
// trailing segment is dropped during substitution.
func (t Template) Unterminated() bool {
	inside := false
	for i := 0; i < len(t.Path); i++ {
		switch c := t.Path[i]; {
		case !inside && c == '{':
			inside = true
		case inside && c == '}':
			inside = false
		}
	}
	return inside
}
