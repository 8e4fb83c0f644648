package request

import "strings"

type scanState int

const (
	stateOutside scanState = iota
	stateInPlaceholder
)

// substitutePath resolves {name} placeholders in pattern from args. Missing or
// null values resolve to "". A trailing unterminated placeholder is dropped.
func substitutePath(pattern string, args Args, escape func(string) string) string {
	var (
		out   strings.Builder
		name  strings.Builder
		state = stateOutside
	)
	out.Grow(len(pattern))

	// Bytes, not runes: braces are ASCII and other bytes pass through as is.
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch state {
		case stateOutside:
			if c == '{' {
				state = stateInPlaceholder
				continue
			}
			out.WriteByte(c)
		case stateInPlaceholder:
			if c == '}' {
				value := FirstPresent(args.Get(name.String()), Some(""))
				out.WriteString(escape(value.String()))
				name.Reset()
				state = stateOutside
				continue
			}
			name.WriteByte(c)
		}
	}
	return out.String()
}
