package request

import (
	"strings"
	"unicode"
)

// Value is a nullable field value. The zero Value is null, which stands for
// both "key absent" and "element has no value".
type Value struct {
	text  string
	valid bool
}

// Some wraps a present string value (which may be empty).
func Some(text string) Value {
	return Value{text: text, valid: true}
}

// None returns the null Value.
func None() Value {
	return Value{}
}

// IsNone reports whether v is null.
func (v Value) IsNone() bool {
	return !v.valid
}

// IsSome reports whether v carries a string, empty or not.
func (v Value) IsSome() bool {
	return v.valid
}

// String returns the carried text, or "" for null.
func (v Value) String() string {
	return v.text
}

// Get returns the carried text and whether v is present.
func (v Value) Get() (string, bool) {
	return v.text, v.valid
}

// FirstPresent returns the first non-null value, or null when every candidate
// is null. It is the single place where absent and missing values collapse.
func FirstPresent(values ...Value) Value {
	for _, v := range values {
		if v.valid {
			return v
		}
	}
	return None()
}

// IsBlank reports whether v is null or only whitespace. Literal strings such as
// "null" count as content.
func IsBlank(v Value) bool {
	if !v.valid {
		return true
	}
	return strings.TrimFunc(v.text, isSpace) == ""
}

// IsNotBlank is the negation of IsBlank.
func IsNotBlank(v Value) bool {
	return !IsBlank(v)
}

// isSpace matches the ECMAScript whitespace and line terminator set used by
// String.prototype.trim.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', 0x00A0, 0x1680, 0x2028, 0x2029, 0x202F, 0x205F, 0x3000, 0xFEFF:
		return true
	}
	return r >= 0x2000 && r <= 0x200A || unicode.Is(unicode.Zs, r)
}
