package request

import (
	"fmt"
	"net/url"
	"strings"
)

// EscapePolicy controls how placeholder and query text is inserted.
type EscapePolicy string

const (
	// EscapeNone inserts values verbatim. Values containing '/', '?', '&' or
	// other reserved characters change the shape of the resulting URL.
	EscapeNone EscapePolicy = "none"
	// EscapeURL percent-encodes placeholder values as path segments and query
	// keys/values as query components.
	EscapeURL EscapePolicy = "url"
)

// ParseEscapePolicy maps configuration text onto an EscapePolicy. Empty input
// selects EscapeNone.
func ParseEscapePolicy(raw string) (EscapePolicy, error) {
	switch EscapePolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", EscapeNone:
		return EscapeNone, nil
	case EscapeURL:
		return EscapeURL, nil
	default:
		return "", fmt.Errorf("request: unknown escape policy %q", raw)
	}
}

// Options configures request construction.
type Options struct {
	Escape         EscapePolicy
	MergeBodyPaths bool
}

// Option mutates Options.
type Option func(*Options)

// WithEscaping selects the escape policy for path and query substitution.
func WithEscaping(policy EscapePolicy) Option {
	return func(o *Options) {
		o.Escape = policy
	}
}

// WithMergedBodyPaths reuses existing intermediate subtrees during body
// assembly, so "meta.a" and "meta.b" end up side by side.
func WithMergedBodyPaths() Option {
	return func(o *Options) {
		o.MergeBodyPaths = true
	}
}

// NewOptions applies opts over the defaults.
func NewOptions(opts ...Option) Options {
	cfg := Options{Escape: EscapeNone}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

func (o Options) pathEscaper() func(string) string {
	if o.Escape == EscapeURL {
		return url.PathEscape
	}
	return verbatim
}

func (o Options) queryEscaper() func(string) string {
	if o.Escape == EscapeURL {
		return url.QueryEscape
	}
	return verbatim
}

func verbatim(s string) string {
	return s
}
