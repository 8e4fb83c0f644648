package binder

import (
	"log/slog"
	"strings"

	"github.com/goliatone/go-formbind/pkg/dispatch"
	"github.com/goliatone/go-formbind/pkg/request"
)

// Markers names the class and attributes the binder looks for.
type Markers struct {
	FormClass   string `mapstructure:"form_class"`
	Endpoint    string `mapstructure:"endpoint"`
	PathArg     string `mapstructure:"path_arg"`
	QueryArg    string `mapstructure:"query_arg"`
	BodyArg     string `mapstructure:"body_arg"`
	SubmitAttr  string `mapstructure:"submit_attr"`
	SubmitValue string `mapstructure:"submit_value"`
}

// DefaultMarkers returns the stock markup contract.
func DefaultMarkers() Markers {
	return Markers{
		FormClass:   "form",
		Endpoint:    "data-endpoint",
		PathArg:     "data-path-arg",
		QueryArg:    "data-query-arg",
		BodyArg:     "data-body-arg",
		SubmitAttr:  "data-action",
		SubmitValue: "submit",
	}
}

// WithDefaults fills empty fields from DefaultMarkers.
func (m Markers) WithDefaults() Markers {
	def := DefaultMarkers()
	fill := func(target *string, fallback string) {
		if strings.TrimSpace(*target) == "" {
			*target = fallback
		}
	}
	fill(&m.FormClass, def.FormClass)
	fill(&m.Endpoint, def.Endpoint)
	fill(&m.PathArg, def.PathArg)
	fill(&m.QueryArg, def.QueryArg)
	fill(&m.BodyArg, def.BodyArg)
	fill(&m.SubmitAttr, def.SubmitAttr)
	fill(&m.SubmitValue, def.SubmitValue)
	return m
}

// Option configures a Binder.
type Option func(*Binder)

// WithMarkers overrides the markup contract. Empty fields keep their defaults.
func WithMarkers(markers Markers) Option {
	return func(b *Binder) {
		b.markers = markers.WithDefaults()
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Binder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithDispatcher sets where activated requests go.
func WithDispatcher(d dispatch.Dispatcher) Option {
	return func(b *Binder) {
		if d != nil {
			b.dispatcher = d
		}
	}
}

// WithRequestOptions passes construction options to every build.
func WithRequestOptions(opts ...request.Option) Option {
	return func(b *Binder) {
		b.requestOpts = append(b.requestOpts, opts...)
	}
}
