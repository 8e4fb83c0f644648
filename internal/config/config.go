// Package config loads formbind settings from defaults, an optional YAML file,
// a .env file and FORMBIND_ prefixed environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/goliatone/go-formbind/pkg/binder"
	"github.com/goliatone/go-formbind/pkg/dom"
	"github.com/goliatone/go-formbind/pkg/request"
)

// EnvPrefix prefixes every environment override, e.g. FORMBIND_DISPATCH_BASE_URL.
const EnvPrefix = "FORMBIND"

// DefaultFile is read when Load is given no path and it exists.
const DefaultFile = "formbind.yaml"

// Config is the full settings tree.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Dispatch DispatchConfig `mapstructure:"dispatch"`
	Request  RequestConfig  `mapstructure:"request"`
	DOM      DOMConfig      `mapstructure:"dom"`
	Markers  binder.Markers `mapstructure:"markers"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// DispatchConfig configures the HTTP dispatcher.
type DispatchConfig struct {
	BaseURL     string            `mapstructure:"base_url" validate:"omitempty,url"`
	Timeout     time.Duration     `mapstructure:"timeout" validate:"gte=0"`
	ContentType string            `mapstructure:"content_type" validate:"required"`
	Headers     map[string]string `mapstructure:"headers"`
	RateLimit   float64           `mapstructure:"rate_limit" validate:"gte=0"`
	Burst       int               `mapstructure:"burst" validate:"gte=0"`
}

// RequestConfig configures request construction.
type RequestConfig struct {
	Escape         string `mapstructure:"escape" validate:"oneof=none url"`
	MergeBodyPaths bool   `mapstructure:"merge_body_paths"`
}

// DOMConfig configures document parsing.
type DOMConfig struct {
	Content string `mapstructure:"content" validate:"oneof=markup text"`
}

// Load resolves the configuration. An explicit path must exist; without one
// DefaultFile is used when present. A .env file in the working directory is
// applied to the environment first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case path != "":
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	default:
		if _, err := os.Stat(DefaultFile); err == nil {
			v.SetConfigFile(DefaultFile)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("config: read %s: %w", DefaultFile, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.Markers = cfg.Markers.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration with no file or environment applied.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	cfg.Markers = cfg.Markers.WithDefaults()
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("dispatch.base_url", "")
	v.SetDefault("dispatch.timeout", 30*time.Second)
	v.SetDefault("dispatch.content_type", "text/plain;charset=UTF-8")
	v.SetDefault("dispatch.headers", map[string]string{})
	v.SetDefault("dispatch.rate_limit", 0)
	v.SetDefault("dispatch.burst", 1)

	v.SetDefault("request.escape", string(request.EscapeNone))
	v.SetDefault("request.merge_body_paths", false)

	v.SetDefault("dom.content", "markup")

	markers := binder.DefaultMarkers()
	v.SetDefault("markers.form_class", markers.FormClass)
	v.SetDefault("markers.endpoint", markers.Endpoint)
	v.SetDefault("markers.path_arg", markers.PathArg)
	v.SetDefault("markers.query_arg", markers.QueryArg)
	v.SetDefault("markers.body_arg", markers.BodyArg)
	v.SetDefault("markers.submit_attr", markers.SubmitAttr)
	v.SetDefault("markers.submit_value", markers.SubmitValue)
}

var (
	validatorInstance *validator.Validate
	validatorOnce     sync.Once
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInstance = validator.New(validator.WithRequiredStructEnabled())
	})
	return validatorInstance
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := getValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config: invalid: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config: validate: %w", err)
	}
	return nil
}

// RequestOptions converts the request section into builder options.
func (c *Config) RequestOptions() ([]request.Option, error) {
	policy, err := request.ParseEscapePolicy(c.Request.Escape)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	opts := []request.Option{request.WithEscaping(policy)}
	if c.Request.MergeBodyPaths {
		opts = append(opts, request.WithMergedBodyPaths())
	}
	return opts, nil
}

// DOMOptions converts the dom section into parser options.
func (c *Config) DOMOptions() ([]dom.Option, error) {
	mode, err := dom.ParseContentMode(c.DOM.Content)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return []dom.Option{dom.WithContentMode(mode)}, nil
}
