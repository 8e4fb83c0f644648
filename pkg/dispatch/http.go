package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/goliatone/go-formbind/pkg/request"
)

// DefaultContentType is what the browser host sends for a string body.
const DefaultContentType = "text/plain;charset=UTF-8"

// HTTP dispatches requests with net/http on background goroutines. Cookies
// set by earlier responses are replayed on later requests and configured
// headers are attached to every call, so ambient credentials travel with each
// request.
type HTTP struct {
	client      *http.Client
	base        *url.URL
	headers     http.Header
	contentType string
	limiter     *rate.Limiter
	logger      *slog.Logger

	wg sync.WaitGroup
}

// Option configures the HTTP dispatcher.
type Option func(*config)

type config struct {
	baseURL     string
	client      *http.Client
	timeout     time.Duration
	headers     http.Header
	contentType string
	rps         float64
	burst       int
	logger      *slog.Logger
}

// WithBaseURL resolves request targets against raw.
func WithBaseURL(raw string) Option {
	return func(cfg *config) {
		cfg.baseURL = strings.TrimSpace(raw)
	}
}

// WithClient supplies the HTTP client. A client without a cookie jar gets one.
func WithClient(client *http.Client) Option {
	return func(cfg *config) {
		cfg.client = client
	}
}

// WithTimeout caps each request when the dispatcher builds its own client.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *config) {
		cfg.timeout = timeout
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(name, value string) Option {
	return func(cfg *config) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if cfg.headers == nil {
			cfg.headers = make(http.Header)
		}
		cfg.headers.Add(name, value)
	}
}

// WithContentType overrides the Content-Type used for requests with a body.
func WithContentType(contentType string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(contentType); trimmed != "" {
			cfg.contentType = trimmed
		}
	}
}

// WithRateLimit bounds dispatch to rps requests per second. Zero disables it.
func WithRateLimit(rps float64, burst int) Option {
	return func(cfg *config) {
		cfg.rps = rps
		cfg.burst = burst
	}
}

// WithLogger receives a line per completed or failed request.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// NewHTTP builds an HTTP dispatcher.
func NewHTTP(options ...Option) (*HTTP, error) {
	cfg := &config{contentType: DefaultContentType}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	var base *url.URL
	if cfg.baseURL != "" {
		parsed, err := url.Parse(cfg.baseURL)
		if err != nil {
			return nil, fmt.Errorf("dispatch: base url: %w", err)
		}
		if !parsed.IsAbs() {
			return nil, fmt.Errorf("dispatch: base url %q must be absolute", cfg.baseURL)
		}
		base = parsed
	}

	client := cfg.client
	if client == nil {
		client = &http.Client{Timeout: cfg.timeout}
	} else {
		clone := *client
		client = &clone
	}
	if client.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("dispatch: cookie jar: %w", err)
		}
		client.Jar = jar
	}

	var limiter *rate.Limiter
	if cfg.rps > 0 {
		burst := cfg.burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.rps), burst)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &HTTP{
		client:      client,
		base:        base,
		headers:     cfg.headers.Clone(),
		contentType: cfg.contentType,
		limiter:     limiter,
		logger:      logger,
	}, nil
}

// Client exposes the underlying client, mostly to inspect its cookie jar.
func (h *HTTP) Client() *http.Client {
	return h.client
}

// Dispatch builds the HTTP request and sends it in the background. Errors
// returned here concern request construction only; network failures are
// logged.
func (h *HTTP) Dispatch(ctx context.Context, req request.Descriptor) error {
	if h == nil {
		return errors.New("dispatch: dispatcher is nil")
	}
	httpReq, err := h.NewRequest(context.WithoutCancel(ctx), req)
	if err != nil {
		return err
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.send(httpReq)
	}()
	return nil
}

// Wait blocks until every dispatched request has finished.
func (h *HTTP) Wait() {
	h.wg.Wait()
}

// NewRequest converts a descriptor into an *http.Request with the target
// resolved against the base URL and the body passed through untouched.
func (h *HTTP) NewRequest(ctx context.Context, req request.Descriptor) (*http.Request, error) {
	target, err := h.resolve(req.Target())
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if req.HasBody() {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, normalizeMethod(req.Method), target, body)
	if err != nil {
		return nil, fmt.Errorf("dispatch: new request: %w", err)
	}
	for name, values := range h.headers {
		for _, value := range values {
			httpReq.Header.Add(name, value)
		}
	}
	if req.HasBody() && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", h.contentType)
	}
	return httpReq, nil
}

// normalizeMethod upper-cases the methods the fetch standard normalizes and
// leaves every other token as declared.
func normalizeMethod(method string) string {
	switch upper := strings.ToUpper(method); upper {
	case http.MethodDelete, http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPost, http.MethodPut:
		return upper
	}
	return method
}

func (h *HTTP) resolve(target string) (string, error) {
	if h.base == nil {
		return target, nil
	}
	ref, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("dispatch: target %q: %w", target, err)
	}
	return h.base.ResolveReference(ref).String(), nil
}

func (h *HTTP) send(req *http.Request) {
	ctx := req.Context()
	if h.limiter != nil {
		if err := h.limiter.Wait(ctx); err != nil {
			h.logger.ErrorContext(ctx, "request not sent",
				slog.String("method", req.Method),
				slog.String("url", req.URL.String()),
				slog.Any("error", err),
			)
			return
		}
	}

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.ErrorContext(ctx, "request failed",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err),
		)
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	h.logger.InfoContext(ctx, "request completed",
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)
}
