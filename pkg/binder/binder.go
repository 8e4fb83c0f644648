package binder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/net/html"

	"github.com/goliatone/go-formbind/pkg/dispatch"
	"github.com/goliatone/go-formbind/pkg/dom"
	"github.com/goliatone/go-formbind/pkg/request"
)

// Binder discovers annotated forms in a document and wires their submit
// triggers to request construction and dispatch.
type Binder struct {
	markers     Markers
	logger      *slog.Logger
	dispatcher  dispatch.Dispatcher
	requestOpts []request.Option
}

// New constructs a Binder. Without a dispatcher activated requests are dropped.
func New(options ...Option) *Binder {
	b := &Binder{
		markers:    DefaultMarkers(),
		logger:     slog.Default(),
		dispatcher: dispatch.Discard,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// Failure records a form whose setup was abandoned.
type Failure struct {
	Element *dom.Element
	Err     error
}

// Setup binds every form in doc. A form that fails setup is logged, recorded
// in Page.Failures and left without listeners; the remaining forms are still
// bound.
func (b *Binder) Setup(ctx context.Context, doc *dom.Document) *Page {
	page := &Page{
		binder:    b,
		listeners: make(map[*html.Node][]*Form),
	}
	for _, el := range doc.ElementsByClass(b.markers.FormClass) {
		form, err := b.setupForm(ctx, page, el)
		if err != nil {
			b.logger.ErrorContext(ctx, "form setup failed",
				slog.String("endpoint", descriptorOf(el, b.markers)),
				slog.Any("error", err),
			)
			page.failures = append(page.failures, Failure{Element: el, Err: err})
			continue
		}
		page.forms = append(page.forms, form)
	}
	b.logger.InfoContext(ctx, "setup complete.")
	return page
}

func (b *Binder) setupForm(ctx context.Context, page *Page, el *dom.Element) (form *Form, err error) {
	defer func() {
		if r := recover(); r != nil {
			form = nil
			err = fmt.Errorf("binder: form setup panicked: %v", r)
		}
	}()

	form = &Form{el: el, markers: b.markers, requestOpts: b.requestOpts}
	req, err := form.Construct()
	if err != nil {
		return nil, err
	}
	b.logger.InfoContext(ctx, "default request", slog.Any("request", req))
	if tpl, _ := form.Template(); tpl.Unterminated() {
		b.logger.WarnContext(ctx, "endpoint has an unterminated placeholder",
			slog.String("endpoint", tpl.String()),
		)
	}

	for _, trigger := range el.QueryAll(b.markers.SubmitAttr) {
		if value, _ := trigger.Attr(b.markers.SubmitAttr); value != b.markers.SubmitValue {
			continue
		}
		page.attach(trigger, form)
	}
	return form, nil
}

func descriptorOf(el *dom.Element, markers Markers) string {
	raw, _ := el.Attr(markers.Endpoint)
	return raw
}

// Page is the result of binding a document.
type Page struct {
	binder *Binder

	mu        sync.Mutex
	forms     []*Form
	failures  []Failure
	triggers  []*dom.Element
	listeners map[*html.Node][]*Form
}

func (p *Page) attach(trigger *dom.Element, form *Form) {
	node := trigger.Node()
	if _, seen := p.listeners[node]; !seen {
		p.triggers = append(p.triggers, trigger)
	}
	p.listeners[node] = append(p.listeners[node], form)
}

// Forms returns the successfully bound forms in document order.
func (p *Page) Forms() []*Form {
	return append([]*Form(nil), p.forms...)
}

// Failures returns the forms whose setup was abandoned.
func (p *Page) Failures() []Failure {
	return append([]Failure(nil), p.failures...)
}

// Triggers returns every element with at least one listener, in the order
// listeners were first attached.
func (p *Page) Triggers() []*dom.Element {
	return append([]*dom.Element(nil), p.triggers...)
}

// Listeners reports how many listeners are attached to el.
func (p *Page) Listeners(el *dom.Element) int {
	if el == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.listeners[el.Node()])
}

// Activate simulates a click on el: every listener attached to it constructs
// its request from the current field values and hands it to the dispatcher
// without waiting for the outcome. Activations are serialized.
func (p *Page) Activate(ctx context.Context, el *dom.Element) error {
	if el == nil {
		return errors.New("binder: activation target is nil")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for _, form := range p.listeners[el.Node()] {
		req, err := form.Construct()
		if err != nil {
			p.binder.logger.ErrorContext(ctx, "request construction failed", slog.Any("error", err))
			errs = append(errs, err)
			continue
		}
		if err := p.binder.dispatcher.Dispatch(ctx, req); err != nil {
			p.binder.logger.ErrorContext(ctx, "request dispatch failed",
				slog.Any("request", req),
				slog.Any("error", err),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
