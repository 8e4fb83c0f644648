package dispatch

import (
	"context"

	"github.com/goliatone/go-formbind/pkg/request"
)

// Dispatcher hands a constructed request to the network. Implementations must
// not block on the response: the caller never inspects the outcome.
type Dispatcher interface {
	Dispatch(ctx context.Context, req request.Descriptor) error
}

// Func adapts a function to the Dispatcher interface.
type Func func(ctx context.Context, req request.Descriptor) error

// Dispatch calls f.
func (f Func) Dispatch(ctx context.Context, req request.Descriptor) error {
	return f(ctx, req)
}

// Discard drops every request.
var Discard Dispatcher = Func(func(context.Context, request.Descriptor) error { return nil })
