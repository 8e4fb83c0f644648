package endpoint

import (
	"errors"
	"fmt"
)

// ErrMalformedEndpoint matches every *MalformedEndpointError via errors.Is.
var ErrMalformedEndpoint = errors.New("endpoint: malformed descriptor")

// MalformedEndpointError reports a descriptor that does not conform to
// "METHOD path".
type MalformedEndpointError struct {
	Descriptor string
}

func (e *MalformedEndpointError) Error() string {
	return fmt.Sprintf("endpoint: malformed descriptor %q: expected \"METHOD path\"", e.Descriptor)
}

// Is lets errors.Is(err, ErrMalformedEndpoint) succeed.
func (e *MalformedEndpointError) Is(target error) bool {
	return target == ErrMalformedEndpoint
}
