package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g. Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrDeclined is returned when the user answers no to a submit
	// confirmation.
	ErrDeclined = errors.New("prompt: submission declined")
)
