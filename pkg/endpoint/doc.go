// Package endpoint parses endpoint descriptors of the form "METHOD /path/{arg}"
// into a method token and a path pattern carrying named placeholders.
//
// Parsing is verbatim: the method keeps the casing it was declared with and the
// path is returned exactly as written. Placeholder well-formedness is not
// checked here; the request builder tolerates unterminated placeholders and
// Template exposes diagnostics for callers that want to warn about them.
package endpoint
