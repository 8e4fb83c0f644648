package formbind

import (
	"io/fs"

	"github.com/goliatone/go-formbind/pkg/scaffold"
)

// EmbeddedTemplates exposes the built-in scaffold templates so callers can
// copy or extend them and pass the result to scaffold.WithTemplatesFS.
func EmbeddedTemplates() fs.FS {
	return scaffold.TemplatesFS()
}
