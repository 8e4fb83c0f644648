package dom

import (
	"html"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

func stripMarkup(markup string) string {
	if markup == "" {
		return ""
	}
	return html.UnescapeString(textSanitizer().Sanitize(markup))
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
