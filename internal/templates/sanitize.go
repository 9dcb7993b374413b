// Package templates renders the storefront HTML for each legal page type.
//
// Generators take a validated form and return self-contained HTML with
// inline styles, so pages render consistently across Shopify themes. Every
// user-supplied value is escaped before interpolation, and the finished
// document passes through a bluemonday policy as a second line of defense.
package templates

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// policy keeps the structural elements the generators emit and their inline
// styles, stripping anything else that survives escaping.
var policy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("style").Globally()
	return p
}()

// Escape HTML-escapes user-supplied text for interpolation into markup.
func Escape(s string) string {
	return html.EscapeString(s)
}

// NlToBr escapes text and converts newlines to <br> tags, for multi-line
// free-text fields rendered inside block elements.
func NlToBr(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
}

// Clean runs generated HTML through the sanitizer policy.
func Clean(doc string) string {
	return policy.Sanitize(doc)
}
