package html

import (
	"embed"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded template bundle for consumers that want
// the defaults as a starting point for custom bundles.
func TemplatesFS() embed.FS {
	return embeddedTemplates
}
