package inline

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

const (
	templateName = "templates/inline.tmpl"

	// StylesheetAsset is the theme asset key holding the inline stylesheet.
	StylesheetAsset = "inline.stylesheet"
)

// TemplatesFS exposes the embedded template bundle so callers can extend or
// override it.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
