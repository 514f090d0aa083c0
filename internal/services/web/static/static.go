// Package static exposes embedded web assets for HTTP serving.
package static

import "embed"

// FS holds the stylesheet and scripts referenced by the page layout.
//
//go:embed *.css *.js
var FS embed.FS
