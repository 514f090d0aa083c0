// Package migrations embeds SQL migrations for the web sqlite store.
package migrations

import "embed"

// FS holds the embedded migration files.
//
//go:embed *.sql
var FS embed.FS
