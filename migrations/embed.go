// Package migrations holds the goose SQL migrations, embedded so the
// migrate binary works from any directory.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
