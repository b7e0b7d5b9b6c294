// Package migrations holds the embedded goose migrations for each backend.
package migrations

import "embed"

//go:embed sqlite/*.sql
var FS embed.FS
