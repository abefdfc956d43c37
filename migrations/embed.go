// Package migrations embeds the goose SQL migrations.
package migrations

import "embed"

//go:embed roster/*.sql
var FS embed.FS
