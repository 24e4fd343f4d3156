// Package migrations embeds the journal schema migration files.
package migrations

import "embed"

// FS holds the SQL migration files applied by golang-migrate.
//
//go:embed *.sql
var FS embed.FS
