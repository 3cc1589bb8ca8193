// Package migrations embeds the ledger service PostgreSQL schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
