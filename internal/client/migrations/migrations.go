// Package migrations embeds the client's local database schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
