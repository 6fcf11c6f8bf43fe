// Package migrations embeds the goose migrations of the SQL user store.
// The statements are written to run unchanged on sqlite and postgres.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
