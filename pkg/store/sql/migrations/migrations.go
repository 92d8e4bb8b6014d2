// Package migrations holds the embedded postgres schema migrations.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
