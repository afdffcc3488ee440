// Package migrations holds the versioned SQLite schema and applies it.
//
// Files are named NNN_name.up.sql. Applied versions are recorded in
// schema_migrations.
package migrations

import "embed"

//go:embed *.sql
var files embed.FS
