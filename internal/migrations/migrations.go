// Package migrations holds the PostgreSQL schema for the storage backend.
package migrations

import "embed"

//go:embed *.up.sql
var FS embed.FS
