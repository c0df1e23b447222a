// Package migrations holds the goose SQL files for the Postgres session
// backend. The API applies them on startup; repo tests apply them in TestMain.
package migrations

import "embed"

// FS is handed to goose.NewProvider.
//
//go:embed *.sql
var FS embed.FS
