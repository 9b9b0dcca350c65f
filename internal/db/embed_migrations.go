// Package db holds the SQL schema migrations for every supported driver.
package db

import "embed"

// MigrationFS : migrations/<driver>/*.sql
//
//go:embed migrations
var MigrationFS embed.FS
