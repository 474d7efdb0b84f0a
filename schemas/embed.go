// Package schemas embeds the MySQL migrations for the kv_entries store.
package schemas

import "embed"

// Migrations holds the golang-migrate files under migrations/.
//
//go:embed migrations/*.sql
var Migrations embed.FS
