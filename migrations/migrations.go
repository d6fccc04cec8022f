// Package migrations embeds the Postgres schema for the visitor-state store
// and the booking submission log.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
