// Package migrations holds the schema for every supported dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql oracle/*.sql
var FS embed.FS
