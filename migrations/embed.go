// Package migrations holds the versioned SQL schema, embedded so the server
// and tests can migrate without locating files on disk.
package migrations

import "embed"

// FS contains every *.sql migration in this directory
//
//go:embed *.sql
var FS embed.FS
