// Package migrations embeds the SQL schema so tooling and integration tests
// can apply it without filesystem path assumptions.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

// Files lists the migration filenames in apply order.
var Files = []string{
	"0001_init.sql",
}
