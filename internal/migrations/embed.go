package migrations

import "embed"

// FS holds one migration directory per database dialect.
// go:embed cannot reach ../ so the SQL lives next to this file.
//
//go:embed postgres mysql sqllite3
var FS embed.FS
