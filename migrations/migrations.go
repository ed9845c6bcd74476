// Package migrations embebe el esquema SQL para que los binarios lo apliquen sin archivos sueltos.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
