// Package migrations embeds the SQL schema so binaries can migrate without
// the source tree.
package migrations

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed *.sql
var FS embed.FS

// Source returns dir on disk when set, the embedded files otherwise.
func Source(dir string) fs.FS {
	if dir != "" {
		return os.DirFS(dir)
	}
	return FS
}
