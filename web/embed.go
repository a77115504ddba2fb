// Package web holds the dashboard's templates and static assets.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html
var Templates embed.FS

//go:embed static
var static embed.FS

// Static serves the files under static/.
func Static() http.FileSystem {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
