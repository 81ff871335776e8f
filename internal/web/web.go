// Package web отдает статическую лендинг-страницу и скрипт контактной формы.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
)

//go:embed static
var static embed.FS

// FS возвращает встроенные файлы сайта или каталог dir, если он задан (для локальной правки без пересборки).
func FS(dir string) (fs.FS, error) {
	if dir != "" {
		return os.DirFS(dir), nil
	}
	return fs.Sub(static, "static")
}

// Handler отдает файлы сайта.
func Handler(files fs.FS) http.Handler {
	fileServer := http.FileServer(http.FS(files))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		fileServer.ServeHTTP(w, r)
	})
}
