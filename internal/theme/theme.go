// Package theme describes one visual theme on disk.
//
//	themes/<name>/
//	  layouts/   base.html and other page shells ({{ define "base" }})
//	  partials/  shared fragments ({{ define "header" }}, …)
//	  pages/     one file per page, each defining "content" and "title"
//	  assets/    css, js, images, served under /assets/
//
// A Theme only knows paths.  Parsing and caching template sets is the view
// engine's job; the theme contributes the Asset helper, which appends a
// content fingerprint so browsers can cache assets indefinitely.
package theme

import (
	"net/http"
	"path/filepath"
	"sync"
)

// Theme is returned by Manager.Load.
type Theme struct {
	Name string
	Root string

	mu   sync.RWMutex
	sums map[string]string // asset path → fingerprint
}

// New constructs a Theme rooted at root.
func New(name, root string) *Theme {
	return &Theme{Name: name, Root: root, sums: make(map[string]string)}
}

// SharedFiles returns every layout and partial template, parsed into each
// page set.
func (t *Theme) SharedFiles() ([]string, error) {
	var out []string
	for _, sub := range []string{"layouts", "partials"} {
		files, err := templateFiles(filepath.Join(t.Root, sub))
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}

// PageFile returns the path of pages/<name>.html.
func (t *Theme) PageFile(name string) string {
	return filepath.Join(t.Root, "pages", filepath.FromSlash(name)+".html")
}

// AssetDir is the directory served under /assets/.
func (t *Theme) AssetDir() string { return filepath.Join(t.Root, "assets") }

// AssetHandler serves AssetDir.  Mount it with http.StripPrefix("/assets/").
func (t *Theme) AssetHandler() http.Handler {
	fs := http.FileServer(http.Dir(t.AssetDir()))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("v") != "" {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		}
		fs.ServeHTTP(w, r)
	})
}
