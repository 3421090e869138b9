package handlers

import (
	"io/fs"
	"net/http"
)

// ServiceWorker serves sw.js from fsys at the site root so its scope covers
// the whole page. Browsers compare it byte for byte to detect a new release.
func ServiceWorker(fsys fs.FS) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Service-Worker-Allowed", "/")
		http.ServeFileFS(w, r, fsys, "sw.js")
	}
}
