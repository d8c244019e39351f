package server

import (
	"crypto/sha256"
	"fmt"
	"net/http"
	"strings"
)

// ClientHandler serves the thin client script with ETag revalidation.
// In dev mode caching is disabled.
func ClientHandler(script []byte, devMode bool) http.Handler {
	return AssetHandler(script, "application/javascript; charset=utf-8", devMode)
}

// AssetHandler serves an embedded asset with ETag revalidation.
func AssetHandler(content []byte, contentType string, devMode bool) http.Handler {
	sum := sha256.Sum256(content)
	etag := fmt.Sprintf("%q", fmt.Sprintf("%x", sum[:8]))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		if len(content) == 0 {
			http.Error(w, "Asset not available", http.StatusInternalServerError)
			return
		}

		w.Header().Set("ETag", etag)
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		if devMode {
			w.Header().Set("Cache-Control", "no-store")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=0, must-revalidate")
		}

		if etagMatches(r.Header.Get("If-None-Match"), etag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(content)
	})
}

func etagMatches(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	if strings.TrimSpace(ifNoneMatch) == "*" {
		return true
	}
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag {
			return true
		}
	}
	return false
}
