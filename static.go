package geo

import (
	"net/http"
	"path"
	"strings"

	"github.com/geo-dev/geo/pkg/routepath"
)

// staticRelPath maps a request path under the static prefix to a path inside
// the static directory. Requests that could leave the directory are refused.
func (a *App) staticRelPath(urlPath string) (string, bool) {
	prefix := routepath.JoinBase(a.base, a.staticPrefix)
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	rel, ok := strings.CutPrefix(urlPath, prefix)
	if !ok || rel == "" {
		return "", false
	}
	if strings.ContainsAny(rel, "\\\x00") || strings.HasPrefix(rel, "/") {
		return "", false
	}
	for _, seg := range strings.Split(rel, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", false
		}
	}
	return path.Clean(rel), true
}

// serveStatic serves a file from the static directory.
func (a *App) serveStatic(w http.ResponseWriter, r *http.Request) {
	rel, ok := a.staticRelPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	f, err := a.staticFS.Open(rel)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", cacheControl(a.config.Static.CacheControl, rel))
	for key, value := range a.config.Static.Headers {
		w.Header().Set(key, value)
	}
	http.ServeContent(w, r, rel, info.ModTime(), f)
}

func cacheControl(strategy CacheControlStrategy, file string) string {
	if strategy != CacheControlProduction {
		return "no-store, no-cache, must-revalidate"
	}
	if isFingerprinted(file) {
		return "public, max-age=31536000, immutable"
	}
	return "public, max-age=3600, must-revalidate"
}

// isFingerprinted reports whether the file name carries a content hash, as in
// "console.a1b2c3d4.css".
func isFingerprinted(file string) bool {
	parts := strings.Split(path.Base(file), ".")
	if len(parts) < 3 {
		return false
	}
	hash := parts[len(parts)-2]
	if len(hash) < 8 {
		return false
	}
	for _, c := range hash {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}
