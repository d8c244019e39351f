package routepath

import "strings"

// NormalizeBase turns a configured base path into the form "/", "/a/" or
// "/a/b/". Empty input and "." (as produced by some bundlers) mean root.
func NormalizeBase(base string) string {
	base = strings.TrimSpace(base)
	if base == "" || base == "." || base == "./" {
		return "/"
	}
	var parts []string
	for _, seg := range strings.Split(base, "/") {
		if seg != "" && seg != "." {
			parts = append(parts, seg)
		}
	}
	if len(parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(parts, "/") + "/"
}

// StripBase removes base from an incoming request path. It reports false when
// the path lies outside base. The bare base without its trailing slash
// ("/console" for base "/console/") maps to the root path.
func StripBase(base, path string) (string, bool) {
	base = NormalizeBase(base)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if base == "/" {
		return path, true
	}
	if path == strings.TrimSuffix(base, "/") {
		return "/", true
	}
	if !strings.HasPrefix(path, base) {
		return "", false
	}
	return "/" + strings.TrimPrefix(path, base), true
}

// JoinBase prefixes an application path with base.
func JoinBase(base, path string) string {
	base = NormalizeBase(base)
	if path == "" || path == "/" {
		return base
	}
	return base + strings.TrimPrefix(path, "/")
}
