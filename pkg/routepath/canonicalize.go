// Package routepath normalizes URL paths before they reach the route table.
//
// Matching is only defined on canonical paths: a leading slash, no empty,
// "." or ".." segments, and no trailing slash except for the root. HTTP
// requests for non-canonical paths are redirected to the canonical form, and
// live navigation requests are canonicalized before matching.
package routepath

import (
	"errors"
	"net/url"
	"strings"
)

// CanonicalizeResult contains the result of path canonicalization.
type CanonicalizeResult struct {
	// Path is the canonicalized path (without query string).
	Path string

	// Query is the query string (without leading "?").
	Query string

	// Changed indicates if the path was modified during canonicalization.
	Changed bool
}

// Path canonicalization errors.
var (
	ErrInvalidPath           = errors.New("invalid path")
	ErrBackslashInPath       = errors.New("path contains backslash")
	ErrNullByteInPath        = errors.New("path contains null byte")
	ErrInvalidPercentEscape  = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot       = errors.New("path escapes root via ..")
	ErrEncodedSlashInSegment = errors.New("encoded slash (%2F) in non-catch-all segment")
)

// CanonicalizePath normalizes a URL path.
//
// Trailing slashes are removed (except for root "/"), repeated slashes are
// collapsed, "." segments are dropped and ".." segments are resolved.
// Backslashes, NUL bytes (literal or %00), malformed percent escapes and ".."
// segments that would climb above the root are rejected.
//
// The input may include a query string, which is preserved but not canonicalized.
func CanonicalizePath(input string) (CanonicalizeResult, error) {
	if input == "" {
		return CanonicalizeResult{Path: "/", Changed: true}, nil
	}

	raw, query, _ := strings.Cut(input, "?")

	if strings.Contains(raw, "\\") {
		return CanonicalizeResult{}, ErrBackslashInPath
	}
	if strings.Contains(raw, "\x00") || strings.Contains(strings.ToUpper(raw), "%00") {
		return CanonicalizeResult{}, ErrNullByteInPath
	}
	if strings.Contains(raw, "%") {
		if err := validatePercentEscapes(raw); err != nil {
			return CanonicalizeResult{}, err
		}
	}

	segments := make([]string, 0, strings.Count(raw, "/")+1)
	for _, seg := range strings.Split(raw, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(segments) == 0 {
				return CanonicalizeResult{}, ErrPathEscapesRoot
			}
			segments = segments[:len(segments)-1]
		default:
			segments = append(segments, seg)
		}
	}

	path := "/" + strings.Join(segments, "/")
	return CanonicalizeResult{
		Path:    path,
		Query:   query,
		Changed: path != raw,
	}, nil
}

// validatePercentEscapes checks that every '%' starts a %XX hex escape.
func validatePercentEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// DecodeSegment decodes a single path segment.
// For non-catch-all parameters a decoded "/" (from %2F) is rejected, since it
// would let one parameter smuggle additional path segments.
func DecodeSegment(segment string, isCatchAll bool) (string, error) {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return "", ErrInvalidPercentEscape
	}
	if !isCatchAll && strings.Contains(decoded, "/") {
		return "", ErrEncodedSlashInSegment
	}
	return decoded, nil
}

// Segments splits a canonical path into its raw (still escaped) segments.
// The root path has no segments.
func Segments(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// CanonicalizeAndValidateNavPath canonicalizes a navigation target.
// Targets must be site-relative: absolute and protocol-relative URLs are
// rejected to prevent open redirects.
//
// Returns the canonicalized path with query string, or an error if invalid.
func CanonicalizeAndValidateNavPath(path string) (string, error) {
	if strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "//") ||
		!strings.HasPrefix(path, "/") {
		return "", ErrInvalidPath
	}

	result, err := CanonicalizePath(path)
	if err != nil {
		return "", err
	}
	if result.Query != "" {
		return result.Path + "?" + result.Query, nil
	}
	return result.Path, nil
}

// SplitPathAndQuery splits a path into path and query components.
// The query is returned without the leading "?".
func SplitPathAndQuery(input string) (path, query string) {
	path, query, _ = strings.Cut(input, "?")
	return path, query
}
