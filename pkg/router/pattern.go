package router

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/geo-dev/geo/pkg/routepath"
)

type segmentKind uint8

const (
	segStatic segmentKind = iota
	segParam
	segCatchAll
)

type segment struct {
	kind  segmentKind
	value string // literal for static segments, name for parameters
	typ   string
}

// pattern is a compiled route path.
type pattern struct {
	raw      string
	segments []segment
	params   []string
}

var knownParamTypes = map[string]bool{
	"": true, "string": true, "uuid": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
}

var errPattern = errors.New("invalid pattern")

func parsePattern(raw string) (pattern, error) {
	p := pattern{raw: raw}
	if !strings.HasPrefix(raw, "/") {
		return p, fmt.Errorf("%w: %q must start with /", errPattern, raw)
	}
	if raw != "/" && strings.HasSuffix(raw, "/") {
		return p, fmt.Errorf("%w: %q has a trailing slash", errPattern, raw)
	}

	parts := routepath.Segments(raw)
	seen := make(map[string]bool, len(parts))
	for i, part := range parts {
		var seg segment
		switch {
		case part == "":
			return p, fmt.Errorf("%w: %q has an empty segment", errPattern, raw)
		case part == "." || part == "..":
			return p, fmt.Errorf("%w: %q has a relative segment", errPattern, raw)
		case strings.HasPrefix(part, "*"):
			if i != len(parts)-1 {
				return p, fmt.Errorf("%w: catch-all %q must be the last segment", errPattern, part)
			}
			seg = segment{kind: segCatchAll, value: part[1:]}
		case strings.HasPrefix(part, ":"):
			name, typ, _ := strings.Cut(part[1:], ":")
			if !knownParamTypes[typ] {
				return p, fmt.Errorf("%w: unknown parameter type %q in %q", errPattern, typ, raw)
			}
			seg = segment{kind: segParam, value: name, typ: typ}
		default:
			if strings.ContainsAny(part, ":*?#") {
				return p, fmt.Errorf("%w: reserved character in static segment %q", errPattern, part)
			}
			seg = segment{kind: segStatic, value: part}
		}

		if seg.kind != segStatic {
			if !isIdent(seg.value) {
				return p, fmt.Errorf("%w: invalid parameter name %q in %q", errPattern, seg.value, raw)
			}
			if seen[seg.value] {
				return p, fmt.Errorf("%w: duplicate parameter %q in %q", errPattern, seg.value, raw)
			}
			seen[seg.value] = true
			p.params = append(p.params, seg.value)
		}
		p.segments = append(p.segments, seg)
	}
	return p, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

// match tests the raw segments of a canonical path. A parameter whose value
// fails to decode or does not satisfy its type makes the pattern not match,
// so later entries still get a chance.
func (p pattern) match(parts []string) (Params, bool) {
	params := Params{}
	i := 0
	for _, seg := range p.segments {
		switch seg.kind {
		case segStatic:
			if i >= len(parts) || parts[i] != seg.value {
				return nil, false
			}
			i++
		case segParam:
			if i >= len(parts) || parts[i] == "" {
				return nil, false
			}
			v, err := routepath.DecodeSegment(parts[i], false)
			if err != nil || ValidateParam(v, seg.typ) != nil {
				return nil, false
			}
			params[seg.value] = v
			i++
		case segCatchAll:
			v, err := routepath.DecodeSegment(strings.Join(parts[i:], "/"), true)
			if err != nil {
				return nil, false
			}
			params[seg.value] = v
			i = len(parts)
		}
	}
	if i != len(parts) {
		return nil, false
	}
	return params, true
}

// build renders the pattern with params substituted and escaped.
func (p pattern) build(params map[string]string) (string, error) {
	if len(p.segments) == 0 {
		return "/", nil
	}
	var b strings.Builder
	for _, seg := range p.segments {
		b.WriteByte('/')
		switch seg.kind {
		case segStatic:
			b.WriteString(seg.value)
		case segParam:
			v, ok := params[seg.value]
			if !ok || v == "" {
				return "", &paramError{name: seg.value, missing: true}
			}
			if err := ValidateParam(v, seg.typ); err != nil {
				return "", &paramError{name: seg.value, err: err}
			}
			b.WriteString(url.PathEscape(v))
		case segCatchAll:
			v := strings.Trim(params[seg.value], "/")
			parts := strings.Split(v, "/")
			for j, part := range parts {
				if j > 0 {
					b.WriteByte('/')
				}
				b.WriteString(url.PathEscape(part))
			}
		}
	}
	out := b.String()
	if len(out) > 1 {
		out = strings.TrimSuffix(out, "/")
	}
	return out, nil
}

type paramError struct {
	name    string
	missing bool
	err     error
}

func (e *paramError) Error() string {
	if e.missing {
		return fmt.Sprintf("missing parameter %q", e.name)
	}
	return fmt.Sprintf("parameter %q: %v", e.name, e.err)
}

func (e *paramError) Unwrap() error { return e.err }
