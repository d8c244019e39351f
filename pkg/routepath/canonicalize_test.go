package routepath

import (
	"reflect"
	"testing"
)

func TestCanonicalizePath(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantPath    string
		wantQuery   string
		wantChanged bool
	}{
		{name: "root", input: "/", wantPath: "/"},
		{name: "empty string", input: "", wantPath: "/", wantChanged: true},
		{name: "no leading slash", input: "prompts", wantPath: "/prompts", wantChanged: true},
		{name: "trailing slash", input: "/articles/", wantPath: "/articles", wantChanged: true},
		{name: "edit without id", input: "/articles/edit/", wantPath: "/articles/edit", wantChanged: true},
		{name: "collapse slashes", input: "/articles//generate", wantPath: "/articles/generate", wantChanged: true},
		{name: "single dot", input: "/articles/./generate", wantPath: "/articles/generate", wantChanged: true},
		{name: "double dot", input: "/articles/edit/../generate", wantPath: "/articles/generate", wantChanged: true},
		{name: "double dot to root", input: "/prompts/../", wantPath: "/", wantChanged: true},
		{name: "query preserved", input: "/articles/edit/42?tab=seo", wantPath: "/articles/edit/42", wantQuery: "tab=seo"},
		{name: "normalized path with query", input: "/articles/edit/42/?tab=seo", wantPath: "/articles/edit/42", wantQuery: "tab=seo", wantChanged: true},
		{name: "query escapes not validated", input: "/prompts?bad=%GG", wantPath: "/prompts", wantQuery: "bad=%GG"},
		{name: "valid percent escape", input: "/articles/edit/a%20b", wantPath: "/articles/edit/a%20b"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := CanonicalizePath(tc.input)
			if err != nil {
				t.Fatalf("CanonicalizePath(%q) unexpected error = %v", tc.input, err)
			}
			if result.Path != tc.wantPath {
				t.Errorf("CanonicalizePath(%q).Path = %q, want %q", tc.input, result.Path, tc.wantPath)
			}
			if result.Query != tc.wantQuery {
				t.Errorf("CanonicalizePath(%q).Query = %q, want %q", tc.input, result.Query, tc.wantQuery)
			}
			if result.Changed != tc.wantChanged {
				t.Errorf("CanonicalizePath(%q).Changed = %v, want %v", tc.input, result.Changed, tc.wantChanged)
			}
		})
	}
}

func TestCanonicalizePathErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "backslash", input: "/path\\with\\backslash", wantErr: ErrBackslashInPath},
		{name: "null byte literal", input: "/path/\x00/null", wantErr: ErrNullByteInPath},
		{name: "null byte encoded", input: "/path/%00/null", wantErr: ErrNullByteInPath},
		{name: "incomplete escape", input: "/path/%2", wantErr: ErrInvalidPercentEscape},
		{name: "bad hex escape", input: "/path/%GG", wantErr: ErrInvalidPercentEscape},
		{name: "percent literal", input: "/path/100%", wantErr: ErrInvalidPercentEscape},
		{name: "escape root", input: "/../secret", wantErr: ErrPathEscapesRoot},
		{name: "deep escape root", input: "/a/../../secret", wantErr: ErrPathEscapesRoot},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CanonicalizePath(tc.input)
			if err != tc.wantErr {
				t.Errorf("CanonicalizePath(%q) error = %v, want %v", tc.input, err, tc.wantErr)
			}
		})
	}
}

func TestCanonicalizeAndValidateNavPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "simple path", input: "/prompts", want: "/prompts"},
		{name: "path with query", input: "/articles/edit/7?tab=seo", want: "/articles/edit/7?tab=seo"},
		{name: "root", input: "/", want: "/"},
		{name: "needs canonicalization", input: "/articles/", want: "/articles"},
		{name: "missing leading slash", input: "prompts", wantErr: ErrInvalidPath},
		{name: "http URL", input: "http://evil.com/path", wantErr: ErrInvalidPath},
		{name: "https URL", input: "https://evil.com/path", wantErr: ErrInvalidPath},
		{name: "protocol-relative URL", input: "//evil.com/path", wantErr: ErrInvalidPath},
		{name: "canonicalization failure", input: "/path\\x", wantErr: ErrBackslashInPath},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CanonicalizeAndValidateNavPath(tc.input)
			if err != tc.wantErr {
				t.Fatalf("CanonicalizeAndValidateNavPath(%q) error = %v, want %v", tc.input, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("CanonicalizeAndValidateNavPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestDecodeSegment(t *testing.T) {
	tests := []struct {
		name       string
		segment    string
		isCatchAll bool
		want       string
		wantErr    error
	}{
		{name: "plain", segment: "42", want: "42"},
		{name: "space", segment: "a%20b", want: "a b"},
		{name: "encoded slash rejected", segment: "a%2Fb", wantErr: ErrEncodedSlashInSegment},
		{name: "encoded slash in catch-all", segment: "a%2Fb", isCatchAll: true, want: "a/b"},
		{name: "bad escape", segment: "%zz", wantErr: ErrInvalidPercentEscape},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeSegment(tc.segment, tc.isCatchAll)
			if err != tc.wantErr {
				t.Fatalf("DecodeSegment(%q) error = %v, want %v", tc.segment, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("DecodeSegment(%q) = %q, want %q", tc.segment, got, tc.want)
			}
		})
	}
}

func TestSegments(t *testing.T) {
	if got := Segments("/"); got != nil {
		t.Errorf("Segments(/) = %v, want nil", got)
	}
	want := []string{"articles", "edit", "42"}
	if got := Segments("/articles/edit/42"); !reflect.DeepEqual(got, want) {
		t.Errorf("Segments = %v, want %v", got, want)
	}
}

func TestSplitPathAndQuery(t *testing.T) {
	p, q := SplitPathAndQuery("/prompts?page=2")
	if p != "/prompts" || q != "page=2" {
		t.Errorf("SplitPathAndQuery = (%q, %q)", p, q)
	}
	p, q = SplitPathAndQuery("/prompts")
	if p != "/prompts" || q != "" {
		t.Errorf("SplitPathAndQuery = (%q, %q)", p, q)
	}
}
