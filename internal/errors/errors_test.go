package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "routing error",
			code:    "E100",
			wantMsg: "No route matches path",
			wantCat: CategoryRouting,
		},
		{
			name:    "config error",
			code:    "E120",
			wantMsg: "Invalid configuration file",
			wantCat: CategoryConfig,
		},
		{
			name:    "store error",
			code:    "E201",
			wantMsg: "Migration failed",
			wantCat: CategoryStore,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestGeoError_Error(t *testing.T) {
	err := New("E101").WithDetail(`"home" declared twice`)
	want := `E101: Duplicate route name: "home" declared twice`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &GeoError{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestGeoError_Unwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := New("E201").Wrap(cause)
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E100") != nil {
		t.Error("FromError(nil) should be nil")
	}

	ge := New("E103")
	wrapped := fmt.Errorf("navigate: %w", ge)
	if got := FromError(wrapped, "E100"); got != ge {
		t.Error("FromError should return the GeoError already in the chain")
	}

	plain := stderrors.New("boom")
	got := FromError(plain, "E300")
	if got.Code != "E300" || !stderrors.Is(got, plain) {
		t.Errorf("FromError(plain) = %v, want E300 wrapping cause", got)
	}
}

func TestCode(t *testing.T) {
	err := fmt.Errorf("match: %w", New("E100"))
	if got := Code(err); got != "E100" {
		t.Errorf("Code() = %q, want E100", got)
	}
	if got := Code(stderrors.New("x")); got != "" {
		t.Errorf("Code() = %q, want empty", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E101").
		WithDetail(`route name "prompts" is declared twice`).
		WithSuggestion("Give every route entry a unique name")

	out := err.Format()
	for _, want := range []string{
		"ERROR E101: Duplicate route name",
		`route name "prompts" is declared twice`,
		"Hint: Give every route entry a unique name",
		"Learn more: https://geo.dev/docs/errors/E101",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatCompactAndJSON(t *testing.T) {
	err := New("E104").WithDetail("id")
	if got := err.FormatCompact(); got != "E104: Missing route parameter (id)" {
		t.Errorf("FormatCompact() = %q", got)
	}
	js := err.FormatJSON()
	if !strings.Contains(js, `"code":"E104"`) || !strings.Contains(js, `"category":"routing"`) {
		t.Errorf("FormatJSON() = %s", js)
	}
}

func TestFprintErrorPlain(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	FprintError(&buf, stderrors.New("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 30), 20)
	for _, l := range lines {
		if len(l) > 20 {
			t.Errorf("line too long: %q", l)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should produce no lines")
	}
}

func TestGetAllCodesSorted(t *testing.T) {
	codes := GetAllCodes()
	for i := 1; i < len(codes); i++ {
		if codes[i-1] > codes[i] {
			t.Fatalf("codes not sorted: %v", codes)
		}
	}
	if _, ok := GetTemplate("E100"); !ok {
		t.Error("E100 should be registered")
	}
}
