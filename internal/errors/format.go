package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ANSI color codes for terminal output.
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorBlue  = "\033[34m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// colorEnabled controls whether ANSI colors are used.
var colorEnabled = true

// DisableColors disables ANSI color output.
func DisableColors() {
	colorEnabled = false
}

// EnableColors enables ANSI color output.
func EnableColors() {
	colorEnabled = true
}

func color(code, text string) string {
	if !colorEnabled {
		return text
	}
	return code + text + colorReset
}

// Format returns a multi-line error message for terminal display.
func (e *GeoError) Format() string {
	var b strings.Builder

	b.WriteString("\n")
	if e.Code != "" {
		b.WriteString(color(colorRed+colorBold, "ERROR "+e.Code+": "))
	} else {
		b.WriteString(color(colorRed+colorBold, "ERROR: "))
	}
	b.WriteString(e.Message)
	b.WriteString("\n\n")

	if e.Detail != "" {
		writeWrapped(&b, e.Detail)
	}
	if t, ok := registry[e.Code]; ok && t.Explain != "" {
		writeWrapped(&b, t.Explain)
	}
	if e.Wrapped != nil {
		b.WriteString("  ")
		b.WriteString(color(colorGray, "Cause: "))
		b.WriteString(e.Wrapped.Error())
		b.WriteString("\n\n")
	}
	if e.Suggestion != "" {
		b.WriteString("  ")
		b.WriteString(color(colorCyan, "Hint: "))
		b.WriteString(e.Suggestion)
		b.WriteString("\n\n")
	}
	if e.DocURL != "" {
		b.WriteString("  ")
		b.WriteString(color(colorGray, "Learn more: "))
		b.WriteString(color(colorBlue, e.DocURL))
		b.WriteString("\n")
	}

	return b.String()
}

// FormatCompact returns a compact single-line error format.
func (e *GeoError) FormatCompact() string {
	var b strings.Builder
	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Detail != "" {
		b.WriteString(" (")
		b.WriteString(e.Detail)
		b.WriteString(")")
	}
	return b.String()
}

// FormatJSON returns the error as a JSON object.
func (e *GeoError) FormatJSON() string {
	var b strings.Builder
	b.WriteString("{")
	if e.Code != "" {
		fmt.Fprintf(&b, `"code":%q,`, e.Code)
	}
	fmt.Fprintf(&b, `"category":%q,`, e.Category)
	fmt.Fprintf(&b, `"message":%q`, e.Message)
	if e.Detail != "" {
		fmt.Fprintf(&b, `,"detail":%q`, e.Detail)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, `,"suggestion":%q`, e.Suggestion)
	}
	if e.DocURL != "" {
		fmt.Fprintf(&b, `,"docUrl":%q`, e.DocURL)
	}
	b.WriteString("}")
	return b.String()
}

func writeWrapped(b *strings.Builder, text string) {
	for _, line := range wrapText(text, 70) {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// wrapText wraps text to the specified width.
func wrapText(text string, width int) []string {
	if text == "" {
		return nil
	}
	if len(text) <= width {
		return []string{text}
	}

	var lines []string
	var current strings.Builder
	for _, word := range strings.Fields(text) {
		if current.Len() > 0 && current.Len()+len(word)+1 > width {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// PrintError prints a formatted error to stderr.
func PrintError(err error) {
	FprintError(os.Stderr, err)
}

// FprintError prints a formatted error to w.
func FprintError(w io.Writer, err error) {
	var ge *GeoError
	if stderrors.As(err, &ge) {
		fmt.Fprint(w, ge.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", color(colorRed+colorBold, "ERROR:"), err.Error())
}
