package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/geo-dev/geo/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the page content, rendered inside the outlet element.
	Body *vdom.VNode

	// Chrome wraps the outlet (navigation, footer). May be nil.
	Chrome func(outlet *vdom.VNode) *vdom.VNode

	// Title is the page title.
	Title string

	// Meta contains meta tags for the page.
	Meta []MetaTag

	// StyleSheets contains paths to external stylesheets.
	StyleSheets []string

	// Styles contains inline CSS.
	Styles []string

	// Scripts contains script tags appended to the body.
	Scripts []ScriptTag

	// Boot is serialized as JSON into a script tag for the client.
	Boot any

	// Lang is the language attribute for the html element. Defaults to "en".
	Lang string
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name     string
	Content  string
	Property string
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string
	Defer  bool
	Module bool
	Inline string
}

// OutletID is the id of the element whose content live navigation replaces.
const OutletID = "geo-outlet"

// BootID is the id of the script element carrying the boot JSON.
const BootID = "geo-boot"

// RenderPage renders a complete HTML document to w.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n", escapeAttr(lang)); err != nil {
		return err
	}
	if err := r.renderHead(w, page); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "<body>\n"); err != nil {
		return err
	}

	outlet := vdom.Main(vdom.ID(OutletID), page.Body)
	root := outlet
	if page.Chrome != nil {
		root = page.Chrome(outlet)
	}
	if err := r.RenderToWriter(w, root); err != nil {
		return err
	}

	if page.Boot != nil {
		data, err := json.Marshal(page.Boot)
		if err != nil {
			return fmt.Errorf("render: boot data: %w", err)
		}
		// json.Marshal escapes <, > and &, so data cannot close the element.
		if _, err := fmt.Fprintf(w, "<script id=\"%s\" type=\"application/json\">%s</script>\n", BootID, data); err != nil {
			return err
		}
	}
	for _, s := range page.Scripts {
		if err := renderScriptTag(w, s); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}

func (r *Renderer) renderHead(w io.Writer, page PageData) error {
	if _, err := io.WriteString(w, "<head>\n  <meta charset=\"utf-8\">\n  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n"); err != nil {
		return err
	}
	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", escapeHTML(page.Title)); err != nil {
			return err
		}
	}
	for _, m := range page.Meta {
		key, val := "name", m.Name
		if m.Property != "" {
			key, val = "property", m.Property
		}
		if _, err := fmt.Fprintf(w, "  <meta %s=\"%s\" content=\"%s\">\n", key, escapeAttr(val), escapeAttr(m.Content)); err != nil {
			return err
		}
	}
	for _, href := range page.StyleSheets {
		if _, err := fmt.Fprintf(w, "  <link rel=\"stylesheet\" href=\"%s\">\n", escapeAttr(href)); err != nil {
			return err
		}
	}
	for _, style := range page.Styles {
		if _, err := fmt.Fprintf(w, "  <style>%s</style>\n", style); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</head>\n")
	return err
}

func renderScriptTag(w io.Writer, s ScriptTag) error {
	if s.Inline != "" {
		_, err := fmt.Fprintf(w, "<script>%s</script>\n", s.Inline)
		return err
	}
	attrs := fmt.Sprintf(` src="%s"`, escapeAttr(s.Src))
	if s.Module {
		attrs += ` type="module"`
	}
	if s.Defer {
		attrs += " defer"
	}
	_, err := fmt.Fprintf(w, "<script%s></script>\n", attrs)
	return err
}
