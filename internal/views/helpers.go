package views

import (
	"fmt"
	"strconv"
	"time"

	. "github.com/geo-dev/geo/pkg/vdom"
	"github.com/geo-dev/geo/pkg/view"
)

// link renders an anchor the client script navigates live.
func link(c *view.Ctx, name string, params map[string]string, args ...any) *VNode {
	return A(append([]any{Href(c.Href(name, params)), Data("geo-link", name)}, args...)...)
}

// apiForm renders a form the client script submits as JSON. On success the
// client navigates to redirect.
func apiForm(method, action, redirect string, children ...any) *VNode {
	return Form(append([]any{
		Class("geo-form"),
		Method("post"),
		Action(action),
		Data("geo-form", method),
		If(redirect != "", Data("geo-redirect", redirect)),
	}, children...)...)
}

// actionButton renders a button that sends one API request.
func actionButton(method, url, label, confirm string, args ...any) *VNode {
	return Button(append([]any{
		Type("button"),
		Class("geo-button"),
		Data("geo-action", url),
		Data("geo-method", method),
		If(confirm != "", Data("geo-confirm", confirm)),
		label,
	}, args...)...)
}

func field(label, name string, control *VNode) *VNode {
	return Div(Class("geo-field"),
		Label(For(name), label),
		control,
	)
}

func pageHeading(c *view.Ctx, title string, actions ...any) *VNode {
	c.SetTitle(title)
	return Div(Class("geo-heading"),
		H1(title),
		Div(append([]any{Class("geo-actions")}, actions...)...),
	)
}

func empty(msg string) *VNode {
	return P(Class("geo-empty"), msg)
}

func errorBox(err error) *VNode {
	return Div(Class("geo-error"), Role("alert"), err.Error())
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func idParam(id int64) map[string]string {
	return map[string]string{"id": strconv.FormatInt(id, 10)}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return fmt.Sprintf("%s…", string(r[:n]))
}
