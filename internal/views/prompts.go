package views

import (
	"github.com/geo-dev/geo/internal/store"
	. "github.com/geo-dev/geo/pkg/vdom"
	"github.com/geo-dev/geo/pkg/view"
)

func (d Deps) prompts(c *view.Ctx) (*VNode, error) {
	prompts, err := d.Service.ListPrompts(c.Context())
	if err != nil {
		return nil, err
	}
	self := c.Href("prompts", nil)

	return Section(Class("geo-prompts"),
		pageHeading(c, "Prompts"),
		P(Class("geo-lead"), "Each prompt is asked once a day and the answer is scored for brand exposure."),
		apiForm("POST", d.api("/prompts"), self,
			field("Prompt", "content", Textarea(ID("content"), Name("content"), Rows(3), Required(),
				Placeholder("Which tools do you recommend for ..."))),
			field("Category", "category", Input(ID("category"), Name("category"), Type("text"), Placeholder("default"))),
			Button(Type("submit"), Class("geo-button primary"), "Add prompt"),
		),
		IfElse(len(prompts) == 0,
			empty("No prompts yet."),
			Table(Class("geo-table"),
				Thead(Tr(Th("#"), Th("Prompt"), Th("Category"), Th("Updated"), Th())),
				Tbody(Range(prompts, func(p store.Prompt, _ int) *VNode {
					return Tr(
						Td(Textf("%d", p.ID)),
						Td(p.Content),
						Td(Span(Class("geo-tag"), p.Category)),
						Td(formatTime(p.UpdatedAt)),
						Td(actionButton("DELETE", d.apiID("/prompts", p.ID), "Delete", "Delete this prompt and its tasks?")),
					)
				})),
			),
		),
	), nil
}
