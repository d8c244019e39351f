package views

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/geo-dev/geo/internal/service"
	"github.com/geo-dev/geo/internal/store"
	. "github.com/geo-dev/geo/pkg/vdom"
	"github.com/geo-dev/geo/pkg/view"
)

func (d Deps) articles(c *view.Ctx) (*VNode, error) {
	articles, err := d.Service.ListArticles(c.Context())
	if err != nil {
		return nil, err
	}

	return Section(Class("geo-articles"),
		pageHeading(c, "Articles",
			link(c, "article-generate", nil, Class("geo-button primary"), "Generate article"),
		),
		IfElse(len(articles) == 0,
			empty("No articles yet."),
			Table(Class("geo-table"),
				Thead(Tr(Th("Title"), Th("Keywords"), Th("Status"), Th("Updated"), Th())),
				Tbody(Range(articles, func(a store.Article, _ int) *VNode {
					return d.articleRow(c, a)
				})),
			),
		),
	), nil
}

func (d Deps) articleRow(c *view.Ctx, a store.Article) *VNode {
	published := a.PublishStatus == store.ArticlePublished
	return Tr(
		Td(link(c, "article-edit", idParam(a.ID), a.Title)),
		Td(a.TargetKeywords),
		Td(
			Span(Class("geo-status", a.PublishStatus), a.PublishStatus),
			If(published && a.PublishedURL != "", A(Href(a.PublishedURL), Target("_blank"), Rel("noopener"), Class("geo-external"), "view")),
		),
		Td(formatTime(a.UpdatedAt)),
		Td(
			link(c, "article-edit", idParam(a.ID), Class("geo-button"), "Edit"),
			actionButton("POST", d.apiID("/articles", a.ID)+"/publish", pick(published, "Republish", "Publish"), ""),
			actionButton("DELETE", d.apiID("/articles", a.ID), "Delete", "Delete this article?"),
		),
	)
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

func (d Deps) generate(c *view.Ctx) (*VNode, error) {
	prompts, err := d.Service.ListPrompts(c.Context())
	if err != nil {
		return nil, err
	}

	return Section(Class("geo-generate"),
		pageHeading(c, "Generate article"),
		P(Class("geo-lead"), "The writer drafts an article around your brand and keywords. Drafts are saved as pending."),
		apiForm("POST", d.api("/articles/generate"), c.Href("articles", nil),
			field("Brand", "brand", Input(ID("brand"), Name("brand"), Type("text"), Required())),
			field("Keywords", "keywords", Input(ID("keywords"), Name("keywords"), Type("text"),
				Placeholder("comma separated"))),
			field("Answer prompt", "prompt_id", Select(ID("prompt_id"), Name("prompt_id"), Data("geo-type", "number"),
				Option(Value("0"), "None"),
				Range(prompts, func(p store.Prompt, _ int) *VNode {
					return Option(Value(strconv.FormatInt(p.ID, 10)), truncate(p.Content, 80))
				}),
			)),
			Button(Type("submit"), Class("geo-button primary"), "Generate"),
		),
	), nil
}

func (d Deps) edit(c *view.Ctx) (*VNode, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return articleNotFound(c), nil
	}
	a, err := d.Service.GetArticle(c.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return articleNotFound(c), nil
	}
	if err != nil {
		return nil, err
	}

	return Section(Class("geo-edit"),
		pageHeading(c, a.Title,
			Span(Class("geo-status", a.PublishStatus), a.PublishStatus),
			actionButton("POST", d.apiID("/articles", a.ID)+"/publish", "Publish", ""),
		),
		apiForm("PUT", d.apiID("/articles", a.ID), c.Href("article-edit", idParam(a.ID)),
			field("Title", "title", Input(ID("title"), Name("title"), Type("text"), Value(a.Title), Required())),
			field("Keywords", "target_keywords", Input(ID("target_keywords"), Name("target_keywords"), Type("text"), Value(a.TargetKeywords))),
			field("Content", "content", Textarea(ID("content"), Name("content"), Rows(18), a.Content)),
			Button(Type("submit"), Class("geo-button primary"), "Save"),
		),
		If(a.PublishedURL != "", P(Class("geo-lead"), "Published at ", A(Href(a.PublishedURL), Target("_blank"), Rel("noopener"), a.PublishedURL))),
		H2("Preview"),
		Div(Class("geo-preview"), service.ArticleBody(a.Title, a.Content)),
	), nil
}

func articleNotFound(c *view.Ctx) *VNode {
	c.SetStatus(http.StatusNotFound)
	c.SetTitle("Article not found")
	return Section(Class("geo-not-found"),
		H1("Article not found"),
		P("No article has id ", Code(c.Param("id")), "."),
		P(link(c, "articles", nil, "Back to articles")),
	)
}
