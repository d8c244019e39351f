package views

import (
	"github.com/geo-dev/geo/internal/highlight"
	"github.com/geo-dev/geo/internal/store"
	. "github.com/geo-dev/geo/pkg/vdom"
	"github.com/geo-dev/geo/pkg/view"
)

// recentResults is the number of scored results shown on the overview.
const recentResults = 5

func (d Deps) home(c *view.Ctx, h *highlight.Highlighter) (*VNode, error) {
	stats, err := d.Service.Stats(c.Context(), recentResults)
	if err != nil {
		return nil, err
	}

	return Section(Class("geo-home"),
		pageHeading(c, "Overview"),
		Div(Class("geo-stats"),
			stat("Prompts", stats.Prompts, link(c, "prompts", nil, "Manage")),
			stat("Pending tasks", stats.Tasks[store.TaskPending], nil),
			stat("Processing", stats.Tasks[store.TaskProcessing], nil),
			stat("Completed", stats.Tasks[store.TaskCompleted], nil),
			stat("Failed", stats.Tasks[store.TaskFailed], nil),
			stat("Articles", stats.Articles, link(c, "articles", nil, "Open")),
		),
		H2("Latest results"),
		IfElse(len(stats.Recent) == 0,
			empty("No results yet. Results appear after the monitor completes a task."),
			Div(Class("geo-results"),
				Range(stats.Recent, func(r store.ScoredResult, _ int) *VNode {
					return d.resultCard(c, h, r)
				}),
			),
		),
	), nil
}

func stat(label string, n int, action *VNode) *VNode {
	return Div(Class("geo-stat"),
		Span(Class("geo-stat-value"), Textf("%d", n)),
		Span(Class("geo-stat-label"), label),
		action,
	)
}

func (d Deps) resultCard(c *view.Ctx, h *highlight.Highlighter, r store.ScoredResult) *VNode {
	var report *VNode
	if r.AnalysisReport != "" {
		html, err := h.JSON(r.AnalysisReport)
		if err != nil {
			c.Logger().Warn("highlight failed", "task_id", r.TaskID, "error", err)
			report = Pre(Class("geo-code"), r.AnalysisReport)
		} else {
			report = Raw(html)
		}
	}

	return Article(Class("geo-result"),
		H3(truncate(r.PromptContent, 120)),
		Dl(Class("geo-metrics"),
			Dt("Brand score"), Dd(formatScore(r.BrandScore)),
			Dt("Mentions"), Dd(Textf("%d", r.ExposureCount)),
			Dt("Rank"), Dd(IfElse(r.ExposureRank > 0, Textf("#%d", r.ExposureRank), Text("-"))),
			Dt("Citations"), Dd(Textf("%d", r.CitationCount)),
			Dt("Scored"), Dd(formatTime(r.CreatedAt)),
		),
		report,
	)
}
