package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/geo-dev/geo/internal/errors"
)

const writerSystemPrompt = "You are a brand content writer optimizing articles to be cited by AI assistants. Always respond in valid JSON."

// ArticleRequest describes an article to draft.
type ArticleRequest struct {
	Brand    string
	Keywords []string
	// Question is an optional user prompt the article should answer.
	Question string
}

// Draft is a generated article.
type Draft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// GenerateArticle drafts an article about req.Brand covering req.Keywords.
func (c *Client) GenerateArticle(ctx context.Context, req ArticleRequest) (*Draft, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Write an informative article that features the brand %q.\n", req.Brand)
	if len(req.Keywords) > 0 {
		fmt.Fprintf(&b, "Cover these keywords naturally: %s.\n", strings.Join(req.Keywords, ", "))
	}
	if req.Question != "" {
		fmt.Fprintf(&b, "The article should answer the question: %s\n", req.Question)
	}
	b.WriteString("Return a JSON object with the fields title (string) and content (markdown string).")

	var d Draft
	if err := c.completeJSON(ctx, writerSystemPrompt, b.String(), &d); err != nil {
		return nil, err
	}
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Content) == "" {
		return nil, errors.New("E300").WithDetail("model returned an empty article")
	}
	return &d, nil
}
