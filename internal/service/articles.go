package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/geo-dev/geo/internal/llm"
	"github.com/geo-dev/geo/internal/publish"
	"github.com/geo-dev/geo/internal/store"
	"github.com/geo-dev/geo/pkg/render"
)

// ArticleInput carries the writable article fields. Nil fields are left
// unchanged on update.
type ArticleInput struct {
	Title          *string `json:"title"`
	Content        *string `json:"content"`
	TargetKeywords *string `json:"target_keywords"`
}

// GenerateInput asks the writer for a new article.
type GenerateInput struct {
	Brand    string `json:"brand"`
	Keywords string `json:"keywords"`
	// PromptID optionally names a prompt the article should answer.
	PromptID int64 `json:"prompt_id"`
}

// ListArticles returns every article, newest first.
func (s *Service) ListArticles(ctx context.Context) ([]store.Article, error) {
	return s.store.Articles.List(ctx)
}

// GetArticle returns one article.
func (s *Service) GetArticle(ctx context.Context, id int64) (store.Article, error) {
	return s.store.Articles.Get(ctx, id)
}

// CreateArticle stores a hand-written article as pending.
func (s *Service) CreateArticle(ctx context.Context, in ArticleInput) (store.Article, error) {
	var a store.Article
	applyArticle(&a, in)
	if err := validateArticle(a); err != nil {
		return store.Article{}, err
	}
	return s.store.Articles.Create(ctx, a)
}

// UpdateArticle merges in onto the stored article.
func (s *Service) UpdateArticle(ctx context.Context, id int64, in ArticleInput) (store.Article, error) {
	a, err := s.store.Articles.Get(ctx, id)
	if err != nil {
		return store.Article{}, err
	}
	applyArticle(&a, in)
	if err := validateArticle(a); err != nil {
		return store.Article{}, err
	}
	return s.store.Articles.Update(ctx, a)
}

// DeleteArticle removes an article.
func (s *Service) DeleteArticle(ctx context.Context, id int64) error {
	return s.store.Articles.Delete(ctx, id)
}

// GenerateArticle drafts an article with the writer and stores it as pending.
func (s *Service) GenerateArticle(ctx context.Context, in GenerateInput) (store.Article, error) {
	if s.writer == nil {
		return store.Article{}, fmt.Errorf("%w: no article writer", ErrUnavailable)
	}
	brand := strings.TrimSpace(in.Brand)
	if brand == "" {
		return store.Article{}, fmt.Errorf("%w: brand is required", ErrInvalidInput)
	}
	keywords := splitKeywords(in.Keywords)

	req := llm.ArticleRequest{Brand: brand, Keywords: keywords}
	if in.PromptID != 0 {
		p, err := s.store.Prompts.Get(ctx, in.PromptID)
		if err != nil {
			return store.Article{}, err
		}
		req.Question = p.Content
	}

	draft, err := s.writer.GenerateArticle(ctx, req)
	if err != nil {
		return store.Article{}, err
	}
	a, err := s.store.Articles.Create(ctx, store.Article{
		Title:          draft.Title,
		Content:        draft.Content,
		TargetKeywords: strings.Join(keywords, ", "),
	})
	if err != nil {
		return store.Article{}, err
	}
	s.logger.Info("generated article", "article_id", a.ID, "brand", brand)
	return a, nil
}

// PublishArticle renders the article to a standalone HTML page, uploads it
// and marks the article published.
func (s *Service) PublishArticle(ctx context.Context, id int64) (store.Article, error) {
	if s.publisher == nil {
		return store.Article{}, fmt.Errorf("%w: no publisher", ErrUnavailable)
	}
	a, err := s.store.Articles.Get(ctx, id)
	if err != nil {
		return store.Article{}, err
	}

	body, err := s.RenderArticle(a)
	if err != nil {
		return store.Article{}, err
	}
	key := fmt.Sprintf("%d.html", a.ID)
	if slug := publish.Slug(a.Title); slug != "" {
		key = fmt.Sprintf("%d-%s.html", a.ID, slug)
	}
	url, err := s.publisher.Publish(ctx, publish.Document{
		Key:         key,
		ContentType: "text/html; charset=utf-8",
		Body:        body,
	})
	if err != nil {
		s.logger.Error("publish failed", "article_id", a.ID, "error", err)
		return store.Article{}, err
	}
	s.logger.Info("published article", "article_id", a.ID, "url", url)
	return s.store.Articles.MarkPublished(ctx, a.ID, url)
}

// RenderArticle renders a as a complete HTML document.
func (s *Service) RenderArticle(a store.Article) ([]byte, error) {
	var meta []render.MetaTag
	if a.TargetKeywords != "" {
		meta = append(meta, render.MetaTag{Name: "keywords", Content: a.TargetKeywords})
	}
	meta = append(meta, render.MetaTag{Property: "og:title", Content: a.Title})

	var buf bytes.Buffer
	err := s.renderer.RenderPage(&buf, render.PageData{
		Title: a.Title,
		Meta:  meta,
		Body:  ArticleBody(a.Title, a.Content),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func applyArticle(a *store.Article, in ArticleInput) {
	if in.Title != nil {
		a.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		a.Content = *in.Content
	}
	if in.TargetKeywords != nil {
		a.TargetKeywords = strings.Join(splitKeywords(*in.TargetKeywords), ", ")
	}
}

func validateArticle(a store.Article) error {
	if a.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return nil
}

func splitKeywords(s string) []string {
	var out []string
	for _, k := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' || r == ';' }) {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
