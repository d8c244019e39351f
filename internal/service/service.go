// Package service holds the console's use cases on top of the store: prompt
// management, task claiming and scoring, article generation and publishing.
package service

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/geo-dev/geo/internal/llm"
	"github.com/geo-dev/geo/internal/publish"
	"github.com/geo-dev/geo/internal/store"
	"github.com/geo-dev/geo/pkg/render"
)

// ErrInvalidInput marks errors caused by a malformed request.
var ErrInvalidInput = stderrors.New("invalid input")

// ErrUnavailable is returned when an optional backend is not configured.
var ErrUnavailable = stderrors.New("backend not configured")

// Evaluator scores brand exposure in an assistant answer.
type Evaluator interface {
	EvaluateExposure(ctx context.Context, responseText string) (*llm.Exposure, error)
}

// Writer drafts articles.
type Writer interface {
	GenerateArticle(ctx context.Context, req llm.ArticleRequest) (*llm.Draft, error)
}

// Service bundles the use cases.
type Service struct {
	store     *store.Store
	evaluator Evaluator
	writer    Writer
	publisher publish.Publisher
	renderer  *render.Renderer
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithEvaluator sets the exposure evaluator.
func WithEvaluator(e Evaluator) Option {
	return func(s *Service) { s.evaluator = e }
}

// WithWriter sets the article writer.
func WithWriter(w Writer) Option {
	return func(s *Service) { s.writer = w }
}

// WithLLM uses c for both scoring and writing.
func WithLLM(c *llm.Client) Option {
	return func(s *Service) {
		s.evaluator = c
		s.writer = c
	}
}

// WithPublisher sets the article publisher.
func WithPublisher(p publish.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New creates a Service over st.
func New(st *store.Store, opts ...Option) *Service {
	s := &Service{
		store:    st,
		renderer: render.NewRenderer(render.RendererConfig{}),
		logger:   slog.Default().With("component", "service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats summarizes the console for the home view.
type Stats struct {
	Prompts  int
	Articles int
	Tasks    map[string]int
	Recent   []store.ScoredResult
}

// Stats collects counts and the latest scored results.
func (s *Service) Stats(ctx context.Context, recent int) (Stats, error) {
	var st Stats
	var err error
	if st.Prompts, err = s.store.Prompts.Count(ctx); err != nil {
		return st, err
	}
	if st.Articles, err = s.store.Articles.Count(ctx); err != nil {
		return st, err
	}
	if st.Tasks, err = s.store.Tasks.CountByStatus(ctx); err != nil {
		return st, err
	}
	st.Recent, err = s.store.Tasks.RecentResults(ctx, recent)
	return st, err
}
