package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/geo-dev/geo/internal/store"
)

// PromptInput carries the writable prompt fields. Nil fields are left
// unchanged on update.
type PromptInput struct {
	Content  *string `json:"content"`
	Category *string `json:"category"`
}

// ListPrompts returns every prompt.
func (s *Service) ListPrompts(ctx context.Context) ([]store.Prompt, error) {
	return s.store.Prompts.List(ctx)
}

// GetPrompt returns one prompt.
func (s *Service) GetPrompt(ctx context.Context, id int64) (store.Prompt, error) {
	return s.store.Prompts.Get(ctx, id)
}

// CreatePrompt stores a new prompt. Content is required.
func (s *Service) CreatePrompt(ctx context.Context, in PromptInput) (store.Prompt, error) {
	var p store.Prompt
	apply(&p, in)
	if strings.TrimSpace(p.Content) == "" {
		return store.Prompt{}, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	return s.store.Prompts.Create(ctx, p)
}

// UpdatePrompt merges in onto the stored prompt.
func (s *Service) UpdatePrompt(ctx context.Context, id int64, in PromptInput) (store.Prompt, error) {
	p, err := s.store.Prompts.Get(ctx, id)
	if err != nil {
		return store.Prompt{}, err
	}
	apply(&p, in)
	if strings.TrimSpace(p.Content) == "" {
		return store.Prompt{}, fmt.Errorf("%w: content must not be empty", ErrInvalidInput)
	}
	return s.store.Prompts.Update(ctx, p)
}

// DeletePrompt removes a prompt and its tasks.
func (s *Service) DeletePrompt(ctx context.Context, id int64) error {
	return s.store.Prompts.Delete(ctx, id)
}

func apply(p *store.Prompt, in PromptInput) {
	if in.Content != nil {
		p.Content = strings.TrimSpace(*in.Content)
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
}
