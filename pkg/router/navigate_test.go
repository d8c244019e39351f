package router

import (
	"context"
	"errors"
	"net/url"
	"testing"
)

func TestNavigatePath(t *testing.T) {
	nav := NewNavigator(newConsoleTable(t, "/console/"))

	got, err := nav.Navigate(context.Background(), At("/articles/edit/42/"))
	if err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}
	if got.Match.Entry.Name != "article-edit" || got.Match.Params.Get("id") != "42" {
		t.Errorf("Match = %s %v", got.Match.Entry.Name, got.Match.Params)
	}
	if got.Href != "/console/articles/edit/42" {
		t.Errorf("Href = %q", got.Href)
	}
	if got.Replace {
		t.Error("Replace = true without WithReplace")
	}
	if _, err := got.Future.Wait(context.Background()); err != nil {
		t.Errorf("view load error = %v", err)
	}
}

func TestNavigateNamed(t *testing.T) {
	nav := NewNavigator(newConsoleTable(t, "/"))

	got, err := nav.Navigate(context.Background(),
		To("articles", nil),
		WithReplace(),
		WithQuery(url.Values{"status": {"pending"}}),
	)
	if err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}
	if got.Href != "/articles?status=pending" {
		t.Errorf("Href = %q", got.Href)
	}
	if !got.Replace {
		t.Error("Replace = false with WithReplace")
	}
	if got.Match.Query.Get("status") != "pending" {
		t.Errorf("query = %v", got.Match.Query)
	}
}

func TestNavigateErrors(t *testing.T) {
	nav := NewNavigator(newConsoleTable(t, "/"))
	tests := []struct {
		name    string
		target  Target
		wantErr error
	}{
		{"absolute URL", At("https://evil.example/prompts"), ErrNoRoute},
		{"protocol relative", At("//evil.example"), ErrNoRoute},
		{"relative", At("prompts"), ErrNoRoute},
		{"undeclared", At("/nonexistent"), ErrNoRoute},
		{"unknown name", To("nope", nil), ErrUnknownRoute},
		{"missing param", To("article-edit", nil), ErrMissingParam},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := nav.Navigate(context.Background(), tc.target); !errors.Is(err, tc.wantErr) {
				t.Errorf("Navigate(%s) error = %v, want %v", tc.target, err, tc.wantErr)
			}
		})
	}
}

func TestNavigateCanceledContext(t *testing.T) {
	nav := NewNavigator(newConsoleTable(t, "/"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := nav.Navigate(ctx, At("/")); !errors.Is(err, context.Canceled) {
		t.Errorf("Navigate() error = %v, want context.Canceled", err)
	}
}
