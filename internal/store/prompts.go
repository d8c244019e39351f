package store

import (
	"context"
	"database/sql"
	"errors"
)

// PromptRepo handles prompts.
type PromptRepo struct {
	db *sql.DB
}

func NewPromptRepo(db *sql.DB) *PromptRepo {
	return &PromptRepo{db: db}
}

const promptColumns = `id, content, category, created_at, updated_at`

func scanPrompt(row interface{ Scan(...any) error }) (Prompt, error) {
	var p Prompt
	err := row.Scan(&p.ID, &p.Content, &p.Category, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PromptRepo) List(ctx context.Context) ([]Prompt, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+promptColumns+` FROM prompts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Prompt{}
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PromptRepo) Get(ctx context.Context, id int64) (Prompt, error) {
	p, err := scanPrompt(r.db.QueryRowContext(ctx, `SELECT `+promptColumns+` FROM prompts WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Prompt{}, ErrNotFound
	}
	return p, err
}

// Create inserts p and returns it with its id and timestamps.
func (r *PromptRepo) Create(ctx context.Context, p Prompt) (Prompt, error) {
	if p.Category == "" {
		p.Category = "default"
	}
	now := Now()
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO prompts(content, category, created_at, updated_at)
	VALUES (?, ?, ?, ?)`, p.Content, p.Category, now, now)
	if err != nil {
		return Prompt{}, err
	}
	p.ID, err = res.LastInsertId()
	p.CreatedAt, p.UpdatedAt = now, now
	return p, err
}

// Update overwrites content and category of an existing prompt.
func (r *PromptRepo) Update(ctx context.Context, p Prompt) (Prompt, error) {
	now := Now()
	res, err := r.db.ExecContext(ctx, `
	UPDATE prompts SET content = ?, category = ?, updated_at = ? WHERE id = ?`,
		p.Content, p.Category, now, p.ID)
	if err != nil {
		return Prompt{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Prompt{}, ErrNotFound
	}
	return r.Get(ctx, p.ID)
}

func (r *PromptRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM prompts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PromptRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM prompts`).Scan(&n)
	return n, err
}
