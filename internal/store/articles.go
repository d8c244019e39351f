package store

import (
	"context"
	"database/sql"
	"errors"
)

// ArticleRepo handles articles.
type ArticleRepo struct {
	db *sql.DB
}

func NewArticleRepo(db *sql.DB) *ArticleRepo {
	return &ArticleRepo{db: db}
}

const articleColumns = `id, title, content, target_keywords, publish_status, published_url, created_at, updated_at`

func scanArticle(row interface{ Scan(...any) error }) (Article, error) {
	var a Article
	err := row.Scan(&a.ID, &a.Title, &a.Content, &a.TargetKeywords, &a.PublishStatus, &a.PublishedURL, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *ArticleRepo) List(ctx context.Context) ([]Article, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+articleColumns+` FROM articles ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *ArticleRepo) Get(ctx context.Context, id int64) (Article, error) {
	a, err := scanArticle(r.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Article{}, ErrNotFound
	}
	return a, err
}

// Create inserts a as a pending article.
func (r *ArticleRepo) Create(ctx context.Context, a Article) (Article, error) {
	now := Now()
	a.PublishStatus = ArticlePending
	a.PublishedURL = ""
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO articles(title, content, target_keywords, publish_status, published_url, created_at, updated_at)
	VALUES (?, ?, ?, ?, '', ?, ?)`, a.Title, a.Content, a.TargetKeywords, a.PublishStatus, now, now)
	if err != nil {
		return Article{}, err
	}
	a.ID, err = res.LastInsertId()
	a.CreatedAt, a.UpdatedAt = now, now
	return a, err
}

// Update overwrites the editable fields of an article. Publish state is
// changed only through MarkPublished.
func (r *ArticleRepo) Update(ctx context.Context, a Article) (Article, error) {
	res, err := r.db.ExecContext(ctx, `
	UPDATE articles SET title = ?, content = ?, target_keywords = ?, updated_at = ? WHERE id = ?`,
		a.Title, a.Content, a.TargetKeywords, Now(), a.ID)
	if err != nil {
		return Article{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Article{}, ErrNotFound
	}
	return r.Get(ctx, a.ID)
}

// MarkPublished records the published URL of an article.
func (r *ArticleRepo) MarkPublished(ctx context.Context, id int64, url string) (Article, error) {
	res, err := r.db.ExecContext(ctx, `
	UPDATE articles SET publish_status = ?, published_url = ?, updated_at = ? WHERE id = ?`,
		ArticlePublished, url, Now(), id)
	if err != nil {
		return Article{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Article{}, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *ArticleRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ArticleRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&n)
	return n, err
}
