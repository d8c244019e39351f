package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// TaskRepo handles tasks, results and citations.
type TaskRepo struct {
	db *sql.DB
}

func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

const taskColumns = `t.id, t.prompt_id, t.status, t.last_run, t.retry_count, t.created_at, t.updated_at`

func scanTask(row interface{ Scan(...any) error }, extra ...any) (Task, error) {
	var t Task
	var lastRun sql.NullTime
	dest := append([]any{&t.ID, &t.PromptID, &t.Status, &lastRun, &t.RetryCount, &t.CreatedAt, &t.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return Task{}, err
	}
	if lastRun.Valid {
		lr := lastRun.Time
		t.LastRun = &lr
	}
	return t, nil
}

// GenerateForAllPrompts creates one pending task per prompt and returns the
// number created.
func (r *TaskRepo) GenerateForAllPrompts(ctx context.Context) (int, error) {
	now := Now()
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO tasks(prompt_id, status, created_at, updated_at)
	SELECT id, ?, ?, ? FROM prompts ORDER BY id`, TaskPending, now, now)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// ClaimPending moves every pending task to processing in one transaction and
// returns the claimed tasks with their prompts.
func (r *TaskRepo) ClaimPending(ctx context.Context) ([]Task, error) {
	out := []Task{}
	err := WithTx(ctx, r.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
		SELECT `+taskColumns+`, p.id, p.content, p.category, p.created_at, p.updated_at
		FROM tasks t JOIN prompts p ON p.id = t.prompt_id
		WHERE t.status = ? ORDER BY t.id`, TaskPending)
		if err != nil {
			return err
		}
		for rows.Next() {
			var p Prompt
			t, err := scanTask(rows, &p.ID, &p.Content, &p.Category, &p.CreatedAt, &p.UpdatedAt)
			if err != nil {
				rows.Close()
				return err
			}
			t.Prompt = &p
			out = append(out, t)
		}
		if err := rows.Close(); err != nil {
			return err
		}
		if err := rows.Err(); err != nil {
			return err
		}

		now := Now()
		for i := range out {
			if _, err := tx.ExecContext(ctx, `UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`,
				TaskProcessing, now, out[i].ID); err != nil {
				return err
			}
			out[i].Status = TaskProcessing
			out[i].UpdatedAt = now
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TaskRepo) Get(ctx context.Context, id int64) (Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks t WHERE t.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return t, err
}

// CountByStatus returns the number of tasks per status.
func (r *TaskRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM tasks GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}

// Outcome is what a worker reports for a task.
type Outcome struct {
	Status    string
	RunAt     time.Time
	Result    *Result
	Citations []Citation
}

// RecordOutcome updates the task status and last run, and stores the result
// and citations, all in one transaction. A failed outcome increments the
// retry count.
func (r *TaskRepo) RecordOutcome(ctx context.Context, taskID int64, o Outcome) error {
	if o.RunAt.IsZero() {
		o.RunAt = Now()
	}
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		retry := 0
		if o.Status == TaskFailed {
			retry = 1
		}
		res, err := tx.ExecContext(ctx, `
		UPDATE tasks SET status = ?, last_run = ?, retry_count = retry_count + ?, updated_at = ?
		WHERE id = ?`, o.Status, o.RunAt, retry, o.RunAt, taskID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}

		if o.Result != nil {
			res := o.Result
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO results(task_id, response_text, brand_score, exposure_count, exposure_rank, analysis_report, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(task_id) DO UPDATE SET
			 response_text=excluded.response_text,
			 brand_score=excluded.brand_score,
			 exposure_count=excluded.exposure_count,
			 exposure_rank=excluded.exposure_rank,
			 analysis_report=excluded.analysis_report`,
				taskID, res.ResponseText, res.BrandScore, res.ExposureCount, res.ExposureRank, res.AnalysisReport, o.RunAt); err != nil {
				return err
			}
		}
		for _, c := range o.Citations {
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO citations(task_id, url, title, created_at) VALUES (?, ?, ?, ?)`,
				taskID, c.URL, c.Title, o.RunAt); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetResult returns the result of a task.
func (r *TaskRepo) GetResult(ctx context.Context, taskID int64) (Result, error) {
	var res Result
	err := r.db.QueryRowContext(ctx, `
	SELECT id, task_id, response_text, brand_score, exposure_count, exposure_rank, analysis_report, created_at
	FROM results WHERE task_id = ?`, taskID).Scan(
		&res.ID, &res.TaskID, &res.ResponseText, &res.BrandScore, &res.ExposureCount, &res.ExposureRank, &res.AnalysisReport, &res.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, ErrNotFound
	}
	return res, err
}

// Citations returns the citations of a task in insertion order.
func (r *TaskRepo) Citations(ctx context.Context, taskID int64) ([]Citation, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, task_id, url, title, created_at FROM citations WHERE task_id = ? ORDER BY id`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Citation{}
	for rows.Next() {
		var c Citation
		if err := rows.Scan(&c.ID, &c.TaskID, &c.URL, &c.Title, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// RecentResults returns the newest results with their prompts.
func (r *TaskRepo) RecentResults(ctx context.Context, limit int) ([]ScoredResult, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT r.id, r.task_id, r.response_text, r.brand_score, r.exposure_count, r.exposure_rank,
	       r.analysis_report, r.created_at, p.id, p.content,
	       (SELECT COUNT(*) FROM citations c WHERE c.task_id = r.task_id)
	FROM results r
	JOIN tasks t ON t.id = r.task_id
	JOIN prompts p ON p.id = t.prompt_id
	ORDER BY r.created_at DESC, r.id DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ScoredResult{}
	for rows.Next() {
		var s ScoredResult
		if err := rows.Scan(&s.ID, &s.TaskID, &s.ResponseText, &s.BrandScore, &s.ExposureCount, &s.ExposureRank,
			&s.AnalysisReport, &s.CreatedAt, &s.PromptID, &s.PromptContent, &s.CitationCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
