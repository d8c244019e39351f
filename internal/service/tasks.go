package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/geo-dev/geo/internal/store"
)

// CitationInput is a link reported by the worker.
type CitationInput struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Submission is a worker's report for a claimed task.
type Submission struct {
	Status         string          `json:"status"`
	ResponseText   string          `json:"response_text"`
	BrandScore     float64         `json:"brand_score"`
	AnalysisReport string          `json:"analysis_report"`
	Citations      []CitationInput `json:"citations"`
}

// GenerateTasks creates one pending task per prompt.
func (s *Service) GenerateTasks(ctx context.Context) (int, error) {
	n, err := s.store.Tasks.GenerateForAllPrompts(ctx)
	if err != nil {
		s.logger.Error("task generation failed", "error", err)
		return 0, err
	}
	s.logger.Info("generated tasks", "count", n)
	return n, nil
}

// ClaimPending hands every pending task to the caller, marking it processing.
func (s *Service) ClaimPending(ctx context.Context) ([]store.Task, error) {
	tasks, err := s.store.Tasks.ClaimPending(ctx)
	if err != nil {
		return nil, err
	}
	if len(tasks) > 0 {
		s.logger.Info("claimed tasks", "count", len(tasks))
	}
	return tasks, nil
}

// SubmitResult records a worker's report. Completed answers are scored by
// the evaluator; when scoring fails the submitted score and report are kept.
func (s *Service) SubmitResult(ctx context.Context, taskID int64, sub Submission) error {
	if sub.Status == "" {
		return fmt.Errorf("%w: status is required", ErrInvalidInput)
	}
	if !store.ValidTaskStatus(sub.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, sub.Status)
	}
	if _, err := s.store.Tasks.Get(ctx, taskID); err != nil {
		return err
	}

	out := store.Outcome{Status: sub.Status}
	if sub.Status == store.TaskCompleted {
		out.Result = s.score(ctx, taskID, sub)
		for _, c := range sub.Citations {
			if c.URL == "" {
				continue
			}
			out.Citations = append(out.Citations, store.Citation{URL: c.URL, Title: c.Title})
		}
	}
	return s.store.Tasks.RecordOutcome(ctx, taskID, out)
}

func (s *Service) score(ctx context.Context, taskID int64, sub Submission) *store.Result {
	res := &store.Result{
		ResponseText:   sub.ResponseText,
		BrandScore:     sub.BrandScore,
		AnalysisReport: sub.AnalysisReport,
	}
	if s.evaluator == nil {
		return res
	}
	eval, err := s.evaluator.EvaluateExposure(ctx, sub.ResponseText)
	if err != nil {
		s.logger.Warn("exposure evaluation failed", "task_id", taskID, "error", err)
		return res
	}
	res.BrandScore = eval.BrandScore
	res.ExposureCount = eval.ExposureCount
	res.ExposureRank = eval.ExposureRank
	res.AnalysisReport = eval.Analysis
	return res
}

// TaskDetail is a task with its result and citations.
type TaskDetail struct {
	Task      store.Task       `json:"task"`
	Result    *store.Result    `json:"result,omitempty"`
	Citations []store.Citation `json:"citations"`
}

// GetTask returns a task with its result, if any.
func (s *Service) GetTask(ctx context.Context, id int64) (TaskDetail, error) {
	t, err := s.store.Tasks.Get(ctx, id)
	if err != nil {
		return TaskDetail{}, err
	}
	d := TaskDetail{Task: t, Citations: []store.Citation{}}
	res, err := s.store.Tasks.GetResult(ctx, id)
	switch {
	case err == nil:
		d.Result = &res
	case !errors.Is(err, store.ErrNotFound):
		return TaskDetail{}, err
	}
	cits, err := s.store.Tasks.Citations(ctx, id)
	if err != nil {
		return TaskDetail{}, err
	}
	if cits != nil {
		d.Citations = cits
	}
	return d, nil
}
