package store

import "time"

// Task statuses.
const (
	TaskPending    = "pending"
	TaskProcessing = "processing"
	TaskCompleted  = "completed"
	TaskFailed     = "failed"
)

// Article publish statuses.
const (
	ArticlePending   = "pending"
	ArticlePublished = "published"
)

// ValidTaskStatus reports whether s is a known task status.
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskPending, TaskProcessing, TaskCompleted, TaskFailed:
		return true
	}
	return false
}

// Prompt is a question the monitor asks the chat assistant every day.
type Prompt struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Task is one scheduled run of a prompt.
type Task struct {
	ID         int64      `json:"id"`
	PromptID   int64      `json:"prompt_id"`
	Status     string     `json:"status"`
	LastRun    *time.Time `json:"last_run"`
	RetryCount int        `json:"retry_count"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Prompt     *Prompt    `json:"prompt,omitempty"`
}

// Result is the scored answer of a completed task.
type Result struct {
	ID             int64     `json:"id"`
	TaskID         int64     `json:"task_id"`
	ResponseText   string    `json:"response_text"`
	BrandScore     float64   `json:"brand_score"`
	ExposureCount  int       `json:"exposure_count"`
	ExposureRank   int       `json:"exposure_rank"`
	AnalysisReport string    `json:"analysis_report"`
	CreatedAt      time.Time `json:"created_at"`
}

// Citation is a link cited in an assistant answer.
type Citation struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Article is brand content written to improve exposure.
type Article struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	TargetKeywords string    `json:"target_keywords"`
	PublishStatus  string    `json:"publish_status"`
	PublishedURL   string    `json:"published_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ScoredResult joins a result with the prompt it answers.
type ScoredResult struct {
	Result
	PromptID      int64  `json:"prompt_id"`
	PromptContent string `json:"prompt_content"`
	CitationCount int    `json:"citation_count"`
}
