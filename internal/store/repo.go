package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // LLM events only; empty matches all
	After   int    // id > After
}

// Learner is the persisted capability profile of one learner.
type Learner struct {
	ID            string
	Name          string
	Grade         string
	LearningStyle string

	AvgTimeSpent       float64
	AvgQuizScore       float64
	AvgConfidenceScore float64
	AdaptabilityScore  float64
	EnglishProficiency int
	TotalQuizzesPlayed int

	WeakTopics   []string
	StrongTopics []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LearnerRepo persists learner profiles.
type LearnerRepo interface {
	// Create inserts a new learner. A missing ID is filled with a UUID.
	Create(ctx context.Context, l *Learner) error

	// Get returns the learner with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (*Learner, error)

	// Update loads the learner, applies fn and writes the result back in a
	// single transaction. Concurrent updates for one learner are serialized.
	// If fn returns an error nothing is written.
	Update(ctx context.Context, id string, fn func(*Learner) error) (*Learner, error)

	// List returns the most recently updated learners.
	List(ctx context.Context, limit int) ([]*Learner, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// QuizEventData captures one accepted quiz telemetry submission.
type QuizEventData struct {
	LearnerID           string
	Topic               string
	Subtopic            string
	QuestionCount       int
	TotalScore          int
	TotalQuestionTimeMs float64
	SubtopicDurationMs  float64
	ConfidencePct       float64
}

// QuizEvent is a stored quiz event.
type QuizEvent struct {
	ID        int
	Timestamp time.Time
	QuizEventData
}

// EventRepo provides append and query access to the event logs.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns a single LLM event or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)

	// AppendQuizEvent records a completed quiz.
	AppendQuizEvent(ctx context.Context, data QuizEventData) error

	// QueryQuizEvents returns a learner's quiz events, newest first.
	QueryQuizEvents(ctx context.Context, learnerID string, opts QueryOpts) ([]QuizEvent, error)
}
