package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var quizEventColumns = []string{
	"id", "timestamp", "learner_id", "topic", "subtopic",
	"question_count", "total_score", "total_question_time_ms",
	"subtopic_duration_ms", "confidence_pct",
}

func (r *eventRepo) AppendQuizEvent(ctx context.Context, data QuizEventData) error {
	query, args := entsql.Dialect(r.dialect).
		Insert(quizEventsTable).
		Columns(quizEventColumns[1:]...).
		Values(
			time.Now().UTC(), data.LearnerID, data.Topic, data.Subtopic,
			data.QuestionCount, data.TotalScore, data.TotalQuestionTimeMs,
			data.SubtopicDurationMs, data.ConfidencePct,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save quiz event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryQuizEvents(ctx context.Context, learnerID string, opts QueryOpts) ([]QuizEvent, error) {
	sel := entsql.Dialect(r.dialect).
		Select(quizEventColumns...).
		From(entsql.Table(quizEventsTable)).
		Where(entsql.EQ("learner_id", learnerID)).
		OrderBy(entsql.Desc("id"))
	if opts.After > 0 {
		sel.Where(entsql.GT("id", opts.After))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quiz events: %w", err)
	}
	defer rows.Close()

	var out []QuizEvent
	for rows.Next() {
		var e QuizEvent
		err := rows.Scan(
			&e.ID, &e.Timestamp, &e.LearnerID, &e.Topic, &e.Subtopic,
			&e.QuestionCount, &e.TotalScore, &e.TotalQuestionTimeMs,
			&e.SubtopicDurationMs, &e.ConfidencePct,
		)
		if err != nil {
			return nil, fmt.Errorf("scan quiz event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
