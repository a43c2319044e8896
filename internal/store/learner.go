package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var learnerColumns = []string{
	"id", "name", "grade", "learning_style",
	"avg_time_spent", "avg_quiz_score", "avg_confidence_score", "adaptability_score",
	"english_proficiency", "total_quizzes_played",
	"weak_topics", "strong_topics",
	"created_at", "updated_at",
}

// defaultEnglishProficiency is the band assigned before any quiz is played.
const defaultEnglishProficiency = 6

type learnerRepo struct {
	db      *sql.DB
	dialect string
}

func (r *learnerRepo) Create(ctx context.Context, l *Learner) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	l.UpdatedAt = now
	if l.EnglishProficiency == 0 {
		l.EnglishProficiency = defaultEnglishProficiency
	}

	weak, strong, err := encodeTopics(l)
	if err != nil {
		return err
	}

	query, args := entsql.Dialect(r.dialect).
		Insert(learnersTable).
		Columns(learnerColumns...).
		Values(
			l.ID, l.Name, l.Grade, l.LearningStyle,
			l.AvgTimeSpent, l.AvgQuizScore, l.AvgConfidenceScore, l.AdaptabilityScore,
			l.EnglishProficiency, l.TotalQuizzesPlayed,
			weak, strong,
			l.CreatedAt, l.UpdatedAt,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert learner: %w", err)
	}
	return nil
}

func (r *learnerRepo) Get(ctx context.Context, id string) (*Learner, error) {
	return r.get(ctx, r.db, id, false)
}

func (r *learnerRepo) Update(ctx context.Context, id string, fn func(*Learner) error) (*Learner, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	l, err := r.get(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}

	if err := fn(l); err != nil {
		return nil, err
	}
	l.ID = id
	l.UpdatedAt = time.Now().UTC()

	weak, strong, err := encodeTopics(l)
	if err != nil {
		return nil, err
	}

	query, args := entsql.Dialect(r.dialect).
		Update(learnersTable).
		Set("name", l.Name).
		Set("grade", l.Grade).
		Set("learning_style", l.LearningStyle).
		Set("avg_time_spent", l.AvgTimeSpent).
		Set("avg_quiz_score", l.AvgQuizScore).
		Set("avg_confidence_score", l.AvgConfidenceScore).
		Set("adaptability_score", l.AdaptabilityScore).
		Set("english_proficiency", l.EnglishProficiency).
		Set("total_quizzes_played", l.TotalQuizzesPlayed).
		Set("weak_topics", weak).
		Set("strong_topics", strong).
		Set("updated_at", l.UpdatedAt).
		Where(entsql.EQ("id", id)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("update learner: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return l, nil
}

func (r *learnerRepo) List(ctx context.Context, limit int) ([]*Learner, error) {
	sel := entsql.Dialect(r.dialect).
		Select(learnerColumns...).
		From(entsql.Table(learnersTable)).
		OrderBy(entsql.Desc("updated_at"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query learners: %w", err)
	}
	defer rows.Close()

	var out []*Learner
	for rows.Next() {
		l, err := scanLearner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *learnerRepo) get(ctx context.Context, q querier, id string, lock bool) (*Learner, error) {
	sel := entsql.Dialect(r.dialect).
		Select(learnerColumns...).
		From(entsql.Table(learnersTable)).
		Where(entsql.EQ("id", id))
	// SQLite has no row locks; its single connection already serializes the tx.
	if lock && r.dialect == dialect.Postgres {
		sel.ForUpdate()
	}
	query, args := sel.Query()

	l, err := scanLearner(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("learner %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLearner(s scanner) (*Learner, error) {
	var (
		l            Learner
		weak, strong []byte
	)
	err := s.Scan(
		&l.ID, &l.Name, &l.Grade, &l.LearningStyle,
		&l.AvgTimeSpent, &l.AvgQuizScore, &l.AvgConfidenceScore, &l.AdaptabilityScore,
		&l.EnglishProficiency, &l.TotalQuizzesPlayed,
		&weak, &strong,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan learner: %w", err)
	}
	if err := decodeTopics(weak, &l.WeakTopics); err != nil {
		return nil, fmt.Errorf("decode weak topics: %w", err)
	}
	if err := decodeTopics(strong, &l.StrongTopics); err != nil {
		return nil, fmt.Errorf("decode strong topics: %w", err)
	}
	return &l, nil
}

func encodeTopics(l *Learner) (string, string, error) {
	weak, err := json.Marshal(nonNil(l.WeakTopics))
	if err != nil {
		return "", "", fmt.Errorf("encode weak topics: %w", err)
	}
	strong, err := json.Marshal(nonNil(l.StrongTopics))
	if err != nil {
		return "", "", fmt.Errorf("encode strong topics: %w", err)
	}
	return string(weak), string(strong), nil
}

func decodeTopics(raw []byte, dst *[]string) error {
	if len(raw) == 0 {
		*dst = nil
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
