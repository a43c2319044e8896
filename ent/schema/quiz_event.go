package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QuizEvent records one accepted quiz telemetry submission.
type QuizEvent struct {
	ent.Schema
}

func (QuizEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{LogMixin{}}
}

func (QuizEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("learner_id"),
		field.String("topic").
			Default(""),
		field.String("subtopic").
			Default(""),
		field.Int("question_count"),
		field.Int("total_score"),
		field.Float("total_question_time_ms"),
		field.Float("subtopic_duration_ms"),
		field.Float("confidence_pct"),
	}
}

func (QuizEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("learner_id"),
	}
}
