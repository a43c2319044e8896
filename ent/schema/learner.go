package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Learner is the persistent capability profile of one learner.
type Learner struct {
	ent.Schema
}

func (Learner) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable().
			Comment("UUID assigned at creation"),
		field.String("name").
			Default(""),
		field.String("grade").
			Default("").
			Comment("What the learner is currently studying"),
		field.String("learning_style").
			Default(""),
		field.Float("avg_time_spent").
			Default(0).
			Comment("Running mean of per-question time in milliseconds"),
		field.Float("avg_quiz_score").
			Default(0),
		field.Float("avg_confidence_score").
			Default(0),
		field.Float("adaptability_score").
			Default(0),
		field.Int("english_proficiency").
			Default(6),
		field.Int("total_quizzes_played").
			Default(0),
		field.Strings("weak_topics").
			Optional(),
		field.Strings("strong_topics").
			Optional(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

func (Learner) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("name"),
	}
}
