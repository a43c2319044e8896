package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"entgo.io/ent/schema/mixin"
)

// LogMixin marks a table as an append-only log ordered by recording time.
// Rows are never updated, so the timestamp is immutable and indexed for
// newest-first listings.
type LogMixin struct {
	mixin.Schema
}

func (LogMixin) Fields() []ent.Field {
	recorded := field.Time("timestamp").Default(time.Now).Immutable()
	return []ent.Field{recorded.Comment("when the row was appended, stored as UTC")}
}

func (LogMixin) Indexes() []ent.Index {
	return []ent.Index{index.Fields("timestamp")}
}
