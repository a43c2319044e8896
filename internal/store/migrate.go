package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"entgo.io/ent"
	entsql "entgo.io/ent/dialect/sql"
	sqlschema "entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/pathwise/ent/schema"
)

const (
	learnersTable   = "learners"
	llmEventsTable  = "llm_request_events"
	quizEventsTable = "quiz_events"
)

// entity is the subset of ent.Interface needed to derive a table.
type entity interface {
	Fields() []ent.Field
	Indexes() []ent.Index
	Mixin() []ent.Mixin
}

var entities = []struct {
	table  string
	schema entity
}{
	{learnersTable, entschema.Learner{}},
	{llmEventsTable, entschema.LLMRequestEvent{}},
	{quizEventsTable, entschema.QuizEvent{}},
}

// Tables returns the SQL tables described by the ent schemas.
func Tables() []*sqlschema.Table {
	tables := make([]*sqlschema.Table, 0, len(entities))
	for _, e := range entities {
		tables = append(tables, buildTable(e.table, e.schema))
	}
	return tables
}

func migrate(ctx context.Context, dialectName string, db *sql.DB) error {
	m, err := sqlschema.NewMigrate(entsql.OpenDB(dialectName, db))
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, Tables()...)
}

func buildTable(name string, e entity) *sqlschema.Table {
	var (
		fields  []ent.Field
		indexes []ent.Index
	)
	for _, m := range e.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, e.Fields()...)
	indexes = append(indexes, e.Indexes()...)

	t := &sqlschema.Table{Name: name}
	byName := make(map[string]*sqlschema.Column, len(fields)+1)

	for _, f := range fields {
		c := buildColumn(f.Descriptor())
		byName[c.Name] = c
		if c.Name == "id" {
			t.PrimaryKey = []*sqlschema.Column{c}
			t.Columns = append([]*sqlschema.Column{c}, t.Columns...)
			continue
		}
		t.Columns = append(t.Columns, c)
	}

	if t.PrimaryKey == nil {
		id := &sqlschema.Column{Name: "id", Type: field.TypeInt, Increment: true}
		byName[id.Name] = id
		t.PrimaryKey = []*sqlschema.Column{id}
		t.Columns = append([]*sqlschema.Column{id}, t.Columns...)
	}

	for _, idx := range indexes {
		d := idx.Descriptor()
		cols := make([]*sqlschema.Column, 0, len(d.Fields))
		for _, f := range d.Fields {
			if c, ok := byName[f]; ok {
				cols = append(cols, c)
			}
		}
		if len(cols) == 0 {
			continue
		}
		t.Indexes = append(t.Indexes, &sqlschema.Index{
			Name:    name + "_" + strings.Join(d.Fields, "_"),
			Unique:  d.Unique,
			Columns: cols,
		})
	}

	return t
}

func buildColumn(d *field.Descriptor) *sqlschema.Column {
	c := &sqlschema.Column{
		Name:     d.Name,
		Type:     d.Info.Type,
		Unique:   d.Unique,
		Nullable: d.Optional || d.Nillable,
		Size:     int64(d.Size),
		Comment:  d.Comment,
	}
	if d.StorageKey != "" {
		c.Name = d.StorageKey
	}
	// Function defaults such as time.Now are applied by the repositories.
	switch v := d.Default.(type) {
	case string, bool, int, int64, float64:
		c.Default = v
	}
	return c
}
