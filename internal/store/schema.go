package store

import (
	"context"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	learnersTable      = "learners"
	sessionEventsTable = "session_events"
	attemptEventsTable = "attempt_events"
	speechEventsTable  = "speech_events"
)

// eventColumns are the columns every event table starts with: the row id,
// the global sequence number and the UTC wall-clock time of the event.
func eventColumns(extra ...*schema.Column) []*schema.Column {
	return append([]*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
	}, extra...)
}

// eventTable declares an event table with indexes on sequence, timestamp
// and any extra named columns.
func eventTable(name string, cols []*schema.Column, indexed ...string) *schema.Table {
	t := &schema.Table{
		Name:       name,
		Columns:    cols,
		PrimaryKey: []*schema.Column{cols[0]},
	}
	for _, col := range append([]string{"sequence", "timestamp"}, indexed...) {
		for _, c := range cols {
			if c.Name == col {
				t.Indexes = append(t.Indexes, &schema.Index{
					Name:    name + "_" + col,
					Columns: []*schema.Column{c},
				})
			}
		}
	}
	return t
}

var (
	learnersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString, Unique: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "last_seen_at", Type: field.TypeTime},
	}

	// Tables lists every table managed by auto-migration.
	Tables = []*schema.Table{
		{
			Name:       learnersTable,
			Columns:    learnersColumns,
			PrimaryKey: []*schema.Column{learnersColumns[0]},
		},
		eventTable(sessionEventsTable, eventColumns(
			&schema.Column{Name: "session_id", Type: field.TypeString},
			&schema.Column{Name: "user_id", Type: field.TypeString},
			&schema.Column{Name: "story_id", Type: field.TypeString},
			&schema.Column{Name: "story_title", Type: field.TypeString, Default: ""},
			&schema.Column{Name: "action", Type: field.TypeString},
			&schema.Column{Name: "correct_answers", Type: field.TypeInt, Default: 0},
			&schema.Column{Name: "stars", Type: field.TypeInt, Default: 0},
			&schema.Column{Name: "score", Type: field.TypeInt, Default: 0},
			&schema.Column{Name: "elapsed_secs", Type: field.TypeInt, Default: 0},
		), "session_id", "user_id", "action"),
		eventTable(attemptEventsTable, eventColumns(
			&schema.Column{Name: "session_id", Type: field.TypeString},
			&schema.Column{Name: "step_id", Type: field.TypeString},
			&schema.Column{Name: "question", Type: field.TypeString, Default: ""},
			&schema.Column{Name: "correct", Type: field.TypeBool},
			&schema.Column{Name: "attempt", Type: field.TypeInt},
			&schema.Column{Name: "replays", Type: field.TypeInt, Default: 0},
			&schema.Column{Name: "elapsed_ms", Type: field.TypeInt64, Default: 0},
		), "session_id", "step_id"),
		eventTable(speechEventsTable, eventColumns(
			&schema.Column{Name: "provider", Type: field.TypeString},
			&schema.Column{Name: "voice", Type: field.TypeString},
			&schema.Column{Name: "chars", Type: field.TypeInt},
			&schema.Column{Name: "cached", Type: field.TypeBool, Default: false},
			&schema.Column{Name: "latency_ms", Type: field.TypeInt64},
			&schema.Column{Name: "success", Type: field.TypeBool},
			&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
		), "provider"),
	}
)

// migrate creates or updates all tables.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, Tables...)
}
