package store

import (
	"context"
	"database/sql"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// textSize makes ent pick an unbounded text type instead of varchar(255).
const textSize = 1<<31 - 1

func col(name string, t field.Type) *schema.Column {
	c := &schema.Column{Name: name, Type: t}
	if t == field.TypeString {
		c.Size = textSize
	}
	return c
}

// eventTable starts a table with the columns every event row carries: an
// auto-increment id, the global sequence and created_at in unix
// milliseconds.
func eventTable(name string) *schema.Table {
	return schema.NewTable(name).
		AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true}).
		AddColumn(col("sequence", field.TypeInt64)).
		AddColumn(col("created_at", field.TypeInt64))
}

// tables declares the schema for ent's migrator.
func tables() []*schema.Table {
	snapshots := eventTable("snapshots").
		AddColumn(col("data", field.TypeString)).
		AddIndex("snapshots_sequence", false, []string{"sequence"})

	errorKind := col("error_kind", field.TypeString)
	errorKind.Default = ""
	answers := eventTable("answer_events").
		AddColumn(col("session_id", field.TypeString)).
		AddColumn(col("op", field.TypeString)).
		AddColumn(col("level", field.TypeInt)).
		AddColumn(col("a", field.TypeInt64)).
		AddColumn(col("b", field.TypeInt64)).
		AddColumn(col("correct_answer", field.TypeString)).
		AddColumn(col("learner_answer", field.TypeString)).
		AddColumn(col("correct", field.TypeBool)).
		AddColumn(col("hint_stage", field.TypeInt)).
		AddColumn(col("reward", field.TypeInt)).
		AddColumn(col("time_ms", field.TypeInt64)).
		AddColumn(errorKind).
		AddIndex("answer_events_op", false, []string{"op"})

	hints := eventTable("hint_events").
		AddColumn(col("session_id", field.TypeString)).
		AddColumn(col("op", field.TypeString)).
		AddColumn(col("question_text", field.TypeString)).
		AddColumn(col("action", field.TypeString)).
		AddColumn(col("stage", field.TypeInt))

	sessions := eventTable("session_events").
		AddColumn(col("session_id", field.TypeString)).
		AddColumn(col("action", field.TypeString)).
		AddColumn(col("mode", field.TypeString)).
		AddColumn(col("op", field.TypeString)).
		AddColumn(col("problems_served", field.TypeInt)).
		AddColumn(col("correct_answers", field.TypeInt)).
		AddColumn(col("duration_secs", field.TypeInt))

	llm := eventTable("llm_request_events").
		AddColumn(col("provider", field.TypeString)).
		AddColumn(col("model", field.TypeString)).
		AddColumn(col("purpose", field.TypeString)).
		AddColumn(col("input_tokens", field.TypeInt)).
		AddColumn(col("output_tokens", field.TypeInt)).
		AddColumn(col("latency_ms", field.TypeInt64)).
		AddColumn(col("success", field.TypeBool)).
		AddColumn(col("error_message", field.TypeString)).
		AddColumn(col("request_body", field.TypeString)).
		AddColumn(col("response_body", field.TypeString)).
		AddIndex("llm_request_events_purpose", false, []string{"purpose"})

	nextVal := col("next_val", field.TypeInt64)
	nextVal.Default = 1
	sequence := schema.NewTable("global_sequence").
		AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt}).
		AddColumn(nextVal)

	return []*schema.Table{snapshots, answers, hints, sessions, llm, sequence}
}

// migrate creates missing tables, columns and indexes. Existing data is
// kept: ent's migrator only adds.
func migrate(ctx context.Context, db *sql.DB, dia string) error {
	m, err := schema.NewMigrate(entsql.OpenDB(dia, db))
	if err != nil {
		return err
	}
	return m.Create(ctx, tables()...)
}
