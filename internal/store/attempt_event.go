package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

var attemptEventFields = []string{
	"session_id", "step_id", "question", "correct", "attempt", "replays", "elapsed_ms",
}

func (r *eventRepo) AppendAttemptEvent(ctx context.Context, data AttemptEventData) error {
	err := r.insertEvent(ctx, attemptEventsTable, attemptEventFields, []any{
		data.SessionID, data.StepID, data.Question, data.Correct,
		data.Attempt, data.Replays, data.ElapsedMs,
	})
	if err != nil {
		return fmt.Errorf("save attempt event: %w", err)
	}
	return nil
}

func (r *eventRepo) SessionAttempts(ctx context.Context, sessionID string) ([]AttemptRecord, error) {
	t := entsql.Table(attemptEventsTable)
	sel := builder().Select(append([]string{"sequence", "timestamp"}, attemptEventFields...)...).
		From(t).
		Where(entsql.EQ(t.C("session_id"), sessionID)).
		OrderBy(t.C("sequence"))

	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []AttemptRecord
	for rows.Next() {
		var rec AttemptRecord
		if err := rows.Scan(
			&rec.Sequence, &rec.Timestamp,
			&rec.SessionID, &rec.StepID, &rec.Question, &rec.Correct,
			&rec.Attempt, &rec.Replays, &rec.ElapsedMs,
		); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
