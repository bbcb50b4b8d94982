package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

var speechEventFields = []string{
	"provider", "voice", "chars", "cached", "latency_ms", "success", "error_message",
}

func (r *eventRepo) AppendSpeechEvent(ctx context.Context, data SpeechEventData) error {
	err := r.insertEvent(ctx, speechEventsTable, speechEventFields, []any{
		data.Provider, data.Voice, data.Chars, data.Cached,
		data.LatencyMs, data.Success, data.ErrorMessage,
	})
	if err != nil {
		return fmt.Errorf("save speech event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentSpeechEvents(ctx context.Context, opts QueryOpts) ([]SpeechRecord, error) {
	t := entsql.Table(speechEventsTable)
	sel := builder().Select(append([]string{"sequence", "timestamp"}, speechEventFields...)...).
		From(t)
	paginate(sel, opts)

	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query speech events: %w", err)
	}
	defer rows.Close()

	var out []SpeechRecord
	for rows.Next() {
		var rec SpeechRecord
		if err := rows.Scan(
			&rec.Sequence, &rec.Timestamp,
			&rec.Provider, &rec.Voice, &rec.Chars, &rec.Cached,
			&rec.LatencyMs, &rec.Success, &rec.ErrorMessage,
		); err != nil {
			return nil, fmt.Errorf("scan speech event: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
