package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

var sessionEventFields = []string{
	"session_id", "user_id", "story_id", "story_title", "action",
	"correct_answers", "stars", "score", "elapsed_secs",
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	err := r.insertEvent(ctx, sessionEventsTable, sessionEventFields, []any{
		data.SessionID, data.UserID, data.StoryID, data.StoryTitle, data.Action,
		data.CorrectAnswers, data.Stars, data.Score, data.ElapsedSecs,
	})
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentSessions(ctx context.Context, opts QueryOpts) ([]SessionRecord, error) {
	t := entsql.Table(sessionEventsTable)
	sel := builder().Select(append([]string{"sequence", "timestamp"}, sessionEventFields...)...).
		From(t).
		Where(entsql.In(t.C("action"), ActionComplete, ActionExit))
	if opts.UserID != "" {
		sel.Where(entsql.EQ(t.C("user_id"), opts.UserID))
	}
	paginate(sel, opts)

	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		if err := rows.Scan(
			&rec.Sequence, &rec.Timestamp,
			&rec.SessionID, &rec.UserID, &rec.StoryID, &rec.StoryTitle, &rec.Action,
			&rec.CorrectAnswers, &rec.Stars, &rec.Score, &rec.ElapsedSecs,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *eventRepo) StoryBests(ctx context.Context, userID string) ([]StoryBest, error) {
	t := entsql.Table(sessionEventsTable)
	sel := builder().Select(
		t.C("story_id"),
		t.C("story_title"),
		entsql.Count("*"),
		entsql.Max(t.C("score")),
		entsql.Max(t.C("stars")),
	).
		From(t).
		Where(entsql.And(
			entsql.EQ(t.C("user_id"), userID),
			entsql.EQ(t.C("action"), ActionComplete),
		)).
		GroupBy(t.C("story_id"), t.C("story_title")).
		OrderBy(t.C("story_id"))

	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query story bests: %w", err)
	}
	defer rows.Close()

	var out []StoryBest
	for rows.Next() {
		var b StoryBest
		if err := rows.Scan(&b.StoryID, &b.StoryTitle, &b.Plays, &b.BestScore, &b.BestStars); err != nil {
			return nil, fmt.Errorf("scan story best: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
