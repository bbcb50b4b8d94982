package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo with ent's SQL builder and the global
// sequence counter.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *eventRepo) exec(ctx context.Context, q entsql.Querier) error {
	query, args := q.Query()
	var res sql.Result
	return r.drv.Exec(ctx, query, args, &res)
}

// insertEvent allocates a sequence number and inserts one event row.
func (r *eventRepo) insertEvent(ctx context.Context, table string, cols []string, vals []any) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	cols = append([]string{"sequence", "timestamp"}, cols...)
	vals = append([]any{seqNum, time.Now().UTC()}, vals...)
	return r.exec(ctx, builder().Insert(table).Columns(cols...).Values(vals...))
}

// paginate applies the sequence window and limit of opts to sel.
func paginate(sel *entsql.Selector, opts QueryOpts) *entsql.Selector {
	if opts.After > 0 {
		sel.Where(entsql.GT(sel.C("sequence"), opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT(sel.C("sequence"), opts.Before))
	}
	sel.OrderBy(entsql.Desc(sel.C("sequence")))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return sel
}

func (r *eventRepo) TouchLearner(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	ins := builder().Insert(learnersTable).
		Columns("user_id", "created_at", "last_seen_at").
		Values(userID, now, now).
		OnConflict(
			entsql.ConflictColumns("user_id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("last_seen_at")
			}),
		)
	if err := r.exec(ctx, ins); err != nil {
		return fmt.Errorf("touch learner: %w", err)
	}
	return nil
}
