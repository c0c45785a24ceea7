package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/binary-boxer/internal/arena"
)

// EventRepository is the community feed table. Insertion order, by id, is
// feed order.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository creates an EventRepository backed by the given pool.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// AppendEvent implements arena.EventStore. The insert and the trim run in one
// transaction.
func (r *EventRepository) AppendEvent(ctx context.Context, ev arena.Event, keep int) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO community_events (event, created_at) VALUES ($1, $2)`,
			data, ev.Timestamp,
		); err != nil {
			return fmt.Errorf("inserting event: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`DELETE FROM community_events
			 WHERE id NOT IN (SELECT id FROM community_events ORDER BY id DESC LIMIT $1)`,
			max(0, keep),
		); err != nil {
			return fmt.Errorf("trimming events: %w", err)
		}
		return nil
	})
}

// RecentEvents implements arena.EventStore.
func (r *EventRepository) RecentEvents(ctx context.Context, limit int) ([]arena.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT event FROM community_events ORDER BY id DESC LIMIT $1`,
		max(0, limit),
	)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	out := []arena.Event{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		var ev arena.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decoding event: %w", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return out, nil
}
