package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/binary-boxer/internal/arena"
	"github.com/cory-johannsen/binary-boxer/internal/game/combat"
)

// FightRepository stores in-progress fights with an absolute expiry. Expiry is
// judged against the repository's clock rather than the database's.
type FightRepository struct {
	db  *pgxpool.Pool
	now func() time.Time
}

// NewFightRepository creates a FightRepository.
//
// Precondition: db must be a valid, open connection pool; now must be non-nil.
func NewFightRepository(db *pgxpool.Pool, now func() time.Time) *FightRepository {
	return &FightRepository{db: db, now: now}
}

// LoadFight implements arena.FightStore.
func (r *FightRepository) LoadFight(ctx context.Context, owner string) (combat.FightState, error) {
	var data []byte
	err := r.db.QueryRow(ctx,
		`SELECT state FROM fights WHERE owner = $1 AND expires_at > $2`,
		owner, r.now(),
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return combat.FightState{}, arena.ErrNotFound
		}
		return combat.FightState{}, fmt.Errorf("querying fight: %w", err)
	}
	var s combat.FightState
	if err := json.Unmarshal(data, &s); err != nil {
		return combat.FightState{}, fmt.Errorf("decoding fight for %q: %w", owner, err)
	}
	return s, nil
}

// SaveFight implements arena.FightStore.
func (r *FightRepository) SaveFight(ctx context.Context, owner string, s combat.FightState, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding fight for %q: %w", owner, err)
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO fights (owner, state, expires_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (owner) DO UPDATE SET state = EXCLUDED.state, expires_at = EXCLUDED.expires_at`,
		owner, data, r.now().Add(ttl),
	)
	if err != nil {
		return fmt.Errorf("upserting fight: %w", err)
	}
	return nil
}

// DeleteFight implements arena.FightStore.
func (r *FightRepository) DeleteFight(ctx context.Context, owner string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM fights WHERE owner = $1`, owner); err != nil {
		return fmt.Errorf("deleting fight: %w", err)
	}
	return nil
}

// PurgeExpired implements arena.FightStore.
func (r *FightRepository) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM fights WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("purging fights: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
