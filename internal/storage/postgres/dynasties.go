package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/binary-boxer/internal/arena"
	"github.com/cory-johannsen/binary-boxer/internal/game/dynasty"
)

// DynastyRepository persists each owner's lineage as a single JSONB document.
type DynastyRepository struct {
	db *pgxpool.Pool
}

// NewDynastyRepository creates a DynastyRepository backed by the given pool.
func NewDynastyRepository(db *pgxpool.Pool) *DynastyRepository {
	return &DynastyRepository{db: db}
}

// LoadDynasty implements arena.DynastyStore.
func (r *DynastyRepository) LoadDynasty(ctx context.Context, owner string) (*dynasty.Dynasty, error) {
	var data []byte
	err := r.db.QueryRow(ctx, `SELECT dynasty FROM dynasties WHERE owner = $1`, owner).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, arena.ErrNotFound
		}
		return nil, fmt.Errorf("querying dynasty: %w", err)
	}
	var d dynasty.Dynasty
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decoding dynasty for %q: %w", owner, err)
	}
	return &d, nil
}

// SaveDynasty implements arena.DynastyStore.
func (r *DynastyRepository) SaveDynasty(ctx context.Context, owner string, d *dynasty.Dynasty) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding dynasty for %q: %w", owner, err)
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO dynasties (owner, dynasty, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (owner) DO UPDATE SET dynasty = EXCLUDED.dynasty, updated_at = NOW()`,
		owner, data,
	)
	if err != nil {
		return fmt.Errorf("upserting dynasty: %w", err)
	}
	return nil
}
