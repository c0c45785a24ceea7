package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/binary-boxer/internal/arena"
	"github.com/cory-johannsen/binary-boxer/internal/game/robot"
)

// metricColumns maps each leaderboard metric to its denormalised score column.
var metricColumns = map[arena.Metric]string{
	arena.MetricLevel:   "level",
	arena.MetricStreak:  "best_streak",
	arena.MetricDynasty: "generation",
	arena.MetricFights:  "total_fights",
}

func scoreColumn(m arena.Metric) (string, error) {
	col, ok := metricColumns[m]
	if !ok {
		return "", fmt.Errorf("%w: %q", arena.ErrInvalidMetric, m)
	}
	return col, nil
}

// PlayerRepository persists robots as JSONB alongside the columns the
// leaderboards sort on.
type PlayerRepository struct {
	db *pgxpool.Pool
}

// NewPlayerRepository creates a PlayerRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// LoadPlayer implements arena.PlayerStore.
func (r *PlayerRepository) LoadPlayer(ctx context.Context, owner string) (*robot.Robot, error) {
	var data []byte
	err := r.db.QueryRow(ctx, `SELECT robot FROM players WHERE owner = $1`, owner).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, arena.ErrNotFound
		}
		return nil, fmt.Errorf("querying player: %w", err)
	}
	var rb robot.Robot
	if err := json.Unmarshal(data, &rb); err != nil {
		return nil, fmt.Errorf("decoding player %q: %w", owner, err)
	}
	return &rb, nil
}

// SavePlayer implements arena.PlayerStore.
//
// Postcondition: the score columns match rb.
func (r *PlayerRepository) SavePlayer(ctx context.Context, owner string, rb *robot.Robot) error {
	data, err := json.Marshal(rb)
	if err != nil {
		return fmt.Errorf("encoding player %q: %w", owner, err)
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO players (owner, robot, level, best_streak, generation, total_fights, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW())
		 ON CONFLICT (owner) DO UPDATE SET
		     robot        = EXCLUDED.robot,
		     level        = EXCLUDED.level,
		     best_streak  = EXCLUDED.best_streak,
		     generation   = EXCLUDED.generation,
		     total_fights = EXCLUDED.total_fights,
		     updated_at   = NOW()`,
		owner, data, rb.Level, rb.BestStreak, rb.Generation, rb.TotalFights,
	)
	if err != nil {
		return fmt.Errorf("upserting player: %w", err)
	}
	return nil
}

// Standings implements arena.PlayerStore. Owners compare bytewise so ties
// order the same way as the in-memory store.
func (r *PlayerRepository) Standings(ctx context.Context, m arena.Metric, limit int) ([]arena.Standing, error) {
	col, err := scoreColumn(m)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, fmt.Sprintf(
		`SELECT owner, robot->>'robotName', %[1]s, robot->>'language1', robot->>'language2', generation,
		        ROW_NUMBER() OVER (ORDER BY %[1]s DESC, owner COLLATE "C" ASC)
		 FROM players
		 ORDER BY %[1]s DESC, owner COLLATE "C" ASC
		 LIMIT $1`, col),
		max(0, limit),
	)
	if err != nil {
		return nil, fmt.Errorf("querying standings: %w", err)
	}
	defer rows.Close()

	out := []arena.Standing{}
	for rows.Next() {
		var (
			s    arena.Standing
			rank int64
		)
		if err := rows.Scan(&s.Owner, &s.RobotName, &s.Score, &s.Language1, &s.Language2, &s.Generation, &rank); err != nil {
			return nil, fmt.Errorf("scanning standing: %w", err)
		}
		s.Rank = int(rank)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating standings: %w", err)
	}
	return out, nil
}

// RankOf implements arena.PlayerStore.
func (r *PlayerRepository) RankOf(ctx context.Context, m arena.Metric, owner string) (int, error) {
	col, err := scoreColumn(m)
	if err != nil {
		return 0, err
	}
	var rank int64
	err = r.db.QueryRow(ctx, fmt.Sprintf(
		`SELECT rank FROM (
		     SELECT owner, ROW_NUMBER() OVER (ORDER BY %s DESC, owner COLLATE "C" ASC) AS rank
		     FROM players
		 ) ranked
		 WHERE owner = $1`, col),
		owner,
	).Scan(&rank)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("querying rank: %w", err)
	}
	return int(rank), nil
}
