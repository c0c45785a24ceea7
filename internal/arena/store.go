package arena

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cory-johannsen/binary-boxer/internal/game/combat"
	"github.com/cory-johannsen/binary-boxer/internal/game/dynasty"
	"github.com/cory-johannsen/binary-boxer/internal/game/robot"
)

// ErrNotFound is returned by stores when no record exists for the key, or when
// a fight has expired.
var ErrNotFound = errors.New("record not found")

// Metric names a leaderboard.
type Metric string

const (
	MetricLevel   Metric = "level"
	MetricStreak  Metric = "streak"
	MetricDynasty Metric = "dynasty"
	MetricFights  Metric = "fights"
)

// Metrics lists every leaderboard metric.
func Metrics() []Metric {
	return []Metric{MetricLevel, MetricStreak, MetricDynasty, MetricFights}
}

// ErrInvalidMetric is returned for an unknown leaderboard metric.
var ErrInvalidMetric = errors.New("invalid leaderboard metric")

// ParseMetric validates a metric name.
func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q (must be one of level, streak, dynasty, fights)", ErrInvalidMetric, s)
}

// Score returns r's leaderboard score for m.
func (m Metric) Score(r *robot.Robot) int {
	switch m {
	case MetricLevel:
		return r.Level
	case MetricStreak:
		return r.BestStreak
	case MetricDynasty:
		return r.Generation
	case MetricFights:
		return r.TotalFights
	}
	return 0
}

// Standing is one leaderboard row.
type Standing struct {
	Rank       int    `json:"rank"`
	Owner      string `json:"username"`
	RobotName  string `json:"robotName"`
	Score      int    `json:"score"`
	Language1  string `json:"language1"`
	Language2  string `json:"language2"`
	Generation int    `json:"generation"`
}

// PlayerStore persists one robot record per owner and ranks them.
type PlayerStore interface {
	// LoadPlayer returns ErrNotFound when owner has no record.
	LoadPlayer(ctx context.Context, owner string) (*robot.Robot, error)
	SavePlayer(ctx context.Context, owner string, r *robot.Robot) error
	// Standings returns the top limit records for m, highest score first with
	// ties broken by owner. Ranks start at 1.
	Standings(ctx context.Context, m Metric, limit int) ([]Standing, error)
	// RankOf returns owner's 1-based rank for m, or 0 when owner has no record.
	RankOf(ctx context.Context, m Metric, owner string) (int, error)
}

// FightStore keeps each owner's in-progress fight for a limited time.
type FightStore interface {
	// LoadFight returns ErrNotFound when there is no fight or it has expired.
	LoadFight(ctx context.Context, owner string) (combat.FightState, error)
	// SaveFight stores s and restarts its expiry clock.
	SaveFight(ctx context.Context, owner string, s combat.FightState, ttl time.Duration) error
	DeleteFight(ctx context.Context, owner string) error
	// PurgeExpired removes every fight whose expiry is at or before now and
	// returns how many were removed.
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}

// DynastyStore persists each owner's lineage.
type DynastyStore interface {
	// LoadDynasty returns ErrNotFound when owner has never retired a robot.
	LoadDynasty(ctx context.Context, owner string) (*dynasty.Dynasty, error)
	SaveDynasty(ctx context.Context, owner string, d *dynasty.Dynasty) error
}

// EventStore is the community feed, newest first.
type EventStore interface {
	// AppendEvent records ev and keeps only the newest keep events.
	AppendEvent(ctx context.Context, ev Event, keep int) error
	// RecentEvents returns up to limit events, newest first.
	RecentEvents(ctx context.Context, limit int) ([]Event, error)
}

// Stores groups the persistence collaborators of a Service.
type Stores struct {
	Players   PlayerStore
	Fights    FightStore
	Dynasties DynastyStore
	Events    EventStore
}
