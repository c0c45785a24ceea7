package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/binary-boxer/internal/arena"
	"github.com/cory-johannsen/binary-boxer/internal/config"
	"github.com/cory-johannsen/binary-boxer/internal/game/combat"
	"github.com/cory-johannsen/binary-boxer/internal/game/dice"
	"github.com/cory-johannsen/binary-boxer/internal/game/dynasty"
	"github.com/cory-johannsen/binary-boxer/internal/game/enemy"
	"github.com/cory-johannsen/binary-boxer/internal/game/robot"
	"github.com/cory-johannsen/binary-boxer/internal/game/ruleset"
	"github.com/cory-johannsen/binary-boxer/internal/game/stats"
	"github.com/cory-johannsen/binary-boxer/internal/testutil"
)

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

func setupStores(t *testing.T) (arena.Stores, *testClock) {
	t.Helper()
	pool := testutil.NewPool(t)
	clk := &testClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return pool.Stores(clk.now), clk
}

func makeRobot(t *testing.T, name string, level int) *robot.Robot {
	t.Helper()
	r, err := robot.New(ruleset.Default(), name, "rust", "go", nil, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	r.Level = level
	return r
}

func TestPlayerRepository_RoundTrip(t *testing.T) {
	stores, _ := setupStores(t)
	ctx := context.Background()

	_, err := stores.Players.LoadPlayer(ctx, "alice")
	assert.ErrorIs(t, err, arena.ErrNotFound)

	r := makeRobot(t, "Clanky", 3)
	r.Legacy = stats.Legacy{stats.Power: 1.2}
	require.NoError(t, stores.Players.SavePlayer(ctx, "alice", r))

	got, err := stores.Players.LoadPlayer(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, r, got)

	r.Level = 4
	require.NoError(t, stores.Players.SavePlayer(ctx, "alice", r))
	got, err = stores.Players.LoadPlayer(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Level)
}

func TestPlayerRepository_Standings(t *testing.T) {
	stores, _ := setupStores(t)
	ctx := context.Background()

	for i, level := range []int{5, 9, 5, 1} {
		r := makeRobot(t, fmt.Sprintf("Bot%d", i), level)
		require.NoError(t, stores.Players.SavePlayer(ctx, fmt.Sprintf("owner%d", i), r))
	}

	top, err := stores.Players.Standings(ctx, arena.MetricLevel, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "owner1", top[0].Owner)
	assert.Equal(t, 9, top[0].Score)
	assert.Equal(t, "Bot1", top[0].RobotName)
	assert.Equal(t, "rust", top[0].Language1)
	assert.Equal(t, "owner0", top[1].Owner)
	assert.Equal(t, "owner2", top[2].Owner)
	for i, s := range top {
		assert.Equal(t, i+1, s.Rank)
	}

	rank, err := stores.Players.RankOf(ctx, arena.MetricLevel, "owner3")
	require.NoError(t, err)
	assert.Equal(t, 4, rank)

	rank, err = stores.Players.RankOf(ctx, arena.MetricLevel, "nobody")
	require.NoError(t, err)
	assert.Zero(t, rank)

	_, err = stores.Players.Standings(ctx, arena.Metric("elo"), 3)
	assert.ErrorIs(t, err, arena.ErrInvalidMetric)
}

func TestFightRepository_Expiry(t *testing.T) {
	stores, clk := setupStores(t)
	ctx := context.Background()

	f := combat.Init(stats.Base(), enemy.Enemy{Name: "NULLPTR", Level: 1, Stats: stats.Flat(13, 115)}, 77)
	require.NoError(t, stores.Fights.SaveFight(ctx, "alice", f, time.Minute))

	got, err := stores.Fights.LoadFight(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, f.Seed, got.Seed)
	assert.Equal(t, f.Enemy.Name, got.Enemy.Name)
	assert.Equal(t, f.PlayerHP, got.PlayerHP)

	clk.t = clk.t.Add(time.Minute)
	_, err = stores.Fights.LoadFight(ctx, "alice")
	assert.ErrorIs(t, err, arena.ErrNotFound)

	n, err := stores.Fights.PurgeExpired(ctx, clk.t)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, stores.Fights.SaveFight(ctx, "alice", f, time.Minute))
	require.NoError(t, stores.Fights.DeleteFight(ctx, "alice"))
	_, err = stores.Fights.LoadFight(ctx, "alice")
	assert.ErrorIs(t, err, arena.ErrNotFound)
}

func TestDynastyRepository_RoundTrip(t *testing.T) {
	stores, _ := setupStores(t)
	ctx := context.Background()

	_, err := stores.Dynasties.LoadDynasty(ctx, "alice")
	assert.ErrorIs(t, err, arena.ErrNotFound)

	d := dynasty.New("d-1", "alice", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, d.Append(dynasty.Generation{
		Number:      1,
		RobotName:   "Clanky",
		Language1:   "rust",
		Language2:   "go",
		FinalLevel:  12,
		TotalFights: 31,
		Wins:        20,
		Cause:       dynasty.CauseKO,
		RetiredAt:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, stores.Dynasties.SaveDynasty(ctx, "alice", d))

	got, err := stores.Dynasties.LoadDynasty(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestEventRepository_NewestFirstAndTrimmed(t *testing.T) {
	stores, _ := setupStores(t)
	ctx := context.Background()

	for i := range 6 {
		require.NoError(t, stores.Events.AppendEvent(ctx, arena.Event{
			Type:      arena.EventLevelMilestone,
			Owner:     "alice",
			Detail:    fmt.Sprintf("reached Level %d", (i+1)*5),
			Timestamp: time.Date(2026, 1, 1, 0, i, 0, 0, time.UTC),
		}, 4))
	}

	events, err := stores.Events.RecentEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, "reached Level 30", events[0].Detail)
	assert.Equal(t, "reached Level 15", events[3].Detail)

	events, err = stores.Events.RecentEvents(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

type fixedSource struct{ n int }

func (f fixedSource) Intn(int) int { return f.n }

func TestStores_DriveService(t *testing.T) {
	stores, clk := setupStores(t)
	ctx := context.Background()
	logger := zaptest.NewLogger(t)
	cfg := config.ArenaConfig{
		Storage:         config.StoragePostgres,
		FightTTL:        600 * time.Second,
		LeaderboardSize: 10,
		FeedSize:        10,
		EventHistory:    50,
	}
	svc := arena.NewService(ruleset.Default(), stores, nil, dice.NewLoggedRoller(fixedSource{n: 42}, logger), cfg, logger)
	svc.SetClock(clk.now)

	_, err := svc.CreateRobot(ctx, "alice", "Clanky", "rust", "go")
	require.NoError(t, err)
	_, err = svc.StartFight(ctx, "alice")
	require.NoError(t, err)
	_, err = svc.ResolveFight(ctx, "alice")
	require.NoError(t, err)
	done, err := svc.CompleteFight(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, done.Player.TotalFights)

	board, err := svc.Leaderboard(ctx, "alice", arena.MetricFights)
	require.NoError(t, err)
	require.Len(t, board.Entries, 1)
	assert.Equal(t, 1, board.Entries[0].Score)
	assert.Equal(t, 1, board.PlayerRank)

	feed, err := svc.CommunityFeed(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, feed)
	assert.Equal(t, arena.EventRobotCreated, feed[len(feed)-1].Type)
}
