// Package arena drives the combat engine and robot progression for each
// player: it loads and saves records through the store interfaces, mints fight
// seeds, validates requests, and publishes community events.
package arena

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/binary-boxer/internal/config"
	"github.com/cory-johannsen/binary-boxer/internal/game/combat"
	"github.com/cory-johannsen/binary-boxer/internal/game/dice"
	"github.com/cory-johannsen/binary-boxer/internal/game/dynasty"
	"github.com/cory-johannsen/binary-boxer/internal/game/enemy"
	"github.com/cory-johannsen/binary-boxer/internal/game/robot"
	"github.com/cory-johannsen/binary-boxer/internal/game/ruleset"
	"github.com/cory-johannsen/binary-boxer/internal/game/stats"
)

var (
	// ErrNoRobot is returned when the owner has no robot record.
	ErrNoRobot = errors.New("no robot found")
	// ErrNoFight is returned when the owner has no live fight.
	ErrNoFight = errors.New("no active fight found")
	// ErrFightInProgress is returned when starting a fight while one is live.
	ErrFightInProgress = errors.New("a fight is already in progress")
	// ErrActionUnavailable is returned when the chosen action is not on the
	// fight's current menu.
	ErrActionUnavailable = errors.New("action not available this round")
)

// Service is the arena's application layer. All methods are safe for
// concurrent use; calls for the same owner are serialised.
type Service struct {
	cat      *ruleset.Catalog
	stores   Stores
	notifier Notifier
	roller   *dice.Roller
	cfg      config.ArenaConfig
	logger   *zap.Logger
	now      func() time.Time
	locks    *ownerLocks
}

// NewService creates a Service.
//
// Precondition: cat, roller, and logger must be non-nil; every store in stores
// must be non-nil. notifier may be nil.
func NewService(cat *ruleset.Catalog, stores Stores, notifier Notifier, roller *dice.Roller, cfg config.ArenaConfig, logger *zap.Logger) *Service {
	if cat == nil || roller == nil || logger == nil {
		panic("arena.NewService: precondition violated: catalogue, roller, and logger must be non-nil")
	}
	if stores.Players == nil || stores.Fights == nil || stores.Dynasties == nil || stores.Events == nil {
		panic("arena.NewService: precondition violated: every store must be non-nil")
	}
	return &Service{
		cat:      cat,
		stores:   stores,
		notifier: notifier,
		roller:   roller,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		locks:    newOwnerLocks(),
	}
}

// SetClock replaces the service's time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Catalog returns the catalogue the service validates against.
func (s *Service) Catalog() *ruleset.Catalog {
	return s.cat
}

func (s *Service) loadPlayer(ctx context.Context, owner string) (*robot.Robot, error) {
	r, err := s.stores.Players.LoadPlayer(ctx, owner)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNoRobot
	}
	if err != nil {
		return nil, fmt.Errorf("loading player: %w", err)
	}
	return r, nil
}

func (s *Service) savePlayer(ctx context.Context, owner string, r *robot.Robot) error {
	if err := s.stores.Players.SavePlayer(ctx, owner, r); err != nil {
		return fmt.Errorf("saving player: %w", err)
	}
	return nil
}

func (s *Service) loadFight(ctx context.Context, owner string) (combat.FightState, error) {
	f, err := s.stores.Fights.LoadFight(ctx, owner)
	if errors.Is(err, ErrNotFound) {
		return combat.FightState{}, ErrNoFight
	}
	if err != nil {
		return combat.FightState{}, fmt.Errorf("loading fight: %w", err)
	}
	return f, nil
}

func (s *Service) saveFight(ctx context.Context, owner string, f combat.FightState) error {
	if err := s.stores.Fights.SaveFight(ctx, owner, f, s.cfg.FightTTL); err != nil {
		return fmt.Errorf("saving fight: %w", err)
	}
	return nil
}

// loadOrStartDynasty returns the owner's dynasty, creating an empty one keyed
// by r's dynasty id when none is stored.
func (s *Service) loadOrStartDynasty(ctx context.Context, owner string, r *robot.Robot) (*dynasty.Dynasty, error) {
	d, err := s.stores.Dynasties.LoadDynasty(ctx, owner)
	if errors.Is(err, ErrNotFound) {
		return dynasty.New(r.DynastyID, owner, s.now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading dynasty: %w", err)
	}
	return d, nil
}

// publish records ev in the feed and notifies listeners. Failures are logged
// and never fail the caller's request.
func (s *Service) publish(ctx context.Context, typ EventType, owner, robotName, detail string) {
	ev := Event{Type: typ, Owner: owner, RobotName: robotName, Detail: detail, Timestamp: s.now()}
	if err := s.stores.Events.AppendEvent(ctx, ev, s.cfg.EventHistory); err != nil {
		s.logger.Warn("dropping community event",
			zap.String("type", string(typ)),
			zap.String("owner", owner),
			zap.Error(err),
		)
		return
	}
	if s.notifier != nil {
		s.notifier.Notify(ev)
	}
}

// InitResult is the session bootstrap for one owner.
type InitResult struct {
	Owner     string             `json:"username"`
	Player    *robot.Robot       `json:"player"`
	HasPlayer bool               `json:"hasPlayer"`
	Fight     *combat.FightState `json:"fight"`
}

// Init loads the owner's robot and, if it is mid-fight, the live fight. A robot
// whose fight has expired is returned to the corner.
func (s *Service) Init(ctx context.Context, owner string) (InitResult, error) {
	unlock := s.locks.lock(owner)
	defer unlock()

	res := InitResult{Owner: owner}
	r, err := s.loadPlayer(ctx, owner)
	if errors.Is(err, ErrNoRobot) {
		return res, nil
	}
	if err != nil {
		return res, err
	}
	res.Player, res.HasPlayer = r, true

	if r.State != robot.StateFighting {
		return res, nil
	}
	f, err := s.loadFight(ctx, owner)
	switch {
	case errors.Is(err, ErrNoFight):
		r.AbandonFight()
		if err := s.savePlayer(ctx, owner, r); err != nil {
			return res, err
		}
		s.logger.Info("fight expired, robot returned to corner", zap.String("owner", owner))
	case err != nil:
		return res, err
	default:
		res.Fight = &f
	}
	return res, nil
}

// CreateRobot builds a level-1 robot for owner. An owner whose previous robot
// retired inherits its lineage.
func (s *Service) CreateRobot(ctx context.Context, owner, name, lang1, lang2 string) (*robot.Robot, error) {
	unlock := s.locks.lock(owner)
	defer unlock()

	prior, err := s.loadPlayer(ctx, owner)
	if err != nil && !errors.Is(err, ErrNoRobot) {
		return nil, err
	}
	r, err := robot.New(s.cat, name, lang1, lang2, prior, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.savePlayer(ctx, owner, r); err != nil {
		return nil, err
	}

	s.logger.Info("robot created",
		zap.String("owner", owner),
		zap.String("robot", r.Name),
		zap.String("language1", r.Language1),
		zap.String("language2", r.Language2),
		zap.Int("generation", r.Generation),
	)
	s.publish(ctx, EventRobotCreated, owner, r.Name, fmt.Sprintf("created %s (Gen %d)", r.Name, r.Generation))
	return r, nil
}

// StatsResult pairs the stored robot with its companion-buffed stats.
type StatsResult struct {
	Player    *robot.Robot `json:"player"`
	Effective stats.Vector `json:"effectiveStats"`
}

// Stats returns the owner's robot and its effective stats.
func (s *Service) Stats(ctx context.Context, owner string) (StatsResult, error) {
	r, err := s.loadPlayer(ctx, owner)
	if err != nil {
		return StatsResult{}, err
	}
	eff, err := r.EffectiveStats(s.cat)
	if err != nil {
		return StatsResult{}, err
	}
	return StatsResult{Player: r, Effective: eff}, nil
}

// StartFight generates an opponent and opens a fight with a freshly minted seed.
// The player's side is frozen from its companion-buffed stats.
func (s *Service) StartFight(ctx context.Context, owner string) (combat.FightState, error) {
	unlock := s.locks.lock(owner)
	defer unlock()

	r, err := s.loadPlayer(ctx, owner)
	if err != nil {
		return combat.FightState{}, err
	}
	if r.State != robot.StateCorner {
		return combat.FightState{}, robot.ErrNotInCorner
	}
	if _, err := s.loadFight(ctx, owner); err == nil {
		return combat.FightState{}, ErrFightInProgress
	} else if !errors.Is(err, ErrNoFight) {
		return combat.FightState{}, err
	}

	seed := s.roller.Seed("fight")
	foe := enemy.Generate(s.cat, r.Level, r.FightNumber(), seed)
	eff, err := r.EffectiveStats(s.cat)
	if err != nil {
		return combat.FightState{}, err
	}
	f := combat.Init(eff, foe, seed)
	if err := r.BeginFight(s.now()); err != nil {
		return combat.FightState{}, err
	}
	if err := s.saveFight(ctx, owner, f); err != nil {
		return combat.FightState{}, err
	}
	if err := s.savePlayer(ctx, owner, r); err != nil {
		// The robot never left the corner, so the fight must not outlive this call.
		if derr := s.stores.Fights.DeleteFight(ctx, owner); derr != nil {
			s.logger.Error("discarding unstarted fight",
				zap.String("owner", owner),
				zap.Error(derr),
			)
		}
		return combat.FightState{}, err
	}

	s.logger.Info("fight started",
		zap.String("owner", owner),
		zap.Int64("seed", seed),
		zap.String("enemy", foe.Name),
		zap.Int("enemy_level", foe.Level),
		zap.Bool("boss", foe.IsBoss),
	)
	return f, nil
}

// finish stamps the XP award on a fight that has just become terminal.
func finish(f combat.FightState) combat.FightState {
	if f.Result.Terminal() {
		f.XPAwarded = stats.XPForFight(f.Enemy.Level, f.Result == combat.Win, f.Enemy.IsBoss)
	}
	return f
}

// Turn resolves one round with the player's chosen action. On a finished fight
// it replays the closing round instead.
func (s *Service) Turn(ctx context.Context, owner string, action combat.Action) (combat.RoundResult, error) {
	unlock := s.locks.lock(owner)
	defer unlock()

	f, err := s.loadFight(ctx, owner)
	if err != nil {
		return combat.RoundResult{}, err
	}
	if f.Result.Terminal() {
		return f.LastRound(), nil
	}
	if !f.Actions.Contains(action) {
		return combat.RoundResult{}, fmt.Errorf("%w: %s", ErrActionUnavailable, action)
	}
	r, err := s.loadPlayer(ctx, owner)
	if err != nil {
		return combat.RoundResult{}, err
	}

	res := combat.ResolveRound(f, action, r.Level, r.Name)
	res.State = finish(res.State)
	if err := s.saveFight(ctx, owner, res.State); err != nil {
		return combat.RoundResult{}, err
	}
	if res.State.Result.Terminal() {
		s.logger.Info("fight decided",
			zap.String("owner", owner),
			zap.String("result", string(res.State.Result)),
			zap.Int("rounds", res.State.Round),
		)
	}
	return res, nil
}

// ResolveFight plays every remaining round on autopilot and returns the final
// round. On a finished fight it replays the closing round.
func (s *Service) ResolveFight(ctx context.Context, owner string) (combat.RoundResult, error) {
	unlock := s.locks.lock(owner)
	defer unlock()

	f, err := s.loadFight(ctx, owner)
	if err != nil {
		return combat.RoundResult{}, err
	}
	if f.Result.Terminal() {
		return f.LastRound(), nil
	}
	r, err := s.loadPlayer(ctx, owner)
	if err != nil {
		return combat.RoundResult{}, err
	}

	final, rounds := combat.AutoResolve(f, r.Level, r.Name)
	final = finish(final)
	if err := s.saveFight(ctx, owner, final); err != nil {
		return combat.RoundResult{}, err
	}
	last := rounds[len(rounds)-1]
	last.State = final

	s.logger.Info("fight auto-resolved",
		zap.String("owner", owner),
		zap.String("result", string(final.Result)),
		zap.Int("rounds", len(rounds)),
	)
	return last, nil
}

// Completion reports what closing a fight did.
type Completion struct {
	Player *robot.Robot `json:"player"`
	robot.Outcome
	// Dynasty is set when the fight forced a retirement.
	Dynasty *dynasty.Dynasty `json:"dynasty,omitempty"`
}

// CompleteFight folds a finished fight into the robot, clears the fight, and
// publishes any milestones. A knockout late in a robot's career retires it into
// the dynasty and leaves a placeholder for the next generation.
func (s *Service) CompleteFight(ctx context.Context, owner string) (Completion, error) {
	unlock := s.locks.lock(owner)
	defer unlock()

	f, err := s.loadFight(ctx, owner)
	if err != nil {
		return Completion{}, err
	}
	if !f.Result.Terminal() {
		return Completion{}, robot.ErrFightPending
	}
	r, err := s.loadPlayer(ctx, owner)
	if err != nil {
		return Completion{}, err
	}
	out, err := r.ApplyFight(s.cat, f)
	if err != nil {
		return Completion{}, err
	}

	done := Completion{Player: r, Outcome: out}
	retired := *r
	if out.ForcedRetirement {
		d, err := s.loadOrStartDynasty(ctx, owner, r)
		if err != nil {
			return Completion{}, err
		}
		_, next, err := r.Retire(s.cat, d, dynasty.CauseKO, s.now())
		if err != nil {
			return Completion{}, err
		}
		if err := s.stores.Dynasties.SaveDynasty(ctx, owner, d); err != nil {
			return Completion{}, fmt.Errorf("saving dynasty: %w", err)
		}
		done.Player, done.Dynasty = next, d
	}
	if err := s.savePlayer(ctx, owner, done.Player); err != nil {
		return Completion{}, err
	}
	if err := s.stores.Fights.DeleteFight(ctx, owner); err != nil {
		return Completion{}, fmt.Errorf("deleting fight: %w", err)
	}

	s.logger.Info("fight completed",
		zap.String("owner", owner),
		zap.Bool("won", out.Won),
		zap.Int("xp", out.XPGained),
		zap.Int("level", out.NewLevel),
		zap.Bool("forced_retirement", out.ForcedRetirement),
	)
	s.publishMilestones(ctx, owner, &retired, f, out)
	return done, nil
}

func (s *Service) publishMilestones(ctx context.Context, owner string, r *robot.Robot, f combat.FightState, out robot.Outcome) {
	if out.ForcedRetirement {
		s.publish(ctx, EventDynastyStart, owner, r.Name, fmt.Sprintf(
			"KO'd at Level %d after %d fights, forced retirement. Generation %d begins",
			out.NewLevel, r.TotalFights, r.Generation+1))
	}
	if out.BossKill {
		s.publish(ctx, EventBossKill, owner, r.Name, fmt.Sprintf("defeated %s at Level %d", f.Enemy.Name, r.Level))
	}
	if out.LevelMilestone {
		s.publish(ctx, EventLevelMilestone, owner, r.Name, fmt.Sprintf("reached Level %d", out.NewLevel))
	}
	if out.StreakMilestone {
		s.publish(ctx, EventStreakRecord, owner, r.Name, fmt.Sprintf("%d win streak", r.CurrentStreak))
	}
}

// cornerAction loads the owner's robot, applies fn, and saves the robot when fn
// succeeds.
func (s *Service) cornerAction(ctx context.Context, owner string, fn func(r *robot.Robot) error) (*robot.Robot, error) {
	unlock := s.locks.lock(owner)
	defer unlock()

	r, err := s.loadPlayer(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := fn(r); err != nil {
		return nil, err
	}
	if err := s.savePlayer(ctx, owner, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Repair reports a corner heal.
type Repair struct {
	HPBefore   int  `json:"hpBefore"`
	HPAfter    int  `json:"hpAfter"`
	MaxHP      int  `json:"maxHp"`
	FullRepair bool `json:"fullRepair"`
}

// Repair heals the owner's robot by half its max HP.
func (s *Service) Repair(ctx context.Context, owner string) (Repair, error) {
	var rep Repair
	r, err := s.cornerAction(ctx, owner, func(r *robot.Robot) (err error) {
		rep.HPBefore, rep.HPAfter, err = r.Repair()
		return err
	})
	if err != nil {
		return Repair{}, err
	}
	rep.MaxHP = r.Stats.Int(stats.MaxHP)
	return rep, nil
}

// FullRepair restores the owner's robot to max HP, subject to its cooldown.
func (s *Service) FullRepair(ctx context.Context, owner string) (Repair, error) {
	rep := Repair{FullRepair: true}
	r, err := s.cornerAction(ctx, owner, func(r *robot.Robot) (err error) {
		rep.HPBefore, rep.HPAfter, err = r.FullRepair()
		return err
	})
	if err != nil {
		return Repair{}, err
	}
	rep.MaxHP = r.Stats.Int(stats.MaxHP)
	return rep, nil
}

// Train spends XP to raise one growth stat.
func (s *Service) Train(ctx context.Context, owner string, stat stats.Stat) (robot.Training, error) {
	var tr robot.Training
	_, err := s.cornerAction(ctx, owner, func(r *robot.Robot) (err error) {
		tr, err = r.Train(stat)
		return err
	})
	if err != nil {
		return robot.Training{}, err
	}
	return tr, nil
}

// LanguageSwap reports a language change.
type LanguageSwap struct {
	Slot        int          `json:"slot"`
	OldLanguage string       `json:"oldLanguage"`
	NewLanguage string       `json:"newLanguage"`
	Player      *robot.Robot `json:"player"`
}

// SwapLanguage replaces the language in slot with id.
func (s *Service) SwapLanguage(ctx context.Context, owner string, slot int, id string) (LanguageSwap, error) {
	swap := LanguageSwap{Slot: slot, NewLanguage: id}
	r, err := s.cornerAction(ctx, owner, func(r *robot.Robot) (err error) {
		swap.OldLanguage, err = r.SwapLanguage(s.cat, slot, id)
		return err
	})
	if err != nil {
		return LanguageSwap{}, err
	}
	swap.Player = r
	return swap, nil
}

// Retire voluntarily retires the owner's robot into its dynasty and returns the
// updated dynasty. The owner is left with a placeholder awaiting CreateRobot.
func (s *Service) Retire(ctx context.Context, owner string) (*dynasty.Dynasty, error) {
	unlock := s.locks.lock(owner)
	defer unlock()

	r, err := s.loadPlayer(ctx, owner)
	if err != nil {
		return nil, err
	}
	d, err := s.loadOrStartDynasty(ctx, owner, r)
	if err != nil {
		return nil, err
	}
	_, next, err := r.Retire(s.cat, d, dynasty.CauseVoluntary, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.stores.Dynasties.SaveDynasty(ctx, owner, d); err != nil {
		return nil, fmt.Errorf("saving dynasty: %w", err)
	}
	if err := s.savePlayer(ctx, owner, next); err != nil {
		return nil, err
	}

	s.logger.Info("robot retired",
		zap.String("owner", owner),
		zap.String("robot", r.Name),
		zap.Int("generation", r.Generation),
		zap.Int("level", r.Level),
	)
	s.publish(ctx, EventDynastyStart, owner, r.Name, fmt.Sprintf(
		"%s retired at Level %d. Generation %d begins", r.Name, r.Level, next.Generation))
	return d, nil
}

// Dynasty returns the owner's lineage, or nil when no robot has retired yet.
func (s *Service) Dynasty(ctx context.Context, owner string) (*dynasty.Dynasty, error) {
	d, err := s.stores.Dynasties.LoadDynasty(ctx, owner)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading dynasty: %w", err)
	}
	return d, nil
}

// PurgeExpiredFights drops every fight past its expiry. Robots left in the
// fighting state are returned to the corner by their next Init.
func (s *Service) PurgeExpiredFights(ctx context.Context) (int, error) {
	n, err := s.stores.Fights.PurgeExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("purging expired fights: %w", err)
	}
	if n > 0 {
		s.logger.Info("expired fights purged", zap.Int("count", n))
	}
	return n, nil
}

// Board is one leaderboard view.
type Board struct {
	Metric  Metric     `json:"metric"`
	Entries []Standing `json:"entries"`
	// PlayerRank is the viewer's rank, 0 when unranked.
	PlayerRank int `json:"playerRank"`
}

// Leaderboard returns the top entries for m and the viewer's own rank. viewer
// may be empty.
func (s *Service) Leaderboard(ctx context.Context, viewer string, m Metric) (Board, error) {
	entries, err := s.stores.Players.Standings(ctx, m, s.cfg.LeaderboardSize)
	if err != nil {
		return Board{}, fmt.Errorf("loading standings: %w", err)
	}
	b := Board{Metric: m, Entries: entries}
	if viewer == "" {
		return b, nil
	}
	for _, e := range entries {
		if e.Owner == viewer {
			b.PlayerRank = e.Rank
			return b, nil
		}
	}
	if b.PlayerRank, err = s.stores.Players.RankOf(ctx, m, viewer); err != nil {
		return Board{}, fmt.Errorf("ranking %q: %w", viewer, err)
	}
	return b, nil
}

// CommunityFeed returns the most recent community events, newest first.
func (s *Service) CommunityFeed(ctx context.Context) ([]Event, error) {
	events, err := s.stores.Events.RecentEvents(ctx, s.cfg.FeedSize)
	if err != nil {
		return nil, fmt.Errorf("loading community feed: %w", err)
	}
	return events, nil
}
