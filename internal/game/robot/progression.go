package robot

import (
	"fmt"
	"math"
	"time"

	"github.com/cory-johannsen/binary-boxer/internal/game/combat"
	"github.com/cory-johannsen/binary-boxer/internal/game/dynasty"
	"github.com/cory-johannsen/binary-boxer/internal/game/ruleset"
	"github.com/cory-johannsen/binary-boxer/internal/game/stats"
)

// Milestone cadences.
const (
	LevelMilestoneEvery  = 5
	StreakMilestoneEvery = 10
)

// Companion identifies an unlocked companion.
type Companion string

const (
	CompanionNone Companion = ""
	CompanionVeil Companion = "veil"
	CompanionEcho Companion = "echo"
)

// Outcome summarises what a finished fight did to the robot.
type Outcome struct {
	XPGained          int       `json:"xpGained"`
	Won               bool      `json:"won"`
	LeveledUp         bool      `json:"leveledUp"`
	NewLevel          int       `json:"newLevel"`
	CompanionUnlocked Companion `json:"companionUnlocked,omitempty"`
	ForcedRetirement  bool      `json:"forcedRetirement"`
	BossKill          bool      `json:"-"`
	LevelMilestone    bool      `json:"-"`
	StreakMilestone   bool      `json:"-"`
}

// ApplyFight folds a terminal fight into the robot and returns it to the corner.
//
// Precondition: r is in StateFighting and fight.Result is terminal.
// Postcondition: TotalFights grows by one; level-ups keep the fight's closing
// HP ratio with a floor of 1 HP.
func (r *Robot) ApplyFight(cat *ruleset.Catalog, fight combat.FightState) (Outcome, error) {
	if r.State != StateFighting {
		return Outcome{}, ErrNotFighting
	}
	if !fight.Result.Terminal() {
		return Outcome{}, ErrFightPending
	}
	a, b, err := r.Languages(cat)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{
		XPGained: fight.XPAwarded,
		Won:      fight.Result == combat.Win,
		NewLevel: r.Level,
	}
	r.XP += fight.XPAwarded
	r.TotalFights++
	if out.Won {
		r.Wins++
		r.CurrentStreak++
		r.BestStreak = max(r.BestStreak, r.CurrentStreak)
	} else {
		r.Losses++
		r.CurrentStreak = 0
	}
	r.Stats[stats.HP] = float64(max(0, fight.PlayerHP))

	ratio := 0.0
	if snapMax := fight.PlayerSnapshot[stats.MaxHP]; snapMax > 0 {
		ratio = float64(fight.PlayerHP) / snapMax
	}
	for r.XP >= r.XPToNext {
		r.XP -= r.XPToNext
		r.Level++
		r.XPToNext = stats.XPRequired(r.Level)
		r.recalculate(a, b, ratio)
		out.LeveledUp = true
		out.NewLevel = r.Level
	}

	if !r.HasVeil && r.TotalFights >= VeilUnlockFights {
		r.HasVeil = true
		out.CompanionUnlocked = CompanionVeil
	}
	if !r.HasEcho && r.TotalFights >= EchoUnlockFights {
		r.HasEcho = true
		out.CompanionUnlocked = CompanionEcho
	}
	r.FullRepairCooldown = max(0, r.FullRepairCooldown-1)
	r.SwapLanguageCooldown = max(0, r.SwapLanguageCooldown-1)

	knockedOut := !out.Won && fight.PlayerHP <= 0
	out.ForcedRetirement = knockedOut && r.TotalFights >= ForcedRetirementFights
	out.BossKill = out.Won && fight.Enemy.IsBoss
	out.LevelMilestone = out.LeveledUp && out.NewLevel%LevelMilestoneEvery == 0
	out.StreakMilestone = out.Won && r.CurrentStreak%StreakMilestoneEvery == 0

	r.State = StateCorner
	return out, nil
}

// Repair heals half of max HP, capped at max HP. It returns the HP before and
// after.
func (r *Robot) Repair() (before, after int, err error) {
	if err := r.requireCorner(); err != nil {
		return 0, 0, err
	}
	maxHP := r.Stats[stats.MaxHP]
	before = r.Stats.Int(stats.HP)
	r.Stats[stats.HP] = math.Min(maxHP, r.Stats[stats.HP]+math.Floor(maxHP*RepairFraction))
	return before, r.Stats.Int(stats.HP), nil
}

// FullRepair restores max HP and starts the full-repair cooldown.
func (r *Robot) FullRepair() (before, after int, err error) {
	if err := r.requireCorner(); err != nil {
		return 0, 0, err
	}
	if r.FullRepairCooldown > 0 {
		return 0, 0, cooldownError(r.FullRepairCooldown)
	}
	before = r.Stats.Int(stats.HP)
	r.Stats[stats.HP] = r.Stats[stats.MaxHP]
	r.FullRepairCooldown = FullRepairCooldown
	return before, r.Stats.Int(stats.HP), nil
}

// Training reports one completed training step.
type Training struct {
	Stat        stats.Stat `json:"stat"`
	OldValue    int        `json:"oldValue"`
	NewValue    int        `json:"newValue"`
	XPSpent     int        `json:"xpSpent"`
	XPRemaining int        `json:"xpRemaining"`
}

// TrainCost is the XP price to raise stat s by one, never below MinTrainingCost.
func (r *Robot) TrainCost(s stats.Stat) int {
	return max(MinTrainingCost, stats.TrainingCost(r.Stats.Int(s)))
}

// Train spends XP to raise a growth stat by one. Training max HP also grants
// one current HP.
func (r *Robot) Train(s stats.Stat) (Training, error) {
	if !s.IsGrowth() {
		return Training{}, ErrNotTrainable
	}
	if err := r.requireCorner(); err != nil {
		return Training{}, err
	}
	cost := r.TrainCost(s)
	if r.XP < cost {
		return Training{}, fmt.Errorf("%w: need %d, have %d", ErrInsufficientXP, cost, r.XP)
	}
	old := r.Stats.Int(s)
	r.XP -= cost
	r.Stats[s]++
	if s == stats.MaxHP {
		r.Stats[stats.HP]++
	}
	return Training{Stat: s, OldValue: old, NewValue: r.Stats.Int(s), XPSpent: cost, XPRemaining: r.XP}, nil
}

// SwapLanguage replaces the language in slot (1 or 2) and rebuilds the stats
// for the current level, keeping the HP ratio. Trained increments are not
// carried over. It returns the language that was replaced.
func (r *Robot) SwapLanguage(cat *ruleset.Catalog, slot int, id string) (string, error) {
	if slot != 1 && slot != 2 {
		return "", ErrInvalidSlot
	}
	if _, err := cat.Language(id); err != nil {
		return "", err
	}
	if err := r.requireCorner(); err != nil {
		return "", err
	}
	if r.SwapLanguageCooldown > 0 {
		return "", cooldownError(r.SwapLanguageCooldown)
	}
	current, other := &r.Language1, r.Language2
	if slot == 2 {
		current, other = &r.Language2, r.Language1
	}
	if id == *current {
		return "", fmt.Errorf("%w: slot %d already holds %s", ErrSameLanguage, slot, id)
	}
	if id == other {
		return "", fmt.Errorf("%w: %s is equipped in the other slot", ErrSameLanguage, id)
	}

	ratio := 0.0
	if m := r.Stats[stats.MaxHP]; m > 0 {
		ratio = r.Stats[stats.HP] / m
	}
	old := *current
	*current = id
	a, b, err := r.Languages(cat)
	if err != nil {
		*current = old
		return "", err
	}
	r.recalculate(a, b, ratio)
	r.SwapLanguageCooldown = SwapLanguageCooldown
	return old, nil
}

// GenerationRecord returns the frozen dynasty record for the robot as it stands.
func (r *Robot) GenerationRecord(cause dynasty.Cause, now time.Time) dynasty.Generation {
	return dynasty.Generation{
		Number:      r.Generation,
		RobotName:   r.Name,
		Language1:   r.Language1,
		Language2:   r.Language2,
		FinalLevel:  r.Level,
		TotalFights: r.TotalFights,
		Wins:        r.Wins,
		BestStreak:  r.BestStreak,
		RetiredAt:   now,
		Cause:       cause,
		FinalStats:  r.Stats,
	}
}

// Retire appends the robot to d and returns the placeholder for the next
// generation. The placeholder keeps the languages and dynasty, holds the legacy
// recomputed from d's whole history, and waits in StateCreating for a name.
//
// Precondition: d must be non-nil and belong to r's dynasty.
// Postcondition: on success r is in StateRetired.
func (r *Robot) Retire(cat *ruleset.Catalog, d *dynasty.Dynasty, cause dynasty.Cause, now time.Time) (dynasty.Generation, *Robot, error) {
	if d == nil {
		panic("robot.Retire: precondition violated: dynasty must be non-nil")
	}
	if err := r.requireCorner(); err != nil {
		return dynasty.Generation{}, nil, err
	}
	if cause == dynasty.CauseVoluntary && r.TotalFights < RetireMinFights {
		return dynasty.Generation{}, nil, fmt.Errorf("%w: need %d, have %d", ErrTooFewFights, RetireMinFights, r.TotalFights)
	}
	a, b, err := r.Languages(cat)
	if err != nil {
		return dynasty.Generation{}, nil, err
	}
	gen := r.GenerationRecord(cause, now)
	if err := d.Append(gen); err != nil {
		return dynasty.Generation{}, nil, err
	}

	next := r.Generation + 1
	kindred := next >= KindredGeneration
	legacy := dynasty.TotalLegacy(d.Generations, kindred)
	successor := &Robot{
		Language1:  r.Language1,
		Language2:  r.Language2,
		Stats:      stats.ForLevel(a, b, 1, legacy).Rounded(),
		Level:      1,
		XPToNext:   stats.XPRequired(1),
		HasKindred: kindred,
		Generation: next,
		DynastyID:  r.DynastyID,
		Legacy:     legacy,
		CreatedAt:  now,
		State:      StateCreating,
	}
	r.State = StateRetired
	return gen, successor, nil
}
