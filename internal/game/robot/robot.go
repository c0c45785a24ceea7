// Package robot holds a player's robot record and the progression rules that
// drive it between fights: creation, fight results, corner actions, and
// retirement into the dynasty.
package robot

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/binary-boxer/internal/game/ruleset"
	"github.com/cory-johannsen/binary-boxer/internal/game/stats"
)

// State is the robot's lifecycle phase.
type State string

const (
	// StateCreating marks a placeholder awaiting a name and languages; it
	// carries the lineage left by the previous generation.
	StateCreating State = "creating"
	StateCorner   State = "corner"
	StateFighting State = "fighting"
	StateRetired  State = "retired"
)

// Progression thresholds.
const (
	VeilUnlockFights       = 5
	EchoUnlockFights       = 12
	KindredGeneration      = 2
	FullRepairCooldown     = 3
	SwapLanguageCooldown   = 10
	RetireMinFights        = 20
	ForcedRetirementFights = 30
	RepairFraction         = 0.5

	// MinTrainingCost keeps a zero-valued stat from training for free.
	MinTrainingCost = 10
)

// Robot is one player's progression record.
//
// Invariant: 0 <= Stats[HP] <= Stats[MaxHP] and every persisted stat is a whole number.
type Robot struct {
	Name      string       `json:"robotName"`
	Language1 string       `json:"language1"`
	Language2 string       `json:"language2"`
	Stats     stats.Vector `json:"stats"`

	Level         int `json:"level"`
	XP            int `json:"xp"`
	XPToNext      int `json:"xpToNext"`
	TotalFights   int `json:"totalFights"`
	Wins          int `json:"wins"`
	Losses        int `json:"losses"`
	CurrentStreak int `json:"currentStreak"`
	BestStreak    int `json:"bestStreak"`

	HasVeil    bool `json:"hasVeil"`
	HasEcho    bool `json:"hasEcho"`
	HasKindred bool `json:"hasKindred"`

	FullRepairCooldown   int `json:"fullRepairCooldown"`
	SwapLanguageCooldown int `json:"swapLanguageCooldown"`

	Generation int          `json:"generation"`
	DynastyID  string       `json:"dynastyId"`
	Legacy     stats.Legacy `json:"legacyStats"`

	CreatedAt   time.Time `json:"createdAt"`
	LastFightAt time.Time `json:"lastFightAt"`
	State       State     `json:"state"`
}

// New creates a level-1 robot. When prior is a StateCreating placeholder left by
// a retirement, its legacy, generation, dynasty, and Kindred flag carry over;
// otherwise the robot starts a new dynasty at generation 1.
//
// Precondition: cat must be non-nil.
// Postcondition: on success the robot is in StateCorner with full HP.
func New(cat *ruleset.Catalog, name, lang1, lang2 string, prior *Robot, now time.Time) (*Robot, error) {
	clean, err := SanitizeName(name)
	if err != nil {
		return nil, err
	}
	a, b, err := languagePair(cat, lang1, lang2)
	if err != nil {
		return nil, err
	}
	if prior != nil && prior.State != StateCreating {
		return nil, ErrActiveRobot
	}

	r := &Robot{
		Name:       clean,
		Language1:  lang1,
		Language2:  lang2,
		Level:      1,
		XPToNext:   stats.XPRequired(1),
		Generation: 1,
		DynastyID:  uuid.NewString(),
		Legacy:     stats.Legacy{},
		CreatedAt:  now,
		State:      StateCorner,
	}
	if prior != nil {
		r.Generation = prior.Generation
		r.DynastyID = prior.DynastyID
		r.HasKindred = prior.HasKindred
		r.Legacy = prior.Legacy.Clone()
	}
	r.Stats = stats.ForLevel(a, b, 1, r.Legacy).Rounded()
	return r, nil
}

func languagePair(cat *ruleset.Catalog, lang1, lang2 string) (stats.Language, stats.Language, error) {
	a, err := cat.Language(lang1)
	if err != nil {
		return stats.Language{}, stats.Language{}, err
	}
	b, err := cat.Language(lang2)
	if err != nil {
		return stats.Language{}, stats.Language{}, err
	}
	if lang1 == lang2 {
		return stats.Language{}, stats.Language{}, ErrSameLanguage
	}
	return a, b, nil
}

// Languages resolves the robot's two language modules.
func (r *Robot) Languages(cat *ruleset.Catalog) (stats.Language, stats.Language, error) {
	return languagePair(cat, r.Language1, r.Language2)
}

// Companions returns the active companion buffs.
func (r *Robot) Companions() stats.Companions {
	return stats.Companions{Veil: r.HasVeil, Echo: r.HasEcho}
}

// EffectiveStats returns the robot's stats with companion buffs applied. The
// stored stats are not modified.
func (r *Robot) EffectiveStats(cat *ruleset.Catalog) (stats.Vector, error) {
	a, b, err := r.Languages(cat)
	if err != nil {
		return stats.Vector{}, err
	}
	return stats.ApplyCompanionBuffs(r.Stats, r.Companions(), a, b), nil
}

// FightNumber is the number the next fight will carry.
func (r *Robot) FightNumber() int { return r.TotalFights + 1 }

// BeginFight moves the robot from the corner into a fight.
func (r *Robot) BeginFight(now time.Time) error {
	if r.State != StateCorner {
		return ErrNotInCorner
	}
	r.State = StateFighting
	r.LastFightAt = now
	return nil
}

// AbandonFight returns a fighting robot to the corner, used when its fight
// state has expired.
func (r *Robot) AbandonFight() {
	if r.State == StateFighting {
		r.State = StateCorner
	}
}

// recalculate rebuilds the stats for the current level and languages, keeping
// the given HP ratio with a floor of 1.
func (r *Robot) recalculate(a, b stats.Language, hpRatio float64) {
	r.Stats = stats.ForLevel(a, b, r.Level, r.Legacy).Rounded()
	r.Stats[stats.HP] = max(1, math.Floor(r.Stats[stats.MaxHP]*hpRatio))
}

func (r *Robot) requireCorner() error {
	if r.State != StateCorner {
		return ErrNotInCorner
	}
	return nil
}

func cooldownError(remaining int) error {
	return fmt.Errorf("%w (%d fights remaining)", ErrOnCooldown, remaining)
}
