// Package combat is the deterministic fight engine. Every function is a pure
// transformation of its inputs: a round's outcome depends only on the fight
// seed, the round index, the state going in, and the chosen action.
package combat

import (
	"github.com/cory-johannsen/binary-boxer/internal/game/enemy"
	"github.com/cory-johannsen/binary-boxer/internal/game/stats"
)

// MaxRounds caps a fight. A fight still pending after this many rounds is
// decided on remaining HP.
const MaxRounds = 50

// roundSeedStride separates the per-round generator seeds.
const roundSeedStride = 997

// Side identifies who acted in a turn.
type Side string

const (
	SidePlayer Side = "player"
	SideEnemy  Side = "enemy"
)

// Result is the fight outcome from the player's point of view.
type Result string

const (
	Pending Result = "pending"
	Win     Result = "win"
	Loss    Result = "loss"
)

// Terminal reports whether r ends the fight.
func (r Result) Terminal() bool { return r == Win || r == Loss }

// Turn is one actor's resolved action within a round. Turns are never modified
// after creation.
type Turn struct {
	Number        int    `json:"turnNumber"`
	Attacker      Side   `json:"attacker"`
	Action        Action `json:"action"`
	Damage        int    `json:"damage"`
	Blocked       bool   `json:"blocked"`
	Dodged        bool   `json:"dodged"`
	Critical      bool   `json:"critical"`
	Crashed       bool   `json:"crashed"`
	CounterAttack bool   `json:"counterAttack"`
	PlayerHPAfter int    `json:"playerHpAfter"`
	EnemyHPAfter  int    `json:"enemyHpAfter"`
	Flavour       string `json:"flavourText"`
}

// FightState is the unit of combat progress.
//
// Invariant: while Result is Pending, len(Turns) == 2*Round. A knockout adds a
// single turn for its round and makes Result terminal.
type FightState struct {
	Enemy          enemy.Enemy  `json:"enemy"`
	Seed           int64        `json:"seed"`
	Turns          []Turn       `json:"turns"`
	Result         Result       `json:"result"`
	XPAwarded      int          `json:"xpAwarded"`
	PlayerSnapshot stats.Vector `json:"playerStatsSnapshot"`
	Round          int          `json:"currentRound"`
	Actions        Menu         `json:"availableActions"`
	AutoPilot      bool         `json:"autoPilot"`
	PlayerHP       int          `json:"currentHp"`
	EnemyHP        int          `json:"enemyCurrentHp"`
}

// Init builds round zero of a fight. player is copied into the snapshot, so
// later changes to the caller's vector never reach the fight.
//
// Postcondition: Result == Pending, Round == 0, Turns is empty and non-nil,
// PlayerHP and EnemyHP equal each side's current HP.
func Init(player stats.Vector, e enemy.Enemy, seed int64) FightState {
	return FightState{
		Enemy:          e,
		Seed:           seed,
		Turns:          []Turn{},
		Result:         Pending,
		PlayerSnapshot: player,
		Actions:        AvailableActions(player, player[stats.HP], player[stats.MaxHP]),
		PlayerHP:       player.Int(stats.HP),
		EnemyHP:        e.Stats.Int(stats.HP),
	}
}

// outcome decides a result from both HP totals. A double knockout is a loss.
func outcome(playerHP, enemyHP int) Result {
	switch {
	case playerHP <= 0:
		return Loss
	case enemyHP <= 0:
		return Win
	default:
		return Pending
	}
}
