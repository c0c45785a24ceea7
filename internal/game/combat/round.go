package combat

import (
	"github.com/cory-johannsen/binary-boxer/internal/game/dice"
	"github.com/cory-johannsen/binary-boxer/internal/game/stats"
)

// RoundResult is the product of one ResolveRound call. A turn is nil when that
// side did not act, either because the fight was already over or because the
// other side's knockout ended the round first.
type RoundResult struct {
	State      FightState `json:"fightState"`
	PlayerTurn *Turn      `json:"playerTurn"`
	EnemyTurn  *Turn      `json:"enemyTurn"`
}

// round carries the mutable bookkeeping for a single resolution.
type round struct {
	rng      *dice.Seeded
	fx       effects
	n        narrator
	playerHP int
	enemyHP  int
}

func (r *round) hp(side Side) int {
	if side == SidePlayer {
		return r.playerHP
	}
	return r.enemyHP
}

func (r *round) damage(side Side, amount int) {
	if side == SidePlayer {
		r.playerHP = max(0, r.playerHP-amount)
		return
	}
	r.enemyHP = max(0, r.enemyHP-amount)
}

// act resolves one actor's turn against def and applies the damage.
func (r *round) act(att, def fighter, number int) Turn {
	var h hit
	switch {
	case att.crashed:
	case att.side == SidePlayer && r.fx.enemyAutoDodge:
		h.dodged = true
	default:
		h = strike(r.rng, att, def, att.action)
	}
	h = r.fx.adjust(att.side, h)
	r.damage(def.side, h.damage)
	r.damage(att.side, h.counterDamage)

	total := h.damage
	if att.action == Combo && !h.dodged && !att.crashed && r.hp(def.side) > 0 {
		second := r.fx.adjust(att.side, strike(r.rng, att, def, Combo))
		r.damage(def.side, second.damage)
		total += second.damage
	}

	return Turn{
		Number:        number,
		Attacker:      att.side,
		Action:        att.action,
		Damage:        total,
		Blocked:       h.blocked,
		Dodged:        h.dodged,
		Critical:      h.crit,
		Crashed:       att.crashed,
		CounterAttack: h.counter,
		PlayerHPAfter: r.playerHP,
		EnemyHPAfter:  r.enemyHP,
		Flavour:       r.n.narrate(att.side, att.action, h, att.crashed, r.rng),
	}
}

// ResolveRound resolves one round of s with the player choosing action.
//
// The round's generator is seeded with Seed + Round*997, so resolving the same
// state with the same action always yields the same result. Boss overlays are
// applied to copies of both stat vectors; the snapshot is never modified. The
// faster side acts first, ties going to the player. If the first actor's turn
// leaves either side at 0 HP the round ends with a single turn. The next menu
// is read from this round's overlay-adjusted player stats.
//
// Precondition: action must be on s.Actions; callers validate it.
// Postcondition: a terminal s is returned unchanged with both turns nil.
// Otherwise the returned state's Turns is a fresh slice extending s.Turns.
func ResolveRound(s FightState, action Action, playerLevel int, robotName string) RoundResult {
	if s.Result.Terminal() {
		return RoundResult{State: s}
	}

	num := s.Round + 1
	r := &round{
		rng:      dice.NewSeeded(s.Seed + int64(s.Round)*roundSeedStride),
		fx:       effectsFor(s.Enemy, num, s.PlayerSnapshot[stats.MaxHP]),
		n:        narrator{robot: robotName, enemy: s.Enemy.Name},
		playerHP: s.PlayerHP,
		enemyHP:  s.EnemyHP,
	}

	player := fighter{
		side:   SidePlayer,
		stats:  r.fx.playerStats(s.PlayerSnapshot),
		level:  playerLevel,
		action: action,
	}
	foe := fighter{
		side:  SideEnemy,
		stats: r.fx.enemyStats(s.Enemy.Stats),
		level: s.Enemy.Level,
	}
	playerFirst := player.stats[stats.Speed] >= foe.stats[stats.Speed]

	if r.fx.negatePlayerGuard && player.action == Guard {
		player.action = Strike
	}
	if r.fx.interruptChance > 0 && r.rng.Chance(r.fx.interruptChance) {
		player.action = Strike
	}
	if player.action == Overclock || r.fx.extraCrashChance > 0 {
		player.crashed = r.rng.Chance(r.fx.crashChance(player.action, player.stats[stats.Stability]))
	}

	var enemyFraction float64
	if maxHP := foe.stats[stats.MaxHP]; maxHP > 0 {
		enemyFraction = float64(s.EnemyHP) / maxHP
	}
	foe.action = EnemyAction(foe.stats, enemyFraction, r.rng)

	first, second := player, foe
	if !playerFirst {
		first, second = foe, player
	}

	next := s
	next.Round = num
	next.Turns = make([]Turn, len(s.Turns), len(s.Turns)+2)
	copy(next.Turns, s.Turns)

	res := RoundResult{}
	record := func(t Turn) {
		next.Turns = append(next.Turns, t)
		if t.Attacker == SidePlayer {
			res.PlayerTurn = &t
		} else {
			res.EnemyTurn = &t
		}
	}

	record(r.act(first, second, num*2-1))
	if outcome(r.playerHP, r.enemyHP) == Pending {
		record(r.act(second, first, num*2))
	}

	next.PlayerHP = r.playerHP
	next.EnemyHP = r.enemyHP
	next.Result = outcome(r.playerHP, r.enemyHP)
	if next.Result == Pending && num >= MaxRounds {
		next.Result = Loss
		if r.playerHP >= r.enemyHP {
			next.Result = Win
		}
	}
	next.Actions = Menu{}
	if next.Result == Pending {
		next.Actions = AvailableActions(player.stats, float64(r.playerHP), player.stats[stats.MaxHP])
	}
	res.State = next
	return res
}
