package combat

import (
	"strings"

	"github.com/cory-johannsen/binary-boxer/internal/game/dice"
)

var (
	playerHitLines = []string{
		"{robot} lands a clean hit on {enemy}!",
		"{robot} strikes {enemy} with precision!",
		"{robot} connects! Solid impact!",
		"{robot} drives through {enemy}'s guard!",
		"{robot} tags {enemy} with a sharp blow!",
	}
	enemyHitLines = []string{
		"{enemy} strikes back at {robot}!",
		"{enemy} lands a punishing blow!",
		"{enemy} finds an opening!",
		"{enemy} retaliates with force!",
		"{enemy} connects with {robot}!",
	}
	critLines = []string{
		"CRITICAL HIT! {attacker} finds the weak point!",
		"DEVASTATING! {attacker} hits where it hurts!",
		"MASSIVE IMPACT! {attacker} tears through!",
	}
	dodgeLines = []string{
		"{defender} sidesteps the attack!",
		"{defender} reads the pattern and dodges!",
		"Clean miss! {defender} is untouchable!",
	}
	blockLines = []string{
		"{defender} blocks! Damage reduced!",
		"{defender}'s armour absorbs the blow!",
		"{defender} braces and takes half damage!",
	}
	counterLines = []string{
		"{defender} counters immediately!",
		"{defender} blocks and strikes back!",
	}
	actionLines = map[Action][]string{
		Guard: {
			"{actor} raises their guard!",
			"{actor} tightens stance defensively!",
		},
		Berserk: {
			"{actor} enters BERSERK MODE!",
			"{actor}'s systems overload, BERSERK!",
		},
		Analyse: {
			"{actor} scans for weaknesses...",
			"{actor} reads the pattern...",
		},
		Combo: {
			"{actor} unleashes a rapid COMBO!",
			"{actor} chains a double strike!",
		},
		HeavyStrike: {
			"{actor} winds up a HEAVY STRIKE!",
			"{actor} puts everything into one swing!",
		},
		Overclock: {
			"{actor} OVERCLOCKS, systems spike!",
			"{actor} pushes past safe limits!",
		},
	}
	crashLines = []string{
		"{actor} crashes mid-attack! Stunned!",
		"{actor}'s systems glitch, lost a turn!",
	}
)

// narrator fills flavour templates for one fight.
type narrator struct {
	robot string
	enemy string
}

func pick(lines []string, rng *dice.Seeded) string {
	return lines[rng.Range(0, len(lines)-1)]
}

func (n narrator) fill(line string, side Side) string {
	actor, other := n.robot, n.enemy
	if side == SideEnemy {
		actor, other = n.enemy, n.robot
	}
	return strings.NewReplacer(
		"{robot}", n.robot,
		"{enemy}", n.enemy,
		"{actor}", actor,
		"{attacker}", actor,
		"{defender}", other,
	).Replace(line)
}

// narrate picks one line for a resolved turn. Announcement actions win over
// the hit outcome, which wins over the generic action line. Exactly one draw
// is taken from rng.
func (n narrator) narrate(side Side, action Action, h hit, crashed bool, rng *dice.Seeded) string {
	var lines []string
	switch {
	case crashed:
		lines = crashLines
	case action == Guard || action == Berserk || action == Analyse:
		lines = actionLines[action]
	case h.dodged:
		lines = dodgeLines
	case h.crit:
		lines = critLines
	case h.counter:
		lines = counterLines
	case h.blocked:
		lines = blockLines
	case action == HeavyStrike || action == Combo || action == Overclock:
		lines = actionLines[action]
	case side == SidePlayer:
		lines = playerHitLines
	default:
		lines = enemyHitLines
	}
	return n.fill(pick(lines, rng), side)
}
