package combat

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/cory-johannsen/binary-boxer/internal/game/stats"
)

// Action is a combat move. The string form is the wire value.
type Action string

const (
	Strike      Action = "strike"
	HeavyStrike Action = "heavy_strike"
	Guard       Action = "guard"
	Analyse     Action = "analyse"
	Overclock   Action = "overclock"
	Combo       Action = "combo"
	Berserk     Action = "berserk"
)

// Menu limits and unlock thresholds.
const (
	MaxMenuSize = 3

	heavyStrikeCreativity = 15
	guardWisdom           = 15
	analysePatternRead    = 10
	overclockAdaptability = 15
	comboCreativitySpeed  = 25
	berserkHPFraction     = 0.3
)

// ActionInfo is the display text for an Action.
type ActionInfo struct {
	Name        string
	Description string
	RiskLabel   string
}

var actionInfo = map[Action]ActionInfo{
	Strike:      {"Strike", "Standard attack", "Reliable"},
	HeavyStrike: {"Heavy Strike", "1.5x damage, might miss", "Risky"},
	Guard:       {"Guard", "Block next hit, chance to counter", "Safe"},
	Analyse:     {"Analyse", "+30% accuracy next 2 turns", "Setup"},
	Overclock:   {"Overclock", "+50% speed for 2 turns, crash risk", "Volatile"},
	Combo:       {"Combo", "2 hits at 70% damage each", "Aggressive"},
	Berserk:     {"Berserk", "+100% power, -50% defence", "Desperate"},
}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	_, ok := actionInfo[a]
	return ok
}

// Info returns the display text for a; unknown actions yield the zero value.
func (a Action) Info() ActionInfo { return actionInfo[a] }

// ParseAction converts a wire value to an Action.
//
// Postcondition: returns an error iff s names no action.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if !a.Valid() {
		return "", fmt.Errorf("unknown action %q", s)
	}
	return a, nil
}

// dealsDamage reports whether a goes through the damage formula at all.
func (a Action) dealsDamage() bool { return a != Guard && a != Analyse }

// MenuItem is one selectable action.
type MenuItem struct {
	Action      Action `json:"action"`
	Name        string `json:"name"`
	Description string `json:"description"`
	RiskLabel   string `json:"riskLabel"`
	Primary     bool   `json:"isPrimary"`
}

func itemFor(a Action) MenuItem {
	info := actionInfo[a]
	return MenuItem{Action: a, Name: info.Name, Description: info.Description, RiskLabel: info.RiskLabel}
}

// Menu is the list of actions offered to the player for the next round.
type Menu []MenuItem

// Contains reports whether a is on the menu.
func (m Menu) Contains(a Action) bool {
	return slices.ContainsFunc(m, func(it MenuItem) bool { return it.Action == a })
}

// Actions returns the bare action list.
func (m Menu) Actions() []Action {
	out := make([]Action, len(m))
	for i, it := range m {
		out[i] = it.Action
	}
	return out
}

// score is an action's affinity with a robot's stats; higher is a better fit.
func score(a Action, v stats.Vector) float64 {
	switch a {
	case Strike:
		return v[stats.Power]
	case HeavyStrike:
		return v[stats.Creativity] + v[stats.Power]*0.5
	case Guard:
		return v[stats.Wisdom] + v[stats.BlockChance]
	case Analyse:
		return v[stats.PatternRead] * 2
	case Overclock:
		return v[stats.Adaptability] + v[stats.Speed]
	case Combo:
		return v[stats.Creativity] + v[stats.Speed]
	case Berserk:
		return v[stats.Power] * 2
	default:
		return 0
	}
}

// AvailableActions builds the action menu for a robot with stats v at
// currentHP out of maxHP.
//
// Strike is always offered. Other actions unlock at stat thresholds; berserk
// unlocks below 30% HP. When more than three are unlocked the menu holds strike
// plus the two best-scoring others, and the better of those two is primary if
// it outscores strike's power. Otherwise the best-scoring item is primary, with
// strike keeping it on ties.
//
// Postcondition: 1 <= len(menu) <= MaxMenuSize; menu[0].Action == Strike;
// exactly one item has Primary set.
func AvailableActions(v stats.Vector, currentHP, maxHP float64) Menu {
	menu := Menu{itemFor(Strike)}
	menu[0].Primary = true

	if v[stats.Creativity] >= heavyStrikeCreativity {
		menu = append(menu, itemFor(HeavyStrike))
	}
	if v[stats.Wisdom] >= guardWisdom {
		menu = append(menu, itemFor(Guard))
	}
	if v[stats.PatternRead] >= analysePatternRead {
		menu = append(menu, itemFor(Analyse))
	}
	if v[stats.Adaptability] >= overclockAdaptability {
		menu = append(menu, itemFor(Overclock))
	}
	if v[stats.Creativity]+v[stats.Speed] > comboCreativitySpeed {
		menu = append(menu, itemFor(Combo))
	}
	if maxHP > 0 && currentHP/maxHP < berserkHPFraction {
		menu = append(menu, itemFor(Berserk))
	}

	if len(menu) > MaxMenuSize {
		rest := slices.Clone(menu[1:])
		slices.SortStableFunc(rest, func(a, b MenuItem) int {
			return cmp.Compare(score(b.Action, v), score(a.Action, v))
		})
		picked := Menu{menu[0], rest[0], rest[1]}
		if score(picked[1].Action, v) > v[stats.Power] {
			picked[0].Primary = false
			picked[1].Primary = true
		}
		return picked
	}

	if len(menu) >= 2 {
		best, bestScore := 0, 0.0
		for i, it := range menu {
			if s := score(it.Action, v); s > bestScore {
				best, bestScore = i, s
			}
		}
		for i := range menu {
			menu[i].Primary = i == best
		}
	}
	return menu
}

// AutoPick returns the primary action on menu, or Strike if none is flagged.
func AutoPick(menu Menu) Action {
	for _, it := range menu {
		if it.Primary {
			return it.Action
		}
	}
	return Strike
}
