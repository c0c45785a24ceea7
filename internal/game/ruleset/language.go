package ruleset

import (
	"fmt"

	"github.com/cory-johannsen/binary-boxer/internal/game/stats"
)

// StatBonus is a per-level bonus to one growth stat.
type StatBonus struct {
	Stat  string `yaml:"stat"`
	Bonus int    `yaml:"bonus"`
}

// LanguageDef is the catalogue form of a language module.
//
// Precondition: ID and Name must be non-empty after loading; Primary.Stat must
// name a growth stat.
type LanguageDef struct {
	ID            string     `yaml:"id"`
	Name          string     `yaml:"name"`
	Primary       StatBonus  `yaml:"primary"`
	Secondary     *StatBonus `yaml:"secondary"`
	AllStatsBonus int        `yaml:"all_stats_bonus"`
	Colour        string     `yaml:"colour"`
	Flavour       string     `yaml:"flavour"`
}

// Build validates d and converts it to the engine's stats.Language.
//
// Postcondition: returns a Language whose Secondary is stats.NoStat when d has
// no secondary bonus, or a non-nil error naming the offending field.
func (d LanguageDef) Build() (stats.Language, error) {
	if d.ID == "" {
		return stats.Language{}, fmt.Errorf("language: id must be non-empty")
	}
	if d.Name == "" {
		return stats.Language{}, fmt.Errorf("language %q: name must be non-empty", d.ID)
	}
	primary, err := stats.ParseGrowthStat(d.Primary.Stat)
	if err != nil {
		return stats.Language{}, fmt.Errorf("language %q primary: %w", d.ID, err)
	}
	if d.Primary.Bonus < 0 || d.AllStatsBonus < 0 {
		return stats.Language{}, fmt.Errorf("language %q: bonuses must be non-negative", d.ID)
	}
	l := stats.Language{
		ID:            d.ID,
		Name:          d.Name,
		Primary:       primary,
		PrimaryBonus:  d.Primary.Bonus,
		Secondary:     stats.NoStat,
		AllStatsBonus: d.AllStatsBonus,
		Colour:        d.Colour,
		Flavour:       d.Flavour,
	}
	if d.Secondary != nil {
		secondary, err := stats.ParseGrowthStat(d.Secondary.Stat)
		if err != nil {
			return stats.Language{}, fmt.Errorf("language %q secondary: %w", d.ID, err)
		}
		if d.Secondary.Bonus < 0 {
			return stats.Language{}, fmt.Errorf("language %q: bonuses must be non-negative", d.ID)
		}
		l.Secondary = secondary
		l.SecondaryBonus = d.Secondary.Bonus
	}
	return l, nil
}
