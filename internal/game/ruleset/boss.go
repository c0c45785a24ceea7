package ruleset

import "fmt"

// BossOverlay is the set of per-round modifiers a boss applies to a fight.
// Zero-valued fields leave the fight untouched; multiplier fields treat zero
// as 1.
type BossOverlay struct {
	// PlayerDefenceMult scales the player's defence each round.
	PlayerDefenceMult float64 `yaml:"player_defence_mult" json:"playerDefenceMult,omitempty"`
	// InterruptChance is the probability the player's action is forced to strike.
	InterruptChance float64 `yaml:"interrupt_chance" json:"interruptChance,omitempty"`
	// BonusDamageMaxHP adds floor(fraction * player maxHp) to every landed enemy hit.
	BonusDamageMaxHP float64 `yaml:"bonus_damage_max_hp" json:"bonusDamageMaxHp,omitempty"`
	// ExtraCrashChance is added to the crash chance of every player action.
	ExtraCrashChance float64 `yaml:"extra_crash_chance" json:"extraCrashChance,omitempty"`
	// EnemyStatGrowth scales enemy non-HP stats by 1 + growth*round.
	EnemyStatGrowth float64 `yaml:"enemy_stat_growth" json:"enemyStatGrowth,omitempty"`
	// CritImmune halves any critical hit landed on the enemy.
	CritImmune bool `yaml:"crit_immune" json:"critImmune,omitempty"`
	// EnemyStabilityMult scales the enemy's stability.
	EnemyStabilityMult float64 `yaml:"enemy_stability_mult" json:"enemyStabilityMult,omitempty"`
	// DamageReduction is the fraction removed from every hit the enemy takes.
	DamageReduction float64 `yaml:"damage_reduction" json:"damageReduction,omitempty"`
	// NegatePlayerGuard turns the player's guard into a strike.
	NegatePlayerGuard bool `yaml:"negate_player_guard" json:"negatePlayerGuard,omitempty"`
	// AutoDodgeRounds makes the enemy dodge every player attack while round <= n.
	AutoDodgeRounds int `yaml:"auto_dodge_rounds" json:"autoDodgeRounds,omitempty"`
	// SwapPowerDefenceRounds swaps the player's power and defence while round <= n.
	SwapPowerDefenceRounds int `yaml:"swap_power_defence_rounds" json:"swapPowerDefenceRounds,omitempty"`
}

// IsZero reports whether o modifies nothing.
func (o BossOverlay) IsZero() bool {
	return o == BossOverlay{}
}

// Validate checks that probabilities lie in [0,1] and that multipliers and
// round counts are non-negative.
func (o BossOverlay) Validate() error {
	probs := []struct {
		name string
		p    float64
	}{
		{"interrupt_chance", o.InterruptChance},
		{"extra_crash_chance", o.ExtraCrashChance},
		{"damage_reduction", o.DamageReduction},
		{"bonus_damage_max_hp", o.BonusDamageMaxHP},
	}
	for _, f := range probs {
		if f.p < 0 || f.p > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", f.name, f.p)
		}
	}
	if o.PlayerDefenceMult < 0 || o.EnemyStabilityMult < 0 || o.EnemyStatGrowth < 0 {
		return fmt.Errorf("multipliers must be non-negative")
	}
	if o.AutoDodgeRounds < 0 || o.SwapPowerDefenceRounds < 0 {
		return fmt.Errorf("round counts must be non-negative")
	}
	return nil
}

// Boss is a named boss with its catalogue ability text, taunt line, and the
// overlay the combat engine applies while fighting it.
type Boss struct {
	Name    string      `yaml:"name"`
	Ability string      `yaml:"ability"`
	Taunt   string      `yaml:"taunt"`
	Overlay BossOverlay `yaml:"overlay"`
}
