// Package main replays a fight offline on autopilot. Given the same seed,
// level, fight number, and languages it prints the exact turn log the server
// would have produced, which makes disputed fights auditable.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/cory-johannsen/binary-boxer/internal/game/combat"
	"github.com/cory-johannsen/binary-boxer/internal/game/enemy"
	"github.com/cory-johannsen/binary-boxer/internal/game/ruleset"
	"github.com/cory-johannsen/binary-boxer/internal/game/stats"
)

type options struct {
	seed        int64
	level       int
	fightNumber int
	lang1       string
	lang2       string
	name        string
	asJSON      bool
}

// fightUsage describes the -fight flag.
func fightUsage() string {
	return fmt.Sprintf("fight number (every %dth is a boss)", enemy.BossInterval)
}

func main() {
	var opts options
	flag.Int64Var(&opts.seed, "seed", 1, "fight seed")
	flag.IntVar(&opts.level, "level", 1, "player robot level")
	flag.IntVar(&opts.fightNumber, "fight", 1, fightUsage())
	flag.StringVar(&opts.lang1, "lang1", "rust", "first language module")
	flag.StringVar(&opts.lang2, "lang2", "go", "second language module")
	flag.StringVar(&opts.name, "name", "Simulant", "robot name used in narration")
	flag.BoolVar(&opts.asJSON, "json", false, "print the final fight state as JSON")
	catalogPath := flag.String("catalog", "", "catalogue YAML file or directory; empty uses the built-in catalogue")
	flag.Parse()

	cat, err := ruleset.LoadCatalog(*catalogPath)
	if err != nil {
		log.Fatalf("loading catalogue: %v", err)
	}
	if err := simulate(os.Stdout, cat, opts); err != nil {
		log.Fatalf("simulating: %v", err)
	}
}

// simulate resolves one fight on autopilot and writes its log to w.
//
// Precondition: cat must be non-nil.
func simulate(w io.Writer, cat *ruleset.Catalog, opts options) error {
	if opts.level < 1 || opts.fightNumber < 1 {
		return fmt.Errorf("level and fight number must be >= 1")
	}
	a, err := cat.Language(opts.lang1)
	if err != nil {
		return err
	}
	b, err := cat.Language(opts.lang2)
	if err != nil {
		return err
	}
	if a.ID == b.ID {
		return fmt.Errorf("languages must be different")
	}

	player := stats.ForLevel(a, b, opts.level, nil).Rounded()
	foe := enemy.Generate(cat, opts.level, opts.fightNumber, opts.seed)
	final, _ := combat.AutoResolve(combat.Init(player, foe, opts.seed), opts.level, opts.name)
	final.XPAwarded = stats.XPForFight(foe.Level, final.Result == combat.Win, foe.IsBoss)

	if opts.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(final)
	}

	fmt.Fprintf(w, "%s (L%d %s/%s) vs %s (L%d", opts.name, opts.level, a.ID, b.ID, foe.Name, foe.Level)
	if foe.IsBoss {
		fmt.Fprintf(w, ", boss: %s", foe.Ability)
	}
	fmt.Fprintf(w, ") seed=%d\n", opts.seed)
	for _, t := range final.Turns {
		fmt.Fprintf(w, "R%-3d %-6s %-12s dmg=%-3d hp %d/%d  %s\n",
			(t.Number+1)/2, t.Attacker, t.Action, t.Damage, t.PlayerHPAfter, t.EnemyHPAfter, t.Flavour)
	}
	fmt.Fprintf(w, "result=%s rounds=%d xp=%d\n", final.Result, final.Round, final.XPAwarded)
	return nil
}
