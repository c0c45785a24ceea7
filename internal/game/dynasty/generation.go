package dynasty

import (
	"fmt"
	"time"

	"github.com/cory-johannsen/binary-boxer/internal/game/stats"
)

// Cause records why a robot left the arena.
type Cause string

const (
	CauseVoluntary Cause = "voluntary"
	CauseKO        Cause = "ko"
)

// Valid reports whether c is a known cause.
func (c Cause) Valid() bool { return c == CauseVoluntary || c == CauseKO }

// Title is the banded honorific for a generation number.
type Title string

const (
	TitlePrototype Title = "Prototype"
	TitleLineage   Title = "Lineage"
	TitleLegacy    Title = "Legacy"
	TitleDynasty   Title = "Dynasty"
	TitleEmpire    Title = "Empire"
	TitleEternal   Title = "Eternal"
)

// TitleFor returns the title for generation: 1 Prototype, 2 Lineage, 3-4 Legacy,
// 5-9 Dynasty, 10-24 Empire, 25+ Eternal. Values below 1 are Prototype.
func TitleFor(generation int) Title {
	switch {
	case generation >= 25:
		return TitleEternal
	case generation >= 10:
		return TitleEmpire
	case generation >= 5:
		return TitleDynasty
	case generation >= 3:
		return TitleLegacy
	case generation >= 2:
		return TitleLineage
	default:
		return TitlePrototype
	}
}

// Generation is the frozen record of one retired robot. It is created once at
// retirement and never modified.
type Generation struct {
	Number      int          `json:"generationNumber"`
	RobotName   string       `json:"robotName"`
	Language1   string       `json:"language1"`
	Language2   string       `json:"language2"`
	FinalLevel  int          `json:"finalLevel"`
	TotalFights int          `json:"totalFights"`
	Wins        int          `json:"wins"`
	BestStreak  int          `json:"bestStreak"`
	RetiredAt   time.Time    `json:"retiredAt"`
	Cause       Cause        `json:"causeOfRetirement"`
	FinalStats  stats.Vector `json:"finalStats"`
}

// Title returns the honorific for g's generation number.
func (g Generation) Title() Title { return TitleFor(g.Number) }

// Dynasty is the append-only history of one owner's lineage.
type Dynasty struct {
	ID           string       `json:"id"`
	Owner        string       `json:"ownerUsername"`
	Generations  []Generation `json:"generations"`
	TotalFights  int          `json:"totalFights"`
	TotalWins    int          `json:"totalWins"`
	DeepestLevel int          `json:"deepestLevel"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// New returns an empty dynasty.
//
// Precondition: id and owner must be non-empty.
func New(id, owner string, now time.Time) *Dynasty {
	if id == "" || owner == "" {
		panic("dynasty.New: precondition violated: id and owner must be non-empty")
	}
	return &Dynasty{ID: id, Owner: owner, Generations: []Generation{}, CreatedAt: now}
}

// Append records a retired generation and folds it into the running totals.
//
// Precondition: g.Number must exceed every recorded generation number.
// Postcondition: on success len(d.Generations) grows by one.
func (d *Dynasty) Append(g Generation) error {
	if n := len(d.Generations); n > 0 && g.Number <= d.Generations[n-1].Number {
		return fmt.Errorf("generation %d does not follow generation %d", g.Number, d.Generations[n-1].Number)
	}
	if !g.Cause.Valid() {
		return fmt.Errorf("generation %d: invalid retirement cause %q", g.Number, g.Cause)
	}
	d.Generations = append(d.Generations, g)
	d.TotalFights += g.TotalFights
	d.TotalWins += g.Wins
	d.DeepestLevel = max(d.DeepestLevel, g.FinalLevel)
	return nil
}

// Latest returns the most recent generation, if any.
func (d *Dynasty) Latest() (Generation, bool) {
	if len(d.Generations) == 0 {
		return Generation{}, false
	}
	return d.Generations[len(d.Generations)-1], true
}

// Title returns the title earned by the lineage's next robot.
func (d *Dynasty) Title() Title {
	g, ok := d.Latest()
	if !ok {
		return TitlePrototype
	}
	return TitleFor(g.Number + 1)
}
