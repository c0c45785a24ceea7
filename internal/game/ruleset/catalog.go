// Package ruleset loads the static arena catalogue: language modules, enemy
// name pools, and boss definitions with their combat overlays.
package ruleset

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/binary-boxer/internal/game/stats"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

// ErrUnknownLanguage is returned when a language ID is not in the catalogue.
var ErrUnknownLanguage = errors.New("unknown language")

type catalogFile struct {
	Languages  []LanguageDef `yaml:"languages"`
	EnemyNames []string      `yaml:"enemy_names"`
	Bosses     []Boss        `yaml:"bosses"`
}

// Catalog is the immutable lookup table consumed by the engine and the arena
// service. It is safe for concurrent use once built.
type Catalog struct {
	languages  []stats.Language
	byID       map[string]stats.Language
	enemyNames []string
	bosses     []Boss
	bossByName map[string]Boss
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalogue compiled into the binary.
//
// Postcondition: returns a non-nil *Catalog. Panics if the embedded data is invalid.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := ParseCatalog(defaultCatalogYAML)
		if err != nil {
			panic(fmt.Sprintf("ruleset.Default: embedded catalogue invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// ParseCatalog parses and validates a single catalogue document.
//
// Postcondition: returns a valid *Catalog or a non-nil error.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalogue: %w", err)
	}
	return build(f)
}

// LoadCatalog reads a catalogue from path. An empty path yields Default. When
// path is a directory every .yaml/.yml file in it is read and the sections are
// concatenated in file-name order before validation.
//
// Precondition: path must be empty, a readable file, or a readable directory.
// Postcondition: returns a valid *Catalog or a non-nil error.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalogue: %w", err)
	}
	files := []string{path}
	if info.IsDir() {
		if files, err = yamlFiles(path); err != nil {
			return nil, err
		}
	}
	var merged catalogFile
	for _, p := range files {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		var f catalogFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing catalogue file %s: %w", p, err)
		}
		merged.Languages = append(merged.Languages, f.Languages...)
		merged.EnemyNames = append(merged.EnemyNames, f.EnemyNames...)
		merged.Bosses = append(merged.Bosses, f.Bosses...)
	}
	return build(merged)
}

func build(f catalogFile) (*Catalog, error) {
	c := &Catalog{
		byID:       make(map[string]stats.Language, len(f.Languages)),
		bossByName: make(map[string]Boss, len(f.Bosses)),
	}
	var errs []error
	for _, d := range f.Languages {
		l, err := d.Build()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := c.byID[l.ID]; dup {
			errs = append(errs, fmt.Errorf("language %q: duplicate id", l.ID))
			continue
		}
		c.byID[l.ID] = l
		c.languages = append(c.languages, l)
	}
	if len(c.languages) < 2 {
		errs = append(errs, fmt.Errorf("catalogue needs at least 2 languages, got %d", len(c.languages)))
	}
	for _, n := range f.EnemyNames {
		if strings.TrimSpace(n) == "" {
			errs = append(errs, fmt.Errorf("enemy_names: blank name"))
			continue
		}
		c.enemyNames = append(c.enemyNames, n)
	}
	if len(c.enemyNames) == 0 {
		errs = append(errs, fmt.Errorf("enemy_names must be non-empty"))
	}
	for _, b := range f.Bosses {
		if b.Name == "" {
			errs = append(errs, fmt.Errorf("boss: name must be non-empty"))
			continue
		}
		if _, dup := c.bossByName[b.Name]; dup {
			errs = append(errs, fmt.Errorf("boss %q: duplicate name", b.Name))
			continue
		}
		if err := b.Overlay.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("boss %q overlay: %w", b.Name, err))
			continue
		}
		c.bossByName[b.Name] = b
		c.bosses = append(c.bosses, b)
	}
	if len(c.bosses) == 0 {
		errs = append(errs, fmt.Errorf("bosses must be non-empty"))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid catalogue: %w", errors.Join(errs...))
	}
	return c, nil
}

// Language looks up a language module by ID.
//
// Postcondition: returns an error wrapping ErrUnknownLanguage if id is not catalogued.
func (c *Catalog) Language(id string) (stats.Language, error) {
	l, ok := c.byID[id]
	if !ok {
		return stats.Language{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, id)
	}
	return l, nil
}

// MustLanguage is Language for IDs the caller has already validated.
//
// Precondition: id must be catalogued; panics otherwise.
func (c *Catalog) MustLanguage(id string) stats.Language {
	l, err := c.Language(id)
	if err != nil {
		panic("Catalog.MustLanguage: precondition violated: " + err.Error())
	}
	return l
}

// Languages returns every language module in catalogue order.
func (c *Catalog) Languages() []stats.Language {
	out := make([]stats.Language, len(c.languages))
	copy(out, c.languages)
	return out
}

// EnemyNames returns the regular enemy name pool in catalogue order.
func (c *Catalog) EnemyNames() []string {
	out := make([]string, len(c.enemyNames))
	copy(out, c.enemyNames)
	return out
}

// Bosses returns every boss in catalogue order.
func (c *Catalog) Bosses() []Boss {
	out := make([]Boss, len(c.bosses))
	copy(out, c.bosses)
	return out
}

// Boss looks up a boss by name.
func (c *Catalog) Boss(name string) (Boss, bool) {
	b, ok := c.bossByName[name]
	return b, ok
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}
