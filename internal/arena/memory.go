package arena

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cory-johannsen/binary-boxer/internal/game/combat"
	"github.com/cory-johannsen/binary-boxer/internal/game/dynasty"
	"github.com/cory-johannsen/binary-boxer/internal/game/robot"
)

// MemoryStore implements every arena store in process. Records are held as
// JSON so that loads never alias saved values. All methods are safe for
// concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	now       func() time.Time
	players   map[string][]byte
	fights    map[string]storedFight
	dynasties map[string][]byte
	events    [][]byte
}

type storedFight struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryStore creates an empty MemoryStore. now drives fight expiry; nil
// means time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		now:       now,
		players:   make(map[string][]byte),
		fights:    make(map[string]storedFight),
		dynasties: make(map[string][]byte),
	}
}

// Stores returns m wired into every slot.
func (m *MemoryStore) Stores() Stores {
	return Stores{Players: m, Fights: m, Dynasties: m, Events: m}
}

// LoadPlayer implements PlayerStore.
func (m *MemoryStore) LoadPlayer(_ context.Context, owner string) (*robot.Robot, error) {
	m.mu.RLock()
	data, ok := m.players[owner]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	var r robot.Robot
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding player %q: %w", owner, err)
	}
	return &r, nil
}

// SavePlayer implements PlayerStore.
func (m *MemoryStore) SavePlayer(_ context.Context, owner string, r *robot.Robot) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding player %q: %w", owner, err)
	}
	m.mu.Lock()
	m.players[owner] = data
	m.mu.Unlock()
	return nil
}

// ranked returns every player standing for metric, fully ordered.
func (m *MemoryStore) ranked(metric Metric) ([]Standing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Standing, 0, len(m.players))
	for owner, data := range m.players {
		var r robot.Robot
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("decoding player %q: %w", owner, err)
		}
		out = append(out, Standing{
			Owner:      owner,
			RobotName:  r.Name,
			Score:      metric.Score(&r),
			Language1:  r.Language1,
			Language2:  r.Language2,
			Generation: r.Generation,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Owner < out[j].Owner
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

// Standings implements PlayerStore.
func (m *MemoryStore) Standings(_ context.Context, metric Metric, limit int) ([]Standing, error) {
	all, err := m.ranked(metric)
	if err != nil {
		return nil, err
	}
	if limit < len(all) {
		all = all[:max(0, limit)]
	}
	return all, nil
}

// RankOf implements PlayerStore.
func (m *MemoryStore) RankOf(_ context.Context, metric Metric, owner string) (int, error) {
	all, err := m.ranked(metric)
	if err != nil {
		return 0, err
	}
	for _, s := range all {
		if s.Owner == owner {
			return s.Rank, nil
		}
	}
	return 0, nil
}

// LoadFight implements FightStore. Expired fights are dropped on read.
func (m *MemoryStore) LoadFight(_ context.Context, owner string) (combat.FightState, error) {
	m.mu.Lock()
	f, ok := m.fights[owner]
	if ok && !m.now().Before(f.expiresAt) {
		delete(m.fights, owner)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return combat.FightState{}, ErrNotFound
	}
	var s combat.FightState
	if err := json.Unmarshal(f.data, &s); err != nil {
		return combat.FightState{}, fmt.Errorf("decoding fight for %q: %w", owner, err)
	}
	return s, nil
}

// SaveFight implements FightStore.
func (m *MemoryStore) SaveFight(_ context.Context, owner string, s combat.FightState, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding fight for %q: %w", owner, err)
	}
	m.mu.Lock()
	m.fights[owner] = storedFight{data: data, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

// DeleteFight implements FightStore.
func (m *MemoryStore) DeleteFight(_ context.Context, owner string) error {
	m.mu.Lock()
	delete(m.fights, owner)
	m.mu.Unlock()
	return nil
}

// PurgeExpired implements FightStore.
func (m *MemoryStore) PurgeExpired(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for owner, f := range m.fights {
		if !now.Before(f.expiresAt) {
			delete(m.fights, owner)
			n++
		}
	}
	return n, nil
}

// LoadDynasty implements DynastyStore.
func (m *MemoryStore) LoadDynasty(_ context.Context, owner string) (*dynasty.Dynasty, error) {
	m.mu.RLock()
	data, ok := m.dynasties[owner]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	var d dynasty.Dynasty
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decoding dynasty for %q: %w", owner, err)
	}
	return &d, nil
}

// SaveDynasty implements DynastyStore.
func (m *MemoryStore) SaveDynasty(_ context.Context, owner string, d *dynasty.Dynasty) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding dynasty for %q: %w", owner, err)
	}
	m.mu.Lock()
	m.dynasties[owner] = data
	m.mu.Unlock()
	return nil
}

// AppendEvent implements EventStore.
func (m *MemoryStore) AppendEvent(_ context.Context, ev Event, keep int) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append([][]byte{data}, m.events...)
	if len(m.events) > keep {
		m.events = m.events[:max(0, keep)]
	}
	return nil
}

// RecentEvents implements EventStore.
func (m *MemoryStore) RecentEvents(_ context.Context, limit int) ([]Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := min(max(0, limit), len(m.events))
	out := make([]Event, 0, n)
	for _, data := range m.events[:n] {
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decoding event: %w", err)
		}
		out = append(out, ev)
	}
	return out, nil
}
