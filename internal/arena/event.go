package arena

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// EventType classifies a community event.
type EventType string

const (
	EventRobotCreated   EventType = "robot_created"
	EventBossKill       EventType = "boss_kill"
	EventLevelMilestone EventType = "level_milestone"
	EventStreakRecord   EventType = "streak_record"
	EventDynastyStart   EventType = "dynasty_start"
)

// Event is one entry in the community feed.
type Event struct {
	Type      EventType `json:"type"`
	Owner     string    `json:"username"`
	RobotName string    `json:"robotName"`
	Detail    string    `json:"detail"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier receives every published event. Delivery is best-effort: Notify must
// not block.
type Notifier interface {
	Notify(ev Event)
}

// Subscription is one listener's buffered view of the event stream.
type Subscription struct {
	id     uint64
	events chan Event
	mu     sync.Mutex
	closed bool
}

// Events returns the read-only event channel. It is closed when the
// subscription is cancelled.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// push enqueues ev without blocking.
//
// Postcondition: returns an error if the subscription is closed or its buffer is full.
func (s *Subscription) push(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("subscription %d is closed", s.id)
	}
	select {
	case s.events <- ev:
		return nil
	default:
		return fmt.Errorf("subscription %d event buffer full", s.id)
	}
}

func (s *Subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.events)
	}
}

// Broadcaster fans events out to live subscribers. A slow subscriber drops
// events rather than stalling the publisher. All methods are safe for
// concurrent use.
type Broadcaster struct {
	mu      sync.RWMutex
	nextID  uint64
	subs    map[uint64]*Subscription
	buffer  int
	dropped atomic.Uint64
	logger  *zap.Logger
}

// NewBroadcaster creates a Broadcaster whose subscriptions buffer bufferSize
// events. A non-positive size defaults to 16.
//
// Precondition: logger must be non-nil.
func NewBroadcaster(bufferSize int, logger *zap.Logger) *Broadcaster {
	if logger == nil {
		panic("arena.NewBroadcaster: precondition violated: logger must be non-nil")
	}
	if bufferSize <= 0 {
		bufferSize = 16
	}
	return &Broadcaster{subs: make(map[uint64]*Subscription), buffer: bufferSize, logger: logger}
}

// Subscribe registers a new listener. The returned cancel func unregisters it
// and closes its channel; it is safe to call more than once.
func (b *Broadcaster) Subscribe() (*Subscription, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{id: b.nextID, events: make(chan Event, b.buffer)}
	b.subs[sub.id] = sub
	return sub, func() {
		b.mu.Lock()
		delete(b.subs, sub.id)
		b.mu.Unlock()
		sub.close()
	}
}

// Notify delivers ev to every subscriber that has room for it. Each missed
// delivery is counted and logged at debug level.
func (b *Broadcaster) Notify(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		if err := sub.push(ev); err != nil {
			total := b.dropped.Add(1)
			b.logger.Debug("community event dropped",
				zap.Uint64("subscription", sub.id),
				zap.String("type", string(ev.Type)),
				zap.Uint64("dropped_total", total),
				zap.Error(err),
			)
		}
	}
}

// Dropped returns how many deliveries have been dropped since creation.
func (b *Broadcaster) Dropped() uint64 {
	return b.dropped.Load()
}

// Subscribers returns the number of live subscriptions.
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
