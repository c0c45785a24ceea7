package arena_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/binary-boxer/internal/arena"
)

func TestBroadcaster_FanOut(t *testing.T) {
	b := arena.NewBroadcaster(4, zaptest.NewLogger(t))
	s1, cancel1 := b.Subscribe()
	s2, cancel2 := b.Subscribe()
	defer cancel2()
	assert.Equal(t, 2, b.Subscribers())

	b.Notify(arena.Event{Type: arena.EventBossKill})
	assert.Equal(t, arena.EventBossKill, (<-s1.Events()).Type)
	assert.Equal(t, arena.EventBossKill, (<-s2.Events()).Type)

	cancel1()
	cancel1()
	assert.Equal(t, 1, b.Subscribers())
	_, open := <-s1.Events()
	assert.False(t, open, "cancelled subscription channel is closed")
}

func TestBroadcaster_SlowSubscriberDropsEvents(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	b := arena.NewBroadcaster(2, zap.New(core))
	sub, cancel := b.Subscribe()
	defer cancel()

	for range 5 {
		b.Notify(arena.Event{Type: arena.EventStreakRecord})
	}
	assert.Len(t, sub.Events(), 2)
	assert.Equal(t, uint64(3), b.Dropped())

	dropped := logs.FilterMessage("community event dropped").All()
	require.Len(t, dropped, 3)
	assert.Equal(t, "streak_record", dropped[0].ContextMap()["type"])
	assert.Equal(t, uint64(3), dropped[2].ContextMap()["dropped_total"])
}

func TestNewBroadcaster_RequiresLogger(t *testing.T) {
	assert.Panics(t, func() { arena.NewBroadcaster(4, nil) })
}

func TestBroadcaster_ConcurrentNotifyAndCancel(t *testing.T) {
	b := arena.NewBroadcaster(0, zaptest.NewLogger(t))
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, cancel := b.Subscribe()
			for range 20 {
				b.Notify(arena.Event{Type: arena.EventLevelMilestone})
			}
			cancel()
		}()
	}
	wg.Wait()
	require.Zero(t, b.Subscribers())
}
