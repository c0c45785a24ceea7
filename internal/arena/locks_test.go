package arena

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOwnerLocks_SerialisePerOwner(t *testing.T) {
	l := newOwnerLocks()
	counter := 0
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.lock("alice")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
	assert.Zero(t, l.held(), "entries are released")
}

func TestOwnerLocks_IndependentOwners(t *testing.T) {
	l := newOwnerLocks()
	unlockA := l.lock("alice")
	done := make(chan struct{})
	go func() {
		unlockB := l.lock("bob")
		unlockB()
		close(done)
	}()
	<-done
	assert.Equal(t, 1, l.held())
	unlockA()
	assert.Zero(t, l.held())
}
