package brc420

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyLockSerializesSameKey(t *testing.T) {
	locks := newKeyLock()

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locks.Lock("a")
			defer locks.Unlock("a")
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestKeyLockIndependentKeys(t *testing.T) {
	locks := newKeyLock()

	locks.Lock("a")
	done := make(chan struct{})
	go func() {
		// must not block on a different key
		locks.Lock("b")
		locks.Unlock("b")
		close(done)
	}()
	<-done
	locks.Unlock("a")
}

func TestKeyLockReleasesEntries(t *testing.T) {
	locks := newKeyLock()

	locks.Lock("a")
	locks.Unlock("a")
	locks.Lock("b")
	locks.Unlock("b")

	locks.mu.Lock()
	defer locks.mu.Unlock()
	assert.Empty(t, locks.locks)
}
