package services

import "sync"

// keyedMutex serializes operations per string key. Slide mutations lock on
// the slide id so snapshot-then-write runs as one logical step; reorders lock
// on the deck id. Slide and deck keys never collide, so a reorder and a
// single-slide mutation cannot deadlock against each other.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*lockEntry)}
}

// sharedLocks is the process-wide lock set. All services lock through it so
// a slide mutation in one service excludes the same slide's mutation in
// another.
var sharedLocks = newKeyedMutex()

// Lock blocks until the key's mutex is held and returns its unlock func.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &lockEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
