package store

import (
	"runtime"
	"sync"
	"weak"
)

// lockTable maps live store handles to their commit mutex. Keys are weak
// pointers so the table never keeps a store alive; entries are removed when
// the store itself is collected.
type lockTable struct {
	mu    sync.Mutex
	locks map[weak.Pointer[SQLiteStore]]*sync.Mutex
}

var sessionLocks = &lockTable{locks: make(map[weak.Pointer[SQLiteStore]]*sync.Mutex)}

// LockFor returns the write-serialization mutex for a store handle. The same
// handle always yields the same mutex; distinct handles get distinct mutexes.
// Every state-mutating tool wraps its write-then-commit sequence in this lock,
// because tool executions within one run may overlap.
func LockFor(s *SQLiteStore) *sync.Mutex {
	key := weak.Make(s)

	sessionLocks.mu.Lock()
	defer sessionLocks.mu.Unlock()

	if m, ok := sessionLocks.locks[key]; ok {
		return m
	}
	m := &sync.Mutex{}
	sessionLocks.locks[key] = m
	runtime.AddCleanup(s, func(k weak.Pointer[SQLiteStore]) {
		sessionLocks.mu.Lock()
		delete(sessionLocks.locks, k)
		sessionLocks.mu.Unlock()
	}, key)
	return m
}
