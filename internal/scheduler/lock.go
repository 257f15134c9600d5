package scheduler

import (
	"fmt"
	"sort"
	"sync"
)

// KeyedMutex hands out one mutex per key. Entries are reference counted and
// dropped once nobody holds or waits for them.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex returns an empty KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedEntry)}
}

// Lock acquires every key in sorted order and returns a function that releases
// them. Duplicate keys are acquired once.
func (k *KeyedMutex) Lock(keys ...string) (unlock func()) {
	ordered := uniqueSorted(keys)
	entries := make([]*keyedEntry, 0, len(ordered))
	for _, key := range ordered {
		k.mu.Lock()
		e, ok := k.locks[key]
		if !ok {
			e = &keyedEntry{}
			k.locks[key] = e
		}
		e.refs++
		k.mu.Unlock()

		e.mu.Lock()
		entries = append(entries, e)
	}

	return func() {
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			e.mu.Unlock()
			k.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(k.locks, ordered[i])
			}
			k.mu.Unlock()
		}
	}
}

// size is the number of live keys.
func (k *KeyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

func uniqueSorted(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// AdmissionKeys are the lock keys that serialize admissions competing for the
// same room or teacher on the same day.
func AdmissionKeys(roomID, teacherID int64, day DayOfWeek) []string {
	return []string{
		fmt.Sprintf("room:%d:%s", roomID, day),
		fmt.Sprintf("teacher:%d:%s", teacherID, day),
	}
}
