// Package store holds client-side state for the tracker's views. Each
// store owns one entity slice fetched through the API gateway, guards
// records against overlapping mutations, and keeps the last good data
// visible when a refresh fails. Stores are plain values constructed with
// their gateway; nothing in this package is a package-level singleton.
package store

import "sync"

// inFlightSet tracks record keys with a pending mutation. A second
// mutation on the same key is rejected until the first settles.
type inFlightSet struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newInFlightSet() *inFlightSet {
	return &inFlightSet{keys: make(map[string]struct{})}
}

// acquire reserves the key, reporting false when already held.
func (s *inFlightSet) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, held := s.keys[key]; held {
		return false
	}
	s.keys[key] = struct{}{}
	return true
}

func (s *inFlightSet) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
}
