package session

import "sync"

// WatchFunc observes a change of the selected deployment method for a game.
// prev is empty when no method was selected before.
type WatchFunc func(gameID, prev, next string)

// ActivatorStore maps game identifiers to the identifier of the currently
// selected deployment method. The host's configuration layer is the only
// writer; this package's consumers read and watch.
type ActivatorStore struct {
	mu       sync.RWMutex
	selected map[string]string
	watchers map[int]WatchFunc
	nextID   int
}

// NewActivatorStore creates an empty store.
func NewActivatorStore() *ActivatorStore {
	return &ActivatorStore{
		selected: make(map[string]string),
		watchers: make(map[int]WatchFunc),
	}
}

// Get returns the selected method for gameID, or empty if none.
func (s *ActivatorStore) Get(gameID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected[gameID]
}

// Set selects methodID for gameID and notifies watchers. Setting the same
// value again is a no-op and notifies nobody.
func (s *ActivatorStore) Set(gameID, methodID string) {
	s.mu.Lock()
	old := s.selected[gameID]
	if old == methodID {
		s.mu.Unlock()
		return
	}
	if methodID == "" {
		delete(s.selected, gameID)
	} else {
		s.selected[gameID] = methodID
	}
	watchers := make([]WatchFunc, 0, len(s.watchers))
	for _, w := range s.watchers {
		watchers = append(watchers, w)
	}
	s.mu.Unlock()

	for _, w := range watchers {
		w(gameID, old, methodID)
	}
}

// Watch registers fn for change notifications and returns an unsubscribe
// function.
func (s *ActivatorStore) Watch(fn WatchFunc) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.watchers, id)
	}
}
