package preferences

import (
	"context"
	"errors"
	"sync"
)

// Change is emitted to subscribers after every successful update.
type Change struct {
	Old State
	New State
}

// Subscriber reacts to a change. Errors are returned to the caller of the
// update; the new state stays in effect.
type Subscriber func(ctx context.Context, c Change) error

// Store owns the current State. It is safe for concurrent use; updates are
// applied and delivered to subscribers one at a time, in order.
type Store struct {
	// held for a whole Update, including subscriber delivery
	updateMu sync.Mutex

	mu    sync.RWMutex
	state State

	subMu  sync.Mutex
	subs   map[int]Subscriber
	nextID int
}

func NewStore(initial State) *Store {
	return &Store{state: initial, subs: make(map[int]Subscriber)}
}

func (s *Store) Get() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Update applies fn to a copy of the state. The copy replaces the current
// state only if fn succeeds and the result validates. Subscribers must not
// call Update.
func (s *Store) Update(ctx context.Context, fn func(*State) error) (State, error) {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	s.mu.Lock()
	old := s.state
	next := old
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return old, err
	}
	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return old, err
	}
	s.state = next
	s.mu.Unlock()

	if next == old {
		return next, nil
	}
	return next, s.emit(ctx, Change{Old: old, New: next})
}

// Reset restores the defaults.
func (s *Store) Reset(ctx context.Context) (State, error) {
	return s.Update(ctx, func(st *State) error {
		*st = Defaults()
		return nil
	})
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) emit(ctx context.Context, c Change) error {
	s.subMu.Lock()
	subs := make([]Subscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	var errs []error
	for _, fn := range subs {
		if err := fn(ctx, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
