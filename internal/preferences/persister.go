package preferences

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/bhaktivani/bhaktivani/internal/kvstore"
)

const DefaultKey = "preferences"

// Persister saves the state as JSON under one key of a key-value store.
type Persister struct {
	kv  kvstore.Store
	key string
}

func NewPersister(kv kvstore.Store, key string) *Persister {
	if key == "" {
		key = DefaultKey
	}
	return &Persister{kv: kv, key: key}
}

// Load returns the stored state, or the defaults when nothing is stored or the
// stored value no longer validates.
func (p *Persister) Load(ctx context.Context) (State, error) {
	state := Defaults()
	err := kvstore.GetJSON(ctx, p.kv, p.key, &state)
	if errors.Is(err, kvstore.ErrNotFound) {
		return Defaults(), nil
	}
	if err != nil {
		return Defaults(), fmt.Errorf("failed to load preferences: %w", err)
	}
	if err := state.Validate(); err != nil {
		log.WithError(err).Warn("Stored preferences are invalid, using defaults")
		return Defaults(), nil
	}
	return state, nil
}

func (p *Persister) Save(ctx context.Context, c Change) error {
	if err := kvstore.SetJSON(ctx, p.kv, p.key, c.New); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	log.WithField("key", p.key).Debug("Preferences saved")
	return nil
}

// Attach subscribes the persister to store.
func (p *Persister) Attach(store *Store) (detach func()) {
	return store.Subscribe(p.Save)
}

// Open loads the persisted state into a new Store and attaches p to it.
func Open(ctx context.Context, p *Persister) (*Store, error) {
	state, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}
	store := NewStore(state)
	p.Attach(store)
	return store, nil
}
