package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhaktivani/bhaktivani/internal/entities"
	"github.com/bhaktivani/bhaktivani/internal/kvstore"
)

func TestDefaults_Valid(t *testing.T) {
	require.NoError(t, Defaults().Validate())
	assert.Equal(t, 18.0, Defaults().ScaledFontSize())

	large := Defaults()
	large.Accessibility.LargeText = true
	large.Accessibility.FontScale = 2
	assert.Equal(t, 45.0, large.ScaledFontSize())
}

func TestState_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*State)
	}{
		{"content language", func(s *State) { s.ContentLanguage = "hindi" }},
		{"ui language", func(s *State) { s.UILanguage = "french" }},
		{"font size", func(s *State) { s.Reader.FontSize = "huge" }},
		{"line height", func(s *State) { s.Reader.LineHeight = "double" }},
		{"letter spacing", func(s *State) { s.Reader.LetterSpacing = "wide-ish" }},
		{"layout", func(s *State) { s.Reader.Layout = "grid" }},
		{"theme", func(s *State) { s.Reader.Theme = "white" }},
		{"font scale", func(s *State) { s.Accessibility.FontScale = 5 }},
		{"padding scale", func(s *State) { s.Accessibility.PaddingScale = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalid)
		})
	}
}

func TestStore_Update(t *testing.T) {
	store := NewStore(Defaults())
	ctx := context.Background()

	var changes []Change
	unsubscribe := store.Subscribe(func(_ context.Context, c Change) error {
		changes = append(changes, c)
		return nil
	})

	got, err := store.Update(ctx, func(s *State) error {
		s.ContentLanguage = entities.LanguageTelugu
		s.Reader.Theme = ThemeDark
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, entities.LanguageTelugu, got.ContentLanguage)
	assert.Equal(t, got, store.Get())

	require.Len(t, changes, 1)
	assert.Equal(t, entities.LanguageKannada, changes[0].Old.ContentLanguage)
	assert.Equal(t, ThemeDark, changes[0].New.Reader.Theme)

	t.Run("invalid update is rejected", func(t *testing.T) {
		_, err := store.Update(ctx, func(s *State) error {
			s.Reader.Layout = "columns"
			return nil
		})
		assert.ErrorIs(t, err, ErrInvalid)
		assert.Equal(t, LayoutParagraph, store.Get().Reader.Layout)
		assert.Len(t, changes, 1)
	})

	t.Run("no-op update emits nothing", func(t *testing.T) {
		_, err := store.Update(ctx, func(*State) error { return nil })
		require.NoError(t, err)
		assert.Len(t, changes, 1)
	})

	t.Run("unsubscribe", func(t *testing.T) {
		unsubscribe()
		_, err := store.Reset(ctx)
		require.NoError(t, err)
		assert.Len(t, changes, 1)
		assert.Equal(t, Defaults(), store.Get())
	})
}

func TestStore_SubscriberError(t *testing.T) {
	store := NewStore(Defaults())
	boom := errors.New("disk full")
	store.Subscribe(func(context.Context, Change) error { return boom })

	got, err := store.Update(context.Background(), func(s *State) error {
		s.Reader.JustifyText = false
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, got.Reader.JustifyText)
	assert.False(t, store.Get().Reader.JustifyText)
}

func TestStore_PartialJSONPatch(t *testing.T) {
	store := NewStore(Defaults())
	patch := []byte(`{"reader":{"font_size":"xl"},"accessibility":{"high_contrast":true}}`)

	got, err := store.Update(context.Background(), func(s *State) error {
		return json.Unmarshal(patch, s)
	})
	require.NoError(t, err)
	assert.Equal(t, "xl", got.Reader.FontSize)
	assert.Equal(t, "relaxed", got.Reader.LineHeight)
	assert.True(t, got.Accessibility.HighContrast)
	assert.Equal(t, 1.0, got.Accessibility.FontScale)
}

func TestPersister(t *testing.T) {
	kv := kvstore.NewMemory()
	ctx := context.Background()
	p := NewPersister(kv, "")

	state, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), state)

	store, err := Open(ctx, p)
	require.NoError(t, err)
	_, err = store.Update(ctx, func(s *State) error {
		s.UILanguage = entities.UILanguageSanskrit
		return nil
	})
	require.NoError(t, err)

	raw, err := kv.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"ui_language":"sanskrit"`)

	reopened, err := Open(ctx, NewPersister(kv, ""))
	require.NoError(t, err)
	assert.Equal(t, entities.UILanguageSanskrit, reopened.Get().UILanguage)
}

func TestPersister_InvalidStoredState(t *testing.T) {
	kv := kvstore.NewMemory()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, DefaultKey, []byte(`{"content_language":"klingon"}`)))

	state, err := NewPersister(kv, "").Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), state)
}

// slowFirstSet delays the first write so a later update can overtake it.
type slowFirstSet struct {
	*kvstore.Memory
	once    sync.Once
	entered chan struct{}
}

func (s *slowFirstSet) Set(ctx context.Context, key string, value []byte) error {
	first := false
	s.once.Do(func() {
		first = true
		close(s.entered)
	})
	if first {
		time.Sleep(50 * time.Millisecond)
	}
	return s.Memory.Set(ctx, key, value)
}

func TestPersister_ConcurrentUpdatesSaveInOrder(t *testing.T) {
	kv := &slowFirstSet{Memory: kvstore.NewMemory(), entered: make(chan struct{})}
	ctx := context.Background()

	store, err := Open(ctx, NewPersister(kv, ""))
	require.NoError(t, err)

	setTheme := func(theme Theme) error {
		_, err := store.Update(ctx, func(s *State) error {
			s.Reader.Theme = theme
			return nil
		})
		return err
	}

	done := make(chan error, 1)
	go func() { done <- setTheme(ThemeDark) }()
	<-kv.entered

	require.NoError(t, setTheme(ThemeLight))
	require.NoError(t, <-done)

	assert.Equal(t, ThemeLight, store.Get().Reader.Theme)
	saved, err := NewPersister(kv, "").Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, saved.Reader.Theme)
}
