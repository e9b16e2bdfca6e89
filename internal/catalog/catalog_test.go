package catalog

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhaktivani/bhaktivani/internal/entities"
)

func TestBundled_CoversAllLanguages(t *testing.T) {
	src := NewBundled()
	ctx := context.Background()

	all, err := src.Stotras(ctx)
	require.NoError(t, err)
	require.NoError(t, Validate(all))

	for _, lang := range entities.ContentLanguages {
		stotras, err := ByLanguage(ctx, src, lang.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, stotras, "language %s", lang.ID)
	}
}

func TestBundled_ReturnsCopies(t *testing.T) {
	src := NewBundled()
	ctx := context.Background()

	first, err := src.Stotras(ctx)
	require.NoError(t, err)
	first[0].IsFavorite = true
	first[0].Title = "changed"

	second, err := src.Stotras(ctx)
	require.NoError(t, err)
	assert.False(t, second[0].IsFavorite)
	assert.NotEqual(t, "changed", second[0].Title)
}

func TestByID(t *testing.T) {
	src := NewBundled()
	ctx := context.Background()

	s, err := ByID(ctx, src, "hanuman-chalisa-telugu")
	require.NoError(t, err)
	assert.Equal(t, entities.LanguageTelugu, s.Language)
	assert.Equal(t, "హనుమాన్ చాలీసా", s.NativeTitle)

	_, err = ByID(ctx, src, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidate(t *testing.T) {
	valid := entities.Stotra{ID: "a", Title: "A", Language: entities.LanguageKannada, Category: entities.CategoryMantra}

	tests := []struct {
		name    string
		stotras []entities.Stotra
		wantErr error
	}{
		{"valid", []entities.Stotra{valid}, nil},
		{"unknown language", []entities.Stotra{{ID: "b", Title: "B", Language: "hindi", Category: entities.CategoryMantra}}, entities.ErrUnknownLanguage},
		{"unknown category", []entities.Stotra{{ID: "c", Title: "C", Language: entities.LanguageKannada, Category: "bhajan"}}, entities.ErrUnknownCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.stotras)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("duplicate and missing", func(t *testing.T) {
		err := Validate([]entities.Stotra{valid, valid, {Title: "no id"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate id")
		assert.Contains(t, err.Error(), "missing id")
	})
}

func TestParse_JSON(t *testing.T) {
	pack, err := Parse([]byte(`{"version":2,"stotras":[{"id":"x","title":"X","language":"telugu","category":"prayer"}]}`))
	require.NoError(t, err)
	assert.Equal(t, 2, pack.Version)
	require.Len(t, pack.Stotras, 1)
	assert.Equal(t, entities.CategoryPrayer, pack.Stotras[0].Category)
}

const remotePack = `
version: 1
stotras:
  - id: remote-one
    title: Remote One
    language: kannada
    category: bhakti
    content: ಓಂ
`

func TestRemote_Stotras(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		http.ServeContent(w, r, "catalog.yaml", time.Time{}, bytes.NewReader([]byte(remotePack)))
	}))
	defer srv.Close()

	src := NewRemote(srv.URL + "/catalog.yaml")
	ctx := context.Background()

	stotras, err := src.Stotras(ctx)
	require.NoError(t, err)
	require.Len(t, stotras, 1)
	assert.Equal(t, "remote-one", stotras[0].ID)

	seen := requests.Load()
	_, err = src.Stotras(ctx)
	require.NoError(t, err)
	assert.Equal(t, seen, requests.Load(), "second call should be served from cache")
}

func TestRemote_InvalidPack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := []byte("version: 1\nstotras:\n  - id: bad\n    title: Bad\n    language: klingon\n    category: bhakti\n")
		http.ServeContent(w, r, "catalog.yaml", time.Time{}, bytes.NewReader(body))
	}))
	defer srv.Close()

	_, err := NewRemote(srv.URL + "/catalog.yaml").Stotras(context.Background())
	assert.ErrorIs(t, err, entities.ErrUnknownLanguage)
}

func TestStatic_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(remotePack), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	pack, err := Parse(data)
	require.NoError(t, err)

	src := NewStatic("file", pack.Stotras)
	assert.Equal(t, "file", src.Name())
	stotras, err := src.Stotras(context.Background())
	require.NoError(t, err)
	assert.Len(t, stotras, 1)
}
