// Package catalog provides read-only stotra sources: the catalog bundled
// into the binary and remote content packs.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bhaktivani/bhaktivani/internal/entities"
)

// ErrNotFound is returned by ByID when no stotra has the requested id.
var ErrNotFound = errors.New("stotra not in catalog")

// Source supplies catalog stotras. Implementations must return copies that
// callers may modify freely.
type Source interface {
	Name() string
	Stotras(ctx context.Context) ([]entities.Stotra, error)
}

// Pack is the on-disk and on-the-wire layout of a catalog.
type Pack struct {
	Version int               `json:"version" yaml:"version"`
	Stotras []entities.Stotra `json:"stotras" yaml:"stotras"`
}

// Parse decodes a pack. JSON is detected by a leading '{'; anything else is
// read as YAML.
func Parse(data []byte) (*Pack, error) {
	var pack Pack
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal(data, &pack); err != nil {
			return nil, fmt.Errorf("failed to parse JSON catalog: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &pack); err != nil {
			return nil, fmt.Errorf("failed to parse YAML catalog: %w", err)
		}
	}
	return &pack, nil
}

// Validate checks every record has an id, a title, a known language and a
// known category, and that ids are unique.
func Validate(stotras []entities.Stotra) error {
	var errs []error
	seen := make(map[string]struct{}, len(stotras))

	for i, s := range stotras {
		if s.ID == "" {
			errs = append(errs, fmt.Errorf("record %d: missing id", i))
			continue
		}
		if _, dup := seen[s.ID]; dup {
			errs = append(errs, fmt.Errorf("record %d: duplicate id %q", i, s.ID))
		}
		seen[s.ID] = struct{}{}

		if strings.TrimSpace(s.Title) == "" {
			errs = append(errs, fmt.Errorf("%s: missing title", s.ID))
		}
		if !s.Language.Valid() {
			errs = append(errs, fmt.Errorf("%s: %w: %q", s.ID, entities.ErrUnknownLanguage, s.Language))
		}
		if !s.Category.Valid() {
			errs = append(errs, fmt.Errorf("%s: %w: %q", s.ID, entities.ErrUnknownCategory, s.Category))
		}
	}
	return errors.Join(errs...)
}

// ByLanguage returns the stotras of one language in source order.
func ByLanguage(ctx context.Context, src Source, language entities.ContentLanguage) ([]entities.Stotra, error) {
	all, err := src.Stotras(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Stotra, 0, len(all))
	for _, s := range all {
		if s.Language == language {
			out = append(out, s)
		}
	}
	return out, nil
}

// ByID returns one stotra or ErrNotFound.
func ByID(ctx context.Context, src Source, id string) (*entities.Stotra, error) {
	all, err := src.Stotras(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, ErrNotFound
}

func cloneAll(stotras []entities.Stotra) []entities.Stotra {
	out := make([]entities.Stotra, len(stotras))
	for i, s := range stotras {
		out[i] = s.Clone()
	}
	return out
}
