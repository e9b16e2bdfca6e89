package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"github.com/bhaktivani/bhaktivani/internal/entities"
)

//go:embed data/stotras.yaml
var bundledYAML []byte

// Bundled serves the catalog compiled into the binary.
type Bundled struct {
	once    sync.Once
	stotras []entities.Stotra
	err     error
}

func NewBundled() *Bundled {
	return &Bundled{}
}

func (b *Bundled) Name() string {
	return "bundled"
}

func (b *Bundled) Stotras(ctx context.Context) ([]entities.Stotra, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.once.Do(b.load)
	if b.err != nil {
		return nil, b.err
	}
	return cloneAll(b.stotras), nil
}

func (b *Bundled) load() {
	pack, err := Parse(bundledYAML)
	if err != nil {
		b.err = fmt.Errorf("bundled catalog: %w", err)
		return
	}
	if err := Validate(pack.Stotras); err != nil {
		b.err = fmt.Errorf("bundled catalog: %w", err)
		return
	}
	b.stotras = pack.Stotras
}

// Static is a Source over a fixed slice, used for packs loaded from files.
type Static struct {
	name    string
	stotras []entities.Stotra
}

func NewStatic(name string, stotras []entities.Stotra) *Static {
	return &Static{name: name, stotras: cloneAll(stotras)}
}

func (s *Static) Name() string {
	return s.name
}

func (s *Static) Stotras(ctx context.Context) ([]entities.Stotra, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cloneAll(s.stotras), nil
}
