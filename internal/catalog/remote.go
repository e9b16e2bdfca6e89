package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/melbahja/got"
	log "github.com/sirupsen/logrus"

	"github.com/bhaktivani/bhaktivani/internal/entities"
)

const DefaultRemoteTTL = 5 * time.Minute

// Remote fetches a content pack from a URL. The parsed pack is cached for TTL
// so a download run and its retries see the same content.
type Remote struct {
	URL string
	TTL time.Duration

	mu        sync.Mutex
	stotras   []entities.Stotra
	fetchedAt time.Time
	now       func() time.Time
}

func NewRemote(url string) *Remote {
	return &Remote{URL: url, TTL: DefaultRemoteTTL, now: time.Now}
}

func (r *Remote) Name() string {
	return "remote"
}

func (r *Remote) Stotras(ctx context.Context) ([]entities.Stotra, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stotras != nil && r.now().Sub(r.fetchedAt) < r.TTL {
		return cloneAll(r.stotras), nil
	}

	pack, err := r.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := Validate(pack.Stotras); err != nil {
		return nil, fmt.Errorf("remote catalog %s: %w", r.URL, err)
	}

	r.stotras = pack.Stotras
	r.fetchedAt = r.now()
	log.WithFields(log.Fields{"url": r.URL, "stotras": len(pack.Stotras)}).Info("Fetched remote catalog")
	return cloneAll(r.stotras), nil
}

// Invalidate drops the cached pack so the next call fetches again.
func (r *Remote) Invalidate() {
	r.mu.Lock()
	r.stotras = nil
	r.mu.Unlock()
}

func (r *Remote) fetch(ctx context.Context) (*Pack, error) {
	dir, err := os.MkdirTemp("", "bhaktivani-catalog-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary directory: %w", err)
	}
	defer os.RemoveAll(dir)

	dest := filepath.Join(dir, "catalog")
	dl := got.NewDownload(ctx, r.URL, dest)
	if err := dl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialise catalog download: %w", err)
	}
	if err := dl.Start(); err != nil {
		return nil, fmt.Errorf("failed to download catalog: %w", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		return nil, fmt.Errorf("failed to read downloaded catalog: %w", err)
	}
	return Parse(data)
}
