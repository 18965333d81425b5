package catalog

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"course-planner/internal/shared/metrics"
	"course-planner/internal/shared/storage/object"
	"course-planner/internal/shared/telemetry"
)

// Source loads the dataset from an object store and caches the parsed Catalog
// until it is invalidated.
type Source struct {
	store object.ObjectStore
	key   string
	opts  BuildOptions

	mu    sync.RWMutex
	cat   *Catalog
	stale bool
}

// NewSource returns a source reading key from store.
func NewSource(store object.ObjectStore, key string, opts BuildOptions) *Source {
	return &Source{store: store, key: key, opts: opts}
}

// Key returns the object key of the dataset.
func (s *Source) Key() string {
	return s.key
}

// Catalog returns the cached catalog, loading it on first use or after
// Invalidate. If a reload fails and a previous catalog exists, the previous
// catalog keeps being served.
func (s *Source) Catalog(ctx context.Context) (*Catalog, error) {
	s.mu.RLock()
	cat, stale := s.cat, s.stale
	s.mu.RUnlock()
	if cat != nil && !stale {
		return cat, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cat != nil && !s.stale {
		return s.cat, nil
	}
	fresh, err := s.load(ctx)
	if err != nil {
		if s.cat != nil {
			telemetry.Error("catalog.reload_failed", map[string]any{
				"key":     s.key,
				"version": s.cat.Version,
				"error":   err.Error(),
			})
			s.stale = false
			return s.cat, nil
		}
		return nil, err
	}
	s.cat, s.stale = fresh, false
	return fresh, nil
}

// Reload loads the dataset now and replaces the cached catalog on success.
func (s *Source) Reload(ctx context.Context) (*Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fresh, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.cat, s.stale = fresh, false
	return fresh, nil
}

// Invalidate marks the cached catalog stale; the next Catalog call reloads.
func (s *Source) Invalidate() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
}

func (s *Source) load(ctx context.Context) (*Catalog, error) {
	start := time.Now()
	cat, err := s.read(ctx)
	if err != nil {
		metrics.IncCatalogLoad("error")
		telemetry.Error("catalog.load_failed", map[string]any{
			"key":   s.key,
			"error": err.Error(),
		})
		return nil, err
	}
	metrics.IncCatalogLoad("ok")
	telemetry.Info("catalog.loaded", map[string]any{
		"key":         s.key,
		"version":     cat.Version,
		"courses":     cat.Len(),
		"issues":      len(cat.Issues),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return cat, nil
}

func (s *Source) read(ctx context.Context) (*Catalog, error) {
	rc, err := s.store.Open(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", s.key, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", s.key, err)
	}
	return Load(data, s.opts)
}
