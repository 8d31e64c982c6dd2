package upload

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/familyone/factory-ops/pkg/logger"
)

// ReferenceSource yields blob urls still referenced by live records.
type ReferenceSource interface {
	ReferencedURLs(ctx context.Context) ([]string, error)
}

// ReferenceSourceFunc adapts a plain function to ReferenceSource.
type ReferenceSourceFunc func(ctx context.Context) ([]string, error)

func (f ReferenceSourceFunc) ReferencedURLs(ctx context.Context) ([]string, error) {
	return f(ctx)
}

// Sweeper deletes uploaded blobs no record references anymore, once they
// are older than the TTL. A run skips itself if the previous one is still
// going, so sweeps never overlap.
type Sweeper struct {
	store   *Store
	sources []ReferenceSource
	ttl     time.Duration
	running atomic.Bool
	logger  *slog.Logger
}

func NewSweeper(store *Store, ttl time.Duration, sources ...ReferenceSource) *Sweeper {
	return &Sweeper{
		store:   store,
		sources: sources,
		ttl:     ttl,
		logger:  logger.LoggerWrapper(),
	}
}

// Run sweeps on the interval until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				s.logger.ErrorContext(ctx, "sweep failed", "error", err)
			}
		}
	}
}

// SweepOnce deletes unreferenced blobs older than the TTL and returns how
// many were removed. Already-missing files are not an error.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	if !s.running.CompareAndSwap(false, true) {
		return 0, nil
	}
	defer s.running.Store(false)

	referenced := make(map[string]bool)
	for _, source := range s.sources {
		urls, err := source.ReferencedURLs(ctx)
		if err != nil {
			return 0, err
		}
		for _, url := range urls {
			if name := blobName(url); name != "" {
				referenced[name] = true
			}
		}
	}

	entries, err := os.ReadDir(s.store.Dir())
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-s.ttl)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || referenced[entry.Name()] {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(s.store.Dir(), entry.Name())
		if err := os.Remove(path); err != nil {
			if !os.IsNotExist(err) {
				s.store.audit.Log(fmt.Sprintf("SWEEP FAIL %s %v", entry.Name(), err))
			}
			continue
		}
		s.store.audit.Log(fmt.Sprintf("SWEEP OK %s", entry.Name()))
		removed++
	}

	s.logger.InfoContext(ctx, "sweep complete", "removed", removed, "referenced", len(referenced))
	return removed, nil
}
