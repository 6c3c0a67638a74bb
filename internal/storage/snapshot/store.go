// Package snapshot
package snapshot

import (
	"context"
	"fmt"
	"sync"

	"cpugauge/internal/domain"
)

type Store[T any] struct {
	mu   sync.RWMutex
	data T
	set  bool
}

func (s *Store[T]) Set(v T) {
	s.mu.Lock()
	s.data = v
	s.set = true
	s.mu.Unlock()
}

// Get returns the stored value and whether anything was stored yet.
func (s *Store[T]) Get() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data, s.set
}

type GaugeStore struct {
	Store[domain.Snapshot]
}

func NewGaugeStore() *GaugeStore {
	return &GaugeStore{}
}

func (s *GaugeStore) Name() string {
	return "snapshot"
}

func (s *GaugeStore) Push(_ context.Context, snap domain.Snapshot) error {
	s.Set(snap)
	return nil
}

type LatestSource interface {
	Latest(ctx context.Context) (domain.Snapshot, bool, error)
}

// Restore seeds the store from src unless a snapshot was already pushed.
func (s *GaugeStore) Restore(ctx context.Context, src LatestSource) (bool, error) {
	snap, ok, err := src.Latest(ctx)
	if err != nil {
		return false, fmt.Errorf("restore snapshot: %w", err)
	}
	if !ok {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.set {
		return false, nil
	}
	s.data = snap
	s.set = true

	return true, nil
}
