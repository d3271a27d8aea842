// Package ristretto adapts dgraph-io/ristretto as an in-memory blob store.
// Ristretto admits writes probabilistically, so Put can report ok=false;
// callers must treat every Put as best-effort. The manifest lives in the
// adapter itself, outside the admission policy.
package ristretto

import (
	"context"
	"errors"
	"sync"

	rc "github.com/dgraph-io/ristretto"
)

type Store struct {
	c *rc.Cache

	mu       sync.RWMutex
	manifest []byte
	keys     map[string]struct{}
}

type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	Metrics     bool
}

func New(cfg Config) (*Store, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Store{c: c, keys: make(map[string]struct{})}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// self-heal: drop unexpected entry shape
		s.c.Del(key)
		s.forget(key)
		return nil, false, nil
	}
	return b, true, nil
}

func (s *Store) Put(_ context.Context, key string, value []byte) (bool, error) {
	ok := s.c.Set(key, value, int64(len(value)))
	// Make the write visible to an immediate Get; Set is async by default.
	s.c.Wait()
	if ok {
		s.mu.Lock()
		s.keys[key] = struct{}{}
		s.mu.Unlock()
	}
	return ok, nil
}

func (s *Store) Del(_ context.Context, key string) error {
	s.c.Del(key)
	s.forget(key)
	return nil
}

// Keys returns a snapshot of the tracked key set. Ristretto's eviction
// callback reports hashes, not names, so keys of evicted blobs linger here
// until the next Del; callers must tolerate Get/Del of absent keys.
func (s *Store) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	return out, nil
}

func (s *Store) forget(key string) {
	s.mu.Lock()
	delete(s.keys, key)
	s.mu.Unlock()
}

func (s *Store) LoadManifest(_ context.Context) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.manifest == nil {
		return nil, false, nil
	}
	return s.manifest, true, nil
}

func (s *Store) SaveManifest(_ context.Context, raw []byte) error {
	cp := make([]byte, len(raw))
	copy(cp, raw)
	s.mu.Lock()
	s.manifest = cp
	s.mu.Unlock()
	return nil
}

func (s *Store) Wipe(_ context.Context) error {
	s.mu.Lock()
	s.manifest = nil
	s.keys = make(map[string]struct{})
	s.mu.Unlock()
	s.c.Clear()
	return nil
}

func (s *Store) Dir() string { return "" }

func (s *Store) Close(_ context.Context) error {
	s.c.Wait()
	s.c.Close()
	return nil
}

// Metrics exposes ristretto's internal counters when Config.Metrics is set.
func (s *Store) Metrics() *rc.Metrics { return s.c.Metrics }
