// Package bigcache adapts allegro/bigcache as an in-memory blob store.
// Entries share the global LifeWindow; there is no per-key TTL. The manifest
// lives in the adapter itself so it cannot be evicted out from under the
// cache bookkeeping.
package bigcache

import (
	"context"
	"sync"
	"time"

	bc "github.com/allegro/bigcache/v3"
)

type Store struct {
	c *bc.BigCache

	mu       sync.RWMutex
	manifest []byte
}

type Config struct {
	LifeWindow         time.Duration
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

func New(cfg Config) (*Store, error) {
	conf := bc.DefaultConfig(cfg.LifeWindow)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.NewBigCache(conf)
	if err != nil {
		return nil, err
	}
	return &Store{c: c}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, err := s.c.Get(key)
	if err == bc.ErrEntryNotFound {
		return nil, false, nil
	}
	return b, err == nil, err
}

func (s *Store) Put(_ context.Context, key string, value []byte) (bool, error) {
	return true, s.c.Set(key, value)
}

func (s *Store) Del(_ context.Context, key string) error {
	err := s.c.Delete(key)
	if err == bc.ErrEntryNotFound {
		return nil
	}
	return err
}

// Keys lists stored blob keys via bigcache's iterator. Entries evicted
// mid-iteration are skipped.
func (s *Store) Keys(_ context.Context) ([]string, error) {
	var keys []string
	it := s.c.Iterator()
	for it.SetNext() {
		e, err := it.Value()
		if err != nil {
			continue
		}
		keys = append(keys, e.Key())
	}
	return keys, nil
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
	s.mu.Unlock()
	return s.c.Reset()
}

func (s *Store) Dir() string { return "" }

func (s *Store) Close(_ context.Context) error {
	return s.c.Close()
}
