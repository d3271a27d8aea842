// Package store defines the byte-store abstraction behind the transform
// cache.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the same []byte that was previously passed to Put for a key (no prepended/
// appended metadata, no re-encoding, no mutation). The manifest slot is a
// single opaque document owned by the cache; stores only persist it.
package store

import "context"

// BlobStore is a minimal byte store with a manifest slot.
// Must be safe for concurrent use within one process. Multi-process
// coordination is out of scope; the filesystem store commits each file
// atomically but racing writers may still interleave blob/manifest updates.
type BlobStore interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores value under key.
	// Returns ok=false when the store rejected the write under pressure.
	Put(ctx context.Context, key string, value []byte) (ok bool, err error)

	// Del removes a key (best-effort; absent keys are not an error).
	Del(ctx context.Context, key string) error

	// Keys lists the keys of stored blobs. Stores with asynchronous
	// eviction may over-report (include keys whose blobs are already
	// gone); callers must tolerate Del/Get of absent keys.
	Keys(ctx context.Context) ([]string, error)

	// LoadManifest returns the manifest document, ok=false when absent.
	LoadManifest(ctx context.Context) ([]byte, bool, error)

	// SaveManifest replaces the manifest document.
	SaveManifest(ctx context.Context, raw []byte) error

	// Wipe removes every blob and the manifest.
	Wipe(ctx context.Context) error

	// Dir is the backing directory, or "" for in-memory stores.
	Dir() string

	// Close releases resources.
	Close(ctx context.Context) error
}
