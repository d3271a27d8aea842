package dscache

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	c "github.com/unkn0wn-root/dscache/codec"
	"github.com/unkn0wn-root/dscache/internal/util"
	"github.com/unkn0wn-root/dscache/internal/wire"
	"github.com/unkn0wn-root/dscache/store"
)

// Cache is the transform cache: datasets keyed by the pair of input-content
// and transform fingerprints. Reads are never required for correctness: any
// store failure, corrupt blob, or key collision degrades to a miss and the
// caller recomputes.
//
// Safe for concurrent use within one process. The manifest is loaded once
// and kept in memory; concurrent writers in other processes may leave the
// in-memory view stale until the next instance starts.
type Cache struct {
	cfg     Config
	st      store.BlobStore
	codec   c.Codec[Blob]
	log     Logger
	hooks   Hooks
	enabled bool
	now     func() time.Time

	mu       sync.Mutex
	manifest map[string]manifestEntry
	loaded   bool
}

// manifestEntry is the bookkeeping record for one cached blob. The manifest
// document is a JSON object mapping composite keys to these entries.
type manifestEntry struct {
	CreatedAt            string `json:"created_at"`
	InputFingerprint     string `json:"input_fingerprint"`
	TransformFingerprint string `json:"transform_fingerprint"`
	NumItems             int    `json:"num_items"`
	SizeBytes            int64  `json:"size_bytes"`
}

// Stats summarizes the manifest's view of the cache.
type Stats struct {
	Entries   int
	SizeBytes int64
	Dir       string
}

// Enabled reports whether this cache will ever store or serve anything.
func (ca *Cache) Enabled() bool { return ca.enabled }

// Config returns the policy the cache was built with.
func (ca *Cache) Config() Config { return ca.cfg }

// Close releases the underlying store.
func (ca *Cache) Close(ctx context.Context) error {
	if ca.st == nil {
		return nil
	}
	return ca.st.Close(ctx)
}

// Get looks up the dataset cached for (inputFP, transformFP). Store errors
// and corrupt blobs degrade to a miss; corrupt blobs are deleted so the next
// Put can heal the slot. A blob whose manifest entry carries different full
// fingerprints (truncated-key collision) is reported and treated as a miss.
func (ca *Cache) Get(ctx context.Context, inputFP, transformFP Fingerprint) (*Dataset, bool) {
	if !ca.enabled {
		return nil, false
	}
	key := util.CacheKey(string(inputFP), string(transformFP))

	raw, ok, err := ca.st.Get(ctx, key)
	if err != nil {
		ca.log.Warn("cache read failed", Fields{"key": key, "err": err})
		return nil, false
	}
	if !ok {
		return nil, false
	}

	payload, err := wire.DecodeDataset(raw)
	if err != nil {
		ca.dropCorrupt(ctx, key, "frame")
		return nil, false
	}
	blob, err := ca.codec.Decode(payload)
	if err != nil {
		ca.dropCorrupt(ctx, key, "decode")
		return nil, false
	}

	ca.mu.Lock()
	ca.ensureManifestLocked(ctx)
	ent, hasEnt := ca.manifest[key]
	ca.mu.Unlock()
	if !hasEnt {
		// Orphan from an interrupted put: no manifest entry means no full
		// fingerprints to verify against, so never serve it. Cleanup
		// reclaims the blob.
		ca.log.Debug("blob without manifest entry", Fields{"key": key})
		return nil, false
	}
	if ent.InputFingerprint != string(inputFP) || ent.TransformFingerprint != string(transformFP) {
		ca.hooks.KeyCollision(key, ent.InputFingerprint, ent.TransformFingerprint)
		ca.log.Warn("cache key collision", Fields{"key": key})
		return nil, false
	}

	d := &Dataset{records: blob.Records, meta: blob.Metadata, fp: Fingerprint(blob.Fingerprint)}
	ca.log.Debug("cache hit", Fields{"key": key, "items": d.Len()})
	return d, true
}

// Put stores d under (inputFP, transformFP) and records the manifest entry.
// Best-effort: a returned *PutError tells the caller what part of the write
// failed, but the computed dataset remains valid regardless.
func (ca *Cache) Put(ctx context.Context, inputFP, transformFP Fingerprint, d *Dataset) error {
	if !ca.enabled {
		return nil
	}
	key := util.CacheKey(string(inputFP), string(transformFP))

	payload, err := ca.codec.Encode(Blob{
		Records:     d.Records(),
		Metadata:    d.Metadata(),
		Fingerprint: string(d.Fingerprint()),
	})
	if err != nil {
		return &PutError{Key: key, BlobErr: err}
	}
	framed := wire.EncodeDataset(payload)

	ok, err := ca.st.Put(ctx, key, framed)
	if err != nil {
		return &PutError{Key: key, BlobErr: err}
	}
	if !ok {
		// Rejected under pressure. No manifest entry: the manifest must
		// never reference a blob that was not accepted.
		ca.hooks.StoreWriteRejected(key)
		ca.log.Debug("store rejected write", Fields{"key": key})
		return nil
	}

	ca.mu.Lock()
	defer ca.mu.Unlock()
	ca.ensureManifestLocked(ctx)
	ca.manifest[key] = manifestEntry{
		CreatedAt:            ca.now().UTC().Format(time.RFC3339),
		InputFingerprint:     string(inputFP),
		TransformFingerprint: string(transformFP),
		NumItems:             d.Len(),
		SizeBytes:            int64(len(framed)),
	}
	if err := ca.saveManifestLocked(ctx); err != nil {
		return &PutError{Key: key, ManifestErr: err}
	}
	ca.log.Debug("cache put", Fields{"key": key, "bytes": len(framed)})
	return nil
}

// Cleanup removes expired entries, then evicts oldest-first until the cache
// fits under maxSizeBytes, and finally deletes blobs the manifest does not
// reference (orphans from puts interrupted between the blob and manifest
// writes). A non-positive maxAge disables age expiry; a non-positive
// maxSizeBytes disables size eviction. Returns the total number of
// deletions across all phases.
func (ca *Cache) Cleanup(ctx context.Context, maxAge time.Duration, maxSizeBytes int64) (int, error) {
	if !ca.enabled {
		return 0, nil
	}

	ca.mu.Lock()
	defer ca.mu.Unlock()
	ca.ensureManifestLocked(ctx)

	type aged struct {
		key string
		ent manifestEntry
		at  time.Time
	}

	cutoff := ca.now().Add(-maxAge)
	var survivors []aged
	var total int64
	removed := 0

	for key, ent := range ca.manifest {
		at, err := time.Parse(time.RFC3339, ent.CreatedAt)
		expired := err != nil // unreadable timestamp counts as expired
		if maxAge > 0 && !expired {
			expired = at.Before(cutoff)
		}
		if expired {
			ca.deleteBlobLocked(ctx, key)
			removed++
			continue
		}
		survivors = append(survivors, aged{key: key, ent: ent, at: at})
		total += ent.SizeBytes
	}

	if maxSizeBytes > 0 && total > maxSizeBytes {
		sort.Slice(survivors, func(i, j int) bool { return survivors[i].at.Before(survivors[j].at) })
		for len(survivors) > 0 && total > maxSizeBytes {
			victim := survivors[0]
			survivors = survivors[1:]
			ca.deleteBlobLocked(ctx, victim.key)
			total -= victim.ent.SizeBytes
			removed++
		}
	}

	ca.manifest = make(map[string]manifestEntry, len(survivors))
	for _, s := range survivors {
		ca.manifest[s.key] = s.ent
	}
	err := ca.saveManifestLocked(ctx)

	if keys, kerr := ca.st.Keys(ctx); kerr != nil {
		ca.log.Warn("store key listing failed, orphans not reclaimed", Fields{"err": kerr})
	} else {
		for _, k := range keys {
			if _, ok := ca.manifest[k]; !ok {
				ca.deleteBlobLocked(ctx, k)
				removed++
			}
		}
	}

	ca.hooks.CleanupDone(removed, len(survivors))
	ca.log.Info("cleanup done", Fields{"removed": removed, "survivors": len(survivors)})
	return removed, err
}

// CleanupDefault runs Cleanup with the limits from the cache's Config.
func (ca *Cache) CleanupDefault(ctx context.Context) (int, error) {
	return ca.Cleanup(ctx, ca.cfg.MaxAge(), ca.cfg.MaxSizeBytes())
}

// Clear wipes every blob and the manifest.
func (ca *Cache) Clear(ctx context.Context) error {
	if !ca.enabled {
		return nil
	}
	ca.mu.Lock()
	defer ca.mu.Unlock()
	if err := ca.st.Wipe(ctx); err != nil {
		return err
	}
	ca.manifest = make(map[string]manifestEntry)
	ca.loaded = true
	return ca.saveManifestLocked(ctx)
}

// Stats reports entry count and aggregate size from the manifest.
func (ca *Cache) Stats(ctx context.Context) Stats {
	if !ca.enabled {
		return Stats{}
	}
	ca.mu.Lock()
	defer ca.mu.Unlock()
	ca.ensureManifestLocked(ctx)

	s := Stats{Entries: len(ca.manifest), Dir: ca.st.Dir()}
	for _, ent := range ca.manifest {
		s.SizeBytes += ent.SizeBytes
	}
	return s
}

// dropCorrupt self-heals a bad slot: delete the blob and its manifest entry
// so the next Put starts clean.
func (ca *Cache) dropCorrupt(ctx context.Context, key, reason string) {
	ca.hooks.CorruptBlob(key, reason)
	ca.log.Warn("corrupt cache blob dropped", Fields{"key": key, "reason": reason})
	if err := ca.st.Del(ctx, key); err != nil {
		ca.log.Warn("corrupt blob delete failed", Fields{"key": key, "err": err})
	}
	ca.mu.Lock()
	defer ca.mu.Unlock()
	ca.ensureManifestLocked(ctx)
	if _, ok := ca.manifest[key]; ok {
		delete(ca.manifest, key)
		if err := ca.saveManifestLocked(ctx); err != nil {
			ca.log.Warn("manifest save failed", Fields{"err": err})
		}
	}
}

func (ca *Cache) deleteBlobLocked(ctx context.Context, key string) {
	if err := ca.st.Del(ctx, key); err != nil {
		ca.log.Warn("blob delete failed", Fields{"key": key, "err": err})
	}
}

// ensureManifestLocked lazily loads the manifest. Unreadable or unparsable
// manifests are treated as empty (cold start) rather than failing.
func (ca *Cache) ensureManifestLocked(ctx context.Context) {
	if ca.loaded {
		return
	}
	ca.loaded = true
	ca.manifest = make(map[string]manifestEntry)

	raw, ok, err := ca.st.LoadManifest(ctx)
	if err != nil {
		ca.hooks.ManifestReset(err)
		ca.log.Warn("manifest load failed, starting empty", Fields{"err": err})
		return
	}
	if !ok {
		return
	}
	var m map[string]manifestEntry
	if err := json.Unmarshal(raw, &m); err != nil {
		ca.hooks.ManifestReset(err)
		ca.log.Warn("manifest unparsable, starting empty", Fields{"err": err})
		return
	}
	ca.manifest = m
}

func (ca *Cache) saveManifestLocked(ctx context.Context) error {
	raw, err := json.Marshal(ca.manifest)
	if err != nil {
		return err
	}
	return ca.st.SaveManifest(ctx, raw)
}
