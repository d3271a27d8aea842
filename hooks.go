package dscache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks interface {
	// A blob was deleted by the cache on read.
	// reason ∈ {"frame", "decode"}
	CorruptBlob(key, reason string)

	// A blob was found under a truncated key whose manifest entry carries
	// different full fingerprints. Reported as a miss, never served.
	KeyCollision(key, wantInput, wantTransform string)

	// Store returned ok=false on Put (backpressure/eviction).
	StoreWriteRejected(key string)

	// Manifest was unreadable or unparsable and treated as empty.
	ManifestReset(err error)

	// Cleanup finished; removed counts both expired and size-evicted entries.
	CleanupDone(removed, survivors int)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) CorruptBlob(string, string)          {}
func (NopHooks) KeyCollision(string, string, string) {}
func (NopHooks) StoreWriteRejected(string)           {}
func (NopHooks) ManifestReset(error)                 {}
func (NopHooks) CleanupDone(int, int)                {}
