// Package dscache implements deterministic, content-addressed caching of
// dataset transformations, together with the reproducible randomized
// operations (seeded shuffling, stratified splitting) that such caching must
// treat as pure functions of their inputs.
//
// Components:
//   - Fingerprint: SHA-256 identity for transformations and dataset content.
//     Identical (operation, arguments, options) always hash to the identical
//     64-char hex string across processes, hosts and time.
//   - Cache: persistent key-value store keyed by (input, transform)
//     fingerprint pairs, with a JSON manifest and age/size eviction.
//     Corrupt entries degrade to a miss, never to an error.
//   - Map/MapBatched/Filter: cached-operation wrappers with compute-once
//     semantics. The first caller of a fingerprint pair pays the full cost;
//     later callers get the materialized result, even across restarts.
//   - Shuffle/TrainTestSplit: seeded, reproducible permutation and
//     proportional stratified partitioning. The PCG64 generator in bitgen
//     reproduces NumPy's default_rng ordering value for value.
//
// Keys:
//
//	<key>.cache    - serialized dataset blob; key = 16-hex(input) "_" 16-hex(transform)
//	manifest.json  - cache key -> {created_at, fingerprints, num_items, size_bytes}
//
// Cached-operation pattern:
//
//	c, _ := dscache.New(dscache.Options{Config: cfg})
//	out, err := c.Map(ctx, ds, clean, dscache.OpOptions{Identity: "clean/v2"})
package dscache
