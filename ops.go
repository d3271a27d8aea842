package dscache

import "context"

const defaultBatchSize = 1000

// MapFunc transforms one record into its replacement.
type MapFunc func(Record) (Record, error)

// BatchMapFunc transforms a chunk of records into their replacements.
// The result is flattened into the output dataset and does not have to be
// the same length as the chunk.
type BatchMapFunc func([]Record) ([]Record, error)

// FilterFunc reports whether a record is kept.
type FilterFunc func(Record) (bool, error)

// OpOptions tune a single cached operation call.
type OpOptions struct {
	// Disable bypasses the cache for this call: the transform always runs
	// and the result carries no stamped fingerprint (unless Fingerprint is
	// set explicitly).
	Disable bool

	// Fingerprint overrides the fingerprint stamped onto the result,
	// replacing the combined (input, transform) digest.
	Fingerprint Fingerprint

	// Identity replaces the function-descriptor part of the transform
	// fingerprint. Set it when the function is a closure over data that the
	// descriptor cannot see, or when two call sites must share a cache slot.
	Identity string

	// BatchSize is the chunk length for MapBatched. 0 => 1000. Batching is
	// an execution detail and does not change the transform identity.
	BatchSize int

	// Extra values are mixed into the transform fingerprint. Use for
	// parameters the function closes over.
	Extra map[string]any
}

// Map runs f over every record through the cache: identical (dataset,
// transform) pairs compute exactly once. The input dataset is never mutated.
func (ca *Cache) Map(ctx context.Context, d *Dataset, f MapFunc, opts OpOptions) (*Dataset, error) {
	return ca.runCached(ctx, d, "map", f, opts, func() ([]Record, error) {
		out := make([]Record, 0, d.Len())
		for _, r := range d.Records() {
			nr, err := f(r)
			if err != nil {
				return nil, err
			}
			out = append(out, nr)
		}
		return out, nil
	})
}

// MapBatched is Map with chunked invocation: f is called once per BatchSize
// records and its results are flattened.
func (ca *Cache) MapBatched(ctx context.Context, d *Dataset, f BatchMapFunc, opts OpOptions) (*Dataset, error) {
	size := opts.BatchSize
	if size <= 0 {
		size = defaultBatchSize
	}
	return ca.runCached(ctx, d, "map", f, opts, func() ([]Record, error) {
		recs := d.Records()
		out := make([]Record, 0, len(recs))
		for start := 0; start < len(recs); start += size {
			end := start + size
			if end > len(recs) {
				end = len(recs)
			}
			chunk, err := f(recs[start:end])
			if err != nil {
				return nil, err
			}
			out = append(out, chunk...)
		}
		return out, nil
	})
}

// Filter keeps the records f approves, through the cache.
func (ca *Cache) Filter(ctx context.Context, d *Dataset, f FilterFunc, opts OpOptions) (*Dataset, error) {
	return ca.runCached(ctx, d, "filter", f, opts, func() ([]Record, error) {
		out := make([]Record, 0, d.Len())
		for _, r := range d.Records() {
			keep, err := f(r)
			if err != nil {
				return nil, err
			}
			if keep {
				out = append(out, r)
			}
		}
		return out, nil
	})
}

// runCached is the shared hit/miss protocol. On a miss the computed result
// is stamped with the combined fingerprint before the best-effort Put, so a
// *PutError return still carries a fully valid dataset.
func (ca *Cache) runCached(ctx context.Context, d *Dataset, op string, fn any, opts OpOptions, compute func() ([]Record, error)) (*Dataset, error) {
	if opts.Disable || !ca.enabled {
		records, err := compute()
		if err != nil {
			return nil, err
		}
		// Uncached result: no derived fingerprint, only an explicit override.
		return d.withRecords(records, opts.Fingerprint), nil
	}

	var fnArg any = fn
	if opts.Identity != "" {
		fnArg = opts.Identity
	}
	transformFP := Generate(op, []any{fnArg}, opts.Extra)
	inputFP := d.Fingerprint()

	stamp := opts.Fingerprint
	if stamp == "" {
		stamp = Combine(inputFP, transformFP)
	}

	if hit, ok := ca.Get(ctx, inputFP, transformFP); ok {
		hit.SetFingerprint(stamp)
		return hit, nil
	}

	records, err := compute()
	if err != nil {
		return nil, err
	}
	result := d.withRecords(records, stamp)
	return result, ca.Put(ctx, inputFP, transformFP, result)
}
