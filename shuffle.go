package dscache

import (
	mathrand "math/rand/v2"

	"github.com/unkn0wn-root/dscache/bitgen"
)

// Generator selects the PRNG behind Shuffle.
type Generator int

const (
	// GeneratorPCG64 is the bit-exact entropy-pooled PCG64 stream: the same
	// seed and item count yield the same permutation on every platform and
	// match the reference numeric ecosystem's default shuffle value for
	// value. This is the default.
	GeneratorPCG64 Generator = iota

	// GeneratorFast uses the runtime's PCG from math/rand/v2. Reproducible
	// for a given seed within this implementation, with no cross-ecosystem
	// guarantee.
	GeneratorFast
)

// ShuffleOptions tune a Shuffle call.
type ShuffleOptions struct {
	// Seed fixes the permutation. Nil draws non-deterministic entropy and
	// the result is not reproducible.
	Seed *uint64

	Generator Generator
}

// Seed is a convenience for building ShuffleOptions literals.
func Seed(v uint64) *uint64 { return &v }

// Shuffle returns a permuted copy of d. The input is untouched; the result
// carries no fingerprint because its content no longer matches any stamp.
func Shuffle(d *Dataset, opts ShuffleOptions) *Dataset {
	seed := uint64(0)
	if opts.Seed != nil {
		seed = *opts.Seed
	} else {
		seed = mathrand.Uint64()
	}

	out := make([]Record, d.Len())
	copy(out, d.Records())

	switch opts.Generator {
	case GeneratorFast:
		r := mathrand.New(mathrand.NewPCG(seed, seed))
		for i := len(out) - 1; i >= 1; i-- {
			j := r.IntN(i + 1)
			out[i], out[j] = out[j], out[i]
		}
	default:
		s := bitgen.Seeded(seed)
		var j uint64
		for i := len(out) - 1; i >= 1; i-- {
			j, s = s.Bounded(uint64(i))
			out[i], out[j] = out[j], out[i]
		}
	}
	return d.withRecords(out, "")
}
