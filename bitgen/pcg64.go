package bitgen

import "math/bits"

// 128-bit LCG multiplier, PCG64 XSL-RR reference value.
const (
	mulHi = 2549297995355413924
	mulLo = 4865540595714422341
)

// State is one point in a PCG64 stream. The zero value is not a valid
// generator; construct with Seeded or FromRawSeed. State is an immutable
// value: draw methods return the successor state instead of mutating.
type State struct {
	hi, lo       uint64 // 128-bit LCG state
	incHi, incLo uint64 // stream increment, always odd

	// buffered high half from the last 64-bit draw, for Uint32
	carry    uint32
	hasCarry bool
}

// Seeded builds a generator from an integer seed via SeedSequence pooling.
func Seeded(seed uint64) State {
	w := NewSeedSequence(seed).GenerateState(4)
	return FromRawSeed(w[0], w[1], w[2], w[3])
}

// FromRawSeed initializes the stream directly from a 128-bit initial state
// and a 128-bit sequence selector, bypassing entropy pooling.
func FromRawSeed(stateHi, stateLo, seqHi, seqLo uint64) State {
	s := State{
		incHi: seqHi<<1 | seqLo>>63,
		incLo: seqLo<<1 | 1,
	}
	s = s.step()
	var c uint64
	s.lo, c = bits.Add64(s.lo, stateLo, 0)
	s.hi, _ = bits.Add64(s.hi, stateHi, c)
	return s.step()
}

// step advances the 128-bit LCG: state = state*mul + inc.
func (s State) step() State {
	hi, lo := bits.Mul64(s.lo, mulLo)
	hi += s.lo*mulHi + s.hi*mulLo
	var c uint64
	lo, c = bits.Add64(lo, s.incLo, 0)
	hi, _ = bits.Add64(hi, s.incHi, c)
	s.hi, s.lo = hi, lo
	return s
}

// Uint64 draws the next 64-bit value. Any half-word buffered for Uint32 is
// discarded so the 64-bit stream stays aligned.
func (s State) Uint64() (uint64, State) {
	s = s.step()
	s.hasCarry = false
	rot := int(s.hi >> 58)
	return bits.RotateLeft64(s.hi^s.lo, -rot), s
}

// Uint32 draws 32 bits. Each underlying 64-bit draw yields two values, low
// half first, so consecutive calls consume the stream at half rate.
func (s State) Uint32() (uint32, State) {
	if s.hasCarry {
		s.hasCarry = false
		return s.carry, s
	}
	v, s := s.Uint64()
	s.carry = uint32(v >> 32)
	s.hasCarry = true
	return uint32(v), s
}

// Bounded draws a uniform value in [0, max] inclusive using mask rejection,
// staying on the 32-bit stream whenever max fits in 32 bits.
func (s State) Bounded(max uint64) (uint64, State) {
	if max == 0 {
		return 0, s
	}
	mask := maskFor(max)
	if max <= 0xffffffff {
		m32 := uint32(mask)
		mx := uint32(max)
		for {
			var v uint32
			v, s = s.Uint32()
			v &= m32
			if v <= mx {
				return uint64(v), s
			}
		}
	}
	for {
		var v uint64
		v, s = s.Uint64()
		v &= mask
		if v <= max {
			return v, s
		}
	}
}

// Float64 draws a uniform double in [0, 1) with 53 bits of precision.
func (s State) Float64() (float64, State) {
	v, s := s.Uint64()
	return float64(v>>11) * (1.0 / 9007199254740992.0), s
}

// maskFor returns the smallest 2^k-1 covering v.
func maskFor(v uint64) uint64 {
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	return v
}
