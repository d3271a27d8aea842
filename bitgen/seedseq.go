package bitgen

const (
	poolSize = 4
	xshift   = 16

	initA = 0x43b0d7e5
	multA = 0x931e8875
	initB = 0x8b51f9dd
	multB = 0x58f38ded

	mixMultL = 0xca01f9dd
	mixMultR = 0x4973f715
)

// SeedSequence spreads entropy of any size uniformly across a fixed pool,
// then draws independent seed words from that pool. Low-quality seeds such
// as 0, 1, 2 end up as well-mixed initial states.
type SeedSequence struct {
	pool [poolSize]uint32
}

// NewSeedSequence builds a sequence from a single integer seed.
func NewSeedSequence(entropy uint64) *SeedSequence {
	return NewSeedSequenceRaw(entropyWords(entropy))
}

// NewSeedSequenceRaw builds a sequence from pre-split 32-bit entropy words,
// lowest word first. Used when the entropy does not fit in a uint64.
func NewSeedSequenceRaw(entropy []uint32) *SeedSequence {
	var s SeedSequence
	s.mixEntropy(entropy)
	return &s
}

// entropyWords splits a uint64 into 32-bit words, low first, dropping
// leading zero words. Zero itself is a single zero word.
func entropyWords(v uint64) []uint32 {
	if v == 0 {
		return []uint32{0}
	}
	var w []uint32
	for v > 0 {
		w = append(w, uint32(v))
		v >>= 32
	}
	return w
}

func (s *SeedSequence) mixEntropy(entropy []uint32) {
	hc := uint32(initA)

	for i := range s.pool {
		if i < len(entropy) {
			s.pool[i] = hashMix(entropy[i], &hc)
		} else {
			s.pool[i] = hashMix(0, &hc)
		}
	}
	for iSrc := range s.pool {
		for iDst := range s.pool {
			if iSrc != iDst {
				s.pool[iDst] = mix(s.pool[iDst], hashMix(s.pool[iSrc], &hc))
			}
		}
	}
	for iSrc := poolSize; iSrc < len(entropy); iSrc++ {
		for iDst := range s.pool {
			s.pool[iDst] = mix(s.pool[iDst], hashMix(entropy[iSrc], &hc))
		}
	}
}

// GenerateState draws n independent 64-bit seed words from the pool.
// Each word is assembled from two consecutive 32-bit draws, low half first.
func (s *SeedSequence) GenerateState(n int) []uint64 {
	out := make([]uint64, n)
	hc := uint32(initB)
	src := 0
	for i := range out {
		lo := drawWord(s.pool[src%poolSize], &hc)
		src++
		hi := drawWord(s.pool[src%poolSize], &hc)
		src++
		out[i] = uint64(hi)<<32 | uint64(lo)
	}
	return out
}

func drawWord(v uint32, hc *uint32) uint32 {
	v ^= *hc
	*hc *= multB
	v *= *hc
	v ^= v >> xshift
	return v
}

func hashMix(v uint32, hc *uint32) uint32 {
	v ^= *hc
	*hc *= multA
	v *= *hc
	v ^= v >> xshift
	return v
}

// mix folds y into x. The multiply-subtract shape is load-bearing for
// stream compatibility; do not "simplify" it to an xor.
func mix(x, y uint32) uint32 {
	r := mixMultL*x - mixMultR*y
	r ^= r >> xshift
	return r
}
