package wire

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/cespare/xxhash/v2"
)

const (
	version     byte = 1
	kindDataset byte = 1
)

var (
	ErrCorrupt = errors.New("dscache: corrupt blob")
	magic4     = [...]byte{'D', 'S', 'C', 'B'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Dataset blob: magic(4) | ver(1) | kind(1=dataset) | sum(u64 be) | vlen(u32 be) | payload(vlen)
//
// sum is the xxhash of the payload; a mismatch means the blob was truncated
// or bit-rotted on disk and must be treated as absent, never surfaced.
func EncodeDataset(payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 8 + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindDataset)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], xxhash.Sum64(payload))
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

func DecodeDataset(b []byte) (payload []byte, err error) {
	const hdr = 4 + 1 + 1 + 8 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindDataset {
		return nil, ErrCorrupt
	}

	off := 6

	sum := binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off { // exact length; trailing junk is corruption
		return nil, ErrCorrupt
	}

	payload = b[off : off+vlen]
	if xxhash.Sum64(payload) != sum {
		return nil, ErrCorrupt
	}
	return payload, nil
}
