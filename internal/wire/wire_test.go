package wire

import (
	"bytes"
	"testing"
)

func mustDecode(t *testing.T, b []byte) []byte {
	t.Helper()
	p, err := DecodeDataset(b)
	if err != nil {
		t.Fatalf("DecodeDataset error: %v", err)
	}
	return p
}

func TestRoundTripEmptyAndNonEmpty(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("hello"),
		{0, 1, 2, 3, 4},
	}
	for _, payload := range cases {
		enc := EncodeDataset(payload)
		got := mustDecode(t, enc)
		if !bytes.Equal(got, payload) {
			t.Fatalf("payload mismatch: got %x want %x", got, payload)
		}
	}
}

func TestRejectsTrailingBytes(t *testing.T) {
	enc := EncodeDataset([]byte("x"))
	enc = append(enc, 0xDE, 0xAD) // add junk
	if _, err := DecodeDataset(enc); err == nil {
		t.Fatalf("expected error on trailing bytes")
	}
}

func TestCorruptHeadersAndPayload(t *testing.T) {
	enc := EncodeDataset([]byte("abc"))

	// bad magic
	badMagic := append([]byte(nil), enc...)
	badMagic[0] = 'X'
	if _, err := DecodeDataset(badMagic); err == nil {
		t.Fatalf("expected error on bad magic")
	}

	// wrong version
	badVer := append([]byte(nil), enc...)
	badVer[4] = version + 1
	if _, err := DecodeDataset(badVer); err == nil {
		t.Fatalf("expected error on bad version")
	}

	// wrong kind
	badKind := append([]byte(nil), enc...)
	badKind[5] = kindDataset + 1
	if _, err := DecodeDataset(badKind); err == nil {
		t.Fatalf("expected error on bad kind")
	}

	// flipped payload bit fails the checksum
	badSum := append([]byte(nil), enc...)
	badSum[len(badSum)-1] ^= 0x01
	if _, err := DecodeDataset(badSum); err == nil {
		t.Fatalf("expected error on checksum mismatch")
	}

	// truncated
	if _, err := DecodeDataset(enc[:len(enc)-2]); err == nil {
		t.Fatalf("expected error on truncation")
	}

	// too short for header
	if _, err := DecodeDataset(enc[:5]); err == nil {
		t.Fatalf("expected error on short input")
	}
}
