// Package codec provides the pluggable serializers the cache stores dataset
// blobs with, plus the deterministic CBOR mode the fingerprint hashing is
// built on. A codec only sees the blob value; framing and checksums around
// it are handled by the cache.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
