package dscache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"reflect"
	"runtime"
	"sort"
	"strings"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/unkn0wn-root/dscache/codec"
)

// Version is mixed into every transform fingerprint so cached results are
// invalidated when the library's transformation semantics change.
const Version = "0.4.0"

// Fingerprint is a 64-char lowercase hex SHA-256 digest identifying a
// dataset's content or a transformation's identity and arguments. Equality
// is exact string equality.
type Fingerprint string

// sampleSize bounds FromDataset at O(K): first K and last K records stand in
// for the full sequence. Differences confined to the middle are invisible to
// the sample; that trade is deliberate.
const sampleSize = 10

// metaOptions are caching controls, not transformation arguments. They are
// stripped before hashing so that e.g. passing an explicit cache file does
// not change the transform identity.
var metaOptions = map[string]struct{}{
	"fingerprint":   {},
	"cache_file":    {},
	"disable_cache": {},
}

// fpCodec is the canonical encoder for fingerprint material: RFC 8949 core
// deterministic CBOR, so the same value always serializes to the same bytes.
var fpCodec = codec.MustCBOR[any](true)

// Generate fingerprints a transformation: the operation name, its normalized
// arguments and options, and the library version. It is pure - identical
// inputs yield the identical string across processes, hosts and time - and
// total: values that cannot be serialized fall back to a stable surrogate
// instead of failing.
func Generate(op string, args []any, options map[string]any) Fingerprint {
	normArgs := make([]any, len(args))
	for i, a := range args {
		normArgs[i] = normalizeValue(a)
	}

	keys := make([]string, 0, len(options))
	for k := range options {
		if _, meta := metaOptions[k]; meta {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	normOpts := make([]any, 0, len(keys))
	for _, k := range keys {
		normOpts = append(normOpts, []any{k, normalizeValue(options[k])})
	}

	return hashCanonical([]any{op, normArgs, normOpts, Version})
}

// FromDataset fingerprints a dataset's content from its record count plus a
// deterministic sample (first and last sampleSize records, or everything for
// short datasets). Never depends on incidental iteration artifacts.
func FromDataset(d *Dataset) Fingerprint {
	n := d.Len()
	var sample []Record
	if n > 2*sampleSize {
		sample = make([]Record, 0, 2*sampleSize)
		sample = append(sample, d.records[:sampleSize]...)
		sample = append(sample, d.records[n-sampleSize:]...)
	} else {
		sample = d.records
	}
	return hashCanonical([]any{n, normalizeValue(sample)})
}

// Combine chains two fingerprints into one. Order matters:
// Combine(a, b) != Combine(b, a) in general.
func Combine(a, b Fingerprint) Fingerprint {
	sum := sha256.Sum256([]byte(string(a) + string(b)))
	return Fingerprint(hex.EncodeToString(sum[:]))
}

// CombineAll left-folds Combine over fps. The empty list maps to the
// fingerprint of the empty operation; a singleton is returned unchanged.
func CombineAll(fps []Fingerprint) Fingerprint {
	switch len(fps) {
	case 0:
		return Generate("empty", nil, nil)
	case 1:
		return fps[0]
	}
	acc := fps[0]
	for _, fp := range fps[1:] {
		acc = Combine(acc, fp)
	}
	return acc
}

func hashCanonical(doc any) Fingerprint {
	b, err := fpCodec.Encode(doc)
	if err != nil {
		// normalizeValue keeps this path out of reach for anything CBOR can
		// represent; the textual form still yields a stable digest.
		b = []byte(fmt.Sprintf("%#v", doc))
	}
	sum := sha256.Sum256(b)
	return Fingerprint(hex.EncodeToString(sum[:]))
}

// funcIdentity describes a function argument by position in its package
// rather than by closure contents, which cannot be hashed portably. Two
// distinct closures from structurally similar call sites may alias; callers
// needing exact identity should pass OpOptions.Identity instead.
type funcIdentity struct {
	Module string `cbor:"module"`
	Name   string `cbor:"name"`
	Arity  int    `cbor:"arity"`
}

func describeFunc(v reflect.Value) funcIdentity {
	id := funcIdentity{Arity: v.Type().NumIn()}
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		full := f.Name() // e.g. "example.com/pkg.Clean" or "...glob..func1"
		if i := strings.LastIndex(full, "."); i >= 0 {
			id.Module, id.Name = full[:i], full[i+1:]
		} else {
			id.Name = full
		}
	}
	return id
}

// normalizeValue rewrites v into a form the canonical encoder accepts.
// Functions become identity descriptors; containers are normalized
// recursively; anything else unencodable degrades to a hashstructure digest
// and finally to a textual representation.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case Fingerprint:
		return string(t)
	case Record:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalizeValue(e)
		}
		return out
	case []Record:
		out := make([]any, len(t))
		for i, r := range t {
			out[i] = normalizeValue(r)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Func {
		return describeFunc(rv)
	}
	if _, err := fpCodec.Encode(v); err == nil {
		return v
	}
	if h, err := hashstructure.Hash(v, hashstructure.FormatV2, nil); err == nil {
		return h
	}
	return fmt.Sprintf("%T(%v)", v, v)
}
