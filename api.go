package dscache

import (
	"time"

	c "github.com/unkn0wn-root/dscache/codec"
	"github.com/unkn0wn-root/dscache/store"
	fsstore "github.com/unkn0wn-root/dscache/store/fs"
)

// Blob is the serialized shape of a cached dataset. The codec sees this
// struct; the wire framing and checksum around it are handled internally.
type Blob struct {
	Records     []Record       `json:"records" msgpack:"records" cbor:"records"`
	Metadata    map[string]any `json:"metadata,omitempty" msgpack:"metadata,omitempty" cbor:"metadata,omitempty"`
	Fingerprint string         `json:"fingerprint" msgpack:"fingerprint" cbor:"fingerprint"`
}

// Options tune the transform cache. Everything is optional: the zero value
// yields a disabled cache that computes everything and stores nothing.
type Options struct {
	// Config is the caching policy (enabled flag, directory, limits).
	Config Config

	// Store overrides the blob store. Nil with caching active means a
	// filesystem store rooted at Config.CacheDir.
	Store store.BlobStore

	// Codec serializes Blob values. Nil => msgpack.
	Codec c.Codec[Blob]

	Logger Logger // if nil, NopLogger is used
	Hooks  Hooks  // if nil, NopHooks is used

	// Clock supplies manifest timestamps. Nil => time.Now. Tests override.
	Clock func() time.Time
}

// New builds a Cache from opts. When caching is inactive (disabled or
// offline) no store is opened and every Get is a miss.
func New(opts Options) (*Cache, error) {
	ca := &Cache{
		cfg:     opts.Config,
		enabled: opts.Config.Active(),
		st:      opts.Store,
	}

	ca.log = coalesce[Logger](opts.Logger, NopLogger{})
	ca.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	if opts.Codec != nil {
		ca.codec = opts.Codec
	} else {
		ca.codec = c.Msgpack[Blob]{}
	}
	if opts.Clock != nil {
		ca.now = opts.Clock
	} else {
		ca.now = time.Now
	}

	if ca.enabled && ca.st == nil {
		st, err := fsstore.New(opts.Config.CacheDir)
		if err != nil {
			return nil, err
		}
		ca.st = st
	}
	return ca, nil
}
