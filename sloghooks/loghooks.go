package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/dscache"
)

type Options struct {
	// Sampling to avoid floods on hot read paths; 0/1 = log all.
	CorruptEvery  uint64
	RejectedEvery uint64
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	corruptCtr  atomic.Uint64
	rejectedCtr atomic.Uint64
}

var _ dscache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) CorruptBlob(key, reason string) {
	if h.l == nil || !sample(h.opts.CorruptEvery, &h.corruptCtr) {
		return
	}
	h.l.Debug("dscache.corrupt_blob",
		"key", key,
		"reason", reason)
}

func (h *Hooks) KeyCollision(key, wantInput, wantTransform string) {
	if h.l == nil {
		return
	}
	h.l.Warn("dscache.key_collision",
		"key", key,
		"manifest_input_fp", wantInput,
		"manifest_transform_fp", wantTransform)
}

func (h *Hooks) StoreWriteRejected(key string) {
	if h.l == nil || !sample(h.opts.RejectedEvery, &h.rejectedCtr) {
		return
	}
	h.l.Info("dscache.store_write_rejected",
		"key", key)
}

func (h *Hooks) ManifestReset(err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("dscache.manifest_reset",
		"err", err)
}

func (h *Hooks) CleanupDone(removed, survivors int) {
	if h.l == nil {
		return
	}
	h.l.Info("dscache.cleanup_done",
		"removed", removed,
		"survivors", survivors)
}
