// usage:
//
// import (
//
//	"log/slog"
//
//	"github.com/unkn0wn-root/dscache"
//	"github.com/unkn0wn-root/dscache/hooks/async"
//	"github.com/unkn0wn-root/dscache/sloghooks"
//
// )
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    CorruptEvery: 10, // sample logs: ~every 10th corrupt blob
//	})
//
// hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
// defer hooks.Close()
//
//	cache, _ := dscache.New(dscache.Options{
//	    Config: cfg,
//	    Hooks:  hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/dscache"
)

type Hooks struct {
	inner dscache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ dscache.Hooks = (*Hooks)(nil)

func New(inner dscache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) CorruptBlob(k, r string)     { h.try(func() { h.inner.CorruptBlob(k, r) }) }
func (h *Hooks) StoreWriteRejected(k string) { h.try(func() { h.inner.StoreWriteRejected(k) }) }
func (h *Hooks) ManifestReset(err error)     { h.try(func() { h.inner.ManifestReset(err) }) }
func (h *Hooks) KeyCollision(k, wi, wt string) {
	h.try(func() { h.inner.KeyCollision(k, wi, wt) })
}
func (h *Hooks) CleanupDone(removed, survivors int) {
	h.try(func() { h.inner.CleanupDone(removed, survivors) })
}
