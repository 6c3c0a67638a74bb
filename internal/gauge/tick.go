package gauge

import "sync/atomic"

// Tick is the host's global update counter. The display driver advances it
// once per refresh; the gauge only reads it.
type Tick struct {
	n atomic.Uint64
}

func (t *Tick) Advance() uint64 {
	return t.n.Add(1)
}

func (t *Tick) Current() uint64 {
	return t.n.Load()
}
