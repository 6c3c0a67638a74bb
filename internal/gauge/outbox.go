package gauge

import (
	"sync"

	"cpugauge/internal/event"
)

type pendingEvent struct {
	name  string
	event any
}

// outbox holds events raised while the gauge lock is held and hands them to
// the bus once the lock is released, so handlers may query the gauge.
type outbox struct {
	bus *event.Bus

	mu      sync.Mutex
	pending []pendingEvent
}

func newOutbox(bus *event.Bus) *outbox {
	return &outbox{bus: bus}
}

func (o *outbox) Publish(name string, ev any) {
	o.mu.Lock()
	o.pending = append(o.pending, pendingEvent{name: name, event: ev})
	o.mu.Unlock()
}

func (o *outbox) flush() {
	if o == nil {
		return
	}

	o.mu.Lock()
	pending := o.pending
	o.pending = nil
	o.mu.Unlock()

	for _, p := range pending {
		o.bus.Publish(p.name, p.event)
	}
}
