// Package event
package event

import (
	"sync"

	"cpugauge/internal/logger"
)

type Handler func(event any)

type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      logger.Logger
}

func New(log logger.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

func (b *Bus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish calls every handler for eventName synchronously on the caller's
// goroutine. A panicking handler is logged and does not stop the others.
func (b *Bus) Publish(eventName string, event any) {
	b.mu.RLock()
	handlers := b.handlers[eventName]
	b.mu.RUnlock()

	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					b.log.Warn(
						"event handler panic",
						"event", eventName,
						"panic", r,
					)
				}
			}()
			h(event)
		}()
	}
}
