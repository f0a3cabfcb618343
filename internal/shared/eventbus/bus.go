/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
)

// Event describes something that happened to a database object.
type Event interface {
	// EventName returns the unique name identifying this event type.
	EventName() string

	// EventID returns a unique id for this occurrence.
	EventID() string

	// EventTime returns when the event occurred.
	EventTime() time.Time

	// Database returns the database the event concerns.
	Database() string

	// Subject returns the object the event concerns, such as a table name.
	Subject() string
}

// Handler processes events of a specific type.
type Handler func(ctx context.Context, event Event) error

// HandlerInfo pairs a handler with its registered name.
type HandlerInfo struct {
	Name    string
	Handler Handler
}

// Bus delivers events to subscribers.
type Bus interface {
	// Publish runs every handler for the event in subscription order. All
	// handlers run even when some fail; the failures are joined.
	Publish(ctx context.Context, event Event) error

	// Subscribe registers a named handler for an event type.
	Subscribe(eventName string, handlerName string, handler Handler)

	// Unsubscribe removes a handler by name.
	Unsubscribe(eventName string, handlerName string)

	// Handlers returns the handlers registered for an event type.
	Handlers(eventName string) []HandlerInfo
}

// InMemoryBus is a synchronous in-process Bus.
type InMemoryBus struct {
	mu         sync.RWMutex
	handlers   map[string][]HandlerInfo
	logger     logr.Logger
	middleware []Middleware
}

// BusOption configures the InMemoryBus.
type BusOption func(*InMemoryBus)

// WithLogger sets the logger for the bus.
func WithLogger(logger logr.Logger) BusOption {
	return func(b *InMemoryBus) {
		b.logger = logger
	}
}

// WithMiddleware adds middleware to the bus. The first one given is the
// outermost.
func WithMiddleware(middleware ...Middleware) BusOption {
	return func(b *InMemoryBus) {
		b.middleware = append(b.middleware, middleware...)
	}
}

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(opts ...BusOption) *InMemoryBus {
	bus := &InMemoryBus{
		handlers: make(map[string][]HandlerInfo),
		logger:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(bus)
	}
	return bus
}

// Publish sends an event to all registered handlers.
func (b *InMemoryBus) Publish(ctx context.Context, event Event) error {
	handlers := b.Handlers(event.EventName())
	if len(handlers) == 0 {
		b.logger.V(2).Info("No handlers registered for event",
			"event", event.EventName(),
			"subject", event.Subject())
		return nil
	}

	publish := b.final
	for i := len(b.middleware) - 1; i >= 0; i-- {
		publish = b.middleware[i](publish)
	}
	return publish(ctx, event, handlers)
}

func (b *InMemoryBus) final(ctx context.Context, event Event, handlers []HandlerInfo) error {
	var errs []error
	for _, hi := range handlers {
		start := time.Now()
		if err := hi.Handler(ctx, event); err != nil {
			b.logger.Error(err, "Handler failed",
				"event", event.EventName(),
				"handler", hi.Name,
				"duration", time.Since(start))
			errs = append(errs, fmt.Errorf("handler %s: %w", hi.Name, err))
			continue
		}
		b.logger.V(2).Info("Handler completed",
			"event", event.EventName(),
			"handler", hi.Name,
			"duration", time.Since(start))
	}
	if len(errs) > 0 {
		return fmt.Errorf("event %s: %w", event.EventName(), errors.Join(errs...))
	}
	return nil
}

// Subscribe registers a handler for an event type. A second handler with
// the same name is ignored.
func (b *InMemoryBus) Subscribe(eventName string, handlerName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, hi := range b.handlers[eventName] {
		if hi.Name == handlerName {
			b.logger.Info("Handler already registered, skipping",
				"event", eventName,
				"handler", handlerName)
			return
		}
	}
	b.handlers[eventName] = append(b.handlers[eventName], HandlerInfo{Name: handlerName, Handler: handler})
	b.logger.V(1).Info("Handler subscribed", "event", eventName, "handler", handlerName)
}

// Unsubscribe removes a handler by name.
func (b *InMemoryBus) Unsubscribe(eventName string, handlerName string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers := b.handlers[eventName]
	for i, hi := range handlers {
		if hi.Name == handlerName {
			b.handlers[eventName] = append(handlers[:i:i], handlers[i+1:]...)
			return
		}
	}
}

// Handlers returns a copy of the handlers registered for an event type.
func (b *InMemoryBus) Handlers(eventName string) []HandlerInfo {
	b.mu.RLock()
	defer b.mu.RUnlock()

	handlers := make([]HandlerInfo, len(b.handlers[eventName]))
	copy(handlers, b.handlers[eventName])
	return handlers
}

var _ Bus = (*InMemoryBus)(nil)
