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
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
)

// PublishFunc is the signature for event publishing.
type PublishFunc func(ctx context.Context, event Event, handlers []HandlerInfo) error

// Middleware wraps a PublishFunc to add behavior.
type Middleware func(next PublishFunc) PublishFunc

// LoggingMiddleware logs event publishing with timing.
func LoggingMiddleware(logger logr.Logger) Middleware {
	return func(next PublishFunc) PublishFunc {
		return func(ctx context.Context, event Event, handlers []HandlerInfo) error {
			start := time.Now()
			logger.V(1).Info("Event publish started",
				"event", event.EventName(),
				"id", event.EventID(),
				"database", event.Database(),
				"subject", event.Subject(),
				"handlerCount", len(handlers))

			err := next(ctx, event, handlers)

			if err != nil {
				logger.Error(err, "Event publish completed with errors",
					"event", event.EventName(),
					"subject", event.Subject(),
					"duration", time.Since(start))
			} else {
				logger.V(1).Info("Event publish completed",
					"event", event.EventName(),
					"subject", event.Subject(),
					"duration", time.Since(start))
			}
			return err
		}
	}
}

// Metrics holds Prometheus metrics for the event bus.
type Metrics struct {
	eventsPublished *prometheus.CounterVec
	eventDuration   *prometheus.HistogramVec
}

// NewMetrics creates Prometheus metrics for the event bus.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		eventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "eventbus",
				Name:      "events_published_total",
				Help:      "Total number of events published",
			},
			[]string{"event", "status"},
		),
		eventDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "eventbus",
				Name:      "event_duration_seconds",
				Help:      "Duration of event processing including all handlers",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"event"},
		),
	}
}

// Register registers all metrics with a Prometheus registry.
func (m *Metrics) Register(registry prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.eventsPublished, m.eventDuration} {
		if err := registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// MetricsMiddleware counts published events and times their handlers.
func MetricsMiddleware(metrics *Metrics) Middleware {
	return func(next PublishFunc) PublishFunc {
		return func(ctx context.Context, event Event, handlers []HandlerInfo) error {
			start := time.Now()
			err := next(ctx, event, handlers)

			status := "success"
			if err != nil {
				status = "error"
			}
			metrics.eventsPublished.WithLabelValues(event.EventName(), status).Inc()
			metrics.eventDuration.WithLabelValues(event.EventName()).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// RecoveryMiddleware turns a handler panic into an error.
func RecoveryMiddleware(logger logr.Logger) Middleware {
	return func(next PublishFunc) PublishFunc {
		return func(ctx context.Context, event Event, handlers []HandlerInfo) (err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error(nil, "Panic recovered in event handler",
						"event", event.EventName(),
						"panic", r)
					err = fmt.Errorf("event %s: handler panic: %v", event.EventName(), r)
				}
			}()
			return next(ctx, event, handlers)
		}
	}
}
