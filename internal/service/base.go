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

package service

import (
	"context"
	"errors"

	"github.com/go-logr/logr"

	"github.com/fbdialect/internal/shared/eventbus"
)

// baseService carries what every service needs: a named logger and the
// optional event bus from the Config.
//
//	type InspectService struct {
//	    baseService
//	    adapter adapter.DatabaseAdapter
//	    config  *Config
//	}
type baseService struct {
	log logr.Logger
	bus eventbus.Bus
}

func newBaseService(cfg *Config, serviceName string) baseService {
	return baseService{
		log: cfg.GetLogger().WithName(serviceName),
		bus: cfg.EventBus,
	}
}

func (b *baseService) startOp(operation, resource string) *operationLogger {
	return startOperation(b.log, operation, resource)
}

// publish hands event to the bus. Handler failures are logged and never
// fail the operation that produced the event.
func (b *baseService) publish(ctx context.Context, event eventbus.Event) {
	if b.bus == nil {
		return
	}
	if err := b.bus.Publish(ctx, event); err != nil {
		b.log.Error(err, "event handler failed", "event", event.EventName(), "subject", event.Subject())
	}
}

// wrapError returns a TimeoutError when ctx expired and a DatabaseError
// otherwise. Missing tables pass through untouched so callers can match
// them with IsNotFound.
func (b *baseService) wrapError(ctx context.Context, timeout string, operation, resource string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return NewTimeoutError(operation, resource, timeout, err)
	}
	if IsNotFound(err) {
		return err
	}
	return NewDatabaseError(operation, resource, err)
}
