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

package util

import (
	"context"
	"time"
)

// TimeoutConfig bounds the adapter calls made by services.
// Zero values mean no timeout (the parent context decides).
type TimeoutConfig struct {
	// ConnectTimeout bounds attaching to the server
	ConnectTimeout time.Duration

	// QueryTimeout bounds single catalog queries and pings
	QueryTimeout time.Duration

	// ExecTimeout bounds running a batch of DDL statements
	ExecTimeout time.Duration

	// ReflectTimeout bounds whole-schema reflection and snapshot export
	ReflectTimeout time.Duration
}

// DefaultTimeoutConfig returns the timeouts used by the CLI.
func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		ConnectTimeout: 30 * time.Second,
		QueryTimeout:   30 * time.Second,
		ExecTimeout:    2 * time.Minute,
		ReflectTimeout: 10 * time.Minute,
	}
}

// FastTimeoutConfig returns shorter timeouts suitable for tests.
func FastTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		ConnectTimeout: 5 * time.Second,
		QueryTimeout:   5 * time.Second,
		ExecTimeout:    15 * time.Second,
		ReflectTimeout: time.Minute,
	}
}

// NoTimeoutConfig returns a config with no timeouts.
func NoTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{}
}

// WithTimeout wraps ctx with a timeout when the duration is positive and
// otherwise returns ctx with a no-op cancel.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (c TimeoutConfig) WithConnectTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return WithTimeout(ctx, c.ConnectTimeout)
}

func (c TimeoutConfig) WithQueryTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return WithTimeout(ctx, c.QueryTimeout)
}

func (c TimeoutConfig) WithExecTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return WithTimeout(ctx, c.ExecTimeout)
}

func (c TimeoutConfig) WithReflectTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return WithTimeout(ctx, c.ReflectTimeout)
}
