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
	"errors"
	"math/rand"
	"strings"
	"time"
)

// RetryConfig defines retry behavior with exponential backoff
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt (0 = none)
	MaxRetries int
	// InitialInterval is the wait after the first failure
	InitialInterval time.Duration
	// MaxInterval caps every wait
	MaxInterval time.Duration
	// Multiplier grows the interval after each retry
	Multiplier float64
	// RandomizationFactor adds jitter (0-1)
	RandomizationFactor float64
}

// ConnectionRetryConfig returns the policy used when attaching to a server.
// Sequence: immediate -> 1s -> 2s -> 4s.
func ConnectionRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:          3,
		InitialInterval:     time.Second,
		MaxInterval:         30 * time.Second,
		Multiplier:          2.0,
		RandomizationFactor: 0.2,
	}
}

// UploadRetryConfig returns the policy used for snapshot uploads.
// Sequence: immediate -> 2s -> 6s.
func UploadRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:          2,
		InitialInterval:     2 * time.Second,
		MaxInterval:         time.Minute,
		Multiplier:          3.0,
		RandomizationFactor: 0.1,
	}
}

// RetryResult contains the outcome of a retry operation
type RetryResult struct {
	Attempts  int
	LastError error
	TotalTime time.Duration
}

// RetryWithBackoff runs fn until it succeeds, returns a non-retryable error,
// or the attempts run out. The first attempt is immediate.
func RetryWithBackoff(ctx context.Context, config RetryConfig, fn func() error) RetryResult {
	start := time.Now()
	var lastErr error
	var interval time.Duration

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if interval > 0 {
			select {
			case <-ctx.Done():
				return RetryResult{Attempts: attempt, LastError: ctx.Err(), TotalTime: time.Since(start)}
			case <-time.After(interval):
			}
		}

		lastErr = fn()
		if lastErr == nil || !IsRetryableError(lastErr) {
			return RetryResult{Attempts: attempt + 1, LastError: lastErr, TotalTime: time.Since(start)}
		}

		interval = nextInterval(config, interval)
	}

	return RetryResult{Attempts: config.MaxRetries + 1, LastError: lastErr, TotalTime: time.Since(start)}
}

func nextInterval(config RetryConfig, prev time.Duration) time.Duration {
	next := config.InitialInterval
	if prev > 0 {
		next = time.Duration(float64(prev) * config.Multiplier)
	}
	if config.MaxInterval > 0 && next > config.MaxInterval {
		next = config.MaxInterval
	}
	if config.RandomizationFactor > 0 {
		delta := config.RandomizationFactor * float64(next)
		next = time.Duration(float64(next) - delta + rand.Float64()*2*delta)
	}
	return next
}

// transientPatterns are lower-cased fragments of network errors and of the
// Firebird status messages that clear up on their own.
var transientPatterns = []string{
	"connection refused",
	"connection reset",
	"no such host",
	"i/o timeout",
	"broken pipe",
	"network is unreachable",
	"no route to host",
	"unavailable",
	"eof",
	"unable to complete network request",
	"connection shutdown",
	"connection lost to database",
	"error writing data to the connection",
	"error reading data from the connection",
	"lock conflict on no wait transaction",
	"deadlock",
	"update conflicts with concurrent update",
	"database shutdown",
	"too many connections",
}

// IsRetryableError reports whether err looks transient. Context errors are
// never retried.
func IsRetryableError(err error) bool {
	if err == nil || IsContextError(err) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range transientPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// IsContextError checks if an error is a context-related error (timeout or canceled).
func IsContextError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
