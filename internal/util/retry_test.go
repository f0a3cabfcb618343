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
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Retry", func() {
	Describe("RetryWithBackoff", func() {
		var (
			ctx    context.Context
			cancel context.CancelFunc
			config RetryConfig
		)

		BeforeEach(func() {
			ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
			config = RetryConfig{
				MaxRetries:      3,
				InitialInterval: 10 * time.Millisecond,
				MaxInterval:     100 * time.Millisecond,
				Multiplier:      2.0,
			}
		})

		AfterEach(func() {
			cancel()
		})

		It("returns after one attempt on success", func() {
			calls := 0
			result := RetryWithBackoff(ctx, config, func() error {
				calls++
				return nil
			})

			Expect(result.LastError).NotTo(HaveOccurred())
			Expect(result.Attempts).To(Equal(1))
			Expect(calls).To(Equal(1))
		})

		It("retries transient errors until success", func() {
			calls := 0
			start := time.Now()
			result := RetryWithBackoff(ctx, config, func() error {
				calls++
				if calls < 3 {
					return errors.New("Unable to complete network request to host \"db\"")
				}
				return nil
			})

			Expect(result.LastError).NotTo(HaveOccurred())
			Expect(result.Attempts).To(Equal(3))
			Expect(time.Since(start)).To(BeNumerically(">=", 30*time.Millisecond))
		})

		It("gives up after MaxRetries", func() {
			calls := 0
			result := RetryWithBackoff(ctx, config, func() error {
				calls++
				return errors.New("connection refused")
			})

			Expect(result.LastError).To(MatchError("connection refused"))
			Expect(result.Attempts).To(Equal(config.MaxRetries + 1))
			Expect(calls).To(Equal(config.MaxRetries + 1))
		})

		It("stops at the first non-retryable error", func() {
			calls := 0
			result := RetryWithBackoff(ctx, config, func() error {
				calls++
				return errors.New("Your user name and password are not defined")
			})

			Expect(result.LastError).To(HaveOccurred())
			Expect(result.Attempts).To(Equal(1))
			Expect(calls).To(Equal(1))
		})

		It("stops waiting when the context is cancelled", func() {
			config.InitialInterval = time.Second
			cancel()
			result := RetryWithBackoff(ctx, config, func() error {
				return errors.New("connection refused")
			})

			Expect(result.Attempts).To(Equal(1))
			Expect(result.LastError).To(MatchError(context.Canceled))
		})
	})

	Describe("nextInterval", func() {
		It("grows by the multiplier and respects the cap", func() {
			cfg := RetryConfig{InitialInterval: time.Second, MaxInterval: 3 * time.Second, Multiplier: 2}
			Expect(nextInterval(cfg, 0)).To(Equal(time.Second))
			Expect(nextInterval(cfg, time.Second)).To(Equal(2 * time.Second))
			Expect(nextInterval(cfg, 2*time.Second)).To(Equal(3 * time.Second))
		})

		It("keeps jitter within the randomization factor", func() {
			cfg := RetryConfig{InitialInterval: time.Second, MaxInterval: time.Minute, Multiplier: 2, RandomizationFactor: 0.5}
			for i := 0; i < 20; i++ {
				d := nextInterval(cfg, 0)
				Expect(d).To(BeNumerically(">=", 500*time.Millisecond))
				Expect(d).To(BeNumerically("<=", 1500*time.Millisecond))
			}
		})
	})

	DescribeTable("IsRetryableError",
		func(err error, expected bool) {
			Expect(IsRetryableError(err)).To(Equal(expected))
		},
		Entry("nil", nil, false),
		Entry("refused", errors.New("dial tcp 127.0.0.1:3050: connect: connection refused"), true),
		Entry("network request", errors.New("Unable to complete network request to host"), true),
		Entry("lock conflict", errors.New("lock conflict on no wait transaction"), true),
		Entry("deadlock", errors.New("deadlock\nupdate conflicts with concurrent update"), true),
		Entry("wrapped", fmt.Errorf("failed to connect: %w", errors.New("i/o timeout")), true),
		Entry("bad credentials", errors.New("Your user name and password are not defined"), false),
		Entry("syntax", errors.New("Dynamic SQL Error\nSQL error code = -104"), false),
		Entry("deadline", context.DeadlineExceeded, false),
		Entry("cancelled", fmt.Errorf("query: %w", context.Canceled), false),
	)

	Describe("policies", func() {
		It("defines bounded connection and upload retries", func() {
			Expect(ConnectionRetryConfig().MaxRetries).To(Equal(3))
			Expect(UploadRetryConfig().MaxRetries).To(Equal(2))
			Expect(UploadRetryConfig().Multiplier).To(Equal(3.0))
		})
	})
})
