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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("TimeoutConfig", func() {
	It("applies a deadline for positive durations", func() {
		ctx, cancel := DefaultTimeoutConfig().WithQueryTimeout(context.Background())
		defer cancel()

		deadline, ok := ctx.Deadline()
		Expect(ok).To(BeTrue())
		Expect(time.Until(deadline)).To(BeNumerically("<=", 30*time.Second))
	})

	It("leaves the context alone when disabled", func() {
		parent := context.Background()
		ctx, cancel := NoTimeoutConfig().WithReflectTimeout(parent)
		defer cancel()

		_, ok := ctx.Deadline()
		Expect(ok).To(BeFalse())
		Expect(ctx).To(BeIdenticalTo(parent))
	})

	It("uses shorter values in the fast profile", func() {
		fast, def := FastTimeoutConfig(), DefaultTimeoutConfig()
		Expect(fast.ConnectTimeout).To(BeNumerically("<", def.ConnectTimeout))
		Expect(fast.ExecTimeout).To(BeNumerically("<", def.ExecTimeout))
		Expect(fast.ReflectTimeout).To(BeNumerically("<", def.ReflectTimeout))
	})

	It("classifies context errors", func() {
		Expect(IsContextError(context.DeadlineExceeded)).To(BeTrue())
		Expect(IsContextError(context.Canceled)).To(BeTrue())
		Expect(IsContextError(nil)).To(BeFalse())
	})
})
