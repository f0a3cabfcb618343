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

package logging

import (
	"context"
	"regexp"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("GenerateID", func() {
	It("should return an 8-character hex string", func() {
		id := GenerateID()
		Expect(id).To(HaveLen(8))
		Expect(id).To(MatchRegexp("^[0-9a-f]{8}$"))
	})

	It("should produce unique values on successive calls", func() {
		ids := make(map[string]struct{}, 100)
		for i := 0; i < 100; i++ {
			ids[GenerateID()] = struct{}{}
		}
		Expect(ids).To(HaveLen(100))
	})

	It("should only contain lowercase hex characters", func() {
		for i := 0; i < 50; i++ {
			Expect(regexp.MustCompile(`^[0-9a-f]+$`).MatchString(GenerateID())).To(BeTrue())
		}
	})
})

var _ = Describe("IDFromContext", func() {
	It("should return empty string from empty context", func() {
		Expect(IDFromContext(context.Background())).To(BeEmpty())
	})

	It("should round-trip a runID through context", func() {
		ctx := context.WithValue(context.Background(), runIDKey{}, "abc12345")
		Expect(IDFromContext(ctx)).To(Equal("abc12345"))
	})
})

var _ = Describe("WithRunID", func() {
	var lines []string

	BeforeEach(func() {
		lines = nil
	})

	newLogger := func() logr.Logger {
		return funcr.New(func(prefix, args string) {
			lines = append(lines, args)
		}, funcr.Options{})
	}

	It("should store the ID and a tagged logger in the context", func() {
		ctx := WithRunID(context.Background(), newLogger())

		id := IDFromContext(ctx)
		Expect(id).To(MatchRegexp("^[0-9a-f]{8}$"))

		FromContext(ctx).Info("reflecting schema")
		Expect(lines).To(HaveLen(1))
		Expect(lines[0]).To(ContainSubstring(`"runID"="` + id + `"`))
		Expect(lines[0]).To(ContainSubstring(`"msg"="reflecting schema"`))
	})

	It("should generate a different ID for each run", func() {
		ids := make(map[string]struct{})
		for i := 0; i < 10; i++ {
			ids[IDFromContext(WithRunID(context.Background(), newLogger()))] = struct{}{}
		}
		Expect(ids).To(HaveLen(10))
	})

	It("should fall back to a discarding logger", func() {
		Expect(FromContext(context.Background()).GetSink()).To(BeNil())
	})
})
