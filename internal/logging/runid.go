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
	"crypto/rand"
	"encoding/hex"

	"github.com/go-logr/logr"
)

// runIDKey is the unexported context key for storing the run ID.
type runIDKey struct{}

// GenerateID returns a random 8-character lowercase hex string suitable
// for log correlation. Uses crypto/rand for uniqueness.
func GenerateID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// WithRunID tags log with a fresh runID and stores both in ctx, so every
// line logged during one command can be filtered together.
func WithRunID(ctx context.Context, log logr.Logger) context.Context {
	id := GenerateID()
	ctx = logr.NewContext(ctx, log.WithValues("runID", id))
	return context.WithValue(ctx, runIDKey{}, id)
}

// IDFromContext retrieves the runID from context.
// Returns an empty string if no runID is present.
func IDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey{}).(string); ok {
		return id
	}
	return ""
}

// FromContext returns the logger stored in ctx, or a discarding one.
func FromContext(ctx context.Context) logr.Logger {
	return logr.FromContextOrDiscard(ctx)
}
