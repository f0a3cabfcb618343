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

package drift

import (
	"fmt"
	"time"

	"ariga.io/atlas/sql/schema"
)

// Result contains the result of a drift check of one declared object.
// It captures the differences between the declared and the reflected
// definition and the steps that reconcile them.
type Result struct {
	// Kind is the declared object kind (Table, Sequence, Domain)
	Kind string `json:"kind"`

	// Name is the declared object name
	Name string `json:"name"`

	// Missing is set when the object does not exist at all
	Missing bool `json:"missing,omitempty"`

	// CheckedAt is when the drift check was performed
	CheckedAt time.Time `json:"checkedAt"`

	// Diffs contains the specific differences found
	Diffs []Diff `json:"diffs,omitempty"`

	// Steps are the ordered reconciliation steps, one per diff
	Steps []Step `json:"-"`
}

// NewResult creates a new drift result for the given object.
func NewResult(kind, name string) *Result {
	return &Result{
		Kind:      kind,
		Name:      name,
		CheckedAt: time.Now(),
	}
}

// HasDrift returns true if any drift was detected.
func (r *Result) HasDrift() bool {
	return len(r.Diffs) > 0
}

// HasDestructiveDrift returns true if any destructive drift was detected.
// Destructive drift requires explicit opt-in to correct.
func (r *Result) HasDestructiveDrift() bool {
	for _, d := range r.Diffs {
		if d.Destructive {
			return true
		}
	}
	return false
}

// HasImmutableDrift returns true if any drift cannot be corrected in
// place and requires recreating the object.
func (r *Result) HasImmutableDrift() bool {
	for _, d := range r.Diffs {
		if d.Immutable {
			return true
		}
	}
	return false
}

// AddStep records a diff together with the change that corrects it.
// change is nil for diffs that cannot be corrected in place.
func (r *Result) AddStep(diff Diff, change schema.Change) {
	r.Diffs = append(r.Diffs, diff)
	r.Steps = append(r.Steps, Step{Diff: diff, Change: change})
}

// Changes returns the atlas changes of every correctable step, in order.
func (r *Result) Changes() []schema.Change {
	var changes []schema.Change
	for _, s := range r.Steps {
		if s.Change != nil {
			changes = append(changes, s.Change)
		}
	}
	return changes
}

// Statements returns the rendered statements of every step, in order.
func (r *Result) Statements() []string {
	var stmts []string
	for _, s := range r.Steps {
		stmts = append(stmts, s.Statements...)
	}
	return stmts
}

// Step pairs a diff with the change and statements that correct it.
type Step struct {
	Diff       Diff
	Change     schema.Change
	Statements []string
}

// Diff represents a single difference between declared and actual state.
type Diff struct {
	// Field names what differs, e.g. "column price type"
	Field string `json:"field"`

	// Expected is the declared value (as string for display)
	Expected string `json:"expected"`

	// Actual is the reflected value (as string for display)
	Actual string `json:"actual"`

	// Destructive indicates if correcting this drift would lose data,
	// e.g. dropping a column.
	Destructive bool `json:"destructive,omitempty"`

	// Immutable indicates the difference cannot be corrected with ALTER,
	// e.g. a primary key or a computed column expression.
	Immutable bool `json:"immutable,omitempty"`
}

// String renders the diff for logs and migration comments.
func (d Diff) String() string {
	return fmt.Sprintf("%s: expected %s, actual %s", d.Field, d.Expected, d.Actual)
}

// CorrectionResult contains the result of drift correction.
type CorrectionResult struct {
	// Name is the name of the object
	Name string

	// Corrected contains diffs that were successfully corrected
	Corrected []CorrectedDiff

	// Skipped contains diffs that were skipped (not corrected)
	Skipped []SkippedDiff

	// Failed contains diffs that failed to correct
	Failed []FailedDiff
}

// NewCorrectionResult creates a new correction result.
func NewCorrectionResult(name string) *CorrectionResult {
	return &CorrectionResult{
		Name: name,
	}
}

// HasCorrections returns true if any corrections were made.
func (r *CorrectionResult) HasCorrections() bool {
	return len(r.Corrected) > 0
}

// HasFailures returns true if any corrections failed.
func (r *CorrectionResult) HasFailures() bool {
	return len(r.Failed) > 0
}

// AddCorrected adds a successfully corrected diff.
func (r *CorrectionResult) AddCorrected(diff Diff) {
	r.Corrected = append(r.Corrected, CorrectedDiff{Diff: diff})
}

// AddSkipped adds a skipped diff with reason.
func (r *CorrectionResult) AddSkipped(diff Diff, reason string) {
	r.Skipped = append(r.Skipped, SkippedDiff{Diff: diff, Reason: reason})
}

// AddFailed adds a failed correction with error.
func (r *CorrectionResult) AddFailed(diff Diff, err error) {
	r.Failed = append(r.Failed, FailedDiff{Diff: diff, Error: err})
}

// CorrectedDiff represents a diff that was successfully corrected.
type CorrectedDiff struct {
	Diff Diff
}

// SkippedDiff represents a diff that was skipped (not corrected).
type SkippedDiff struct {
	Diff   Diff
	Reason string
}

// FailedDiff represents a diff that failed to correct.
type FailedDiff struct {
	Diff  Diff
	Error error
}
