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


package sqlbuilder

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/fbdialect/internal/adapter/types"
)

const concurrencyLevel = 100

// --- Concurrency tests (designed for -race) ---------------------------------

// TestConcurrency_ParallelGrantBuilders verifies that independent GrantBuilder
// instances built concurrently from one dialect produce correct output.
func TestConcurrency_ParallelGrantBuilders(t *testing.T) {
	d := DefaultFirebird()
	var wg sync.WaitGroup
	results := make([]string, concurrencyLevel)
	errs := make([]error, concurrencyLevel)

	// Barrier: all goroutines start simultaneously
	var start sync.WaitGroup
	start.Add(1)

	for i := 0; i < concurrencyLevel; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			start.Wait()
			grantee := fmt.Sprintf("user_%d", idx)
			q, err := d.NewGrant().Grant("SELECT").OnTable("orders").To(grantee).Build()
			results[idx] = q
			errs[idx] = err
		}(i)
	}

	start.Done() // release barrier
	wg.Wait()

	for i := 0; i < concurrencyLevel; i++ {
		if errs[i] != nil {
			t.Fatalf("goroutine %d: unexpected error: %v", i, errs[i])
		}
		expected := fmt.Sprintf("GRANT SELECT ON TABLE orders TO user_%d", i)
		if results[i] != expected {
			t.Errorf("goroutine %d: got %q, want %q", i, results[i], expected)
		}
	}
}

// TestConcurrency_ParallelTableBuilders verifies independent TableBuilders.
func TestConcurrency_ParallelTableBuilders(t *testing.T) {
	d := DefaultFirebird()
	var wg sync.WaitGroup
	results := make([]string, concurrencyLevel)
	errs := make([]error, concurrencyLevel)

	var start sync.WaitGroup
	start.Add(1)

	for i := 0; i < concurrencyLevel; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			start.Wait()
			results[idx], errs[idx] = d.CreateTable(fmt.Sprintf("t_%d", idx)).
				Column(ColumnDef{Name: "id", Type: types.ColumnType{Kind: types.KindInteger}, PrimaryKey: true}).
				Build()
		}(i)
	}

	start.Done()
	wg.Wait()

	for i := 0; i < concurrencyLevel; i++ {
		if errs[i] != nil {
			t.Fatalf("goroutine %d: unexpected error: %v", i, errs[i])
		}
		expected := fmt.Sprintf("CREATE TABLE t_%d (id INTEGER NOT NULL, PRIMARY KEY (id))", i)
		if results[i] != expected {
			t.Errorf("goroutine %d: got %q, want %q", i, results[i], expected)
		}
	}
}

// TestConcurrency_ParallelValidatePrivileges verifies concurrent reads
// of the global privilege map are safe.
func TestConcurrency_ParallelValidatePrivileges(t *testing.T) {
	d := DefaultFirebird()
	var wg sync.WaitGroup
	var start sync.WaitGroup
	start.Add(1)

	errs := make([]error, concurrencyLevel)
	for i := 0; i < concurrencyLevel; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			start.Wait()
			errs[idx] = ValidatePrivileges([]string{"SELECT", "insert", "References"}, d.ValidPrivileges())
		}(i)
	}

	start.Done()
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("goroutine %d: unexpected error: %v", i, err)
		}
	}
}

// TestConcurrency_SharedDialect verifies that one dialect is safe for
// concurrent quoting and name conversion.
func TestConcurrency_SharedDialect(t *testing.T) {
	d := fbVersion(3, 0)
	var wg sync.WaitGroup
	var start sync.WaitGroup
	start.Add(1)

	for i := 0; i < concurrencyLevel; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			start.Wait()
			name := fmt.Sprintf("col_%d", idx)
			if got := d.QuoteIdentifier(name); got != name {
				t.Errorf("QuoteIdentifier(%q) = %q", name, got)
			}
			stored := d.DenormalizeName(name)
			if got := d.NormalizeName(stored); got != name {
				t.Errorf("NormalizeName(%q) = %q, want %q", stored, got, name)
			}
			if got := d.QuoteIdentifier("value"); got != `"value"` {
				t.Errorf("QuoteIdentifier(value) = %q", got)
			}
		}(i)
	}

	start.Done()
	wg.Wait()
}

// --- Determinism tests ------------------------------------------------------

// TestDeterminism_SelectBuilder verifies that the same builder chain
// produces identical output across 1000 invocations.
func TestDeterminism_SelectBuilder(t *testing.T) {
	d := DefaultFirebird()
	build := func() string {
		q, err := d.Select("a", "b").From("t").Where("a = ?").OrderBy("b").Limit(10).Offset(5).ForUpdate().Build()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return q
	}
	first := build()
	for i := 0; i < 1000; i++ {
		if got := build(); got != first {
			t.Fatalf("iteration %d: got %q, want %q", i, got, first)
		}
	}
}

// TestDeterminism_RoleBuilder verifies deterministic option ordering.
func TestDeterminism_RoleBuilder(t *testing.T) {
	d := DefaultFirebird()
	want := "CREATE USER alice PASSWORD 'pw' FIRSTNAME 'A' LASTNAME 'B' ACTIVE USING PLUGIN Srp GRANT ADMIN ROLE"
	for i := 0; i < 1000; i++ {
		got, err := d.NewCreateUser("alice").AdminRole(true).UsingPlugin("Srp").
			Active(true).LastName("B").FirstName("A").Password("pw").Build()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Fatalf("iteration %d: got %q, want %q", i, got, want)
		}
	}
}

// --- Edge case tests --------------------------------------------------------

// TestEdgeCase_UnicodeIdentifiers tests Unicode characters in identifier
// and literal positions.
func TestEdgeCase_UnicodeIdentifiers(t *testing.T) {
	d := DefaultFirebird()
	inputs := []string{"таблица", "表", "ümlaut", "emoji_🔥", "\u200bzero"}
	for _, in := range inputs {
		q := d.QuoteIdentifier(in)
		if q != d.EscapeIdentifier(in) {
			t.Errorf("QuoteIdentifier(%q) = %q, want it quoted", in, q)
		}
		if got := d.NormalizeName(in); got != in {
			t.Errorf("NormalizeName(%q) = %q, want unchanged", in, got)
		}
		lit := d.EscapeLiteral(in)
		if !strings.Contains(lit, in) {
			t.Errorf("EscapeLiteral(%q) = %q, lost content", in, lit)
		}
	}
}

// TestEdgeCase_VeryLongStrings tests that long literals are not truncated
// while long identifiers are rejected by DDL builders.
func TestEdgeCase_VeryLongStrings(t *testing.T) {
	d := DefaultFirebird()
	long := strings.Repeat("a", 10000)

	lit := d.EscapeLiteral(long)
	if len(lit) != len(long)+2 {
		t.Errorf("EscapeLiteral length = %d, want %d", len(lit), len(long)+2)
	}
	q, err := d.CommentOn(CommentTable, "t", long)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(q, long+"'") {
		t.Error("comment text was truncated")
	}
	if _, err := d.CreateTable(long).Column(ColumnDef{Name: "id", Type: types.ColumnType{Kind: types.KindInteger}}).Build(); err == nil {
		t.Error("expected error for over-long table name")
	}
}

// TestEdgeCase_NullBytes tests that null bytes don't cause panics or
// truncation.
func TestEdgeCase_NullBytes(t *testing.T) {
	d := DefaultFirebird()
	in := "a\x00b"
	if got, want := d.QuoteIdentifier(in), "\"a\x00b\""; got != want {
		t.Errorf("QuoteIdentifier(%q) = %q, want %q", in, got, want)
	}
	if got, want := d.EscapeLiteral(in), "'a\x00b'"; got != want {
		t.Errorf("EscapeLiteral(%q) = %q, want %q", in, got, want)
	}
}
