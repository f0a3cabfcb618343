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
)

// SequenceBuilder builds CREATE SEQUENCE (or CREATE GENERATOR).
type SequenceBuilder struct {
	dialect   *Firebird
	name      string
	start     *int64
	increment *int64
}

// CreateSequence starts a CREATE SEQUENCE statement.
func (d *Firebird) CreateSequence(name string) *SequenceBuilder {
	return &SequenceBuilder{dialect: d, name: name}
}

// StartWith sets START WITH (Firebird 3.0+).
func (b *SequenceBuilder) StartWith(n int64) *SequenceBuilder {
	b.start = &n
	return b
}

// IncrementBy sets INCREMENT BY (Firebird 3.0+).
func (b *SequenceBuilder) IncrementBy(n int64) *SequenceBuilder {
	b.increment = &n
	return b
}

// Build assembles the statement. Releases before 2.0 only know
// generators; options are rejected before 3.0.
func (b *SequenceBuilder) Build() (string, error) {
	d := b.dialect
	if b.name == "" {
		return "", fmt.Errorf("sqlbuilder: CREATE SEQUENCE requires a name")
	}
	if err := d.CheckIdentifierLength(b.name); err != nil {
		return "", err
	}
	opts := d.version.SupportsSequenceOptions()
	if b.start != nil && !opts {
		return "", fmt.Errorf("Firebird SEQUENCE doesn't support START WITH")
	}
	if b.increment != nil && !opts {
		return "", fmt.Errorf("Firebird SEQUENCE doesn't support INCREMENT BY")
	}

	stmt := "CREATE " + sequenceKeyword(d) + " " + d.QuoteIdentifier(b.name)
	if b.start != nil {
		stmt += fmt.Sprintf(" START WITH %d", *b.start)
	}
	if b.increment != nil {
		stmt += fmt.Sprintf(" INCREMENT BY %d", *b.increment)
	}
	return stmt, nil
}

// DropSequence renders DROP SEQUENCE (or DROP GENERATOR).
func (d *Firebird) DropSequence(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("sqlbuilder: DROP SEQUENCE requires a name")
	}
	return "DROP " + sequenceKeyword(d) + " " + d.QuoteIdentifier(name), nil
}

// RestartSequence renders ALTER SEQUENCE ... RESTART WITH n, or
// SET GENERATOR ... TO n on old releases.
func (d *Firebird) RestartSequence(name string, value int64) (string, error) {
	if name == "" {
		return "", fmt.Errorf("sqlbuilder: ALTER SEQUENCE requires a name")
	}
	if !d.version.VersionTwo() {
		return fmt.Sprintf("SET GENERATOR %s TO %d", d.QuoteIdentifier(name), value), nil
	}
	return fmt.Sprintf("ALTER SEQUENCE %s RESTART WITH %d", d.QuoteIdentifier(name), value), nil
}

func sequenceKeyword(d *Firebird) string {
	if d.version.VersionTwo() {
		return "SEQUENCE"
	}
	return "GENERATOR"
}
