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

package eventbus

import (
	"time"

	"github.com/google/uuid"
)

// Event names.
const (
	EventTableReflected   = "TableReflected"
	EventSchemaReflected  = "SchemaReflected"
	EventDDLExecuted      = "DDLExecuted"
	EventDriftDetected    = "DriftDetected"
	EventSnapshotExported = "SnapshotExported"
)

// BaseEvent carries the fields every event shares. Embed it in concrete
// event types.
type BaseEvent struct {
	name      string
	id        string
	timestamp time.Time
	database  string
	subject   string
}

// NewBaseEvent stamps a new event with a random id and the current time.
func NewBaseEvent(name, database, subject string) BaseEvent {
	return BaseEvent{
		name:      name,
		id:        uuid.NewString(),
		timestamp: time.Now().UTC(),
		database:  database,
		subject:   subject,
	}
}

func (e BaseEvent) EventName() string    { return e.name }
func (e BaseEvent) EventID() string      { return e.id }
func (e BaseEvent) EventTime() time.Time { return e.timestamp }
func (e BaseEvent) Database() string     { return e.database }
func (e BaseEvent) Subject() string      { return e.subject }

// TableReflected is published after one table has been reflected.
type TableReflected struct {
	BaseEvent
	Table    string
	Columns  int
	Duration time.Duration
}

func NewTableReflected(database, table string, columns int, duration time.Duration) *TableReflected {
	return &TableReflected{
		BaseEvent: NewBaseEvent(EventTableReflected, database, table),
		Table:     table,
		Columns:   columns,
		Duration:  duration,
	}
}

// SchemaReflected is published after a whole database has been reflected.
type SchemaReflected struct {
	BaseEvent
	SnapshotID    string
	ServerVersion string
	Tables        int
	Views         int
	Sequences     int
	Domains       int
	Duration      time.Duration
}

func NewSchemaReflected(database, snapshotID, serverVersion string, tables, views, sequences, domains int, duration time.Duration) *SchemaReflected {
	return &SchemaReflected{
		BaseEvent:     NewBaseEvent(EventSchemaReflected, database, snapshotID),
		SnapshotID:    snapshotID,
		ServerVersion: serverVersion,
		Tables:        tables,
		Views:         views,
		Sequences:     sequences,
		Domains:       domains,
		Duration:      duration,
	}
}

// DDLExecuted is published after a batch of statements was applied, or
// rendered in dry-run mode.
type DDLExecuted struct {
	BaseEvent
	Statements []string
	DryRun     bool
}

func NewDDLExecuted(database, subject string, statements []string, dryRun bool) *DDLExecuted {
	return &DDLExecuted{
		BaseEvent:  NewBaseEvent(EventDDLExecuted, database, subject),
		Statements: statements,
		DryRun:     dryRun,
	}
}

// DriftDetected is published when a table differs from its declaration.
type DriftDetected struct {
	BaseEvent
	Table      string
	Changes    []string
	Statements []string
}

func NewDriftDetected(database, table string, changes, statements []string) *DriftDetected {
	return &DriftDetected{
		BaseEvent:  NewBaseEvent(EventDriftDetected, database, table),
		Table:      table,
		Changes:    changes,
		Statements: statements,
	}
}

// SnapshotExported is published after a snapshot has been written.
type SnapshotExported struct {
	BaseEvent
	SnapshotID  string
	Backend     string
	Location    string
	Format      string
	Compression string
	SizeBytes   int64
}

func NewSnapshotExported(database, snapshotID, backend, location, format, compression string, size int64) *SnapshotExported {
	return &SnapshotExported{
		BaseEvent:   NewBaseEvent(EventSnapshotExported, database, snapshotID),
		SnapshotID:  snapshotID,
		Backend:     backend,
		Location:    location,
		Format:      format,
		Compression: compression,
		SizeBytes:   size,
	}
}
