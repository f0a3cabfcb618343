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

package testutil

import (
	"database/sql"
	"database/sql/driver"

	"github.com/DATA-DOG/go-sqlmock"
)

// Result columns of the catalog queries, in scan order.
var (
	ColumnsColumns = []string{"fname", "null_flag", "ftype", "stype", "flen", "fprec", "fscale",
		"fdefault", "computed_source", "identity_type", "identity_start", "identity_increment"}
	ForeignKeyColumns = []string{"cname", "fname", "targetrname", "targetfname", "update_rule", "delete_rule"}
	IndexColumns      = []string{"index_name", "unique_flag", "index_type", "field_name", "expression_source", "condition_source"}
	DomainColumns     = []string{"fname", "null_flag", "default_source", "validation_source", "description"}
)

// NewMockDB creates a new sqlmock database for testing Firebird adapter code.
// The returned mock is configured with QueryMatcherRegexp to allow flexible query matching.
func NewMockDB() (*sql.DB, sqlmock.Sqlmock, error) {
	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
		sqlmock.MonitorPingsOption(true),
	)
	if err != nil {
		return nil, nil, err
	}
	return db, mock, nil
}

// ExpectPing sets up an expectation for a Ping operation on the mock database.
func ExpectPing(mock sqlmock.Sqlmock) {
	mock.ExpectPing()
}

// ExpectEngineVersion sets up an expectation for reading ENGINE_VERSION.
func ExpectEngineVersion(mock sqlmock.Sqlmock, version string) {
	rows := sqlmock.NewRows([]string{"rdb$get_context"}).AddRow(version)
	mock.ExpectQuery(`rdb\$get_context\('SYSTEM', 'ENGINE_VERSION'\)`).WillReturnRows(rows)
}

// ExpectHasTable sets up an expectation for a relation existence check.
func ExpectHasTable(mock sqlmock.Sqlmock, storedName string, relType int, exists bool) {
	rows := sqlmock.NewRows([]string{"has_table"})
	if exists {
		rows.AddRow(1)
	}
	mock.ExpectQuery(`SELECT 1 AS has_table\s+FROM rdb\$relations`).
		WithArgs(storedName, relType).
		WillReturnRows(rows)
}

// ExpectHasSequence sets up an expectation for a generator existence check.
func ExpectHasSequence(mock sqlmock.Sqlmock, storedName string, exists bool) {
	rows := sqlmock.NewRows([]string{"has_sequence"})
	if exists {
		rows.AddRow(1)
	}
	mock.ExpectQuery(`SELECT 1 AS has_sequence\s+FROM rdb\$generators`).
		WithArgs(storedName).
		WillReturnRows(rows)
}

// ExpectNames sets up an expectation for a single-column name listing.
func ExpectNames(mock sqlmock.Sqlmock, pattern string, names ...string) {
	rows := sqlmock.NewRows([]string{"name"})
	for _, n := range names {
		rows.AddRow(n)
	}
	mock.ExpectQuery(pattern).WillReturnRows(rows)
}

// ExpectKeyColumns sets up an expectation for the constraint column query.
func ExpectKeyColumns(mock sqlmock.Sqlmock, constraintType, storedTable string, fields ...string) {
	rows := sqlmock.NewRows([]string{"fname"})
	for _, f := range fields {
		rows.AddRow(f)
	}
	mock.ExpectQuery(`FROM rdb\$relation_constraints rc\s+JOIN rdb\$index_segments se`).
		WithArgs(constraintType, storedTable).
		WillReturnRows(rows)
}

// ExpectColumns sets up an expectation for the column query. Each row
// follows ColumnsColumns.
func ExpectColumns(mock sqlmock.Sqlmock, storedTable string, rows ...[]interface{}) {
	mock.ExpectQuery(`FROM rdb\$relation_fields r`).
		WithArgs(storedTable).
		WillReturnRows(newRows(ColumnsColumns, rows))
}

// ExpectForeignKeys sets up an expectation for the foreign key query.
func ExpectForeignKeys(mock sqlmock.Sqlmock, storedTable string, rows ...[]interface{}) {
	mock.ExpectQuery(`JOIN rdb\$ref_constraints rfc`).
		WithArgs("FOREIGN KEY", storedTable).
		WillReturnRows(newRows(ForeignKeyColumns, rows))
}

// ExpectIndexes sets up an expectation for the index query.
func ExpectIndexes(mock sqlmock.Sqlmock, storedTable string, rows ...[]interface{}) {
	mock.ExpectQuery(`FROM rdb\$indices ix`).
		WithArgs(storedTable).
		WillReturnRows(newRows(IndexColumns, rows))
}

// ExpectTableComment sets up an expectation for the description query.
// A nil comment returns a NULL description.
func ExpectTableComment(mock sqlmock.Sqlmock, storedTable string, comment *string) {
	rows := sqlmock.NewRows([]string{"comment"})
	if comment != nil {
		rows.AddRow(*comment)
	} else {
		rows.AddRow(nil)
	}
	mock.ExpectQuery(`SELECT rdb\$description AS comment`).
		WithArgs(storedTable).
		WillReturnRows(rows)
}

// ExpectCheckConstraints sets up an expectation for the check constraint
// query. Each row is {name, sqltext}.
func ExpectCheckConstraints(mock sqlmock.Sqlmock, storedTable string, rows ...[]interface{}) {
	mock.ExpectQuery(`JOIN rdb\$check_constraints ck`).
		WithArgs("CHECK", storedTable).
		WillReturnRows(newRows([]string{"cname", "sqltext"}, rows))
}

// ExpectUniqueConstraints sets up an expectation for the unique constraint
// query. Each row is {name, column}.
func ExpectUniqueConstraints(mock sqlmock.Sqlmock, storedTable string, rows ...[]interface{}) {
	mock.ExpectQuery(`FROM rdb\$index_segments s\s+JOIN rdb\$relation_constraints c`).
		WithArgs("UNIQUE", storedTable).
		WillReturnRows(newRows([]string{"cname", "column_name"}, rows))
}

// ExpectDomains sets up an expectation for the domain query.
func ExpectDomains(mock sqlmock.Sqlmock, rows ...[]interface{}) {
	mock.ExpectQuery(`FROM rdb\$fields f`).
		WillReturnRows(newRows(DomainColumns, rows))
}

// ExpectEmptyTable sets up expectations for reflecting a table that has
// the given columns and nothing else.
func ExpectEmptyTable(mock sqlmock.Sqlmock, storedTable string, columns ...[]interface{}) {
	ExpectColumns(mock, storedTable, columns...)
	ExpectKeyColumns(mock, "PRIMARY KEY", storedTable)
	ExpectForeignKeys(mock, storedTable)
	ExpectIndexes(mock, storedTable)
	ExpectTableComment(mock, storedTable, nil)
	ExpectCheckConstraints(mock, storedTable)
	ExpectUniqueConstraints(mock, storedTable)
}

// ExpectExecSuccess sets up a generic expectation for an exec command that succeeds.
func ExpectExecSuccess(mock sqlmock.Sqlmock) {
	mock.ExpectExec(`.*`).WillReturnResult(sqlmock.NewResult(0, 1))
}

// ExpectExecPattern sets up an expectation for a specific statement.
func ExpectExecPattern(mock sqlmock.Sqlmock, pattern string) {
	mock.ExpectExec(pattern).WillReturnResult(sqlmock.NewResult(0, 0))
}

// ExpectQueryRows sets up a generic query expectation that returns the provided rows.
// columns specifies the column names, and rows contains the data as a slice of slices.
func ExpectQueryRows(mock sqlmock.Sqlmock, columns []string, rows ...[]interface{}) {
	mock.ExpectQuery(`.*`).WillReturnRows(newRows(columns, rows))
}

// ExpectQueryError sets up an expectation for a query that returns an error.
func ExpectQueryError(mock sqlmock.Sqlmock, queryPattern string, err error) {
	mock.ExpectQuery(queryPattern).WillReturnError(err)
}

// ExpectExecError sets up an expectation for an exec command that returns an error.
func ExpectExecError(mock sqlmock.Sqlmock, queryPattern string, err error) {
	mock.ExpectExec(queryPattern).WillReturnError(err)
}

// ExpectBegin sets up an expectation for beginning a transaction.
func ExpectBegin(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
}

// ExpectCommit sets up an expectation for committing a transaction.
func ExpectCommit(mock sqlmock.Sqlmock) {
	mock.ExpectCommit()
}

// ExpectRollback sets up an expectation for rolling back a transaction.
func ExpectRollback(mock sqlmock.Sqlmock) {
	mock.ExpectRollback()
}

func newRows(columns []string, rows [][]interface{}) *sqlmock.Rows {
	mockRows := sqlmock.NewRows(columns)
	for _, row := range rows {
		// Convert []interface{} to []driver.Value for AddRow
		driverValues := make([]driver.Value, len(row))
		for i, v := range row {
			driverValues[i] = v
		}
		mockRows.AddRow(driverValues...)
	}
	return mockRows
}
