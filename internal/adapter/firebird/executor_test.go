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

package firebird

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/DATA-DOG/go-sqlmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fbdialect/internal/adapter/firebird/testutil"
)

var _ = DescribeTable("IsFlushableDDL",
	func(stmt string, want bool) {
		Expect(IsFlushableDDL(stmt)).To(Equal(want))
	},
	Entry("create table", "CREATE TABLE t (id INTEGER)", true),
	Entry("create gtt", "CREATE GLOBAL TEMPORARY TABLE t (id INTEGER) ON COMMIT PRESERVE ROWS", true),
	Entry("drop table", "drop table t", true),
	Entry("create index", "CREATE INDEX ix ON t (id)", true),
	Entry("create unique descending index", "CREATE UNIQUE DESCENDING INDEX ix ON t (id)", true),
	Entry("drop index", "  DROP INDEX ix", true),
	Entry("insert", "INSERT INTO t (id) VALUES (1)", false),
	Entry("create view", "CREATE VIEW v AS SELECT 1 FROM rdb$database", false),
	Entry("create sequence", "CREATE SEQUENCE s", false),
	Entry("table named like a keyword", "CREATE TABLESPACE x", false),
)

var _ = Describe("Statement Execution", func() {
	var (
		ctx     context.Context
		adapter *Adapter
		mock    sqlmock.Sqlmock
		db      *sql.DB
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		db, mock, err = testutil.NewMockDB()
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			_ = db.Close()
		}
	})

	Context("in a transaction", func() {
		BeforeEach(func() {
			adapter = NewAdapter(testutil.ConnectionConfigWithIsolation("REPEATABLE READ"))
			adapter.db = db
		})

		It("should commit pending DDL before the next DML statement", func() {
			testutil.ExpectBegin(mock)
			testutil.ExpectExecPattern(mock, `CREATE TABLE t`)
			testutil.ExpectExecPattern(mock, `CREATE INDEX ix`)
			testutil.ExpectCommit(mock)
			testutil.ExpectBegin(mock)
			testutil.ExpectExecPattern(mock, `INSERT INTO t`)
			testutil.ExpectCommit(mock)

			err := adapter.Exec(ctx,
				"CREATE TABLE t (id INTEGER)",
				"CREATE INDEX ix ON t (id)",
				"INSERT INTO t (id) VALUES (1)")
			Expect(err).NotTo(HaveOccurred())
			Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
		})

		It("should not flush when no DDL is pending", func() {
			testutil.ExpectBegin(mock)
			testutil.ExpectExecPattern(mock, `INSERT INTO t`)
			testutil.ExpectExecPattern(mock, `UPDATE t`)
			testutil.ExpectCommit(mock)

			err := adapter.Exec(ctx, "INSERT INTO t (id) VALUES (1)", "UPDATE t SET id = 2")
			Expect(err).NotTo(HaveOccurred())
			Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
		})

		It("should roll back on failure", func() {
			testutil.ExpectBegin(mock)
			testutil.ExpectExecError(mock, `INSERT INTO t`, fmt.Errorf("violation of PRIMARY or UNIQUE KEY"))
			testutil.ExpectRollback(mock)

			err := adapter.Exec(ctx, "INSERT INTO t (id) VALUES (1)")
			Expect(err).To(MatchError(ContainSubstring("statement 1")))
			Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
		})

		It("should track pending DDL on a session", func() {
			testutil.ExpectBegin(mock)
			testutil.ExpectExecPattern(mock, `DROP TABLE t`)
			testutil.ExpectRollback(mock)

			s, err := adapter.NewSession(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Active()).To(BeTrue())

			_, err = s.Exec(ctx, "DROP TABLE t")
			Expect(err).NotTo(HaveOccurred())
			Expect(s.DDLPending()).To(BeTrue())

			Expect(s.Close()).To(Succeed())
			Expect(s.Active()).To(BeFalse())
			Expect(s.DDLPending()).To(BeFalse())
			Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
		})
	})

	Context("in autocommit mode", func() {
		BeforeEach(func() {
			adapter = NewAdapter(testutil.ConnectionConfigWithIsolation("AUTOCOMMIT"))
			adapter.db = db
		})

		It("should run statements without a transaction", func() {
			testutil.ExpectExecPattern(mock, `CREATE TABLE t`)
			testutil.ExpectExecPattern(mock, `INSERT INTO t`)

			err := adapter.Exec(ctx, "CREATE TABLE t (id INTEGER)", "INSERT INTO t (id) VALUES (1)")
			Expect(err).NotTo(HaveOccurred())
			Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
		})

		It("should ignore commit and rollback without a transaction", func() {
			s, err := adapter.NewSession(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Active()).To(BeFalse())
			Expect(s.Commit()).To(Succeed())
			Expect(s.Rollback()).To(Succeed())
			Expect(s.Close()).To(Succeed())
		})
	})

	It("should reject an unknown isolation level", func() {
		adapter = NewAdapter(testutil.ConnectionConfigWithIsolation("DIRTY READ"))
		adapter.db = db

		err := adapter.Exec(ctx, "INSERT INTO t (id) VALUES (1)")
		Expect(err).To(MatchError(ContainSubstring("invalid isolation level")))
	})

	It("should fail when not connected", func() {
		adapter = NewAdapter(testutil.DefaultConnectionConfig())
		err := adapter.Exec(ctx, "INSERT INTO t (id) VALUES (1)")
		Expect(err).To(MatchError(ContainSubstring("not connected")))
	})

	It("should do nothing without statements", func() {
		adapter = NewAdapter(testutil.DefaultConnectionConfig())
		Expect(adapter.Exec(ctx)).To(Succeed())
	})
})
