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
	"strings"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fbdialect/internal/adapter/firebird/testutil"
	"github.com/fbdialect/internal/adapter/types"
)

var _ = Describe("Catalog Reflection", func() {
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
		adapter = NewAdapter(testutil.DefaultConnectionConfig())
		adapter.db = db
	})

	AfterEach(func() {
		if db != nil {
			_ = db.Close()
		}
	})

	Describe("HasTable", func() {
		It("should find an existing table by its stored name", func() {
			testutil.ExpectHasTable(mock, "USERS", 0, true)

			ok, err := adapter.HasTable(ctx, "users", types.RelationTable)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
		})

		It("should pass the relation type", func() {
			testutil.ExpectHasTable(mock, "ACTIVE_USERS", 1, false)

			ok, err := adapter.HasTable(ctx, "active_users", types.RelationView)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
			Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
		})

		It("should not query for names over the identifier limit", func() {
			ok, err := adapter.HasTable(ctx, strings.Repeat("t", 64), types.RelationTable)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
			Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
		})

		It("should count characters rather than bytes against the limit", func() {
			name := strings.Repeat("д", 40)
			testutil.ExpectHasTable(mock, name, 0, true)

			ok, err := adapter.HasTable(ctx, name, types.RelationTable)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
		})

		It("should look up a quoted lower case name exactly", func() {
			testutil.ExpectHasTable(mock, "lowtab", 0, true)

			ok, err := adapter.HasTable(ctx, `"lowtab"`, types.RelationTable)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
		})

		It("should use the 31 character limit on older servers", func() {
			adapter.SetServerVersion(types.ServerVersion{Major: 3, Minor: 0, Vendor: types.VendorFirebird})
			ok, err := adapter.HasTable(ctx, strings.Repeat("t", 32), types.RelationTable)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
			Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
		})

		It("should fail when not connected", func() {
			adapter.db = nil
			_, err := adapter.HasTable(ctx, "users", types.RelationTable)
			Expect(err).To(MatchError(ContainSubstring("not connected")))
		})
	})

	Describe("HasSequence", func() {
		It("should query rdb$generators", func() {
			testutil.ExpectHasSequence(mock, "GEN_ORDERS", true)

			ok, err := adapter.HasSequence(ctx, "gen_orders")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
		})
	})

	Describe("name listings", func() {
		It("should normalize table names", func() {
			testutil.ExpectNames(mock, `rdb\$relation_type = 0`, "USERS", "ORDERS", "MixedCase")

			names, err := adapter.TableNames(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(Equal([]string{"users", "orders", "MixedCase"}))
		})

		It("should list global temporary tables", func() {
			testutil.ExpectNames(mock, `rdb\$relation_type IN \(4, 5\)`, "SESSION_DATA")

			names, err := adapter.TemporaryTableNames(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(Equal([]string{"session_data"}))
		})

		It("should list views", func() {
			testutil.ExpectNames(mock, `rdb\$view_blr IS NOT NULL`, "ACTIVE_USERS")

			names, err := adapter.ViewNames(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(Equal([]string{"active_users"}))
		})

		It("should list sequences", func() {
			testutil.ExpectNames(mock, `FROM rdb\$generators`, "GEN_ORDERS")

			names, err := adapter.SequenceNames(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(Equal([]string{"gen_orders"}))
		})
	})

	Describe("ViewDefinition", func() {
		It("should return the stored source", func() {
			mock.ExpectQuery(`SELECT rdb\$view_source`).
				WithArgs("ACTIVE_USERS", 1).
				WillReturnRows(sqlmock.NewRows([]string{"view_source"}).AddRow("SELECT id FROM users"))

			def, err := adapter.ViewDefinition(ctx, "active_users")
			Expect(err).NotTo(HaveOccurred())
			Expect(def).To(Equal("SELECT id FROM users"))
		})

		It("should report a missing view", func() {
			mock.ExpectQuery(`SELECT rdb\$view_source`).
				WithArgs("GHOST", 1).
				WillReturnRows(sqlmock.NewRows([]string{"view_source"}))
			testutil.ExpectHasTable(mock, "GHOST", 1, false)

			_, err := adapter.ViewDefinition(ctx, "ghost")
			Expect(types.IsNoSuchTable(err)).To(BeTrue())
			Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
		})
	})

	Describe("PrimaryKey", func() {
		It("should return constrained columns without a name", func() {
			testutil.ExpectKeyColumns(mock, "PRIMARY KEY", "ORDERS", "ID", "LINE")

			pk, err := adapter.PrimaryKey(ctx, "orders")
			Expect(err).NotTo(HaveOccurred())
			Expect(pk.ConstrainedColumns).To(Equal([]string{"id", "line"}))
			Expect(pk.Name).To(BeEmpty())
		})

		It("should return nil for a table without primary key", func() {
			testutil.ExpectKeyColumns(mock, "PRIMARY KEY", "NOTES")

			pk, err := adapter.PrimaryKey(ctx, "notes")
			Expect(err).NotTo(HaveOccurred())
			Expect(pk).To(BeNil())
		})
	})

	Describe("Columns", func() {
		It("should map catalog types", func() {
			testutil.ExpectColumns(mock, "ORDERS",
				testutil.IntegerColumn("ID", true),
				testutil.VarcharColumn("EMAIL", 120, false),
				[]interface{}{"AMOUNT", nil, "LONG", 0, 4, 9, -2, nil, nil, nil, nil, nil},
				[]interface{}{"NOTES", nil, "BLOB", 1, 8, nil, 0, nil, nil, nil, nil, nil},
				[]interface{}{"DATA", nil, "BLOB", 0, 8, nil, 0, nil, nil, nil, nil, nil},
				[]interface{}{"CODE", nil, "TEXT", 0, 3, nil, 0, nil, nil, nil, nil, nil},
				[]interface{}{"CREATED", nil, "TIMESTAMP WITH TIME ZONE", 0, 12, nil, 0, nil, nil, nil, nil, nil},
			)

			cols, err := adapter.Columns(ctx, "orders")
			Expect(err).NotTo(HaveOccurred())
			Expect(cols).To(HaveLen(7))

			Expect(cols[0].Name).To(Equal("id"))
			Expect(cols[0].Type.Kind).To(Equal(types.KindInteger))
			Expect(cols[0].Nullable).To(BeFalse())

			Expect(cols[1].Type.Kind).To(Equal(types.KindVarchar))
			Expect(*cols[1].Type.Length).To(Equal(120))
			Expect(cols[1].Nullable).To(BeTrue())

			Expect(cols[2].Type.Kind).To(Equal(types.KindNumeric))
			Expect(*cols[2].Type.Precision).To(Equal(9))
			Expect(*cols[2].Type.Scale).To(Equal(2))

			Expect(cols[3].Type.Kind).To(Equal(types.KindText))
			Expect(cols[4].Type.Kind).To(Equal(types.KindBlob))

			Expect(cols[5].Type.Kind).To(Equal(types.KindChar))
			Expect(*cols[5].Type.Length).To(Equal(3))

			Expect(cols[6].Type.Kind).To(Equal(types.KindTimestamp))
			Expect(cols[6].Type.Timezone).To(BeTrue())
			Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
		})

		It("should report defaults, computed and identity columns", func() {
			testutil.ExpectColumns(mock, "ORDERS",
				testutil.IdentityColumn("ID", 0, 1, 1),
				testutil.IdentityColumn("SEQ", 1, 100, 10),
				[]interface{}{"STATUS", nil, "VARYING", 0, 10, nil, 0, "DEFAULT 'new'", nil, nil, nil, nil},
				[]interface{}{"LABEL", nil, "VARYING", 0, 10, nil, 0, "  default   NULL", nil, nil, nil, nil},
				[]interface{}{"TOTAL", nil, "LONG", 0, 4, 0, 0, nil, "(price * 2)", nil, nil, nil},
			)

			cols, err := adapter.Columns(ctx, "orders")
			Expect(err).NotTo(HaveOccurred())

			Expect(cols[0].Identity).To(Equal(&types.IdentityInfo{Always: true, Start: 1, Increment: 1}))
			Expect(cols[1].Identity).To(Equal(&types.IdentityInfo{Always: false, Start: 100, Increment: 10}))
			Expect(*cols[2].Default).To(Equal("'new'"))
			Expect(cols[3].Default).To(BeNil())
			Expect(cols[4].Computed).To(Equal(&types.ComputedInfo{SQLText: "(price * 2)"}))
			Expect(cols[4].Identity).To(BeNil())
		})

		It("should flag lower case stored names for quoting", func() {
			testutil.ExpectColumns(mock, "ORDERS", testutil.IntegerColumn("mixed", false))

			cols, err := adapter.Columns(ctx, "orders")
			Expect(err).NotTo(HaveOccurred())
			Expect(cols[0].Name).To(Equal(`"mixed"`))
			Expect(cols[0].Quote).To(BeTrue())
		})

		It("should map unknown types to NULL", func() {
			testutil.ExpectColumns(mock, "ORDERS",
				[]interface{}{"ODD", nil, "BLOB_ID", 0, 8, nil, 0, nil, nil, nil, nil, nil})

			cols, err := adapter.Columns(ctx, "orders")
			Expect(err).NotTo(HaveOccurred())
			Expect(cols[0].Type.Kind).To(Equal(types.KindNull))
		})

		It("should reject an unrecognized default", func() {
			testutil.ExpectColumns(mock, "ORDERS",
				[]interface{}{"ODD", nil, "LONG", 0, 4, 0, 0, "= 5", nil, nil, nil, nil})

			_, err := adapter.Columns(ctx, "orders")
			Expect(err).To(MatchError(ContainSubstring("unrecognized default value")))
		})

		It("should raise NoSuchTableError for a missing table", func() {
			testutil.ExpectColumns(mock, "GHOST")
			testutil.ExpectHasTable(mock, "GHOST", 0, false)

			_, err := adapter.Columns(ctx, "ghost")
			Expect(err).To(HaveOccurred())
			Expect(types.IsNoSuchTable(err)).To(BeTrue())
			Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
		})

		It("should return no columns for an existing empty table", func() {
			testutil.ExpectColumns(mock, "EMPTY_T")
			testutil.ExpectHasTable(mock, "EMPTY_T", 0, true)

			cols, err := adapter.Columns(ctx, "empty_t")
			Expect(err).NotTo(HaveOccurred())
			Expect(cols).To(BeEmpty())
		})

		It("should not select identity columns before Firebird 3.0", func() {
			adapter.SetServerVersion(types.ServerVersion{Major: 2, Minor: 5, Vendor: types.VendorFirebird})
			mock.ExpectQuery(`NULL AS identity_type`).
				WithArgs("ORDERS").
				WillReturnRows(sqlmock.NewRows(testutil.ColumnsColumns).
					AddRow("ID", 1, "LONG", 0, 4, 0, 0, nil, nil, nil, nil, nil))

			cols, err := adapter.Columns(ctx, "orders")
			Expect(err).NotTo(HaveOccurred())
			Expect(cols[0].Identity).To(BeNil())
			Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
		})
	})

	Describe("ForeignKeys", func() {
		It("should group columns by constraint and report non-default rules", func() {
			testutil.ExpectForeignKeys(mock, "ORDERS",
				[]interface{}{"FK_ORDERS_USERS", "USER_ID", "USERS", "ID", "NO ACTION", "CASCADE"},
				[]interface{}{"FK_ORDERS_USERS", "USER_REGION", "USERS", "REGION", "NO ACTION", "CASCADE"},
				[]interface{}{"FK_ORDERS_STATUS", "STATUS", "STATUSES", "CODE", "SET NULL", "RESTRICT"},
			)

			fks, err := adapter.ForeignKeys(ctx, "orders")
			Expect(err).NotTo(HaveOccurred())
			Expect(fks).To(HaveLen(2))

			Expect(fks[0].Name).To(Equal("fk_orders_users"))
			Expect(fks[0].ConstrainedColumns).To(Equal([]string{"user_id", "user_region"}))
			Expect(fks[0].ReferredTable).To(Equal("users"))
			Expect(fks[0].ReferredColumns).To(Equal([]string{"id", "region"}))
			Expect(fks[0].Options).To(Equal(map[string]string{types.FKOptionOnDelete: "CASCADE"}))

			Expect(fks[1].Options).To(Equal(map[string]string{types.FKOptionOnUpdate: "SET NULL"}))
		})

		It("should return nothing for a table without foreign keys", func() {
			testutil.ExpectForeignKeys(mock, "USERS")

			fks, err := adapter.ForeignKeys(ctx, "users")
			Expect(err).NotTo(HaveOccurred())
			Expect(fks).To(BeEmpty())
		})
	})

	Describe("Indexes", func() {
		It("should reflect column and expression indexes", func() {
			testutil.ExpectIndexes(mock, "USERS",
				[]interface{}{"IX_NAME", 1, 0, "LAST_NAME", nil, nil},
				[]interface{}{"IX_NAME", 1, 0, "FIRST_NAME", nil, nil},
				[]interface{}{"IX_EXPR", 0, 1, nil, "(UPPER(email) || lower(code))", nil},
			)

			indexes, err := adapter.Indexes(ctx, "users")
			Expect(err).NotTo(HaveOccurred())
			Expect(indexes).To(HaveLen(2))

			Expect(indexes[0].Name).To(Equal("ix_name"))
			Expect(indexes[0].Unique).To(BeTrue())
			Expect(indexes[0].ColumnNames).To(Equal([]string{"last_name", "first_name"}))

			Expect(indexes[1].Name).To(Equal("ix_expr"))
			Expect(indexes[1].Descending).To(BeTrue())
			Expect(indexes[1].ColumnNames).To(BeEmpty())
			Expect(indexes[1].Expressions).To(Equal([]string{"UPPER(email)", "lower(code)"}))
		})

		It("should read partial index conditions on Firebird 5.0", func() {
			adapter.SetServerVersion(types.ServerVersion{Major: 5, Minor: 0, Vendor: types.VendorFirebird})
			mock.ExpectQuery(`TRIM\(ix\.rdb\$condition_source\)`).
				WithArgs("USERS").
				WillReturnRows(sqlmock.NewRows(testutil.IndexColumns).
					AddRow("IX_ACTIVE", 0, 0, "EMAIL", nil, "WHERE status = 1"))

			indexes, err := adapter.Indexes(ctx, "users")
			Expect(err).NotTo(HaveOccurred())
			Expect(indexes[0].Where).To(Equal("status = 1"))
			Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
		})
	})

	Describe("TableComment", func() {
		It("should return the description", func() {
			comment := "customer accounts"
			testutil.ExpectTableComment(mock, "USERS", &comment)

			got, err := adapter.TableComment(ctx, "users")
			Expect(err).NotTo(HaveOccurred())
			Expect(*got).To(Equal(comment))
		})

		It("should return nil without a description", func() {
			testutil.ExpectTableComment(mock, "USERS", nil)

			got, err := adapter.TableComment(ctx, "users")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNil())
		})
	})

	Describe("CheckConstraints", func() {
		It("should deduplicate and sort by name", func() {
			testutil.ExpectCheckConstraints(mock, "ORDERS",
				[]interface{}{"CK_TOTAL", "total >= 0"},
				[]interface{}{"CK_AMOUNT", "amount > 0"},
				[]interface{}{"CK_AMOUNT", "amount > 0"},
			)

			checks, err := adapter.CheckConstraints(ctx, "orders")
			Expect(err).NotTo(HaveOccurred())
			Expect(checks).To(Equal([]types.CheckConstraintInfo{
				{Name: "ck_amount", SQLText: "amount > 0"},
				{Name: "ck_total", SQLText: "total >= 0"},
			}))
		})
	})

	Describe("UniqueConstraints", func() {
		It("should group columns and sort by name", func() {
			testutil.ExpectUniqueConstraints(mock, "USERS",
				[]interface{}{"UQ_NAME", "FIRST_NAME"},
				[]interface{}{"UQ_NAME", "LAST_NAME"},
				[]interface{}{"UQ_EMAIL", "EMAIL"},
			)

			uniques, err := adapter.UniqueConstraints(ctx, "users")
			Expect(err).NotTo(HaveOccurred())
			Expect(uniques).To(Equal([]types.UniqueConstraintInfo{
				{Name: "uq_email", ColumnNames: []string{"email"}},
				{Name: "uq_name", ColumnNames: []string{"first_name", "last_name"}},
			}))
		})
	})

	Describe("Domains", func() {
		It("should strip DEFAULT and CHECK wrappers", func() {
			testutil.ExpectDomains(mock,
				[]interface{}{"D_POSITIVE", 1, "DEFAULT 0", "CHECK (VALUE > 0)", "positive integers"},
				[]interface{}{"D_CODE", nil, nil, nil, nil},
			)

			domains, err := adapter.Domains(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(domains).To(HaveLen(2))

			Expect(domains[0].Name).To(Equal("d_code"))
			Expect(domains[0].Nullable).To(BeTrue())
			Expect(domains[0].Default).To(BeNil())
			Expect(domains[0].Check).To(BeNil())

			Expect(domains[1].Name).To(Equal("d_positive"))
			Expect(domains[1].Nullable).To(BeFalse())
			Expect(*domains[1].Default).To(Equal("0"))
			Expect(*domains[1].Check).To(Equal("VALUE > 0"))
			Expect(*domains[1].Comment).To(Equal("positive integers"))
		})
	})

	Describe("ReflectTable", func() {
		It("should aggregate every catalog query", func() {
			testutil.ExpectColumns(mock, "USERS",
				testutil.IntegerColumn("ID", true),
				testutil.VarcharColumn("EMAIL", 120, true))
			testutil.ExpectKeyColumns(mock, "PRIMARY KEY", "USERS", "ID")
			testutil.ExpectForeignKeys(mock, "USERS")
			testutil.ExpectIndexes(mock, "USERS")
			testutil.ExpectTableComment(mock, "USERS", nil)
			testutil.ExpectCheckConstraints(mock, "USERS")
			testutil.ExpectUniqueConstraints(mock, "USERS", []interface{}{"UQ_EMAIL", "EMAIL"})

			info, err := adapter.ReflectTable(ctx, "users")
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Name).To(Equal("users"))
			Expect(info.Columns).To(HaveLen(2))
			Expect(info.PrimaryKey.ConstrainedColumns).To(Equal([]string{"id"}))
			Expect(info.UniqueConstraints).To(HaveLen(1))
			Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
		})

		It("should stop at a missing table", func() {
			testutil.ExpectColumns(mock, "GHOST")
			testutil.ExpectHasTable(mock, "GHOST", 0, false)

			_, err := adapter.ReflectTable(ctx, "ghost")
			Expect(types.IsNoSuchTable(err)).To(BeTrue())
		})
	})

	Describe("ReflectSchema", func() {
		It("should reflect tables, views, sequences and domains", func() {
			adapter.SetServerVersion(types.ServerVersion{Major: 4, Minor: 0, Build: 2, Vendor: types.VendorFirebird})
			mock.MatchExpectationsInOrder(false)

			testutil.ExpectNames(mock, `rdb\$relation_type = 0`, "USERS")
			testutil.ExpectNames(mock, `rdb\$relation_type IN \(4, 5\)`, "SCRATCH")
			testutil.ExpectNames(mock, `rdb\$view_blr IS NOT NULL`, "ACTIVE_USERS")
			testutil.ExpectNames(mock, `FROM rdb\$generators`, "GEN_USERS")
			testutil.ExpectDomains(mock)
			testutil.ExpectEmptyTable(mock, "USERS", testutil.IntegerColumn("ID", true))
			testutil.ExpectEmptyTable(mock, "SCRATCH", testutil.IntegerColumn("ID", false))
			mock.ExpectQuery(`SELECT rdb\$view_source`).
				WithArgs("ACTIVE_USERS", 1).
				WillReturnRows(sqlmock.NewRows([]string{"view_source"}).AddRow("SELECT id FROM users"))

			snap, err := adapter.WithReflectConcurrency(2).ReflectSchema(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(snap.ID).NotTo(BeEmpty())
			Expect(snap.Database).To(Equal(testutil.TestDatabase))
			Expect(snap.ServerVersion.Build).To(Equal(2))
			Expect(snap.Tables).To(HaveLen(2))
			Expect(snap.Tables[0].Name).To(Equal("users"))
			Expect(snap.Tables[0].Temporary).To(BeFalse())
			Expect(snap.Tables[1].Name).To(Equal("scratch"))
			Expect(snap.Tables[1].Temporary).To(BeTrue())
			Expect(snap.Views).To(Equal([]types.ViewInfo{{Name: "active_users", Definition: "SELECT id FROM users"}}))
			Expect(snap.Sequences).To(Equal([]types.SequenceInfo{{Name: "gen_users"}}))
			Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
		})
	})

	Describe("ReflectSchema with quoted names", func() {
		It("should reflect lower case tables created quoted", func() {
			adapter.SetServerVersion(types.ServerVersion{Major: 4, Minor: 0, Vendor: types.VendorFirebird})
			mock.MatchExpectationsInOrder(false)

			testutil.ExpectNames(mock, `rdb\$relation_type = 0`, "lowtab", "USERS")
			testutil.ExpectNames(mock, `rdb\$relation_type IN \(4, 5\)`)
			testutil.ExpectNames(mock, `rdb\$view_blr IS NOT NULL`)
			testutil.ExpectNames(mock, `FROM rdb\$generators`)
			testutil.ExpectDomains(mock)
			testutil.ExpectEmptyTable(mock, "lowtab",
				testutil.IntegerColumn("MixedCol", true),
				testutil.IntegerColumn("lowcol", false))
			testutil.ExpectEmptyTable(mock, "USERS", testutil.IntegerColumn("ID", true))

			snap, err := adapter.ReflectSchema(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(snap.Tables).To(HaveLen(2))
			Expect(snap.Tables[0].Name).To(Equal(`"lowtab"`))
			Expect(snap.Tables[0].Columns).To(HaveLen(2))
			Expect(snap.Tables[0].Columns[0].Name).To(Equal("MixedCol"))
			Expect(snap.Tables[0].Columns[1].Name).To(Equal(`"lowcol"`))
			Expect(snap.Tables[1].Name).To(Equal("users"))
			Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
		})

		It("should describe a quoted table by its delimited name", func() {
			testutil.ExpectEmptyTable(mock, "lowtab", testutil.IntegerColumn("ID", true))

			info, err := adapter.ReflectTable(ctx, `"lowtab"`)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Name).To(Equal(`"lowtab"`))
			Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
		})
	})

	Describe("QueryObserver", func() {
		It("should be told about every catalog query", func() {
			var operations []string
			adapter.WithQueryObserver(func(op string, _ time.Duration, _ error) {
				operations = append(operations, op)
			})
			testutil.ExpectHasSequence(mock, "GEN_ORDERS", false)

			_, err := adapter.HasSequence(ctx, "gen_orders")
			Expect(err).NotTo(HaveOccurred())
			Expect(operations).To(Equal([]string{"has_sequence"}))
		})
	})
})

var _ = DescribeTable("parseDefaultSource",
	func(src string, want *string, wantErr bool) {
		got, err := parseDefaultSource(src)
		if wantErr {
			Expect(err).To(HaveOccurred())
			return
		}
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(want))
	},
	Entry("string literal", "DEFAULT 'abc'", ptrTo("'abc'"), false),
	Entry("lower case keyword", "default 42", ptrTo("42"), false),
	Entry("leading blanks", "   DEFAULT   CURRENT_TIMESTAMP ", ptrTo("CURRENT_TIMESTAMP"), false),
	Entry("explicit NULL", "DEFAULT NULL", nil, false),
	Entry("not a default", "42", nil, true),
)

var _ = DescribeTable("trimOuterParens",
	func(in, want string) {
		Expect(trimOuterParens(in)).To(Equal(want))
	},
	Entry("wrapped", "(a > 0)", "a > 0"),
	Entry("nested", "((a))", "(a)"),
	Entry("two groups", "(a) || (b)", "(a) || (b)"),
	Entry("bare", "a", "a"),
)

func ptrTo(s string) *string { return &s }
