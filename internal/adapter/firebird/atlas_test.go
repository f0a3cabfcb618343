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
	"ariga.io/atlas/sql/schema"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fbdialect/internal/adapter/sqlbuilder"
	"github.com/fbdialect/internal/adapter/types"
)

func sampleSnapshot() *types.SchemaSnapshot {
	comment := "customer accounts"
	def := "'new'"
	return &types.SchemaSnapshot{
		Database: "test.fdb",
		Tables: []types.TableInfo{
			{
				Name:    "users",
				Comment: &comment,
				Columns: []types.ColumnInfo{
					{Name: "id", Type: types.ColumnType{Kind: types.KindInteger}, Identity: &types.IdentityInfo{Always: true, Start: 1, Increment: 1}},
					{Name: "email", Type: types.ColumnType{Kind: types.KindVarchar, Length: types.IntPtr(120)}, Nullable: true},
				},
				PrimaryKey:        &types.PrimaryKeyInfo{ConstrainedColumns: []string{"id"}},
				UniqueConstraints: []types.UniqueConstraintInfo{{Name: "uq_email", ColumnNames: []string{"email"}}},
			},
			{
				Name: "orders",
				Columns: []types.ColumnInfo{
					{Name: "id", Type: types.ColumnType{Kind: types.KindBigInt}},
					{Name: "user_id", Type: types.ColumnType{Kind: types.KindInteger}},
					{Name: "amount", Type: types.ColumnType{Kind: types.KindNumeric, Precision: types.IntPtr(9), Scale: types.IntPtr(2)}},
					{Name: "status", Type: types.ColumnType{Kind: types.KindVarchar, Length: types.IntPtr(10)}, Default: &def},
					{Name: "total", Type: types.ColumnType{Kind: types.KindInteger}, Computed: &types.ComputedInfo{SQLText: "(amount * 2)"}},
				},
				ForeignKeys: []types.ForeignKeyInfo{{
					Name:               "fk_orders_users",
					ConstrainedColumns: []string{"user_id"},
					ReferredTable:      "users",
					ReferredColumns:    []string{"id"},
					Options:            map[string]string{types.FKOptionOnDelete: "CASCADE"},
				}},
				Indexes: []types.IndexInfo{
					{Name: "ix_status", ColumnNames: []string{"status"}, Descending: true},
					{Name: "ix_expr", Expressions: []string{"UPPER(status)"}, Where: "amount > 0"},
				},
				CheckConstraints: []types.CheckConstraintInfo{{Name: "ck_amount", SQLText: "amount > 0"}},
			},
		},
	}
}

var _ = Describe("Atlas conversion", func() {
	var d *sqlbuilder.Firebird

	BeforeEach(func() {
		d = sqlbuilder.DefaultFirebird()
	})

	It("should convert columns with rendered types", func() {
		snap := sampleSnapshot()
		t := ToAtlasTable(d, &snap.Tables[1])

		amount, ok := t.Column("amount")
		Expect(ok).To(BeTrue())
		Expect(amount.Type.Raw).To(Equal("NUMERIC(9, 2)"))
		Expect(amount.Type.Type).To(Equal(&schema.DecimalType{T: "numeric", Precision: 9, Scale: 2}))

		status, _ := t.Column("status")
		Expect(status.Default).To(Equal(&schema.RawExpr{X: "'new'"}))
		Expect(status.Type.Type).To(Equal(&schema.StringType{T: "varchar", Size: 10}))

		total, _ := t.Column("total")
		Expect(total.Attrs).To(ContainElement(&schema.GeneratedExpr{Expr: "(amount * 2)"}))
	})

	It("should carry identity, primary key and comment", func() {
		snap := sampleSnapshot()
		t := ToAtlasTable(d, &snap.Tables[0])

		id, _ := t.Column("id")
		Expect(id.Attrs).To(ContainElement(&Identity{Always: true, Start: 1, Increment: 1}))
		Expect(t.PrimaryKey).NotTo(BeNil())
		Expect(t.PrimaryKey.Parts[0].C).To(BeIdenticalTo(id))
		Expect(t.Attrs).To(ContainElement(&schema.Comment{Text: "customer accounts"}))
		Expect(t.Indexes).To(HaveLen(1))
		Expect(t.Indexes[0].Unique).To(BeTrue())
		Expect(t.Indexes[0].Attrs).To(ContainElement(&UniqueConstraint{}))
	})

	It("should convert indexes and checks", func() {
		snap := sampleSnapshot()
		t := ToAtlasTable(d, &snap.Tables[1])

		Expect(t.Indexes).To(HaveLen(2))
		Expect(t.Indexes[0].Parts[0].Desc).To(BeTrue())
		Expect(t.Indexes[0].Attrs).To(ContainElement(&Descending{}))
		Expect(t.Indexes[1].Parts[0].X).To(Equal(&schema.RawExpr{X: "UPPER(status)"}))
		Expect(t.Indexes[1].Attrs).To(ContainElement(&IndexPredicate{P: "amount > 0"}))
		Expect(t.Attrs).To(ContainElement(&schema.Check{Name: "ck_amount", Expr: "amount > 0"}))
	})

	It("should resolve foreign keys across the schema", func() {
		s := ToAtlasSchema(d, sampleSnapshot())
		Expect(s.Name).To(Equal("test.fdb"))
		Expect(s.Tables).To(HaveLen(2))

		users, orders := s.Tables[0], s.Tables[1]
		Expect(orders.Schema).To(BeIdenticalTo(s))
		Expect(orders.ForeignKeys).To(HaveLen(1))
		fk := orders.ForeignKeys[0]
		Expect(fk.Symbol).To(Equal("fk_orders_users"))
		Expect(fk.RefTable).To(BeIdenticalTo(users))
		usersID, _ := users.Column("id")
		Expect(fk.RefColumns[0]).To(BeIdenticalTo(usersID))
		Expect(fk.OnDelete).To(Equal(schema.Cascade))
		Expect(fk.OnUpdate).To(Equal(schema.NoAction))
	})

	DescribeTable("AtlasType",
		func(ct types.ColumnType, want schema.Type) {
			Expect(AtlasType(ct)).To(Equal(want))
		},
		Entry("smallint", types.ColumnType{Kind: types.KindSmallInt}, &schema.IntegerType{T: "smallint"}),
		Entry("double", types.ColumnType{Kind: types.KindDoublePrecision}, &schema.FloatType{T: "double precision"}),
		Entry("boolean", types.ColumnType{Kind: types.KindBoolean}, &schema.BoolType{T: "boolean"}),
		Entry("timestamp tz", types.ColumnType{Kind: types.KindTimestamp, Timezone: true}, &schema.TimeType{T: "timestamp with time zone"}),
		Entry("blob", types.ColumnType{Kind: types.KindBlob}, &schema.BinaryType{T: "blob"}),
		Entry("null", types.ColumnType{Kind: types.KindNull}, &schema.UnsupportedType{T: "null"}),
	)
})
