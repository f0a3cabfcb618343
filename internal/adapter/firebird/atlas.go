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
	"strings"

	"ariga.io/atlas/sql/schema"

	"github.com/fbdialect/internal/adapter/sqlbuilder"
	"github.com/fbdialect/internal/adapter/types"
)

// Identity marks an identity column in an atlas schema.
type Identity struct {
	schema.Attr
	Always    bool
	Start     int64
	Increment int64
}

// IndexPredicate holds the WHERE condition of a partial index.
type IndexPredicate struct {
	schema.Attr
	P string
}

// Descending marks a DESCENDING index.
type Descending struct {
	schema.Attr
}

// UniqueConstraint marks an index that backs a UNIQUE constraint rather
// than a standalone CREATE UNIQUE INDEX.
type UniqueConstraint struct {
	schema.Attr
}

// ToAtlasSchema converts a snapshot into an atlas schema. Foreign keys are
// resolved against the converted tables where possible.
func ToAtlasSchema(d *sqlbuilder.Firebird, snap *types.SchemaSnapshot) *schema.Schema {
	s := &schema.Schema{Name: snap.Database}
	byName := make(map[string]*schema.Table, len(snap.Tables))
	for i := range snap.Tables {
		t := ToAtlasTable(d, &snap.Tables[i])
		t.Schema = s
		s.Tables = append(s.Tables, t)
		byName[t.Name] = t
	}
	for _, t := range s.Tables {
		for _, fk := range t.ForeignKeys {
			ref, ok := byName[fk.RefTable.Name]
			if !ok {
				continue
			}
			cols := make([]*schema.Column, len(fk.RefColumns))
			resolved := true
			for i, c := range fk.RefColumns {
				rc, ok := ref.Column(c.Name)
				if !ok {
					resolved = false
					break
				}
				cols[i] = rc
			}
			if resolved {
				fk.RefTable = ref
				fk.RefColumns = cols
			}
		}
	}
	return s
}

// ToAtlasTable converts reflected or declared table metadata into an
// atlas table.
func ToAtlasTable(d *sqlbuilder.Firebird, info *types.TableInfo) *schema.Table {
	t := &schema.Table{Name: info.Name}
	for i := range info.Columns {
		c := ToAtlasColumn(d, &info.Columns[i])
		t.Columns = append(t.Columns, c)
	}
	if info.Comment != nil {
		t.Attrs = append(t.Attrs, &schema.Comment{Text: *info.Comment})
	}
	for _, ck := range info.CheckConstraints {
		t.Attrs = append(t.Attrs, &schema.Check{Name: ck.Name, Expr: ck.SQLText})
	}

	if info.PrimaryKey != nil && len(info.PrimaryKey.ConstrainedColumns) > 0 {
		t.PrimaryKey = &schema.Index{
			Name:   info.PrimaryKey.Name,
			Unique: true,
			Table:  t,
			Parts:  columnParts(t, info.PrimaryKey.ConstrainedColumns, false),
		}
	}
	for _, uc := range info.UniqueConstraints {
		t.Indexes = append(t.Indexes, &schema.Index{
			Name:   uc.Name,
			Unique: true,
			Table:  t,
			Parts:  columnParts(t, uc.ColumnNames, false),
			Attrs:  []schema.Attr{&UniqueConstraint{}},
		})
	}
	for _, ix := range info.Indexes {
		idx := &schema.Index{Name: ix.Name, Unique: ix.Unique, Table: t}
		if len(ix.Expressions) > 0 {
			for i, x := range ix.Expressions {
				idx.Parts = append(idx.Parts, &schema.IndexPart{SeqNo: i + 1, X: &schema.RawExpr{X: x}, Desc: ix.Descending})
			}
		} else {
			idx.Parts = columnParts(t, ix.ColumnNames, ix.Descending)
		}
		if ix.Descending {
			idx.Attrs = append(idx.Attrs, &Descending{})
		}
		if ix.Where != "" {
			idx.Attrs = append(idx.Attrs, &IndexPredicate{P: ix.Where})
		}
		t.Indexes = append(t.Indexes, idx)
	}
	for _, fk := range info.ForeignKeys {
		ref := &schema.Table{Name: fk.ReferredTable}
		f := &schema.ForeignKey{
			Symbol:   fk.Name,
			Table:    t,
			RefTable: ref,
			OnUpdate: referenceOption(fk.Options[types.FKOptionOnUpdate]),
			OnDelete: referenceOption(fk.Options[types.FKOptionOnDelete]),
		}
		for _, name := range fk.ConstrainedColumns {
			if c, ok := t.Column(name); ok {
				f.Columns = append(f.Columns, c)
			} else {
				f.Columns = append(f.Columns, &schema.Column{Name: name})
			}
		}
		for _, name := range fk.ReferredColumns {
			rc := &schema.Column{Name: name}
			ref.Columns = append(ref.Columns, rc)
			f.RefColumns = append(f.RefColumns, rc)
		}
		t.ForeignKeys = append(t.ForeignKeys, f)
	}
	return t
}

// ToAtlasColumn converts one column.
func ToAtlasColumn(d *sqlbuilder.Firebird, col *types.ColumnInfo) *schema.Column {
	raw, err := d.RenderType(col.Type)
	if err != nil {
		raw = string(col.Type.Kind)
	}
	c := &schema.Column{
		Name: col.Name,
		Type: &schema.ColumnType{
			Type: AtlasType(col.Type),
			Raw:  raw,
			Null: col.Nullable,
		},
	}
	if col.Default != nil {
		c.Default = &schema.RawExpr{X: *col.Default}
	}
	if col.Computed != nil {
		c.Attrs = append(c.Attrs, &schema.GeneratedExpr{Expr: col.Computed.SQLText})
	}
	if col.Identity != nil {
		c.Attrs = append(c.Attrs, &Identity{
			Always:    col.Identity.Always,
			Start:     col.Identity.Start,
			Increment: col.Identity.Increment,
		})
	}
	return c
}

// AtlasType maps a portable column type onto the closest atlas type.
func AtlasType(ct types.ColumnType) schema.Type {
	name := strings.ToLower(string(ct.Kind))
	switch ct.Kind {
	case types.KindSmallInt, types.KindInteger, types.KindBigInt, types.KindInt128:
		return &schema.IntegerType{T: name}
	case types.KindReal, types.KindFloat, types.KindDouble, types.KindDoublePrecision, types.KindDecfloat:
		return &schema.FloatType{T: name}
	case types.KindNumeric, types.KindDecimal:
		dt := &schema.DecimalType{T: name}
		if ct.Precision != nil {
			dt.Precision = *ct.Precision
		}
		if ct.Scale != nil {
			dt.Scale = *ct.Scale
		}
		return dt
	case types.KindBoolean:
		return &schema.BoolType{T: name}
	case types.KindDate, types.KindTime, types.KindTimestamp, types.KindDateTime:
		if ct.Timezone {
			name += " with time zone"
		}
		return &schema.TimeType{T: name}
	case types.KindChar, types.KindVarchar, types.KindText:
		st := &schema.StringType{T: name}
		if ct.Length != nil {
			st.Size = *ct.Length
		}
		return st
	case types.KindBlob, types.KindBinary, types.KindVarbinary:
		return &schema.BinaryType{T: name, Size: ct.Length}
	default:
		return &schema.UnsupportedType{T: name}
	}
}

func columnParts(t *schema.Table, names []string, desc bool) []*schema.IndexPart {
	parts := make([]*schema.IndexPart, 0, len(names))
	for i, name := range names {
		c, ok := t.Column(name)
		if !ok {
			c = &schema.Column{Name: name}
		}
		parts = append(parts, &schema.IndexPart{SeqNo: i + 1, C: c, Desc: desc})
	}
	return parts
}

func referenceOption(rule string) schema.ReferenceOption {
	if rule == "" {
		return schema.NoAction
	}
	return schema.ReferenceOption(strings.ToUpper(rule))
}
