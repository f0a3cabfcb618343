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

	"ariga.io/atlas/sql/schema"

	"github.com/fbdialect/internal/adapter/sqlbuilder"
	"github.com/fbdialect/internal/adapter/types"
)

// Render fills in the statements of every correctable step of res.
// declared supplies the column and index definitions the atlas changes
// only reference by name.
func Render(d *sqlbuilder.Firebird, declared *types.TableInfo, res *Result) error {
	for i := range res.Steps {
		s := &res.Steps[i]
		if s.Change == nil || len(s.Statements) > 0 {
			continue
		}
		stmts, err := renderChange(d, declared, s.Change)
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", s.Diff.Field, err)
		}
		s.Statements = stmts
	}
	return nil
}

func renderChange(d *sqlbuilder.Firebird, declared *types.TableInfo, change schema.Change) ([]string, error) {
	table := declared.Name
	alter := d.AlterTable(table)

	switch c := change.(type) {
	case *schema.DropForeignKey:
		alter.DropConstraint(c.F.Symbol)
	case *schema.DropCheck:
		if c.C.Name == "" {
			return nil, fmt.Errorf("cannot drop an unnamed check constraint")
		}
		alter.DropConstraint(c.C.Name)
	case *schema.DropIndex:
		if isConstraint(c.I) {
			alter.DropConstraint(c.I.Name)
			break
		}
		return single(d.DropIndex(c.I.Name))
	case *schema.DropColumn:
		alter.DropColumn(c.C.Name)
	case *schema.AddColumn:
		col, ok := declared.Column(c.C.Name)
		if !ok {
			return nil, fmt.Errorf("column %s is not declared", c.C.Name)
		}
		alter.AddColumn(columnDef(col))
	case *schema.ModifyColumn:
		col, ok := declared.Column(c.To.Name)
		if !ok {
			return nil, fmt.Errorf("column %s is not declared", c.To.Name)
		}
		switch {
		case c.Change.Is(schema.ChangeType):
			alter.AlterColumnType(col.Name, col.Type)
		case c.Change.Is(schema.ChangeNull):
			alter.SetNullable(col.Name, col.Nullable)
		case c.Change.Is(schema.ChangeDefault):
			if col.Default != nil {
				alter.SetDefault(col.Name, *col.Default)
			} else {
				alter.DropDefault(col.Name)
			}
		default:
			return nil, fmt.Errorf("unsupported column change on %s", col.Name)
		}
	case *schema.AddIndex:
		if isConstraint(c.I) {
			alter.AddUnique(c.I.Name, partColumns(c.I)...)
			break
		}
		return single(indexStatement(d, declared, c.I))
	case *schema.AddCheck:
		alter.AddCheck(c.C.Name, c.C.Expr)
	case *schema.AddForeignKey:
		alter.AddForeignKey(foreignKeyDef(c.F))
	case *schema.AddAttr:
		return commentStatement(d, table, c.A)
	case *schema.ModifyAttr:
		return commentStatement(d, table, c.To)
	default:
		return nil, fmt.Errorf("unsupported change %T", change)
	}
	return single(alter.Build())
}

func single(stmt string, err error) ([]string, error) {
	if err != nil {
		return nil, err
	}
	return []string{stmt}, nil
}

func commentStatement(d *sqlbuilder.Firebird, table string, attr schema.Attr) ([]string, error) {
	cm, ok := attr.(*schema.Comment)
	if !ok {
		return nil, fmt.Errorf("unsupported table attribute %T", attr)
	}
	return single(d.CommentOn(sqlbuilder.CommentTable, table, cm.Text))
}

func columnDef(c *types.ColumnInfo) sqlbuilder.ColumnDef {
	nullable := c.Nullable
	def := sqlbuilder.ColumnDef{
		Name:     c.Name,
		Type:     c.Type,
		Nullable: &nullable,
		Quote:    c.Quote,
	}
	if c.Default != nil {
		def.Default = *c.Default
	}
	if c.Computed != nil {
		def.Computed = &sqlbuilder.ComputedOptions{SQLText: c.Computed.SQLText}
	}
	if c.Identity != nil {
		start, incr := c.Identity.Start, c.Identity.Increment
		def.Identity = &sqlbuilder.IdentityOptions{Always: c.Identity.Always}
		if start != 0 {
			def.Identity.Start = &start
		}
		if incr != 1 {
			def.Identity.Increment = &incr
		}
		def.Nullable = nil
	}
	return def
}

func indexStatement(d *sqlbuilder.Firebird, declared *types.TableInfo, idx *schema.Index) (string, error) {
	for _, ix := range declared.Indexes {
		if ix.Name != idx.Name {
			continue
		}
		b := d.CreateIndex(ix.Name, declared.Name)
		if ix.Unique {
			b.Unique()
		}
		if ix.Descending {
			b.Descending()
		}
		if len(ix.Expressions) > 0 {
			b.Expressions(ix.Expressions...)
		} else {
			b.Columns(ix.ColumnNames...)
		}
		if ix.Where != "" {
			b.Where(ix.Where)
		}
		return b.Build()
	}
	return "", fmt.Errorf("index %s is not declared", idx.Name)
}

func partColumns(idx *schema.Index) []string {
	cols := make([]string, 0, len(idx.Parts))
	for _, p := range idx.Parts {
		if p.C != nil {
			cols = append(cols, p.C.Name)
		}
	}
	return cols
}

func foreignKeyDef(fk *schema.ForeignKey) sqlbuilder.ForeignKeyDef {
	def := sqlbuilder.ForeignKeyDef{
		Name:     fk.Symbol,
		RefTable: fk.RefTable.Name,
		OnDelete: referentialAction(fk.OnDelete),
		OnUpdate: referentialAction(fk.OnUpdate),
	}
	for _, c := range fk.Columns {
		def.Columns = append(def.Columns, c.Name)
	}
	for _, c := range fk.RefColumns {
		def.RefColumns = append(def.RefColumns, c.Name)
	}
	return def
}
