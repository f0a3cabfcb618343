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
	"strings"

	"ariga.io/atlas/sql/schema"

	"github.com/fbdialect/internal/adapter/firebird"
	"github.com/fbdialect/internal/adapter/sqlbuilder"
	"github.com/fbdialect/internal/adapter/types"
)

const missing = "<none>"

// Compare diffs a declared table against the reflected one. Both sides are
// converted to atlas tables; the steps are ordered so that every drop
// precedes the additions that may depend on it.
func Compare(d *sqlbuilder.Firebird, declared, actual *types.TableInfo) *Result {
	want := firebird.ToAtlasTable(d, declared)
	have := firebird.ToAtlasTable(d, actual)

	c := &comparison{declared: declared, actual: actual, want: want, have: have}
	c.foreignKeys()
	c.checks()
	c.indexes()
	c.columns()
	c.comment()
	c.immutable()

	res := NewResult("Table", declared.Name)
	for _, group := range [][]step{
		c.dropFKs, c.dropChecks, c.dropIndexes, c.dropColumns,
		c.addColumns, c.modifyColumns,
		c.addIndexes, c.addChecks, c.addFKs,
		c.comments, c.fixed,
	} {
		for _, s := range group {
			res.AddStep(s.diff, s.change)
		}
	}
	return res
}

type step struct {
	diff   Diff
	change schema.Change
}

type comparison struct {
	declared, actual *types.TableInfo
	want, have       *schema.Table

	dropFKs, dropChecks, dropIndexes, dropColumns []step
	addColumns, modifyColumns                     []step
	addIndexes, addChecks, addFKs                 []step
	comments, fixed                               []step
}

func (c *comparison) columns() {
	for _, wc := range c.want.Columns {
		decl, _ := c.declared.Column(wc.Name)
		hc, ok := c.have.Column(wc.Name)
		if !ok {
			c.addColumns = append(c.addColumns, step{
				diff:   Diff{Field: "column " + wc.Name, Expected: columnSummary(decl), Actual: missing},
				change: &schema.AddColumn{C: wc},
			})
			continue
		}
		act, _ := c.actual.Column(wc.Name)
		c.modifyColumn(decl, act, wc, hc)
	}
	for _, hc := range c.have.Columns {
		if _, ok := c.want.Column(hc.Name); ok {
			continue
		}
		act, _ := c.actual.Column(hc.Name)
		c.dropColumns = append(c.dropColumns, step{
			diff:   Diff{Field: "column " + hc.Name, Expected: missing, Actual: columnSummary(act), Destructive: true},
			change: &schema.DropColumn{C: hc},
		})
	}
}

func (c *comparison) modifyColumn(decl, act *types.ColumnInfo, wc, hc *schema.Column) {
	field := "column " + decl.Name

	if decl.Computed != nil || act.Computed != nil {
		w, h := computedText(decl), computedText(act)
		if normalizeCheck(w) != normalizeCheck(h) {
			c.fixed = append(c.fixed, step{diff: Diff{Field: field + " computed", Expected: w, Actual: h, Immutable: true}})
		}
		return
	}

	if w, h := identityText(decl), identityText(act); w != h {
		c.fixed = append(c.fixed, step{diff: Diff{Field: field + " identity", Expected: w, Actual: h, Immutable: true}})
	}

	if w, h := canonicalType(decl.Type), canonicalType(act.Type); w != h {
		c.modifyColumns = append(c.modifyColumns, step{
			diff:   Diff{Field: field + " type", Expected: w, Actual: h},
			change: &schema.ModifyColumn{From: hc, To: wc, Change: schema.ChangeType},
		})
	}
	if decl.Identity == nil && act.Identity == nil && decl.Nullable != act.Nullable {
		c.modifyColumns = append(c.modifyColumns, step{
			diff:   Diff{Field: field + " nullable", Expected: fmt.Sprint(decl.Nullable), Actual: fmt.Sprint(act.Nullable)},
			change: &schema.ModifyColumn{From: hc, To: wc, Change: schema.ChangeNull},
		})
	}
	if w, h := strPtr(decl.Default), strPtr(act.Default); normalizeExpr(w) != normalizeExpr(h) {
		c.modifyColumns = append(c.modifyColumns, step{
			diff:   Diff{Field: field + " default", Expected: orMissing(w), Actual: orMissing(h)},
			change: &schema.ModifyColumn{From: hc, To: wc, Change: schema.ChangeDefault},
		})
	}
}

// indexes covers standalone indexes and UNIQUE constraints. Declared
// entries are matched by name first and by definition when unnamed,
// since the server names unnamed constraints itself.
func (c *comparison) indexes() {
	matched := make(map[*schema.Index]bool)
	for _, wi := range c.want.Indexes {
		hi := findIndex(c.have.Indexes, wi, matched)
		if hi != nil {
			matched[hi] = true
			if indexSignature(wi) == indexSignature(hi) {
				continue
			}
			c.dropIndexes = append(c.dropIndexes, step{
				diff:   Diff{Field: indexField(hi) + " (replaced)", Expected: indexSignature(wi), Actual: indexSignature(hi)},
				change: &schema.DropIndex{I: hi},
			})
			c.addIndexes = append(c.addIndexes, step{
				diff:   Diff{Field: indexField(wi), Expected: indexSignature(wi), Actual: indexSignature(hi)},
				change: &schema.AddIndex{I: wi},
			})
			continue
		}
		c.addIndexes = append(c.addIndexes, step{
			diff:   Diff{Field: indexField(wi), Expected: indexSignature(wi), Actual: missing},
			change: &schema.AddIndex{I: wi},
		})
	}
	for _, hi := range c.have.Indexes {
		if matched[hi] {
			continue
		}
		c.dropIndexes = append(c.dropIndexes, step{
			diff:   Diff{Field: indexField(hi), Expected: missing, Actual: indexSignature(hi)},
			change: &schema.DropIndex{I: hi},
		})
	}
}

func findIndex(have []*schema.Index, wi *schema.Index, matched map[*schema.Index]bool) *schema.Index {
	if wi.Name != "" {
		for _, hi := range have {
			if !matched[hi] && hi.Name == wi.Name {
				return hi
			}
		}
		if !isConstraint(wi) {
			return nil
		}
	}
	sig := indexSignature(wi)
	for _, hi := range have {
		if !matched[hi] && indexSignature(hi) == sig {
			return hi
		}
	}
	return nil
}

func (c *comparison) checks() {
	wantChecks, haveChecks := tableChecks(c.want), tableChecks(c.have)
	matched := make(map[*schema.Check]bool)
	for _, wc := range wantChecks {
		var hc *schema.Check
		for _, h := range haveChecks {
			if !matched[h] && wc.Name != "" && h.Name == wc.Name {
				hc = h
				break
			}
		}
		if hc == nil {
			for _, h := range haveChecks {
				if !matched[h] && normalizeCheck(h.Expr) == normalizeCheck(wc.Expr) {
					hc = h
					break
				}
			}
		}
		field := "check " + orUnnamed(wc.Name)
		if hc == nil {
			c.addChecks = append(c.addChecks, step{
				diff:   Diff{Field: field, Expected: wc.Expr, Actual: missing},
				change: &schema.AddCheck{C: wc},
			})
			continue
		}
		matched[hc] = true
		if normalizeCheck(hc.Expr) != normalizeCheck(wc.Expr) {
			c.dropChecks = append(c.dropChecks, step{
				diff:   Diff{Field: "check " + hc.Name + " (replaced)", Expected: wc.Expr, Actual: hc.Expr},
				change: &schema.DropCheck{C: hc},
			})
			c.addChecks = append(c.addChecks, step{
				diff:   Diff{Field: field, Expected: wc.Expr, Actual: hc.Expr},
				change: &schema.AddCheck{C: wc},
			})
		}
	}
	for _, h := range haveChecks {
		if matched[h] {
			continue
		}
		c.dropChecks = append(c.dropChecks, step{
			diff:   Diff{Field: "check " + h.Name, Expected: missing, Actual: h.Expr},
			change: &schema.DropCheck{C: h},
		})
	}
}

func (c *comparison) foreignKeys() {
	matched := make(map[*schema.ForeignKey]bool)
	for _, wf := range c.want.ForeignKeys {
		var hf *schema.ForeignKey
		for _, h := range c.have.ForeignKeys {
			if !matched[h] && wf.Symbol != "" && h.Symbol == wf.Symbol {
				hf = h
				break
			}
		}
		if hf == nil {
			for _, h := range c.have.ForeignKeys {
				if !matched[h] && fkSignature(h) == fkSignature(wf) {
					hf = h
					break
				}
			}
		}
		field := "foreign key " + orUnnamed(wf.Symbol)
		if hf == nil {
			c.addFKs = append(c.addFKs, step{
				diff:   Diff{Field: field, Expected: fkSignature(wf), Actual: missing},
				change: &schema.AddForeignKey{F: wf},
			})
			continue
		}
		matched[hf] = true
		if fkSignature(hf) != fkSignature(wf) {
			c.dropFKs = append(c.dropFKs, step{
				diff:   Diff{Field: "foreign key " + hf.Symbol + " (replaced)", Expected: fkSignature(wf), Actual: fkSignature(hf)},
				change: &schema.DropForeignKey{F: hf},
			})
			c.addFKs = append(c.addFKs, step{
				diff:   Diff{Field: field, Expected: fkSignature(wf), Actual: fkSignature(hf)},
				change: &schema.AddForeignKey{F: wf},
			})
		}
	}
	for _, h := range c.have.ForeignKeys {
		if matched[h] {
			continue
		}
		c.dropFKs = append(c.dropFKs, step{
			diff:   Diff{Field: "foreign key " + h.Symbol, Expected: missing, Actual: fkSignature(h)},
			change: &schema.DropForeignKey{F: h},
		})
	}
}

// comment only reconciles declared comments; an undeclared comment is
// left alone.
func (c *comparison) comment() {
	if c.declared.Comment == nil {
		return
	}
	want := &schema.Comment{Text: *c.declared.Comment}
	if c.actual.Comment == nil {
		c.comments = append(c.comments, step{
			diff:   Diff{Field: "comment", Expected: want.Text, Actual: missing},
			change: &schema.AddAttr{A: want},
		})
		return
	}
	if *c.actual.Comment != want.Text {
		c.comments = append(c.comments, step{
			diff:   Diff{Field: "comment", Expected: want.Text, Actual: *c.actual.Comment},
			change: &schema.ModifyAttr{From: &schema.Comment{Text: *c.actual.Comment}, To: want},
		})
	}
}

func (c *comparison) immutable() {
	if w, h := pkText(c.declared), pkText(c.actual); w != h {
		c.fixed = append(c.fixed, step{diff: Diff{Field: "primary key", Expected: w, Actual: h, Immutable: true}})
	}
	if c.declared.Temporary != c.actual.Temporary {
		c.fixed = append(c.fixed, step{diff: Diff{
			Field:     "temporary",
			Expected:  fmt.Sprint(c.declared.Temporary),
			Actual:    fmt.Sprint(c.actual.Temporary),
			Immutable: true,
		}})
	}
}

func tableChecks(t *schema.Table) []*schema.Check {
	var checks []*schema.Check
	for _, a := range t.Attrs {
		if ck, ok := a.(*schema.Check); ok {
			checks = append(checks, ck)
		}
	}
	return checks
}

func isConstraint(idx *schema.Index) bool {
	for _, a := range idx.Attrs {
		if _, ok := a.(*firebird.UniqueConstraint); ok {
			return true
		}
	}
	return false
}

func indexPredicate(idx *schema.Index) string {
	for _, a := range idx.Attrs {
		if p, ok := a.(*firebird.IndexPredicate); ok {
			return p.P
		}
	}
	return ""
}

func indexField(idx *schema.Index) string {
	if isConstraint(idx) {
		return "unique " + orUnnamed(idx.Name)
	}
	return "index " + idx.Name
}

// indexSignature describes an index by everything but its name.
func indexSignature(idx *schema.Index) string {
	var sb strings.Builder
	switch {
	case isConstraint(idx):
		sb.WriteString("UNIQUE CONSTRAINT")
	case idx.Unique:
		sb.WriteString("UNIQUE INDEX")
	default:
		sb.WriteString("INDEX")
	}
	sb.WriteString(" (")
	for i, p := range idx.Parts {
		if i > 0 {
			sb.WriteString(", ")
		}
		switch {
		case p.C != nil:
			sb.WriteString(p.C.Name)
		case p.X != nil:
			if x, ok := p.X.(*schema.RawExpr); ok {
				sb.WriteString(normalizeExpr(x.X))
			}
		}
		if p.Desc {
			sb.WriteString(" DESC")
		}
	}
	sb.WriteByte(')')
	if where := indexPredicate(idx); where != "" {
		sb.WriteString(" WHERE " + normalizeExpr(where))
	}
	return sb.String()
}

// fkSignature describes a foreign key by everything but its name.
// NO ACTION and RESTRICT behave the same on Firebird.
func fkSignature(fk *schema.ForeignKey) string {
	cols := make([]string, len(fk.Columns))
	for i, c := range fk.Columns {
		cols[i] = c.Name
	}
	refs := make([]string, len(fk.RefColumns))
	for i, c := range fk.RefColumns {
		refs[i] = c.Name
	}
	sig := fmt.Sprintf("(%s) REFERENCES %s (%s)", strings.Join(cols, ", "), fk.RefTable.Name, strings.Join(refs, ", "))
	if a := referentialAction(fk.OnDelete); a != "" {
		sig += " ON DELETE " + a
	}
	if a := referentialAction(fk.OnUpdate); a != "" {
		sig += " ON UPDATE " + a
	}
	return sig
}

func referentialAction(o schema.ReferenceOption) string {
	switch o {
	case "", schema.NoAction, schema.Restrict:
		return ""
	}
	return strings.ToUpper(string(o))
}

// canonicalType reduces a column type to what the catalog can tell apart:
// aliases collapse onto one family and character sets are ignored.
func canonicalType(t types.ColumnType) string {
	length := func(name string) string {
		if t.Length != nil {
			return fmt.Sprintf("%s(%d)", name, *t.Length)
		}
		return name
	}
	withTZ := func(name string) string {
		if t.Timezone {
			return name + " WITH TIME ZONE"
		}
		return name
	}
	switch t.Kind {
	case types.KindSmallInt, types.KindBoolean:
		return "SMALLINT"
	case types.KindBigInt, types.KindInt128:
		return "BIGINT"
	case types.KindReal, types.KindFloat, types.KindDouble, types.KindDoublePrecision, types.KindDecfloat:
		return "FLOAT"
	case types.KindNumeric, types.KindDecimal:
		p, s := 18, 0
		if t.Precision != nil {
			p = *t.Precision
		}
		if t.Scale != nil {
			s = *t.Scale
		}
		return fmt.Sprintf("NUMERIC(%d,%d)", p, s)
	case types.KindTimestamp, types.KindDateTime:
		return withTZ("TIMESTAMP")
	case types.KindTime:
		return withTZ("TIME")
	case types.KindChar, types.KindBinary:
		return length("CHAR")
	case types.KindVarchar, types.KindVarbinary:
		return length("VARCHAR")
	case types.KindText:
		return "TEXT"
	case types.KindBlob:
		return "BLOB"
	default:
		return string(t.Kind)
	}
}

// normalizeExpr collapses whitespace and case so stored and declared
// source text compare equal.
func normalizeExpr(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// normalizeCheck strips the CHECK keyword and enclosing parentheses,
// which the catalog keeps in the stored source.
func normalizeCheck(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 5 && strings.EqualFold(s[:5], "CHECK") {
		s = strings.TrimSpace(s[5:])
	}
	for strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && balanced(s[1:len(s)-1]) {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return normalizeExpr(s)
}

func balanced(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

func columnSummary(c *types.ColumnInfo) string {
	if c == nil {
		return missing
	}
	s := canonicalType(c.Type)
	if c.Computed != nil {
		s = "COMPUTED BY " + c.Computed.SQLText
	}
	if !c.Nullable {
		s += " NOT NULL"
	}
	if c.Default != nil {
		s += " DEFAULT " + *c.Default
	}
	return s
}

func computedText(c *types.ColumnInfo) string {
	if c.Computed == nil {
		return missing
	}
	return c.Computed.SQLText
}

func identityText(c *types.ColumnInfo) string {
	if c.Identity == nil {
		return missing
	}
	if c.Identity.Always {
		return "GENERATED ALWAYS"
	}
	return "GENERATED BY DEFAULT"
}

func pkText(t *types.TableInfo) string {
	if t.PrimaryKey == nil || len(t.PrimaryKey.ConstrainedColumns) == 0 {
		return missing
	}
	return "(" + strings.Join(t.PrimaryKey.ConstrainedColumns, ", ") + ")"
}

func strPtr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orMissing(s string) string {
	if s == "" {
		return missing
	}
	return s
}

func orUnnamed(name string) string {
	if name == "" {
		return "(unnamed)"
	}
	return name
}
