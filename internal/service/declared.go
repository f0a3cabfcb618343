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

package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fbdialect/internal/adapter/sqlbuilder"
	"github.com/fbdialect/internal/adapter/types"
)

// APIVersion is the only accepted apiVersion of declarative documents.
const APIVersion = "fbdialect/v1"

// Document kinds.
const (
	KindTable    = "Table"
	KindSequence = "Sequence"
	KindDomain   = "Domain"
)

// Temporary table commit behaviours.
const (
	OnCommitPreserve = "preserve rows"
	OnCommitDelete   = "delete rows"
)

// Document is the envelope of one YAML document. Spec is decoded
// separately once Kind is known.
type Document struct {
	APIVersion string    `yaml:"apiVersion"`
	Kind       string    `yaml:"kind"`
	Metadata   Metadata  `yaml:"metadata"`
	Spec       yaml.Node `yaml:"spec"`
}

// Metadata names the declared object.
type Metadata struct {
	Name string `yaml:"name"`
}

// ColumnSpec declares one column.
type ColumnSpec struct {
	Name string           `yaml:"name"`
	Type types.ColumnType `yaml:"type"`
	// Nullable defaults to true, or false for key and identity columns.
	Nullable *bool         `yaml:"nullable,omitempty"`
	Default  string        `yaml:"default,omitempty"`
	Identity *IdentitySpec `yaml:"identity,omitempty"`
	Computed string        `yaml:"computed,omitempty"`
	Comment  string        `yaml:"comment,omitempty"`
	Quote    bool          `yaml:"quote,omitempty"`
}

// IdentitySpec declares an identity column.
type IdentitySpec struct {
	Always    bool   `yaml:"always,omitempty"`
	Start     *int64 `yaml:"start,omitempty"`
	Increment *int64 `yaml:"increment,omitempty"`
}

// KeySpec declares a primary key or UNIQUE constraint.
type KeySpec struct {
	Name    string   `yaml:"name,omitempty"`
	Columns []string `yaml:"columns"`
}

// ForeignKeySpec declares a FOREIGN KEY constraint.
type ForeignKeySpec struct {
	Name       string   `yaml:"name,omitempty"`
	Columns    []string `yaml:"columns"`
	RefTable   string   `yaml:"refTable"`
	RefColumns []string `yaml:"refColumns"`
	OnDelete   string   `yaml:"onDelete,omitempty"`
	OnUpdate   string   `yaml:"onUpdate,omitempty"`
}

// CheckSpec declares a CHECK constraint.
type CheckSpec struct {
	Name string `yaml:"name,omitempty"`
	Expr string `yaml:"expr"`
}

// IndexSpec declares a standalone index.
type IndexSpec struct {
	Name        string   `yaml:"name"`
	Columns     []string `yaml:"columns,omitempty"`
	Expressions []string `yaml:"expressions,omitempty"`
	Unique      bool     `yaml:"unique,omitempty"`
	Descending  bool     `yaml:"descending,omitempty"`
	Where       string   `yaml:"where,omitempty"`
}

// TableSpec declares a table.
type TableSpec struct {
	// Temporary is empty for a persistent table, otherwise
	// "preserve rows" or "delete rows".
	Temporary   string           `yaml:"temporary,omitempty"`
	Quote       bool             `yaml:"quote,omitempty"`
	Comment     string           `yaml:"comment,omitempty"`
	Columns     []ColumnSpec     `yaml:"columns"`
	PrimaryKey  *KeySpec         `yaml:"primaryKey,omitempty"`
	Unique      []KeySpec        `yaml:"unique,omitempty"`
	ForeignKeys []ForeignKeySpec `yaml:"foreignKeys,omitempty"`
	Checks      []CheckSpec      `yaml:"checks,omitempty"`
	Indexes     []IndexSpec      `yaml:"indexes,omitempty"`
}

// SequenceSpec declares a sequence.
type SequenceSpec struct {
	Start     *int64 `yaml:"start,omitempty"`
	Increment *int64 `yaml:"increment,omitempty"`
	Comment   string `yaml:"comment,omitempty"`
}

// DomainSpec declares a domain.
type DomainSpec struct {
	Type    types.ColumnType `yaml:"type"`
	Default string           `yaml:"default,omitempty"`
	NotNull bool             `yaml:"notNull,omitempty"`
	Check   string           `yaml:"check,omitempty"`
	Comment string           `yaml:"comment,omitempty"`
}

// Object is a decoded declarative document. Exactly one of Table,
// Sequence and Domain is set, matching Kind.
type Object struct {
	Kind     string
	Name     string
	Table    *TableSpec
	Sequence *SequenceSpec
	Domain   *DomainSpec
}

// DecodeObjects reads every YAML document from r. Unknown fields are
// rejected so typos surface instead of being silently ignored.
func DecodeObjects(r io.Reader) ([]Object, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var objects []Object
	for i := 0; ; i++ {
		var doc Document
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		if doc.APIVersion == "" && doc.Kind == "" && doc.Metadata.Name == "" {
			continue
		}
		obj, err := decodeObject(&doc)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

func decodeObject(doc *Document) (Object, error) {
	if doc.APIVersion != APIVersion {
		return Object{}, &ValidationError{Field: "apiVersion", Message: fmt.Sprintf("unsupported apiVersion %q, expected %q", doc.APIVersion, APIVersion)}
	}
	if doc.Metadata.Name == "" {
		return Object{}, &ValidationError{Field: "metadata.name", Message: "name is required"}
	}

	obj := Object{Kind: doc.Kind, Name: doc.Metadata.Name}
	var err error
	switch doc.Kind {
	case KindTable:
		obj.Table = &TableSpec{}
		err = decodeSpec(&doc.Spec, obj.Table)
		if err == nil {
			err = obj.Table.validate()
		}
	case KindSequence:
		obj.Sequence = &SequenceSpec{}
		err = decodeSpec(&doc.Spec, obj.Sequence)
	case KindDomain:
		obj.Domain = &DomainSpec{}
		err = decodeSpec(&doc.Spec, obj.Domain)
		if err == nil && obj.Domain.Type.Kind == "" {
			err = &ValidationError{Field: "spec.type", Message: "domain type is required"}
		}
	default:
		return Object{}, &ValidationError{Field: "kind", Message: fmt.Sprintf("unsupported kind %q", doc.Kind)}
	}
	if err != nil {
		return Object{}, fmt.Errorf("%s %s: %w", doc.Kind, doc.Metadata.Name, err)
	}
	return obj, nil
}

// decodeSpec decodes node strictly. yaml.Node.Decode does not check
// known fields, so the node is re-encoded and decoded again.
func decodeSpec(node *yaml.Node, out interface{}) error {
	if node.Kind == 0 {
		return nil
	}
	raw, err := yaml.Marshal(node)
	if err != nil {
		return fmt.Errorf("failed to re-encode spec: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid spec: %w", err)
	}
	return nil
}

func (t *TableSpec) validate() error {
	if len(t.Columns) == 0 {
		return &ValidationError{Field: "spec.columns", Message: "a table needs at least one column"}
	}
	switch strings.ToLower(strings.ReplaceAll(t.Temporary, "_", " ")) {
	case "", OnCommitPreserve, OnCommitDelete:
	default:
		return &ValidationError{Field: "spec.temporary", Message: fmt.Sprintf("unknown commit behaviour %q", t.Temporary)}
	}

	seen := make(map[string]bool, len(t.Columns))
	for i, c := range t.Columns {
		if c.Name == "" {
			return &ValidationError{Field: fmt.Sprintf("spec.columns[%d].name", i), Message: "column name is required"}
		}
		if seen[c.Name] {
			return &ValidationError{Field: fmt.Sprintf("spec.columns[%d].name", i), Message: "duplicate column " + c.Name}
		}
		seen[c.Name] = true
		if c.Type.Kind == "" && c.Computed == "" {
			return &ValidationError{Field: fmt.Sprintf("spec.columns[%d].type", i), Message: "column " + c.Name + " needs a type"}
		}
	}
	known := func(field string, cols []string) error {
		if len(cols) == 0 {
			return &ValidationError{Field: field, Message: "at least one column is required"}
		}
		for _, c := range cols {
			if !seen[c] {
				return &ValidationError{Field: field, Message: "unknown column " + c}
			}
		}
		return nil
	}

	if t.PrimaryKey != nil {
		if err := known("spec.primaryKey.columns", t.PrimaryKey.Columns); err != nil {
			return err
		}
	}
	for i, u := range t.Unique {
		if err := known(fmt.Sprintf("spec.unique[%d].columns", i), u.Columns); err != nil {
			return err
		}
	}
	for i, fk := range t.ForeignKeys {
		field := fmt.Sprintf("spec.foreignKeys[%d]", i)
		if err := known(field+".columns", fk.Columns); err != nil {
			return err
		}
		if fk.RefTable == "" || len(fk.RefColumns) != len(fk.Columns) {
			return &ValidationError{Field: field, Message: "refTable and one refColumn per column are required"}
		}
	}
	for i, ck := range t.Checks {
		if strings.TrimSpace(ck.Expr) == "" {
			return &ValidationError{Field: fmt.Sprintf("spec.checks[%d].expr", i), Message: "expression is required"}
		}
	}
	for i, ix := range t.Indexes {
		field := fmt.Sprintf("spec.indexes[%d]", i)
		if ix.Name == "" {
			return &ValidationError{Field: field + ".name", Message: "index name is required"}
		}
		if len(ix.Expressions) == 0 {
			if err := known(field+".columns", ix.Columns); err != nil {
				return err
			}
		}
	}
	return nil
}

// Statements renders the CREATE statements (and comments) for o.
// CatalogName returns the name reflection reports for the object.
func (o Object) CatalogName(d *sqlbuilder.Firebird) string {
	if o.Kind == KindTable && o.Table != nil {
		return declaredName(d, o.Name, o.Table.Quote)
	}
	return d.CanonicalName(o.Name)
}

// declaredName maps a declared identifier to the form reflection reports.
// A quoted identifier is spelled exactly as stored.
func declaredName(d *sqlbuilder.Firebird, name string, quoted bool) string {
	if quoted {
		return d.NormalizeName(name)
	}
	return d.CanonicalName(name)
}

func (o Object) Statements(d *sqlbuilder.Firebird) ([]string, error) {
	switch o.Kind {
	case KindTable:
		return tableStatements(d, o.Name, o.Table)
	case KindSequence:
		return sequenceStatements(d, o.Name, o.Sequence)
	case KindDomain:
		return domainStatements(d, o.Name, o.Domain)
	default:
		return nil, &ValidationError{Field: "kind", Message: fmt.Sprintf("unsupported kind %q", o.Kind)}
	}
}

// ColumnDef converts a declared column into a builder definition.
func (c ColumnSpec) ColumnDef() sqlbuilder.ColumnDef {
	def := sqlbuilder.ColumnDef{
		Name:     c.Name,
		Type:     c.Type,
		Nullable: c.Nullable,
		Default:  c.Default,
		Quote:    c.Quote,
	}
	if c.Identity != nil {
		def.Identity = &sqlbuilder.IdentityOptions{
			Always:    c.Identity.Always,
			Start:     c.Identity.Start,
			Increment: c.Identity.Increment,
		}
	}
	if c.Computed != "" {
		def.Computed = &sqlbuilder.ComputedOptions{SQLText: c.Computed}
	}
	return def
}

// ForeignKeyDef converts a declared foreign key into a builder definition.
func (fk ForeignKeySpec) ForeignKeyDef() sqlbuilder.ForeignKeyDef {
	return sqlbuilder.ForeignKeyDef{
		Name:       fk.Name,
		Columns:    fk.Columns,
		RefTable:   fk.RefTable,
		RefColumns: fk.RefColumns,
		OnDelete:   fk.OnDelete,
		OnUpdate:   fk.OnUpdate,
	}
}

// IndexStatement renders CREATE INDEX for ix on table.
func (ix IndexSpec) IndexStatement(d *sqlbuilder.Firebird, table string) (string, error) {
	b := d.CreateIndex(ix.Name, table)
	if ix.Unique {
		b.Unique()
	}
	if ix.Descending {
		b.Descending()
	}
	if len(ix.Expressions) > 0 {
		b.Expressions(ix.Expressions...)
	} else {
		b.Columns(ix.Columns...)
	}
	if ix.Where != "" {
		b.Where(ix.Where)
	}
	return b.Build()
}

func tableStatements(d *sqlbuilder.Firebird, name string, t *TableSpec) ([]string, error) {
	b := d.CreateTable(name)
	if t.Quote {
		b.Quoted()
	}
	pk := make(map[string]bool)
	if t.PrimaryKey != nil {
		for _, c := range t.PrimaryKey.Columns {
			pk[c] = true
		}
		b.PrimaryKey(t.PrimaryKey.Name, t.PrimaryKey.Columns...)
	}
	for _, c := range t.Columns {
		def := c.ColumnDef()
		def.PrimaryKey = pk[c.Name]
		b.Column(def)
	}
	for _, u := range t.Unique {
		b.Unique(u.Name, u.Columns...)
	}
	for _, fk := range t.ForeignKeys {
		b.ForeignKey(fk.ForeignKeyDef())
	}
	for _, ck := range t.Checks {
		b.Check(ck.Name, ck.Expr)
	}
	if t.Temporary != "" {
		b.GlobalTemporary(t.Temporary)
	}

	create, err := b.Build()
	if err != nil {
		return nil, err
	}
	stmts := []string{create}

	for _, ix := range t.Indexes {
		stmt, err := ix.IndexStatement(d, name)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if t.Comment != "" {
		stmt, err := d.CommentOn(sqlbuilder.CommentTable, name, t.Comment)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	for _, c := range t.Columns {
		if c.Comment == "" {
			continue
		}
		stmt, err := d.CommentOnColumn(name, c.Name, c.Comment)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func sequenceStatements(d *sqlbuilder.Firebird, name string, s *SequenceSpec) ([]string, error) {
	b := d.CreateSequence(name)
	if s.Start != nil {
		b.StartWith(*s.Start)
	}
	if s.Increment != nil {
		b.IncrementBy(*s.Increment)
	}
	create, err := b.Build()
	if err != nil {
		return nil, err
	}
	stmts := []string{create}
	if s.Comment != "" {
		stmt, err := d.CommentOn(sqlbuilder.CommentSequence, name, s.Comment)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func domainStatements(d *sqlbuilder.Firebird, name string, s *DomainSpec) ([]string, error) {
	create, err := d.CreateDomain(sqlbuilder.DomainDef{
		Name:    name,
		Type:    s.Type,
		Default: s.Default,
		NotNull: s.NotNull,
		Check:   s.Check,
	})
	if err != nil {
		return nil, err
	}
	stmts := []string{create}
	if s.Comment != "" {
		stmt, err := d.CommentOn(sqlbuilder.CommentDomain, name, s.Comment)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// TableInfo converts a declared table into the shape reflection
// produces, so both sides can be compared. Names are normalized the way
// the catalog reports them.
func (t *TableSpec) TableInfo(d *sqlbuilder.Firebird, name string) *types.TableInfo {
	info := &types.TableInfo{
		Name:      declaredName(d, name, t.Quote),
		Temporary: t.Temporary != "",
	}
	if t.Comment != "" {
		c := t.Comment
		info.Comment = &c
	}

	quoted := make(map[string]bool)
	for _, c := range t.Columns {
		quoted[c.Name] = c.Quote
	}
	column := func(n string) string { return declaredName(d, n, quoted[n]) }

	pk := make(map[string]bool)
	if t.PrimaryKey != nil {
		for _, c := range t.PrimaryKey.Columns {
			pk[c] = true
		}
	}
	for _, c := range t.Columns {
		col := types.ColumnInfo{
			Name:  column(c.Name),
			Type:  c.Type,
			Quote: c.Quote,
		}
		switch {
		case c.Nullable != nil:
			col.Nullable = *c.Nullable
		default:
			col.Nullable = !pk[c.Name] && c.Identity == nil
		}
		if c.Default != "" {
			def := c.Default
			col.Default = &def
		}
		if c.Computed != "" {
			col.Computed = &types.ComputedInfo{SQLText: c.Computed}
		}
		if c.Identity != nil {
			id := &types.IdentityInfo{Always: c.Identity.Always, Start: 0, Increment: 1}
			if c.Identity.Start != nil {
				id.Start = *c.Identity.Start
			}
			if c.Identity.Increment != nil {
				id.Increment = *c.Identity.Increment
			}
			col.Identity = id
		}
		info.Columns = append(info.Columns, col)
	}

	normalize := func(names []string) []string {
		out := make([]string, len(names))
		for i, n := range names {
			out[i] = column(n)
		}
		return out
	}
	canonical := func(names []string) []string {
		out := make([]string, len(names))
		for i, n := range names {
			out[i] = d.CanonicalName(n)
		}
		return out
	}
	if t.PrimaryKey != nil {
		info.PrimaryKey = &types.PrimaryKeyInfo{ConstrainedColumns: normalize(t.PrimaryKey.Columns)}
	}
	for _, u := range t.Unique {
		info.UniqueConstraints = append(info.UniqueConstraints, types.UniqueConstraintInfo{
			Name:        d.CanonicalName(u.Name),
			ColumnNames: normalize(u.Columns),
		})
	}
	for _, fk := range t.ForeignKeys {
		fi := types.ForeignKeyInfo{
			Name:               d.CanonicalName(fk.Name),
			ConstrainedColumns: normalize(fk.Columns),
			ReferredTable:      d.CanonicalName(fk.RefTable),
			ReferredColumns:    canonical(fk.RefColumns),
		}
		if fk.OnUpdate != "" || fk.OnDelete != "" {
			fi.Options = map[string]string{}
			if fk.OnUpdate != "" {
				fi.Options[types.FKOptionOnUpdate] = strings.ToUpper(fk.OnUpdate)
			}
			if fk.OnDelete != "" {
				fi.Options[types.FKOptionOnDelete] = strings.ToUpper(fk.OnDelete)
			}
		}
		info.ForeignKeys = append(info.ForeignKeys, fi)
	}
	for _, ck := range t.Checks {
		info.CheckConstraints = append(info.CheckConstraints, types.CheckConstraintInfo{
			Name:    d.CanonicalName(ck.Name),
			SQLText: ck.Expr,
		})
	}
	for _, ix := range t.Indexes {
		info.Indexes = append(info.Indexes, types.IndexInfo{
			Name:        d.CanonicalName(ix.Name),
			ColumnNames: normalize(ix.Columns),
			Expressions: ix.Expressions,
			Unique:      ix.Unique,
			Descending:  ix.Descending,
			Where:       ix.Where,
		})
	}
	return info
}
