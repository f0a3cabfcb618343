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

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	adapter "github.com/fbdialect/internal/adapter/types"
	"github.com/fbdialect/internal/service"
)

var describeCmd = &cobra.Command{
	Use:   "describe table <name>",
	Short: "Show the reflected structure of a table",
	Long: `Reflect one table: columns, primary key, foreign keys, unique and
check constraints, indexes and the table comment.

Examples:
  fbctl describe table orders
  fbctl describe table orders -o yaml`,
	Aliases: []string{"desc"},
	Args:    cobra.ExactArgs(2),
	RunE:    runDescribe,
}

func runDescribe(cmd *cobra.Command, args []string) error {
	if normalizeObjectType(args[0]) != service.RelationTables {
		return fmt.Errorf("only tables can be described, got %q", args[0])
	}
	ctx := cmd.Context()
	printer := newPrinter()

	instance, _, err := connect(ctx)
	if err != nil {
		return err
	}
	defer instance.Close()

	info, err := service.NewInspectService(instance).DescribeTable(ctx, args[1])
	if err != nil {
		return err
	}
	if !printer.IsTable() {
		return printer.PrintData(info)
	}

	d := service.DialectFor(ctx, instance.Adapter())
	rows := make([][]string, 0, len(info.Columns))
	for _, c := range info.Columns {
		typ, err := d.RenderType(c.Type)
		if err != nil {
			typ = string(c.Type.Kind)
		}
		rows = append(rows, []string{c.Name, typ, nullability(c.Nullable), deref(c.Default), columnExtra(c)})
	}
	if err := printer.PrintTable([]string{"COLUMN", "TYPE", "NULLABLE", "DEFAULT", "EXTRA"}, rows); err != nil {
		return err
	}

	printer.PrintResult("")
	for _, line := range constraintLines(info) {
		printer.PrintResult(line)
	}
	return nil
}

func columnExtra(c adapter.ColumnInfo) string {
	switch {
	case c.Computed != nil:
		return "COMPUTED BY (" + c.Computed.SQLText + ")"
	case c.Identity != nil:
		return "IDENTITY"
	}
	return ""
}

func constraintLines(t *adapter.TableInfo) []string {
	var lines []string
	if t.Temporary {
		lines = append(lines, "Temporary: yes")
	}
	if t.Comment != nil {
		lines = append(lines, "Comment: "+*t.Comment)
	}
	if t.PrimaryKey != nil && len(t.PrimaryKey.ConstrainedColumns) > 0 {
		lines = append(lines, "Primary key: ("+strings.Join(t.PrimaryKey.ConstrainedColumns, ", ")+")")
	}
	for _, fk := range t.ForeignKeys {
		lines = append(lines, fmt.Sprintf("Foreign key %s: (%s) REFERENCES %s (%s)",
			fk.Name, strings.Join(fk.ConstrainedColumns, ", "), fk.ReferredTable, strings.Join(fk.ReferredColumns, ", ")))
	}
	for _, uq := range t.UniqueConstraints {
		lines = append(lines, fmt.Sprintf("Unique %s: (%s)", uq.Name, strings.Join(uq.ColumnNames, ", ")))
	}
	for _, ck := range t.CheckConstraints {
		lines = append(lines, fmt.Sprintf("Check %s: %s", ck.Name, ck.SQLText))
	}
	for _, ix := range t.Indexes {
		unique := ""
		if ix.Unique {
			unique = "unique "
		}
		parts := ix.ColumnNames
		if len(ix.Expressions) > 0 {
			parts = ix.Expressions
		}
		line := fmt.Sprintf("Index %s: %s(%s)", ix.Name, unique, strings.Join(parts, ", "))
		if ix.Descending {
			line += " DESC"
		}
		if ix.Where != "" {
			line += " WHERE " + ix.Where
		}
		lines = append(lines, line)
	}
	return lines
}
