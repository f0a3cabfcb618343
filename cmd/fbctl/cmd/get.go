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

	"github.com/fbdialect/internal/service"
)

var getCmd = &cobra.Command{
	Use:   "get <type> [name]",
	Short: "List schema objects",
	Long: `List the user objects of the database. System objects are excluded.

Object Types:
  tables, table          Persistent tables
  temporary-tables, gtt  Global temporary tables
  views, view            Views; with a name, print the view definition
  sequences, sequence    Sequences (generators)
  domains, domain        User domains

Examples:
  fbctl get tables
  fbctl get views
  fbctl get view v_orders
  fbctl get domains -o yaml`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	kind := normalizeObjectType(args[0])
	var name string
	if len(args) > 1 {
		name = args[1]
	}
	ctx := cmd.Context()
	printer := newPrinter()

	instance, _, err := connect(ctx)
	if err != nil {
		return err
	}
	defer instance.Close()
	svc := service.NewInspectService(instance)

	switch kind {
	case service.RelationViews:
		if name != "" {
			def, err := svc.ViewDefinition(ctx, name)
			if err != nil {
				return err
			}
			if printer.IsTable() {
				printer.PrintResult(def)
				return nil
			}
			return printer.PrintData(map[string]string{"name": name, "definition": def})
		}
	case service.RelationDomains:
		domains, err := svc.ListDomains(ctx)
		if err != nil {
			return err
		}
		if !printer.IsTable() {
			return printer.PrintData(domains)
		}
		rows := make([][]string, 0, len(domains))
		for _, d := range domains {
			rows = append(rows, []string{d.Name, nullability(d.Nullable), deref(d.Default), deref(d.Check)})
		}
		return printer.PrintTable([]string{"NAME", "NULLABLE", "DEFAULT", "CHECK"}, rows)
	}

	if name != "" {
		return fmt.Errorf("a name is only accepted for views")
	}
	names, err := svc.List(ctx, kind)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(names))
	for _, n := range names {
		rows = append(rows, []string{n})
	}
	return printer.PrintTable([]string{"NAME"}, rows)
}

func normalizeObjectType(s string) string {
	switch strings.ToLower(s) {
	case "table", "tables", "tbl":
		return service.RelationTables
	case "temporary-table", "temporary-tables", "gtt":
		return service.RelationTemporaryTables
	case "view", "views":
		return service.RelationViews
	case "sequence", "sequences", "seq", "generator", "generators":
		return service.RelationSequences
	case "domain", "domains":
		return service.RelationDomains
	default:
		return strings.ToLower(s)
	}
}

func nullability(nullable bool) string {
	if nullable {
		return "YES"
	}
	return "NO"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
