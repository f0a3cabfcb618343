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

	"github.com/spf13/cobra"

	"github.com/fbdialect/cmd/fbctl/internal"
	"github.com/fbdialect/internal/adapter/sqlbuilder"
	adapter "github.com/fbdialect/internal/adapter/types"
	"github.com/fbdialect/internal/service"
)

var ddlCmd = &cobra.Command{
	Use:   "ddl -f <file>",
	Short: "Render or apply DDL for declared objects",
	Long: `Render the DDL of the tables, sequences and domains declared in a YAML
file and execute it. Domains are created first, then sequences, then
tables with their indexes and comments.

Documents use this layout:

  apiVersion: fbdialect/v1
  kind: Table
  metadata:
    name: orders
  spec:
    columns:
      - name: id
        type: {kind: BIGINT}
        identity: {}

Examples:
  # Print the statements for the connected server without executing them
  fbctl ddl -f schema.yaml --dry-run

  # Print the statements for a given release without connecting
  fbctl ddl -f schema.yaml --server-version 3.0

  # Create whatever does not exist yet
  fbctl ddl -f schema.yaml --skip-existing`,
	RunE: runDDL,
}

var (
	ddlFile          string
	ddlKind          string
	ddlSkipExisting  bool
	ddlServerVersion string
)

func init() {
	ddlCmd.Flags().StringVarP(&ddlFile, "file", "f", "", "YAML file with declared objects")
	ddlCmd.Flags().StringVar(&ddlKind, "kind", "", "Only handle objects of this kind (Table|Sequence|Domain)")
	ddlCmd.Flags().BoolVar(&ddlSkipExisting, "skip-existing", false, "Leave objects that already exist untouched")
	ddlCmd.Flags().StringVar(&ddlServerVersion, "server-version", "", "Render offline for this Firebird release, e.g. 2.5 or 4.0")
	_ = ddlCmd.MarkFlagRequired("file")
}

func runDDL(cmd *cobra.Command, args []string) error {
	objs, err := internal.LoadFile(ddlFile)
	if err != nil {
		return err
	}
	objs = internal.FilterKind(objs, ddlKind)
	printVerbose("Loaded %d objects from %s", len(objs), ddlFile)

	printer := newPrinter()

	if ddlServerVersion != "" {
		v, err := adapter.FromEngineVersion(ddlServerVersion)
		if err != nil {
			return fmt.Errorf("invalid --server-version: %w", err)
		}
		results, err := service.RenderObjects(sqlbuilder.NewFirebird(v), objs)
		if err != nil {
			return err
		}
		return printObjectResults(printer, results)
	}

	ctx := cmd.Context()
	instance, _, err := connect(ctx)
	if err != nil {
		return err
	}
	defer instance.Close()

	results, err := service.NewDDLService(instance).Apply(ctx, objs, service.ApplyOptions{
		DryRun:       dryRun,
		SkipExisting: ddlSkipExisting,
	})
	if perr := printObjectResults(printer, results); perr != nil {
		return perr
	}
	return err
}

func printObjectResults(printer *internal.Printer, results []service.ObjectResult) error {
	if !printer.IsTable() {
		return printer.PrintData(results)
	}
	for _, r := range results {
		switch {
		case r.Skipped:
			printer.PrintResult(fmt.Sprintf("-- %s %s exists, skipped", r.Kind, r.Name))
		case r.Executed:
			printer.PrintResult(fmt.Sprintf("-- %s %s applied", r.Kind, r.Name))
		default:
			printer.PrintResult(fmt.Sprintf("-- %s %s", r.Kind, r.Name))
		}
		if !r.Skipped {
			printer.PrintStatements(r.Statements)
		}
	}
	return nil
}
