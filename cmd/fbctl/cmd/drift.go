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
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"ariga.io/atlas/sql/migrate"
	"github.com/spf13/cobra"

	"github.com/fbdialect/cmd/fbctl/internal"
	"github.com/fbdialect/internal/service/drift"
)

var driftCmd = &cobra.Command{
	Use:   "drift -f <file>",
	Short: "Compare declared objects with the database",
	Long: `Reflect every object declared in a YAML file and report how the
database differs from it.

With --plan-dir the correcting statements are written as a versioned
migration file into that directory, together with its atlas.sum. With
--correct they are executed. Destructive corrections such as dropping
columns require --allow-destructive. Differences that cannot be fixed
with ALTER, such as a changed primary key, are only reported.

Examples:
  fbctl drift -f schema.yaml
  fbctl drift -f schema.yaml --plan-dir migrations
  fbctl drift -f schema.yaml --correct --allow-destructive`,
	RunE: runDrift,
}

var (
	driftFile             string
	driftPlanDir          string
	driftCorrect          bool
	driftAllowDestructive bool
)

func init() {
	driftCmd.Flags().StringVarP(&driftFile, "file", "f", "", "YAML file with declared objects")
	driftCmd.Flags().StringVar(&driftPlanDir, "plan-dir", "", "Write the corrections as a migration into this directory")
	driftCmd.Flags().BoolVar(&driftCorrect, "correct", false, "Execute the corrections")
	driftCmd.Flags().BoolVar(&driftAllowDestructive, "allow-destructive", false, "Allow corrections that lose data")
	_ = driftCmd.MarkFlagRequired("file")
}

func runDrift(cmd *cobra.Command, args []string) error {
	objs, err := internal.LoadFile(driftFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	printer := newPrinter()

	instance, _, err := connect(ctx)
	if err != nil {
		return err
	}
	defer instance.Close()

	cfg := drift.NewConfig(instance.Config())
	cfg.AllowDestructive = driftAllowDestructive
	svc := drift.NewService(instance.Adapter(), cfg)

	results, err := svc.Detect(ctx, objs)
	if err != nil {
		return err
	}
	if err := printDrift(printer, results); err != nil {
		return err
	}

	if driftPlanDir != "" {
		name := strings.TrimSuffix(filepath.Base(driftFile), filepath.Ext(driftFile))
		files, err := drift.WritePlan(driftPlanDir, drift.Plan(name, time.Now(), results...))
		switch {
		case errors.Is(err, migrate.ErrNoPlan):
			printVerbose("No migration written, nothing to correct")
		case err != nil:
			return err
		default:
			for _, f := range files {
				printVerbose("Wrote %s", f)
			}
		}
	}

	if !driftCorrect {
		return nil
	}
	var failed int
	for _, res := range results {
		if !res.HasDrift() {
			continue
		}
		if dryRun {
			printVerbose("Would correct %s %s", res.Kind, res.Name)
			if printer.IsTable() {
				printer.PrintStatements(res.Statements())
			}
			continue
		}
		out, err := svc.CorrectDrift(ctx, res)
		for _, s := range out.Skipped {
			printVerbose("Skipped %s %s: %s", res.Name, s.Diff.Field, s.Reason)
		}
		if err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", res.Name, err)
			continue
		}
		printVerbose("Corrected %d differences of %s", len(out.Corrected), res.Name)
	}
	if failed > 0 {
		return fmt.Errorf("drift correction failed for %d objects", failed)
	}
	return nil
}

func printDrift(printer *internal.Printer, results []*drift.Result) error {
	var diffs []internal.DiffOutput
	for _, res := range results {
		for _, d := range res.Diffs {
			diffs = append(diffs, internal.DiffOutput{
				Object:      res.Kind + "/" + res.Name,
				Field:       d.Field,
				Expected:    d.Expected,
				Actual:      d.Actual,
				Destructive: d.Destructive,
				Immutable:   d.Immutable,
			})
		}
	}
	if !printer.IsTable() {
		return printer.PrintData(diffs)
	}
	if len(diffs) == 0 {
		printer.PrintResult("No drift detected")
		return nil
	}
	rows := make([][]string, 0, len(diffs))
	for _, d := range diffs {
		var notes []string
		if d.Destructive {
			notes = append(notes, "destructive")
		}
		if d.Immutable {
			notes = append(notes, "immutable")
		}
		rows = append(rows, []string{d.Object, d.Field, d.Expected, d.Actual, strings.Join(notes, ",")})
	}
	return printer.PrintTable([]string{"OBJECT", "FIELD", "EXPECTED", "ACTUAL", "NOTES"}, rows)
}
