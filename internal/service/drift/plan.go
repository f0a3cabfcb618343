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
	"os"
	"path/filepath"
	"strings"
	"time"

	"ariga.io/atlas/sql/migrate"
)

// versionLayout is the migration version format used by atlas.
const versionLayout = "20060102150405"

// Plan converts the statements of results into one atlas migration plan.
// Each statement carries the diff it corrects as comment. Steps without
// statements are left out.
func Plan(name string, now time.Time, results ...*Result) *migrate.Plan {
	plan := &migrate.Plan{
		Version: now.UTC().Format(versionLayout),
		Name:    migrationName(name),
	}
	for _, res := range results {
		for _, s := range res.Steps {
			for i, stmt := range s.Statements {
				c := &migrate.Change{Cmd: stmt, Source: s.Change}
				if i == 0 {
					c.Comment = res.Name + " " + s.Diff.String()
				}
				plan.Changes = append(plan.Changes, c)
			}
		}
	}
	return plan
}

// WritePlan writes plan into the migration directory dir, creating it when
// needed, and refreshes the directory's atlas.sum. It returns the names of
// the files written. A plan without changes yields migrate.ErrNoPlan.
func WritePlan(dir string, plan *migrate.Plan) ([]string, error) {
	if len(plan.Changes) == 0 {
		return nil, migrate.ErrNoPlan
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migration directory: %w", err)
	}
	local, err := migrate.NewLocalDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open migration directory: %w", err)
	}

	files, err := migrate.DefaultFormatter.Format(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to format migration: %w", err)
	}
	written := make([]string, 0, len(files))
	for _, f := range files {
		if err := local.WriteFile(f.Name(), f.Bytes()); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.Name(), err)
		}
		written = append(written, filepath.Join(dir, f.Name()))
	}

	sum, err := local.Checksum()
	if err != nil {
		return nil, fmt.Errorf("failed to compute migration checksum: %w", err)
	}
	if err := migrate.WriteSumFile(local, sum); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", migrate.HashFileName, err)
	}
	return written, nil
}

// migrationName keeps letters, digits and underscores so the name is
// safe inside a file name.
func migrationName(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	if sb.Len() == 0 {
		return "drift"
	}
	return sb.String()
}
