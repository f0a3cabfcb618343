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
)

var testConnectionCmd = &cobra.Command{
	Use:   "test-connection",
	Short: "Test database connection",
	Long: `Attach to the configured database and report the server release.

This is useful for verifying your configuration before running other
commands.

Example:
  fbctl test-connection`,
	Aliases: []string{"test", "ping"},
	RunE:    runTestConnection,
}

func runTestConnection(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	printer := newPrinter()

	svc, _, err := connect(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	health, err := svc.HealthCheck(ctx)
	output := internal.HealthOutput{
		Endpoint: svc.Config().Endpoint(),
	}
	if health != nil {
		output.Healthy = health.Healthy
		output.Version = health.Version
		output.ServerVersion = health.ServerVersion
		output.Latency = health.Latency.String()
		output.Message = health.Message
		if !health.Healthy {
			output.Message = health.ErrorMessage
		}
	}
	if perr := printer.PrintData(output); perr != nil {
		return perr
	}
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	return nil
}
