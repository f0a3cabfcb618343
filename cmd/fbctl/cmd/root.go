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
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/spf13/cobra"

	"github.com/fbdialect/cmd/fbctl/internal"
	"github.com/fbdialect/internal/logging"
	"github.com/fbdialect/internal/metrics"
	"github.com/fbdialect/internal/service"
	"github.com/fbdialect/internal/shared/eventbus"
)

var (
	// Global flags
	verbose      bool
	outputFormat string
	dryRun       bool
	configPath   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fbctl",
	Short: "Firebird schema inspection and DDL tool",
	Long: `fbctl inspects Firebird databases and renders or applies DDL for
declared tables, sequences and domains.

Settings are read from --config, or fbctl.yaml in the working directory
or $HOME/.config/fbctl. Every key can be overridden from the environment
as FBCTL_<SECTION>_<KEY>, for example FBCTL_CONNECTION_HOST. Without a
config file the flat variables are used instead:

  FBCTL_HOST       Server host [required]
  FBCTL_PORT       Server port (default 3050)
  FBCTL_DATABASE   Database path or alias [required]
  FBCTL_USERNAME   User name (default SYSDBA)
  FBCTL_PASSWORD   Password

Example:
  export FBCTL_HOST=localhost
  export FBCTL_DATABASE=/data/employee.fdb
  export FBCTL_PASSWORD=masterkey

  fbctl get tables
  fbctl describe table orders
  fbctl ddl -f schema.yaml --dry-run
  fbctl drift -f schema.yaml --plan-dir migrations`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cmd.SetContext(logging.WithRunID(cmd.Context(), newLogger()))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table|yaml|json)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Print what would be done without executing")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to an fbctl config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(testConnectionCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(ddlCmd)
	rootCmd.AddCommand(driftCmd)
	rootCmd.AddCommand(snapshotCmd)
}

// newLogger writes structured logs to stderr. -v enables V(1).
func newLogger() logr.Logger {
	verbosity := 0
	if verbose {
		verbosity = 1
	}
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(os.Stderr, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(os.Stderr, args)
	}, funcr.Options{Verbosity: verbosity})
}

func newPrinter() *internal.Printer {
	return internal.NewPrinter(internal.ParseOutputFormat(outputFormat), os.Stdout)
}

// loadSettings reads the config file layers.
func loadSettings() (*service.Settings, error) {
	settings, err := service.LoadSettings(configPath)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return settings, nil
}

// getConfig builds the connection config from the settings, falling back
// to the flat FBCTL_* variables when no host is configured there.
func getConfig(ctx context.Context, settings *service.Settings) (*service.Config, error) {
	var (
		cfg *service.Config
		err error
	)
	if settings.Connection.Host != "" {
		cfg, err = settings.Config()
	} else {
		cfg, err = service.ConfigFromEnv(os.Getenv)
	}
	if err != nil {
		return nil, fmt.Errorf(
			"configuration error: %w\n\n"+
				"Set connection.host and connection.database in the config file,\n"+
				"or export FBCTL_HOST and FBCTL_DATABASE",
			err,
		)
	}

	log := logging.FromContext(ctx)
	cfg.Logger = log
	cfg.EventBus = newEventBus(log)
	return cfg, nil
}

// newEventBus logs every published event at V(1).
func newEventBus(log logr.Logger) *eventbus.InMemoryBus {
	bus := eventbus.NewInMemoryBus(
		eventbus.WithLogger(log),
		eventbus.WithMiddleware(
			eventbus.RecoveryMiddleware(log),
			eventbus.LoggingMiddleware(log),
			eventbus.MetricsMiddleware(metrics.EventBus),
		),
	)
	audit := log.WithName("events")
	for _, name := range []string{
		eventbus.EventTableReflected,
		eventbus.EventSchemaReflected,
		eventbus.EventDDLExecuted,
		eventbus.EventDriftDetected,
		eventbus.EventSnapshotExported,
	} {
		bus.Subscribe(name, "fbctl-audit", func(ctx context.Context, e eventbus.Event) error {
			audit.V(1).Info(e.EventName(), "database", e.Database(), "subject", e.Subject())
			return nil
		})
	}
	return bus
}

// connect loads the config and attaches to the database. The caller
// closes the returned service.
func connect(ctx context.Context) (*service.InstanceService, *service.Settings, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := getConfig(ctx, settings)
	if err != nil {
		return nil, nil, err
	}
	printVerbose("Connecting to %s (run %s)", cfg.Endpoint(), logging.IDFromContext(ctx))

	instance, err := service.NewInstanceService(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := instance.Connect(ctx); err != nil {
		_ = instance.Close()
		return nil, nil, err
	}
	return instance, settings, nil
}

// printVerbose prints verbose output if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] "+format+"\n", args...)
	}
}
