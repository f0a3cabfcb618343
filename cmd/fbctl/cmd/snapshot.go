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
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fbdialect/cmd/fbctl/internal"
	adapter "github.com/fbdialect/internal/adapter/types"
	"github.com/fbdialect/internal/service"
	"github.com/fbdialect/internal/storage"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Export and inspect schema snapshots",
	Long: `Reflect the whole schema into a snapshot and store it on the
configured backend, or read a stored snapshot back.

Objects are stored as <prefix>/<database>/<id>.<format>[.<compression>][.enc].

Examples:
  fbctl snapshot export
  fbctl snapshot export --backend s3 --bucket schemas --compression zstd
  fbctl snapshot export --format msgpack --encryption-key $KEY
  fbctl snapshot list
  fbctl snapshot show snapshots/employee/0b6f...json.zst`,
}

var snapshotExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Reflect the schema and store a snapshot",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotExport,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots of the database, newest first",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotList,
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print a snapshot file",
	Long: `Decode a snapshot file from the local filesystem. Format, compression
and encryption are detected from the file extensions.`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshotShow,
}

var (
	snapBackend       string
	snapDir           string
	snapBucket        string
	snapFormat        string
	snapCompression   string
	snapLevel         int
	snapPrefix        string
	snapEncryptionKey string
	snapFull          bool
)

func init() {
	for _, c := range []*cobra.Command{snapshotExportCmd, snapshotListCmd} {
		c.Flags().StringVar(&snapBackend, "backend", "", "Storage backend (file|s3|gcs|azure)")
		c.Flags().StringVar(&snapDir, "dir", "", "Directory of the file backend")
		c.Flags().StringVar(&snapBucket, "bucket", "", "Bucket (s3, gcs) or container (azure)")
		c.Flags().StringVar(&snapPrefix, "prefix", "", "Key prefix inside the backend")
	}
	snapshotExportCmd.Flags().StringVar(&snapFormat, "format", "", "Encoding (json|yaml|msgpack)")
	snapshotExportCmd.Flags().StringVar(&snapCompression, "compression", "", "Compression (none|gzip|lz4|zstd)")
	snapshotExportCmd.Flags().IntVar(&snapLevel, "level", 0, "Compression level, 0 for the default")
	snapshotExportCmd.Flags().StringVar(&snapEncryptionKey, "encryption-key", "", "Hex encoded AES-256 key")
	snapshotShowCmd.Flags().StringVar(&snapEncryptionKey, "encryption-key", "", "Hex encoded AES-256 key")
	snapshotShowCmd.Flags().BoolVar(&snapFull, "full", false, "Print the whole snapshot instead of a summary")

	snapshotCmd.AddCommand(snapshotExportCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
}

// snapshotOptions applies the command line flags over the settings.
func snapshotOptions(settings *service.Settings) (storage.Config, storage.ExportOptions) {
	st, opts := settings.Storage, settings.Snapshot
	if snapBackend != "" {
		st.Backend = snapBackend
	}
	if snapDir != "" {
		st.File.Dir = snapDir
	}
	if snapBucket != "" {
		st.S3.Bucket = snapBucket
		st.GCS.Bucket = snapBucket
		st.Azure.Container = snapBucket
	}
	if snapFormat != "" {
		opts.Format = snapFormat
	}
	if snapCompression != "" {
		opts.Compression = snapCompression
	}
	if snapLevel != 0 {
		opts.Level = snapLevel
	}
	if snapPrefix != "" {
		opts.Prefix = snapPrefix
	}
	if snapEncryptionKey != "" {
		opts.EncryptionKey = snapEncryptionKey
	}
	return st, opts
}

func newSnapshotService(cmd *cobra.Command) (*service.SnapshotService, func(), error) {
	ctx := cmd.Context()
	instance, settings, err := connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	st, opts := snapshotOptions(settings)

	backend, err := storage.NewBackend(ctx, st)
	if err != nil {
		_ = instance.Close()
		return nil, nil, err
	}
	cleanup := func() {
		_ = backend.Close()
		_ = instance.Close()
	}

	svc, err := service.NewSnapshotService(service.NewInspectService(instance), backend, opts)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

func runSnapshotExport(cmd *cobra.Command, args []string) error {
	printer := newPrinter()
	if dryRun {
		printer.PrintResult("Dry run: the schema would be reflected and exported")
		return nil
	}

	svc, cleanup, err := newSnapshotService(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := svc.Export(cmd.Context())
	if err != nil {
		return err
	}
	return printer.PrintData(internal.SnapshotOutput{
		ID:          res.ID,
		Location:    res.Location,
		Format:      res.Format,
		Compression: res.Compression,
		Encrypted:   res.Encrypted,
		Size:        internal.FormatSize(res.Size),
	})
}

func runSnapshotList(cmd *cobra.Command, args []string) error {
	printer := newPrinter()
	svc, cleanup, err := newSnapshotService(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	objects, err := svc.List(cmd.Context())
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(objects))
	for _, o := range objects {
		rows = append(rows, []string{
			o.Path,
			internal.FormatSize(o.Size),
			time.Unix(o.LastModified, 0).UTC().Format(time.RFC3339),
		})
	}
	return printer.PrintTable([]string{"KEY", "SIZE", "MODIFIED"}, rows)
}

func runSnapshotShow(cmd *cobra.Command, args []string) error {
	path := args[0]
	printer := newPrinter()

	var enc *storage.Encryptor
	if snapEncryptionKey != "" {
		var err error
		if enc, err = storage.NewEncryptor(snapEncryptionKey); err != nil {
			return fmt.Errorf("invalid --encryption-key: %w", err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	snap, err := storage.ReadSnapshot(f, path, enc)
	if err != nil {
		return err
	}
	if snapFull {
		return printer.PrintData(snap)
	}
	return printer.PrintData(summarizeSnapshot(snap))
}

func summarizeSnapshot(snap *adapter.SchemaSnapshot) internal.SnapshotOutput {
	return internal.SnapshotOutput{
		ID:            snap.ID,
		Database:      snap.Database,
		ServerVersion: snap.ServerVersion.String(),
		TakenAt:       snap.TakenAt.Format(time.RFC3339),
		Tables:        len(snap.Tables),
		Views:         len(snap.Views),
		Sequences:     len(snap.Sequences),
		Domains:       len(snap.Domains),
	}
}
