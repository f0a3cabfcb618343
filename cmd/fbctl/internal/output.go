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

package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"sigs.k8s.io/yaml"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatYAML  OutputFormat = "yaml"
	FormatJSON  OutputFormat = "json"
)

// ParseOutputFormat parses a string into an OutputFormat
func ParseOutputFormat(s string) OutputFormat {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return FormatYAML
	case "json":
		return FormatJSON
	default:
		return FormatTable
	}
}

// Printer handles output formatting
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format OutputFormat, writer io.Writer) *Printer {
	return &Printer{
		format: format,
		writer: writer,
	}
}

// IsTable reports whether rows are printed as an aligned table.
func (p *Printer) IsTable() bool {
	return p.format == FormatTable
}

// PrintResult prints a result message
func (p *Printer) PrintResult(message string) {
	fmt.Fprintln(p.writer, message)
}

// PrintStatements prints SQL statements terminated by ";", one per line.
func (p *Printer) PrintStatements(statements []string) {
	for _, s := range statements {
		fmt.Fprintln(p.writer, s+";")
	}
}

// PrintTable prints rows under headers. Other formats get a list of maps
// keyed by the lower-cased header.
func (p *Printer) PrintTable(headers []string, rows [][]string) error {
	if p.format != FormatTable {
		data := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			item := make(map[string]string)
			for i, header := range headers {
				if i < len(row) {
					item[strings.ToLower(header)] = row[i]
				}
			}
			data = append(data, item)
		}
		return p.PrintData(data)
	}

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

// PrintData prints data in the configured format
func (p *Printer) PrintData(data interface{}) error {
	switch p.format {
	case FormatJSON:
		return p.printJSON(data)
	default:
		// For table format with arbitrary data, use YAML
		return p.printYAML(data)
	}
}

func (p *Printer) printYAML(data interface{}) error {
	output, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	fmt.Fprint(p.writer, string(output))
	return nil
}

func (p *Printer) printJSON(data interface{}) error {
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(p.writer, string(output))
	return nil
}

// HealthOutput represents health check info for output
type HealthOutput struct {
	Healthy       bool   `json:"healthy"`
	Endpoint      string `json:"endpoint"`
	Version       string `json:"version,omitempty"`
	ServerVersion string `json:"serverVersion,omitempty"`
	Latency       string `json:"latency,omitempty"`
	Message       string `json:"message,omitempty"`
}

// DiffOutput is one drift difference.
type DiffOutput struct {
	Object      string `json:"object"`
	Field       string `json:"field"`
	Expected    string `json:"expected"`
	Actual      string `json:"actual"`
	Destructive bool   `json:"destructive,omitempty"`
	Immutable   bool   `json:"immutable,omitempty"`
}

// SnapshotOutput summarizes a stored or loaded snapshot.
type SnapshotOutput struct {
	ID            string `json:"id"`
	Database      string `json:"database,omitempty"`
	ServerVersion string `json:"serverVersion,omitempty"`
	TakenAt       string `json:"takenAt,omitempty"`
	Location      string `json:"location,omitempty"`
	Format        string `json:"format,omitempty"`
	Compression   string `json:"compression,omitempty"`
	Encrypted     bool   `json:"encrypted,omitempty"`
	Size          string `json:"size,omitempty"`
	Tables        int    `json:"tables"`
	Views         int    `json:"views"`
	Sequences     int    `json:"sequences"`
	Domains       int    `json:"domains"`
}

// FormatSize formats bytes into human-readable size
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
