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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbdialect/internal/storage"
)

const settingsYAML = `
connection:
  host: fb.internal
  port: 3051
  database: /data/employee.fdb
  username: reporter
  password: secret
  authPlugin: Srp256
  wireCrypt: false
  isolationLevel: repeatable_read
  readOnly: true
  retries: 5
  params:
    lc_ctype: WIN1252
timeouts:
  query: 5s
  reflect: 2m
reflection:
  concurrency: 4
storage:
  backend: s3
  s3:
    bucket: schemas
    region: eu-central-1
snapshot:
  format: yaml
  compression: gzip
  prefix: nightly
`

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fbctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSettings_File(t *testing.T) {
	s, err := LoadSettings(writeSettings(t, settingsYAML))
	require.NoError(t, err)

	c := s.Connection
	assert.Equal(t, "fb.internal", c.Host)
	assert.Equal(t, int32(3051), c.Port)
	assert.Equal(t, "/data/employee.fdb", c.Database)
	assert.Equal(t, "reporter", c.Username)
	assert.Equal(t, "Srp256", c.AuthPlugin)
	require.NotNil(t, c.WireCrypt)
	assert.False(t, *c.WireCrypt)
	assert.Equal(t, "repeatable_read", c.IsolationLevel)
	assert.True(t, c.ReadOnly)
	assert.Equal(t, 5, c.Retries)
	assert.Equal(t, "WIN1252", c.Params["lc_ctype"])
	assert.Equal(t, DefaultCharset, c.Charset)

	assert.Equal(t, 5*time.Second, s.Timeouts.Query)
	assert.Equal(t, 2*time.Minute, s.Timeouts.Reflect)
	assert.Equal(t, 30*time.Second, s.Timeouts.Connect)
	assert.Equal(t, 4, s.Reflection.Concurrency)

	assert.Equal(t, storage.BackendS3, s.Storage.Backend)
	assert.Equal(t, "schemas", s.Storage.S3.Bucket)
	assert.Equal(t, "eu-central-1", s.Storage.S3.Region)
	assert.Equal(t, storage.FormatYAML, s.Snapshot.Format)
	assert.Equal(t, storage.CompressionGzip, s.Snapshot.Compression)
	assert.Equal(t, "nightly", s.Snapshot.Prefix)
}

func TestLoadSettings_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	s, err := LoadSettings("")
	require.NoError(t, err)

	assert.Empty(t, s.Connection.Host)
	assert.Equal(t, DefaultPort, s.Connection.Port)
	assert.Equal(t, DefaultUsername, s.Connection.Username)
	assert.Equal(t, DefaultCharset, s.Connection.Charset)
	assert.Nil(t, s.Connection.WireCrypt)
	assert.Equal(t, 3, s.Connection.Retries)
	assert.Equal(t, 2*time.Minute, s.Timeouts.Exec)
	assert.Equal(t, storage.BackendFile, s.Storage.Backend)
	assert.Equal(t, "snapshots", s.Storage.File.Dir)
	assert.Equal(t, storage.FormatJSON, s.Snapshot.Format)
	assert.Equal(t, storage.CompressionNone, s.Snapshot.Compression)
}

func TestLoadSettings_EnvOverride(t *testing.T) {
	t.Setenv("FBCTL_CONNECTION_HOST", "override.internal")
	t.Setenv("FBCTL_TIMEOUTS_QUERY", "9s")

	s, err := LoadSettings(writeSettings(t, settingsYAML))
	require.NoError(t, err)
	assert.Equal(t, "override.internal", s.Connection.Host)
	assert.Equal(t, 9*time.Second, s.Timeouts.Query)
	assert.Equal(t, "/data/employee.fdb", s.Connection.Database)
}

func TestLoadSettings_MissingExplicitFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadSettings_InvalidYAML(t *testing.T) {
	_, err := LoadSettings(writeSettings(t, "connection: [unterminated"))
	require.Error(t, err)
}

func TestSettings_Config(t *testing.T) {
	s, err := LoadSettings(writeSettings(t, settingsYAML))
	require.NoError(t, err)

	cfg, err := s.Config()
	require.NoError(t, err)
	assert.Equal(t, "fb.internal", cfg.Host)
	assert.Equal(t, int32(3051), cfg.Port)
	assert.Equal(t, "reporter", cfg.Username)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, 5, cfg.Retry.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.Timeouts.QueryTimeout)
	assert.Equal(t, 4, cfg.ReflectConcurrency)
	assert.True(t, cfg.ReadOnly)
}

func TestSettings_ConfigValidation(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	s, err := LoadSettings("")
	require.NoError(t, err)

	_, err = s.Config()
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "host", verr.Field)

	s.Connection.Host = "localhost"
	s.Connection.Database = "employee"
	s.Connection.IsolationLevel = "chaos"
	_, err = s.Config()
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "isolationLevel", verr.Field)

	s.Connection.IsolationLevel = ""
	_, err = s.Config()
	assert.NoError(t, err)
}
