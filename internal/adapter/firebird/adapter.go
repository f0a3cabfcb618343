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

package firebird

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	_ "github.com/nakagami/firebirdsql"

	"github.com/fbdialect/internal/adapter/sqlbuilder"
	"github.com/fbdialect/internal/adapter/types"
)

// DriverName is the database/sql driver registered by nakagami/firebirdsql.
const DriverName = "firebirdsql"

// engineVersionQuery reads the server release, e.g. "4.0.2".
const engineVersionQuery = "SELECT rdb$get_context('SYSTEM', 'ENGINE_VERSION') FROM rdb$database"

// Adapter implements the DatabaseAdapter interface for Firebird
type Adapter struct {
	config types.ConnectionConfig
	db     *sql.DB
	mu     sync.RWMutex

	// version is zero until the server has been asked; dialect follows it.
	version types.ServerVersion
	dialect *sqlbuilder.Firebird

	log         logr.Logger
	observer    QueryObserver
	concurrency int
}

// NewAdapter creates a new Firebird adapter
func NewAdapter(config types.ConnectionConfig) *Adapter {
	return &Adapter{
		config:      config,
		dialect:     sqlbuilder.DefaultFirebird(),
		log:         logr.Discard(),
		concurrency: DefaultReflectConcurrency,
	}
}

// WithLogger sets the logger used for warnings and DDL flushes.
func (a *Adapter) WithLogger(log logr.Logger) *Adapter {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.log = log.WithName("firebird")
	return a
}

// Connect establishes a connection to the Firebird server and detects
// its release.
func (a *Adapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.db != nil {
		return nil // Already connected
	}

	dsn, err := BuildDSN(a.config)
	if err != nil {
		return fmt.Errorf("failed to build DSN: %w", err)
	}
	if a.config.ClientLibrary != "" {
		a.log.V(1).Info("Client library ignored by the pure Go driver", "library", a.config.ClientLibrary)
	}

	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = db
	if _, err := a.detectVersionLocked(ctx); err != nil {
		a.log.Error(err, "Could not detect server version, assuming default", "assumed", types.DefaultServerVersion.String())
	}
	return nil
}

// Close closes the database connection
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.db != nil {
		err := a.db.Close()
		a.db = nil
		return err
	}
	return nil
}

// Ping checks if the database connection is alive
func (a *Adapter) Ping(ctx context.Context) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.db == nil {
		return fmt.Errorf("not connected")
	}
	return a.db.PingContext(ctx)
}

// GetVersion returns the raw engine version reported by the server
func (a *Adapter) GetVersion(ctx context.Context) (string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.db == nil {
		return "", fmt.Errorf("not connected")
	}

	var version sql.NullString
	err := a.db.QueryRowContext(ctx, engineVersionQuery).Scan(&version)
	if err != nil {
		return "", fmt.Errorf("failed to get version: %w", err)
	}
	return version.String, nil
}

// ServerVersion returns the parsed server release. The first successful
// lookup is cached and re-tunes the dialect.
func (a *Adapter) ServerVersion(ctx context.Context) (types.ServerVersion, error) {
	a.mu.RLock()
	v := a.version
	a.mu.RUnlock()
	if !v.IsZero() {
		return v, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.db == nil {
		return types.ServerVersion{}, fmt.Errorf("not connected")
	}
	return a.detectVersionLocked(ctx)
}

func (a *Adapter) detectVersionLocked(ctx context.Context) (types.ServerVersion, error) {
	if !a.version.IsZero() {
		return a.version, nil
	}
	var raw sql.NullString
	if err := a.db.QueryRowContext(ctx, engineVersionQuery).Scan(&raw); err != nil {
		return types.ServerVersion{}, fmt.Errorf("failed to get version: %w", err)
	}
	v, err := types.FromEngineVersion(raw.String)
	if err != nil {
		return types.ServerVersion{}, fmt.Errorf("failed to parse version: %w", err)
	}
	a.setVersionLocked(v)
	return v, nil
}

func (a *Adapter) setVersionLocked(v types.ServerVersion) {
	a.version = v
	a.dialect = sqlbuilder.NewFirebird(v)
}

// SetServerVersion pins the server release, e.g. to render DDL for a
// server that is not reachable.
func (a *Adapter) SetServerVersion(v types.ServerVersion) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.setVersionLocked(v)
}

// Dialect returns the SQL dialect tuned for the detected server release.
func (a *Adapter) Dialect() *sqlbuilder.Firebird {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.dialect
}

// Config returns the connection configuration.
func (a *Adapter) Config() types.ConnectionConfig {
	return a.config
}

// getDB returns the database connection (thread-safe)
func (a *Adapter) getDB() (*sql.DB, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.db == nil {
		return nil, fmt.Errorf("not connected")
	}
	return a.db, nil
}

func (a *Adapter) logger() logr.Logger {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.log
}

var _ types.DatabaseAdapter = (*Adapter)(nil)
