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

package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/nakagami/firebirdsql"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultFirebirdImage is used when no image is configured.
	DefaultFirebirdImage = "firebirdsql/firebird:5"

	firebirdPort = "3050/tcp"
	dataDir      = "/var/lib/firebird/data"
)

// FirebirdContainerConfig holds configuration for starting a Firebird container
type FirebirdContainerConfig struct {
	Image    string // optional, uses default if empty
	Password string // SYSDBA password
	Database string // file name created under the data directory
	User     string // optional non-admin user
	UserPass string
}

// FirebirdContainer wraps a testcontainers Firebird server
type FirebirdContainer struct {
	container testcontainers.Container
	host      string
	port      int
	user      string
	password  string
	database  string
	mu        sync.Mutex
}

// StartFirebirdContainer starts a Firebird server with one database
func StartFirebirdContainer(ctx context.Context, cfg FirebirdContainerConfig) (*FirebirdContainer, error) {
	image := cfg.Image
	if image == "" {
		image = DefaultFirebirdImage
	}
	if cfg.Database == "" {
		cfg.Database = "test.fdb"
	}

	env := map[string]string{
		"FIREBIRD_ROOT_PASSWORD": cfg.Password,
		"FIREBIRD_DATABASE":      cfg.Database,
	}
	if cfg.User != "" {
		env["FIREBIRD_USER"] = cfg.User
		env["FIREBIRD_PASSWORD"] = cfg.UserPass
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{firebirdPort},
			Env:          env,
			WaitingFor:   wait.ForListeningPort(firebirdPort).WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start firebird: %w", err)
	}

	fc := &FirebirdContainer{
		container: container,
		user:      "SYSDBA",
		password:  cfg.Password,
		database:  dataDir + "/" + cfg.Database,
	}
	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get firebird host: %w", err)
	}
	port, err := container.MappedPort(ctx, firebirdPort)
	if err != nil {
		return nil, fmt.Errorf("failed to get firebird port: %w", err)
	}

	fc.host = host
	fc.port = port.Int()
	return fc, nil
}

// Stop terminates the container
func (fc *FirebirdContainer) Stop(ctx context.Context) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if fc.container != nil {
		return fc.container.Terminate(ctx)
	}
	return nil
}

// ConnectionInfo returns connection details
func (fc *FirebirdContainer) ConnectionInfo() (host string, port int, user, password, database string) {
	return fc.host, fc.port, fc.user, fc.password, fc.database
}

// WaitForReady waits until the database accepts connections, backing off
// exponentially up to five seconds between attempts.
func (fc *FirebirdContainer) WaitForReady(ctx context.Context) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	dsn := fmt.Sprintf("%s:%s@%s:%d/%s", fc.user, fc.password, fc.host, fc.port, fc.database)
	delay := 500 * time.Millisecond
	var err error
	for i := 0; i < 30; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var db *sql.DB
		db, err = sql.Open("firebirdsql", dsn)
		if err == nil {
			err = db.PingContext(ctx)
			db.Close()
			if err == nil {
				return nil
			}
		}

		time.Sleep(delay)
		delay = delay * 2
		if delay > 5*time.Second {
			delay = 5 * time.Second
		}
	}
	return fmt.Errorf("database not ready after %d retries: %w", 30, err)
}
