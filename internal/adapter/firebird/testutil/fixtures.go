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
	"github.com/fbdialect/internal/adapter/types"
)

const (
	// TestHost is the default test database host
	TestHost = "localhost"

	// TestPort is the default Firebird listener port
	TestPort = 3050

	// TestDatabase is the default test database path
	TestDatabase = "/var/lib/firebird/data/test.fdb"

	// TestUsername is the default test username
	TestUsername = "SYSDBA"

	// TestPassword is the default test password
	TestPassword = "testpassword123"

	// TestCharset is the default connection charset
	TestCharset = "UTF8"

	// TestRole is the default SQL role
	TestRole = "RDB$ADMIN"
)

// NewBasicConnectionConfig creates a basic ConnectionConfig for testing
func NewBasicConnectionConfig() types.ConnectionConfig {
	return types.ConnectionConfig{
		Host:     TestHost,
		Port:     TestPort,
		Database: TestDatabase,
		Username: TestUsername,
		Password: TestPassword,
	}
}

// DefaultConnectionConfig returns a standard test connection config
// suitable for most Firebird adapter tests.
func DefaultConnectionConfig() types.ConnectionConfig {
	wireCrypt := true
	return types.ConnectionConfig{
		Host:           TestHost,
		Port:           TestPort,
		Database:       TestDatabase,
		Username:       TestUsername,
		Password:       TestPassword,
		Charset:        TestCharset,
		Role:           TestRole,
		WireCrypt:      &wireCrypt,
		IsolationLevel: "READ COMMITTED",
	}
}

// ConnectionConfigWithIsolation returns a connection config using the
// given isolation level.
func ConnectionConfigWithIsolation(level string) types.ConnectionConfig {
	config := DefaultConnectionConfig()
	config.IsolationLevel = level
	return config
}

// IntegerColumn returns a column row for an INTEGER column.
func IntegerColumn(name string, notNull bool) []interface{} {
	return []interface{}{name, nullFlag(notNull), "LONG", 0, 4, 0, 0, nil, nil, nil, nil, nil}
}

// VarcharColumn returns a column row for a VARCHAR(length) column.
func VarcharColumn(name string, length int, notNull bool) []interface{} {
	return []interface{}{name, nullFlag(notNull), "VARYING", 0, length, nil, 0, nil, nil, nil, nil, nil}
}

// IdentityColumn returns a column row for an identity INTEGER column.
// identityType 0 is GENERATED ALWAYS, 1 is BY DEFAULT.
func IdentityColumn(name string, identityType, start, increment int) []interface{} {
	return []interface{}{name, 1, "LONG", 0, 4, 0, 0, nil, nil, identityType, start, increment}
}

func nullFlag(notNull bool) interface{} {
	if notNull {
		return 1
	}
	return nil
}
