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
	"database/sql"
	"fmt"
	"strings"
)

// Isolation level names accepted in ConnectionConfig.IsolationLevel.
const (
	IsolationAutocommit     = "AUTOCOMMIT"
	IsolationReadCommitted  = "READ COMMITTED"
	IsolationRepeatableRead = "REPEATABLE READ"
	IsolationSerializable   = "SERIALIZABLE"
)

var isolationLookup = map[string]sql.IsolationLevel{
	IsolationReadCommitted:  sql.LevelReadCommitted,
	IsolationRepeatableRead: sql.LevelRepeatableRead,
	IsolationSerializable:   sql.LevelSerializable,
}

// IsolationLevelValues lists the accepted isolation level names.
func IsolationLevelValues() []string {
	return []string{IsolationAutocommit, IsolationReadCommitted, IsolationRepeatableRead, IsolationSerializable}
}

// TxMode is the resolved transaction behaviour of a session.
type TxMode struct {
	// Autocommit runs statements without an explicit transaction.
	Autocommit bool
	Options    sql.TxOptions
}

// ParseTxMode resolves an isolation level name. An empty name means the
// driver default, READ COMMITTED in a transaction.
func ParseTxMode(level string, readOnly bool) (TxMode, error) {
	name := strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(level, "_", " ")))
	if name == "" {
		name = IsolationReadCommitted
	}
	if name == IsolationAutocommit {
		return TxMode{Autocommit: true, Options: sql.TxOptions{ReadOnly: readOnly}}, nil
	}
	iso, ok := isolationLookup[name]
	if !ok {
		return TxMode{}, fmt.Errorf("invalid isolation level %q, valid levels are: %s",
			level, strings.Join(IsolationLevelValues(), ", "))
	}
	return TxMode{Options: sql.TxOptions{Isolation: iso, ReadOnly: readOnly}}, nil
}
