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
	"regexp"

	"github.com/go-logr/logr"
)

// ddlPattern matches the statements after which Firebird needs a commit
// before the new objects can be used.
var ddlPattern = regexp.MustCompile(`(?is)^\s*(CREATE|DROP)\s+(GLOBAL\s+TEMPORARY\s+TABLE|TABLE|(UNIQUE\s+)?((ASC|ASCENDING|DESC|DESCENDING)\s+)?INDEX)\b`)

// IsFlushableDDL reports whether stmt creates or drops a table or index.
func IsFlushableDDL(stmt string) bool {
	return ddlPattern.MatchString(stmt)
}

// Session runs statements on one pinned connection. In transactional mode
// pending DDL is committed before the next non-DDL statement.
type Session struct {
	conn       *sql.Conn
	tx         *sql.Tx
	mode       TxMode
	ddlPending bool
	log        logr.Logger
}

// NewSession pins a connection and, unless in autocommit mode, begins a
// transaction with the configured isolation level.
func (a *Adapter) NewSession(ctx context.Context) (*Session, error) {
	db, err := a.getDB()
	if err != nil {
		return nil, err
	}
	mode, err := ParseTxMode(a.config.IsolationLevel, a.config.ReadOnly)
	if err != nil {
		return nil, err
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	s := &Session{conn: conn, mode: mode, log: a.logger()}
	if !mode.Autocommit {
		if err := s.begin(ctx); err != nil {
			conn.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *Session) begin(ctx context.Context) error {
	opts := s.mode.Options
	tx, err := s.conn.BeginTx(ctx, &opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	s.tx = tx
	return nil
}

// Active reports whether a transaction is open.
func (s *Session) Active() bool {
	return s.tx != nil
}

// DDLPending reports whether uncommitted DDL awaits a flush.
func (s *Session) DDLPending() bool {
	return s.ddlPending
}

// Exec runs one statement.
func (s *Session) Exec(ctx context.Context, stmt string, args ...any) (sql.Result, error) {
	ddl := IsFlushableDDL(stmt)
	if !ddl && s.ddlPending {
		if err := s.flush(ctx); err != nil {
			return nil, err
		}
	}

	var (
		res sql.Result
		err error
	)
	if s.tx != nil {
		res, err = s.tx.ExecContext(ctx, stmt, args...)
	} else {
		res, err = s.conn.ExecContext(ctx, stmt, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to execute statement: %w", err)
	}
	if ddl && s.tx != nil {
		s.ddlPending = true
	}
	return res, nil
}

func (s *Session) flush(ctx context.Context) error {
	s.log.Info("Flushing DDL")
	if err := s.Commit(); err != nil {
		return err
	}
	return s.begin(ctx)
}

// Commit commits the open transaction, if any.
func (s *Session) Commit() error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	s.ddlPending = false
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Rollback rolls back the open transaction, if any.
func (s *Session) Rollback() error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	s.ddlPending = false
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("failed to rollback: %w", err)
	}
	return nil
}

// Close rolls back any open transaction and releases the connection.
func (s *Session) Close() error {
	rbErr := s.Rollback()
	if err := s.conn.Close(); err != nil {
		return err
	}
	return rbErr
}

// Exec runs statements in order inside one session and commits at the end.
// On failure the open transaction is rolled back.
func (a *Adapter) Exec(ctx context.Context, statements ...string) error {
	if len(statements) == 0 {
		return nil
	}
	s, err := a.NewSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	for i, stmt := range statements {
		if _, err := s.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("statement %d: %w", i+1, err)
		}
	}
	return s.Commit()
}
