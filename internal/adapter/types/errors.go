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

package types

import (
	"errors"
	"fmt"
)

// ErrNoSuchTable is matched by every NoSuchTableError.
var ErrNoSuchTable = errors.New("no such table")

// NoSuchTableError reports a table or view that does not exist.
type NoSuchTableError struct {
	Name string
}

func (e *NoSuchTableError) Error() string {
	return fmt.Sprintf("no such table: %s", e.Name)
}

// Is allows errors.Is(err, ErrNoSuchTable).
func (e *NoSuchTableError) Is(target error) bool {
	return target == ErrNoSuchTable
}

// IsNoSuchTable reports whether err is or wraps a NoSuchTableError.
func IsNoSuchTable(err error) bool {
	return errors.Is(err, ErrNoSuchTable)
}
