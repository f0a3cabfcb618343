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

package sqlbuilder

import (
	"fmt"
	"strings"
)

// ValidFirebirdPrivileges is the allowlist of Firebird object privileges.
var ValidFirebirdPrivileges = map[string]bool{
	"SELECT":         true,
	"INSERT":         true,
	"UPDATE":         true,
	"DELETE":         true,
	"REFERENCES":     true,
	"EXECUTE":        true,
	"USAGE":          true,
	"ALL":            true,
	"ALL PRIVILEGES": true,
}

// ValidatePrivileges checks that every privilege is in the allowlist.
// Returns an error listing the first invalid privilege found.
func ValidatePrivileges(privileges []string, allowlist map[string]bool) error {
	if len(privileges) == 0 {
		return fmt.Errorf("sqlbuilder: no privileges specified")
	}
	for _, p := range privileges {
		if !allowlist[strings.ToUpper(strings.TrimSpace(p))] {
			return fmt.Errorf("sqlbuilder: invalid privilege %q", p)
		}
	}
	return nil
}

// normalizePrivileges upper-cases and trims privileges.
func normalizePrivileges(privs []string) []string {
	out := make([]string, len(privs))
	for i, p := range privs {
		out[i] = strings.ToUpper(strings.TrimSpace(p))
	}
	return out
}
