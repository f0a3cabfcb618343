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

// grantAction distinguishes GRANT from REVOKE.
type grantAction int

const (
	actionNone grantAction = iota
	actionGrant
	actionRevoke
	actionGrantRole
	actionRevokeRole
)

// GrantBuilder builds GRANT and REVOKE statements for object privileges
// and role membership.
type GrantBuilder struct {
	dialect *Firebird
	action  grantAction

	// privileges (validated against allowlist on Build)
	privileges []string

	// object target, a fully-built ON ... clause
	target string

	grantee string
	role    string

	withGrantOption bool
	withAdminOption bool

	err error // sticky first error
}

// NewGrant returns a fresh GrantBuilder.
func (d *Firebird) NewGrant() *GrantBuilder {
	return &GrantBuilder{dialect: d}
}

// --- Action setters ------------------------------------------------------

// Grant starts a GRANT <privileges> statement.
func (b *GrantBuilder) Grant(privs ...string) *GrantBuilder {
	b.action = actionGrant
	b.privileges = privs
	return b
}

// Revoke starts a REVOKE <privileges> statement.
func (b *GrantBuilder) Revoke(privs ...string) *GrantBuilder {
	b.action = actionRevoke
	b.privileges = privs
	return b
}

// GrantRole starts a GRANT <role> TO <grantee> statement.
func (b *GrantBuilder) GrantRole(role string) *GrantBuilder {
	b.action = actionGrantRole
	b.role = role
	return b
}

// RevokeRole starts a REVOKE <role> FROM <grantee> statement.
func (b *GrantBuilder) RevokeRole(role string) *GrantBuilder {
	b.action = actionRevokeRole
	b.role = role
	return b
}

// --- Object target setters -----------------------------------------------

// OnTable targets a table or view.
func (b *GrantBuilder) OnTable(table string) *GrantBuilder {
	b.target = "ON TABLE " + b.dialect.QuoteIdentifier(table)
	return b
}

// OnProcedure targets a stored procedure.
func (b *GrantBuilder) OnProcedure(proc string) *GrantBuilder {
	b.target = "ON PROCEDURE " + b.dialect.QuoteIdentifier(proc)
	return b
}

// OnFunction targets a stored function (Firebird 3.0+).
func (b *GrantBuilder) OnFunction(fn string) *GrantBuilder {
	if !b.dialect.version.AtLeast(3, 0) {
		b.setErr(fmt.Errorf("sqlbuilder: privileges on functions require Firebird 3.0 or later"))
		return b
	}
	b.target = "ON FUNCTION " + b.dialect.QuoteIdentifier(fn)
	return b
}

// OnSequence targets a sequence (Firebird 3.0+).
func (b *GrantBuilder) OnSequence(seq string) *GrantBuilder {
	if !b.dialect.version.AtLeast(3, 0) {
		b.setErr(fmt.Errorf("sqlbuilder: privileges on sequences require Firebird 3.0 or later"))
		return b
	}
	b.target = "ON SEQUENCE " + b.dialect.QuoteIdentifier(seq)
	return b
}

// --- Grantee setters -----------------------------------------------------

// To sets the grantee.
func (b *GrantBuilder) To(grantee string) *GrantBuilder {
	b.grantee = b.dialect.QuoteIdentifier(grantee)
	return b
}

// ToRole sets a role as grantee.
func (b *GrantBuilder) ToRole(role string) *GrantBuilder {
	b.grantee = "ROLE " + b.dialect.QuoteIdentifier(role)
	return b
}

// ToPublic grants to PUBLIC.
func (b *GrantBuilder) ToPublic() *GrantBuilder {
	b.grantee = "PUBLIC"
	return b
}

// From sets the revokee.
func (b *GrantBuilder) From(grantee string) *GrantBuilder {
	return b.To(grantee)
}

// --- Options -------------------------------------------------------------

// WithGrantOption adds WITH GRANT OPTION to the statement.
func (b *GrantBuilder) WithGrantOption() *GrantBuilder {
	b.withGrantOption = true
	return b
}

// WithAdminOption adds WITH ADMIN OPTION to a role grant.
func (b *GrantBuilder) WithAdminOption() *GrantBuilder {
	b.withAdminOption = true
	return b
}

// --- Build ---------------------------------------------------------------

// Build assembles and returns the SQL statement.
func (b *GrantBuilder) Build() (string, error) {
	if b.err != nil {
		return "", b.err
	}

	switch b.action {
	case actionGrant:
		return b.buildGrantRevoke("GRANT", "TO")
	case actionRevoke:
		return b.buildGrantRevoke("REVOKE", "FROM")
	case actionGrantRole:
		return b.buildRoleGrant("GRANT", "TO")
	case actionRevokeRole:
		return b.buildRoleGrant("REVOKE", "FROM")
	default:
		return "", fmt.Errorf("sqlbuilder: no action specified")
	}
}

func (b *GrantBuilder) buildGrantRevoke(verb, preposition string) (string, error) {
	if err := ValidatePrivileges(b.privileges, b.dialect.ValidPrivileges()); err != nil {
		return "", err
	}
	if b.target == "" {
		return "", fmt.Errorf("sqlbuilder: no target object specified")
	}
	if b.grantee == "" {
		return "", fmt.Errorf("sqlbuilder: no grantee specified")
	}

	privList := normalizePrivileges(b.privileges)
	for _, p := range privList {
		if p == "USAGE" && !strings.HasPrefix(b.target, "ON SEQUENCE") {
			return "", fmt.Errorf("sqlbuilder: USAGE applies to sequences only")
		}
		if p == "EXECUTE" && strings.HasPrefix(b.target, "ON TABLE") {
			return "", fmt.Errorf("sqlbuilder: EXECUTE does not apply to tables")
		}
	}

	var sb strings.Builder
	sb.WriteString(verb)
	sb.WriteByte(' ')
	sb.WriteString(strings.Join(privList, ", "))
	sb.WriteByte(' ')
	sb.WriteString(b.target)
	sb.WriteByte(' ')
	sb.WriteString(preposition)
	sb.WriteByte(' ')
	sb.WriteString(b.grantee)
	if b.withGrantOption && verb == "GRANT" {
		sb.WriteString(" WITH GRANT OPTION")
	}
	return sb.String(), nil
}

func (b *GrantBuilder) buildRoleGrant(verb, preposition string) (string, error) {
	if b.role == "" {
		return "", fmt.Errorf("sqlbuilder: no role specified")
	}
	if b.grantee == "" {
		return "", fmt.Errorf("sqlbuilder: no grantee specified")
	}
	stmt := fmt.Sprintf("%s %s %s %s",
		verb,
		b.dialect.QuoteIdentifier(b.role),
		preposition,
		b.grantee)
	if b.withAdminOption && verb == "GRANT" {
		stmt += " WITH ADMIN OPTION"
	}
	return stmt, nil
}

func (b *GrantBuilder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}
