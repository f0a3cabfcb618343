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

// RoleBuilder builds CREATE ROLE, DROP ROLE, CREATE USER, ALTER USER and
// DROP USER statements. SQL user management requires Firebird 3.0.
type RoleBuilder struct {
	dialect *Firebird
	action  string // "CREATE ROLE", "DROP ROLE", "CREATE USER", "ALTER USER", "DROP USER"
	name    string

	password  string
	firstName string
	lastName  string
	plugin    string
	active    *bool
	admin     *bool
}

// NewCreateRole starts a CREATE ROLE statement.
func (d *Firebird) NewCreateRole(name string) *RoleBuilder {
	return &RoleBuilder{dialect: d, action: "CREATE ROLE", name: name}
}

// NewDropRole starts a DROP ROLE statement.
func (d *Firebird) NewDropRole(name string) *RoleBuilder {
	return &RoleBuilder{dialect: d, action: "DROP ROLE", name: name}
}

// NewCreateUser starts a CREATE USER statement.
func (d *Firebird) NewCreateUser(name string) *RoleBuilder {
	return &RoleBuilder{dialect: d, action: "CREATE USER", name: name}
}

// NewAlterUser starts an ALTER USER statement.
func (d *Firebird) NewAlterUser(name string) *RoleBuilder {
	return &RoleBuilder{dialect: d, action: "ALTER USER", name: name}
}

// NewDropUser starts a DROP USER statement.
func (d *Firebird) NewDropUser(name string) *RoleBuilder {
	return &RoleBuilder{dialect: d, action: "DROP USER", name: name}
}

// CreateRole renders CREATE ROLE name.
func (d *Firebird) CreateRole(name string) (string, error) {
	return d.NewCreateRole(name).Build()
}

// DropRole renders DROP ROLE name.
func (d *Firebird) DropRole(name string) (string, error) {
	return d.NewDropRole(name).Build()
}

// --- Option setters ---

// Password sets PASSWORD.
func (b *RoleBuilder) Password(pw string) *RoleBuilder {
	b.password = pw
	return b
}

// FirstName sets FIRSTNAME.
func (b *RoleBuilder) FirstName(v string) *RoleBuilder {
	b.firstName = v
	return b
}

// LastName sets LASTNAME.
func (b *RoleBuilder) LastName(v string) *RoleBuilder {
	b.lastName = v
	return b
}

// Active adds ACTIVE or INACTIVE.
func (b *RoleBuilder) Active(v bool) *RoleBuilder {
	b.active = &v
	return b
}

// AdminRole adds GRANT ADMIN ROLE or REVOKE ADMIN ROLE.
func (b *RoleBuilder) AdminRole(v bool) *RoleBuilder {
	b.admin = &v
	return b
}

// UsingPlugin selects the user manager plugin, e.g. Srp or Legacy_UserManager.
func (b *RoleBuilder) UsingPlugin(plugin string) *RoleBuilder {
	b.plugin = plugin
	return b
}

// Build assembles the statement.
func (b *RoleBuilder) Build() (string, error) {
	d := b.dialect
	if b.name == "" {
		return "", fmt.Errorf("sqlbuilder: %s requires a name", b.action)
	}
	if err := d.CheckIdentifierLength(b.name); err != nil {
		return "", err
	}

	switch b.action {
	case "CREATE ROLE":
		return "CREATE ROLE " + d.QuoteIdentifier(b.name), nil
	case "DROP ROLE":
		return b.buildDrop("DROP ROLE"), nil
	}

	if !d.version.AtLeast(3, 0) {
		return "", fmt.Errorf("sqlbuilder: %s requires Firebird 3.0 or later", b.action)
	}
	switch b.action {
	case "CREATE USER":
		if b.password == "" {
			return "", fmt.Errorf("sqlbuilder: CREATE USER requires a password")
		}
		return b.buildUser(), nil
	case "ALTER USER":
		stmt := b.buildUser()
		if stmt == "ALTER USER "+d.QuoteIdentifier(b.name) {
			return "", fmt.Errorf("sqlbuilder: ALTER USER requires at least one option")
		}
		return stmt, nil
	case "DROP USER":
		stmt := b.buildDrop("DROP USER")
		if b.plugin != "" {
			stmt += " USING PLUGIN " + b.plugin
		}
		return stmt, nil
	default:
		return "", fmt.Errorf("sqlbuilder: unknown role action %q", b.action)
	}
}

func (b *RoleBuilder) buildUser() string {
	d := b.dialect
	var sb strings.Builder
	sb.WriteString(b.action)
	sb.WriteByte(' ')
	sb.WriteString(d.QuoteIdentifier(b.name))

	var opts []string
	if b.password != "" {
		opts = append(opts, "PASSWORD "+d.EscapeLiteral(b.password))
	}
	if b.firstName != "" {
		opts = append(opts, "FIRSTNAME "+d.EscapeLiteral(b.firstName))
	}
	if b.lastName != "" {
		opts = append(opts, "LASTNAME "+d.EscapeLiteral(b.lastName))
	}
	if b.active != nil {
		if *b.active {
			opts = append(opts, "ACTIVE")
		} else {
			opts = append(opts, "INACTIVE")
		}
	}
	if b.plugin != "" {
		// plugin names are configuration keys, not identifiers
		opts = append(opts, "USING PLUGIN "+b.plugin)
	}
	if b.admin != nil {
		if *b.admin {
			opts = append(opts, "GRANT ADMIN ROLE")
		} else {
			opts = append(opts, "REVOKE ADMIN ROLE")
		}
	}
	if len(opts) > 0 {
		sb.WriteByte(' ')
		sb.WriteString(strings.Join(opts, " "))
	}
	return sb.String()
}

func (b *RoleBuilder) buildDrop(verb string) string {
	var sb strings.Builder
	sb.WriteString(verb)
	sb.WriteByte(' ')
	sb.WriteString(b.dialect.QuoteIdentifier(b.name))
	return sb.String()
}
