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
	"strings"
	"testing"
)

func TestGrantBuilder(t *testing.T) {
	d := DefaultFirebird()

	tests := []struct {
		name string
		b    *GrantBuilder
		want string
	}{
		{
			name: "table privileges",
			b:    d.NewGrant().Grant("select", "insert").OnTable("orders").To("reader"),
			want: "GRANT SELECT, INSERT ON TABLE orders TO reader",
		},
		{
			name: "with grant option",
			b:    d.NewGrant().Grant("ALL").OnTable("orders").To("writer").WithGrantOption(),
			want: "GRANT ALL ON TABLE orders TO writer WITH GRANT OPTION",
		},
		{
			name: "to role",
			b:    d.NewGrant().Grant("UPDATE").OnTable("orders").ToRole("writer"),
			want: "GRANT UPDATE ON TABLE orders TO ROLE writer",
		},
		{
			name: "to public",
			b:    d.NewGrant().Grant("SELECT").OnTable("orders").ToPublic(),
			want: "GRANT SELECT ON TABLE orders TO PUBLIC",
		},
		{
			name: "quoted grantee",
			b:    d.NewGrant().Grant("SELECT").OnTable("Orders").To("Alice"),
			want: `GRANT SELECT ON TABLE "Orders" TO "Alice"`,
		},
		{
			name: "execute procedure",
			b:    d.NewGrant().Grant("EXECUTE").OnProcedure("calc_totals").To("reader"),
			want: "GRANT EXECUTE ON PROCEDURE calc_totals TO reader",
		},
		{
			name: "execute function",
			b:    d.NewGrant().Grant("EXECUTE").OnFunction("f_tax").To("reader"),
			want: "GRANT EXECUTE ON FUNCTION f_tax TO reader",
		},
		{
			name: "usage on sequence",
			b:    d.NewGrant().Grant("USAGE").OnSequence("gen_emp").To("reader"),
			want: "GRANT USAGE ON SEQUENCE gen_emp TO reader",
		},
		{
			name: "revoke ignores grant option",
			b:    d.NewGrant().Revoke("DELETE").OnTable("orders").From("reader").WithGrantOption(),
			want: "REVOKE DELETE ON TABLE orders FROM reader",
		},
		{
			name: "grant role",
			b:    d.NewGrant().GrantRole("writer").To("alice").WithAdminOption(),
			want: "GRANT writer TO alice WITH ADMIN OPTION",
		},
		{
			name: "revoke role",
			b:    d.NewGrant().RevokeRole("writer").From("alice"),
			want: "REVOKE writer FROM alice",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.b.Build()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestGrantBuilderErrors(t *testing.T) {
	d := DefaultFirebird()
	v25 := fbVersion(2, 5)

	tests := []struct {
		name    string
		b       *GrantBuilder
		wantErr string
	}{
		{"no action", d.NewGrant().OnTable("t").To("u"), "no action specified"},
		{"invalid privilege", d.NewGrant().Grant("DROP").OnTable("t").To("u"), "invalid privilege"},
		{"no privileges", d.NewGrant().Grant().OnTable("t").To("u"), "no privileges specified"},
		{"no target", d.NewGrant().Grant("SELECT").To("u"), "no target object"},
		{"no grantee", d.NewGrant().Grant("SELECT").OnTable("t"), "no grantee"},
		{"usage on table", d.NewGrant().Grant("USAGE").OnTable("t").To("u"), "USAGE applies to sequences only"},
		{"execute on table", d.NewGrant().Grant("EXECUTE").OnTable("t").To("u"), "EXECUTE does not apply to tables"},
		{"sequence before 3.0", v25.NewGrant().Grant("USAGE").OnSequence("s").To("u"), "require Firebird 3.0"},
		{"function before 3.0", v25.NewGrant().Grant("EXECUTE").OnFunction("f").To("u"), "require Firebird 3.0"},
		{"role without grantee", d.NewGrant().GrantRole("writer"), "no grantee"},
		{"role without name", d.NewGrant().GrantRole("").To("u"), "no role specified"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.b.Build()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

// --- Roles and users ---------------------------------------------------------

func TestRoleBuilder(t *testing.T) {
	d := DefaultFirebird()

	tests := []struct {
		name string
		b    *RoleBuilder
		want string
	}{
		{"create role", d.NewCreateRole("writer"), "CREATE ROLE writer"},
		{"drop role", d.NewDropRole("Writer"), `DROP ROLE "Writer"`},
		{
			name: "create user",
			b:    d.NewCreateUser("alice").Password("s3cr'et").FirstName("Alice").Active(true).UsingPlugin("Srp"),
			want: "CREATE USER alice PASSWORD 's3cr''et' FIRSTNAME 'Alice' ACTIVE USING PLUGIN Srp",
		},
		{
			name: "alter user",
			b:    d.NewAlterUser("alice").LastName("Smith").Active(false).AdminRole(true),
			want: "ALTER USER alice LASTNAME 'Smith' INACTIVE GRANT ADMIN ROLE",
		},
		{
			name: "revoke admin role",
			b:    d.NewAlterUser("alice").AdminRole(false),
			want: "ALTER USER alice REVOKE ADMIN ROLE",
		},
		{
			name: "drop user with plugin",
			b:    d.NewDropUser("alice").UsingPlugin("Legacy_UserManager"),
			want: "DROP USER alice USING PLUGIN Legacy_UserManager",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.b.Build()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}

	q, err := d.CreateRole("reader")
	if err != nil || q != "CREATE ROLE reader" {
		t.Errorf("CreateRole() = %q, %v", q, err)
	}
	q, err = d.DropRole("reader")
	if err != nil || q != "DROP ROLE reader" {
		t.Errorf("DropRole() = %q, %v", q, err)
	}
}

func TestRoleBuilderErrors(t *testing.T) {
	d := DefaultFirebird()

	tests := []struct {
		name    string
		b       *RoleBuilder
		wantErr string
	}{
		{"no name", d.NewCreateRole(""), "requires a name"},
		{"user without password", d.NewCreateUser("alice"), "requires a password"},
		{"alter without options", d.NewAlterUser("alice"), "at least one option"},
		{"user before 3.0", fbVersion(2, 5).NewCreateUser("alice").Password("x"), "requires Firebird 3.0"},
		{"name too long", fbVersion(3, 0).NewCreateRole(strings.Repeat("r", 32)), "exceeds maximum length"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.b.Build()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
