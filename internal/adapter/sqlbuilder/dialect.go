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
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fbdialect/internal/adapter/types"
)

// DialectName is the name the dialect reports in error messages.
const DialectName = "firebird"

// Dialect abstracts SQL escaping and privilege validation.
type Dialect interface {
	EscapeIdentifier(s string) string
	EscapeLiteral(s string) string
	ValidPrivileges() map[string]bool
}

// Firebird implements Dialect for one Firebird server release. Reserved
// words and the identifier length limit follow the release.
type Firebird struct {
	version  types.ServerVersion
	reserved map[string]struct{}
}

// NewFirebird returns a dialect tuned for v. A zero version is treated as
// Firebird 4.0.
func NewFirebird(v types.ServerVersion) *Firebird {
	return &Firebird{version: v, reserved: reservedWordsFor(v)}
}

// DefaultFirebird returns the dialect used before a server version is known.
func DefaultFirebird() *Firebird {
	return NewFirebird(types.ServerVersion{})
}

func reservedWordsFor(v types.ServerVersion) map[string]struct{} {
	switch {
	case v.AtLeast(4, 0):
		return reservedWords40
	case v.AtLeast(3, 0):
		return reservedWords30
	case v.AtLeast(2, 5):
		return reservedWords25
	default:
		return initialReservedWords
	}
}

// Version returns the server version the dialect was built for.
func (d *Firebird) Version() types.ServerVersion {
	return d.version
}

// MaxIdentifierLength returns the identifier length limit of the release.
func (d *Firebird) MaxIdentifierLength() int {
	return d.version.MaxIdentifierLength()
}

// EscapeIdentifier wraps s in double quotes, doubling any embedded quotes.
func (d *Firebird) EscapeIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// EscapeLiteral wraps s in single quotes, doubling any embedded quotes.
// Backslashes carry no meaning in Firebird string literals.
func (d *Firebird) EscapeLiteral(s string) string {
	return `'` + strings.ReplaceAll(s, `'`, `''`) + `'`
}

// ValidPrivileges returns the set of valid Firebird privileges.
func (d *Firebird) ValidPrivileges() map[string]bool {
	return ValidFirebirdPrivileges
}

// IsReserved reports whether word is reserved in this release.
func (d *Firebird) IsReserved(word string) bool {
	_, ok := d.reserved[lower(word)]
	return ok
}

// RequiresQuotes reports whether s must be quoted to survive as written.
// Unquoted identifiers are folded to upper case by the server, so any
// name that is not entirely lower case is quoted.
func (d *Firebird) RequiresQuotes(s string) bool {
	if s == "" {
		return true
	}
	lc := lower(s)
	if _, ok := d.reserved[lc]; ok {
		return true
	}
	if isIllegalInitial(s[0]) {
		return true
	}
	for i := 0; i < len(s); i++ {
		if !isLegalChar(s[i]) {
			return true
		}
	}
	return lc != s
}

// QuoteIdentifier quotes s only when RequiresQuotes says so. A name
// already in delimited form is rendered as is. Schema qualification is
// never rendered; Firebird has no schemas.
func (d *Firebird) QuoteIdentifier(s string) string {
	if d.IsQuotedName(s) {
		return s
	}
	if d.RequiresQuotes(s) {
		return d.EscapeIdentifier(s)
	}
	return s
}

// NormalizeName converts a name as stored in the catalog into the form
// used by callers. Upper case names that need no quoting become lower
// case. A lower case name that was created quoted is returned in
// delimited form ("name"), so DenormalizeName maps it back to the exact
// stored spelling. Everything else is returned unchanged.
func (d *Firebird) NormalizeName(name string) string {
	if name == "" {
		return ""
	}
	lc := lower(name)
	if upper(name) == name && !d.RequiresQuotes(lc) {
		return lc
	}
	if lc == name && !d.RequiresQuotes(name) {
		return d.EscapeIdentifier(name)
	}
	return name
}

// IsQuotedName reports whether name is written in delimited form.
func (d *Firebird) IsQuotedName(name string) bool {
	return len(name) >= 2 && name[0] == '"' && name[len(name)-1] == '"'
}

// DenormalizeName converts a caller name into its catalog form.
func (d *Firebird) DenormalizeName(name string) string {
	if name == "" {
		return ""
	}
	if d.IsQuotedName(name) {
		return unquote(name)
	}
	if lower(name) == name && !d.RequiresQuotes(name) {
		return upper(name)
	}
	return name
}

// CanonicalName returns the form NormalizeName reports for the catalog
// entry a caller name refers to.
func (d *Firebird) CanonicalName(name string) string {
	return d.NormalizeName(d.DenormalizeName(name))
}

// CheckIdentifierLength returns an error when name is longer than the
// release allows.
func (d *Firebird) CheckIdentifierLength(name string) error {
	if d.IsQuotedName(name) {
		name = unquote(name)
	}
	if n := utf8.RuneCountInString(name); n > d.MaxIdentifierLength() {
		return fmt.Errorf("sqlbuilder: identifier %q exceeds maximum length of %d characters", name, d.MaxIdentifierLength())
	}
	return nil
}

// quoteName is QuoteIdentifier with an optional forced quote.
func (d *Firebird) quoteName(name string, force bool) string {
	if force && !d.IsQuotedName(name) {
		return d.EscapeIdentifier(name)
	}
	return d.QuoteIdentifier(name)
}

func unquote(name string) string {
	return strings.ReplaceAll(name[1:len(name)-1], `""`, `"`)
}

func isIllegalInitial(c byte) bool {
	return (c >= '0' && c <= '9') || c == '$' || c == '_'
}

func isLegalChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '$'
}

// A cases.Caser is stateful, so one is built per call.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}
