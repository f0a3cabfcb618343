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
	"strconv"
	"strings"
	"time"

	"github.com/fbdialect/internal/adapter/types"
)

// Expression helpers return SQL fragments. Arguments are already-rendered
// fragments; use Col and Literal to build safe operands.

// Now renders the current timestamp.
func Now() string { return "CURRENT_TIMESTAMP" }

// CurrentTime renders the current time.
func CurrentTime() string { return "CURRENT_TIME" }

// CurrentDate renders the current date.
func CurrentDate() string { return "CURRENT_DATE" }

// Mod renders a modulo; Firebird has no % operator.
func Mod(a, b string) string {
	return fmt.Sprintf("mod(%s, %s)", a, b)
}

// Substring renders SUBSTRING(s FROM start [FOR length]).
func Substring(s, start string, length ...string) string {
	if len(length) > 0 && length[0] != "" {
		return fmt.Sprintf("SUBSTRING(%s FROM %s FOR %s)", s, start, length[0])
	}
	return fmt.Sprintf("SUBSTRING(%s FROM %s)", s, start)
}

// CharLength renders char_length(x).
func CharLength(x string) string {
	return "char_length(" + x + ")"
}

// Length is an alias of CharLength; Firebird counts characters.
func Length(x string) string {
	return CharLength(x)
}

// BinXor renders a bitwise exclusive or.
func BinXor(a, b string) string {
	return fmt.Sprintf("BIN_XOR(%s, %s)", a, b)
}

// IsDistinctFrom renders a IS [NOT] DISTINCT FROM b.
func IsDistinctFrom(a, b string, not bool) string {
	if not {
		return a + " IS NOT DISTINCT FROM " + b
	}
	return a + " IS DISTINCT FROM " + b
}

// Func renders a function call. Firebird context functions take no
// parentheses, so a call without arguments renders as the bare name.
func Func(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}
	return name + "(" + strings.Join(args, ", ") + ")"
}

// Concat joins fragments with the || operator.
func Concat(parts ...string) string {
	return strings.Join(parts, "||")
}

// Col renders a column reference, optionally qualified by table.
func (d *Firebird) Col(table, column string) string {
	if table == "" {
		return d.QuoteIdentifier(column)
	}
	return d.QuoteIdentifier(table) + "." + d.QuoteIdentifier(column)
}

// NextValue renders the next value of a sequence.
func (d *Firebird) NextValue(seq string) string {
	return fmt.Sprintf("gen_id(%s, 1)", d.QuoteIdentifier(seq))
}

// Cast renders CAST(expr AS type).
func (d *Firebird) Cast(expr string, t types.ColumnType) (string, error) {
	rendered, err := d.RenderType(t)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CAST(%s AS %s)", expr, rendered), nil
}

// Literal renders a Go value as an SQL literal. Booleans become 1 and 0
// because boolean columns are SMALLINT.
func (d *Firebird) Literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return d.EscapeLiteral(x)
	case bool:
		if x {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case time.Time:
		return d.EscapeLiteral(x.Format("2006-01-02 15:04:05.0000"))
	case fmt.Stringer:
		return d.EscapeLiteral(x.String())
	default:
		return d.EscapeLiteral(fmt.Sprint(x))
	}
}
