/*
 * Copyright 2025 kestrel-data.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package query

import (
	"fmt"
	"strings"
)

// Constraint is one comparison applied to a single attribute, detached from
// the attribute itself. Constraints are immutable; Negate returns the exact
// opposite constraint, and applying it twice restores the original.
type Constraint interface {
	// Negate returns the opposite constraint.
	Negate() Constraint
	// String renders the constraint in query language form with a ?
	// placeholder per argument, e.g. "BETWEEN ? AND ?".
	String() string
	// Arguments returns the constraint's bind values in placeholder order.
	Arguments() []any
}

// Comparison is a single-operand constraint: =, <>, >, >=, <, <=.
type Comparison struct {
	op    Operator
	value any
}

// CompareWith builds a comparison from an operator and a value. The operator
// must be one of the six single-operand comparisons.
func CompareWith(op Operator, value any) Comparison {
	switch op {
	case Equal, NotEqual, GreaterThan, GreaterThanEqual, LessThan, LessThanEqual:
		return Comparison{op: op, value: value}
	default:
		panic(fmt.Sprintf("query: %v is not a single-operand comparison", op))
	}
}

// EqualTo matches attributes equal to the value.
func EqualTo(value any) Comparison { return Comparison{op: Equal, value: value} }

// NotEqualTo matches attributes different from the value.
func NotEqualTo(value any) Comparison { return Comparison{op: NotEqual, value: value} }

// GreaterThanValue matches attributes strictly above the value.
func GreaterThanValue(value any) Comparison { return Comparison{op: GreaterThan, value: value} }

// AtLeast matches attributes greater than or equal to the value.
func AtLeast(value any) Comparison { return Comparison{op: GreaterThanEqual, value: value} }

// LessThanValue matches attributes strictly below the value.
func LessThanValue(value any) Comparison { return Comparison{op: LessThan, value: value} }

// AtMost matches attributes less than or equal to the value.
func AtMost(value any) Comparison { return Comparison{op: LessThanEqual, value: value} }

// Operator returns the comparison operator.
func (c Comparison) Operator() Operator { return c.op }

// Value returns the comparison operand.
func (c Comparison) Value() any { return c.value }

func (c Comparison) Negate() Constraint { return Comparison{op: c.op.Negate(), value: c.value} }

func (c Comparison) Arguments() []any { return []any{c.value} }

func (c Comparison) String() string { return c.op.QueryLanguage() + " ?" }

// Membership matches attributes contained in (or absent from) a value set.
type Membership struct {
	negated bool
	values  []any
}

// InValues matches attributes equal to one of the values.
func InValues(values ...any) Membership {
	out := make([]any, len(values))
	copy(out, values)
	return Membership{values: out}
}

// NotInValues matches attributes equal to none of the values.
func NotInValues(values ...any) Membership {
	m := InValues(values...)
	m.negated = true
	return m
}

// Operator returns In or NotIn.
func (m Membership) Operator() Operator {
	if m.negated {
		return NotIn
	}
	return In
}

// Values returns a copy of the value set.
func (m Membership) Values() []any {
	out := make([]any, len(m.values))
	copy(out, m.values)
	return out
}

func (m Membership) Negate() Constraint {
	m.negated = !m.negated
	return m
}

func (m Membership) Arguments() []any { return m.Values() }

func (m Membership) String() string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(m.values)), ", ")
	return fmt.Sprintf("%s (%s)", m.Operator().QueryLanguage(), placeholders)
}

// Between matches attributes inside (or outside) an inclusive range.
type Between struct {
	negated bool
	lo, hi  any
}

// BetweenValues matches attributes in the inclusive range lo..hi.
func BetweenValues(lo, hi any) Between { return Between{lo: lo, hi: hi} }

// NotBetweenValues matches attributes outside the inclusive range lo..hi.
func NotBetweenValues(lo, hi any) Between { return Between{negated: true, lo: lo, hi: hi} }

// Bounds returns the inclusive lower and upper bound.
func (b Between) Bounds() (lo, hi any) { return b.lo, b.hi }

// IsNegated reports whether the range is excluded rather than required.
func (b Between) IsNegated() bool { return b.negated }

func (b Between) Negate() Constraint {
	b.negated = !b.negated
	return b
}

func (b Between) Arguments() []any { return []any{b.lo, b.hi} }

func (b Between) String() string {
	if b.negated {
		return "NOT BETWEEN ? AND ?"
	}
	return "BETWEEN ? AND ?"
}

// LikeConstraint matches text attributes against a LIKE pattern.
type LikeConstraint struct {
	negated bool
	pattern Pattern
}

// LikePattern matches attributes that satisfy the pattern.
func LikePattern(p Pattern) LikeConstraint { return LikeConstraint{pattern: p} }

// NotLikePattern matches attributes that do not satisfy the pattern.
func NotLikePattern(p Pattern) LikeConstraint { return LikeConstraint{negated: true, pattern: p} }

// Operator returns Like or NotLike.
func (l LikeConstraint) Operator() Operator {
	if l.negated {
		return NotLike
	}
	return Like
}

// Pattern returns the LIKE pattern.
func (l LikeConstraint) Pattern() Pattern { return l.pattern }

func (l LikeConstraint) Negate() Constraint {
	l.negated = !l.negated
	return l
}

func (l LikeConstraint) Arguments() []any { return []any{l.pattern.Value()} }

func (l LikeConstraint) String() string {
	s := l.Operator().QueryLanguage() + " ?"
	if l.pattern.UsesEscapes() {
		s += " ESCAPE '\\'"
	}
	return s
}

// NullConstraint matches attributes that are null (or not null).
type NullConstraint struct {
	negated bool
}

// IsNull matches attributes with no value.
func IsNull() NullConstraint { return NullConstraint{} }

// IsNotNull matches attributes with a value.
func IsNotNull() NullConstraint { return NullConstraint{negated: true} }

// IsNegated reports whether the constraint requires a value to be present.
func (n NullConstraint) IsNegated() bool { return n.negated }

func (n NullConstraint) Negate() Constraint {
	n.negated = !n.negated
	return n
}

func (n NullConstraint) Arguments() []any { return nil }

func (n NullConstraint) String() string {
	if n.negated {
		return "IS NOT NULL"
	}
	return "IS NULL"
}
