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
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/kestrel-data/kestrel/types"
)

// This file implements the query-by-method-name convention: a method name
// such as
//
//	FindFirst5ByTitleLikeAndPriceGreaterThanOrderByPriceDescTitleAsc
//
// is parsed into a DerivedQuery holding the action, the result limit, an
// OR-of-AND-groups condition tree with argument placeholders, and the sort
// criteria. Binding runtime arguments to the placeholders yields a
// Restriction ready for rendering.
//
// Grammar (conditions are property names in UpperCamelCase):
//
//	method    = subject "By" predicate [ "OrderBy" order ]
//	subject   = ("Find" ["First" [digits]] | "Count" | "Exists" | "Delete" | "Update")
//	predicate = condition { ("And" | "Or") condition }   (And binds tighter)
//	condition = property [ "IgnoreCase" ] [ keyword ] [ "IgnoreCase" ]
//	order     = { property [ "Asc" | "Desc" ] [ "IgnoreCase" ] }
//
// Property names that themselves end in a keyword ("CheckIn", "Brand") are
// ambiguous, as in every implementation of this convention; declare such
// conditions through the restriction API instead.

// Action is the subject of a derived query.
type Action int

const (
	ActionFind Action = iota
	ActionCount
	ActionExists
	ActionDelete
	ActionUpdate
)

func (a Action) String() string {
	switch a {
	case ActionFind:
		return "find"
	case ActionCount:
		return "count"
	case ActionExists:
		return "exists"
	case ActionDelete:
		return "delete"
	case ActionUpdate:
		return "update"
	default:
		return types.IllegalName
	}
}

// ConditionKind identifies the comparison of one derived condition.
type ConditionKind int

const (
	CondEqual ConditionKind = iota
	CondNotEqual
	CondGreaterThan
	CondGreaterThanEqual
	CondLessThan
	CondLessThanEqual
	CondBetween
	CondNotBetween
	CondIn
	CondNotIn
	CondLike
	CondNotLike
	CondContains
	CondNotContains
	CondStartsWith
	CondEndsWith
	CondNull
	CondNotNull
	CondTrue
	CondFalse
)

// ArgCount returns how many method arguments the condition consumes.
func (k ConditionKind) ArgCount() int {
	switch k {
	case CondBetween, CondNotBetween:
		return 2
	case CondNull, CondNotNull, CondTrue, CondFalse:
		return 0
	default:
		return 1
	}
}

// keyword suffixes ordered so that longer keywords match before their
// prefixes (GreaterThanEqual before GreaterThan, NotLike before Like).
var conditionKeywords = []struct {
	suffix string
	kind   ConditionKind
}{
	{"GreaterThanEqual", CondGreaterThanEqual},
	{"GreaterThan", CondGreaterThan},
	{"LessThanEqual", CondLessThanEqual},
	{"LessThan", CondLessThan},
	{"NotBetween", CondNotBetween},
	{"Between", CondBetween},
	{"NotIn", CondNotIn},
	{"In", CondIn},
	{"NotLike", CondNotLike},
	{"Like", CondLike},
	{"NotContains", CondNotContains},
	{"Contains", CondContains},
	{"StartsWith", CondStartsWith},
	{"EndsWith", CondEndsWith},
	{"NotNull", CondNotNull},
	{"Null", CondNull},
	{"True", CondTrue},
	{"False", CondFalse},
}

// DerivedCondition is one parsed comparison of a derived query.
type DerivedCondition struct {
	// Property is the attribute name as written, e.g. "FirstName".
	Property string
	// Column is the snake_case column derived from the property.
	Column string
	// Kind is the comparison to perform.
	Kind ConditionKind
	// IgnoreCase folds text comparison.
	IgnoreCase bool
	// FirstArg is the index of the condition's first method argument.
	FirstArg int
}

// DerivedQuery is the tagged-union AST produced by ParseMethodName.
type DerivedQuery struct {
	// Action is the query subject.
	Action Action
	// First caps the number of results; 0 means no cap.
	First int
	// Groups is the condition tree: the groups combine with OR, the
	// conditions inside one group with AND.
	Groups [][]DerivedCondition
	// Sorts holds the trailing OrderBy criteria.
	Sorts types.Order
	// ParamCount is the number of method arguments the query consumes.
	ParamCount int
}

// ParseMethodName parses a query-by-method-name identifier. Both Java-style
// lowerCamel ("findByName") and Go-style UpperCamel ("FindByName") spellings
// are accepted.
func ParseMethodName(name string) (*DerivedQuery, error) {
	if name == "" {
		return nil, fmt.Errorf("query: method name must not be empty")
	}
	words := splitCamel(upperFirst(name))

	q := &DerivedQuery{}
	rest, err := q.parseSubject(words)
	if err != nil {
		return nil, err
	}

	predicate, order := splitAtOrderBy(rest)
	if len(predicate) == 0 {
		return nil, fmt.Errorf("query: method %q has no conditions after By", name)
	}
	if err := q.parsePredicate(predicate); err != nil {
		return nil, fmt.Errorf("query: method %q: %w", name, err)
	}
	if err := q.parseOrder(order); err != nil {
		return nil, fmt.Errorf("query: method %q: %w", name, err)
	}
	return q, nil
}

func (q *DerivedQuery) parseSubject(words []string) ([]string, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("query: empty method name")
	}
	switch words[0] {
	case "Find":
		q.Action = ActionFind
		words = words[1:]
		if len(words) > 0 && words[0] == "First" {
			words = words[1:]
			q.First = 1
			if len(words) > 0 && isDigits(words[0]) {
				n, err := strconv.Atoi(words[0])
				if err != nil || n < 1 {
					return nil, fmt.Errorf("query: invalid First count %q", words[0])
				}
				q.First = n
				words = words[1:]
			}
		}
	case "Count":
		q.Action = ActionCount
		words = words[1:]
	case "Exists":
		q.Action = ActionExists
		words = words[1:]
	case "Delete":
		q.Action = ActionDelete
		words = words[1:]
	case "Update":
		q.Action = ActionUpdate
		words = words[1:]
	default:
		return nil, fmt.Errorf("query: unknown method subject %q", words[0])
	}
	if len(words) == 0 || words[0] != "By" {
		return nil, fmt.Errorf("query: method subject must be followed by By")
	}
	return words[1:], nil
}

func splitAtOrderBy(words []string) (predicate, order []string) {
	for i := 0; i+1 < len(words); i++ {
		if words[i] == "Order" && words[i+1] == "By" {
			return words[:i], words[i+2:]
		}
	}
	return words, nil
}

func (q *DerivedQuery) parsePredicate(words []string) error {
	group := make([]DerivedCondition, 0, 2)
	segment := make([]string, 0, 4)

	flushCondition := func() error {
		if len(segment) == 0 {
			return fmt.Errorf("empty condition")
		}
		cond, err := parseCondition(strings.Join(segment, ""), q.ParamCount)
		if err != nil {
			return err
		}
		q.ParamCount += cond.Kind.ArgCount()
		group = append(group, cond)
		segment = segment[:0]
		return nil
	}

	for _, w := range words {
		switch w {
		case "And":
			if err := flushCondition(); err != nil {
				return err
			}
		case "Or":
			if err := flushCondition(); err != nil {
				return err
			}
			q.Groups = append(q.Groups, group)
			group = make([]DerivedCondition, 0, 2)
		default:
			segment = append(segment, w)
		}
	}
	if err := flushCondition(); err != nil {
		return err
	}
	q.Groups = append(q.Groups, group)
	return nil
}

func parseCondition(segment string, firstArg int) (DerivedCondition, error) {
	cond := DerivedCondition{Kind: CondEqual, FirstArg: firstArg}

	if s, ok := strings.CutSuffix(segment, "IgnoreCase"); ok && s != "" {
		cond.IgnoreCase = true
		segment = s
	}
	for _, kw := range conditionKeywords {
		if s, ok := strings.CutSuffix(segment, kw.suffix); ok && s != "" {
			cond.Kind = kw.kind
			segment = s
			break
		}
	}
	if s, ok := strings.CutSuffix(segment, "IgnoreCase"); ok && s != "" {
		cond.IgnoreCase = true
		segment = s
	}
	if cond.Kind == CondEqual {
		if s, ok := strings.CutSuffix(segment, "Not"); ok && s != "" {
			cond.Kind = CondNotEqual
			segment = s
		}
	}
	if segment == "" {
		return cond, fmt.Errorf("condition has no property name")
	}
	cond.Property = segment
	cond.Column = camelToSnake(segment)
	return cond, nil
}

func (q *DerivedQuery) parseOrder(words []string) error {
	property := make([]string, 0, 3)
	i := 0
	flushSort := func(direction types.Direction, fold bool) error {
		if len(property) == 0 {
			return fmt.Errorf("OrderBy direction without a property")
		}
		column := camelToSnake(strings.Join(property, ""))
		q.Sorts = append(q.Sorts, types.SortBy(column, direction, fold))
		property = property[:0]
		return nil
	}
	for i < len(words) {
		switch words[i] {
		case "Asc", "Desc":
			direction := types.DirectionAsc
			if words[i] == "Desc" {
				direction = types.DirectionDesc
			}
			fold := false
			if i+2 < len(words) && words[i+1] == "Ignore" && words[i+2] == "Case" {
				fold = true
				i += 2
			}
			if err := flushSort(direction, fold); err != nil {
				return err
			}
		default:
			property = append(property, words[i])
		}
		i++
	}
	if len(property) > 0 {
		return flushSort(types.DirectionAsc, false)
	}
	return nil
}

// Restriction binds the method arguments to the placeholders and returns the
// resulting restriction tree. The argument count must match ParamCount; In
// and NotIn conditions take a slice argument.
func (q *DerivedQuery) Restriction(args ...any) (Restriction, error) {
	if len(args) != q.ParamCount {
		return nil, fmt.Errorf("query: derived query takes %d arguments, got %d", q.ParamCount, len(args))
	}
	groups := make([]Restriction, 0, len(q.Groups))
	for _, group := range q.Groups {
		members := make([]Restriction, 0, len(group))
		for _, cond := range group {
			r, err := cond.restriction(args)
			if err != nil {
				return nil, err
			}
			members = append(members, r)
		}
		if len(members) == 1 {
			groups = append(groups, members[0])
		} else {
			groups = append(groups, RestrictAll(members...))
		}
	}
	switch len(groups) {
	case 0:
		return Unrestricted(), nil
	case 1:
		return groups[0], nil
	default:
		return RestrictAny(groups...), nil
	}
}

func (c DerivedCondition) restriction(args []any) (Restriction, error) {
	basic := func(constraint Constraint) Restriction {
		r := Restrict(c.Column, constraint)
		if c.IgnoreCase {
			r = r.IgnoreCase()
		}
		return r
	}
	arg := func(i int) any { return args[c.FirstArg+i] }

	switch c.Kind {
	case CondEqual:
		return basic(EqualTo(arg(0))), nil
	case CondNotEqual:
		return basic(NotEqualTo(arg(0))), nil
	case CondGreaterThan:
		return basic(GreaterThanValue(arg(0))), nil
	case CondGreaterThanEqual:
		return basic(AtLeast(arg(0))), nil
	case CondLessThan:
		return basic(LessThanValue(arg(0))), nil
	case CondLessThanEqual:
		return basic(AtMost(arg(0))), nil
	case CondBetween:
		return basic(BetweenValues(arg(0), arg(1))), nil
	case CondNotBetween:
		return basic(NotBetweenValues(arg(0), arg(1))), nil
	case CondIn, CondNotIn:
		values, err := expandSlice(arg(0))
		if err != nil {
			return nil, fmt.Errorf("query: condition on %q: %w", c.Property, err)
		}
		if c.Kind == CondIn {
			return basic(InValues(values...)), nil
		}
		return basic(NotInValues(values...)), nil
	case CondLike:
		return basic(LikePattern(PatternOf(toString(arg(0))))), nil
	case CondNotLike:
		return basic(NotLikePattern(PatternOf(toString(arg(0))))), nil
	case CondContains:
		return basic(LikePattern(Contains(toString(arg(0))))), nil
	case CondNotContains:
		return basic(NotLikePattern(Contains(toString(arg(0))))), nil
	case CondStartsWith:
		return basic(LikePattern(StartsWith(toString(arg(0))))), nil
	case CondEndsWith:
		return basic(LikePattern(EndsWith(toString(arg(0))))), nil
	case CondNull:
		return basic(IsNull()), nil
	case CondNotNull:
		return basic(IsNotNull()), nil
	case CondTrue:
		return basic(EqualTo(true)), nil
	case CondFalse:
		return basic(EqualTo(false)), nil
	default:
		return nil, fmt.Errorf("query: unknown condition kind %d", c.Kind)
	}
}

func expandSlice(arg any) ([]any, error) {
	v := reflect.ValueOf(arg)
	if !v.IsValid() || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) {
		return nil, fmt.Errorf("In conditions take a slice argument, got %T", arg)
	}
	out := make([]any, v.Len())
	for i := range out {
		out[i] = v.Index(i).Interface()
	}
	return out, nil
}

func toString(arg any) string {
	if s, ok := arg.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", arg)
}

// splitCamel breaks a camel case identifier into words; digit runs form
// their own word ("First10By" -> "First", "10", "By").
func splitCamel(s string) []string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}
	var prev rune
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			flush()
		case unicode.IsDigit(r) && !unicode.IsDigit(prev):
			flush()
		case !unicode.IsDigit(r) && unicode.IsDigit(prev):
			flush()
		}
		current = append(current, r)
		prev = r
	}
	flush()
	return words
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// camelToSnake converts "FirstName" or "firstName" to "first_name".
func camelToSnake(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
