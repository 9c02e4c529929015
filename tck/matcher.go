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

package tck

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/kestrel-data/kestrel/query"
)

// Matches evaluates a restriction tree against an in-memory entity. It is
// the provider-independent oracle of the conformance kit: a provider's query
// results can be checked row by row against what Matches says.
func Matches(entity any, r query.Restriction) (bool, error) {
	switch v := r.(type) {
	case nil:
		return true, nil
	case query.BasicRestriction:
		return matchBasic(entity, v)
	case query.CompositeRestriction:
		return matchComposite(entity, v)
	default:
		// The unrestricted and unmatchable singletons render to constant
		// truth values.
		switch r.String() {
		case "1 = 1":
			return true, nil
		case "1 = 0":
			return false, nil
		}
		return false, fmt.Errorf("tck: unknown restriction type %T", r)
	}
}

func matchComposite(entity any, r query.CompositeRestriction) (bool, error) {
	result := r.Type() == query.All
	for _, member := range r.Members() {
		ok, err := Matches(entity, member)
		if err != nil {
			return false, err
		}
		if r.Type() == query.All {
			result = result && ok
		} else {
			result = result || ok
		}
	}
	if r.IsNegated() {
		return !result, nil
	}
	return result, nil
}

func matchBasic(entity any, r query.BasicRestriction) (bool, error) {
	value, isNull, err := fieldValue(entity, r.Attribute())
	if err != nil {
		return false, err
	}

	switch c := r.Constraint().(type) {
	case query.NullConstraint:
		if c.IsNegated() {
			return !isNull, nil
		}
		return isNull, nil

	case query.Comparison:
		if isNull {
			return false, nil
		}
		return evalComparison(c.Operator(), value, c.Value(), r.IgnoresCase())

	case query.Membership:
		if isNull {
			return false, nil
		}
		found := false
		for _, candidate := range c.Values() {
			eq, err := equalValues(value, candidate, r.IgnoresCase())
			if err != nil {
				return false, err
			}
			if eq {
				found = true
				break
			}
		}
		if c.Operator() == query.NotIn {
			return !found, nil
		}
		return found, nil

	case query.Between:
		if isNull {
			return false, nil
		}
		lo, hi := c.Bounds()
		cmpLo, err := compareValues(value, lo, false)
		if err != nil {
			return false, err
		}
		cmpHi, err := compareValues(value, hi, false)
		if err != nil {
			return false, err
		}
		within := cmpLo >= 0 && cmpHi <= 0
		if c.IsNegated() {
			return !within, nil
		}
		return within, nil

	case query.LikeConstraint:
		if isNull {
			return false, nil
		}
		s, ok := value.(string)
		if !ok {
			return false, fmt.Errorf("tck: LIKE applied to non-string column %q", r.Attribute())
		}
		pattern := c.Pattern()
		fold := r.IgnoresCase() || !pattern.IsCaseSensitive()
		re, err := likeRegexp(pattern.Value(), fold)
		if err != nil {
			return false, err
		}
		matched := re.MatchString(s)
		if c.Operator() == query.NotLike {
			return !matched, nil
		}
		return matched, nil

	default:
		return false, fmt.Errorf("tck: unknown constraint type %T", r.Constraint())
	}
}

// likeRegexp compiles a LIKE pattern, honoring backslash escapes, into an
// anchored regular expression.
func likeRegexp(pattern string, fold bool) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	if fold {
		b.WriteString("(?i)")
	}
	escaped := false
	for _, r := range pattern {
		if escaped {
			b.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

func evalComparison(op query.Operator, value, target any, fold bool) (bool, error) {
	switch op {
	case query.Equal, query.NotEqual:
		eq, err := equalValues(value, target, fold)
		if err != nil {
			return false, err
		}
		if op == query.NotEqual {
			return !eq, nil
		}
		return eq, nil
	case query.GreaterThan, query.GreaterThanEqual, query.LessThan, query.LessThanEqual:
		cmp, err := compareValues(value, target, fold)
		if err != nil {
			return false, err
		}
		switch op {
		case query.GreaterThan:
			return cmp > 0, nil
		case query.GreaterThanEqual:
			return cmp >= 0, nil
		case query.LessThan:
			return cmp < 0, nil
		default:
			return cmp <= 0, nil
		}
	default:
		return false, fmt.Errorf("tck: operator %s is not a comparison", op)
	}
}

func equalValues(a, b any, fold bool) (bool, error) {
	cmp, err := compareValues(a, b, fold)
	if err != nil {
		return false, err
	}
	return cmp == 0, nil
}

// compareValues orders two values of compatible kinds, widening numbers so
// an int column can be compared against an int64 or float argument.
func compareValues(a, b any, fold bool) (int, error) {
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		if !ok {
			return 0, fmt.Errorf("tck: cannot compare time.Time with %T", b)
		}
		return at.Compare(bt), nil
	}

	av := reflect.ValueOf(a)
	bv := reflect.ValueOf(b)

	if an, ok := numeric(av); ok {
		bn, ok := numeric(bv)
		if !ok {
			return 0, fmt.Errorf("tck: cannot compare %T with %T", a, b)
		}
		switch {
		case an < bn:
			return -1, nil
		case an > bn:
			return 1, nil
		default:
			return 0, nil
		}
	}

	if av.Kind() == reflect.String {
		if bv.Kind() != reflect.String {
			return 0, fmt.Errorf("tck: cannot compare %T with %T", a, b)
		}
		as, bs := av.String(), bv.String()
		if fold {
			as, bs = strings.ToLower(as), strings.ToLower(bs)
		}
		return strings.Compare(as, bs), nil
	}

	if av.Kind() == reflect.Bool && bv.Kind() == reflect.Bool {
		if av.Bool() == bv.Bool() {
			return 0, nil
		}
		return 1, nil
	}

	return 0, fmt.Errorf("tck: values of type %T are not comparable", a)
}

func numeric(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	default:
		return 0, false
	}
}

// fieldValue resolves a column name to an entity field, reporting SQL NULL
// for nil pointers.
func fieldValue(entity any, column string) (any, bool, error) {
	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, true, nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, false, fmt.Errorf("tck: entity %T is not a struct", entity)
	}
	fv, ok := findColumn(v, column)
	if !ok {
		return nil, false, fmt.Errorf("tck: entity %T has no column %q", entity, column)
	}
	if fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			return nil, true, nil
		}
		fv = fv.Elem()
	}
	return fv.Interface(), false, nil
}

func findColumn(v reflect.Value, column string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			if f.Type.Kind() == reflect.Struct {
				if fv, ok := findColumn(v.Field(i), column); ok {
					return fv, true
				}
			}
			continue
		}
		if bunColumn(f) == column {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func bunColumn(f reflect.StructField) string {
	tag := f.Tag.Get("bun")
	if tag != "" && tag != "-" {
		name := strings.Split(tag, ",")[0]
		if name != "" && !strings.Contains(name, ":") {
			return name
		}
	}
	var b strings.Builder
	for i, r := range f.Name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
