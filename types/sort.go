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

package types

import "fmt"

// Sort is an immutable sort criterion: an entity property, a direction, and
// an optional case-insensitive flag for text properties. A Sort never has an
// empty property; the constructors panic on one, since that is always a
// programming error rather than a runtime condition.
type Sort struct {
	property   string
	direction  Direction
	ignoreCase bool
}

func newSort(property string, direction Direction, ignoreCase bool) Sort {
	if property == "" {
		panic("types: sort property must not be empty")
	}
	return Sort{property: property, direction: direction, ignoreCase: ignoreCase}
}

// Asc sorts by the given property in ascending order.
func Asc(property string) Sort {
	return newSort(property, DirectionAsc, false)
}

// Desc sorts by the given property in descending order.
func Desc(property string) Sort {
	return newSort(property, DirectionDesc, false)
}

// AscIgnoreCase sorts ascending, ignoring case for text values.
func AscIgnoreCase(property string) Sort {
	return newSort(property, DirectionAsc, true)
}

// DescIgnoreCase sorts descending, ignoring case for text values.
func DescIgnoreCase(property string) Sort {
	return newSort(property, DirectionDesc, true)
}

// SortBy builds a Sort from an explicit direction value.
func SortBy(property string, direction Direction, ignoreCase bool) Sort {
	return newSort(property, direction, ignoreCase)
}

// Property returns the entity property the criterion sorts by.
func (s Sort) Property() string { return s.property }

// Direction returns the sort direction.
func (s Sort) Direction() Direction { return s.direction }

// IsAscending reports whether the criterion sorts ascending.
func (s Sort) IsAscending() bool { return s.direction == DirectionAsc }

// IgnoresCase reports whether the criterion ignores case.
func (s Sort) IgnoresCase() bool { return s.ignoreCase }

// Reversed returns the same criterion with the direction flipped.
func (s Sort) Reversed() Sort {
	s.direction = s.direction.Reversed()
	return s
}

// QueryOrder renders the criterion as an ORDER BY element, e.g. "name ASC" or
// "LOWER(name) DESC" when case is ignored.
func (s Sort) QueryOrder() string {
	if s.ignoreCase {
		return fmt.Sprintf("LOWER(%s) %s", s.property, s.direction)
	}
	return fmt.Sprintf("%s %s", s.property, s.direction)
}

func (s Sort) String() string { return s.QueryOrder() }

// Order is an ordered list of sort criteria, highest precedence first.
type Order []Sort

// OrderBy combines sort criteria into an Order.
func OrderBy(sorts ...Sort) Order {
	out := make(Order, len(sorts))
	copy(out, sorts)
	return out
}

// QueryOrders renders every criterion for use with an ORDER BY clause.
func (o Order) QueryOrders() []string {
	out := make([]string, len(o))
	for i, s := range o {
		out[i] = s.QueryOrder()
	}
	return out
}

// Reversed returns the order with every criterion's direction flipped. This
// is what cursor-based pagination uses to walk a result set backwards.
func (o Order) Reversed() Order {
	out := make(Order, len(o))
	for i, s := range o {
		out[i] = s.Reversed()
	}
	return out
}
