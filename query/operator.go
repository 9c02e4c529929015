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

import "github.com/kestrel-data/kestrel/types"

// Operator is a comparison applied to an entity attribute. Each operator has
// an exact opposite, and Negate is an involution: op.Negate().Negate() == op
// for every member.
type Operator int

const (
	Equal Operator = iota
	NotEqual
	GreaterThan
	GreaterThanEqual
	LessThan
	LessThanEqual
	In
	NotIn
	Like
	NotLike
)

var operatorNegations = map[Operator]Operator{
	Equal:            NotEqual,
	NotEqual:         Equal,
	GreaterThan:      LessThanEqual,
	LessThanEqual:    GreaterThan,
	GreaterThanEqual: LessThan,
	LessThan:         GreaterThanEqual,
	In:               NotIn,
	NotIn:            In,
	Like:             NotLike,
	NotLike:          Like,
}

var operatorSymbols = map[Operator]string{
	Equal:            "=",
	NotEqual:         "<>",
	GreaterThan:      ">",
	GreaterThanEqual: ">=",
	LessThan:         "<",
	LessThanEqual:    "<=",
	In:               "IN",
	NotIn:            "NOT IN",
	Like:             "LIKE",
	NotLike:          "NOT LIKE",
}

var operatorNames = map[Operator]string{
	Equal:            "EQUAL",
	NotEqual:         "NOT_EQUAL",
	GreaterThan:      "GREATER_THAN",
	GreaterThanEqual: "GREATER_THAN_EQUAL",
	LessThan:         "LESS_THAN",
	LessThanEqual:    "LESS_THAN_EQUAL",
	In:               "IN",
	NotIn:            "NOT_IN",
	Like:             "LIKE",
	NotLike:          "NOT_LIKE",
}

// Negate returns the exact opposite operator.
func (op Operator) Negate() Operator {
	neg, ok := operatorNegations[op]
	if !ok {
		return op
	}
	return neg
}

// QueryLanguage returns the operator's query language symbol, e.g. "<=".
func (op Operator) QueryLanguage() string {
	if s, ok := operatorSymbols[op]; ok {
		return s
	}
	return types.IllegalName
}

func (op Operator) IsValid() bool {
	_, ok := operatorNames[op]
	return ok
}

func (op Operator) Number() int {
	if !op.IsValid() {
		return types.IllegalValue
	}
	return int(op)
}

func (op Operator) String() string {
	if s, ok := operatorNames[op]; ok {
		return s
	}
	return types.IllegalName
}

func (op Operator) Name() string { return op.String() }

func (op Operator) Desc() string {
	if !op.IsValid() {
		return types.IllegalDesc
	}
	return "attribute " + op.QueryLanguage() + " value"
}

// CompositeType tells how the members of a composite restriction combine.
type CompositeType int

const (
	// All requires every member restriction to match.
	All CompositeType = iota
	// Any requires at least one member restriction to match.
	Any
)

// QueryLanguage returns the query language connective: ALL maps to "AND" and
// ANY maps to "OR".
func (t CompositeType) QueryLanguage() string {
	switch t {
	case All:
		return "AND"
	case Any:
		return "OR"
	default:
		return types.IllegalName
	}
}

func (t CompositeType) IsValid() bool { return t == All || t == Any }

func (t CompositeType) Number() int {
	if !t.IsValid() {
		return types.IllegalValue
	}
	return int(t)
}

func (t CompositeType) String() string {
	switch t {
	case All:
		return "ALL"
	case Any:
		return "ANY"
	default:
		return types.IllegalName
	}
}

func (t CompositeType) Name() string { return t.String() }

func (t CompositeType) Desc() string {
	switch t {
	case All:
		return "every member restriction must match"
	case Any:
		return "at least one member restriction must match"
	default:
		return types.IllegalDesc
	}
}
