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

import "testing"

var allOperators = []Operator{
	Equal, NotEqual,
	GreaterThan, GreaterThanEqual, LessThan, LessThanEqual,
	In, NotIn, Like, NotLike,
}

func TestOperatorNegatePairs(t *testing.T) {
	pairs := map[Operator]Operator{
		Equal:            NotEqual,
		GreaterThan:      LessThanEqual,
		GreaterThanEqual: LessThan,
		In:               NotIn,
		Like:             NotLike,
	}
	for op, want := range pairs {
		if got := op.Negate(); got != want {
			t.Errorf("%s.Negate() = %s, want %s", op, got, want)
		}
		if got := want.Negate(); got != op {
			t.Errorf("%s.Negate() = %s, want %s", want, got, op)
		}
	}
}

func TestOperatorNegateIsInvolution(t *testing.T) {
	for _, op := range allOperators {
		if got := op.Negate().Negate(); got != op {
			t.Errorf("%s.Negate().Negate() = %s", op, got)
		}
		if op.Negate() == op {
			t.Errorf("%s.Negate() is not a distinct operator", op)
		}
	}
}

func TestOperatorQueryLanguage(t *testing.T) {
	symbols := map[Operator]string{
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
	for op, want := range symbols {
		if got := op.QueryLanguage(); got != want {
			t.Errorf("%s.QueryLanguage() = %q, want %q", op, got, want)
		}
	}
}

func TestOperatorInvalid(t *testing.T) {
	bad := Operator(99)
	if bad.IsValid() {
		t.Error("Operator(99) reports valid")
	}
	if bad.Negate() != bad {
		t.Error("negating an invalid operator must be a no-op")
	}
	for _, op := range allOperators {
		if !op.IsValid() {
			t.Errorf("%s reports invalid", op)
		}
	}
}

func TestCompositeTypeQueryLanguage(t *testing.T) {
	if All.QueryLanguage() != "AND" {
		t.Errorf("All renders as %q", All.QueryLanguage())
	}
	if Any.QueryLanguage() != "OR" {
		t.Errorf("Any renders as %q", Any.QueryLanguage())
	}
}
