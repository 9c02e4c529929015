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

func TestBasicRestrictionNegate(t *testing.T) {
	cases := []struct {
		name string
		r    BasicRestriction
		want string
	}{
		{"Equal", Restrict("age", EqualTo(30)), "age <> ?"},
		{"GreaterThan", Restrict("age", GreaterThanValue(30)), "age <= ?"},
		{"In", Restrict("name", InValues("a", "b")), "name NOT IN (?, ?)"},
		{"Between", Restrict("age", BetweenValues(18, 65)), "age NOT BETWEEN ? AND ?"},
		{"Like", Restrict("name", LikePattern(Contains("x"))), "name NOT LIKE ?"},
		{"Null", Restrict("name", IsNull()), "name IS NOT NULL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			neg := tc.r.Negate()
			if got := neg.String(); got != tc.want {
				t.Errorf("Negate rendered %q, want %q", got, tc.want)
			}
			if got := neg.Negate().String(); got != tc.r.String() {
				t.Errorf("double negation rendered %q, want %q", got, tc.r.String())
			}
		})
	}
}

func TestBasicRestrictionNegateKeepsAttributes(t *testing.T) {
	r := Restrict("title", EqualTo("Go")).IgnoreCase()
	neg, ok := r.Negate().(BasicRestriction)
	if !ok {
		t.Fatalf("Negate returned %T", r.Negate())
	}
	if neg.Attribute() != "title" || !neg.IgnoresCase() {
		t.Error("negation lost the attribute or the case folding flag")
	}
	if !r.IgnoresCase() || r.Constraint().(Comparison).Operator() != Equal {
		t.Error("Negate mutated the receiver")
	}
}

func TestCompositeNegatesWholeGroup(t *testing.T) {
	a := Restrict("age", GreaterThanValue(18))
	b := Restrict("name", EqualTo("x"))

	neg := RestrictAll(a, b).Negate()
	composite, ok := neg.(CompositeRestriction)
	if !ok {
		t.Fatalf("Negate returned %T", neg)
	}
	if !composite.IsNegated() {
		t.Error("composite negation flag not set")
	}
	// The members must be untouched; the negation wraps the group result.
	members := composite.Members()
	if members[0].String() != a.String() || members[1].String() != b.String() {
		t.Errorf("negation rewrote the members: %v", members)
	}
	if got := neg.String(); got != "NOT (age > ? AND name = ?)" {
		t.Errorf("rendered %q", got)
	}
	if got := neg.Negate().String(); got != "(age > ? AND name = ?)" {
		t.Errorf("double negation rendered %q", got)
	}
}

func TestCompositeString(t *testing.T) {
	a := Restrict("age", GreaterThanValue(18))
	b := Restrict("name", EqualTo("x"))
	if got := RestrictAny(a, b).String(); got != "(age > ? OR name = ?)" {
		t.Errorf("RestrictAny rendered %q", got)
	}
	if got := RestrictAll().String(); got != "1 = 1" {
		t.Errorf("empty composite rendered %q", got)
	}
}

func TestUnrestrictedAndUnmatchable(t *testing.T) {
	if got := Unrestricted().String(); got != "1 = 1" {
		t.Errorf("Unrestricted rendered %q", got)
	}
	if got := Unmatchable().String(); got != "1 = 0" {
		t.Errorf("Unmatchable rendered %q", got)
	}
	if got := Unrestricted().Negate().String(); got != "1 = 0" {
		t.Errorf("negated Unrestricted rendered %q", got)
	}
	if got := Unmatchable().Negate().String(); got != "1 = 1" {
		t.Errorf("negated Unmatchable rendered %q", got)
	}
}

func TestRestrictEmptyAttributePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Restrict(\"\", ...) did not panic")
		}
	}()
	Restrict("", EqualTo(1))
}

func TestAttributeBuilders(t *testing.T) {
	title := TextAttributeOf("title")
	pages := NumericAttributeOf[int]("pages")

	r := title.IgnoreCase().StartsWith("The")
	if !r.IgnoresCase() {
		t.Error("IgnoreCase attribute built a case sensitive restriction")
	}
	like, ok := r.Constraint().(LikeConstraint)
	if !ok {
		t.Fatalf("StartsWith built %T", r.Constraint())
	}
	if like.Pattern().Value() != "The%" {
		t.Errorf("pattern = %q", like.Pattern().Value())
	}

	between := pages.Between(100, 200)
	lo, hi := between.Constraint().(Between).Bounds()
	if lo != 100 || hi != 200 {
		t.Errorf("bounds = %v, %v", lo, hi)
	}

	if s := title.Asc(); !s.IsAscending() || s.Property() != "title" {
		t.Errorf("Asc sort = %v", s)
	}
	if s := title.DescIgnoreCase(); s.IsAscending() || !s.IgnoresCase() {
		t.Errorf("DescIgnoreCase sort = %v", s)
	}
}
