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
	"reflect"
	"testing"
)

func TestRender(t *testing.T) {
	cases := []struct {
		name   string
		r      Restriction
		clause string
		args   []any
	}{
		{"Unrestricted", Unrestricted(), "1 = 1", nil},
		{"Unmatchable", Unmatchable(), "1 = 0", nil},
		{"Nil", nil, "1 = 1", nil},
		{"Equal", Restrict("age", EqualTo(30)), "age = ?", []any{30}},
		{"EqualIgnoreCase", Restrict("name", EqualTo("Go")).IgnoreCase(),
			"LOWER(name) = LOWER(?)", []any{"Go"}},
		{"In", Restrict("name", InValues("a", "b", "c")),
			"name IN (?, ?, ?)", []any{"a", "b", "c"}},
		{"InIgnoreCase", Restrict("name", InValues("A", "b")).IgnoreCase(),
			"LOWER(name) IN (?, ?)", []any{"a", "b"}},
		{"EmptyIn", Restrict("name", InValues()), "1 = 0", nil},
		{"EmptyNotIn", Restrict("name", NotInValues()), "1 = 1", nil},
		{"Between", Restrict("age", BetweenValues(18, 65)),
			"age BETWEEN ? AND ?", []any{18, 65}},
		{"NotBetween", Restrict("age", NotBetweenValues(18, 65)),
			"age NOT BETWEEN ? AND ?", []any{18, 65}},
		{"Like", Restrict("title", LikePattern(Contains("Go"))),
			"title LIKE ?", []any{"%Go%"}},
		{"LikeWithEscape", Restrict("title", LikePattern(Contains("50%"))),
			"title LIKE ? ESCAPE '\\'", []any{`%50\%%`}},
		{"LikeIgnoreCase", Restrict("title", LikePattern(Contains("Go").IgnoreCase())),
			"LOWER(title) LIKE LOWER(?)", []any{"%Go%"}},
		{"NotLike", Restrict("title", NotLikePattern(StartsWith("x"))),
			"title NOT LIKE ?", []any{"x%"}},
		{"IsNull", Restrict("publisher", IsNull()), "publisher IS NULL", nil},
		{"IsNotNull", Restrict("publisher", IsNotNull()), "publisher IS NOT NULL", nil},
		{"All", RestrictAll(Restrict("age", GreaterThanValue(18)), Restrict("name", EqualTo("x"))),
			"(age > ? AND name = ?)", []any{18, "x"}},
		{"Any", RestrictAny(Restrict("a", EqualTo(1)), Restrict("b", EqualTo(2))),
			"(a = ? OR b = ?)", []any{1, 2}},
		{"NegatedComposite", RestrictAll(Restrict("a", EqualTo(1)), Restrict("b", EqualTo(2))).Negate(),
			"NOT (a = ? AND b = ?)", []any{1, 2}},
		{"SingleMemberComposite", RestrictAll(Restrict("a", EqualTo(1))), "a = ?", []any{1}},
		{"EmptyComposite", RestrictAll(), "1 = 1", nil},
		{"EmptyCompositeNegated", RestrictAll().Negate(), "1 = 0", nil},
		{"Nested", RestrictAny(
			RestrictAll(Restrict("a", EqualTo(1)), Restrict("b", EqualTo(2))),
			Restrict("c", GreaterThanValue(3)),
		), "((a = ? AND b = ?) OR c > ?)", []any{1, 2, 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clause, args, err := Render(tc.r)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if clause != tc.clause {
				t.Errorf("clause = %q, want %q", clause, tc.clause)
			}
			if len(args) != len(tc.args) || (len(args) > 0 && !reflect.DeepEqual(args, tc.args)) {
				t.Errorf("args = %v, want %v", args, tc.args)
			}
		})
	}
}

func TestRenderArgsMatchPlaceholders(t *testing.T) {
	r := RestrictAny(
		RestrictAll(
			Restrict("title", LikePattern(Contains("Go"))),
			Restrict("pages", BetweenValues(100, 500)),
		),
		Restrict("author", InValues("a", "b", "c")),
	)
	clause, args, err := Render(r)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	placeholders := 0
	for _, c := range clause {
		if c == '?' {
			placeholders++
		}
	}
	if placeholders != len(args) {
		t.Errorf("%d placeholders for %d args in %q", placeholders, len(args), clause)
	}
}

func TestRenderRejectsMissingConstraint(t *testing.T) {
	if _, _, err := Render(BasicRestriction{attribute: "x"}); err == nil {
		t.Error("Render accepted a restriction without a constraint")
	}
}
