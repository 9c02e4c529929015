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

func TestParseMethodNameSubjects(t *testing.T) {
	cases := []struct {
		name   string
		method string
		action Action
		first  int
		params int
	}{
		{"Find", "findByName", ActionFind, 0, 1},
		{"FindUpperCamel", "FindByName", ActionFind, 0, 1},
		{"FindFirst", "findFirstByAgeGreaterThan", ActionFind, 1, 1},
		{"FindFirst10", "findFirst10ByAge", ActionFind, 10, 1},
		{"Count", "countByStatus", ActionCount, 0, 1},
		{"Exists", "existsByEmail", ActionExists, 0, 1},
		{"Delete", "deleteByStatus", ActionDelete, 0, 1},
		{"Update", "updateByStatus", ActionUpdate, 0, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := ParseMethodName(tc.method)
			if err != nil {
				t.Fatalf("ParseMethodName(%q): %v", tc.method, err)
			}
			if q.Action != tc.action {
				t.Errorf("Action = %s, want %s", q.Action, tc.action)
			}
			if q.First != tc.first {
				t.Errorf("First = %d, want %d", q.First, tc.first)
			}
			if q.ParamCount != tc.params {
				t.Errorf("ParamCount = %d, want %d", q.ParamCount, tc.params)
			}
		})
	}
}

func TestParseMethodNameConditions(t *testing.T) {
	cases := []struct {
		name   string
		method string
		column string
		kind   ConditionKind
		fold   bool
		params int
	}{
		{"Equal", "findByFirstName", "first_name", CondEqual, false, 1},
		{"NotEqual", "findByStatusNot", "status", CondNotEqual, false, 1},
		{"GreaterThan", "findByAgeGreaterThan", "age", CondGreaterThan, false, 1},
		{"GreaterThanEqual", "findByAgeGreaterThanEqual", "age", CondGreaterThanEqual, false, 1},
		{"Between", "findByAgeBetween", "age", CondBetween, false, 2},
		{"NotBetween", "findByAgeNotBetween", "age", CondNotBetween, false, 2},
		{"In", "findByStatusIn", "status", CondIn, false, 1},
		{"Like", "findByTitleLike", "title", CondLike, false, 1},
		{"NotLike", "findByTitleNotLike", "title", CondNotLike, false, 1},
		{"Contains", "findByTitleContains", "title", CondContains, false, 1},
		{"StartsWith", "findByTitleStartsWith", "title", CondStartsWith, false, 1},
		{"EndsWith", "findByTitleEndsWith", "title", CondEndsWith, false, 1},
		{"Null", "findByPublisherNull", "publisher", CondNull, false, 0},
		{"NotNull", "findByPublisherNotNull", "publisher", CondNotNull, false, 0},
		{"True", "findByActiveTrue", "active", CondTrue, false, 0},
		{"False", "findByActiveFalse", "active", CondFalse, false, 0},
		{"IgnoreCaseAfterKeyword", "findByTitleLikeIgnoreCase", "title", CondLike, true, 1},
		{"IgnoreCaseBeforeKeyword", "findByTitleIgnoreCaseLike", "title", CondLike, true, 1},
		{"IgnoreCaseEqual", "findByTitleIgnoreCase", "title", CondEqual, true, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := ParseMethodName(tc.method)
			if err != nil {
				t.Fatalf("ParseMethodName(%q): %v", tc.method, err)
			}
			if len(q.Groups) != 1 || len(q.Groups[0]) != 1 {
				t.Fatalf("Groups = %v", q.Groups)
			}
			cond := q.Groups[0][0]
			if cond.Column != tc.column {
				t.Errorf("Column = %q, want %q", cond.Column, tc.column)
			}
			if cond.Kind != tc.kind {
				t.Errorf("Kind = %v, want %v", cond.Kind, tc.kind)
			}
			if cond.IgnoreCase != tc.fold {
				t.Errorf("IgnoreCase = %v, want %v", cond.IgnoreCase, tc.fold)
			}
			if q.ParamCount != tc.params {
				t.Errorf("ParamCount = %d, want %d", q.ParamCount, tc.params)
			}
		})
	}
}

func TestParseMethodNameGroups(t *testing.T) {
	q, err := ParseMethodName("findByCityAndAgeGreaterThanOrStatus")
	if err != nil {
		t.Fatalf("ParseMethodName: %v", err)
	}
	// And binds tighter than Or: (city AND age>) OR (status).
	if len(q.Groups) != 2 {
		t.Fatalf("Groups = %v", q.Groups)
	}
	if len(q.Groups[0]) != 2 || len(q.Groups[1]) != 1 {
		t.Fatalf("group sizes = %d, %d", len(q.Groups[0]), len(q.Groups[1]))
	}
	if q.Groups[0][1].Kind != CondGreaterThan || q.Groups[1][0].Column != "status" {
		t.Errorf("conditions parsed wrong: %v", q.Groups)
	}
	if q.ParamCount != 3 {
		t.Errorf("ParamCount = %d, want 3", q.ParamCount)
	}
}

func TestParseMethodNameOrder(t *testing.T) {
	q, err := ParseMethodName("findByStatusOrderByLastNameDescFirstNameAscIgnoreCase")
	if err != nil {
		t.Fatalf("ParseMethodName: %v", err)
	}
	if len(q.Sorts) != 2 {
		t.Fatalf("Sorts = %v", q.Sorts)
	}
	if q.Sorts[0].Property() != "last_name" || q.Sorts[0].IsAscending() {
		t.Errorf("first sort = %v", q.Sorts[0])
	}
	if q.Sorts[1].Property() != "first_name" || !q.Sorts[1].IsAscending() || !q.Sorts[1].IgnoresCase() {
		t.Errorf("second sort = %v", q.Sorts[1])
	}
}

func TestParseMethodNameImpliedAscending(t *testing.T) {
	q, err := ParseMethodName("findByStatusOrderByCreatedAt")
	if err != nil {
		t.Fatalf("ParseMethodName: %v", err)
	}
	if len(q.Sorts) != 1 || q.Sorts[0].Property() != "created_at" || !q.Sorts[0].IsAscending() {
		t.Errorf("Sorts = %v", q.Sorts)
	}
}

func TestParseMethodNameErrors(t *testing.T) {
	cases := []string{
		"",
		"findName",
		"findBy",
		"selectByName",
		"findByNameAnd",
		"findByAndName",
		"findByStatusOrderByDesc",
	}
	for _, method := range cases {
		if _, err := ParseMethodName(method); err == nil {
			t.Errorf("ParseMethodName(%q) accepted an invalid name", method)
		}
	}
}

func TestDerivedQueryRestriction(t *testing.T) {
	q, err := ParseMethodName("findByCityAndAgeBetweenOrStatusIn")
	if err != nil {
		t.Fatalf("ParseMethodName: %v", err)
	}
	if q.ParamCount != 4 {
		t.Fatalf("ParamCount = %d, want 4", q.ParamCount)
	}
	r, err := q.Restriction("Oslo", 18, 65, []string{"active", "pending"})
	if err != nil {
		t.Fatalf("Restriction: %v", err)
	}
	clause, args, err := Render(r)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "((city = ? AND age BETWEEN ? AND ?) OR status IN (?, ?))"
	if clause != want {
		t.Errorf("clause = %q, want %q", clause, want)
	}
	if len(args) != 5 {
		t.Errorf("args = %v", args)
	}
}

func TestDerivedQueryRestrictionArgCount(t *testing.T) {
	q, err := ParseMethodName("findByNameAndAge")
	if err != nil {
		t.Fatalf("ParseMethodName: %v", err)
	}
	if _, err := q.Restriction("only-one"); err == nil {
		t.Error("Restriction accepted too few arguments")
	}
	if _, err := q.Restriction("a", 1, "extra"); err == nil {
		t.Error("Restriction accepted too many arguments")
	}
}

func TestDerivedQueryRestrictionIgnoreCase(t *testing.T) {
	q, err := ParseMethodName("findByTitleIgnoreCase")
	if err != nil {
		t.Fatalf("ParseMethodName: %v", err)
	}
	r, err := q.Restriction("GO")
	if err != nil {
		t.Fatalf("Restriction: %v", err)
	}
	basic, ok := r.(BasicRestriction)
	if !ok {
		t.Fatalf("Restriction returned %T", r)
	}
	if !basic.IgnoresCase() {
		t.Error("IgnoreCase condition built a case sensitive restriction")
	}
}

func TestDerivedQueryNoConditionsKeyword(t *testing.T) {
	q, err := ParseMethodName("findByPublisherNull")
	if err != nil {
		t.Fatalf("ParseMethodName: %v", err)
	}
	r, err := q.Restriction()
	if err != nil {
		t.Fatalf("Restriction: %v", err)
	}
	clause, _, err := Render(r)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if clause != "publisher IS NULL" {
		t.Errorf("clause = %q", clause)
	}
}
