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
	"testing"

	"github.com/kestrel-data/kestrel/query"
)

func TestMatches(t *testing.T) {
	publisher := "ACME"
	book := &Book{
		ID:        "b1",
		Title:     "100% Pure Go",
		Author:    "Jane Doe",
		Pages:     320,
		Price:     42.50,
		Publisher: &publisher,
	}
	orphan := &Book{ID: "b2", Title: "Drafts_and_Notes", Author: "Jane Doe", Pages: 10, Price: 1}

	title := query.TextAttributeOf("title")
	author := query.TextAttributeOf("author")
	pages := query.NumericAttributeOf[int]("pages")
	price := query.NumericAttributeOf[float64]("price")
	pub := query.TextAttributeOf("publisher")

	cases := []struct {
		name   string
		entity *Book
		r      query.Restriction
		want   bool
	}{
		{"Equal", book, title.EqualTo("100% Pure Go"), true},
		{"EqualMiss", book, title.EqualTo("Other"), false},
		{"EqualIgnoreCase", book, title.IgnoreCase().EqualTo("100% PURE GO"), true},
		{"NotEqual", book, author.NotEqualTo("Nobody"), true},
		{"GreaterThan", book, pages.GreaterThan(300), true},
		{"GreaterThanMiss", book, pages.GreaterThan(320), false},
		{"LessThanEqual", book, price.LessThanEqual(42.50), true},
		{"Between", book, pages.Between(300, 320), true},
		{"NotBetween", book, pages.NotBetween(300, 320), false},
		{"In", book, author.In("Jane Doe", "John Doe"), true},
		{"NotIn", book, author.NotIn("Jane Doe"), false},
		{"Contains", book, title.Contains("Pure"), true},
		{"StartsWith", book, title.StartsWith("100% P"), true},
		{"EscapedPercent", book, title.StartsWith("100%"), true},
		{"EscapedPercentMiss", orphan, title.StartsWith("100%"), false},
		{"EscapedUnderscore", orphan, title.Contains("s_a"), true},
		{"UnderscoreWildcard", orphan, title.Like(query.PatternOf("Drafts_and_Note_")), true},
		{"NotLike", book, title.NotLike(query.Contains("Java")), true},
		{"IsNull", orphan, pub.IsNull(), true},
		{"IsNullMiss", book, pub.IsNull(), false},
		{"IsNotNull", book, pub.IsNotNull(), true},
		{"NullComparison", orphan, pub.EqualTo("ACME"), false},
		{"All", book, query.RestrictAll(pages.GreaterThan(300), price.LessThan(50)), true},
		{"AllMiss", book, query.RestrictAll(pages.GreaterThan(300), price.LessThan(40)), false},
		{"Any", book, query.RestrictAny(pages.GreaterThan(500), price.LessThan(50)), true},
		{"NegatedAll", book, query.RestrictAll(pages.GreaterThan(300), price.LessThan(40)).Negate(), true},
		{"NegatedBasic", book, title.Contains("Pure").Negate(), false},
		{"Unrestricted", book, query.Unrestricted(), true},
		{"Unmatchable", book, query.Unmatchable(), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Matches(tc.entity, tc.r)
			if err != nil {
				t.Fatalf("Matches(%s): %v", tc.r, err)
			}
			if got != tc.want {
				t.Errorf("Matches(%s) = %v, want %v", tc.r, got, tc.want)
			}
		})
	}
}

func TestMatchesUnknownColumn(t *testing.T) {
	book := NewBook("t", "a", 1, 1)
	if _, err := Matches(book, query.TextAttributeOf("no_such_column").EqualTo("x")); err == nil {
		t.Fatal("expected an error for an unknown column")
	}
}

func TestMatchesNumericWidening(t *testing.T) {
	book := NewBook("t", "a", 320, 1)
	ok, err := Matches(book, query.Restrict("pages", query.EqualTo(int64(320))))
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if !ok {
		t.Error("int column did not compare equal to an int64 argument")
	}
}
