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

package repository

import (
	"testing"

	"github.com/uptrace/bun"

	"github.com/kestrel-data/kestrel/types"
)

func TestKeysetClause(t *testing.T) {
	cases := []struct {
		name    string
		order   types.Order
		cursor  types.Cursor
		forward bool
		clause  string
		args    []any
	}{
		{
			"SingleAscForward",
			types.OrderBy(types.Asc("id")),
			types.NewCursor(10),
			true,
			"((id > ?))",
			[]any{10},
		},
		{
			"SingleAscBackward",
			types.OrderBy(types.Asc("id")),
			types.NewCursor(10),
			false,
			"((id < ?))",
			[]any{10},
		},
		{
			"SingleDescForward",
			types.OrderBy(types.Desc("created_at")),
			types.NewCursor("2026-01-01"),
			true,
			"((created_at < ?))",
			[]any{"2026-01-01"},
		},
		{
			"TwoKeysForward",
			types.OrderBy(types.Asc("pages"), types.Asc("id")),
			types.NewCursor(380, "b1"),
			true,
			"((pages > ?) OR (pages = ? AND id > ?))",
			[]any{380, 380, "b1"},
		},
		{
			"MixedDirections",
			types.OrderBy(types.Desc("price"), types.Asc("id")),
			types.NewCursor(49.99, "b2"),
			true,
			"((price < ?) OR (price = ? AND id > ?))",
			[]any{49.99, 49.99, "b2"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clause, args, err := keysetClause(tc.order, tc.cursor, tc.forward)
			if err != nil {
				t.Fatalf("keysetClause: %v", err)
			}
			if clause != tc.clause {
				t.Errorf("clause = %q, want %q", clause, tc.clause)
			}
			if len(args) != len(tc.args) {
				t.Fatalf("args = %v, want %v", args, tc.args)
			}
			for i := range args {
				if args[i] != tc.args[i] {
					t.Errorf("args[%d] = %v, want %v", i, args[i], tc.args[i])
				}
			}
		})
	}
}

func TestKeysetClauseSizeMismatch(t *testing.T) {
	_, _, err := keysetClause(types.OrderBy(types.Asc("a"), types.Asc("b")), types.NewCursor(1), true)
	if err == nil {
		t.Error("keysetClause accepted a cursor shorter than the sort list")
	}
}

type cursorEntity struct {
	bun.BaseModel `bun:"table:cursor_entities"`

	ID        string `bun:"id,pk"`
	PageCount int    `bun:"pages"`
	CreatedAt string
}

func TestCursorFor(t *testing.T) {
	e := &cursorEntity{ID: "x1", PageCount: 42, CreatedAt: "2026-02-03"}

	c, err := cursorFor(e, types.OrderBy(types.Asc("pages"), types.Asc("id")))
	if err != nil {
		t.Fatalf("cursorFor: %v", err)
	}
	if c.Size() != 2 || c.Get(0) != 42 || c.Get(1) != "x1" {
		t.Errorf("cursor keys = %v", c.Keys())
	}

	// Untagged fields resolve by snake_cased field name.
	c, err = cursorFor(e, types.OrderBy(types.Desc("created_at")))
	if err != nil {
		t.Fatalf("cursorFor: %v", err)
	}
	if c.Get(0) != "2026-02-03" {
		t.Errorf("cursor key = %v", c.Get(0))
	}

	if _, err = cursorFor(e, types.OrderBy(types.Asc("missing"))); err == nil {
		t.Error("cursorFor accepted an unknown column")
	}
}

func TestToSnake(t *testing.T) {
	cases := map[string]string{
		"ID":        "i_d",
		"CreatedAt": "created_at",
		"Name":      "name",
		"pages":     "pages",
	}
	for in, want := range cases {
		if got := toSnake(in); got != want {
			t.Errorf("toSnake(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReverseSlice(t *testing.T) {
	a, b, c := 1, 2, 3
	s := []*int{&a, &b, &c}
	reverseSlice(s)
	if *s[0] != 3 || *s[1] != 2 || *s[2] != 1 {
		t.Errorf("reversed = %v %v %v", *s[0], *s[1], *s[2])
	}
	var empty []*int
	reverseSlice(empty)
}
