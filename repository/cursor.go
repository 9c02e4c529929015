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
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/kestrel-data/kestrel/database"
	"github.com/kestrel-data/kestrel/query"
	"github.com/kestrel-data/kestrel/types"
)

// CursorPage retrieves one page by keyset pagination. The request must carry
// sort criteria; their values in the first and last row of the page become
// the page's previous and next cursors.
func (r *baseRepositoryImpl[T]) CursorPage(ctx context.Context, restriction query.Restriction, req types.PageRequest) (*types.CursoredPage[T], error) {
	order := req.GetSorts()
	if len(order) == 0 {
		return nil, fmt.Errorf("repository: cursor pagination requires at least one sort criterion")
	}

	size := req.GetSize()
	backward := req.Mode() == types.PageModeCursorPrevious

	var entities []*T
	q := r.db.NewSelect().Model(&entities)
	q, err := applyRestriction(q, restriction)
	if err != nil {
		return nil, err
	}

	total := types.TotalUnknown
	if req.RequestsTotal() {
		count, err := q.Count(ctx)
		if err != nil {
			return nil, database.TranslateError("CursorPage", err)
		}
		total = int64(count)
	}

	if cursor := req.GetCursor(); cursor != nil {
		clause, args, err := keysetClause(order, *cursor, !backward)
		if err != nil {
			return nil, err
		}
		q = q.Where(clause, args...)
	}

	scanOrder := order
	if backward {
		scanOrder = order.Reversed()
	}
	q = applySorts(q, scanOrder)

	// One extra row tells whether more pages exist in the scan direction.
	if err := q.Limit(size + 1).Scan(ctx); err != nil {
		return nil, database.TranslateError("CursorPage", err)
	}

	hasMore := len(entities) > size
	if hasMore {
		entities = entities[:size]
	}
	if backward {
		reverseSlice(entities)
	}

	var next, previous *types.Cursor
	if len(entities) > 0 {
		// Walking forward, a following page exists when the scan overflowed
		// and a preceding one when we started from a cursor. Walking
		// backward it is the other way around.
		if (!backward && hasMore) || backward {
			if next, err = cursorFor(entities[len(entities)-1], order); err != nil {
				return nil, err
			}
		}
		if (backward && hasMore) || (!backward && req.GetCursor() != nil) {
			if previous, err = cursorFor(entities[0], order); err != nil {
				return nil, err
			}
		}
	}

	return types.NewCursoredPage(entities, req, total, next, previous), nil
}

// keysetClause builds the row-comparison predicate that positions the scan
// after (forward) or before (backward) the cursor, expanded into the
// OR-of-AND form portable across dialects.
func keysetClause(order types.Order, cursor types.Cursor, forward bool) (string, []any, error) {
	if cursor.Size() != len(order) {
		return "", nil, fmt.Errorf("repository: cursor holds %d key values but the request sorts by %d properties",
			cursor.Size(), len(order))
	}
	groups := make([]string, 0, len(order))
	var args []any
	for i := range order {
		parts := make([]string, 0, i+1)
		for j := 0; j < i; j++ {
			parts = append(parts, fmt.Sprintf("%s = ?", order[j].Property()))
			args = append(args, cursor.Get(j))
		}
		ascending := order[i].IsAscending()
		if !forward {
			ascending = !ascending
		}
		cmp := ">"
		if !ascending {
			cmp = "<"
		}
		parts = append(parts, fmt.Sprintf("%s %s ?", order[i].Property(), cmp))
		args = append(args, cursor.Get(i))
		groups = append(groups, "("+strings.Join(parts, " AND ")+")")
	}
	return "(" + strings.Join(groups, " OR ") + ")", args, nil
}

// cursorFor reads the sort key values out of an entity, matching sort
// properties to struct fields by bun column name.
func cursorFor[T any](entity *T, order types.Order) (*types.Cursor, error) {
	v := reflect.ValueOf(entity).Elem()
	keys := make([]any, 0, len(order))
	for _, s := range order {
		fv, ok := fieldByColumn(v, s.Property())
		if !ok {
			return nil, fmt.Errorf("repository: entity %T has no column %q to build a cursor from", entity, s.Property())
		}
		keys = append(keys, fv.Interface())
	}
	c := types.NewCursor(keys...)
	return &c, nil
}

func fieldByColumn(v reflect.Value, column string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			if f.Type.Kind() == reflect.Struct {
				if fv, ok := fieldByColumn(v.Field(i), column); ok {
					return fv, true
				}
			}
			continue
		}
		if columnName(f) == column {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func columnName(f reflect.StructField) string {
	tag := f.Tag.Get("bun")
	if tag != "" && tag != "-" {
		name := strings.Split(tag, ",")[0]
		if name != "" && !strings.Contains(name, ":") {
			return name
		}
	}
	return toSnake(f.Name)
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
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

func reverseSlice[T any](s []*T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
