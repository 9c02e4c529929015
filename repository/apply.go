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
	"github.com/kestrel-data/kestrel/query"
	"github.com/kestrel-data/kestrel/types"

	"github.com/uptrace/bun"
)

// applyRestriction renders the restriction tree into a parameterized WHERE
// clause and attaches it to the select query.
func applyRestriction(q *bun.SelectQuery, r query.Restriction) (*bun.SelectQuery, error) {
	clause, args, err := query.Render(r)
	if err != nil {
		return nil, err
	}
	return q.Where(clause, args...), nil
}

// applySorts attaches ORDER BY expressions for each sort criterion, quoting
// column names through the dialect and lowering case-insensitive ones.
func applySorts(q *bun.SelectQuery, order types.Order) *bun.SelectQuery {
	for _, s := range order {
		if s.IgnoresCase() {
			q = q.OrderExpr("LOWER(?) ?", bun.Ident(s.Property()), bun.Safe(s.Direction().String()))
		} else {
			q = q.OrderExpr("? ?", bun.Ident(s.Property()), bun.Safe(s.Direction().String()))
		}
	}
	return q
}
