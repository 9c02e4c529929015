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

	"github.com/kestrel-data/kestrel/database"
	"github.com/kestrel-data/kestrel/query"
)

func (r *baseRepositoryImpl[T]) derive(method string, action query.Action, args []any) (*query.DerivedQuery, query.Restriction, error) {
	q, err := query.ParseMethodName(method)
	if err != nil {
		return nil, nil, err
	}
	if q.Action != action {
		return nil, nil, fmt.Errorf("repository: method %q is a %s query, not a %s query", method, q.Action, action)
	}
	restriction, err := q.Restriction(args...)
	if err != nil {
		return nil, nil, err
	}
	return q, restriction, nil
}

func (r *baseRepositoryImpl[T]) FindByName(ctx context.Context, method string, args ...any) ([]*T, error) {
	dq, restriction, err := r.derive(method, query.ActionFind, args)
	if err != nil {
		return nil, err
	}
	var entities []*T
	q := r.db.NewSelect().Model(&entities)
	q, err = applyRestriction(q, restriction)
	if err != nil {
		return nil, err
	}
	q = applySorts(q, dq.Sorts)
	if dq.First > 0 {
		q = q.Limit(dq.First)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, database.TranslateError("FindByName", err)
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) CountByName(ctx context.Context, method string, args ...any) (int64, error) {
	_, restriction, err := r.derive(method, query.ActionCount, args)
	if err != nil {
		return 0, err
	}
	return r.Count(ctx, restriction)
}

func (r *baseRepositoryImpl[T]) ExistsByName(ctx context.Context, method string, args ...any) (bool, error) {
	_, restriction, err := r.derive(method, query.ActionExists, args)
	if err != nil {
		return false, err
	}
	return r.ExistsWhere(ctx, restriction)
}

func (r *baseRepositoryImpl[T]) DeleteByName(ctx context.Context, method string, args ...any) (int64, error) {
	_, restriction, err := r.derive(method, query.ActionDelete, args)
	if err != nil {
		return 0, err
	}
	return r.DeleteWhere(ctx, restriction)
}
