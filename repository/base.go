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
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/kestrel-data/kestrel/database"
	"github.com/kestrel-data/kestrel/query"
	"github.com/kestrel-data/kestrel/types"

	"github.com/uptrace/bun/schema"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
)

type baseRepositoryImpl[T any] struct {
	db *bun.DB
}

// NewRepository returns a generic repository backed by the provided Bun DB.
func NewRepository[T any](db *bun.DB) Repository[T] {
	return &baseRepositoryImpl[T]{db: db}
}

func (r *baseRepositoryImpl[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepositoryImpl[T]) NewSelect() *bun.SelectQuery { return r.db.NewSelect() }

func (r *baseRepositoryImpl[T]) NewInsert() *bun.InsertQuery { return r.db.NewInsert() }

func (r *baseRepositoryImpl[T]) NewUpdate() *bun.UpdateQuery { return r.db.NewUpdate() }

func (r *baseRepositoryImpl[T]) NewDelete() *bun.DeleteQuery { return r.db.NewDelete() }

func (r *baseRepositoryImpl[T]) ValsToSlice(entity ...*T) []*T {
	entities := make([]*T, len(entity))
	copy(entities, entity)
	return entities
}

func (r *baseRepositoryImpl[T]) GetOne(ctx context.Context, id any) (*T, error) {
	var entity T
	err := r.db.NewSelect().Model(&entity).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.NewDataError("GetOne", types.ErrEmptyResult, err)
		}
		return nil, database.TranslateError("GetOne", err)
	}
	return &entity, nil
}

func (r *baseRepositoryImpl[T]) GetAll(ctx context.Context) ([]*T, error) {
	var entities []*T
	err := r.db.NewSelect().Model(&entities).Scan(ctx)
	if err != nil {
		return nil, database.TranslateError("GetAll", err)
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) List(ctx context.Context, filter *types.QueryFilter) ([]*T, error) {
	var entities []*T
	q := r.db.NewSelect().Model(&entities)
	if filter != nil {
		q = q.Where(filter.Schema, filter.Args...)
	}
	err := q.Scan(ctx)
	if err != nil {
		return nil, database.TranslateError("List", err)
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) Query(ctx context.Context, clause string, args ...interface{}) ([]*T, error) {
	var entities []*T
	err := r.db.NewSelect().Model(&entities).Where(clause, args...).Scan(ctx)
	if err != nil {
		return nil, database.TranslateError("Query", err)
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) Find(ctx context.Context, restriction query.Restriction, sorts ...types.Sort) ([]*T, error) {
	var entities []*T
	q := r.db.NewSelect().Model(&entities)
	q, err := applyRestriction(q, restriction)
	if err != nil {
		return nil, err
	}
	q = applySorts(q, types.OrderBy(sorts...))
	if err := q.Scan(ctx); err != nil {
		return nil, database.TranslateError("Find", err)
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) FindRange(ctx context.Context, restriction query.Restriction, limit types.Limit, sorts ...types.Sort) ([]*T, error) {
	var entities []*T
	q := r.db.NewSelect().Model(&entities)
	q, err := applyRestriction(q, restriction)
	if err != nil {
		return nil, err
	}
	q = applySorts(q, types.OrderBy(sorts...))
	if limit.Offset() > 0 {
		q = q.Offset(limit.Offset())
	}
	q = q.Limit(limit.MaxResults())
	if err := q.Scan(ctx); err != nil {
		return nil, database.TranslateError("FindRange", err)
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) FindOne(ctx context.Context, restriction query.Restriction) (*T, error) {
	// Fetch up to two rows to tell an empty result from a non-unique one.
	var entities []*T
	q := r.db.NewSelect().Model(&entities)
	q, err := applyRestriction(q, restriction)
	if err != nil {
		return nil, err
	}
	if err := q.Limit(2).Scan(ctx); err != nil {
		return nil, database.TranslateError("FindOne", err)
	}
	switch len(entities) {
	case 0:
		return nil, types.NewDataError("FindOne", types.ErrEmptyResult, sql.ErrNoRows)
	case 1:
		return entities[0], nil
	default:
		return nil, types.NewDataError("FindOne", types.ErrNonUniqueResult,
			fmt.Errorf("restriction matched more than one row"))
	}
}

func (r *baseRepositoryImpl[T]) Count(ctx context.Context, restriction query.Restriction) (int64, error) {
	q := r.db.NewSelect().Model((*T)(nil))
	q, err := applyRestriction(q, restriction)
	if err != nil {
		return 0, err
	}
	total, err := q.Count(ctx)
	if err != nil {
		return 0, database.TranslateError("Count", err)
	}
	return int64(total), nil
}

func (r *baseRepositoryImpl[T]) ExistsWhere(ctx context.Context, restriction query.Restriction) (bool, error) {
	q := r.db.NewSelect().Model((*T)(nil))
	q, err := applyRestriction(q, restriction)
	if err != nil {
		return false, err
	}
	exists, err := q.Exists(ctx)
	if err != nil {
		return false, database.TranslateError("ExistsWhere", err)
	}
	return exists, nil
}

func (r *baseRepositoryImpl[T]) DeleteWhere(ctx context.Context, restriction query.Restriction) (int64, error) {
	clause, args, err := query.Render(restriction)
	if err != nil {
		return 0, err
	}
	var entity T
	res, err := r.db.NewDelete().Model(&entity).Where(clause, args...).Exec(ctx)
	if err != nil {
		return 0, database.TranslateError("DeleteWhere", err)
	}
	rows, _ := res.RowsAffected()
	return rows, nil
}

func (r *baseRepositoryImpl[T]) Page(ctx context.Context, restriction query.Restriction, req types.PageRequest) (*types.Pagination[T], error) {
	var entities []*T
	q := r.db.NewSelect().Model(&entities)
	q, err := applyRestriction(q, restriction)
	if err != nil {
		return nil, err
	}

	pagination := types.NewDefaultPagination[T](req)
	if req.RequestsTotal() {
		total, err := q.Count(ctx)
		if err != nil {
			return nil, database.TranslateError("Page", err)
		}
		pagination.Total = int64(total)
		if total == 0 {
			return pagination, nil
		}
	}

	q = applySorts(q, req.GetSorts())
	err = q.
		Offset(req.GetOffset()).
		Limit(req.GetSize()).
		Scan(ctx)
	if err != nil {
		return nil, database.TranslateError("Page", err)
	}
	pagination.Items = entities
	return pagination, nil
}

func (r *baseRepositoryImpl[T]) Create(ctx context.Context, entity ...*T) error {
	entities := r.ValsToSlice(entity...)
	_, err := r.db.NewInsert().Model(&entities).Exec(ctx)
	return database.TranslateError("Create", err)
}

func (r *baseRepositoryImpl[T]) Upsert(ctx context.Context, fields []string, duplicateKeys []string, entity ...*T) error {
	return r.multipleUpsert(ctx, nil, fields, duplicateKeys, entity...)
}

func (r *baseRepositoryImpl[T]) Save(ctx context.Context, entity *T) error {
	_, err := r.db.NewInsert().Model(entity).Exec(ctx)
	if err == nil {
		return nil
	}
	translated := database.TranslateError("Save", err)
	if !errors.Is(translated, types.ErrEntityExists) {
		return translated
	}
	res, updateErr := r.db.NewUpdate().Model(entity).WherePK().Exec(ctx)
	if updateErr != nil {
		return database.TranslateError("Save", updateErr)
	}
	if rows, raErr := res.RowsAffected(); raErr == nil && rows == 0 {
		return types.NewDataError("Save", types.ErrOptimisticLock,
			fmt.Errorf("no row matched the entity key"))
	}
	return nil
}

func (r *baseRepositoryImpl[T]) Update(ctx context.Context, entity *T) error {
	res, err := r.db.NewUpdate().Model(entity).WherePK().Exec(ctx)
	if err != nil {
		return database.TranslateError("Update", err)
	}
	if rows, raErr := res.RowsAffected(); raErr == nil && rows == 0 {
		return types.NewDataError("Update", types.ErrOptimisticLock,
			fmt.Errorf("no row matched the entity key"))
	}
	return nil
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, id any) error {
	var entity T
	_, err := r.db.NewDelete().Model(&entity).Where("id = ?", id).Exec(ctx)
	return database.TranslateError("Delete", err)
}

func (r *baseRepositoryImpl[T]) DeleteEntity(ctx context.Context, entity *T) error {
	res, err := r.db.NewDelete().Model(entity).WherePK().Exec(ctx)
	if err != nil {
		return database.TranslateError("DeleteEntity", err)
	}
	if rows, raErr := res.RowsAffected(); raErr == nil && rows == 0 {
		return types.NewDataError("DeleteEntity", types.ErrOptimisticLock,
			fmt.Errorf("no row matched the entity key"))
	}
	return nil
}

func (r *baseRepositoryImpl[T]) CreateWithTx(ctx context.Context, tx *bun.Tx, entity ...*T) error {
	entities := r.ValsToSlice(entity...)
	_, err := tx.NewInsert().Model(&entities).Exec(ctx)
	return database.TranslateError("CreateWithTx", err)
}

func (r *baseRepositoryImpl[T]) UpsertWithTx(ctx context.Context, tx *bun.Tx, fields []string, duplicateKeys []string, entity ...*T) error {
	return r.multipleUpsert(ctx, tx, fields, duplicateKeys, entity...)
}

func (r *baseRepositoryImpl[T]) UpdateWithTx(ctx context.Context, tx *bun.Tx, entity *T) error {
	res, err := tx.NewUpdate().Model(entity).WherePK().Exec(ctx)
	if err != nil {
		return database.TranslateError("UpdateWithTx", err)
	}
	if rows, raErr := res.RowsAffected(); raErr == nil && rows == 0 {
		return types.NewDataError("UpdateWithTx", types.ErrOptimisticLock,
			fmt.Errorf("no row matched the entity key"))
	}
	return nil
}

func (r *baseRepositoryImpl[T]) DeleteWithTx(ctx context.Context, tx *bun.Tx, id any) error {
	var entity T
	_, err := tx.NewDelete().Model(&entity).Where("id = ?", id).Exec(ctx)
	return database.TranslateError("DeleteWithTx", err)
}

func (r *baseRepositoryImpl[T]) multipleUpsert(ctx context.Context, tx *bun.Tx, fields []string, duplicateKeys []string, entity ...*T) error {
	if len(fields) == 0 {
		return fmt.Errorf("fields cannot be empty")
	}

	// If transaction is not nil, use it to execute insert/update
	var insertQuery *bun.InsertQuery
	if tx != nil {
		insertQuery = tx.NewInsert()
	} else {
		insertQuery = r.db.NewInsert()
	}

	entities := r.ValsToSlice(entity...)

	if r.db.HasFeature(feature.InsertOnConflict) {
		return r.upsertWithPostgresqlOrSQLite(ctx, insertQuery, fields, duplicateKeys, entities)
	} else if r.db.HasFeature(feature.InsertOnDuplicateKey) {
		return r.upsertWithMySQL(ctx, insertQuery, fields, entities)
	} else {
		// Fallback: Separate insert/update logic
		return r.upsertFallback(ctx, entities)
	}
}

func (r *baseRepositoryImpl[T]) upsertWithMySQL(ctx context.Context, insertQuery *bun.InsertQuery, fields []string, entities []*T) error {
	var queryArgs []string
	for _, field := range fields {
		queryArgs = append(queryArgs, fmt.Sprintf("%s = VALUES(%s)", bun.Ident(field), bun.Ident(field)))
	}
	_, err := insertQuery.
		Model(&entities).
		On("DUPLICATE KEY UPDATE " + strings.Join(queryArgs, ", ")).
		Exec(ctx)
	return database.TranslateError("Upsert", err)
}

func (r *baseRepositoryImpl[T]) upsertWithPostgresqlOrSQLite(ctx context.Context, insertQuery *bun.InsertQuery, fields []string, duplicateKeys []string, entities []*T) error {
	if len(duplicateKeys) == 0 {
		duplicateKeys = []string{"id"}
	}
	keyNames := strings.Join(duplicateKeys, ",")
	var queryArgs []string
	for _, field := range fields {
		queryArgs = append(queryArgs, fmt.Sprintf("%s = EXCLUDED.%s", bun.Ident(field), bun.Ident(field)))
	}
	_, err := insertQuery.
		Model(&entities).
		On("CONFLICT (" + keyNames + ") DO UPDATE").
		Set(strings.Join(queryArgs, ", ")).
		Exec(ctx)
	return database.TranslateError("Upsert", err)
}

func (r *baseRepositoryImpl[T]) upsertFallback(ctx context.Context, entities []*T) error {
	for _, entity := range entities {
		_, err := r.db.NewInsert().Model(entity).Exec(ctx)
		if err != nil {
			_, updateErr := r.db.NewUpdate().Model(entity).WherePK().Exec(ctx)
			if updateErr != nil {
				return fmt.Errorf("upsert failed for entity: insert error: %v, update error: %v", err, updateErr)
			}
		}
	}
	return nil
}
