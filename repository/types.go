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

	"github.com/kestrel-data/kestrel/query"
	"github.com/kestrel-data/kestrel/types"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// CrudRepository defines basic CRUD operations for a generic entity type.
type CrudRepository[T any] interface {
	GetOne(ctx context.Context, id any) (*T, error)

	GetAll(ctx context.Context) ([]*T, error)

	List(ctx context.Context, filter *types.QueryFilter) ([]*T, error)

	Query(ctx context.Context, query string, args ...interface{}) ([]*T, error)

	Create(ctx context.Context, entity ...*T) error

	Upsert(ctx context.Context, fields []string, duplicateKeys []string, entity ...*T) error

	// Save inserts the entity, or updates it when a row with the same key
	// already exists.
	Save(ctx context.Context, entity *T) error

	// Update modifies the row matched by the entity's primary key. When no
	// row matches, the returned error wraps types.ErrOptimisticLock.
	Update(ctx context.Context, entity *T) error

	Delete(ctx context.Context, id any) error

	// DeleteEntity removes the row matched by the entity's primary key. When
	// no row matches, the returned error wraps types.ErrOptimisticLock.
	DeleteEntity(ctx context.Context, entity *T) error
}

// RestrictionRepository defines query operations driven by restriction trees.
type RestrictionRepository[T any] interface {
	// Find returns all entities matching the restriction, sorted.
	Find(ctx context.Context, r query.Restriction, sorts ...types.Sort) ([]*T, error)

	// FindRange returns a bounded slice of the matching entities.
	FindRange(ctx context.Context, r query.Restriction, limit types.Limit, sorts ...types.Sort) ([]*T, error)

	// FindOne returns the single entity matching the restriction. The error
	// wraps types.ErrEmptyResult when nothing matches and
	// types.ErrNonUniqueResult when more than one row matches.
	FindOne(ctx context.Context, r query.Restriction) (*T, error)

	Count(ctx context.Context, r query.Restriction) (int64, error)

	ExistsWhere(ctx context.Context, r query.Restriction) (bool, error)

	// DeleteWhere removes all matching rows and returns how many were removed.
	DeleteWhere(ctx context.Context, r query.Restriction) (int64, error)
}

// DerivedQueryRepository executes queries derived from conventional method
// names such as "FindByNameAndAgeGreaterThanOrderByName".
type DerivedQueryRepository[T any] interface {
	FindByName(ctx context.Context, method string, args ...any) ([]*T, error)
	CountByName(ctx context.Context, method string, args ...any) (int64, error)
	ExistsByName(ctx context.Context, method string, args ...any) (bool, error)
	DeleteByName(ctx context.Context, method string, args ...any) (int64, error)
}

// PageQueryRepository defines pagination functionality for listing entities.
type PageQueryRepository[T any] interface {
	// Page returns the requested offset-mode page of matching entities.
	Page(ctx context.Context, r query.Restriction, req types.PageRequest) (*types.Pagination[T], error)

	// CursorPage returns a keyset-paginated page. The request must carry at
	// least one sort criterion; a trailing unique property should be included
	// so the cursor identifies rows unambiguously.
	CursorPage(ctx context.Context, r query.Restriction, req types.PageRequest) (*types.CursoredPage[T], error)
}

// TransactionRepository defines write operations executed within a transaction.
type TransactionRepository[T any] interface {
	CreateWithTx(ctx context.Context, tx *bun.Tx, entity ...*T) error
	UpsertWithTx(ctx context.Context, tx *bun.Tx, fields []string, duplicateKeys []string, entity ...*T) error
	UpdateWithTx(ctx context.Context, tx *bun.Tx, entity *T) error
	DeleteWithTx(ctx context.Context, tx *bun.Tx, id any) error
}

// Repository combines CRUD, restriction queries, derived queries, pagination,
// and transactional operations, and exposes Bun query builders for advanced
// use cases.
type Repository[T any] interface {
	CrudRepository[T]
	RestrictionRepository[T]
	DerivedQueryRepository[T]
	PageQueryRepository[T]
	TransactionRepository[T]
	Dialect() schema.Dialect
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
}
