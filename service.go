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

package kestrel

import (
	"context"
	"sync"

	"github.com/kestrel-data/kestrel/database"
	"github.com/kestrel-data/kestrel/query"
	"github.com/kestrel-data/kestrel/repository"
	"github.com/kestrel-data/kestrel/types"

	"github.com/uptrace/bun"
)

type Service[T any] interface {
	// Get returns a single entity by its identifier.
	Get(ctx context.Context, id any) (*T, error)

	// All returns all entities.
	All(ctx context.Context) ([]*T, error)

	// List returns entities that match the provided filter.
	List(ctx context.Context, filter *types.QueryFilter) ([]*T, error)

	// Query executes a raw query and maps the results to entities.
	Query(ctx context.Context, query string, args ...interface{}) ([]*T, error)

	// Find returns entities matching the restriction, sorted.
	Find(ctx context.Context, r query.Restriction, sorts ...types.Sort) ([]*T, error)

	// FindOne returns the single entity matching the restriction.
	FindOne(ctx context.Context, r query.Restriction) (*T, error)

	// Count returns the number of entities matching the restriction.
	Count(ctx context.Context, r query.Restriction) (int64, error)

	// Exists reports whether any entity matches the restriction.
	Exists(ctx context.Context, r query.Restriction) (bool, error)

	// FindBy executes a query derived from a conventional method name.
	FindBy(ctx context.Context, method string, args ...any) ([]*T, error)

	// Page returns a paginated list of entities matching the restriction.
	Page(ctx context.Context, r query.Restriction, req types.PageRequest) (*types.Pagination[T], error)

	// CursorPage returns a keyset-paginated list of matching entities.
	CursorPage(ctx context.Context, r query.Restriction, req types.PageRequest) (*types.CursoredPage[T], error)

	// Update modifies an existing entity.
	Update(ctx context.Context, model *T) error

	// Delete removes an entity by its identifier.
	Delete(ctx context.Context, id any) error

	// DeleteWhere removes entities matching the restriction.
	DeleteWhere(ctx context.Context, r query.Restriction) (int64, error)

	// Save inserts one or more new entities.
	Save(ctx context.Context, model ...*T) error

	// SaveOrUpdate upserts entities based on fields and duplicate keys.
	SaveOrUpdate(ctx context.Context, fields []string, duplicateKeys []string, model ...*T) error

	// SaveWithTx inserts entities within an existing transaction.
	SaveWithTx(ctx context.Context, tx *bun.Tx, model ...*T) error

	// SaveOrUpdateWithTx upserts entities within a transaction.
	SaveOrUpdateWithTx(ctx context.Context, tx *bun.Tx, fields []string, duplicateKeys []string, model ...*T) error

	// UpdateWithTx updates an entity within a transaction.
	UpdateWithTx(ctx context.Context, tx *bun.Tx, model *T) error

	// DeleteWithTx removes an entity within a transaction.
	DeleteWithTx(ctx context.Context, tx *bun.Tx, id any) error

	// SelectBuilder returns a Bun select query builder for the entity.
	SelectBuilder() *bun.SelectQuery

	// InsertBuilder returns a Bun insert query builder for the entity.
	InsertBuilder() *bun.InsertQuery

	// UpdateBuilder returns a Bun update query builder for the entity.
	UpdateBuilder() *bun.UpdateQuery

	// DeleteBuilder returns a Bun delete query builder for the entity.
	DeleteBuilder() *bun.DeleteQuery
}

type baseServiceImpl[T any] struct {
	repo repository.Repository[T]
	once sync.Once
}

// NewService returns a default Service implementation using the generic
// repository backed by the global database connection.
func NewService[T any]() Service[T] {
	return newBaseServiceImpl[T]()
}

// NewServiceWithDB returns a Service bound to an explicit Bun DB, which is
// what tests and multi-database applications want.
func NewServiceWithDB[T any](db *bun.DB) Service[T] {
	s := newBaseServiceImpl[T]()
	s.once.Do(func() { s.repo = repository.NewRepository[T](db) })
	return s
}

func newBaseServiceImpl[T any]() *baseServiceImpl[T] {
	return &baseServiceImpl[T]{}
}

func (s *baseServiceImpl[T]) baseRepo() repository.Repository[T] {
	s.once.Do(func() { s.repo = repository.NewRepository[T](database.GetDB()) })
	return s.repo
}

func (s *baseServiceImpl[T]) Save(ctx context.Context, model ...*T) error {
	return s.baseRepo().Create(ctx, model...)
}

func (s *baseServiceImpl[T]) SaveOrUpdate(ctx context.Context, fields []string, duplicateKeys []string, model ...*T) error {
	return s.baseRepo().Upsert(ctx, fields, duplicateKeys, model...)
}

func (s *baseServiceImpl[T]) Get(ctx context.Context, id any) (*T, error) {
	return s.baseRepo().GetOne(ctx, id)
}

func (s *baseServiceImpl[T]) All(ctx context.Context) ([]*T, error) {
	return s.baseRepo().GetAll(ctx)
}

func (s *baseServiceImpl[T]) List(ctx context.Context, filter *types.QueryFilter) ([]*T, error) {
	return s.baseRepo().List(ctx, filter)
}

func (s *baseServiceImpl[T]) Query(ctx context.Context, query string, args ...interface{}) ([]*T, error) {
	return s.baseRepo().Query(ctx, query, args...)
}

func (s *baseServiceImpl[T]) Find(ctx context.Context, r query.Restriction, sorts ...types.Sort) ([]*T, error) {
	return s.baseRepo().Find(ctx, r, sorts...)
}

func (s *baseServiceImpl[T]) FindOne(ctx context.Context, r query.Restriction) (*T, error) {
	return s.baseRepo().FindOne(ctx, r)
}

func (s *baseServiceImpl[T]) Count(ctx context.Context, r query.Restriction) (int64, error) {
	return s.baseRepo().Count(ctx, r)
}

func (s *baseServiceImpl[T]) Exists(ctx context.Context, r query.Restriction) (bool, error) {
	return s.baseRepo().ExistsWhere(ctx, r)
}

func (s *baseServiceImpl[T]) FindBy(ctx context.Context, method string, args ...any) ([]*T, error) {
	return s.baseRepo().FindByName(ctx, method, args...)
}

func (s *baseServiceImpl[T]) Update(ctx context.Context, model *T) error {
	return s.baseRepo().Update(ctx, model)
}

func (s *baseServiceImpl[T]) Delete(ctx context.Context, id any) error {
	return s.baseRepo().Delete(ctx, id)
}

func (s *baseServiceImpl[T]) DeleteWhere(ctx context.Context, r query.Restriction) (int64, error) {
	return s.baseRepo().DeleteWhere(ctx, r)
}

func (s *baseServiceImpl[T]) Page(ctx context.Context, r query.Restriction, req types.PageRequest) (*types.Pagination[T], error) {
	return s.baseRepo().Page(ctx, r, req)
}

func (s *baseServiceImpl[T]) CursorPage(ctx context.Context, r query.Restriction, req types.PageRequest) (*types.CursoredPage[T], error) {
	return s.baseRepo().CursorPage(ctx, r, req)
}

func (s *baseServiceImpl[T]) SaveWithTx(ctx context.Context, tx *bun.Tx, model ...*T) error {
	return s.baseRepo().CreateWithTx(ctx, tx, model...)
}

func (s *baseServiceImpl[T]) SaveOrUpdateWithTx(ctx context.Context, tx *bun.Tx, fields []string, duplicateKeys []string, model ...*T) error {
	return s.baseRepo().UpsertWithTx(ctx, tx, fields, duplicateKeys, model...)
}

func (s *baseServiceImpl[T]) UpdateWithTx(ctx context.Context, tx *bun.Tx, model *T) error {
	return s.baseRepo().UpdateWithTx(ctx, tx, model)
}

func (s *baseServiceImpl[T]) DeleteWithTx(ctx context.Context, tx *bun.Tx, id any) error {
	return s.baseRepo().DeleteWithTx(ctx, tx, id)
}

func (s *baseServiceImpl[T]) SelectBuilder() *bun.SelectQuery {
	return s.baseRepo().NewSelect()
}

func (s *baseServiceImpl[T]) InsertBuilder() *bun.InsertQuery {
	return s.baseRepo().NewInsert()
}

func (s *baseServiceImpl[T]) UpdateBuilder() *bun.UpdateQuery {
	return s.baseRepo().NewUpdate()
}

func (s *baseServiceImpl[T]) DeleteBuilder() *bun.DeleteQuery {
	return s.baseRepo().NewDelete()
}
