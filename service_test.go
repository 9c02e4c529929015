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
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/kestrel-data/kestrel/query"
	"github.com/kestrel-data/kestrel/types"
)

type widget struct {
	bun.BaseModel `bun:"table:widgets,alias:w"`

	ID   int64  `bun:"id,pk"`
	Name string `bun:"name"`
}

func newMockService(t *testing.T) (Service[widget], sqlmock.Sqlmock) {
	t.Helper()
	sqldb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return NewServiceWithDB[widget](db), mock
}

func TestServiceCount(t *testing.T) {
	svc, mock := newMockService(t)
	mock.ExpectQuery(`SELECT count`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := svc.Count(context.Background(), query.Unrestricted())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 4 {
		t.Errorf("Count = %d, want 4", count)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestServiceGetMapsEmptyResult(t *testing.T) {
	svc, mock := newMockService(t)
	mock.ExpectQuery(`SELECT .+ FROM "widgets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err := svc.Get(context.Background(), int64(1))
	if !errors.Is(err, types.ErrEmptyResult) {
		t.Errorf("Get returned %v, want ErrEmptyResult", err)
	}
}

func TestServiceBuilders(t *testing.T) {
	svc, _ := newMockService(t)
	if svc.SelectBuilder() == nil || svc.InsertBuilder() == nil ||
		svc.UpdateBuilder() == nil || svc.DeleteBuilder() == nil {
		t.Error("query builders must never be nil")
	}
}
