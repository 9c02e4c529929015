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

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	"github.com/kestrel-data/kestrel/types"
)

func TestClassifySQLError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		is   bool
		kind SQLError
	}{
		{"Nil", nil, false, UnknownErr},
		{"NoRows", sql.ErrNoRows, true, NoRowsErr},
		{"WrappedNoRows", fmt.Errorf("scan: %w", sql.ErrNoRows), true, NoRowsErr},

		{"MySQLDuplicate", &mysql.MySQLError{Number: 1062}, true, DuplicateKeyErr},
		{"MySQLNoTable", &mysql.MySQLError{Number: 1146}, true, NoTableErr},
		{"MySQLTableExists", &mysql.MySQLError{Number: 1050}, true, ExistTableErr},
		{"MySQLNotNull", &mysql.MySQLError{Number: 1048}, true, NotNullViolationErr},
		{"MySQLForeignKey", &mysql.MySQLError{Number: 1452}, true, ForeignKeyViolationErr},
		{"MySQLCheck", &mysql.MySQLError{Number: 3819}, true, CheckConstraintViolationErr},
		{"MySQLTruncated", &mysql.MySQLError{Number: 1265}, true, DataTruncatedErr},
		{"MySQLUnknownNumber", &mysql.MySQLError{Number: 1045}, true, UnknownErr},

		{"PostgresDuplicate", &pq.Error{Code: "23505"}, true, DuplicateKeyErr},
		{"PostgresNoTable", &pq.Error{Code: "42P01"}, true, NoTableErr},
		{"PostgresNotNull", &pq.Error{Code: "23502"}, true, NotNullViolationErr},
		{"PostgresForeignKey", &pq.Error{Code: "23503"}, true, ForeignKeyViolationErr},
		{"PostgresCheck", &pq.Error{Code: "23514"}, true, CheckConstraintViolationErr},
		{"PostgresTruncated", &pq.Error{Code: "22001"}, true, DataTruncatedErr},
		{"PostgresTypeCast", &pq.Error{Code: "42804"}, true, InvalidTypeCastErr},

		{"SQLiteDuplicate", errors.New("UNIQUE constraint failed: books.id"), true, DuplicateKeyErr},
		{"SQLiteNoTable", errors.New("no such table: books"), true, NoTableErr},
		{"SQLiteNotNull", errors.New("NOT NULL constraint failed: books.title"), true, NotNullViolationErr},
		{"SQLiteForeignKey", errors.New("FOREIGN KEY constraint failed"), true, ForeignKeyViolationErr},
		{"SQLiteTypeMismatch", errors.New("datatype mismatch"), true, InvalidTypeCastErr},

		{"Unrelated", errors.New("connection refused"), false, UnknownErr},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			is, kind := ClassifySQLError(tc.err)
			if is != tc.is || kind != tc.kind {
				t.Errorf("ClassifySQLError = (%v, %v), want (%v, %v)", is, kind, tc.is, tc.kind)
			}
		})
	}
}

func TestTranslateError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"NoRows", sql.ErrNoRows, types.ErrEmptyResult},
		{"Duplicate", &mysql.MySQLError{Number: 1062}, types.ErrEntityExists},
		{"NotNull", &pq.Error{Code: "23502"}, types.ErrIntegrityViolation},
		{"ForeignKey", errors.New("FOREIGN KEY constraint failed"), types.ErrIntegrityViolation},
		{"Check", &pq.Error{Code: "23514"}, types.ErrIntegrityViolation},
		{"Truncated", &pq.Error{Code: "22001"}, types.ErrMapping},
		{"TypeCast", errors.New("datatype mismatch"), types.ErrMapping},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TranslateError("Create", tc.err)
			if !errors.Is(got, tc.want) {
				t.Errorf("TranslateError = %v, want kind %v", got, tc.want)
			}
			// The driver error stays reachable through the wrap chain.
			if !errors.Is(got, tc.err) {
				t.Errorf("TranslateError lost the cause %v", tc.err)
			}
		})
	}
}

func TestTranslateErrorPassthrough(t *testing.T) {
	if got := TranslateError("Ping", nil); got != nil {
		t.Errorf("TranslateError(nil) = %v", got)
	}
	unknown := errors.New("connection refused")
	if got := TranslateError("Ping", unknown); got != unknown {
		t.Errorf("TranslateError returned %v, want the error unchanged", got)
	}
	// Classified but uncategorized errors also pass through untouched.
	auth := &mysql.MySQLError{Number: 1045, Message: "Access denied"}
	if got := TranslateError("Connect", auth); got != error(auth) {
		t.Errorf("TranslateError returned %v, want the error unchanged", got)
	}
}
