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
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/kestrel-data/kestrel/types"
)

// Book is the primary sample entity the conformance suites run against.
type Book struct {
	bun.BaseModel `bun:"table:tck_books,alias:bk"`

	ID          string           `bun:"id,pk" json:"id"`
	Title       string           `bun:"title,notnull" json:"title"`
	Author      string           `bun:"author,notnull" json:"author"`
	Pages       int              `bun:"pages" json:"pages"`
	Price       float64          `bun:"price" json:"price"`
	PublishedAt time.Time        `bun:"published_at,nullzero" json:"published_at"`
	Publisher   *string          `bun:"publisher" json:"publisher,omitempty"`
	Metadata    types.JsonObject `bun:"metadata,type:jsonb" json:"metadata,omitempty"`
}

// NewBook builds a sample book with a fresh identifier.
func NewBook(title, author string, pages int, price float64) *Book {
	return &Book{
		ID:     uuid.New().String(),
		Title:  title,
		Author: author,
		Pages:  pages,
		Price:  price,
	}
}

// Account is a second sample entity carrying a version column, used by the
// optimistic locking checks.
type Account struct {
	bun.BaseModel `bun:"table:tck_accounts,alias:ac"`

	ID      string  `bun:"id,pk" json:"id"`
	Owner   string  `bun:"owner,notnull" json:"owner"`
	Balance float64 `bun:"balance" json:"balance"`
	Version int64   `bun:"version,notnull,default:1" json:"version"`
}

// NewAccount builds a sample account with a fresh identifier.
func NewAccount(owner string, balance float64) *Account {
	return &Account{
		ID:      uuid.New().String(),
		Owner:   owner,
		Balance: balance,
		Version: 1,
	}
}

// SampleBooks returns a small, fixed dataset whose values exercise case
// folding, range comparisons, and pattern matching.
func SampleBooks() []*Book {
	gutenberg := "Gutenberg House"
	books := []*Book{
		NewBook("The Go Programming Language", "Alan Donovan", 380, 39.99),
		NewBook("Designing Data-Intensive Applications", "Martin Kleppmann", 616, 49.99),
		NewBook("Database Internals", "Alex Petrov", 376, 45.50),
		NewBook("the art of computer programming", "Donald Knuth", 672, 89.99),
		NewBook("Refactoring", "Martin Fowler", 448, 47.99),
	}
	books[0].Publisher = &gutenberg
	books[0].Metadata = types.JsonObject{"edition": float64(1), "language": "en"}
	return books
}
