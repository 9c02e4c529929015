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

package types

import "fmt"

// TotalUnknown is the sentinel stored in a page whose total element count was
// not requested.
const TotalUnknown int64 = -1

// ErrTotalNotAvailable is returned by page accessors that need the total
// element count when the page was fetched without requesting one.
var ErrTotalNotAvailable = fmt.Errorf("total element count was not requested for this page")

// QueryFilter describes a raw WHERE clause schema and its argument values.
type QueryFilter struct {
	Schema string
	Args   []interface{}
}

// NewQueryFilter creates a new query filter with schema and args.
func NewQueryFilter(schema string, args ...interface{}) *QueryFilter {
	return &QueryFilter{schema, args}
}

// PageMode selects how a PageRequest positions itself in the result set.
type PageMode int

const (
	// PageModeOffset positions by page number and size.
	PageModeOffset PageMode = iota
	// PageModeCursorNext requests the page after the cursor.
	PageModeCursorNext
	// PageModeCursorPrevious requests the page before the cursor.
	PageModeCursorPrevious
)

func (m PageMode) String() string {
	switch m {
	case PageModeOffset:
		return "OFFSET"
	case PageModeCursorNext:
		return "CURSOR_NEXT"
	case PageModeCursorPrevious:
		return "CURSOR_PREVIOUS"
	default:
		return IllegalName
	}
}

// PageRequest describes a page of results to retrieve: a 1-based page number,
// a page size, the sort criteria, whether the provider should count the total
// number of matching rows, and an optional cursor for keyset pagination.
// PageRequest is a value type; the With* methods return modified copies.
type PageRequest struct {
	page         int64
	size         int
	requestTotal bool
	mode         PageMode
	cursor       *Cursor
	sorts        Order
}

// PageOf requests the given 1-based page with the given size. The total row
// count is requested by default; see WithoutTotal.
func PageOf(page int64, size int) PageRequest {
	return PageRequest{page: page, size: size, requestTotal: true, mode: PageModeOffset}
}

// FirstPageOf requests page 1 with the given size.
func FirstPageOf(size int) PageRequest {
	return PageOf(1, size)
}

// GetPage returns the 1-based page number, coercing invalid values to 1.
func (p PageRequest) GetPage() int64 {
	if p.page < 1 {
		return 1
	}
	return p.page
}

// GetSize returns the page size, coercing invalid values to the default 10.
func (p PageRequest) GetSize() int {
	if p.size < 1 {
		return 10
	}
	return p.size
}

// GetOffset returns the number of rows preceding the requested page.
func (p PageRequest) GetOffset() int {
	return int(p.GetPage()-1) * p.GetSize()
}

// RequestsTotal reports whether the provider should count matching rows.
func (p PageRequest) RequestsTotal() bool { return p.requestTotal }

// Mode returns how the request positions itself in the result set.
func (p PageRequest) Mode() PageMode { return p.mode }

// GetCursor returns the cursor for keyset pagination, or nil in offset mode.
func (p PageRequest) GetCursor() *Cursor { return p.cursor }

// GetSorts returns the sort criteria carried by the request.
func (p PageRequest) GetSorts() Order { return p.sorts }

// WithTotal returns a copy that requests the total row count.
func (p PageRequest) WithTotal() PageRequest {
	p.requestTotal = true
	return p
}

// WithoutTotal returns a copy that skips the total row count query.
func (p PageRequest) WithoutTotal() PageRequest {
	p.requestTotal = false
	return p
}

// SortedBy returns a copy carrying the given sort criteria.
func (p PageRequest) SortedBy(sorts ...Sort) PageRequest {
	p.sorts = OrderBy(sorts...)
	return p
}

// AfterCursor returns a copy that requests the page following the cursor.
func (p PageRequest) AfterCursor(c Cursor) PageRequest {
	p.cursor = &c
	p.mode = PageModeCursorNext
	return p
}

// BeforeCursor returns a copy that requests the page preceding the cursor.
func (p PageRequest) BeforeCursor(c Cursor) PageRequest {
	p.cursor = &c
	p.mode = PageModeCursorPrevious
	return p
}

// NewPageRequest constructs an offset-mode PageRequest with sort criteria,
// requesting the total row count.
func NewPageRequest(page int64, size int, sorts ...Sort) PageRequest {
	return PageOf(page, size).SortedBy(sorts...)
}

// Pagination holds one page of results along with pagination metadata.
// Total is TotalUnknown when the request did not ask for a row count.
type Pagination[T any] struct {
	Page  int64
	Size  int
	Total int64
	Items []*T
}

// NewDefaultPagination constructs an empty page container for a request.
func NewDefaultPagination[T any](req PageRequest) *Pagination[T] {
	total := TotalUnknown
	if req.RequestsTotal() {
		total = 0
	}
	return &Pagination[T]{
		Page:  req.GetPage(),
		Size:  req.GetSize(),
		Total: total,
		Items: make([]*T, 0),
	}
}

// HasContent reports whether the page holds any results.
func (p *Pagination[T]) HasContent() bool { return len(p.Items) > 0 }

// NumberOfElements returns the number of results on this page.
func (p *Pagination[T]) NumberOfElements() int { return len(p.Items) }

// TotalElements returns the total number of matching rows, or
// ErrTotalNotAvailable when the request did not ask for a count.
func (p *Pagination[T]) TotalElements() (int64, error) {
	if p.Total < 0 {
		return 0, ErrTotalNotAvailable
	}
	return p.Total, nil
}

// TotalPages returns ceil(total/size), or ErrTotalNotAvailable when the
// request did not ask for a count.
func (p *Pagination[T]) TotalPages() (int64, error) {
	total, err := p.TotalElements()
	if err != nil {
		return 0, err
	}
	size := int64(p.Size)
	if size < 1 {
		size = 1
	}
	return (total + size - 1) / size, nil
}

// HasNext reports whether a following page may exist. Without a known total
// it falls back to "this page was full".
func (p *Pagination[T]) HasNext() bool {
	if p.Total >= 0 {
		return p.Page*int64(p.Size) < p.Total
	}
	return len(p.Items) == p.Size
}

// HasPrevious reports whether a preceding page exists.
func (p *Pagination[T]) HasPrevious() bool { return p.Page > 1 }

// CursoredPage holds one page of results retrieved by keyset pagination,
// together with the cursors bounding it.
type CursoredPage[T any] struct {
	Items    []*T
	Request  PageRequest
	Total    int64
	next     *Cursor
	previous *Cursor
}

// NewCursoredPage assembles a cursored page. Either cursor may be nil when no
// page exists in that direction.
func NewCursoredPage[T any](items []*T, req PageRequest, total int64, next, previous *Cursor) *CursoredPage[T] {
	return &CursoredPage[T]{Items: items, Request: req, Total: total, next: next, previous: previous}
}

// HasContent reports whether the page holds any results.
func (p *CursoredPage[T]) HasContent() bool { return len(p.Items) > 0 }

// HasNext reports whether a following page exists.
func (p *CursoredPage[T]) HasNext() bool { return p.next != nil }

// HasPrevious reports whether a preceding page exists.
func (p *CursoredPage[T]) HasPrevious() bool { return p.previous != nil }

// NextCursor returns the cursor positioned after the last result. The
// boolean is false when there is no next page.
func (p *CursoredPage[T]) NextCursor() (Cursor, bool) {
	if p.next == nil {
		return Cursor{}, false
	}
	return *p.next, true
}

// PreviousCursor returns the cursor positioned before the first result.
func (p *CursoredPage[T]) PreviousCursor() (Cursor, bool) {
	if p.previous == nil {
		return Cursor{}, false
	}
	return *p.previous, true
}

// TotalElements returns the total number of matching rows, or
// ErrTotalNotAvailable when the request did not ask for a count.
func (p *CursoredPage[T]) TotalElements() (int64, error) {
	if p.Total < 0 {
		return 0, ErrTotalNotAvailable
	}
	return p.Total, nil
}
