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
	"context"
	"errors"
	"testing"

	"github.com/kestrel-data/kestrel/query"
	"github.com/kestrel-data/kestrel/repository"
	"github.com/kestrel-data/kestrel/types"
)

// Typed attributes of the Book entity, shared by the suites.
var (
	bookTitle     = query.TextAttributeOf("title")
	bookAuthor    = query.TextAttributeOf("author")
	bookPublisher = query.TextAttributeOf("publisher")
	bookPages     = query.NumericAttributeOf[int]("pages")
	bookPrice     = query.NumericAttributeOf[float64]("price")
	bookID        = query.TextAttributeOf("id")
)

// RunConformance runs every suite against the given Book repository. The
// repository must be backed by empty tck_books storage; each suite reseeds it.
func RunConformance(t *testing.T, repo repository.Repository[Book]) {
	t.Run("Crud", func(t *testing.T) { RunCrudConformance(t, repo) })
	t.Run("Restrictions", func(t *testing.T) { RunRestrictionConformance(t, repo) })
	t.Run("DerivedQueries", func(t *testing.T) { RunDerivedQueryConformance(t, repo) })
	t.Run("Pagination", func(t *testing.T) { RunPaginationConformance(t, repo) })
}

// seed wipes the Book storage and inserts the fixed sample dataset.
func seed(t *testing.T, repo repository.Repository[Book]) []*Book {
	t.Helper()
	ctx := context.Background()
	if _, err := repo.DeleteWhere(ctx, query.Unrestricted()); err != nil {
		skipUnsupported(t, "DeleteWhere", err)
		t.Fatalf("reset storage: %v", err)
	}
	books := SampleBooks()
	if err := repo.Create(ctx, books...); err != nil {
		skipUnsupported(t, "Create", err)
		t.Fatalf("seed storage: %v", err)
	}
	return books
}

// skipUnsupported turns a declared capability gap into a skipped test.
func skipUnsupported(t *testing.T, op string, err error) {
	t.Helper()
	if types.IsUnsupported(err) {
		t.Skipf("provider does not support %s: %v", op, err)
	}
}

func idsOf(books []*Book) map[string]bool {
	ids := make(map[string]bool, len(books))
	for _, b := range books {
		ids[b.ID] = true
	}
	return ids
}

func sameIDs(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if !b[id] {
			return false
		}
	}
	return true
}

// RunCrudConformance checks create, read, update, and delete behavior,
// including the error taxonomy for missing rows and duplicate keys.
func RunCrudConformance(t *testing.T, repo repository.Repository[Book]) {
	ctx := context.Background()
	books := seed(t, repo)

	t.Run("GetOne", func(t *testing.T) {
		got, err := repo.GetOne(ctx, books[0].ID)
		if err != nil {
			t.Fatalf("GetOne: %v", err)
		}
		if got.Title != books[0].Title || got.Author != books[0].Author {
			t.Errorf("GetOne returned %q by %q, want %q by %q",
				got.Title, got.Author, books[0].Title, books[0].Author)
		}
		if got.Publisher == nil || *got.Publisher != *books[0].Publisher {
			t.Errorf("GetOne lost the publisher column: %v", got.Publisher)
		}
	})

	t.Run("GetOneMissing", func(t *testing.T) {
		_, err := repo.GetOne(ctx, "no-such-id")
		if !errors.Is(err, types.ErrEmptyResult) {
			t.Errorf("GetOne on a missing id returned %v, want ErrEmptyResult", err)
		}
	})

	t.Run("GetAll", func(t *testing.T) {
		all, err := repo.GetAll(ctx)
		if err != nil {
			t.Fatalf("GetAll: %v", err)
		}
		if len(all) != len(books) {
			t.Errorf("GetAll returned %d rows, want %d", len(all), len(books))
		}
	})

	t.Run("DuplicateKey", func(t *testing.T) {
		dup := NewBook("Duplicate", "Nobody", 1, 1)
		dup.ID = books[0].ID
		err := repo.Create(ctx, dup)
		if !errors.Is(err, types.ErrEntityExists) {
			skipUnsupported(t, "duplicate key translation", err)
			t.Errorf("Create with a duplicate key returned %v, want ErrEntityExists", err)
		}
	})

	t.Run("SaveUpdatesExisting", func(t *testing.T) {
		changed := *books[1]
		changed.Price = 59.99
		if err := repo.Save(ctx, &changed); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, err := repo.GetOne(ctx, books[1].ID)
		if err != nil {
			t.Fatalf("GetOne after Save: %v", err)
		}
		if got.Price != 59.99 {
			t.Errorf("Save did not persist the new price, got %v", got.Price)
		}
	})

	t.Run("UpdateMissingRow", func(t *testing.T) {
		ghost := NewBook("Ghost", "Nobody", 1, 1)
		err := repo.Update(ctx, ghost)
		if !errors.Is(err, types.ErrOptimisticLock) {
			t.Errorf("Update on a missing row returned %v, want ErrOptimisticLock", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := repo.Delete(ctx, books[4].ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		_, err := repo.GetOne(ctx, books[4].ID)
		if !errors.Is(err, types.ErrEmptyResult) {
			t.Errorf("deleted row is still readable: %v", err)
		}
		err = repo.DeleteEntity(ctx, books[4])
		if !errors.Is(err, types.ErrOptimisticLock) {
			t.Errorf("DeleteEntity on a deleted row returned %v, want ErrOptimisticLock", err)
		}
	})
}

// RunRestrictionConformance runs a catalogue of restriction trees through the
// provider and checks each result set against the in-memory Matches oracle.
func RunRestrictionConformance(t *testing.T, repo repository.Repository[Book]) {
	ctx := context.Background()
	books := seed(t, repo)

	cases := []struct {
		name string
		r    query.Restriction
	}{
		{"Unrestricted", query.Unrestricted()},
		{"Unmatchable", query.Unmatchable()},
		{"EqualIgnoreCase", bookTitle.IgnoreCase().EqualTo("THE ART OF COMPUTER PROGRAMMING")},
		{"NotEqual", bookAuthor.NotEqualTo("Donald Knuth")},
		{"GreaterThan", bookPrice.GreaterThan(45)},
		{"Between", bookPages.Between(376, 448)},
		{"NotBetween", bookPages.NotBetween(376, 448)},
		{"In", bookAuthor.In("Martin Kleppmann", "Martin Fowler")},
		{"NotIn", bookAuthor.NotIn("Martin Kleppmann", "Martin Fowler")},
		{"StartsWith", bookTitle.StartsWith("The")},
		{"Contains", bookTitle.Contains("Data")},
		{"EndsWithIgnoreCase", bookTitle.IgnoreCase().Like(query.EndsWith("PROGRAMMING"))},
		{"EscapedWildcard", bookTitle.Contains("100% pure")},
		{"IsNull", bookPublisher.IsNull()},
		{"IsNotNull", bookPublisher.IsNotNull()},
		{"AllOf", query.RestrictAll(bookPrice.GreaterThan(40), bookTitle.Contains("Data"))},
		{"AnyOf", query.RestrictAny(bookPages.LessThan(400), bookAuthor.EqualTo("Donald Knuth"))},
		{"NegatedComposite", query.RestrictAll(bookPrice.GreaterThan(40), bookTitle.Contains("Data")).Negate()},
		{"NegatedBasic", bookTitle.StartsWith("The").Negate()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			want := make(map[string]bool)
			for _, b := range books {
				ok, err := Matches(b, tc.r)
				if err != nil {
					t.Fatalf("oracle: %v", err)
				}
				if ok {
					want[b.ID] = true
				}
			}
			got, err := repo.Find(ctx, tc.r)
			if err != nil {
				skipUnsupported(t, "Find", err)
				t.Fatalf("Find: %v", err)
			}
			if !sameIDs(idsOf(got), want) {
				t.Errorf("restriction %s matched %d rows, oracle says %d", tc.r, len(got), len(want))
			}

			count, err := repo.Count(ctx, tc.r)
			if err != nil {
				t.Fatalf("Count: %v", err)
			}
			if count != int64(len(want)) {
				t.Errorf("Count = %d, want %d", count, len(want))
			}

			exists, err := repo.ExistsWhere(ctx, tc.r)
			if err != nil {
				t.Fatalf("ExistsWhere: %v", err)
			}
			if exists != (len(want) > 0) {
				t.Errorf("ExistsWhere = %v, want %v", exists, len(want) > 0)
			}
		})
	}

	t.Run("FindSorted", func(t *testing.T) {
		got, err := repo.Find(ctx, query.Unrestricted(), bookPages.Desc())
		if err != nil {
			t.Fatalf("Find: %v", err)
		}
		for i := 1; i < len(got); i++ {
			if got[i-1].Pages < got[i].Pages {
				t.Fatalf("results not sorted by pages descending: %d before %d",
					got[i-1].Pages, got[i].Pages)
			}
		}
	})

	t.Run("FindRange", func(t *testing.T) {
		got, err := repo.FindRange(ctx, query.Unrestricted(), types.LimitRange(2, 4), bookTitle.Asc())
		if err != nil {
			skipUnsupported(t, "FindRange", err)
			t.Fatalf("FindRange: %v", err)
		}
		if len(got) != 3 {
			t.Errorf("FindRange(2..4) returned %d rows, want 3", len(got))
		}
	})

	t.Run("FindOne", func(t *testing.T) {
		got, err := repo.FindOne(ctx, bookTitle.EqualTo("Refactoring"))
		if err != nil {
			t.Fatalf("FindOne: %v", err)
		}
		if got.Author != "Martin Fowler" {
			t.Errorf("FindOne returned the wrong row: %q", got.Author)
		}
		if _, err := repo.FindOne(ctx, query.Unmatchable()); !errors.Is(err, types.ErrEmptyResult) {
			t.Errorf("FindOne on an empty match returned %v, want ErrEmptyResult", err)
		}
		if _, err := repo.FindOne(ctx, bookPages.GreaterThan(0)); !errors.Is(err, types.ErrNonUniqueResult) {
			t.Errorf("FindOne on many matches returned %v, want ErrNonUniqueResult", err)
		}
	})

	t.Run("DeleteWhere", func(t *testing.T) {
		deleted, err := repo.DeleteWhere(ctx, bookAuthor.EqualTo("Alex Petrov"))
		if err != nil {
			t.Fatalf("DeleteWhere: %v", err)
		}
		if deleted != 1 {
			t.Errorf("DeleteWhere removed %d rows, want 1", deleted)
		}
		count, err := repo.Count(ctx, query.Unrestricted())
		if err != nil {
			t.Fatalf("Count: %v", err)
		}
		if count != int64(len(books)-1) {
			t.Errorf("%d rows remain, want %d", count, len(books)-1)
		}
	})
}

// RunDerivedQueryConformance checks query-by-method-name execution.
func RunDerivedQueryConformance(t *testing.T, repo repository.Repository[Book]) {
	ctx := context.Background()
	seed(t, repo)

	t.Run("FindByName", func(t *testing.T) {
		got, err := repo.FindByName(ctx, "findByAuthor", "Martin Fowler")
		if err != nil {
			skipUnsupported(t, "FindByName", err)
			t.Fatalf("FindByName: %v", err)
		}
		if len(got) != 1 || got[0].Title != "Refactoring" {
			t.Errorf("findByAuthor returned %d rows", len(got))
		}
	})

	t.Run("FindByNameOrdered", func(t *testing.T) {
		got, err := repo.FindByName(ctx, "findByPagesBetweenOrderByPagesDesc", 300, 400)
		if err != nil {
			t.Fatalf("FindByName: %v", err)
		}
		if len(got) != 2 || got[0].Pages != 380 || got[1].Pages != 376 {
			t.Errorf("findByPagesBetweenOrderByPagesDesc returned wrong rows: %v", got)
		}
	})

	t.Run("FindFirst", func(t *testing.T) {
		got, err := repo.FindByName(ctx, "findFirst2ByPagesGreaterThanOrderByPagesAsc", 0)
		if err != nil {
			t.Fatalf("FindByName: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("findFirst2 returned %d rows, want 2", len(got))
		}
	})

	t.Run("CountByName", func(t *testing.T) {
		count, err := repo.CountByName(ctx, "countByTitleContains", "Data")
		if err != nil {
			t.Fatalf("CountByName: %v", err)
		}
		if count != 2 {
			t.Errorf("countByTitleContains(Data) = %d, want 2", count)
		}
	})

	t.Run("ExistsByName", func(t *testing.T) {
		exists, err := repo.ExistsByName(ctx, "existsByPublisherNotNull")
		if err != nil {
			t.Fatalf("ExistsByName: %v", err)
		}
		if !exists {
			t.Errorf("existsByPublisherNotNull = false, want true")
		}
	})

	t.Run("DeleteByName", func(t *testing.T) {
		deleted, err := repo.DeleteByName(ctx, "deleteByTitleIgnoreCase", "THE ART OF COMPUTER PROGRAMMING")
		if err != nil {
			t.Fatalf("DeleteByName: %v", err)
		}
		if deleted != 1 {
			t.Errorf("deleteByTitleIgnoreCase removed %d rows, want 1", deleted)
		}
	})

	t.Run("ActionMismatch", func(t *testing.T) {
		if _, err := repo.FindByName(ctx, "countByAuthor", "Martin Fowler"); err == nil {
			t.Errorf("FindByName accepted a count method")
		}
	})
}

// RunPaginationConformance checks offset and cursor pagination.
func RunPaginationConformance(t *testing.T, repo repository.Repository[Book]) {
	ctx := context.Background()
	books := seed(t, repo)

	t.Run("OffsetPage", func(t *testing.T) {
		req := types.PageOf(1, 2).SortedBy(bookTitle.Asc()).WithTotal()
		page, err := repo.Page(ctx, query.Unrestricted(), req)
		if err != nil {
			skipUnsupported(t, "Page", err)
			t.Fatalf("Page: %v", err)
		}
		if page.NumberOfElements() != 2 {
			t.Errorf("first page holds %d rows, want 2", page.NumberOfElements())
		}
		total, err := page.TotalElements()
		if err != nil || total != int64(len(books)) {
			t.Errorf("TotalElements = %d, %v; want %d", total, err, len(books))
		}
		if pages, _ := page.TotalPages(); pages != 3 {
			t.Errorf("TotalPages = %d, want 3", pages)
		}
		if !page.HasNext() || page.HasPrevious() {
			t.Errorf("first page navigation wrong: next=%v previous=%v", page.HasNext(), page.HasPrevious())
		}

		last, err := repo.Page(ctx, query.Unrestricted(), types.PageOf(3, 2).SortedBy(bookTitle.Asc()).WithTotal())
		if err != nil {
			t.Fatalf("Page: %v", err)
		}
		if last.NumberOfElements() != 1 || last.HasNext() {
			t.Errorf("last page holds %d rows, next=%v", last.NumberOfElements(), last.HasNext())
		}
	})

	t.Run("OffsetPageWithoutTotal", func(t *testing.T) {
		req := types.PageOf(1, 2).SortedBy(bookTitle.Asc()).WithoutTotal()
		page, err := repo.Page(ctx, query.Unrestricted(), req)
		if err != nil {
			t.Fatalf("Page: %v", err)
		}
		if _, err := page.TotalElements(); !errors.Is(err, types.ErrTotalNotAvailable) {
			t.Errorf("TotalElements without a count returned %v, want ErrTotalNotAvailable", err)
		}
	})

	t.Run("CursorWalkForward", func(t *testing.T) {
		sorts := []types.Sort{bookPages.Asc(), bookID.Asc()}
		req := types.FirstPageOf(2).SortedBy(sorts...)

		var walked []*Book
		for {
			page, err := repo.CursorPage(ctx, query.Unrestricted(), req)
			if err != nil {
				skipUnsupported(t, "CursorPage", err)
				t.Fatalf("CursorPage: %v", err)
			}
			walked = append(walked, page.Items...)
			next, ok := page.NextCursor()
			if !ok {
				break
			}
			req = req.AfterCursor(next)
		}
		if len(walked) != len(books) {
			t.Fatalf("cursor walk visited %d rows, want %d", len(walked), len(books))
		}
		for i := 1; i < len(walked); i++ {
			if walked[i-1].Pages > walked[i].Pages {
				t.Errorf("cursor walk out of order at %d: %d > %d", i, walked[i-1].Pages, walked[i].Pages)
			}
		}
	})

	t.Run("CursorWalkBackward", func(t *testing.T) {
		sorts := []types.Sort{bookPages.Asc(), bookID.Asc()}
		first, err := repo.CursorPage(ctx, query.Unrestricted(), types.FirstPageOf(2).SortedBy(sorts...))
		if err != nil {
			t.Fatalf("CursorPage: %v", err)
		}
		next, ok := first.NextCursor()
		if !ok {
			t.Fatalf("first page has no next cursor")
		}
		second, err := repo.CursorPage(ctx, query.Unrestricted(), types.FirstPageOf(2).SortedBy(sorts...).AfterCursor(next))
		if err != nil {
			t.Fatalf("CursorPage: %v", err)
		}
		previous, ok := second.PreviousCursor()
		if !ok {
			t.Fatalf("second page has no previous cursor")
		}
		back, err := repo.CursorPage(ctx, query.Unrestricted(), types.FirstPageOf(2).SortedBy(sorts...).BeforeCursor(previous))
		if err != nil {
			t.Fatalf("CursorPage: %v", err)
		}
		if len(back.Items) != len(first.Items) {
			t.Fatalf("backward page holds %d rows, want %d", len(back.Items), len(first.Items))
		}
		for i := range back.Items {
			if back.Items[i].ID != first.Items[i].ID {
				t.Errorf("backward page row %d is %q, want %q", i, back.Items[i].ID, first.Items[i].ID)
			}
		}
	})

	t.Run("CursorRequiresSort", func(t *testing.T) {
		_, err := repo.CursorPage(ctx, query.Unrestricted(), types.FirstPageOf(2))
		if err == nil {
			t.Errorf("CursorPage accepted a request without sort criteria")
		}
	})
}

// RunOptimisticLockConformance checks the missing-row update convention with
// the versioned Account entity.
func RunOptimisticLockConformance(t *testing.T, repo repository.Repository[Account]) {
	ctx := context.Background()
	if _, err := repo.DeleteWhere(ctx, query.Unrestricted()); err != nil {
		skipUnsupported(t, "DeleteWhere", err)
		t.Fatalf("reset storage: %v", err)
	}

	acct := NewAccount("alice", 100)
	if err := repo.Create(ctx, acct); err != nil {
		t.Fatalf("Create: %v", err)
	}

	acct.Balance = 150
	if err := repo.Update(ctx, acct); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if err := repo.DeleteEntity(ctx, acct); err != nil {
		t.Fatalf("DeleteEntity: %v", err)
	}
	if err := repo.Update(ctx, acct); !errors.Is(err, types.ErrOptimisticLock) {
		t.Errorf("Update after delete returned %v, want ErrOptimisticLock", err)
	}
	if err := repo.DeleteEntity(ctx, acct); !errors.Is(err, types.ErrOptimisticLock) {
		t.Errorf("DeleteEntity after delete returned %v, want ErrOptimisticLock", err)
	}
}
