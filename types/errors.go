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

import (
	"errors"
	"fmt"
)

// Sentinel error kinds of the data access layer. Callers test them with
// errors.Is against any error returned by a repository or service, regardless
// of how deeply the provider wrapped the driver failure.
var (
	// ErrEmptyResult: exactly one result was expected but none was found.
	ErrEmptyResult = errors.New("expected a single result but found none")

	// ErrNonUniqueResult: exactly one result was expected but several were found.
	ErrNonUniqueResult = errors.New("expected a single result but found more than one")

	// ErrOptimisticLock: an update or delete matched no row because the entity
	// was modified or removed concurrently.
	ErrOptimisticLock = errors.New("optimistic locking failure")

	// ErrEntityExists: an insert collided with an existing unique key.
	ErrEntityExists = errors.New("entity already exists")

	// ErrIntegrityViolation: a not-null, foreign-key, or check constraint
	// rejected the statement.
	ErrIntegrityViolation = errors.New("data integrity violation")

	// ErrMapping: the result set could not be mapped onto the entity type.
	ErrMapping = errors.New("result mapping failure")

	// ErrUnsupported: the provider does not implement the requested
	// capability. Callers are expected to catch this selectively, e.g. when a
	// datastore cannot sort.
	ErrUnsupported = errors.New("operation not supported by this provider")
)

// DataError is the error type produced by repositories and the database
// layer. It ties an operation name and one of the sentinel kinds above to the
// underlying driver error, keeping both reachable through errors.Is/As.
type DataError struct {
	// Op names the failing operation, e.g. "repository.FindOne".
	Op string
	// Kind is one of the sentinel errors above, or nil for uncategorized
	// failures.
	Kind error
	// Err is the underlying cause, or nil when the failure originates here.
	Err error
}

func (e *DataError) Error() string {
	switch {
	case e.Kind != nil && e.Err != nil:
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	case e.Kind != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": data access failure"
	}
}

func (e *DataError) Unwrap() error { return e.Err }

// Is matches the sentinel kind in addition to the wrapped cause chain.
func (e *DataError) Is(target error) bool { return e.Kind != nil && target == e.Kind }

// NewDataError builds a DataError; kind may be nil for uncategorized failures.
func NewDataError(op string, kind, cause error) *DataError {
	return &DataError{Op: op, Kind: kind, Err: cause}
}

// IsEmptyResult reports whether err means "no row where one was expected".
func IsEmptyResult(err error) bool { return errors.Is(err, ErrEmptyResult) }

// IsNonUniqueResult reports whether err means "several rows where one was
// expected".
func IsNonUniqueResult(err error) bool { return errors.Is(err, ErrNonUniqueResult) }

// IsOptimisticLock reports whether err is an optimistic locking failure.
func IsOptimisticLock(err error) bool { return errors.Is(err, ErrOptimisticLock) }

// IsUnsupported reports whether err marks a provider capability gap.
func IsUnsupported(err error) bool { return errors.Is(err, ErrUnsupported) }
