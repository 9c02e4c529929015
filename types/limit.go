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
	"fmt"
	"math"
)

// Limit caps the number of results of a query and optionally skips ahead to a
// 1-based starting position. Both values are validated at construction; an
// instance obtained from LimitOf or LimitRange is always well formed.
type Limit struct {
	maxResults int
	startAt    int64
}

// LimitOf returns a limit on the number of results, starting at position 1.
// It panics if maxResults is less than 1.
func LimitOf(maxResults int) Limit {
	if maxResults < 1 {
		panic(fmt.Sprintf("types: limit maxResults must be at least 1, got %d", maxResults))
	}
	return Limit{maxResults: maxResults, startAt: 1}
}

// LimitRange returns a limit covering the inclusive 1-based positions
// startAt..endAt, so maxResults is endAt-startAt+1. It panics when either
// position is below 1, when endAt precedes startAt, or when the range size
// would not fit in an int.
func LimitRange(startAt, endAt int64) Limit {
	if startAt < 1 {
		panic(fmt.Sprintf("types: limit startAt must be at least 1, got %d", startAt))
	}
	if endAt < startAt {
		panic(fmt.Sprintf("types: limit endAt %d precedes startAt %d", endAt, startAt))
	}
	size := endAt - startAt + 1
	if size > math.MaxInt32 {
		panic(fmt.Sprintf("types: limit range %d..%d exceeds the maximum result count", startAt, endAt))
	}
	return Limit{maxResults: int(size), startAt: startAt}
}

// MaxResults returns the maximum number of results to retrieve.
func (l Limit) MaxResults() int { return l.maxResults }

// StartAt returns the 1-based position of the first result to retrieve.
func (l Limit) StartAt() int64 { return l.startAt }

// Offset returns the number of leading results to skip.
func (l Limit) Offset() int { return int(l.startAt - 1) }

func (l Limit) String() string {
	if l.startAt == 1 {
		return fmt.Sprintf("limit %d", l.maxResults)
	}
	return fmt.Sprintf("limit %d startAt %d", l.maxResults, l.startAt)
}
