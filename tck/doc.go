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

// Package tck is the conformance kit for repository providers. It ships
// sample entities, an in-memory restriction oracle (Matches), and suite
// functions (RunCrudConformance, RunRestrictionConformance,
// RunDerivedQueryConformance, RunPaginationConformance,
// RunOptimisticLockConformance) that exercise a Repository implementation
// against the documented semantics. Providers signal capability gaps by
// returning errors that wrap types.ErrUnsupported; the suites report those
// as skipped rather than failed.
//
// A provider wires the kit from its own tests:
//
//	func TestConformance(t *testing.T) {
//		db := openTestDB(t)
//		tck.RunConformance(t, repository.NewRepository[tck.Book](db))
//	}
package tck
