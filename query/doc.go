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

// Package query provides the restriction algebra for building dynamic,
// type-safe query predicates: operators and constraints, basic and composite
// restrictions with whole-group negation, LIKE patterns with wildcard
// escaping, typed attribute expressions (a static metamodel), the
// query-by-method-name grammar parser, and a renderer translating restriction
// trees into parameterized SQL predicates.
package query
