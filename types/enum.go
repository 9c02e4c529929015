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

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
	IllegalDesc  = "unknown"
)

// BaseEnum represents a basic enum contract used by domain types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}

// Direction is the sort direction of a single Sort criterion.
type Direction int

const (
	DirectionAsc Direction = iota
	DirectionDesc
)

func (d Direction) IsValid() bool {
	return d == DirectionAsc || d == DirectionDesc
}

func (d Direction) Number() int {
	if !d.IsValid() {
		return IllegalValue
	}
	return int(d)
}

func (d Direction) String() string {
	switch d {
	case DirectionAsc:
		return "ASC"
	case DirectionDesc:
		return "DESC"
	default:
		return IllegalName
	}
}

func (d Direction) Name() string {
	switch d {
	case DirectionAsc:
		return "asc"
	case DirectionDesc:
		return "desc"
	default:
		return IllegalName
	}
}

func (d Direction) Desc() string {
	switch d {
	case DirectionAsc:
		return "ascending order"
	case DirectionDesc:
		return "descending order"
	default:
		return IllegalDesc
	}
}

// Reversed returns the opposite direction.
func (d Direction) Reversed() Direction {
	if d == DirectionAsc {
		return DirectionDesc
	}
	return DirectionAsc
}
