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

package query

import "github.com/kestrel-data/kestrel/types"

// The attribute types below form a static metamodel: per-entity packages
// declare one typed attribute per column so predicates are built from typed
// constants instead of raw strings.
//
//	var BookTitle = query.TextAttributeOf("title")
//	r := BookTitle.Contains("Go")

// Attribute is an entity attribute of value type V, addressed by its column
// name. It builds restrictions for the comparisons every type supports.
type Attribute[V any] struct {
	name string
}

// AttributeOf declares an attribute by column name.
func AttributeOf[V any](name string) Attribute[V] {
	if name == "" {
		panic("query: attribute name must not be empty")
	}
	return Attribute[V]{name: name}
}

// Name returns the column name of the attribute.
func (a Attribute[V]) Name() string { return a.name }

// EqualTo matches rows whose attribute equals the value.
func (a Attribute[V]) EqualTo(value V) BasicRestriction {
	return Restrict(a.name, EqualTo(value))
}

// NotEqualTo matches rows whose attribute differs from the value.
func (a Attribute[V]) NotEqualTo(value V) BasicRestriction {
	return Restrict(a.name, NotEqualTo(value))
}

// In matches rows whose attribute equals one of the values.
func (a Attribute[V]) In(values ...V) BasicRestriction {
	return Restrict(a.name, InValues(anySlice(values)...))
}

// NotIn matches rows whose attribute equals none of the values.
func (a Attribute[V]) NotIn(values ...V) BasicRestriction {
	return Restrict(a.name, NotInValues(anySlice(values)...))
}

// IsNull matches rows whose attribute has no value.
func (a Attribute[V]) IsNull() BasicRestriction {
	return Restrict(a.name, IsNull())
}

// IsNotNull matches rows whose attribute has a value.
func (a Attribute[V]) IsNotNull() BasicRestriction {
	return Restrict(a.name, IsNotNull())
}

// Asc sorts ascending by this attribute.
func (a Attribute[V]) Asc() types.Sort { return types.Asc(a.name) }

// Desc sorts descending by this attribute.
func (a Attribute[V]) Desc() types.Sort { return types.Desc(a.name) }

func anySlice[V any](values []V) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// ComparableAttribute is an attribute whose value type has a database
// ordering, adding range comparisons.
type ComparableAttribute[V any] struct {
	Attribute[V]
}

// ComparableAttributeOf declares an orderable attribute by column name.
func ComparableAttributeOf[V any](name string) ComparableAttribute[V] {
	return ComparableAttribute[V]{Attribute: AttributeOf[V](name)}
}

// GreaterThan matches rows whose attribute is strictly above the value.
func (a ComparableAttribute[V]) GreaterThan(value V) BasicRestriction {
	return Restrict(a.name, GreaterThanValue(value))
}

// GreaterThanEqual matches rows whose attribute is at least the value.
func (a ComparableAttribute[V]) GreaterThanEqual(value V) BasicRestriction {
	return Restrict(a.name, AtLeast(value))
}

// LessThan matches rows whose attribute is strictly below the value.
func (a ComparableAttribute[V]) LessThan(value V) BasicRestriction {
	return Restrict(a.name, LessThanValue(value))
}

// LessThanEqual matches rows whose attribute is at most the value.
func (a ComparableAttribute[V]) LessThanEqual(value V) BasicRestriction {
	return Restrict(a.name, AtMost(value))
}

// Between matches rows whose attribute is in the inclusive range lo..hi.
func (a ComparableAttribute[V]) Between(lo, hi V) BasicRestriction {
	return Restrict(a.name, BetweenValues(lo, hi))
}

// NotBetween matches rows whose attribute is outside the inclusive range.
func (a ComparableAttribute[V]) NotBetween(lo, hi V) BasicRestriction {
	return Restrict(a.name, NotBetweenValues(lo, hi))
}

// Numeric is the set of value types a NumericAttribute accepts.
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// NumericAttribute is a ComparableAttribute restricted to numeric types.
type NumericAttribute[V Numeric] struct {
	ComparableAttribute[V]
}

// NumericAttributeOf declares a numeric attribute by column name.
func NumericAttributeOf[V Numeric](name string) NumericAttribute[V] {
	return NumericAttribute[V]{ComparableAttribute: ComparableAttributeOf[V](name)}
}

// TextAttribute is a string attribute adding pattern matching and optional
// case folding. IgnoreCase returns a copy whose comparisons fold case.
type TextAttribute struct {
	ComparableAttribute[string]
	fold bool
}

// TextAttributeOf declares a text attribute by column name.
func TextAttributeOf(name string) TextAttribute {
	return TextAttribute{ComparableAttribute: ComparableAttributeOf[string](name)}
}

// IgnoreCase returns a copy comparing case-insensitively.
func (a TextAttribute) IgnoreCase() TextAttribute {
	a.fold = true
	return a
}

func (a TextAttribute) restrict(c Constraint) BasicRestriction {
	r := Restrict(a.name, c)
	if a.fold {
		r = r.IgnoreCase()
	}
	return r
}

// EqualTo matches rows whose attribute equals the value, folding case when
// requested.
func (a TextAttribute) EqualTo(value string) BasicRestriction {
	return a.restrict(EqualTo(value))
}

// NotEqualTo matches rows whose attribute differs from the value.
func (a TextAttribute) NotEqualTo(value string) BasicRestriction {
	return a.restrict(NotEqualTo(value))
}

// Like matches rows whose attribute satisfies the pattern.
func (a TextAttribute) Like(p Pattern) BasicRestriction {
	if a.fold {
		p = p.IgnoreCase()
	}
	return a.restrict(LikePattern(p))
}

// NotLike matches rows whose attribute does not satisfy the pattern.
func (a TextAttribute) NotLike(p Pattern) BasicRestriction {
	if a.fold {
		p = p.IgnoreCase()
	}
	return a.restrict(NotLikePattern(p))
}

// Contains matches rows whose attribute contains the literal substring.
func (a TextAttribute) Contains(substring string) BasicRestriction {
	return a.Like(Contains(substring))
}

// StartsWith matches rows whose attribute begins with the literal prefix.
func (a TextAttribute) StartsWith(prefix string) BasicRestriction {
	return a.Like(StartsWith(prefix))
}

// EndsWith matches rows whose attribute ends with the literal suffix.
func (a TextAttribute) EndsWith(suffix string) BasicRestriction {
	return a.Like(EndsWith(suffix))
}

// AscIgnoreCase sorts ascending, folding case.
func (a TextAttribute) AscIgnoreCase() types.Sort { return types.AscIgnoreCase(a.name) }

// DescIgnoreCase sorts descending, folding case.
func (a TextAttribute) DescIgnoreCase() types.Sort { return types.DescIgnoreCase(a.name) }
