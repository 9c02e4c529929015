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

import (
	"fmt"
	"strings"
)

// Restriction is an immutable predicate over entity attributes: either a
// single attribute constraint (BasicRestriction) or an AND/OR combination of
// sub-restrictions (CompositeRestriction). A provider translates the tree
// into its query language; nothing here touches a database.
type Restriction interface {
	// Negate returns a restriction matching exactly the rows this one does
	// not match.
	Negate() Restriction
	// String renders the predicate in query language form with ?
	// placeholders for the argument values.
	String() string
}

// BasicRestriction constrains one attribute with one constraint. The fold
// flag requests case-insensitive comparison of text values.
type BasicRestriction struct {
	attribute  string
	constraint Constraint
	fold       bool
}

// Restrict applies a constraint to the named attribute.
func Restrict(attribute string, c Constraint) BasicRestriction {
	if attribute == "" {
		panic("query: restriction attribute must not be empty")
	}
	return BasicRestriction{attribute: attribute, constraint: c}
}

// Attribute returns the constrained attribute name.
func (r BasicRestriction) Attribute() string { return r.attribute }

// Constraint returns the applied constraint.
func (r BasicRestriction) Constraint() Constraint { return r.constraint }

// IgnoresCase reports whether text comparison folds case.
func (r BasicRestriction) IgnoresCase() bool { return r.fold }

// IgnoreCase returns a copy comparing text values case-insensitively.
func (r BasicRestriction) IgnoreCase() BasicRestriction {
	r.fold = true
	return r
}

// Negate swaps the constraint for its exact opposite, preserving the
// attribute and the argument values.
func (r BasicRestriction) Negate() Restriction {
	r.constraint = r.constraint.Negate()
	return r
}

func (r BasicRestriction) String() string {
	if r.fold {
		return fmt.Sprintf("LOWER(%s) %s", r.attribute, r.constraint)
	}
	return fmt.Sprintf("%s %s", r.attribute, r.constraint)
}

// CompositeRestriction combines sub-restrictions with AND or ALL/ANY
// semantics. Negating a composite negates the result of the whole group, not
// each member: the negation is recorded as a flag on the composite and
// applied after the members are combined.
type CompositeRestriction struct {
	typ     CompositeType
	members []Restriction
	negated bool
}

// RestrictAll matches rows satisfying every member restriction.
func RestrictAll(members ...Restriction) CompositeRestriction {
	out := make([]Restriction, len(members))
	copy(out, members)
	return CompositeRestriction{typ: All, members: out}
}

// RestrictAny matches rows satisfying at least one member restriction.
func RestrictAny(members ...Restriction) CompositeRestriction {
	c := RestrictAll(members...)
	c.typ = Any
	return c
}

// Type returns whether the members combine with ALL or ANY semantics.
func (r CompositeRestriction) Type() CompositeType { return r.typ }

// Members returns the combined restrictions in order.
func (r CompositeRestriction) Members() []Restriction {
	out := make([]Restriction, len(r.members))
	copy(out, r.members)
	return out
}

// IsNegated reports whether the combined group result is negated.
func (r CompositeRestriction) IsNegated() bool { return r.negated }

// Negate flips the whole-group negation flag.
func (r CompositeRestriction) Negate() Restriction {
	r.negated = !r.negated
	return r
}

func (r CompositeRestriction) String() string {
	if len(r.members) == 0 {
		return Unrestricted().String()
	}
	parts := make([]string, len(r.members))
	for i, m := range r.members {
		parts[i] = m.String()
	}
	joined := "(" + strings.Join(parts, " "+r.typ.QueryLanguage()+" ") + ")"
	if r.negated {
		return "NOT " + joined
	}
	return joined
}

// unrestricted matches every row.
type unrestricted struct{}

// Unrestricted returns the neutral restriction that matches everything.
func Unrestricted() Restriction { return unrestricted{} }

func (unrestricted) Negate() Restriction { return unmatchable{} }

func (unrestricted) String() string { return "1 = 1" }

// unmatchable matches no row at all.
type unmatchable struct{}

// Unmatchable returns the restriction that matches nothing.
func Unmatchable() Restriction { return unmatchable{} }

func (unmatchable) Negate() Restriction { return unrestricted{} }

func (unmatchable) String() string { return "1 = 0" }
