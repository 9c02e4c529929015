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

// Render translates a restriction tree into a parameterized SQL predicate:
// a clause with ? placeholders and the bind arguments in placeholder order.
// The clause is portable across the supported dialects; providers pass it to
// their query builder unchanged.
func Render(r Restriction) (clause string, args []any, err error) {
	switch v := r.(type) {
	case unrestricted:
		return "1 = 1", nil, nil
	case unmatchable:
		return "1 = 0", nil, nil
	case BasicRestriction:
		return renderBasic(v)
	case CompositeRestriction:
		return renderComposite(v)
	case nil:
		return "1 = 1", nil, nil
	default:
		return "", nil, fmt.Errorf("query: unknown restriction type %T", r)
	}
}

func renderBasic(r BasicRestriction) (string, []any, error) {
	column := r.Attribute()
	fold := r.IgnoresCase()

	switch c := r.Constraint().(type) {
	case Comparison:
		if fold {
			return fmt.Sprintf("LOWER(%s) %s LOWER(?)", column, c.Operator().QueryLanguage()), []any{c.Value()}, nil
		}
		return fmt.Sprintf("%s %s ?", column, c.Operator().QueryLanguage()), []any{c.Value()}, nil

	case Membership:
		values := c.Values()
		if len(values) == 0 {
			// IN () matches nothing; NOT IN () matches everything.
			if c.Operator() == In {
				return "1 = 0", nil, nil
			}
			return "1 = 1", nil, nil
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
		if fold {
			return fmt.Sprintf("LOWER(%s) %s (%s)", column, c.Operator().QueryLanguage(), placeholders), lowerArgs(values), nil
		}
		return fmt.Sprintf("%s %s (%s)", column, c.Operator().QueryLanguage(), placeholders), values, nil

	case Between:
		lo, hi := c.Bounds()
		verb := "BETWEEN"
		if c.IsNegated() {
			verb = "NOT BETWEEN"
		}
		return fmt.Sprintf("%s %s ? AND ?", column, verb), []any{lo, hi}, nil

	case LikeConstraint:
		pattern := c.Pattern()
		escape := ""
		if pattern.UsesEscapes() {
			escape = " ESCAPE '\\'"
		}
		if fold || !pattern.IsCaseSensitive() {
			return fmt.Sprintf("LOWER(%s) %s LOWER(?)%s", column, c.Operator().QueryLanguage(), escape),
				[]any{pattern.Value()}, nil
		}
		return fmt.Sprintf("%s %s ?%s", column, c.Operator().QueryLanguage(), escape),
			[]any{pattern.Value()}, nil

	case NullConstraint:
		if c.IsNegated() {
			return column + " IS NOT NULL", nil, nil
		}
		return column + " IS NULL", nil, nil

	case nil:
		return "", nil, fmt.Errorf("query: restriction on %q has no constraint", column)

	default:
		return "", nil, fmt.Errorf("query: unknown constraint type %T", r.Constraint())
	}
}

// lowerArgs folds string arguments so a LOWER(column) IN (...) comparison
// stays consistent on both sides.
func lowerArgs(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		if s, ok := v.(string); ok {
			out[i] = strings.ToLower(s)
		} else {
			out[i] = v
		}
	}
	return out
}

func renderComposite(r CompositeRestriction) (string, []any, error) {
	members := r.Members()
	if len(members) == 0 {
		if r.IsNegated() {
			return "1 = 0", nil, nil
		}
		return "1 = 1", nil, nil
	}

	parts := make([]string, 0, len(members))
	var args []any
	for _, m := range members {
		clause, memberArgs, err := Render(m)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, clause)
		args = append(args, memberArgs...)
	}

	joined := strings.Join(parts, " "+r.Type().QueryLanguage()+" ")
	if r.IsNegated() {
		return "NOT (" + joined + ")", args, nil
	}
	if len(parts) > 1 {
		return "(" + joined + ")", args, nil
	}
	return joined, args, nil
}
