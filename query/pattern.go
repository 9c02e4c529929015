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

import "strings"

// patternEscape is the escape character used in generated LIKE patterns for
// the reserved wildcards '%' and '_' and for the escape character itself.
const patternEscape = '\\'

// Pattern is an immutable LIKE pattern. Constructors that take a literal
// substring escape any reserved wildcard characters it contains before
// attaching the '%' wildcards, so "50%_off" matches those characters
// literally rather than as wildcards.
type Pattern struct {
	value         string
	caseSensitive bool
	escaped       bool
}

func escapeLiteral(literal string) (string, bool) {
	if !strings.ContainsAny(literal, "%_\\") {
		return literal, false
	}
	var b strings.Builder
	b.Grow(len(literal) + 4)
	for _, r := range literal {
		if r == '%' || r == '_' || r == patternEscape {
			b.WriteRune(patternEscape)
		}
		b.WriteRune(r)
	}
	return b.String(), true
}

// Contains matches values that contain the literal substring.
func Contains(substring string) Pattern {
	escaped, used := escapeLiteral(substring)
	return Pattern{value: "%" + escaped + "%", caseSensitive: true, escaped: used}
}

// StartsWith matches values that begin with the literal prefix.
func StartsWith(prefix string) Pattern {
	escaped, used := escapeLiteral(prefix)
	return Pattern{value: escaped + "%", caseSensitive: true, escaped: used}
}

// EndsWith matches values that end with the literal suffix.
func EndsWith(suffix string) Pattern {
	escaped, used := escapeLiteral(suffix)
	return Pattern{value: "%" + escaped, caseSensitive: true, escaped: used}
}

// Literal matches values equal to the literal string; wildcard characters in
// it are escaped and match themselves.
func Literal(value string) Pattern {
	escaped, used := escapeLiteral(value)
	return Pattern{value: escaped, caseSensitive: true, escaped: used}
}

// PatternOf uses the string as a LIKE pattern verbatim: '%' and '_' keep
// their wildcard meaning.
func PatternOf(pattern string) Pattern {
	return Pattern{value: pattern, caseSensitive: true}
}

// PatternWith builds a pattern from a template using custom wildcard
// characters, translating charWildcard to '_' and stringWildcard to '%'.
// Every other occurrence of '%', '_', or the escape character is escaped.
func PatternWith(template string, charWildcard, stringWildcard rune) Pattern {
	var b strings.Builder
	b.Grow(len(template))
	for _, r := range template {
		switch r {
		case charWildcard:
			b.WriteRune('_')
		case stringWildcard:
			b.WriteRune('%')
		case '%', '_', patternEscape:
			b.WriteRune(patternEscape)
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return Pattern{value: b.String(), caseSensitive: true, escaped: strings.ContainsRune(b.String(), patternEscape)}
}

// IgnoreCase returns a copy of the pattern that compares case-insensitively.
func (p Pattern) IgnoreCase() Pattern {
	p.caseSensitive = false
	return p
}

// Value returns the LIKE pattern string, wildcards and escapes included.
func (p Pattern) Value() string { return p.value }

// IsCaseSensitive reports whether the comparison respects case.
func (p Pattern) IsCaseSensitive() bool { return p.caseSensitive }

// UsesEscapes reports whether the pattern contains escape sequences and thus
// needs an ESCAPE clause.
func (p Pattern) UsesEscapes() bool { return p.escaped }

func (p Pattern) String() string { return p.value }
