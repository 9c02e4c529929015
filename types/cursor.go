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
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Cursor identifies a position in a result set by the key values of a row,
// one value per sort criterion of the query that produced it. Cursors are
// immutable and opaque to callers; Encode/DecodeCursor give them a transport
// form suitable for URLs.
type Cursor struct {
	keys []any
}

// NewCursor builds a cursor from key values. At least one value is required.
func NewCursor(keys ...any) Cursor {
	if len(keys) == 0 {
		panic("types: a cursor requires at least one key value")
	}
	out := make([]any, len(keys))
	copy(out, keys)
	return Cursor{keys: out}
}

// Size returns the number of key values.
func (c Cursor) Size() int { return len(c.keys) }

// Get returns the key value at the given position.
func (c Cursor) Get(i int) any { return c.keys[i] }

// Keys returns a copy of all key values.
func (c Cursor) Keys() []any {
	out := make([]any, len(c.keys))
	copy(out, c.keys)
	return out
}

// Encode serializes the cursor into an opaque URL-safe token.
func (c Cursor) Encode() (string, error) {
	b, err := json.Marshal(c.keys)
	if err != nil {
		return "", fmt.Errorf("failed to encode cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DecodeCursor restores a cursor from the token produced by Encode.
func DecodeCursor(token string) (Cursor, error) {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("malformed cursor token: %w", err)
	}
	var keys []any
	if err := json.Unmarshal(b, &keys); err != nil {
		return Cursor{}, fmt.Errorf("malformed cursor payload: %w", err)
	}
	if len(keys) == 0 {
		return Cursor{}, fmt.Errorf("cursor token holds no key values")
	}
	return Cursor{keys: keys}, nil
}

func (c Cursor) String() string {
	return fmt.Sprintf("cursor with %d key values", len(c.keys))
}
