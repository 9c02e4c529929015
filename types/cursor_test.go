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

import "testing"

func TestCursorRoundTrip(t *testing.T) {
	c := NewCursor("The Go Programming Language", 380, "b1")
	token, err := c.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := DecodeCursor(token)
	if err != nil {
		t.Fatalf("DecodeCursor: %v", err)
	}
	if decoded.Size() != 3 {
		t.Fatalf("decoded cursor has %d keys, want 3", decoded.Size())
	}
	if decoded.Get(0) != "The Go Programming Language" || decoded.Get(2) != "b1" {
		t.Errorf("string keys did not survive the round trip: %v", decoded.Keys())
	}
	// JSON numbers decode as float64.
	if n, ok := decoded.Get(1).(float64); !ok || n != 380 {
		t.Errorf("numeric key decoded as %T %v", decoded.Get(1), decoded.Get(1))
	}
}

func TestCursorKeysAreCopied(t *testing.T) {
	keys := []any{"a", "b"}
	c := NewCursor(keys...)
	keys[0] = "mutated"
	if c.Get(0) != "a" {
		t.Error("cursor shared storage with the caller slice")
	}
	out := c.Keys()
	out[1] = "mutated"
	if c.Get(1) != "b" {
		t.Error("Keys returned the internal slice")
	}
}

func TestDecodeCursorErrors(t *testing.T) {
	cases := []struct {
		name  string
		token string
	}{
		{"NotBase64", "%%%"},
		{"NotJSON", "bm90LWpzb24"},
		{"EmptyArray", "W10"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeCursor(tc.token); err == nil {
				t.Errorf("DecodeCursor(%q) accepted a bad token", tc.token)
			}
		})
	}
}

func TestNewCursorPanicsWithoutKeys(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewCursor() did not panic")
		}
	}()
	NewCursor()
}
