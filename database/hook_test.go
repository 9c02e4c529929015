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

package database

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/uptrace/bun"
)

func TestQueryHookVerboseLogsQueries(t *testing.T) {
	var buf bytes.Buffer
	hook := NewQueryHook("KESTREL_TEST_SQL_LOG", true, &buf)

	event := &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now()}
	ctx := hook.BeforeQuery(context.Background(), event)
	hook.AfterQuery(ctx, event)

	if !strings.Contains(buf.String(), "SELECT 1") {
		t.Errorf("verbose hook did not log the query: %q", buf.String())
	}
}

func TestQueryHookQuietLogsOnlyErrors(t *testing.T) {
	var buf bytes.Buffer
	hook := NewQueryHook("KESTREL_TEST_SQL_LOG", false, &buf)

	ok := &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now()}
	hook.AfterQuery(context.Background(), ok)
	if buf.Len() != 0 {
		t.Errorf("quiet hook logged a successful query: %q", buf.String())
	}

	failed := &bun.QueryEvent{Query: "SELECT broken", StartTime: time.Now(), Err: errors.New("syntax error")}
	hook.AfterQuery(context.Background(), failed)
	if !strings.Contains(buf.String(), "syntax error") {
		t.Errorf("quiet hook dropped a failed query: %q", buf.String())
	}
}

func TestQueryHookEnvToggle(t *testing.T) {
	var buf bytes.Buffer
	hook := NewQueryHook("KESTREL_TEST_SQL_LOG", true, &buf)
	t.Setenv("KESTREL_TEST_SQL_LOG", "0")

	hook.AfterQuery(context.Background(), &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now()})
	if buf.Len() != 0 {
		t.Errorf("hook ignored the disabling env var: %q", buf.String())
	}

	t.Setenv("KESTREL_TEST_SQL_LOG", "2")
	hook.AfterQuery(context.Background(), &bun.QueryEvent{Query: "SELECT 2", StartTime: time.Now()})
	if !strings.Contains(buf.String(), "SELECT 2") {
		t.Errorf("hook ignored the verbose env var: %q", buf.String())
	}
}

func TestSilentModeSuppressesAllOutput(t *testing.T) {
	var buf bytes.Buffer
	hook := NewQueryHook("KESTREL_TEST_SQL_LOG", true, &buf)

	EnableBunSqlSilent(true)
	defer EnableBunSqlSilent(false)

	hook.AfterQuery(context.Background(), &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now()})
	if buf.Len() != 0 {
		t.Errorf("silent mode still logged: %q", buf.String())
	}
}
