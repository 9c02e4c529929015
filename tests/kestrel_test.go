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

package tests

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/uptrace/bun"

	"github.com/kestrel-data/kestrel"
	"github.com/kestrel-data/kestrel/database"
	"github.com/kestrel-data/kestrel/query"
	"github.com/kestrel-data/kestrel/types"
)

type SystemConfig struct {
	bun.BaseModel `bun:"table:system_config,alias:sc"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	ConfigKey   string    `bun:"config_key,notnull,unique" json:"config_key"`
	ConfigValue string    `bun:"config_value" json:"config_value"`
	Description string    `bun:"description" json:"description"`
	ConfigType  string    `bun:"config_type,notnull,default:'string'" json:"config_type"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

var registerModels = sync.OnceFunc(func() {
	database.RegisterModel(database.NewEntityAdapter((*SystemConfig)(nil), 1))
})

func initTestDatabase(t *testing.T) {
	t.Helper()
	registerModels()
	cfg := &database.Config{
		Connection: database.ConnectionConfig{
			Type:   "sqlite",
			DBName: filepath.Join(t.TempDir(), "kestrel_test"),
		},
		Migrate: database.MigrateConfig{EnableMigrateOnStartup: true},
	}
	if _, err := database.InitDB(cfg); err != nil {
		t.Skipf("init database error: %v", err)
	}
	t.Cleanup(func() { _ = database.CloseDB() })
}

func TestServiceRoundTrip(t *testing.T) {
	initTestDatabase(t)

	svc := kestrel.NewService[SystemConfig]()
	ctx := context.Background()

	rows := []*SystemConfig{
		{ConfigKey: "site.name", ConfigValue: "kestrel", ConfigType: "string"},
		{ConfigKey: "site.debug", ConfigValue: "false", ConfigType: "bool"},
		{ConfigKey: "page.size", ConfigValue: "20", ConfigType: "int"},
	}
	if err := svc.Save(ctx, rows...); err != nil {
		t.Fatalf("save error: %v", err)
	}

	all, err := svc.All(ctx)
	if err != nil {
		t.Fatalf("query error: %v", err)
	}
	t.Logf("search with %d rows", len(all))
	if len(all) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(all))
	}

	configKey := query.TextAttributeOf("config_key")

	one, err := svc.FindOne(ctx, configKey.EqualTo("site.name"))
	if err != nil {
		t.Fatalf("find one error: %v", err)
	}
	if one.ConfigValue != "kestrel" {
		t.Fatalf("unexpected value: %q", one.ConfigValue)
	}

	matched, err := svc.Find(ctx, configKey.StartsWith("site."), configKey.Asc())
	if err != nil {
		t.Fatalf("find error: %v", err)
	}
	if len(matched) != 2 {
		t.Fatalf("expected 2 site.* rows, got %d", len(matched))
	}

	derived, err := svc.FindBy(ctx, "findByConfigType", "bool")
	if err != nil {
		t.Fatalf("derived query error: %v", err)
	}
	if len(derived) != 1 || derived[0].ConfigKey != "site.debug" {
		t.Fatalf("derived query returned wrong rows: %v", derived)
	}

	page, err := svc.Page(ctx, query.Unrestricted(), types.PageOf(1, 2).SortedBy(configKey.Asc()).WithTotal())
	if err != nil {
		t.Fatalf("page error: %v", err)
	}
	if page.NumberOfElements() != 2 || page.Total != int64(len(rows)) {
		t.Fatalf("page holds %d rows of %d", page.NumberOfElements(), page.Total)
	}

	one.ConfigValue = "Kestrel Data"
	if err := svc.Update(ctx, one); err != nil {
		t.Fatalf("update error: %v", err)
	}

	deleted, err := svc.DeleteWhere(ctx, configKey.StartsWith("site."))
	if err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected to delete 2 rows, deleted %d", deleted)
	}

	count, err := svc.Count(ctx, query.Unrestricted())
	if err != nil {
		t.Fatalf("count error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 remaining row, got %d", count)
	}
}

func TestHealthStatus(t *testing.T) {
	initTestDatabase(t)

	status := database.GetHealthStatus(context.Background())
	if !status.Healthy || !status.Connected {
		t.Fatalf("unexpected health status: %+v", status)
	}
	stats := database.GetDatabaseStats()
	t.Logf("open connections: %d", stats.OpenConns)
}
