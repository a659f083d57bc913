package database

import (
	"io/fs"
	"strings"
	"testing"
)

// 埋め込みマイグレーションにup/downのペアが揃っていることを検証
func TestMigrationsFS_UpDownPairs(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("failed to read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no migration files embedded")
	}

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected migration file: %s", name)
		}
	}

	for base := range ups {
		if !downs[base] {
			t.Errorf("missing down migration for %s", base)
		}
	}
	for base := range downs {
		if !ups[base] {
			t.Errorf("missing up migration for %s", base)
		}
	}
}

// 初期マイグレーションが必要なテーブルを全て作成することを検証
func TestInitialMigration_CreatesAllTables(t *testing.T) {
	data, err := fs.ReadFile(migrationsFS, "migrations/000001_init.up.sql")
	if err != nil {
		t.Fatalf("failed to read initial migration: %v", err)
	}
	content := string(data)

	for _, table := range []string{"users", "meal_plans", "pdf_files"} {
		if !strings.Contains(content, "CREATE TABLE "+table) {
			t.Errorf("initial migration should create table %s", table)
		}
	}

	// アクティブプランの一意性は部分インデックスで担保する
	if !strings.Contains(content, "WHERE is_active") {
		t.Error("initial migration should create a partial unique index on active plans")
	}
}
