package migrations

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// openTestDB opens an in-memory SQLite database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	return db
}

func TestMigrateUp_StoreSet(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	if err := MigrateUp(db, StoreSet); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	tables := []string{"db_info", "directories", "files", "schema_migrations"}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s was not created: %v", table, err)
		}
	}

	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='view' AND name='view_filelist'").Scan(&name)
	if err != nil {
		t.Errorf("View view_filelist was not created: %v", err)
	}
}

func TestMigrateUp_MergedSet(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	if err := MigrateUp(db, MergedSet); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	tables := []string{"filelists", "directories", "files", "schema_migrations"}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s was not created: %v", table, err)
		}
	}

	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='view' AND name='view_merged'").Scan(&name)
	if err != nil {
		t.Errorf("View view_merged was not created: %v", err)
	}
}

func TestCheckStatus_FreshDatabase(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	if err := CheckStatus(db, StoreSet); err == nil {
		t.Error("CheckStatus() expected error for fresh database, got nil")
	}
}

func TestCheckStatus_AfterMigration(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	if err := MigrateUp(db, StoreSet); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	if err := CheckStatus(db, StoreSet); err != nil {
		t.Errorf("CheckStatus() after migration returned error: %v", err)
	}
}

func TestMigrateUp_Idempotent(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	if err := MigrateUp(db, StoreSet); err != nil {
		t.Fatalf("First MigrateUp() failed: %v", err)
	}
	if err := MigrateUp(db, StoreSet); err != nil {
		t.Errorf("Second MigrateUp() failed: %v (should be idempotent)", err)
	}
	if err := CheckStatus(db, StoreSet); err != nil {
		t.Errorf("CheckStatus() after double migration returned error: %v", err)
	}
}

func TestMergedSchema_ForeignKeys(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	if err := MigrateUp(db, MergedSet); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	// A file row referencing a missing filelist must be rejected.
	_, err := db.Exec(`
		INSERT INTO files (filelist_id, file_id, file_name, dir_id)
		VALUES (99, 1, 'test.txt', 1)
	`)
	if err == nil {
		t.Error("Expected foreign key constraint violation, but insert succeeded")
	}
}

func TestMergedSchema_TagUnique(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	if err := MigrateUp(db, MergedSet); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	if _, err := db.Exec("INSERT INTO filelists (tag, file_name) VALUES ('alpha', 'a.sqlite')"); err != nil {
		t.Fatalf("Failed to insert first filelist: %v", err)
	}
	_, err := db.Exec("INSERT INTO filelists (tag, file_name) VALUES ('alpha', 'b.sqlite')")
	if err == nil {
		t.Error("Expected unique constraint violation for duplicate tag, but insert succeeded")
	}
}

func TestLatestVersion(t *testing.T) {
	for _, set := range []string{StoreSet, MergedSet} {
		latest, err := LatestVersion(set)
		if err != nil {
			t.Fatalf("LatestVersion(%s) failed: %v", set, err)
		}
		if latest < 1 {
			t.Errorf("LatestVersion(%s) = %d, want at least 1", set, latest)
		}
	}
}
