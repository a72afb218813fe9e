package database

import (
	"path/filepath"
	"testing"

	"filelist-go/internal/flist"
)

func TestMergedStore_TransactionGuards(t *testing.T) {
	store, err := CreateMergedStore(":memory:")
	if err != nil {
		t.Fatalf("CreateMergedStore() unexpected error: %v", err)
	}
	defer store.Close()

	t.Run("inserts require an active transaction", func(t *testing.T) {
		if _, err := store.InsertFilelist("tag", "a.sqlite", testInfo()); err == nil {
			t.Error("InsertFilelist() expected error outside transaction, got nil")
		}
		if err := store.InsertDirectory(1, "/a", 1); err == nil {
			t.Error("InsertDirectory() expected error outside transaction, got nil")
		}
		if err := store.InsertFile(1, 1, &flist.FileInfo{Name: "f"}, 1); err == nil {
			t.Error("InsertFile() expected error outside transaction, got nil")
		}
		if err := store.CreateFilelistView(1); err == nil {
			t.Error("CreateFilelistView() expected error outside transaction, got nil")
		}
	})

	t.Run("commit requires an active transaction", func(t *testing.T) {
		if err := store.Commit(); err == nil {
			t.Error("Commit() expected error outside transaction, got nil")
		}
	})

	t.Run("begin twice fails", func(t *testing.T) {
		if err := store.Begin(); err != nil {
			t.Fatalf("Begin() unexpected error: %v", err)
		}
		if err := store.Begin(); err == nil {
			t.Error("second Begin() expected error, got nil")
		}
		if err := store.Commit(); err != nil {
			t.Fatalf("Commit() unexpected error: %v", err)
		}
	})
}

func TestMergedStore_RoundTrip(t *testing.T) {
	store, err := CreateMergedStore(":memory:")
	if err != nil {
		t.Fatalf("CreateMergedStore() unexpected error: %v", err)
	}
	defer store.Close()

	maxID, err := store.MaxDirectoryID()
	if err != nil {
		t.Fatalf("MaxDirectoryID() unexpected error: %v", err)
	}
	if maxID != 0 {
		t.Errorf("MaxDirectoryID() = %d on empty store, want 0", maxID)
	}

	if err := store.Begin(); err != nil {
		t.Fatalf("Begin() unexpected error: %v", err)
	}

	id, err := store.InsertFilelist("alpha", "a.sqlite", testInfo())
	if err != nil {
		t.Fatalf("InsertFilelist() unexpected error: %v", err)
	}
	if id != 1 {
		t.Errorf("InsertFilelist() id = %d, want 1", id)
	}

	if err := store.InsertDirectory(1, "/a", id); err != nil {
		t.Fatalf("InsertDirectory() unexpected error: %v", err)
	}
	fi := &flist.FileInfo{Name: "f1.txt", SHA1: "s1", Size: 10,
		Modified: "2024-01-10 08:00:00"}
	if err := store.InsertFile(id, 1, fi, 1); err != nil {
		t.Fatalf("InsertFile() unexpected error: %v", err)
	}
	if err := store.CreateFilelistView(id); err != nil {
		t.Fatalf("CreateFilelistView() unexpected error: %v", err)
	}
	if err := store.Commit(); err != nil {
		t.Fatalf("Commit() unexpected error: %v", err)
	}

	tags, err := store.Tags()
	if err != nil {
		t.Fatalf("Tags() unexpected error: %v", err)
	}
	if len(tags) != 1 || tags[0] != "alpha" {
		t.Errorf("Tags() = %v, want [alpha]", tags)
	}

	maxID, err = store.MaxDirectoryID()
	if err != nil {
		t.Fatalf("MaxDirectoryID() unexpected error: %v", err)
	}
	if maxID != 1 {
		t.Errorf("MaxDirectoryID() = %d, want 1", maxID)
	}

	var name string
	err = store.db.QueryRow("SELECT file_name FROM filelist1").Scan(&name)
	if err != nil {
		t.Fatalf("querying filelist1 view: %v", err)
	}
	if name != "f1.txt" {
		t.Errorf("filelist1 file_name = %s, want f1.txt", name)
	}
}

func TestMergedStore_CloseRollsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merged.sqlite")

	store, err := CreateMergedStore(path)
	if err != nil {
		t.Fatalf("CreateMergedStore() unexpected error: %v", err)
	}
	if err := store.Begin(); err != nil {
		t.Fatalf("Begin() unexpected error: %v", err)
	}
	if _, err := store.InsertFilelist("alpha", "a.sqlite", testInfo()); err != nil {
		t.Fatalf("InsertFilelist() unexpected error: %v", err)
	}
	// No Commit: closing must discard everything.
	if err := store.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}

	reopened, err := OpenMergedStore(path)
	if err != nil {
		t.Fatalf("OpenMergedStore() unexpected error: %v", err)
	}
	defer reopened.Close()

	tags, err := reopened.Tags()
	if err != nil {
		t.Fatalf("Tags() unexpected error: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("Tags() = %v after rollback, want none", tags)
	}
}
