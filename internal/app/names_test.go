package app

import (
	"testing"
	"time"
)

func TestStoreFileName(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.Local)

	got := StoreFileName("my_title", ts)
	if want := "FileListDb-my_title-20240115_103000.sqlite"; got != want {
		t.Errorf("StoreFileName() = %s, want %s", got, want)
	}
}

func TestMergeFileName(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.Local)

	got := MergeFileName(ts)
	if want := "MergeFileLists-20240115_103000.sqlite"; got != want {
		t.Errorf("MergeFileName() = %s, want %s", got, want)
	}
}
