package vcs

import (
	"path/filepath"
	"testing"
)

func TestSaveLoadSnapshotRoundTrip(t *testing.T) {
	e := newTestEngine()
	e.Write("a.txt", []byte("hello"))
	e.Write("dir/b.txt", []byte("world"))
	if _, err := e.Commit("init", CommitOptions{Author: testAuthor}); err != nil {
		t.Fatal(err)
	}
	e.Write("uncommitted.txt", []byte("staged"))

	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := e.SaveSnapshot(path, DefaultSnapshotOptions()); err != nil {
		t.Fatal(err)
	}

	fresh := newTestEngine()
	if err := fresh.LoadSnapshot(path); err != nil {
		t.Fatal(err)
	}

	wantDump := e.GetDatabaseDump()
	gotDump := fresh.GetDatabaseDump()
	if len(wantDump.Objects) != len(gotDump.Objects) {
		t.Fatalf("object count mismatch: want %d got %d", len(wantDump.Objects), len(gotDump.Objects))
	}
	if len(wantDump.Refs) != len(gotDump.Refs) {
		t.Fatalf("ref count mismatch: want %d got %d", len(wantDump.Refs), len(gotDump.Refs))
	}

	for _, path := range []string{"a.txt", "dir/b.txt", "uncommitted.txt"} {
		want, ok := e.Read(path)
		if !ok {
			t.Fatalf("setup error: %s missing from source engine", path)
		}
		got, ok := fresh.Read(path)
		if !ok {
			t.Fatalf("expected %s to survive snapshot round trip", path)
		}
		if string(want.Content) != string(got.Content) {
			t.Fatalf("%s content mismatch: want %q got %q", path, want.Content, got.Content)
		}
	}
}

func TestSaveLoadSnapshotUncompressed(t *testing.T) {
	e := newTestEngine()
	e.Write("a.txt", []byte("hello"))

	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := e.SaveSnapshot(path, SnapshotOptions{Compress: false}); err != nil {
		t.Fatal(err)
	}

	fresh := newTestEngine()
	if err := fresh.LoadSnapshot(path); err != nil {
		t.Fatal(err)
	}
	if _, ok := fresh.Read("a.txt"); !ok {
		t.Fatal("expected a.txt to survive uncompressed round trip")
	}
}
