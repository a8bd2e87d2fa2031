package vcs

import (
	"testing"
	"time"

	"github.com/kestrelvcs/kestrel/core"
	"github.com/kestrelvcs/kestrel/objstore"
)

func newTestEngine() *Engine {
	clock := time.Unix(1700000000, 0)
	return New("/repo", objstore.NewMemoryStore(), WithClock(func() time.Time { return clock }))
}

var testAuthor = core.Identity{Name: "tester", Email: "tester@example.com"}

func TestWriteReadDelete(t *testing.T) {
	e := newTestEngine()
	e.Write("a.txt", []byte("hello"))

	f, ok := e.Read("a.txt")
	if !ok || string(f.Content) != "hello" {
		t.Fatalf("expected to read back written content, got %+v ok=%v", f, ok)
	}

	e.Delete("a.txt")
	if _, ok := e.Read("a.txt"); ok {
		t.Fatal("expected a.txt to be gone after Delete")
	}
}

func TestCommitThenCheckoutRestoresContent(t *testing.T) {
	e := newTestEngine()
	e.Write("a.txt", []byte("v1"))
	hash, err := e.Commit("first", CommitOptions{Author: testAuthor})
	if err != nil {
		t.Fatal(err)
	}

	e.Write("a.txt", []byte("v2"))
	if err := e.Checkout(hash.String()); err != nil {
		t.Fatal(err)
	}

	f, ok := e.Read("a.txt")
	if !ok || string(f.Content) != "v1" {
		t.Fatalf("expected checkout to restore v1, got %+v ok=%v", f, ok)
	}
}

func TestCommitRespectsIgnoreFilter(t *testing.T) {
	e := newTestEngine()
	e.Write(".gitignore", []byte("*.log"))
	e.Write("keep.txt", []byte("kept"))
	e.Write("debug.log", []byte("noise"))

	hash, err := e.Commit("first", CommitOptions{Author: testAuthor})
	if err != nil {
		t.Fatal(err)
	}

	e.Write("keep.txt", []byte("changed"))
	e.Write("debug.log", []byte("more noise"))
	if err := e.Checkout(hash.String()); err != nil {
		t.Fatal(err)
	}

	if _, ok := e.Read("debug.log"); ok {
		t.Fatal("debug.log should not have been committed")
	}
	f, ok := e.Read("keep.txt")
	if !ok || string(f.Content) != "kept" {
		t.Fatal("keep.txt should have been committed and restored")
	}
}

func TestCreateAndDeleteBranch(t *testing.T) {
	e := newTestEngine()
	e.Write("a.txt", []byte("v1"))
	if _, err := e.Commit("first", CommitOptions{Author: testAuthor}); err != nil {
		t.Fatal(err)
	}

	if err := e.CreateBranch("feature"); err != nil {
		t.Fatal(err)
	}
	if err := e.CreateBranch("feature"); err == nil {
		t.Fatal("expected an error creating a branch that already exists")
	}

	if err := e.Checkout("feature"); err != nil {
		t.Fatal(err)
	}
	if err := e.DeleteBranch("feature"); err == nil {
		t.Fatal("expected an error deleting the checked-out branch")
	}

	if err := e.Checkout("main"); err != nil {
		t.Fatal(err)
	}
	if err := e.DeleteBranch("feature"); err != nil {
		t.Fatal(err)
	}
}

func TestCheckoutUnknownRefFails(t *testing.T) {
	e := newTestEngine()
	if err := e.Checkout("does-not-exist"); err == nil {
		t.Fatal("expected an error checking out an unknown ref")
	}
}

func TestCurrentBranchAfterDetach(t *testing.T) {
	e := newTestEngine()
	e.Write("a.txt", []byte("v1"))
	hash, err := e.Commit("first", CommitOptions{Author: testAuthor})
	if err != nil {
		t.Fatal(err)
	}

	if name, ok := e.CurrentBranch(); !ok || name != "main" {
		t.Fatalf("expected to be on main, got %q ok=%v", name, ok)
	}

	if err := e.Checkout(hash.String()); err != nil {
		t.Fatal(err)
	}
	if _, ok := e.CurrentBranch(); ok {
		t.Fatal("expected detached HEAD after checking out a raw hash")
	}
}
