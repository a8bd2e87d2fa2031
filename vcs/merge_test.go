package vcs

import (
	"testing"

	"github.com/kestrelvcs/kestrel/core"
)

func TestMergeAlreadyUpToDate(t *testing.T) {
	e := newTestEngine()
	e.Write("a.txt", []byte("v1"))
	if _, err := e.Commit("first", CommitOptions{Author: testAuthor}); err != nil {
		t.Fatal(err)
	}
	if err := e.CreateBranch("feature"); err != nil {
		t.Fatal(err)
	}

	status, err := e.Merge("feature")
	if err != nil {
		t.Fatal(err)
	}
	if status != MergeAlreadyUpToDate {
		t.Fatalf("expected already up to date, got %q", status)
	}
}

func TestMergeFastForward(t *testing.T) {
	e := newTestEngine()
	e.Write("base.txt", []byte("base"))
	if _, err := e.Commit("init", CommitOptions{Author: testAuthor}); err != nil {
		t.Fatal(err)
	}
	if err := e.CreateBranch("feat"); err != nil {
		t.Fatal(err)
	}
	if err := e.Checkout("feat"); err != nil {
		t.Fatal(err)
	}

	e.Write("feat.txt", []byte("feat"))
	if _, err := e.Commit("add feat", CommitOptions{Author: testAuthor}); err != nil {
		t.Fatal(err)
	}

	if err := e.Checkout("main"); err != nil {
		t.Fatal(err)
	}
	status, err := e.Merge("feat")
	if err != nil {
		t.Fatal(err)
	}
	if status != MergeFastForward {
		t.Fatalf("expected fast-forward, got %q", status)
	}

	if _, ok := e.Read("feat.txt"); !ok {
		t.Fatal("expected feat.txt to be present after fast-forward merge")
	}
}

func TestMergeSuccessfulThreeWay(t *testing.T) {
	e := newTestEngine()
	e.Write("base.txt", []byte("base"))
	if _, err := e.Commit("init", CommitOptions{Author: testAuthor}); err != nil {
		t.Fatal(err)
	}
	if err := e.CreateBranch("b"); err != nil {
		t.Fatal(err)
	}

	e.Write("main.txt", []byte("main"))
	if _, err := e.Commit("on main", CommitOptions{Author: testAuthor}); err != nil {
		t.Fatal(err)
	}

	if err := e.Checkout("b"); err != nil {
		t.Fatal(err)
	}
	e.Write("feat.txt", []byte("feat"))
	if _, err := e.Commit("on b", CommitOptions{Author: testAuthor}); err != nil {
		t.Fatal(err)
	}

	if err := e.Checkout("main"); err != nil {
		t.Fatal(err)
	}
	status, err := e.Merge("b")
	if err != nil {
		t.Fatal(err)
	}
	if status != MergeSuccessful {
		t.Fatalf("expected merge successful, got %q", status)
	}

	for path, want := range map[string]string{"base.txt": "base", "feat.txt": "feat", "main.txt": "main"} {
		f, ok := e.Read(path)
		if !ok || string(f.Content) != want {
			t.Fatalf("expected %s=%q after merge, got %+v ok=%v", path, want, f, ok)
		}
	}
}

func TestMergeConflict(t *testing.T) {
	e := newTestEngine()
	e.Write("x.txt", []byte("base"))
	if _, err := e.Commit("init", CommitOptions{Author: testAuthor}); err != nil {
		t.Fatal(err)
	}
	if err := e.CreateBranch("b"); err != nil {
		t.Fatal(err)
	}

	e.Write("x.txt", []byte("from main"))
	if _, err := e.Commit("main edit", CommitOptions{Author: testAuthor}); err != nil {
		t.Fatal(err)
	}

	if err := e.Checkout("b"); err != nil {
		t.Fatal(err)
	}
	e.Write("x.txt", []byte("from b"))
	if _, err := e.Commit("b edit", CommitOptions{Author: testAuthor}); err != nil {
		t.Fatal(err)
	}

	if err := e.Checkout("main"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Merge("b"); err == nil {
		t.Fatal("expected a conflict error")
	}

	f, ok := e.Read("x.txt")
	if !ok || string(f.Content) != "from main" {
		t.Fatalf("working tree should be untouched on conflict, got %+v ok=%v", f, ok)
	}
}

func TestMergeUnrelatedHistoriesFails(t *testing.T) {
	e := newTestEngine()
	e.Write("a.txt", []byte("a"))
	if _, err := e.Commit("a", CommitOptions{Author: testAuthor}); err != nil {
		t.Fatal(err)
	}
	if err := e.CreateBranch("orphan"); err != nil {
		t.Fatal(err)
	}

	// Force a second, explicitly parentless root commit onto main, so
	// main and orphan now share no ancestor at all.
	e.Delete("a.txt")
	e.Write("b.txt", []byte("b"))
	if _, err := e.Commit("b", CommitOptions{Author: testAuthor, Parents: []core.Hash{}}); err != nil {
		t.Fatal(err)
	}

	if _, err := e.Merge("orphan"); err == nil {
		t.Fatal("expected an unrelated-histories error")
	}
}
