package vcs

import (
	"strings"
	"testing"
)

func TestDiffAgainstHead(t *testing.T) {
	e := newTestEngine()
	e.Write("a.txt", []byte("line one\n"))
	if _, err := e.Commit("init", CommitOptions{Author: testAuthor}); err != nil {
		t.Fatal(err)
	}
	e.Write("a.txt", []byte("line two\n"))

	out, err := e.Diff("a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "line") {
		t.Fatalf("expected diff output to mention changed content, got %q", out)
	}
}

func TestDiffUnchangedFileIsEmptyDelta(t *testing.T) {
	e := newTestEngine()
	e.Write("a.txt", []byte("same\n"))
	if _, err := e.Commit("init", CommitOptions{Author: testAuthor}); err != nil {
		t.Fatal(err)
	}

	out, err := e.Diff("a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "\x1b[31m") || strings.Contains(out, "\x1b[32m") {
		t.Fatalf("unexpected diff markers for unchanged file: %q", out)
	}
}

func TestDiffNewFileNotYetCommitted(t *testing.T) {
	e := newTestEngine()
	e.Write("new.txt", []byte("brand new\n"))

	out, err := e.Diff("new.txt")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "brand new") {
		t.Fatalf("expected new file content in diff, got %q", out)
	}
}

func TestDiffUnknownPathErrors(t *testing.T) {
	e := newTestEngine()
	if _, err := e.Diff("nope.txt"); err == nil {
		t.Fatal("expected an error diffing a path that exists nowhere")
	}
}
