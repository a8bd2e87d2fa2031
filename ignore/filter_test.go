package ignore

import "testing"

func TestIgnoresBasename(t *testing.T) {
	f, errs := Parse("*.log")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if !f.Ignores("debug.log") {
		t.Fatal("expected debug.log to be ignored")
	}
	if !f.Ignores("nested/debug.log") {
		t.Fatal("expected nested/debug.log to be ignored")
	}
	if f.Ignores("debug.txt") {
		t.Fatal("debug.txt should not be ignored")
	}
}

func TestRootAnchoredPattern(t *testing.T) {
	f, _ := Parse("/build")
	if !f.Ignores("build") {
		t.Fatal("expected root build/ to be ignored")
	}
	if f.Ignores("src/build") {
		t.Fatal("root-anchored pattern should not match nested build")
	}
}

func TestDirOnlyPattern(t *testing.T) {
	f, _ := Parse("node_modules/")
	if !f.Ignores("node_modules/pkg/index.js") {
		t.Fatal("expected files under node_modules/ to be ignored")
	}
}

func TestNegationOverridesLastMatchWins(t *testing.T) {
	f, _ := Parse("*.log\n!keep.log")
	if f.Ignores("keep.log") {
		t.Fatal("keep.log should be un-ignored by the later negative pattern")
	}
	if !f.Ignores("other.log") {
		t.Fatal("other.log should still be ignored")
	}
}

func TestDoubleStarMatchesAnyDepth(t *testing.T) {
	f, _ := Parse("**/fixtures/*.json")
	if !f.Ignores("a/b/fixtures/data.json") {
		t.Fatal("expected deep fixtures match")
	}
	if !f.Ignores("fixtures/data.json") {
		t.Fatal("expected top-level fixtures match")
	}
}

func TestBlankLinesAndCommentsAreSkipped(t *testing.T) {
	f, errs := Parse("# a comment\n\n*.log\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if !f.Ignores("x.log") {
		t.Fatal("expected *.log to still apply after a comment and blank line")
	}
}

func TestNilFilterIgnoresNothing(t *testing.T) {
	var f *Filter
	if f.Ignores("anything") {
		t.Fatal("nil filter should never ignore")
	}
}
