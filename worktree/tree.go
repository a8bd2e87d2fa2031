package worktree

import (
	"path"
	"sort"
	"strings"

	"github.com/kestrelvcs/kestrel/core"
)

// Tree is the mutable mapping from absolute path to live File, keyed
// under one root directory (spec.md §4.2). It is not safe for concurrent
// use on its own — the engine serializes access per spec.md §5.
type Tree struct {
	root  string
	files map[string]*File // absolute path -> file
}

// New returns an empty working tree rooted at root.
func New(root string) *Tree {
	return &Tree{root: path.Clean("/" + strings.TrimPrefix(root, "/")), files: make(map[string]*File)}
}

// Root returns the tree's root directory.
func (t *Tree) Root() string { return t.root }

// resolve turns a caller-supplied path (absolute or root-relative) into
// the absolute, forward-slashed path used as the map key.
func (t *Tree) resolve(p string) string {
	if path.IsAbs(p) {
		return path.Clean(p)
	}
	return path.Clean(path.Join(t.root, p))
}

// RelPath returns the path relative to the tree's root, forward-slashed,
// the form spec.md §3 requires in trees and snapshots.
func (t *Tree) RelPath(absPath string) string {
	rel := strings.TrimPrefix(absPath, t.root)
	return strings.TrimPrefix(rel, "/")
}

// CanonicalRelPath accepts either an absolute or root-relative path and
// returns its root-relative form, for callers (like Diff) that need to
// key into a flattened tree mapping from a caller-supplied path.
func (t *Tree) CanonicalRelPath(p string) string {
	return t.RelPath(t.resolve(p))
}

// Write creates or updates a file. The version counter bumps only if
// content actually differs from what was already there.
func (t *Tree) Write(p string, content []byte) *File {
	abs := t.resolve(p)
	existing, ok := t.files[abs]
	if ok && string(existing.Content) == string(content) {
		return existing
	}

	version := uint64(0)
	if ok {
		version = existing.Version + 1
	}
	f := &File{
		Path:    abs,
		Content: append([]byte(nil), content...),
		Version: version,
		Context: core.DetectContext(abs, content),
	}
	t.files[abs] = f
	return f
}

// Delete removes the file at p. Deleting an absent path is a silent no-op.
func (t *Tree) Delete(p string) {
	delete(t.files, t.resolve(p))
}

// Read returns the file at p, or ok=false if absent.
func (t *Tree) Read(p string) (*File, bool) {
	f, ok := t.files[t.resolve(p)]
	return f, ok
}

// Clear removes every file, used by checkout before restoring a commit.
func (t *Tree) Clear() {
	t.files = make(map[string]*File)
}

// IgnoreFunc reports whether a root-relative, forward-slashed path should
// be excluded from enumeration.
type IgnoreFunc func(relPath string) bool

// Readdir lists names under dir. Non-recursive listings return the
// immediate child path segment (deduplicated); recursive listings return
// each descendant's full path relative to dir. Results are sorted
// ascending lexicographically, and ignore, if non-nil, is consulted
// against each candidate's root-relative path (spec.md §4.2).
func (t *Tree) Readdir(dir string, recursive bool, ignore IgnoreFunc) []string {
	absDir := t.resolve(dir)
	prefix := absDir
	if prefix != "/" {
		prefix += "/"
	}

	seen := make(map[string]bool)
	for abs := range t.files {
		if !strings.HasPrefix(abs, prefix) {
			continue
		}
		if ignore != nil && ignore(t.RelPath(abs)) {
			continue
		}
		rest := strings.TrimPrefix(abs, prefix)
		if !recursive {
			rest = strings.SplitN(rest, "/", 2)[0]
		}
		seen[rest] = true
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// GetAllFiles returns every live file, sorted ascending by absolute path.
func (t *Tree) GetAllFiles() []*File {
	out := make([]*File, 0, len(t.files))
	for _, f := range t.files {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
