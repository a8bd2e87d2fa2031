// Package vcs is the Version Engine of spec.md §2/§4.5-§4.9: the
// orchestrator that composes the Object Store, Working Tree, Ignore
// Filter, and Reference Table into commit/checkout/merge/status/log and
// the snapshot and database-dump operations.
//
// It is grounded on the teacher's ps.Persistence (github.com/nickyhof/
// CommitDB/ps): one mutex covering the whole repository, the same
// plumbing-first style of building trees and commits directly against
// the object store rather than through a higher-level porcelain layer.
package vcs

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kestrelvcs/kestrel/core"
	"github.com/kestrelvcs/kestrel/ignore"
	"github.com/kestrelvcs/kestrel/objstore"
	"github.com/kestrelvcs/kestrel/refs"
	"github.com/kestrelvcs/kestrel/worktree"
)

// Clock returns the current time; tests inject a fixed clock per
// spec.md §9 "Global time".
type Clock func() time.Time

// Engine is the Version Engine. A single sync.RWMutex covers the working
// tree, references, and HEAD as one logical critical section per
// spec.md §5; the Object Store is independently safe per call.
type Engine struct {
	mu sync.RWMutex

	store objstore.Store
	wt    *worktree.Tree
	refs  *refs.Table

	clock  Clock
	logger *log.Logger
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithClock overrides the wall-clock used to stamp commit timestamps.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLogger overrides where the engine reports the one swallowed
// condition spec.md §7 allows: Ignore Filter pattern compilation failures.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New returns a ready engine rooted at root, backed by store.
func New(root string, store objstore.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		wt:     worktree.New(root),
		refs:   refs.NewTable(),
		clock:  time.Now,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Root returns the engine's working-tree root.
func (e *Engine) Root() string { return e.wt.Root() }

// Read returns the working-tree file at path, or ok=false if absent.
func (e *Engine) Read(path string) (*worktree.File, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.wt.Read(path)
}

// Write creates or updates path with content.
func (e *Engine) Write(path string, content []byte) *worktree.File {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wt.Write(path, content)
}

// Delete removes path. Deleting an absent path is a silent no-op.
func (e *Engine) Delete(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.wt.Delete(path)
}

// ReaddirOptions configures Readdir.
type ReaddirOptions struct {
	Recursive bool
	Ignore    bool
}

// Readdir lists names under path, per spec.md §4.2.
func (e *Engine) Readdir(path string, opts ReaddirOptions) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var ignoreFn worktree.IgnoreFunc
	if opts.Ignore {
		filter := e.loadIgnoreFilterLocked()
		ignoreFn = filter.Ignores
	}
	return e.wt.Readdir(path, opts.Recursive, ignoreFn)
}

// GetAllFiles returns every live working-tree file, sorted by path.
func (e *Engine) GetAllFiles() []*worktree.File {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.wt.GetAllFiles()
}

// loadIgnoreFilterLocked reads .gitignore from the working tree, if
// present, and compiles it. Must be called with e.mu held (read or write).
func (e *Engine) loadIgnoreFilterLocked() *ignore.Filter {
	f, ok := e.wt.Read(".gitignore")
	if !ok {
		return nil
	}
	filter, errs := ignore.Parse(string(f.Content))
	for _, err := range errs {
		e.logger.Printf("kestrel: %v", err)
	}
	return filter
}

// objectExists adapts the Object Store's Get into the predicate
// refs.Table.Resolve needs, without refs importing objstore.
func (e *Engine) objectExists(hash core.Hash) bool {
	_, ok := e.store.Get(context.Background(), hash)
	return ok
}

// resolveLocked resolves hashOrRef to a commit hash via spec.md §4.4's
// order. Must be called with e.mu held.
func (e *Engine) resolveLocked(hashOrRef string) (core.Hash, bool) {
	return e.refs.Resolve(hashOrRef, e.objectExists)
}

// getCommitLocked fetches and type-checks a commit object. Must be
// called with e.mu held.
func (e *Engine) getCommitLocked(hash core.Hash) (*core.Commit, error) {
	obj, ok := e.store.Get(context.Background(), hash)
	if !ok {
		return nil, fmt.Errorf("kestrel: commit %s: %w", hash, core.ErrNotFound)
	}
	if obj.Kind != core.KindCommit {
		return nil, fmt.Errorf("kestrel: %s is a %s, not a commit: %w", hash, obj.Kind, core.ErrInvalidArgument)
	}
	return obj.Commit, nil
}

// getTreeLocked fetches and type-checks a tree object, treating the zero
// hash as an empty tree. Must be called with e.mu held.
func (e *Engine) getTreeLocked(hash core.Hash) (*core.Tree, error) {
	if hash.IsZero() {
		return &core.Tree{}, nil
	}
	obj, ok := e.store.Get(context.Background(), hash)
	if !ok {
		return nil, fmt.Errorf("kestrel: tree %s: %w", hash, core.ErrNotFound)
	}
	if obj.Kind != core.KindTree {
		return nil, fmt.Errorf("kestrel: %s is a %s, not a tree: %w", hash, obj.Kind, core.ErrCorruption)
	}
	return obj.Tree, nil
}
