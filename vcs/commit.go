package vcs

import (
	"context"
	"sync"

	"github.com/kestrelvcs/kestrel/core"
	"golang.org/x/sync/errgroup"
)

// CommitOptions configures Commit. Parents, if nil, defaults to
// spec.md §4.5 step 3's rule (the resolved HEAD, or none for the first commit).
type CommitOptions struct {
	Author  core.Identity
	Parents []core.Hash // nil means "derive from HEAD"
}

// Commit implements the protocol in spec.md §4.5: enumerate the working
// tree through the Ignore Filter, fold it into a tree DAG, build and
// store a commit object, then advance references. Empty commits
// (identical tree to the parent) are permitted.
func (e *Engine) Commit(message string, opts CommitOptions) (core.Hash, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commitLocked(context.Background(), message, opts)
}

// commitLocked is Commit's body, callable from other locked engine
// methods (e.g. Merge's three-way path). Must be called with e.mu held.
func (e *Engine) commitLocked(ctx context.Context, message string, opts CommitOptions) (core.Hash, error) {
	filter := e.loadIgnoreFilterLocked()

	byRel := make(map[string][]byte)
	for _, f := range e.wt.GetAllFiles() {
		rel := e.wt.RelPath(f.Path)
		if filter.Ignores(rel) {
			continue
		}
		byRel[rel] = f.Content
	}

	// Blobs are independent of each other, so hash/store them
	// concurrently; tree-building below waits for all of them.
	g, _ := errgroup.WithContext(ctx)
	flat := make(map[string]core.Hash, len(byRel))
	var mu sync.Mutex
	for rel, content := range byRel {
		rel, content := rel, content
		g.Go(func() error {
			hash := e.store.Put(ctx, core.NewBlobObject(content))
			mu.Lock()
			flat[rel] = hash
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // blob hashing never errors

	rootTree := buildTree(ctx, e.store, flat)

	parents := opts.Parents
	if parents == nil {
		if head, ok := e.resolveHeadLocked(); ok {
			parents = []core.Hash{head}
		}
	}

	commit := &core.Commit{
		Tree:      rootTree,
		Parents:   parents,
		Message:   message,
		Author:    opts.Author.String(),
		Timestamp: e.clock().UnixMilli(),
	}
	hash := e.store.Put(ctx, core.NewCommitObject(commit))

	e.advanceRefsAfterCommitLocked(hash)
	return hash, nil
}

// resolveHeadLocked resolves the current HEAD to a commit hash, or
// ok=false if unborn. Must be called with e.mu held.
func (e *Engine) resolveHeadLocked() (core.Hash, bool) {
	return e.refs.ResolveHead()
}

// advanceRefsAfterCommitLocked implements the update rules of spec.md
// §4.4: if HEAD is symbolic, the named branch advances; if detached,
// HEAD itself advances. Must be called with e.mu held.
func (e *Engine) advanceRefsAfterCommitLocked(hash core.Hash) {
	head := e.refs.Head()
	if head.IsDetached() {
		e.refs.SetHeadDetached(hash)
		return
	}
	e.refs.Set(head.Symbolic, hash)
}
