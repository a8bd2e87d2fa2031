package vcs

import (
	"context"
	"fmt"

	"github.com/kestrelvcs/kestrel/core"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff renders a human-readable line diff between the blob recorded for
// path in the HEAD tree and its current working-tree content. It is
// read-only and never participates in hashing or commit semantics.
func (e *Engine) Diff(path string) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ctx := context.Background()

	var before string
	if head, ok := e.resolveHeadLocked(); ok {
		commit, err := e.getCommitLocked(head)
		if err != nil {
			return "", err
		}
		flat, err := flattenTree(ctx, e.store, commit.Tree)
		if err != nil {
			return "", err
		}
		if hash, ok := flat[e.wt.CanonicalRelPath(path)]; ok {
			content, err := e.blobContentLocked(ctx, hash)
			if err != nil {
				return "", err
			}
			before = string(content)
		}
	}

	var after string
	if f, ok := e.wt.Read(path); ok {
		after = string(f.Content)
	}

	if before == "" && after == "" {
		return "", fmt.Errorf("kestrel: diff %q: %w", path, core.ErrNotFound)
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.DiffPrettyText(diffs), nil
}
