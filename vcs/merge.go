package vcs

import (
	"context"
	"fmt"

	"github.com/kestrelvcs/kestrel/core"
)

// MergeStatus is the sentinel outcome Merge returns on success.
type MergeStatus string

const (
	MergeAlreadyUpToDate MergeStatus = "already up to date"
	MergeFastForward     MergeStatus = "fast-forward"
	MergeSuccessful      MergeStatus = "merge successful"
)

// mergeAction is the scratch-map staging decision for one path, per the
// Open Question #1 resolution recorded in DESIGN.md: resolutions are
// staged here and applied to the working tree only once the whole union
// of paths has been classified without conflict.
type mergeAction struct {
	write  []byte // non-nil: write this content
	delete bool   // true: delete the path
	// neither set: leave the working tree's current content as-is
}

// Merge implements spec.md §4.7: resolve branchName and HEAD, find their
// merge base via ancestor BFS, and either fast-forward, report already
// up to date, or perform a three-way merge of trees.
func (e *Engine) Merge(branchName string) (MergeStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ctx := context.Background()

	theirs, ok := e.resolveLocked(branchName)
	if !ok {
		return "", fmt.Errorf("kestrel: merge %q: %w", branchName, core.ErrNotFound)
	}
	ours, ok := e.resolveHeadLocked()
	if !ok {
		return "", fmt.Errorf("kestrel: merge %q: HEAD is unborn: %w", branchName, core.ErrState)
	}
	if ours == theirs {
		return MergeAlreadyUpToDate, nil
	}

	base, ok := e.mergeBaseLocked(ctx, ours, theirs)
	if !ok {
		return "", fmt.Errorf("kestrel: merge %q: unrelated histories: %w", branchName, core.ErrHistory)
	}
	if base == ours {
		if err := e.checkoutCommitLocked(ctx, theirs); err != nil {
			return "", err
		}
		e.advanceRefsAfterCommitLocked(theirs)
		return MergeFastForward, nil
	}
	if base == theirs {
		return MergeAlreadyUpToDate, nil
	}

	oursCommit, err := e.getCommitLocked(ours)
	if err != nil {
		return "", err
	}
	theirsCommit, err := e.getCommitLocked(theirs)
	if err != nil {
		return "", err
	}
	baseCommit, err := e.getCommitLocked(base)
	if err != nil {
		return "", err
	}

	baseFlat, err := flattenTree(ctx, e.store, baseCommit.Tree)
	if err != nil {
		return "", err
	}
	oursFlat, err := flattenTree(ctx, e.store, oursCommit.Tree)
	if err != nil {
		return "", err
	}
	theirsFlat, err := flattenTree(ctx, e.store, theirsCommit.Tree)
	if err != nil {
		return "", err
	}

	union := make(map[string]bool)
	for p := range baseFlat {
		union[p] = true
	}
	for p := range oursFlat {
		union[p] = true
	}
	for p := range theirsFlat {
		union[p] = true
	}

	decisions := make(map[string]mergeAction, len(union))
	for p := range union {
		b, bOk := baseFlat[p]
		o, oOk := oursFlat[p]
		t, tOk := theirsFlat[p]

		switch {
		case oOk == tOk && (!oOk || o == t):
			// O == T, including both-absent: nothing to do.
		case bOk == oOk && (!bOk || b == o) && tOk:
			// B == O (including both-absent) and T exists: take theirs.
			content, err := e.blobContentLocked(ctx, t)
			if err != nil {
				return "", err
			}
			decisions[p] = mergeAction{write: content}
		case bOk == oOk && (!bOk || b == o) && !tOk:
			// B == O and T deleted it.
			decisions[p] = mergeAction{delete: true}
		case bOk == tOk && (!bOk || b == t):
			// B == T: ours already holds the right value.
		default:
			return "", fmt.Errorf("kestrel: merge %q: %w", branchName, &core.ConflictError{Path: p})
		}
	}

	for p, action := range decisions {
		switch {
		case action.delete:
			e.wt.Delete(p)
		case action.write != nil:
			e.wt.Write(p, action.write)
		}
	}

	mergeHash, err := e.commitLocked(ctx, fmt.Sprintf("Merge branch '%s'", branchName), CommitOptions{
		Parents: []core.Hash{ours, theirs},
	})
	if err != nil {
		return "", err
	}
	e.advanceRefsAfterCommitLocked(mergeHash)
	return MergeSuccessful, nil
}

func (e *Engine) blobContentLocked(ctx context.Context, hash core.Hash) ([]byte, error) {
	obj, ok := e.store.Get(ctx, hash)
	if !ok || obj.Kind != core.KindBlob {
		return nil, fmt.Errorf("kestrel: blob %s missing: %w", hash, core.ErrCorruption)
	}
	return obj.Blob.Content, nil
}

// mergeBaseLocked implements the ancestor-BFS search of spec.md §4.7 step 3.
func (e *Engine) mergeBaseLocked(ctx context.Context, ours, theirs core.Hash) (core.Hash, bool) {
	oursAncestors := make(map[core.Hash]bool)
	queue := []core.Hash{ours}
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if oursAncestors[h] {
			continue
		}
		oursAncestors[h] = true
		commit, err := e.getCommitLocked(h)
		if err != nil {
			continue
		}
		queue = append(queue, commit.Parents...)
	}

	visited := make(map[core.Hash]bool)
	queue = []core.Hash{theirs}
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if visited[h] {
			continue
		}
		visited[h] = true
		if oursAncestors[h] {
			return h, true
		}
		commit, err := e.getCommitLocked(h)
		if err != nil {
			continue
		}
		queue = append(queue, commit.Parents...)
	}
	return core.ZeroHash, false
}
