package vcs

import (
	"context"
	"fmt"
	"strings"

	"github.com/kestrelvcs/kestrel/core"
	"github.com/kestrelvcs/kestrel/refs"
)

// Checkout implements spec.md §4.6: resolve hashOrRef, replace the
// working tree with the target commit's tree, and attach or detach HEAD
// depending on whether a branch name or a raw hash/other ref was given.
func (e *Engine) Checkout(hashOrRef string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.checkoutLocked(hashOrRef)
}

// checkoutLocked is Checkout's body, callable from other locked engine
// methods (e.g. Merge's fast-forward path). Must be called with e.mu held.
func (e *Engine) checkoutLocked(hashOrRef string) error {
	hash, ok := e.resolveLocked(hashOrRef)
	if !ok {
		return fmt.Errorf("kestrel: checkout %q: %w", hashOrRef, core.ErrNotFound)
	}
	if err := e.checkoutCommitLocked(context.Background(), hash); err != nil {
		return err
	}

	if branchRef, isBranch := e.branchRefFor(hashOrRef); isBranch {
		e.refs.SetHeadSymbolic(branchRef)
	} else {
		e.refs.SetHeadDetached(hash)
	}
	return nil
}

// checkoutCommitLocked restores the working tree to hash's tree without
// touching HEAD or any ref — the part Merge's fast-forward path and
// checkoutLocked share. Must be called with e.mu held.
func (e *Engine) checkoutCommitLocked(ctx context.Context, hash core.Hash) error {
	commit, err := e.getCommitLocked(hash)
	if err != nil {
		return err
	}
	flat, err := flattenTree(ctx, e.store, commit.Tree)
	if err != nil {
		return err
	}

	e.wt.Clear()
	for rel, blobHash := range flat {
		obj, ok := e.store.Get(ctx, blobHash)
		if !ok || obj.Kind != core.KindBlob {
			return fmt.Errorf("kestrel: checkout %s: blob %s missing: %w", hash, blobHash, core.ErrCorruption)
		}
		e.wt.Write(rel, obj.Blob.Content)
	}
	return nil
}

// branchRefFor reports whether name is a known branch (by short or full
// name) and, if so, its full "refs/heads/<name>" form.
func (e *Engine) branchRefFor(name string) (string, bool) {
	if strings.HasPrefix(name, refs.HeadsPrefix) {
		if _, ok := e.refs.Get(name); ok {
			return name, true
		}
		return "", false
	}
	full := refs.HeadsPrefix + name
	if _, ok := e.refs.Get(full); ok {
		return full, true
	}
	return "", false
}

// CurrentBranch returns the checked-out branch's short name, or
// ok=false when HEAD is detached.
func (e *Engine) CurrentBranch() (name string, ok bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	head := e.refs.Head()
	if head.IsDetached() {
		return "", false
	}
	return head.Symbolic[len(refs.HeadsPrefix):], true
}

// CreateBranch implements spec.md §4.7: a new branch name pointing at
// HEAD's current commit (Unborn if HEAD is itself unborn). name must not
// already exist.
func (e *Engine) CreateBranch(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	full := refs.HeadsPrefix + name
	if _, ok := e.refs.Get(full); ok {
		return fmt.Errorf("kestrel: branch %q already exists: %w", name, core.ErrInvalidArgument)
	}
	hash, _ := e.resolveHeadLocked()
	e.refs.Set(full, hash)
	return nil
}

// DeleteBranch implements spec.md §4.7: removes a branch by name. The
// currently checked-out branch cannot be deleted.
func (e *Engine) DeleteBranch(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	full := refs.HeadsPrefix + name
	if _, ok := e.refs.Get(full); !ok {
		return fmt.Errorf("kestrel: branch %q does not exist: %w", name, core.ErrInvalidArgument)
	}
	head := e.refs.Head()
	if !head.IsDetached() && head.Symbolic == full {
		return fmt.Errorf("kestrel: cannot delete checked-out branch %q: %w", name, core.ErrState)
	}
	e.refs.Delete(full)
	return nil
}
