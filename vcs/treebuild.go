package vcs

import (
	"context"
	"fmt"
	"strings"

	"github.com/kestrelvcs/kestrel/core"
	"github.com/kestrelvcs/kestrel/objstore"
)

// buildTree folds a flat (relativePath -> blobHash) mapping into the tree
// DAG described in spec.md §4.5 step 2: split each path on "/", recurse
// per directory, sort each level's entries by name, hash and store each
// tree. Returns core.ZeroHash for an empty mapping.
func buildTree(ctx context.Context, store objstore.Store, flat map[string]core.Hash) core.Hash {
	if len(flat) == 0 {
		return core.ZeroHash
	}

	leaves := make(map[string]core.Hash)
	groups := make(map[string]map[string]core.Hash)

	for p, h := range flat {
		if idx := strings.IndexByte(p, '/'); idx >= 0 {
			dir, rest := p[:idx], p[idx+1:]
			if groups[dir] == nil {
				groups[dir] = make(map[string]core.Hash)
			}
			groups[dir][rest] = h
		} else {
			leaves[p] = h
		}
	}

	entries := make([]core.TreeEntry, 0, len(leaves)+len(groups))
	for name, h := range leaves {
		entries = append(entries, core.TreeEntry{Mode: core.ModeBlob, Kind: core.KindBlob, Hash: h, Name: name})
	}
	for dir, sub := range groups {
		subHash := buildTree(ctx, store, sub)
		entries = append(entries, core.TreeEntry{Mode: core.ModeTree, Kind: core.KindTree, Hash: subHash, Name: dir})
	}

	tree, err := core.NewTree(entries)
	if err != nil {
		// Cannot happen: entries are keyed by distinct map names.
		panic(fmt.Sprintf("kestrel: %v", err))
	}
	return store.Put(ctx, core.NewTreeObject(tree))
}

// flattenTree walks a tree recursively, collecting every blob entry's
// full relative path -> blob hash. Used by status, checkout, and merge.
func flattenTree(ctx context.Context, store objstore.Store, treeHash core.Hash) (map[string]core.Hash, error) {
	out := make(map[string]core.Hash)
	if err := flattenInto(ctx, store, treeHash, "", out); err != nil {
		return nil, err
	}
	return out, nil
}

func flattenInto(ctx context.Context, store objstore.Store, treeHash core.Hash, prefix string, out map[string]core.Hash) error {
	if treeHash.IsZero() {
		return nil
	}
	obj, ok := store.Get(ctx, treeHash)
	if !ok {
		return fmt.Errorf("kestrel: tree %s: %w", treeHash, core.ErrNotFound)
	}
	if obj.Kind != core.KindTree {
		return fmt.Errorf("kestrel: %s is a %s, not a tree: %w", treeHash, obj.Kind, core.ErrCorruption)
	}

	for _, entry := range obj.Tree.Entries {
		full := entry.Name
		if prefix != "" {
			full = prefix + "/" + entry.Name
		}
		switch entry.Kind {
		case core.KindBlob:
			out[full] = entry.Hash
		case core.KindTree:
			if err := flattenInto(ctx, store, entry.Hash, full, out); err != nil {
				return err
			}
		}
	}
	return nil
}
