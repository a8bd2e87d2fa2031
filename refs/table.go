// Package refs implements the Reference Table and HEAD cell of
// spec.md §4.4: symbolic names mapped to commit hashes, plus the
// distinguished HEAD pointer that is either symbolic or detached.
package refs

import (
	"strings"

	"github.com/kestrelvcs/kestrel/core"
)

// HeadsPrefix is the namespace branches live under.
const HeadsPrefix = "refs/heads/"

// DefaultBranch is the branch name created at construction time.
const DefaultBranch = "main"

// Unborn is the explicit "no commits yet" ref value — spec.md §9's
// resolution of Open Question #4, kept distinct from core.ZeroHash only
// in name; both are the zero Hash, but callers should test IsUnborn
// rather than compare to core.Hash{} directly so the intent reads clearly.
var Unborn = core.ZeroHash

// IsUnborn reports whether h is the "no commits yet" sentinel.
func IsUnborn(h core.Hash) bool { return h == Unborn }

// Head is the HEAD cell: either a symbolic ref name (Symbolic != "") or
// a detached commit hash.
type Head struct {
	Symbolic string
	Detached core.Hash
}

func (h Head) IsDetached() bool { return h.Symbolic == "" }

// Table is the reference map plus HEAD.
type Table struct {
	refs map[string]core.Hash
	head Head
}

// NewTable returns a table with a single, unborn "main" branch checked out.
func NewTable() *Table {
	return &Table{
		refs: map[string]core.Hash{HeadsPrefix + DefaultBranch: Unborn},
		head: Head{Symbolic: HeadsPrefix + DefaultBranch},
	}
}

func (t *Table) Head() Head { return t.head }

// SetHeadSymbolic attaches HEAD to an existing full ref name.
func (t *Table) SetHeadSymbolic(refName string) {
	t.head = Head{Symbolic: refName}
}

// SetHeadDetached detaches HEAD to hash.
func (t *Table) SetHeadDetached(hash core.Hash) {
	t.head = Head{Detached: hash}
}

// Get returns the hash a full ref name points at.
func (t *Table) Get(refName string) (core.Hash, bool) {
	h, ok := t.refs[refName]
	return h, ok
}

// Set creates or updates a full ref name.
func (t *Table) Set(refName string, hash core.Hash) {
	t.refs[refName] = hash
}

// Delete removes a full ref name.
func (t *Table) Delete(refName string) {
	delete(t.refs, refName)
}

// Branches returns every "refs/heads/<name>" entry's short name, sorted
// by the caller if order matters (map iteration order is not stable).
func (t *Table) Branches() []string {
	names := make([]string, 0, len(t.refs))
	for name := range t.refs {
		if strings.HasPrefix(name, HeadsPrefix) {
			names = append(names, strings.TrimPrefix(name, HeadsPrefix))
		}
	}
	return names
}

// All returns a defensive copy of every ref (name -> hash).
func (t *Table) All() map[string]core.Hash {
	out := make(map[string]core.Hash, len(t.refs))
	for k, v := range t.refs {
		out[k] = v
	}
	return out
}

// ReplaceAll atomically swaps in a new ref map and HEAD, used by snapshot load.
func (t *Table) ReplaceAll(all map[string]core.Hash, head Head) {
	cp := make(map[string]core.Hash, len(all))
	for k, v := range all {
		cp[k] = v
	}
	t.refs = cp
	t.head = head
}

// ObjectExists is injected by the engine so Resolve can consult the
// Object Store without refs importing objstore.
type ObjectExists func(core.Hash) bool

// Resolve implements the lookup order from spec.md §4.4: exact object
// hash in the Object Store -> full ref name in the table -> short name
// under refs/heads/<name> -> absent.
func (t *Table) Resolve(hashOrRef string, objectExists ObjectExists) (core.Hash, bool) {
	if core.LooksLikeHash(hashOrRef) {
		if h, err := core.ParseHash(hashOrRef); err == nil && objectExists(h) {
			return h, true
		}
	}
	if h, ok := t.refs[hashOrRef]; ok {
		return h, true
	}
	if h, ok := t.refs[HeadsPrefix+hashOrRef]; ok {
		return h, true
	}
	return core.ZeroHash, false
}

// ResolveHead resolves the current HEAD to a commit hash. ok is false
// when HEAD points at an unborn branch, at a ref missing from the table,
// or is detached at the zero hash.
func (t *Table) ResolveHead() (core.Hash, bool) {
	if t.head.IsDetached() {
		return t.head.Detached, !IsUnborn(t.head.Detached)
	}
	h, ok := t.refs[t.head.Symbolic]
	if !ok || IsUnborn(h) {
		return core.ZeroHash, false
	}
	return h, true
}
