package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind tags the three immutable object variants. Implementations dispatch
// on this tag during serialization rather than using class inheritance,
// per spec.md §9 "Polymorphism over object kinds".
type Kind string

const (
	KindBlob   Kind = "blob"
	KindTree   Kind = "tree"
	KindCommit Kind = "commit"
)

// The two fixed mode tokens spec.md §3 normatively assigns to tree entries.
const (
	ModeBlob = "100644"
	ModeTree = "040000"
)

// Blob is a leaf object: the raw content of one unique file.
type Blob struct {
	Content []byte
}

// TreeEntry is one (mode, kind, hash, name) row of a Tree.
type TreeEntry struct {
	Mode string
	Kind Kind
	Hash Hash
	Name string
}

// Tree is a directory node. Entries must be strictly sorted by Name;
// NewTree enforces this so every Tree ever handed to the store is valid.
type Tree struct {
	Entries []TreeEntry
}

// NewTree sorts entries by name and rejects duplicate names, satisfying
// the invariant in spec.md §3 ("Tree entries ... strictly sorted ...;
// duplicate names are forbidden").
func NewTree(entries []TreeEntry) (*Tree, error) {
	sorted := append([]TreeEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Name == sorted[i-1].Name {
			return nil, fmt.Errorf("kestrel: duplicate tree entry name %q", sorted[i].Name)
		}
	}
	return &Tree{Entries: sorted}, nil
}

// Commit is a history node.
type Commit struct {
	Tree      Hash
	Parents   []Hash
	Message   string
	Author    string
	Timestamp int64 // ms since epoch
}

// Object is a tagged union over the three object kinds. Exactly one of
// Blob, Tree, Commit is non-nil, matching Kind.
type Object struct {
	Kind   Kind
	Blob   *Blob
	Tree   *Tree
	Commit *Commit
}

func NewBlobObject(content []byte) Object {
	return Object{Kind: KindBlob, Blob: &Blob{Content: content}}
}

func NewTreeObject(t *Tree) Object {
	return Object{Kind: KindTree, Tree: t}
}

func NewCommitObject(c *Commit) Object {
	return Object{Kind: KindCommit, Commit: c}
}

// Serialize renders the object's content exactly as spec.md §3 mandates.
// This output (not the hash) is what changes if the format ever does —
// the formats are normative and must never be altered casually.
func (o Object) Serialize() []byte {
	switch o.Kind {
	case KindBlob:
		return append([]byte(nil), o.Blob.Content...)
	case KindTree:
		lines := make([]string, len(o.Tree.Entries))
		for i, e := range o.Tree.Entries {
			lines[i] = fmt.Sprintf("%s %s %s %s", e.Mode, e.Kind, e.Hash.String(), e.Name)
		}
		return []byte(strings.Join(lines, "\n"))
	case KindCommit:
		c := o.Commit
		lines := make([]string, 0, len(c.Parents)+5)
		lines = append(lines, "tree "+c.Tree.String())
		for _, p := range c.Parents {
			lines = append(lines, "parent "+p.String())
		}
		lines = append(lines,
			fmt.Sprintf("author %s %d", c.Author, c.Timestamp),
			fmt.Sprintf("committer %s %d", c.Author, c.Timestamp),
			"",
			c.Message,
		)
		return []byte(strings.Join(lines, "\n"))
	default:
		panic(fmt.Sprintf("kestrel: unknown object kind %q", o.Kind))
	}
}

// Hash computes the object's content-derived hash: the SHA-1 of
// "<type> <byte-length>\0" followed by the serialized content.
func (o Object) Hash() Hash {
	content := o.Serialize()
	header := string(o.Kind) + " " + strconv.Itoa(len(content)) + "\x00"
	return sum(append([]byte(header), content...))
}

// Verify reports an error if o's recomputed hash does not equal want —
// the spec.md §7 "Corruption" check, run on snapshot load and optionally
// on Object Store reads.
func Verify(want Hash, o Object) error {
	got := o.Hash()
	if got != want {
		return &CorruptionError{Hash: want.String(), Expected: got.String()}
	}
	return nil
}
