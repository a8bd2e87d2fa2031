// Package snapshot implements the self-describing document shape of
// spec.md §4.8/§6: every object, every reference, HEAD, and the working
// tree's files, serialized so an engine can be reconstructed exactly.
package snapshot

import (
	"fmt"

	"github.com/kestrelvcs/kestrel/core"
	"github.com/kestrelvcs/kestrel/objstore"
	"github.com/kestrelvcs/kestrel/refs"
)

// Document is the wire shape persisted by Save and read back by Load.
// Field order here is also the field order goccy/go-json emits.
type Document struct {
	Objects []ObjectRecord `json:"objects"`
	Refs    []RefRecord    `json:"refs"`
	Head    HeadRecord     `json:"head"`
	Files   []FileRecord   `json:"workingFiles"`
}

// ObjectRecord is one (hash, object) pair. Exactly one of Blob, Tree,
// Commit is present, matching Kind.
type ObjectRecord struct {
	Hash   string        `json:"hash"`
	Kind   core.Kind     `json:"kind"`
	Blob   *BlobRecord   `json:"blob,omitempty"`
	Tree   *TreeRecord   `json:"tree,omitempty"`
	Commit *CommitRecord `json:"commit,omitempty"`
}

type BlobRecord struct {
	Content []byte `json:"content"`
}

type TreeEntryRecord struct {
	Mode string    `json:"mode"`
	Kind core.Kind `json:"kind"`
	Hash string    `json:"hash"`
	Name string    `json:"name"`
}

type TreeRecord struct {
	Entries []TreeEntryRecord `json:"entries"`
}

type CommitRecord struct {
	Tree      string   `json:"tree"`
	Parents   []string `json:"parents"`
	Message   string   `json:"message"`
	Author    string   `json:"author"`
	Timestamp int64    `json:"timestamp"`
}

// RefRecord is one (name, hash) pair from the reference table.
type RefRecord struct {
	Name string `json:"name"`
	Hash string `json:"hash"`
}

// HeadRecord mirrors refs.Head: exactly one of Symbolic or Detached is set.
type HeadRecord struct {
	Symbolic string `json:"symbolic,omitempty"`
	Detached string `json:"detached,omitempty"`
}

// FileRecord is one working-tree file: its absolute path and content.
type FileRecord struct {
	Path    string `json:"path"`
	Content []byte `json:"content"`
}

// Build assembles a Document from an object store dump, the full
// reference map, HEAD, and the live working-tree files.
func Build(objects []objstore.Entry, refTable map[string]core.Hash, head refs.Head, files []FileRecord) *Document {
	doc := &Document{
		Objects: make([]ObjectRecord, 0, len(objects)),
		Refs:    make([]RefRecord, 0, len(refTable)),
		Files:   files,
	}
	for _, e := range objects {
		doc.Objects = append(doc.Objects, objectToRecord(e))
	}
	for name, hash := range refTable {
		doc.Refs = append(doc.Refs, RefRecord{Name: name, Hash: hash.String()})
	}
	if head.IsDetached() {
		doc.Head = HeadRecord{Detached: head.Detached.String()}
	} else {
		doc.Head = HeadRecord{Symbolic: head.Symbolic}
	}
	return doc
}

func objectToRecord(e objstore.Entry) ObjectRecord {
	rec := ObjectRecord{Hash: e.Hash.String(), Kind: e.Object.Kind}
	switch e.Object.Kind {
	case core.KindBlob:
		rec.Blob = &BlobRecord{Content: e.Object.Blob.Content}
	case core.KindTree:
		entries := make([]TreeEntryRecord, len(e.Object.Tree.Entries))
		for i, te := range e.Object.Tree.Entries {
			entries[i] = TreeEntryRecord{Mode: te.Mode, Kind: te.Kind, Hash: te.Hash.String(), Name: te.Name}
		}
		rec.Tree = &TreeRecord{Entries: entries}
	case core.KindCommit:
		c := e.Object.Commit
		parents := make([]string, len(c.Parents))
		for i, p := range c.Parents {
			parents[i] = p.String()
		}
		rec.Commit = &CommitRecord{
			Tree:      c.Tree.String(),
			Parents:   parents,
			Message:   c.Message,
			Author:    c.Author,
			Timestamp: c.Timestamp,
		}
	}
	return rec
}

// ToObjectEntries reconstructs objstore.Entry values from the document,
// verifying each object still hashes to its recorded key.
func (d *Document) ToObjectEntries() ([]objstore.Entry, error) {
	out := make([]objstore.Entry, 0, len(d.Objects))
	for _, rec := range d.Objects {
		hash, err := core.ParseHash(rec.Hash)
		if err != nil {
			return nil, fmt.Errorf("kestrel: snapshot object record: %w", err)
		}
		obj, err := recordToObject(rec)
		if err != nil {
			return nil, err
		}
		if verr := core.Verify(hash, obj); verr != nil {
			return nil, verr
		}
		out = append(out, objstore.Entry{Hash: hash, Object: obj})
	}
	return out, nil
}

func recordToObject(rec ObjectRecord) (core.Object, error) {
	switch rec.Kind {
	case core.KindBlob:
		if rec.Blob == nil {
			return core.Object{}, fmt.Errorf("kestrel: snapshot blob record %s missing body", rec.Hash)
		}
		return core.NewBlobObject(rec.Blob.Content), nil
	case core.KindTree:
		if rec.Tree == nil {
			return core.Object{}, fmt.Errorf("kestrel: snapshot tree record %s missing body", rec.Hash)
		}
		entries := make([]core.TreeEntry, len(rec.Tree.Entries))
		for i, te := range rec.Tree.Entries {
			hash, err := core.ParseHash(te.Hash)
			if err != nil {
				return core.Object{}, fmt.Errorf("kestrel: snapshot tree entry %q: %w", te.Name, err)
			}
			entries[i] = core.TreeEntry{Mode: te.Mode, Kind: te.Kind, Hash: hash, Name: te.Name}
		}
		tree, err := core.NewTree(entries)
		if err != nil {
			return core.Object{}, err
		}
		return core.NewTreeObject(tree), nil
	case core.KindCommit:
		if rec.Commit == nil {
			return core.Object{}, fmt.Errorf("kestrel: snapshot commit record %s missing body", rec.Hash)
		}
		treeHash, err := core.ParseHash(rec.Commit.Tree)
		if err != nil {
			return core.Object{}, fmt.Errorf("kestrel: snapshot commit record %s: %w", rec.Hash, err)
		}
		parents := make([]core.Hash, len(rec.Commit.Parents))
		for i, p := range rec.Commit.Parents {
			ph, err := core.ParseHash(p)
			if err != nil {
				return core.Object{}, fmt.Errorf("kestrel: snapshot commit record %s parent: %w", rec.Hash, err)
			}
			parents[i] = ph
		}
		return core.NewCommitObject(&core.Commit{
			Tree:      treeHash,
			Parents:   parents,
			Message:   rec.Commit.Message,
			Author:    rec.Commit.Author,
			Timestamp: rec.Commit.Timestamp,
		}), nil
	default:
		return core.Object{}, fmt.Errorf("kestrel: snapshot record %s: unknown kind %q", rec.Hash, rec.Kind)
	}
}

// ToRefTable reconstructs the (name -> hash) reference map.
func (d *Document) ToRefTable() (map[string]core.Hash, error) {
	out := make(map[string]core.Hash, len(d.Refs))
	for _, r := range d.Refs {
		hash, err := core.ParseHash(r.Hash)
		if err != nil {
			return nil, fmt.Errorf("kestrel: snapshot ref %q: %w", r.Name, err)
		}
		out[r.Name] = hash
	}
	return out, nil
}

// ToHead reconstructs the HEAD cell.
func (d *Document) ToHead() (refs.Head, error) {
	if d.Head.Symbolic != "" {
		return refs.Head{Symbolic: d.Head.Symbolic}, nil
	}
	hash, err := core.ParseHash(d.Head.Detached)
	if err != nil {
		return refs.Head{}, fmt.Errorf("kestrel: snapshot head: %w", err)
	}
	return refs.Head{Detached: hash}, nil
}
