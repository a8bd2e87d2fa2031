package core

import "testing"

func TestBlobHashStableAcrossCalls(t *testing.T) {
	obj := NewBlobObject([]byte("hello world"))
	a := obj.Hash()
	b := obj.Hash()
	if a != b {
		t.Fatalf("hash not stable: %s != %s", a, b)
	}
}

func TestBlobHashChangesWithContent(t *testing.T) {
	a := NewBlobObject([]byte("one")).Hash()
	b := NewBlobObject([]byte("two")).Hash()
	if a == b {
		t.Fatal("distinct content hashed to the same value")
	}
}

func TestNewTreeSortsEntries(t *testing.T) {
	tree, err := NewTree([]TreeEntry{
		{Mode: ModeBlob, Kind: KindBlob, Name: "b.txt"},
		{Mode: ModeBlob, Kind: KindBlob, Name: "a.txt"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if tree.Entries[0].Name != "a.txt" || tree.Entries[1].Name != "b.txt" {
		t.Fatalf("entries not sorted: %+v", tree.Entries)
	}
}

func TestNewTreeRejectsDuplicateNames(t *testing.T) {
	_, err := NewTree([]TreeEntry{
		{Mode: ModeBlob, Kind: KindBlob, Name: "dup"},
		{Mode: ModeBlob, Kind: KindBlob, Name: "dup"},
	})
	if err == nil {
		t.Fatal("expected an error for duplicate tree entry names")
	}
}

func TestVerifyDetectsCorruption(t *testing.T) {
	obj := NewBlobObject([]byte("content"))
	hash := obj.Hash()

	if err := Verify(hash, obj); err != nil {
		t.Fatalf("expected matching object to verify: %v", err)
	}

	tampered := NewBlobObject([]byte("different content"))
	if err := Verify(hash, tampered); err == nil {
		t.Fatal("expected corruption error for mismatched content")
	}
}

func TestObjectKindChangesHash(t *testing.T) {
	blobHash := NewBlobObject([]byte{}).Hash()
	tree, _ := NewTree(nil)
	treeHash := NewTreeObject(tree).Hash()
	if blobHash == treeHash {
		t.Fatal("objects of different kinds must not collide on identical payload")
	}
}
