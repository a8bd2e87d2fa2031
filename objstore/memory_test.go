package objstore

import (
	"context"
	"testing"

	"github.com/kestrelvcs/kestrel/core"
)

func TestMemoryStorePutGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	obj := core.NewBlobObject([]byte("payload"))
	hash := s.Put(ctx, obj)

	got, ok := s.Get(ctx, hash)
	if !ok {
		t.Fatal("expected object to be found after Put")
	}
	if string(got.Blob.Content) != "payload" {
		t.Fatalf("unexpected content: %s", got.Blob.Content)
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()
	_, ok := s.Get(context.Background(), core.ZeroHash)
	if ok {
		t.Fatal("expected ZeroHash to be absent from an empty store")
	}
}

func TestMemoryStorePutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	obj := core.NewBlobObject([]byte("same"))

	h1 := s.Put(ctx, obj)
	h2 := s.Put(ctx, obj)
	if h1 != h2 {
		t.Fatalf("identical content should hash identically: %s != %s", h1, h2)
	}
	if len(s.Dump(ctx)) != 1 {
		t.Fatalf("expected exactly one stored object, got %d", len(s.Dump(ctx)))
	}
}

func TestMemoryStoreDumpLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	h1 := s.Put(ctx, core.NewBlobObject([]byte("a")))
	h2 := s.Put(ctx, core.NewBlobObject([]byte("b")))

	dump := s.Dump(ctx)

	fresh := NewMemoryStore()
	if err := fresh.Load(ctx, dump); err != nil {
		t.Fatal(err)
	}

	for _, h := range []core.Hash{h1, h2} {
		if _, ok := fresh.Get(ctx, h); !ok {
			t.Fatalf("expected %s to survive Dump/Load round trip", h)
		}
	}
}

func TestMemoryStoreLoadRejectsNonInjectiveMapping(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	hash := core.NewBlobObject([]byte("a")).Hash()
	entries := []Entry{
		{Hash: hash, Object: core.NewBlobObject([]byte("a"))},
		{Hash: hash, Object: core.NewBlobObject([]byte("different content under same key"))},
	}

	if err := s.Load(ctx, entries); err == nil {
		t.Fatal("expected an error for a non-injective entry set")
	}
}
