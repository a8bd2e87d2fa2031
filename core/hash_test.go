package core

import "testing"

func TestParseHashRoundTrip(t *testing.T) {
	h := NewBlobObject([]byte("round trip")).Hash()
	parsed, err := ParseHash(h.String())
	if err != nil {
		t.Fatal(err)
	}
	if parsed != h {
		t.Fatalf("parsed hash %s != original %s", parsed, h)
	}
}

func TestParseHashRejectsWrongLength(t *testing.T) {
	if _, err := ParseHash("too-short"); err == nil {
		t.Fatal("expected an error for a non-40-char string")
	}
}

func TestLooksLikeHash(t *testing.T) {
	h := NewBlobObject([]byte("x")).Hash()
	if !LooksLikeHash(h.String()) {
		t.Fatalf("%s should look like a hash", h)
	}
	if LooksLikeHash("main") {
		t.Fatal("a branch name should not look like a hash")
	}
	if LooksLikeHash("zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz") {
		t.Fatal("non-hex characters should not look like a hash")
	}
}

func TestZeroHash(t *testing.T) {
	var h Hash
	if !h.IsZero() {
		t.Fatal("zero value Hash should report IsZero")
	}
	want := "0000000000000000000000000000000000000000"[:40]
	if ZeroHash.String() != want {
		t.Fatalf("unexpected zero hash string: %s", ZeroHash)
	}
}
