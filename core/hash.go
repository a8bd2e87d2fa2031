package core

import (
	"encoding/hex"
	"fmt"

	"github.com/pjbgf/sha1cd"
)

// HashSize is the length in bytes of a Hash (SHA-1 digest size).
const HashSize = 20

// Hash is a 40-hex-character content hash, per spec.md §3.
type Hash [HashSize]byte

// ZeroHash is the absent/unset hash value.
var ZeroHash Hash

// IsZero reports whether h is the zero hash.
func (h Hash) IsZero() bool { return h == ZeroHash }

// String renders h as 40 lowercase hex characters.
func (h Hash) String() string { return hex.EncodeToString(h[:]) }

// ParseHash parses a 40-character hex string into a Hash.
func ParseHash(s string) (Hash, error) {
	if len(s) != HashSize*2 {
		return ZeroHash, fmt.Errorf("kestrel: %q is not a 40-hex hash", s)
	}
	var h Hash
	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		return ZeroHash, fmt.Errorf("kestrel: %q is not a 40-hex hash: %w", s, err)
	}
	return h, nil
}

// LooksLikeHash reports whether s has the shape of a 40-hex hash: exactly
// 40 characters, each a hex digit of either case.
func LooksLikeHash(s string) bool {
	if len(s) != HashSize*2 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// sum computes the SHA-1 digest of data using the collision-detecting
// implementation go-git itself relies on, rather than crypto/sha1.
func sum(data []byte) Hash {
	h := sha1cd.New()
	h.Write(data)
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}
