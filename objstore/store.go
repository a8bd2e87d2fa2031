// Package objstore implements the content-addressed Object Store
// described in spec.md §4.1: a narrow, pluggable contract in front of
// an immutable blob/tree/commit repository.
//
// The interface takes a context.Context on every method, not because the
// in-memory implementation ever suspends, but so a future disk-backed or
// networked store can satisfy the same contract without a signature
// break (spec.md §9, "Asynchronous Object Store").
package objstore

import (
	"context"
	"fmt"

	"github.com/kestrelvcs/kestrel/core"
)

// Entry pairs a hash with its object, as produced by Dump and consumed by Load.
type Entry struct {
	Hash   core.Hash
	Object core.Object
}

// Store is the content-addressed object repository contract. Per
// spec.md §4.1, Get and Put never fail; Load fails only when the
// supplied entries are not injective (two distinct objects under one hash).
type Store interface {
	// Get returns the object for hash, or ok=false if absent.
	Get(ctx context.Context, hash core.Hash) (obj core.Object, ok bool)

	// Put stores obj and returns its hash. Writing a hash that already
	// exists is a no-op on content (idempotent).
	Put(ctx context.Context, obj core.Object) core.Hash

	// Dump exports every stored object. Order is not observable.
	Dump(ctx context.Context) []Entry

	// Load atomically replaces the store's contents from entries.
	Load(ctx context.Context, entries []Entry) error
}

// ErrNonInjectiveLoad is returned by Load when two distinct objects in
// the supplied entries share a hash.
type ErrNonInjectiveLoad struct {
	Hash core.Hash
}

func (e *ErrNonInjectiveLoad) Error() string {
	return fmt.Sprintf("kestrel: snapshot entries are not injective at hash %s", e.Hash)
}
