// Package kestrel is an in-memory, content-addressed version-control
// core coupled with a language-agnostic compile/execute orchestration
// boundary.
//
// Mutations go through a Version Engine backed by a content-addressed
// Object Store, a Working Tree, an Ignore Filter, and a Reference
// Table; commits, checkouts, and three-way merges operate the way a
// distributed VCS's plumbing does, minus packfiles, delta compression,
// and remote replication of the versioning protocol itself.
//
// # Quick start
//
//	engine := kestrel.Open("/repo")
//	engine.Write("main.go", []byte("package main"))
//	hash, _ := engine.Commit("initial", vcs.CommitOptions{
//		Author: core.Identity{Name: "Agent", Email: "agent@example.com"},
//	})
//	engine.CreateBranch("feature")
//	engine.Checkout("feature")
package kestrel

import (
	"github.com/kestrelvcs/kestrel/objstore"
	"github.com/kestrelvcs/kestrel/vcs"
)

// Open returns a ready Version Engine rooted at root, backed by a fresh
// in-memory Object Store.
func Open(root string, opts ...vcs.Option) *vcs.Engine {
	return vcs.New(root, objstore.NewMemoryStore(), opts...)
}
