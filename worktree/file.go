// Package worktree holds the mutable, live file set a Kestrel engine
// instance is editing — the "Working Tree" of spec.md §4.2.
package worktree

import "github.com/kestrelvcs/kestrel/core"

// File is one live working-tree entity: an absolute path, its current
// content, a strictly monotonic version counter, and advisory derived
// context. Version bumps only on an actual content change — writing the
// same bytes twice is a no-op for the counter (spec.md §3).
type File struct {
	Path    string
	Content []byte
	Version uint64
	Context core.DerivedContext
}
