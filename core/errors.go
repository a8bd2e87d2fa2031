package core

import (
	"errors"
	"fmt"
)

// Sentinel error kinds, per spec.md §7. Call sites wrap these with
// fmt.Errorf("...: %w", ErrX) so errors.Is still matches the kind.
var (
	// ErrNotFound: a referenced hash, branch, or path does not exist.
	ErrNotFound = errors.New("kestrel: not found")

	// ErrInvalidArgument: a checkout target that is not a commit; a
	// branch create/delete on a name that already exists / does not exist.
	ErrInvalidArgument = errors.New("kestrel: invalid argument")

	// ErrState: deleting the currently-checked-out branch; an operation
	// that requires an attached branch while HEAD is detached.
	ErrState = errors.New("kestrel: invalid state")

	// ErrConflict: three-way merge cannot auto-resolve a path.
	ErrConflict = errors.New("kestrel: merge conflict")

	// ErrHistory: no common ancestor between two commits.
	ErrHistory = errors.New("kestrel: no common ancestor")

	// ErrCorruption: a stored object's recomputed hash differs from its key.
	ErrCorruption = errors.New("kestrel: object corruption")
)

// ConflictError names the path a three-way merge could not auto-resolve.
type ConflictError struct {
	Path string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("kestrel: merge conflict at %q", e.Path)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// CorruptionError names the hash whose stored content no longer matches it.
type CorruptionError struct {
	Hash     string
	Expected string
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("kestrel: object %s does not hash to its key (recomputed %s)", e.Hash, e.Expected)
}

func (e *CorruptionError) Unwrap() error { return ErrCorruption }
