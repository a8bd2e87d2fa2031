package vcs

import (
	"context"

	"github.com/kestrelvcs/kestrel/core"
	"github.com/kestrelvcs/kestrel/objstore"
	"github.com/kestrelvcs/kestrel/refs"
)

// DatabaseDump is the inspection surface spec.md §4.9 exposes: every
// object the store holds, every reference, and the current HEAD.
type DatabaseDump struct {
	Objects []objstore.Entry
	Refs    map[string]core.Hash
	Head    refs.Head
}

// GetDatabaseDump returns a snapshot of the engine's object graph and
// reference state, for debugging and for the snapshot codec.
func (e *Engine) GetDatabaseDump() DatabaseDump {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return DatabaseDump{
		Objects: e.store.Dump(context.Background()),
		Refs:    e.refs.All(),
		Head:    e.refs.Head(),
	}
}
