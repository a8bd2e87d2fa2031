package vcs

import "github.com/kestrelvcs/kestrel/core"

// LogEntry pairs a commit with the hash it was stored under, as returned
// by Log.
type LogEntry struct {
	Hash   core.Hash
	Commit *core.Commit
}

// Log implements spec.md §4.9's history walk: every commit reachable
// from HEAD, visited breadth-first through the parents graph, each hash
// at most once, nearest-first.
func (e *Engine) Log() ([]LogEntry, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	head, ok := e.resolveHeadLocked()
	if !ok {
		return nil, nil
	}

	var entries []LogEntry
	visited := make(map[core.Hash]bool)
	queue := []core.Hash{head}
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if visited[h] {
			continue
		}
		visited[h] = true

		commit, err := e.getCommitLocked(h)
		if err != nil {
			return nil, err
		}
		entries = append(entries, LogEntry{Hash: h, Commit: commit})
		queue = append(queue, commit.Parents...)
	}
	return entries, nil
}
