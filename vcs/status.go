package vcs

import (
	"context"
	"sort"
)

// Status is the new/modified/deleted taxonomy of spec.md §4.9: the
// working tree's live files, filtered through the Ignore Filter, compared
// against every path in HEAD's committed tree (which is not re-filtered).
type Status struct {
	New      []string
	Modified []string
	Deleted  []string
}

// Status computes the comparison described above. An unborn HEAD
// reports every live, non-ignored file as New.
func (e *Engine) Status() (Status, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ctx := context.Background()

	filter := e.loadIgnoreFilterLocked()
	live := make(map[string][]byte)
	for _, f := range e.wt.GetAllFiles() {
		rel := e.wt.RelPath(f.Path)
		if filter.Ignores(rel) {
			continue
		}
		live[rel] = f.Content
	}

	committed := make(map[string][]byte)
	if head, ok := e.resolveHeadLocked(); ok {
		commit, err := e.getCommitLocked(head)
		if err != nil {
			return Status{}, err
		}
		flat, err := flattenTree(ctx, e.store, commit.Tree)
		if err != nil {
			return Status{}, err
		}
		for rel, hash := range flat {
			content, err := e.blobContentLocked(ctx, hash)
			if err != nil {
				return Status{}, err
			}
			committed[rel] = content
		}
	}

	var s Status
	for rel, content := range live {
		prior, existed := committed[rel]
		switch {
		case !existed:
			s.New = append(s.New, rel)
		case string(prior) != string(content):
			s.Modified = append(s.Modified, rel)
		}
	}
	for rel := range committed {
		if _, stillLive := live[rel]; !stillLive {
			s.Deleted = append(s.Deleted, rel)
		}
	}
	sort.Strings(s.New)
	sort.Strings(s.Modified)
	sort.Strings(s.Deleted)
	return s, nil
}
