package vcs

import (
	"context"
	"fmt"
	"os"

	"github.com/kestrelvcs/kestrel/snapshot"
)

// SnapshotOptions configures SaveSnapshot/LoadSnapshot.
type SnapshotOptions struct {
	// Compress gzips the document. Defaults to true (compressed) via
	// DefaultSnapshotOptions; the zero value is "uncompressed", so callers
	// using SnapshotOptions{} directly get the uncompressed behavior.
	Compress bool
}

// DefaultSnapshotOptions matches SPEC_FULL.md §4.8: compressed unless
// explicitly disabled.
func DefaultSnapshotOptions() SnapshotOptions {
	return SnapshotOptions{Compress: true}
}

// SaveSnapshot implements spec.md §4.8: write every object, reference,
// HEAD, and working-tree file to path as a single self-describing
// document. A path beginning "s3://" routes through the S3 backend;
// otherwise it is a local filesystem path.
func (e *Engine) SaveSnapshot(path string, opts SnapshotOptions) error {
	e.mu.RLock()
	ctx := context.Background()
	objects := e.store.Dump(ctx)
	refTable := e.refs.All()
	head := e.refs.Head()

	files := make([]snapshot.FileRecord, 0, len(e.wt.GetAllFiles()))
	for _, f := range e.wt.GetAllFiles() {
		files = append(files, snapshot.FileRecord{Path: f.Path, Content: f.Content})
	}
	e.mu.RUnlock()

	doc := snapshot.Build(objects, refTable, head, files)
	data, err := snapshot.Encode(doc, opts.Compress)
	if err != nil {
		return err
	}

	return writeSnapshotPayload(ctx, path, data)
}

// LoadSnapshot implements spec.md §4.8/§9: reads and reconstructs the
// store, references, HEAD, and working tree from path, atomically — if
// anything fails during parse or reconstruction, the engine's prior
// state is left untouched.
func (e *Engine) LoadSnapshot(path string) error {
	ctx := context.Background()
	data, err := readSnapshotPayload(ctx, path)
	if err != nil {
		return err
	}

	doc, err := snapshot.Decode(data)
	if err != nil {
		return err
	}
	objectEntries, err := doc.ToObjectEntries()
	if err != nil {
		return err
	}
	refTable, err := doc.ToRefTable()
	if err != nil {
		return err
	}
	head, err := doc.ToHead()
	if err != nil {
		return err
	}

	// Every field above is fully validated before anything in the live
	// engine is touched, so a failure up to this point is a no-op.
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.Load(ctx, objectEntries); err != nil {
		return err
	}
	e.refs.ReplaceAll(refTable, head)

	e.wt.Clear()
	for _, f := range doc.Files {
		e.wt.Write(f.Path, f.Content)
	}
	return nil
}

func writeSnapshotPayload(ctx context.Context, path string, data []byte) error {
	if bucket, key, ok := snapshot.ParseS3URL(path); ok {
		backend, err := snapshot.NewS3Backend(ctx)
		if err != nil {
			return err
		}
		return backend.Put(ctx, bucket, key, data)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("kestrel: save snapshot %q: %w", path, err)
	}
	return nil
}

func readSnapshotPayload(ctx context.Context, path string) ([]byte, error) {
	if bucket, key, ok := snapshot.ParseS3URL(path); ok {
		backend, err := snapshot.NewS3Backend(ctx)
		if err != nil {
			return nil, err
		}
		return backend.Get(ctx, bucket, key)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("kestrel: load snapshot %q: %w", path, err)
	}
	return data, nil
}
