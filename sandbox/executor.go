// Package sandbox materializes a version-engine working tree onto a
// host filesystem and drives an external container runtime against it,
// per spec.md §6's execution-sandbox boundary.
package sandbox

import (
	"context"
	"time"

	"github.com/kestrelvcs/kestrel/vcs"
)

// Options configures one sandboxed run.
type Options struct {
	Image        string            // container image to run
	Command      []string          // overrides the default <name>.ts -> out/<name>.js invocation
	Env          map[string]string // environment variables passed into the container
	PackageCache string            // optional host directory bind-mounted read-only
	MemoryBytes  int64             // 0 means no explicit limit
	CPUQuota     int64             // nanoCPUs, 0 means no explicit limit
	Timeout      time.Duration     // wall-clock budget; 0 means DefaultTimeout
}

// DefaultTimeout bounds a sandbox run when Options.Timeout is unset.
const DefaultTimeout = 30 * time.Second

// Result is a finished run's observable outcome.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
}

// Executor runs entryPoint, already materialized from engine's working
// tree, inside an isolated environment.
type Executor interface {
	Run(ctx context.Context, engine *vcs.Engine, entryPoint string, opts Options) (Result, error)
}
