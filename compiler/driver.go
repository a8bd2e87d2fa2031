package compiler

import (
	"context"
	"fmt"
	"strings"
)

// Driver is the opaque external compiler/type-checker contract of
// spec.md §6. The real implementation (a type-checker binary or
// in-process compiler for whatever source language the tree holds) is
// supplied by the caller; the engine never depends on one concretely.
type Driver interface {
	Compile(ctx context.Context, host Host, entryPoint string) error
}

// PassthroughDriver is the reference Driver that exercises the Host
// adapter end to end: it copies the ".ts" entry point itself to
// "out/<name>.js" unmodified, standing in for a real type-checker.
// Imports of the entry point are not followed or copied.
type PassthroughDriver struct{}

func (PassthroughDriver) Compile(ctx context.Context, host Host, entryPoint string) error {
	if !strings.HasSuffix(entryPoint, ".ts") {
		return fmt.Errorf("kestrel: passthrough driver: %q is not a .ts entry point", entryPoint)
	}
	content, ok := host.ReadFile(entryPoint)
	if !ok {
		return fmt.Errorf("kestrel: passthrough driver: %q not found", entryPoint)
	}

	name := strings.TrimSuffix(lastSegment(entryPoint), ".ts")
	out := "out/" + name + ".js"
	host.WriteFile(out, content)
	return nil
}

func lastSegment(p string) string {
	if idx := strings.LastIndexByte(p, '/'); idx >= 0 {
		return p[idx+1:]
	}
	return p
}
