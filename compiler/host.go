// Package compiler bridges an opaque external compiler/type-checker to
// the version engine's working tree, per spec.md §6: the driver only
// ever sees files through the narrow Host contract, never the engine
// directly.
package compiler

import (
	"path"
	"strings"

	"github.com/kestrelvcs/kestrel/vcs"
)

// Host is the narrow filesystem contract a Driver is given. It never
// exposes commit/checkout/merge — only the working tree.
type Host interface {
	FileExists(path string) bool
	ReadFile(path string) ([]byte, bool)
	WriteFile(path string, content []byte)
	GetCwd() string
	ResolveModule(fromFile, specifier string) (string, bool)
}

// EngineHost implements Host purely in terms of an Engine's working-tree
// operations (Read/Write, plus Root for GetCwd).
type EngineHost struct {
	engine *vcs.Engine
}

// NewEngineHost adapts engine into a compiler Host.
func NewEngineHost(engine *vcs.Engine) *EngineHost {
	return &EngineHost{engine: engine}
}

func (h *EngineHost) FileExists(p string) bool {
	_, ok := h.engine.Read(p)
	return ok
}

func (h *EngineHost) ReadFile(p string) ([]byte, bool) {
	f, ok := h.engine.Read(p)
	if !ok {
		return nil, false
	}
	return f.Content, true
}

func (h *EngineHost) WriteFile(p string, content []byte) {
	h.engine.Write(p, content)
}

func (h *EngineHost) GetCwd() string {
	return h.engine.Root()
}

// ResolveModule resolves a relative specifier against fromFile's
// directory, the way a bundler's module resolution would, and reports
// whether a file exists at the resolved path. Bare (non-relative)
// specifiers are not resolved — that is the real compiler's job, not
// this adapter's.
func (h *EngineHost) ResolveModule(fromFile, specifier string) (string, bool) {
	if !strings.HasPrefix(specifier, ".") {
		return "", false
	}
	resolved := path.Join(path.Dir(fromFile), specifier)
	if h.FileExists(resolved) {
		return resolved, true
	}
	return "", false
}
