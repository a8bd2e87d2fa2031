package core

import (
	"path"
	"regexp"
	"strings"
)

// DerivedContext is advisory, recomputable-from-content metadata about a
// working-tree file. It is never part of any hash (spec.md §3, §9).
type DerivedContext struct {
	Language string
	Imports  []string
	Exports  []string
}

var languageByExt = map[string]string{
	".ts":   "typescript",
	".tsx":  "typescript",
	".js":   "javascript",
	".jsx":  "javascript",
	".mjs":  "javascript",
	".go":   "go",
	".py":   "python",
	".rs":   "rust",
	".json": "json",
	".md":   "markdown",
}

var (
	reESImport  = regexp.MustCompile(`(?m)^\s*import\s+(?:[^'"]+\sfrom\s+)?['"]([^'"]+)['"]`)
	reCJSImport = regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`)
	reGoImport  = regexp.MustCompile(`(?m)^\s*"([^"]+)"\s*$`)
	reESExport  = regexp.MustCompile(`(?m)^\s*export\s+(?:default\s+)?(?:async\s+)?(?:function|class|const|let|var)\s+([A-Za-z_$][\w$]*)`)
)

// DetectContext recomputes the advisory language/import/export metadata
// for a file from its path and content alone.
func DetectContext(filePath string, content []byte) DerivedContext {
	ctx := DerivedContext{Language: languageByExt[strings.ToLower(path.Ext(filePath))]}

	text := string(content)
	switch ctx.Language {
	case "typescript", "javascript":
		ctx.Imports = append(ctx.Imports, matchGroup(reESImport, text)...)
		ctx.Imports = append(ctx.Imports, matchGroup(reCJSImport, text)...)
		ctx.Exports = matchGroup(reESExport, text)
	case "go":
		ctx.Imports = matchGroup(reGoImport, text)
	}
	return ctx
}

func matchGroup(re *regexp.Regexp, text string) []string {
	matches := re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}
