// Package ignore implements the pattern-driven path predicate described
// in spec.md §4.3. It is built directly on regexp rather than on
// go-git's plumbing/format/gitignore package: the translation rules here
// (explicit last-match-wins, the specific **/ ** * ? handling, leading/
// trailing-slash anchoring) are prescribed byte-for-byte by the
// specification, and writing the translator directly keeps the
// implementation in one-to-one correspondence with that prose instead of
// bending a third-party matcher's own semantics to fit.
package ignore

import (
	"fmt"
	"regexp"
	"strings"
)

// pattern is one compiled, directional line of a .gitignore-style file.
type pattern struct {
	negative bool
	re       *regexp.Regexp
}

// Filter is a compiled set of ignore patterns. The zero value matches nothing.
type Filter struct {
	patterns []pattern
}

// Parse compiles a newline-delimited ignore-pattern document. Invalid
// individual patterns are skipped and reported in errs (never fatal),
// per spec.md §4.3 and §7's propagation policy.
func Parse(text string) (*Filter, []error) {
	var f Filter
	var errs []error

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		negative := strings.HasPrefix(trimmed, "!")
		if negative {
			trimmed = trimmed[1:]
		}

		re, err := compile(trimmed)
		if err != nil {
			errs = append(errs, fmt.Errorf("kestrel: ignore pattern %q: %w", line, err))
			continue
		}

		f.patterns = append(f.patterns, pattern{negative: negative, re: re})
	}

	return &f, errs
}

// Ignores reports whether relPath (forward-slashed, relative to the
// engine root) is excluded, per the last-matching-pattern-wins rule.
func (f *Filter) Ignores(relPath string) bool {
	if f == nil {
		return false
	}
	verdict := false
	for _, p := range f.patterns {
		if p.re.MatchString(relPath) {
			verdict = !p.negative
		}
	}
	return verdict
}

// compile translates one ignore pattern into the anchored regular
// expression spec.md §4.3 describes.
func compile(raw string) (*regexp.Regexp, error) {
	rootAnchored := strings.HasPrefix(raw, "/")
	if rootAnchored {
		raw = raw[1:]
	}

	dirOnly := strings.HasSuffix(raw, "/")
	if dirOnly {
		raw = strings.TrimSuffix(raw, "/")
	}

	translated := translateGlob(raw)
	if dirOnly {
		translated += "/.*"
	}

	var expr string
	if rootAnchored {
		expr = "^" + translated
	} else {
		expr = "(^|/)" + translated
	}
	if !dirOnly {
		expr += "($|/.*)"
	}

	return regexp.Compile(expr)
}

// translateGlob converts the glob metacharacters spec.md §4.3 assigns
// meaning to (**/ , **, *, ?) into regex, escaping everything else.
func translateGlob(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], "**/"):
			b.WriteString("(?:.*/)?")
			i += 3
		case strings.HasPrefix(s[i:], "**"):
			b.WriteString(".*")
			i += 2
		case s[i] == '*':
			b.WriteString("[^/]*")
			i++
		case s[i] == '?':
			b.WriteString(".")
			i++
		default:
			b.WriteString(regexp.QuoteMeta(string(s[i])))
			i++
		}
	}
	return b.String()
}
