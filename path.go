package cfb

import (
	"fmt"
	"path"
	"strings"
	"unicode/utf16"
)

// ValidateName rejects names that cannot be stored in a directory
// entry: too long once encoded as UTF-16, or containing one of the
// reserved characters '/', '\\', ':' or '!' ('/' would also make paths
// ambiguous).
func ValidateName(name string) error {
	if strings.ContainsAny(name, "/\\:!") {
		return fmt.Errorf("cfb: name %q contains a reserved character: %w", name, ErrNaming)
	}
	if units := len(utf16.Encode([]rune(name))); units > MaxNameLen {
		return fmt.Errorf("cfb: name %q is %d UTF-16 units, max %d: %w", name, units, MaxNameLen, ErrNaming)
	}
	return nil
}

// foldASCII folds only the ASCII letters of s to lowercase, leaving
// every other code point untouched. Folding is deliberately
// locale-independent and ASCII-only for portability and determinism:
// golang.org/x/text/cases performs full Unicode case folding (e.g.
// 'ß' -> "ss"), which would fold code units this comparison needs to
// leave alone.
func foldASCII(s string) string {
	b := []byte(s)
	changed := false
	for i, r := range b {
		if r >= 'A' && r <= 'Z' {
			if !changed {
				b = []byte(s)
				changed = true
			}
			b[i] = r + ('a' - 'A')
		}
	}
	if !changed {
		return s
	}
	return string(b)
}

// CompareNames orders two entry names by their ASCII-folded form.
// Equal keys signal a naming collision to the caller.
func CompareNames(a, b string) int {
	return strings.Compare(foldASCII(a), foldASCII(b))
}

// NameChainFromPath splits an absolute or relative "/"-separated path
// into its component names, resolving "." and ".." the way path.Clean
// does. For a relative path, an attempt to climb above its start
// yields an empty chain; an absolute path is clamped at the root the
// way path.Clean clamps it ("/../a" yields ["a"]).
func NameChainFromPath(p string) []string {
	cleaned := path.Clean(p)
	if cleaned == "" || cleaned == "." {
		return nil
	}
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" {
		return nil
	}
	if strings.HasPrefix(cleaned, "..") {
		return nil
	}
	return strings.Split(cleaned, "/")
}

// PathFromNameChain joins a chain of storage/stream names back into
// an absolute path.
func PathFromNameChain(names []string) string {
	return "/" + strings.Join(names, "/")
}
