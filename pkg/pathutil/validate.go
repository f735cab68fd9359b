// Package pathutil checks clone source and destination paths.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jvs-project/clonekit/pkg/errclass"
)

// ValidateClonePaths rejects a tree clone whose destination is the source
// itself or lies inside it; walking such a source would pick up its own
// output. Both paths are resolved through symlinks first, and a destination
// that does not exist yet is resolved through its closest existing ancestor.
func ValidateClonePaths(src, dst string) error {
	resolvedSrc, err := filepath.EvalSymlinks(src)
	if err != nil {
		return fmt.Errorf("resolve source: %w", err)
	}
	resolvedSrc, err = filepath.Abs(resolvedSrc)
	if err != nil {
		return fmt.Errorf("resolve source: %w", err)
	}

	absDst, err := filepath.Abs(dst)
	if err != nil {
		return fmt.Errorf("resolve destination: %w", err)
	}
	resolvedDst, err := filepath.EvalSymlinks(absDst)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("resolve destination: %w", err)
		}
		resolvedDst = resolveClosestAncestor(absDst)
	}

	if Within(resolvedSrc, resolvedDst) {
		return errclass.ErrPathOverlap.WithMessagef("destination %s is inside source %s", dst, src)
	}
	return nil
}

// Within reports whether target is root or lies under it. Both paths are
// compared lexically after cleaning and NFC normalization, so callers
// should resolve symlinks first.
func Within(root, target string) bool {
	root = norm.NFC.String(filepath.Clean(root))
	target = norm.NFC.String(filepath.Clean(target))
	if target == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(target, prefix)
}

// resolveClosestAncestor walks up from path to find the closest existing
// ancestor, resolves it, then appends the remaining components.
func resolveClosestAncestor(path string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if dir == path {
		return filepath.Clean(path)
	}

	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		if os.IsNotExist(err) {
			resolved = resolveClosestAncestor(dir)
		} else {
			return filepath.Clean(path)
		}
	}
	return filepath.Join(resolved, base)
}
