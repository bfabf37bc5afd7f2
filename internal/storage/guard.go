package storage

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var ErrPathNotAllowed = errors.New("path not allowed")

// ValidateAssetPath rejects any path that does not resolve inside the asset
// root or media root. Traversal segments are rejected outright; relative
// paths are resolved before the containment check. Every path handed to an
// executor or the external tool must pass here first.
func (s *Store) ValidateAssetPath(path string) error {
	if path == "" {
		return errors.Wrap(ErrPathNotAllowed, "empty path")
	}
	if containsTraversal(path) {
		return errors.Wrapf(ErrPathNotAllowed, "traversal segment in %q", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(ErrPathNotAllowed, "unresolvable path %q", path)
	}
	if underRoot(abs, s.assetsDir) || underRoot(abs, s.mediaRoot) {
		return nil
	}
	return errors.Wrapf(ErrPathNotAllowed, "%q outside allowed roots", path)
}

func containsTraversal(path string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

func underRoot(abs, root string) bool {
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}
