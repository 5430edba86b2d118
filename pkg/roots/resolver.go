package roots

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/brandsync/pkg/errors"
	"github.com/arthur-debert/brandsync/pkg/types"
)

// Resolve finds the root owning path and the path relative to it.
//
// The owner is the first root in the given order that is a strict ancestor of
// path. A root directory is never resolved against itself.
func Resolve(path string, roots []types.Root) (types.ResolvedContext, error) {
	if len(roots) == 0 {
		return types.ResolvedContext{}, errors.New(errors.ErrNoRoots, "no roots configured")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return types.ResolvedContext{}, errors.Wrap(err, errors.ErrContextUnresolved, "cannot make path absolute").
			WithDetail("path", path)
	}

	for _, root := range roots {
		if !isStrictDescendant(root.Path, abs) {
			continue
		}
		rel, ok := relativeTo(root.Path, abs)
		if !ok {
			return types.ResolvedContext{}, errors.New(errors.ErrContextUnresolved, "cannot compute relative path").
				WithDetail("path", abs).
				WithDetail("root", root.Name)
		}
		return types.ResolvedContext{
			Root:         root,
			RelativePath: rel,
			SourcePath:   abs,
		}, nil
	}

	return types.ResolvedContext{}, errors.New(errors.ErrContextUnresolved, "not inside a recognized root").
		WithDetail("path", abs)
}

func isStrictDescendant(rootPath, path string) bool {
	root := filepath.Clean(rootPath)
	if root == path {
		return false
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}

func relativeTo(rootPath, path string) (string, bool) {
	rel, err := filepath.Rel(rootPath, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
