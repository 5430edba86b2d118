package brand

import (
	"path/filepath"

	"github.com/arthur-debert/brandsync/pkg/errors"
	"github.com/arthur-debert/brandsync/pkg/types"
)

// PrepareCopy checks that path can be copied into targetName. Directories
// always merge, so TARGET_EXISTS is only reported for files.
func (s *Service) PrepareCopy(path, targetName string) (types.ResolvedContext, types.Root, error) {
	src, err := s.Resolve(path)
	if err != nil {
		return types.ResolvedContext{}, types.Root{}, err
	}

	target, err := s.FindRootByName(targetName)
	if err != nil {
		return src, types.Root{}, err
	}

	if target.Path == src.Root.Path {
		return src, target, errors.New(errors.ErrSameRoot, "file is already in the target root").
			WithDetail("root", target.Name)
	}

	info, err := s.fs.Stat(src.SourcePath)
	if err != nil {
		return src, target, errors.Wrap(err, errors.ErrFileAccess, "cannot access source").
			WithDetail("path", src.SourcePath)
	}
	if !info.IsDir() {
		dest := filepath.Join(target.Path, filepath.FromSlash(src.RelativePath))
		if _, err := s.fs.Stat(dest); err == nil {
			return src, target, errors.Newf(errors.ErrTargetExists, "file already exists in '%s'", target.DisplayName).
				WithDetail("path", dest)
		}
	}
	return src, target, nil
}
