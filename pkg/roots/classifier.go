package roots

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/brandsync/pkg/logging"
	"github.com/arthur-debert/brandsync/pkg/types"
	"github.com/rs/zerolog"
)

// Classifier discovers roots below a base directory
type Classifier struct {
	fs     types.FS
	layout types.Layout
	logger zerolog.Logger
}

// NewClassifier creates a classifier for the given layout
func NewClassifier(fsys types.FS, layout types.Layout) *Classifier {
	return &Classifier{
		fs:     fsys,
		layout: layout,
		logger: logging.GetLogger("roots.classifier"),
	}
}

// Layout returns the naming contract used by the classifier
func (c *Classifier) Layout() types.Layout {
	return c.layout
}

// Classify returns the roots directly below baseDir in canonical order: the
// core root, interlayers in scan order, then brands sorted by name.
//
// A missing or unreadable base directory yields no roots. Callers treat an
// empty result as "feature unavailable", not as an error.
func (c *Classifier) Classify(baseDir string) []types.Root {
	if baseDir == "" {
		return nil
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		c.logger.Debug().Err(err).Str("baseDir", baseDir).Msg("Cannot make base directory absolute")
		return nil
	}

	entries, err := c.fs.ReadDir(base)
	if err != nil {
		c.logger.Debug().Err(err).Str("baseDir", base).Msg("Cannot read base directory")
		return nil
	}

	var core []types.Root
	var interlayers []types.Root
	var brands []types.Root

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, c.layout.Prefix) {
			continue
		}
		path := filepath.Join(base, name)
		if !c.isDir(entry, path) {
			c.logger.Trace().Str("name", name).Msg("Skipping non-directory")
			continue
		}

		kind, ok := c.kindOf(name)
		if !ok {
			c.logger.Trace().Str("name", name).Msg("Skipping unclassified directory")
			continue
		}

		root := types.Root{
			Name:        name,
			Kind:        kind,
			Path:        path,
			DisplayName: c.layout.DisplayName(name, kind),
		}
		switch kind {
		case types.KindCore:
			core = append(core, root)
		case types.KindInterlayer:
			interlayers = append(interlayers, root)
		case types.KindBrand:
			brands = append(brands, root)
		}
	}

	sort.Slice(brands, func(i, j int) bool {
		return brands[i].Name < brands[j].Name
	})

	roots := make([]types.Root, 0, len(core)+len(interlayers)+len(brands))
	roots = append(roots, core...)
	roots = append(roots, interlayers...)
	roots = append(roots, brands...)

	c.logger.Debug().
		Str("baseDir", base).
		Int("count", len(roots)).
		Msg("Classified roots")
	return roots
}

// kindOf applies the naming rules in order. The core check comes first so a
// core name that happens to contain the infix still classifies as core.
func (c *Classifier) kindOf(name string) (types.RootKind, bool) {
	l := c.layout
	if name == l.CoreName {
		return types.KindCore, true
	}
	if l.InterlayerInfix != "" && strings.Contains(name, l.InterlayerInfix) {
		return types.KindInterlayer, true
	}
	if strings.HasPrefix(name, l.BrandPrefix) &&
		strings.HasSuffix(name, l.BrandSuffix) &&
		!l.IsIgnored(name) {
		return types.KindBrand, true
	}
	return 0, false
}

// isDir follows symlinks so a linked tree counts as a root
func (c *Classifier) isDir(entry fs.DirEntry, path string) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := c.fs.Stat(path)
	return err == nil && info.IsDir()
}

// FindByName returns the root with the exact directory name
func FindByName(roots []types.Root, name string) (types.Root, bool) {
	for _, root := range roots {
		if root.Name == name {
			return root, true
		}
	}
	return types.Root{}, false
}
