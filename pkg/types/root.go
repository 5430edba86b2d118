package types

import "strings"

// RootKind classifies a root directory
type RootKind int

const (
	// KindCore is the canonical base tree
	KindCore RootKind = iota
	// KindInterlayer is an intermediate overlay tree
	KindInterlayer
	// KindBrand is a named variant tree
	KindBrand
)

// String returns the lowercase kind name
func (k RootKind) String() string {
	switch k {
	case KindCore:
		return "core"
	case KindInterlayer:
		return "interlayer"
	case KindBrand:
		return "brand"
	default:
		return "unknown"
	}
}

// Root is one classified top-level directory. Roots are plain values and are
// recomputed on every classification pass.
type Root struct {
	// Name is the directory name
	Name string

	// Kind is the classification of the directory
	Kind RootKind

	// Path is the absolute path of the directory
	Path string

	// DisplayName is the human label: "Core", "Interlayer", or the brand
	// name without the layout's brand prefix and suffix
	DisplayName string
}

// ResolvedContext locates a source file inside its owning root
type ResolvedContext struct {
	// Root owns the source file
	Root Root

	// RelativePath is the path below Root, '/'-separated, without a leading separator
	RelativePath string

	// SourcePath is the absolute path of the source file
	SourcePath string
}

// RootState records whether a source file's relative path exists in one root
type RootState struct {
	Root Root

	// TargetPath is the absolute path of the mirrored entry, empty when absent
	TargetPath string

	// IsCurrent is set for the root that owns the source file
	IsCurrent bool
}

// Exists reports whether the relative path exists in the root
func (s RootState) Exists() bool {
	return s.TargetPath != ""
}

// Layout is the naming contract used to classify the children of a base directory
type Layout struct {
	// Prefix is shared by every root name. Change notifications are filtered on it.
	Prefix string

	// CoreName is the exact name of the core root
	CoreName string

	// InterlayerInfix marks interlayer roots
	InterlayerInfix string

	// BrandPrefix and BrandSuffix frame a brand name
	BrandPrefix string
	BrandSuffix string

	// Ignore lists names excluded from brand classification
	Ignore []string
}

// DefaultLayout returns the layout of the app-react family of trees
func DefaultLayout() Layout {
	return Layout{
		Prefix:          "app-react",
		CoreName:        "app-react",
		InterlayerInfix: "interlayer",
		BrandPrefix:     "app-react-",
		BrandSuffix:     "-theme",
		Ignore: []string{
			"app-react-example-theme",
			"app-react-licensee",
			"app-react-all-theme",
		},
	}
}

// IsIgnored reports whether name is in the ignore set
func (l Layout) IsIgnored(name string) bool {
	for _, ignored := range l.Ignore {
		if ignored == name {
			return true
		}
	}
	return false
}

// DisplayName derives the label for a root of the given kind
func (l Layout) DisplayName(name string, kind RootKind) string {
	switch kind {
	case KindCore:
		return "Core"
	case KindInterlayer:
		return "Interlayer"
	default:
		return strings.TrimSuffix(strings.TrimPrefix(name, l.BrandPrefix), l.BrandSuffix)
	}
}
