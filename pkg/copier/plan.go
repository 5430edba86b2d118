package copier

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/brandsync/pkg/types"
)

// StepKind is the action a plan step performs
type StepKind int

const (
	// StepMkdir creates a missing directory
	StepMkdir StepKind = iota
	// StepCopy copies a file that is absent at the destination
	StepCopy
	// StepSkip leaves an existing destination entry untouched
	StepSkip
)

func (k StepKind) String() string {
	switch k {
	case StepMkdir:
		return "mkdir"
	case StepCopy:
		return "copy"
	case StepSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Step is one planned filesystem action
type Step struct {
	Kind StepKind

	// Source is empty for mkdir steps
	Source string

	// Dest is the absolute destination path
	Dest string
}

// Plan is the ordered list of steps that copies Source into Target
type Plan struct {
	Source types.ResolvedContext
	Target types.Root

	// IsDir is set when the source is a directory
	IsDir bool

	// DestPath is Target's path joined with the source's relative path
	DestPath string

	Steps []Step
}

// Count returns the number of steps of the given kind
func (p *Plan) Count(kind StepKind) int {
	n := 0
	for _, step := range p.Steps {
		if step.Kind == kind {
			n++
		}
	}
	return n
}

// Relative returns dest relative to the target root, '/'-separated
func (p *Plan) Relative(dest string) string {
	rel, err := filepath.Rel(p.Target.Path, dest)
	if err != nil {
		return dest
	}
	return filepath.ToSlash(rel)
}

// ItemKind names the source for log and user messages
func (p *Plan) ItemKind() string {
	return itemKind(p.IsDir)
}

func (p *Plan) String() string {
	return fmt.Sprintf("%s %s -> %s (%d mkdir, %d copy, %d skip)",
		p.ItemKind(), p.Source.RelativePath, p.Target.Name,
		p.Count(StepMkdir), p.Count(StepCopy), p.Count(StepSkip))
}

func itemKind(isDir bool) string {
	if isDir {
		return "directory"
	}
	return "file"
}
