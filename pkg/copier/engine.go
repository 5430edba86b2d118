package copier

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/arthur-debert/brandsync/pkg/errors"
	"github.com/arthur-debert/brandsync/pkg/logging"
	"github.com/arthur-debert/brandsync/pkg/types"
	"github.com/rs/zerolog"
)

const dirMode fs.FileMode = 0755

// Result is the outcome of one copy
type Result struct {
	// Path is the verified destination, empty on failure
	Path string

	// IsDir is set when a directory was copied
	IsDir bool

	// Err carries the coded failure, nil on success
	Err error
}

// OK reports whether the copy succeeded
func (r Result) OK() bool {
	return r.Err == nil && r.Path != ""
}

// Navigator opens a freshly copied file for the user
type Navigator interface {
	Navigate(ctx context.Context, path string) error
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(ctx context.Context, path string) error

// Navigate calls f
func (f NavigatorFunc) Navigate(ctx context.Context, path string) error {
	return f(ctx, path)
}

// Invalidator drops cached state for a path
type Invalidator interface {
	Invalidate(path string)
}

// Poster runs callbacks on the foreground goroutine
type Poster interface {
	Post(fn func()) bool
}

// Options configures an Engine. FS and Poster are required.
type Options struct {
	FS        types.FS
	Poster    Poster
	Gate      *MutationGate
	Cache     Invalidator
	Navigator Navigator
}

// Engine runs copies between roots
type Engine struct {
	fs        types.FS
	poster    Poster
	gate      *MutationGate
	cache     Invalidator
	navigator Navigator
	mutator   *mutator
	logger    zerolog.Logger
	inflight  sync.WaitGroup
}

// New creates an engine. A nil gate gets a private one.
func New(opts Options) *Engine {
	gate := opts.Gate
	if gate == nil {
		gate = NewMutationGate()
	}
	return &Engine{
		fs:        opts.FS,
		poster:    opts.Poster,
		gate:      gate,
		cache:     opts.Cache,
		navigator: opts.Navigator,
		mutator:   newMutator(opts.FS),
		logger:    logging.GetLogger("copier"),
	}
}

// Copy starts copying src into target and returns immediately. onDone
// receives the Result on the Poster's goroutine.
func (e *Engine) Copy(ctx context.Context, src types.ResolvedContext, target types.Root, onDone func(Result)) {
	e.inflight.Add(1)
	go func() {
		defer e.inflight.Done()
		result := e.Run(ctx, src, target)
		e.deliver(onDone, result)
	}()
}

// Wait blocks until every copy started with Copy has posted its result
func (e *Engine) Wait() {
	e.inflight.Wait()
}

// Run performs a copy on the calling goroutine and returns its Result. A
// panic during the copy is reported as a COPY_FAILED result.
func (e *Engine) Run(ctx context.Context, src types.ResolvedContext, target types.Root) (result Result) {
	done := logging.LogOperationStart(e.logger, "copy")
	defer done()
	defer func() {
		if r := recover(); r != nil {
			err := errors.Newf(errors.ErrCopyFailed, "copy aborted: %v", r).
				WithDetail("source", src.SourcePath)
			e.logFailure(err, target, result.IsDir)
			result = Result{IsDir: result.IsDir, Err: err}
		}
	}()

	plan, err := e.Plan(ctx, src, target)
	if err != nil {
		isDir := plan != nil && plan.IsDir
		e.logFailure(err, target, isDir)
		return Result{IsDir: isDir, Err: err}
	}

	var dest string
	err = e.gate.Run(ctx, func() error {
		// The source entry changes state whatever happens below
		defer e.invalidate(src.SourcePath)

		if err := e.execute(ctx, plan); err != nil {
			return err
		}
		verified, err := e.verify(plan)
		if err != nil {
			return err
		}
		dest = verified
		e.invalidate(dest)
		return nil
	})
	if err != nil {
		e.logFailure(err, target, plan.IsDir)
		return Result{IsDir: plan.IsDir, Err: err}
	}

	e.logger.Info().
		Str("source", src.SourcePath).
		Str("dest", dest).
		Str("root", target.Name).
		Str("kind", plan.ItemKind()).
		Int("copied", plan.Count(StepCopy)).
		Int("skipped", plan.Count(StepSkip)).
		Msg("Copied to root")

	if !plan.IsDir {
		e.navigate(ctx, dest)
	}
	return Result{Path: dest, IsDir: plan.IsDir}
}

// Plan probes the destination and returns the steps a copy would run.
// The returned plan is non-nil whenever the source could be inspected.
func (e *Engine) Plan(ctx context.Context, src types.ResolvedContext, target types.Root) (*Plan, error) {
	info, err := e.fs.Stat(src.SourcePath)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot access source").
			WithDetail("path", src.SourcePath)
	}

	rel := filepath.FromSlash(src.RelativePath)
	plan := &Plan{
		Source:   src,
		Target:   target,
		IsDir:    info.IsDir(),
		DestPath: filepath.Join(target.Path, rel),
	}

	if filepath.Clean(src.Root.Path) == filepath.Clean(target.Path) {
		return plan, errors.New(errors.ErrSameRoot, "source is already in the target root").
			WithDetail("root", target.Name)
	}

	rootInfo, err := e.fs.Stat(target.Path)
	if err != nil || !rootInfo.IsDir() {
		return plan, errors.Newf(errors.ErrRootNotFound, "target root '%s' not found", target.Name).
			WithDetail("path", target.Path)
	}

	if err := e.planParents(plan, rel); err != nil {
		return plan, err
	}

	if plan.IsDir {
		err = e.planDir(ctx, plan, src.SourcePath, plan.DestPath, false)
	} else {
		err = e.planFile(plan, src.SourcePath, plan.DestPath)
	}
	if err != nil {
		return plan, err
	}

	e.logger.Debug().Str("plan", plan.String()).Msg("Planned copy")
	return plan, nil
}

// planParents adds mkdir steps for the missing ancestors of the destination
func (e *Engine) planParents(plan *Plan, rel string) error {
	parent := filepath.Dir(rel)
	if parent == "." {
		return nil
	}
	current := plan.Target.Path
	missing := false
	for _, part := range strings.Split(parent, string(filepath.Separator)) {
		current = filepath.Join(current, part)
		if !missing {
			exists, isDir := e.probe(current)
			if exists && !isDir {
				return errors.New(errors.ErrDirCreate, "destination parent exists as a file").
					WithDetail("path", current)
			}
			missing = !exists
		}
		if missing {
			plan.Steps = append(plan.Steps, Step{Kind: StepMkdir, Dest: current})
		}
	}
	return nil
}

func (e *Engine) planFile(plan *Plan, src, dest string) error {
	if exists, _ := e.probe(dest); exists {
		return errors.New(errors.ErrFileCreate, "file already exists in target root").
			WithDetail("path", dest)
	}
	plan.Steps = append(plan.Steps, Step{Kind: StepCopy, Source: src, Dest: dest})
	return nil
}

// planDir merges src into dest. destMissing skips probing below a directory
// that is about to be created.
func (e *Engine) planDir(ctx context.Context, plan *Plan, src, dest string, destMissing bool) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrCopyFailed, "copy cancelled")
	}

	if !destMissing {
		exists, isDir := e.probe(dest)
		if exists && !isDir {
			return errors.New(errors.ErrCopyFailed, "cannot merge directory into an existing file").
				WithDetail("path", dest)
		}
		destMissing = !exists
	}
	if destMissing {
		plan.Steps = append(plan.Steps, Step{Kind: StepMkdir, Dest: dest})
	}

	entries, err := e.fs.ReadDir(src)
	if err != nil {
		return errors.Wrap(err, errors.ErrFileAccess, "cannot read source directory").
			WithDetail("path", src)
	}

	for _, entry := range entries {
		childSrc := filepath.Join(src, entry.Name())
		childDest := filepath.Join(dest, entry.Name())

		if entry.IsDir() {
			if err := e.planDir(ctx, plan, childSrc, childDest, destMissing); err != nil {
				return err
			}
			continue
		}
		if entry.Type()&fs.ModeSymlink != 0 {
			if info, err := e.fs.Stat(childSrc); err == nil && info.IsDir() {
				e.logger.Debug().Str("path", childSrc).Msg("Not following directory symlink")
				continue
			}
		}

		if !destMissing {
			if exists, _ := e.probe(childDest); exists {
				plan.Steps = append(plan.Steps, Step{Kind: StepSkip, Source: childSrc, Dest: childDest})
				continue
			}
		}
		plan.Steps = append(plan.Steps, Step{Kind: StepCopy, Source: childSrc, Dest: childDest})
	}
	return nil
}

// execute runs the plan through the mutator. Each step re-checks the
// destination: directories that already exist are reused, and files that
// appeared since planning are kept (directory merge) or reported as a
// collision (single file).
func (e *Engine) execute(ctx context.Context, plan *Plan) error {
	for i, step := range plan.Steps {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.ErrCopyFailed, "copy cancelled")
		}

		switch step.Kind {
		case StepSkip:
			continue

		case StepMkdir:
			if exists, isDir := e.probe(step.Dest); exists {
				if isDir {
					continue
				}
				return errors.New(errors.ErrDirCreate, "directory path exists as a file").
					WithDetail("path", step.Dest)
			}

		case StepCopy:
			if exists, _ := e.probe(step.Dest); exists {
				if !plan.IsDir {
					return errors.New(errors.ErrFileCreate, "file already exists in target root").
						WithDetail("path", step.Dest)
				}
				e.logger.Debug().Str("path", step.Dest).Msg("Destination appeared after planning, keeping it")
				continue
			}
		}

		if err := e.mutator.apply(ctx, i, step); err != nil {
			return err
		}
	}
	return nil
}

// verify looks up the destination, refreshing the target root and retrying
// once when the first lookup misses
func (e *Engine) verify(plan *Plan) (string, error) {
	if exists, _ := e.probe(plan.DestPath); exists {
		return plan.DestPath, nil
	}

	if refresher, ok := e.fs.(types.Refresher); ok {
		e.logger.Debug().Str("path", plan.DestPath).Msg("Destination not visible, refreshing")
		if err := refresher.Refresh(plan.Target.Path); err != nil {
			e.logger.Debug().Err(err).Str("root", plan.Target.Path).Msg("Refresh failed")
		}
		if exists, _ := e.probe(plan.DestPath); exists {
			return plan.DestPath, nil
		}
	}

	return "", errors.New(errors.ErrVerificationMiss, "copied entry not found at destination").
		WithDetail("path", plan.DestPath)
}

func (e *Engine) navigate(ctx context.Context, path string) {
	if e.navigator == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn().
				Err(errors.Newf(errors.ErrNavigation, "navigator panicked: %v", r)).
				Str("path", path).
				Msg("Copy succeeded but the file could not be opened")
		}
	}()
	if err := e.navigator.Navigate(ctx, path); err != nil {
		e.logger.Warn().
			Err(errors.Wrap(err, errors.ErrNavigation, "failed to open copied file")).
			Str("path", path).
			Msg("Copy succeeded but the file could not be opened")
	}
}

func (e *Engine) deliver(onDone func(Result), result Result) {
	if onDone == nil {
		return
	}
	if e.poster == nil || !e.poster.Post(func() { onDone(result) }) {
		e.logger.Warn().
			Str("path", result.Path).
			Msg("Dispatcher unavailable, copy result dropped")
	}
}

func (e *Engine) invalidate(path string) {
	if e.cache != nil && path != "" {
		e.cache.Invalidate(path)
	}
}

func (e *Engine) probe(path string) (exists, isDir bool) {
	info, err := e.fs.Stat(path)
	if err != nil {
		return false, false
	}
	return true, info.IsDir()
}

func (e *Engine) logFailure(err error, target types.Root, isDir bool) {
	e.logger.Warn().
		Err(err).
		Str("code", string(errors.GetErrorCode(err))).
		Str("root", target.Name).
		Str("kind", itemKind(isDir)).
		Msgf("Failed to copy %s to root '%s'", itemKind(isDir), target.Name)
}
