package brand

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/brandsync/pkg/copier"
	"github.com/arthur-debert/brandsync/pkg/dispatcher"
	"github.com/arthur-debert/brandsync/pkg/errors"
	"github.com/arthur-debert/brandsync/pkg/logging"
	"github.com/arthur-debert/brandsync/pkg/roots"
	"github.com/arthur-debert/brandsync/pkg/statecache"
	"github.com/arthur-debert/brandsync/pkg/types"
	"github.com/arthur-debert/brandsync/pkg/watcher"
	"github.com/rs/zerolog"
)

// Options configures a Service
type Options struct {
	// BaseDir holds the roots
	BaseDir string

	// FS is the filesystem all components work through
	FS types.FS

	// Layout is the naming contract. The zero value selects types.DefaultLayout.
	Layout types.Layout

	// CacheSize bounds the state cache. Non-positive selects the default.
	CacheSize int

	// Source delivers change notifications. Without one the cache is only
	// invalidated by copies and explicit calls.
	Source watcher.Source

	// OnChange is posted to the dispatcher after a root related batch has
	// invalidated the cache
	OnChange func(watcher.Batch)

	// Navigator opens single files after a successful copy
	Navigator copier.Navigator
}

// Service answers cross-root queries and runs copies for one base directory
type Service struct {
	baseDir    string
	fs         types.FS
	layout     types.Layout
	classifier *roots.Classifier
	cache      *statecache.Cache
	dispatcher *dispatcher.Dispatcher
	engine     *copier.Engine
	sub        *watcher.Subscription

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
	logger    zerolog.Logger
}

// New creates a Service and starts its dispatcher and subscription
func New(opts Options) (*Service, error) {
	if opts.FS == nil {
		return nil, errors.New(errors.ErrInvalidInput, "filesystem is required")
	}
	base := opts.BaseDir
	if base != "" {
		abs, err := filepath.Abs(base)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInvalidInput, "cannot make base directory absolute").
				WithDetail("path", base)
		}
		base = abs
	}
	layout := opts.Layout
	if layout.Prefix == "" {
		layout = types.DefaultLayout()
	}

	s := &Service{
		baseDir:    base,
		fs:         opts.FS,
		layout:     layout,
		classifier: roots.NewClassifier(opts.FS, layout),
		dispatcher: dispatcher.New(),
		logger:     logging.GetLogger("brand"),
	}

	cache, err := statecache.New(opts.FS, s.Roots, opts.CacheSize)
	if err != nil {
		s.dispatcher.Close()
		return nil, err
	}
	s.cache = cache

	s.engine = copier.New(copier.Options{
		FS:        opts.FS,
		Poster:    s.dispatcher,
		Gate:      copier.NewMutationGate(),
		Cache:     cache,
		Navigator: opts.Navigator,
	})

	if opts.Source != nil {
		onChange := opts.OnChange
		s.sub = watcher.Subscribe(opts.Source, layout.Prefix, func(batch watcher.Batch) {
			s.cache.InvalidateAll()
			if onChange != nil {
				s.dispatcher.Post(func() { onChange(batch) })
			}
		})
	}

	s.logger.Debug().
		Str("baseDir", base).
		Bool("watching", s.sub != nil).
		Msg("Service started")
	return s, nil
}

// BaseDir returns the absolute base directory
func (s *Service) BaseDir() string {
	return s.baseDir
}

// Layout returns the naming contract in use
func (s *Service) Layout() types.Layout {
	return s.layout
}

// Roots classifies the base directory. The result is recomputed on every call.
func (s *Service) Roots() []types.Root {
	return s.classifier.Classify(s.baseDir)
}

// FindRootByName returns the root with the exact directory name
func (s *Service) FindRootByName(name string) (types.Root, error) {
	root, ok := roots.FindByName(s.Roots(), name)
	if !ok {
		return types.Root{}, errors.Newf(errors.ErrRootNotFound, "target folder '%s' not found", name).
			WithDetail("root", name)
	}
	return root, nil
}

// Resolve locates path in the current roots
func (s *Service) Resolve(path string) (types.ResolvedContext, error) {
	return roots.Resolve(path, s.Roots())
}

// States returns the cached per-root state of ctx's relative path
func (s *Service) States(ctx types.ResolvedContext) []types.RootState {
	return s.cache.States(ctx)
}

// StatesFor resolves path and returns its states
func (s *Service) StatesFor(path string) ([]types.RootState, error) {
	ctx, err := s.Resolve(path)
	if err != nil {
		return nil, err
	}
	return s.States(ctx), nil
}

// InvalidateAll drops every cached state
func (s *Service) InvalidateAll() {
	s.cache.InvalidateAll()
}

// Invalidate drops the cached state of one source path
func (s *Service) Invalidate(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	s.cache.Invalidate(abs)
}

// Post runs fn on the dispatcher goroutine, after every callback already
// queued. It reports false once the service is closed.
func (s *Service) Post(fn func()) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	return s.dispatcher.Post(fn)
}

// Copy starts copying src into the root named targetName. onDone always
// receives the outcome on the dispatcher goroutine; an unknown target is
// reported there too. The only synchronous error is a closed service.
func (s *Service) Copy(ctx context.Context, src types.ResolvedContext, targetName string, onDone func(copier.Result)) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errors.New(errors.ErrClosed, "service is closed")
	}

	target, err := s.FindRootByName(targetName)
	if err != nil {
		s.logger.Warn().Err(err).Str("root", targetName).Msg("Copy target not found")
		if onDone != nil {
			s.dispatcher.Post(func() { onDone(copier.Result{Err: err}) })
		}
		return nil
	}

	s.engine.Copy(ctx, src, target, onDone)
	return nil
}

// CopyPath validates a copy of path into targetName and starts it. Validation
// failures are returned synchronously and nothing is started.
func (s *Service) CopyPath(ctx context.Context, path, targetName string, onDone func(copier.Result)) error {
	src, _, err := s.PrepareCopy(path, targetName)
	if err != nil {
		return err
	}
	return s.Copy(ctx, src, targetName, onDone)
}

// Plan returns the steps a copy of path into targetName would run
func (s *Service) Plan(ctx context.Context, path, targetName string) (*copier.Plan, error) {
	src, target, err := s.PrepareCopy(path, targetName)
	if err != nil {
		return nil, err
	}
	return s.engine.Plan(ctx, src, target)
}

// Close stops the subscription, waits for in-flight copies, drains the
// dispatcher and purges the cache. It is safe to call more than once.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.sub != nil {
			err = s.sub.Stop()
		}

		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		s.engine.Wait()
		s.dispatcher.Close()
		s.cache.InvalidateAll()

		s.logger.Debug().Msg("Service closed")
	})
	return err
}
