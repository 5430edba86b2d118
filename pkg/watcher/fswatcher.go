package watcher

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/arthur-debert/brandsync/pkg/errors"
	"github.com/arthur-debert/brandsync/pkg/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const (
	// DefaultDebounce is used when Options.Debounce is zero
	DefaultDebounce = 200 * time.Millisecond
	// DefaultQueueSize is used when Options.QueueSize is not positive
	DefaultQueueSize = 64
)

// skippedDirs are never watched below a root
var skippedDirs = map[string]bool{
	"node_modules": true,
}

// Options configures an FSWatcher
type Options struct {
	// BaseDir holds the roots
	BaseDir string

	// Prefix selects which children of BaseDir are watched recursively
	Prefix string

	// Debounce is the quiet period that ends a batch
	Debounce time.Duration

	// QueueSize bounds the number of undelivered batches
	QueueSize int
}

// FSWatcher is a Source backed by fsnotify
type FSWatcher struct {
	opts    Options
	watcher *fsnotify.Watcher
	batches chan Batch
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	logger  zerolog.Logger
}

// NewFSWatcher starts watching opts.BaseDir
func NewFSWatcher(opts Options) (*FSWatcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	base, err := filepath.Abs(opts.BaseDir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrWatch, "cannot make base directory absolute").
			WithDetail("path", opts.BaseDir)
	}
	opts.BaseDir = base

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrWatch, "failed to create fsnotify watcher")
	}

	w := &FSWatcher{
		opts:    opts,
		watcher: watcher,
		batches: make(chan Batch, opts.QueueSize),
		done:    make(chan struct{}),
		logger:  logging.GetLogger("watcher"),
	}

	if err := watcher.Add(base); err != nil {
		_ = watcher.Close()
		return nil, errors.Wrap(err, errors.ErrWatch, "failed to watch base directory").
			WithDetail("path", base)
	}
	entries, err := os.ReadDir(base)
	if err != nil {
		_ = watcher.Close()
		return nil, errors.Wrap(err, errors.ErrWatch, "cannot read base directory").
			WithDetail("path", base)
	}
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), opts.Prefix) {
			w.addRecursive(filepath.Join(base, entry.Name()))
		}
	}

	w.wg.Add(1)
	go w.loop()

	w.logger.Debug().Str("baseDir", base).Msg("Watching for changes")
	return w, nil
}

// Batches implements Source
func (w *FSWatcher) Batches() <-chan Batch {
	return w.batches
}

// Close stops watching. It is safe to call more than once.
func (w *FSWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
		close(w.batches)
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrWatch, "failed to close watcher")
	}
	return nil
}

func (w *FSWatcher) loop() {
	defer w.wg.Done()

	var pending Batch
	timer := time.NewTimer(w.opts.Debounce)
	timer.Stop()

	for {
		select {
		case <-w.done:
			timer.Stop()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) && w.shouldWatch(event.Name) {
				w.addRecursive(event.Name)
			}
			pending = append(pending, Event{Path: event.Name, Op: opFromFsnotify(event.Op)})
			timer.Reset(w.opts.Debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("Watcher error")

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			select {
			case w.batches <- pending:
				w.logger.Trace().Int("events", len(pending)).Msg("Delivered change batch")
				pending = nil
			default:
				// Consumer is behind; keep accumulating and retry after the next window
				timer.Reset(w.opts.Debounce)
			}
		}
	}
}

// shouldWatch reports whether a newly created path is a directory inside a root
func (w *FSWatcher) shouldWatch(path string) bool {
	rel, err := filepath.Rel(w.opts.BaseDir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	top := strings.SplitN(filepath.ToSlash(rel), "/", 2)[0]
	if !strings.HasPrefix(top, w.opts.Prefix) {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// addRecursive adds dir and every directory below it, skipping hidden and
// dependency directories
func (w *FSWatcher) addRecursive(dir string) {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != dir && (strings.HasPrefix(name, ".") || skippedDirs[name]) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Debug().Err(err).Str("path", path).Msg("Cannot watch directory")
		}
		return nil
	})
	if err != nil {
		w.logger.Debug().Err(err).Str("path", dir).Msg("Walk failed")
	}
}
