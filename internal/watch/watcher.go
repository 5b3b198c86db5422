// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Config.Debounce is not positive.
const DefaultDebounce = 500 * time.Millisecond

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

// defaultIgnores are never reported, on top of Config.Ignore.
var defaultIgnores = []string{
	"**/.git/**",
	"**/.hg/**",
	"**/*.swp",
	"**/*.swx",
	"**/*~",
	"**/.#*",
}

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Root is the directory watched recursively. Empty means the working directory.
		Root string

		// Patterns are doublestar globs relative to Root selecting the files
		// that trigger OnChange. No patterns means every file.
		Patterns []string

		// Ignore are doublestar globs relative to Root that never trigger.
		Ignore []string

		// Exclude are files that never trigger, typically the bundle output.
		// Relative paths are resolved against Root.
		Exclude []string

		// Debounce is the quiet period after the last event before OnChange runs.
		Debounce time.Duration

		// OnChange receives the sorted, root-relative paths changed during the
		// window. Errors are logged and do not stop the watcher.
		OnChange func(ctx context.Context, changed []string) error

		// Logger receives watcher diagnostics. nil discards them.
		Logger *log.Logger
	}

	// Watcher monitors Root and fires OnChange. Run may be called once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		root     string
		ignores  []string
		exclude  map[string]struct{}
		debounce time.Duration
		logger   *log.Logger
		started  atomic.Bool
	}

	// batcher accumulates changed paths and fires the callback once the
	// debounce window closes. At most one callback runs at a time.
	batcher struct {
		w       *Watcher
		ctx     context.Context
		mu      sync.Mutex
		pending map[string]struct{}
		timer   *time.Timer
		busy    atomic.Bool
	}
)

// New validates cfg and registers every non-ignored directory under Root.
func New(cfg Config) (*Watcher, error) {
	root := cfg.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		root = wd
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve root: %w", err)
	}

	if err := validatePatterns(cfg.Patterns, "watch"); err != nil {
		return nil, err
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		return nil, err
	}

	exclude := make(map[string]struct{}, len(cfg.Exclude))
	for _, p := range cfg.Exclude {
		if !filepath.IsAbs(p) {
			p = filepath.Join(absRoot, p)
		}
		exclude[filepath.Clean(p)] = struct{}{}
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		root:     absRoot,
		ignores:  slices.Concat(defaultIgnores, cfg.Ignore),
		exclude:  exclude,
		debounce: debounce,
		logger:   logger,
	}

	if err := w.addDirectories(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Warn("close watcher after init failure", "err", closeErr)
		}
		return nil, err
	}
	return w, nil
}

// Root returns the absolute watched directory.
func (w *Watcher) Root() string {
	return w.root
}

// Run processes events until ctx is cancelled, returning nil then. Fatal
// fsnotify errors end the watch with an error.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	b := &batcher{w: w, ctx: ctx, pending: make(map[string]struct{})}
	defer func() {
		b.stop()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close fsnotify watcher", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}
			if rel, ok := w.relevant(evt.Name); ok {
				w.logger.Debug("file changed", "path", rel, "op", evt.Op.String())
				b.add(rel)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

// relevant maps an event path to its root-relative form when it should be reported.
func (w *Watcher) relevant(path string) (string, bool) {
	if _, excluded := w.exclude[filepath.Clean(path)]; excluded {
		return "", false
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if w.isIgnored(rel) || !w.matchesPatterns(rel) {
		return "", false
	}
	return rel, true
}

func (b *batcher) add(rel string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[rel] = struct{}{}
	if b.timer == nil {
		b.timer = time.AfterFunc(b.w.debounce, b.fire)
	} else {
		b.timer.Reset(b.w.debounce)
	}
}

// fire runs on the timer goroutine. When the previous callback is still
// running the batch is retried after another debounce period.
func (b *batcher) fire() {
	if b.ctx.Err() != nil {
		return
	}
	if !b.busy.CompareAndSwap(false, true) {
		b.w.logger.Debug("previous run still in progress, deferring")
		b.mu.Lock()
		b.timer.Reset(b.w.debounce)
		b.mu.Unlock()
		return
	}
	defer b.busy.Store(false)

	b.mu.Lock()
	changed := slices.Sorted(maps.Keys(b.pending))
	clear(b.pending)
	b.mu.Unlock()

	if len(changed) == 0 || b.w.cfg.OnChange == nil {
		return
	}
	if err := b.w.cfg.OnChange(b.ctx, changed); err != nil {
		b.w.logger.Error("change handler failed", "err", err)
	}
}

func (b *batcher) stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
	}
}

// addDirectories registers every non-ignored directory under the root.
// Pattern filtering happens per event.
func (w *Watcher) addDirectories() error {
	err := filepath.WalkDir(w.root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			w.logger.Warn("skipping inaccessible path", "path", path, "err", walkErr)
			return nil //nolint:nilerr // unreadable directories are not watched
		}
		if !d.IsDir() {
			return nil
		}
		if w.dirIgnored(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: walk directory tree: %w", err)
	}
	return nil
}

// maybeAddDir extends the watch to directories created after startup.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || w.dirIgnored(path) {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.logger.Warn("add new directory", "path", path, "err", err)
	}
}

func (w *Watcher) dirIgnored(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return true
	}
	rel = filepath.ToSlash(rel)
	return w.isIgnored(rel) || w.isIgnored(rel+"/")
}

func (w *Watcher) isIgnored(rel string) bool {
	return matchAny(w.ignores, rel)
}

func (w *Watcher) matchesPatterns(rel string) bool {
	return len(w.cfg.Patterns) == 0 || matchAny(w.cfg.Patterns, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if doublestar.MatchUnvalidated(pat, rel) {
			return true
		}
	}
	return false
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q: %w", label, pat, doublestar.ErrBadPattern)
		}
	}
	return nil
}
