package artifact

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

var errWatcherStopped = errors.New("watcher stopped")

// Builder is the part of Orchestrator the Watcher drives.
type Builder interface {
	Build(ctx context.Context) (*Artifact, error)
}

// BuildFunc receives the outcome of every watcher-triggered build.
type BuildFunc func(*Artifact, error)

// Watcher rebuilds the artifact when companion sources change.
//
// Rapid saves are coalesced: a build starts once no relevant event has
// arrived for the debounce interval.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	builder  Builder
	onBuild  BuildFunc
	dirs     []string
	debounce time.Duration
	log      *zap.Logger

	pending   bool
	lastEvent time.Time

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
	closed  bool
	builds  int
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet interval before a rebuild.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithWatchLogger sets the watcher's logger.
func WithWatchLogger(l *zap.Logger) WatcherOption {
	return func(w *Watcher) { w.log = l }
}

// NewWatcher watches dirs (recursively) and calls b.Build on change,
// reporting each result to onBuild (which may be nil).
func NewWatcher(b Builder, dirs []string, onBuild BuildFunc, opts ...WatcherOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher:  fw,
		builder:  b,
		onBuild:  onBuild,
		dirs:     dirs,
		debounce: 300 * time.Millisecond,
		log:      zap.NewNop(),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// WatchDirs returns the directories among cfg.Sources, resolved against
// root. Plain files are watched through their parent directory.
func WatchDirs(cfg Config, root string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, src := range cfg.Sources {
		p := filepath.Join(root, filepath.FromSlash(src))
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			p = filepath.Dir(p)
		}
		if !seen[p] {
			seen[p] = true
			dirs = append(dirs, p)
		}
	}
	return dirs
}

// Start begins watching. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return errWatcherStopped
	}
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	for _, dir := range w.dirs {
		if err := w.addTree(dir); err != nil {
			w.log.Warn("watch failed", zap.String("dir", dir), zap.Error(err))
		}
	}

	go w.run(ctx)
	return nil
}

// Stop stops the watcher, waits for its goroutine to exit, and releases
// the fsnotify handle. It is safe to call on a watcher that was never
// started, and more than once. A stopped watcher cannot be restarted.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}

	if err := w.watcher.Close(); err != nil {
		w.log.Error("error closing watcher", zap.Error(err))
	}
}

// Builds returns the number of builds the watcher has triggered.
func (w *Watcher) Builds() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.builds
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounce / 4
	if tick <= 0 {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("watch error", zap.Error(err))
		case <-ticker.C:
			w.maybeBuild(ctx)
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				w.log.Warn("watch failed", zap.String("dir", ev.Name), zap.Error(err))
			}
			return
		}
	}
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	if !relevant(ev.Name) {
		return
	}

	w.log.Debug("source changed", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
	w.mu.Lock()
	w.pending = true
	w.lastEvent = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) maybeBuild(ctx context.Context) {
	w.mu.Lock()
	if !w.pending || time.Since(w.lastEvent) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.pending = false
	w.builds++
	w.mu.Unlock()

	art, err := w.builder.Build(ctx)
	if err != nil {
		w.log.Error("rebuild failed", zap.Error(err))
	}
	if w.onBuild != nil {
		w.onBuild(art, err)
	}
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (d.Name() == "testdata" || strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

// relevant reports whether a change to name can affect the artifact.
func relevant(name string) bool {
	base := filepath.Base(name)
	if base == "go.mod" || base == "go.sum" {
		return true
	}
	if strings.HasSuffix(base, "_test.go") {
		return false
	}
	return sourceExts[filepath.Ext(base)]
}
