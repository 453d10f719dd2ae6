// Package watch queues .glb files as they appear in a directory and drains
// the queue after each arrival.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driving"
	"github.com/custodia-labs/pipe3d/internal/logger"
)

// DefaultSettle is how long a file must stay unchanged before it is queued.
const DefaultSettle = 500 * time.Millisecond

// Option configures a Watcher.
type Option func(*Watcher)

// WithSettle overrides DefaultSettle.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// WithExisting queues the .glb files already in the directory on start.
func WithExisting(v bool) Option {
	return func(w *Watcher) { w.existing = v }
}

// WithOnQueued registers a callback for every item the watcher queues.
func WithOnQueued(fn func(domain.ConversionItem)) Option {
	return func(w *Watcher) { w.onQueued = fn }
}

// Watcher feeds a directory into a conversion queue.
type Watcher struct {
	dir      string
	queue    driving.ConversionQueue
	settle   time.Duration
	existing bool
	onQueued func(domain.ConversionItem)
}

// New creates a watcher for dir.
func New(dir string, queue driving.ConversionQueue, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		queue:    queue,
		settle:   DefaultSettle,
		onQueued: func(domain.ConversionItem) {},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx ends. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	drain := make(chan struct{}, 1)
	kick := func() {
		select {
		case drain <- struct{}{}:
		default:
		}
	}

	if w.existing {
		if w.queueExisting(ctx) > 0 {
			kick()
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.drainLoop(gctx, drain) })
	g.Go(func() error { return w.eventLoop(gctx, fw, kick) })
	return g.Wait()
}

func (w *Watcher) drainLoop(ctx context.Context, drain <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-drain:
			err := w.queue.ProcessAll(ctx)
			switch {
			case err == nil, errors.Is(err, domain.ErrQueueBusy):
			case ctx.Err() != nil:
				return nil
			default:
				logger.L().Warn("drain failed", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) eventLoop(ctx context.Context, fw *fsnotify.Watcher, kick func()) error {
	ready := make(chan string)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !domain.IsGLB(event.Name) {
				continue
			}
			if t, ok := timers[event.Name]; ok {
				// A fired timer is already delivering the path.
				if t.Stop() {
					t.Reset(w.settle)
				}
				continue
			}
			path := event.Name
			timers[path] = time.AfterFunc(w.settle, func() {
				select {
				case ready <- path:
				case <-ctx.Done():
				}
			})

		case path := <-ready:
			delete(timers, path)
			if w.queueFile(ctx, path) {
				kick()
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.L().Warn("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) queueExisting(ctx context.Context) int {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		logger.L().Warn("listing directory", zap.String("dir", w.dir), zap.Error(err))
		return 0
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() || !domain.IsGLB(e.Name()) {
			continue
		}
		if w.queueFile(ctx, filepath.Join(w.dir, e.Name())) {
			n++
		}
	}
	return n
}

func (w *Watcher) queueFile(ctx context.Context, path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		// Removed or renamed before it settled.
		logger.L().Debug("skipping file", zap.String("path", path), zap.Error(err))
		return false
	}
	item, err := w.queue.Enqueue(ctx, domain.SourceFile{Name: filepath.Base(path), Data: data})
	if err != nil {
		logger.L().Warn("queueing file", zap.String("path", path), zap.Error(err))
		return false
	}
	logger.Debug("queued %s as %s", item.Source.Name, item.ID)
	w.onQueued(item)
	return true
}
