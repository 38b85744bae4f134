package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/gnoswap-labs/fitch/internal/types"
)

// ProofExt is the extension of proof files.
const ProofExt = ".aprf"

// settle is how long the watcher waits after a write before checking, so
// that an editor saving in several writes is seen once.
const settle = 100 * time.Millisecond

// Runner checks a single file.
type Runner interface {
	Run(filename string) ([]tt.Issue, error)
}

// Result is the outcome of re-checking one file.
type Result struct {
	Filename string
	Issues   []tt.Issue
	Err      error
}

// Watcher re-checks proof files as they are written.
type Watcher struct {
	runner  Runner
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	results chan Result
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// NewWatcher watches dirs and their subdirectories. Results are delivered
// on Results until Close is called.
func NewWatcher(runner Runner, logger *zap.Logger, dirs ...string) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating watcher: %w", err)
	}

	w := &Watcher{
		runner:  runner,
		watcher: fw,
		logger:  logger,
		results: make(chan Result),
		done:    make(chan struct{}),
	}
	for _, dir := range dirs {
		if err := w.addTree(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	w.wg.Add(1)
	go w.watchLoop()
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

// Results returns the channel results are delivered on. It is closed by Close.
func (w *Watcher) Results() <-chan Result {
	return w.results
}

// Close stops watching and waits for the watch loop to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
		close(w.results)
	})
	return err
}

func (w *Watcher) watchLoop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFileEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleFileEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("cannot watch new directory", zap.String("dir", event.Name), zap.Error(err))
			}
			return
		}
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !strings.HasSuffix(event.Name, ProofExt) {
		return
	}

	select {
	case <-time.After(settle):
	case <-w.done:
		return
	}

	issues, err := w.runner.Run(event.Name)
	w.logger.Debug("checked",
		zap.String("file", event.Name),
		zap.Int("issues", len(issues)),
		zap.Error(err))

	select {
	case w.results <- Result{Filename: event.Name, Issues: issues, Err: err}:
	case <-w.done:
	}
}
