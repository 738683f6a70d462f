// Package watch observes the workshop cache for newly downloaded maps so
// they can be unlocked as they land.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bonsaibauer/stronghold-map-unlocker/internal/workshop"
)

// DefaultInterval is how long events are batched before candidates are
// reported. Steam writes a downloaded map in several bursts; the delay
// keeps half-written files from being picked up.
const DefaultInterval = 500 * time.Millisecond

// Watcher reports new map files appearing under a workshop root.
type Watcher struct {
	fs       *fsnotify.Watcher
	root     string
	interval time.Duration
	onMaps   func([]workshop.Candidate)

	mu   sync.Mutex
	seen map[string]struct{}

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New creates a watcher for root. onMaps is called from the watch loop with
// each batch of newly appeared candidates; it must therefore do its own
// long work quickly or hand off, since the loop runs candidates strictly
// one batch at a time.
func New(root string, interval time.Duration, onMaps func([]workshop.Candidate)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Watcher{
		fs:       fsw,
		root:     root,
		interval: interval,
		onMaps:   onMaps,
		seen:     make(map[string]struct{}),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start registers the root and its existing item folders and runs the watch
// loop. fsnotify does not recurse, so the two levels the workshop layout
// uses are added explicitly; folders created later are added as their
// create events arrive.
func (w *Watcher) Start() error {
	if err := w.fs.Add(w.root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.root, err)
	}

	entries, err := os.ReadDir(w.root)
	if err != nil {
		return fmt.Errorf("failed to read workshop root: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		itemDir := filepath.Join(w.root, entry.Name())
		w.fs.Add(itemDir)
		subs, err := os.ReadDir(itemDir)
		if err != nil {
			continue
		}
		for _, sub := range subs {
			if sub.IsDir() {
				w.fs.Add(filepath.Join(itemDir, sub.Name()))
			}
		}
	}

	// Everything already present is known; only report what appears later.
	w.mu.Lock()
	for _, c := range workshop.Scan(w.root) {
		w.seen[c.SourcePath] = struct{}{}
	}
	w.mu.Unlock()

	go w.loop()
	return nil
}

// Stop shuts the watcher down and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.fs.Close()
		<-w.doneCh
	})
}

func (w *Watcher) loop() {
	defer close(w.doneCh)

	pending := make(map[string]struct{})
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				w.addDir(event.Name)
				continue
			}
			if workshop.IsMapFile(event.Name) {
				pending[event.Name] = struct{}{}
			}

		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}

		case <-ticker.C:
			if len(pending) == 0 {
				continue
			}
			batch := w.collect(pending)
			pending = make(map[string]struct{})
			if len(batch) > 0 && w.onMaps != nil {
				w.onMaps(batch)
			}
		}
	}
}

// addDir starts watching a newly created folder, but only within the two
// levels the workshop layout uses.
func (w *Watcher) addDir(dir string) {
	rel, err := filepath.Rel(w.root, dir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return
	}
	if depth := len(strings.Split(rel, string(filepath.Separator))); depth > 2 {
		return
	}
	w.fs.Add(dir)
}

// collect turns pending paths into candidates, dropping anything already
// reported or no longer present.
func (w *Watcher) collect(pending map[string]struct{}) []workshop.Candidate {
	w.mu.Lock()
	defer w.mu.Unlock()

	var batch []workshop.Candidate
	for path := range pending {
		if _, dup := w.seen[path]; dup {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		w.seen[path] = struct{}{}
		batch = append(batch, candidateFor(w.root, path))
	}

	sort.Slice(batch, func(i, j int) bool {
		return batch[i].SourcePath < batch[j].SourcePath
	})
	return batch
}

func candidateFor(root, path string) workshop.Candidate {
	nested := false
	if rel, err := filepath.Rel(root, path); err == nil {
		nested = len(strings.Split(rel, string(filepath.Separator))) >= 3
	}
	return workshop.Candidate{
		SourcePath:  path,
		DisplayName: filepath.Base(path),
		Nested:      nested,
	}
}
