package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"imgsort/internal/log"

	"github.com/fsnotify/fsnotify"
)

// FileModification represents a change to the set of files in a watched
// directory.
type FileModification struct {
	Path      string
	Timestamp time.Time
	Op        fsnotify.Op
}

// Name returns the base name of the changed file.
func (m FileModification) Name() string {
	return filepath.Base(m.Path)
}

// Filter decides whether a file name is relevant. A nil Filter accepts all.
type Filter func(name string) bool

// Extensions returns a Filter accepting names with one of exts.
func Extensions(exts []string) Filter {
	return func(name string) bool {
		return slices.Contains(exts, filepath.Ext(name))
	}
}

// Watcher monitors directories for files appearing or disappearing, which is
// what changes a catalog listing. Plain writes are ignored.
type Watcher struct {
	directories []string
	filter      Filter

	fileModChan chan FileModification
	stopChan    chan struct{}
	done        chan struct{}

	fsWatcher *fsnotify.Watcher

	mutex   sync.RWMutex
	running bool
	closed  bool
}

// New creates a new directory watcher using fsnotify
func New(filter Filter) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		directories: []string{},
		filter:      filter,
		fileModChan: make(chan FileModification, 32),
		stopChan:    make(chan struct{}),
		done:        make(chan struct{}),
		fsWatcher:   fsWatcher,
	}, nil
}

// AddDirectory adds a directory to watch using fsnotify
func (w *Watcher) AddDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}

	w.mutex.Lock()
	if !slices.Contains(w.directories, dir) {
		w.directories = append(w.directories, dir)
	}
	w.mutex.Unlock()
	log.LogWithFields(log.F("directory", dir)).Debug("Watching directory")
	return nil
}

// RemoveDirectory stops watching dir.
func (w *Watcher) RemoveDirectory(dir string) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	i := slices.Index(w.directories, dir)
	if i < 0 {
		return nil
	}
	w.directories = slices.Delete(w.directories, i, i+1)
	if err := w.fsWatcher.Remove(dir); err != nil {
		return fmt.Errorf("failed to remove directory %s from watcher: %w", dir, err)
	}
	return nil
}

// Retarget replaces every watched directory with dir. An invalid dir leaves
// nothing watched and returns the error.
func (w *Watcher) Retarget(dir string) error {
	for _, old := range w.GetDirectories() {
		if old == dir {
			continue
		}
		if err := w.RemoveDirectory(old); err != nil {
			log.LogWithError(err).Warn("failed to stop watching directory")
		}
	}
	return w.AddDirectory(dir)
}

// FileChannel returns the channel that delivers file modification events.
// It is closed once the watcher stops.
func (w *Watcher) FileChannel() <-chan FileModification {
	return w.fileModChan
}

// Start begins the file watching process using fsnotify
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.closed {
		return fmt.Errorf("watcher is closed")
	}
	if w.running {
		return fmt.Errorf("watcher already running")
	}
	w.running = true

	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer close(w.fileModChan)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if mod, ok := w.translate(event); ok {
				select {
				case w.fileModChan <- mod:
				default:
					log.LogWithFields(log.F("file", event.Name)).Warn("Event channel is full, dropped event")
				}
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-w.stopChan:
			return
		}
	}
}

// translate keeps create, remove and rename events for relevant files.
func (w *Watcher) translate(event fsnotify.Event) (FileModification, bool) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return FileModification{}, false
	}
	if w.filter != nil && !w.filter(filepath.Base(event.Name)) {
		return FileModification{}, false
	}
	if event.Op.Has(fsnotify.Create) {
		info, err := os.Stat(event.Name)
		if err != nil || info.IsDir() {
			return FileModification{}, false
		}
	}
	return FileModification{
		Path:      event.Name,
		Timestamp: time.Now(),
		Op:        event.Op,
	}, true
}

// Close stops the event loop when it runs and releases the fsnotify
// watcher, started or not. The file channel is closed afterwards. Calling
// Close again is a no-op.
func (w *Watcher) Close() error {
	w.mutex.Lock()
	if w.closed {
		w.mutex.Unlock()
		return nil
	}
	w.closed = true
	wasRunning := w.running
	w.running = false
	if wasRunning {
		close(w.stopChan)
	}
	err := w.fsWatcher.Close()
	w.mutex.Unlock()

	if wasRunning {
		<-w.done
	} else {
		close(w.fileModChan)
	}
	return err
}

// Stop halts the file watching process and waits for the event loop to exit.
func (w *Watcher) Stop() {
	if err := w.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// GetDirectories returns the list of directories being watched
func (w *Watcher) GetDirectories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return slices.Clone(w.directories)
}
