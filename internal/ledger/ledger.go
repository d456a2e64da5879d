// Package ledger records in-progress annotations for a directory and keeps
// them in a durable JSON document.
package ledger

import (
	"imgsort/internal/errors"
	"imgsort/internal/log"
)

// Ledger is the in-memory mirror of the annotations for one directory, backed
// by a Store.
type Ledger struct {
	store     Store
	directory string
	state     State
}

// New returns an empty ledger for directory.
func New(store Store, directory string) *Ledger {
	return &Ledger{store: store, directory: directory}
}

// Store returns the backing store.
func (l *Ledger) Store() Store {
	return l.store
}

// Directory returns the directory the annotations belong to.
func (l *Ledger) Directory() string {
	return l.directory
}

// State returns the current annotations.
func (l *Ledger) State() State {
	return l.state
}

// Len returns the number of annotations.
func (l *Ledger) Len() int {
	return l.state.Len()
}

// Snapshot returns the document the ledger persists.
func (l *Ledger) Snapshot() *Document {
	return NewDocument(l.directory, l.state.Files())
}

// Annotate records label for file and merge-writes the whole snapshot.
// The in-memory entry is kept even when the write fails.
func (l *Ledger) Annotate(file, label string) error {
	l.state = l.state.Annotate(file, label)
	if err := l.store.Merge(l.Snapshot()); err != nil {
		return errors.Wrapf(err, "failed to persist annotation for %s", file)
	}
	log.LogWithFields(log.F("file", file), log.F("label", label)).Debug("annotated")
	return nil
}

// ResetAll stores an empty document and forgets every annotation.
func (l *Ledger) ResetAll() error {
	l.state = Empty()
	if err := l.store.Reset(); err != nil {
		return errors.Wrap(err, "failed to reset ledger")
	}
	return nil
}

// Forget drops names from memory only.
func (l *Ledger) Forget(names ...string) {
	l.state = l.state.Remove(names...)
}

// Clear forgets every annotation without touching the store.
func (l *Ledger) Clear() {
	l.state = Empty()
}

// SetDirectory retargets the ledger and clears the in-memory annotations.
func (l *Ledger) SetDirectory(dir string) {
	l.directory = dir
	l.state = Empty()
}

// Resume loads stored annotations when the stored document belongs to the
// ledger's directory, and reports whether anything was loaded. A missing
// document is not an error.
func (l *Ledger) Resume() (bool, error) {
	doc, err := l.store.Load()
	if err != nil {
		if errors.IsFileNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if doc.Directory == "" || !SameDirectory(doc.Directory, l.directory) || len(doc.Files) == 0 {
		return false, nil
	}
	l.state = doc.State()
	log.Infof("resumed %d annotations for %s", l.state.Len(), l.directory)
	return true, nil
}
