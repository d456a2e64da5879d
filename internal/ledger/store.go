package ledger

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -destination=mocks/mock_store.go -package=mocks imgsort/internal/ledger Store

import (
	"encoding/json"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"imgsort/internal/errors"
)

// Store persists ledger documents.
type Store interface {
	// Load reads the document. A missing document is a FileNotFound error.
	Load() (*Document, error)
	// Merge shallow-merges the set top-level keys of doc over the stored
	// document, starting from an empty one when nothing is stored.
	Merge(doc *Document) error
	// Save replaces the stored document.
	Save(doc *Document) error
	// Reset stores an empty JSON object.
	Reset() error
	// Remove deletes the stored document. Removing a missing one is not an error.
	Remove() error
	// Exists reports whether a document is stored.
	Exists() bool
}

// FileStore keeps the document in a JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a store for the JSON file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load implements Store.
func (s *FileStore) Load() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileError("ledger not found", s.path, errors.FileNotFound, err)
		}
		return nil, errors.NewFileError("error reading ledger", s.path, errors.FileAccessDenied, err)
	}
	fields, err := decode(data)
	if err != nil {
		return nil, errors.NewFileError("error parsing ledger", s.path, errors.FileOperationFailed, err)
	}
	doc := &Document{}
	if err := doc.fromFields(fields); err != nil {
		return nil, errors.NewFileError("error parsing ledger", s.path, errors.FileOperationFailed, err)
	}
	return doc, nil
}

// Merge implements Store.
func (s *FileStore) Merge(doc *Document) error {
	current := make(map[string]json.RawMessage)
	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		current, err = decode(data)
		if err != nil {
			return errors.NewFileError("error parsing ledger", s.path, errors.FileOperationFailed, err)
		}
	case !os.IsNotExist(err):
		return errors.NewFileError("error reading ledger", s.path, errors.FileAccessDenied, err)
	}

	incoming, err := doc.fields()
	if err != nil {
		return errors.Wrap(err, "failed to encode ledger")
	}
	maps.Copy(current, incoming)
	return s.write(current)
}

// Save implements Store.
func (s *FileStore) Save(doc *Document) error {
	fields, err := doc.fields()
	if err != nil {
		return errors.Wrap(err, "failed to encode ledger")
	}
	return s.write(fields)
}

// Reset implements Store.
func (s *FileStore) Reset() error {
	return s.write(map[string]json.RawMessage{})
}

// Remove implements Store.
func (s *FileStore) Remove() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.NewFileError("failed to remove ledger", s.path, errors.FileOperationFailed, err)
	}
	return nil
}

// Exists implements Store.
func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

func (s *FileStore) write(fields map[string]json.RawMessage) error {
	data, err := encode(fields)
	if err != nil {
		return errors.Wrap(err, "failed to encode ledger")
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.NewFileError("failed to create ledger directory", dir, errors.FileOperationFailed, err)
		}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return errors.NewFileError("failed to write ledger", s.path, errors.FileOperationFailed, err)
	}
	return nil
}

// MemoryStore keeps the document in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.Mutex
	fields map[string]json.RawMessage
}

// NewMemoryStore returns an empty store holding no document.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements Store.
func (s *MemoryStore) Load() (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fields == nil {
		return nil, errors.NewFileError("ledger not found", "memory", errors.FileNotFound, nil)
	}
	doc := &Document{}
	if err := doc.fromFields(s.fields); err != nil {
		return nil, err
	}
	return doc, nil
}

// Merge implements Store.
func (s *MemoryStore) Merge(doc *Document) error {
	incoming, err := doc.fields()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fields == nil {
		s.fields = make(map[string]json.RawMessage)
	}
	maps.Copy(s.fields, incoming)
	return nil
}

// Save implements Store.
func (s *MemoryStore) Save(doc *Document) error {
	fields, err := doc.fields()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = fields
	return nil
}

// Reset implements Store.
func (s *MemoryStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = map[string]json.RawMessage{}
	return nil
}

// Remove implements Store.
func (s *MemoryStore) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = nil
	return nil
}

// Exists implements Store.
func (s *MemoryStore) Exists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields != nil
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
