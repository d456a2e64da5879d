package ledger

import "maps"

// Status is the lifecycle stage of a ledger.
type Status int

const (
	// Absent means no annotations exist; on disk this is the missing file.
	Absent Status = iota
	// Present means at least one annotation exists.
	Present
)

func (s Status) String() string {
	if s == Present {
		return "present"
	}
	return "absent"
}

// State is an immutable filename to label mapping. Transitions return a new
// State and never modify the receiver.
type State struct {
	files map[string]string
}

// Empty returns the Absent state.
func Empty() State {
	return State{}
}

// FromFiles returns a State holding a copy of files.
func FromFiles(files map[string]string) State {
	if len(files) == 0 {
		return State{}
	}
	return State{files: maps.Clone(files)}
}

// Status reports Absent or Present.
func (s State) Status() Status {
	if len(s.files) == 0 {
		return Absent
	}
	return Present
}

// Annotate returns a Present state with file labelled label.
func (s State) Annotate(file, label string) State {
	files := make(map[string]string, len(s.files)+1)
	maps.Copy(files, s.files)
	files[file] = label
	return State{files: files}
}

// Remove returns the state without names. Removing the last entry yields
// Absent.
func (s State) Remove(names ...string) State {
	if len(s.files) == 0 {
		return s
	}
	files := maps.Clone(s.files)
	for _, name := range names {
		delete(files, name)
	}
	return FromFiles(files)
}

// Label returns the label recorded for file.
func (s State) Label(file string) (string, bool) {
	label, ok := s.files[file]
	return label, ok
}

// Len returns the number of annotated files.
func (s State) Len() int {
	return len(s.files)
}

// Files returns a copy of the mapping. It is never nil.
func (s State) Files() map[string]string {
	if s.files == nil {
		return map[string]string{}
	}
	return maps.Clone(s.files)
}

// ByLabel groups the annotated files by label.
func (s State) ByLabel() map[string][]string {
	groups := make(map[string][]string)
	for file, label := range s.files {
		groups[label] = append(groups[label], file)
	}
	return groups
}
