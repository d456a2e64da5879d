package session

import (
	"path/filepath"
	"slices"
)

// View is a read-only projection of a Session for rendering. Drivers build
// their output from a View and never from the Session itself.
type View struct {
	Directory      string   `json:"directory"`
	ValidDirectory bool     `json:"valid_directory"`
	Categories     []string `json:"categories"`
	Listing        []string `json:"listing"`
	Index          int      `json:"index"`
	Total          int      `json:"total"`
	Remaining      int      `json:"remaining"`
	Annotated      int      `json:"annotated"`
	Current        string   `json:"current,omitempty"`
	CurrentPath    string   `json:"-"`
	CurrentLabel   string   `json:"current_label,omitempty"`
	Done           bool     `json:"done"`
	Hidden         bool     `json:"hidden"`
	Clamp          bool     `json:"clamp"`
	Keywords       []string `json:"keywords,omitempty"`
	Separator      string   `json:"separator,omitempty"`
	KeywordMode    string   `json:"keyword_mode,omitempty"`
	DryRun         bool     `json:"dry_run"`
}

// View projects the session state.
func (s *Session) View() View {
	v := View{
		Directory:      s.dir,
		ValidDirectory: s.valid,
		Categories:     slices.Clone(s.categories),
		Listing:        slices.Clone(s.listing),
		Index:          s.cursor.Index(),
		Total:          len(s.listing),
		Annotated:      s.ledger.Len(),
		Hidden:         s.hidden,
		Clamp:          s.clamp,
	}
	if v.Listing == nil {
		v.Listing = []string{}
	}
	v.Remaining = max(v.Total-v.Index, 0)

	if current, ok := s.Current(); ok {
		v.Current = current
		v.CurrentPath = filepath.Join(s.dir, current)
		v.CurrentLabel, _ = s.ledger.State().Label(current)
	} else {
		v.Done = s.valid
	}

	if s.keywords.Active() {
		v.Keywords = slices.Clone(s.keywords.Phrases)
		v.Separator = s.keywords.Separator
		v.KeywordMode = s.keywords.Mode.String()
	}
	if s.engine != nil {
		v.DryRun = s.engine.IsDryRun()
	}
	return v
}
