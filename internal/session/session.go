// Package session holds the state of one triage session and the commands
// that drive it. A Session is not safe for concurrent use; drivers serialise
// access to it.
package session

import (
	"path/filepath"
	"slices"

	"imgsort/internal/catalog"
	"imgsort/internal/config"
	"imgsort/internal/errors"
	"imgsort/internal/keyword"
	"imgsort/internal/ledger"
	"imgsort/internal/log"
	"imgsort/internal/organize"
)

// Options configures a new Session.
type Options struct {
	Directory  string
	Categories []string
	Catalog    *catalog.Catalog
	Store      ledger.Store
	Engine     organize.Reconciler
	Clamp      bool
	Resume     bool
}

// Session is the process-local triage state: directory, active listing,
// cursor, categories, keyword filter, visibility toggles and the annotation
// ledger mirror.
type Session struct {
	dir        string
	valid      bool
	catalog    *catalog.Catalog
	engine     organize.Reconciler
	ledger     *ledger.Ledger
	categories []string
	keywords   keyword.Spec
	listing    []string
	cursor     Cursor
	hidden     bool
	clamp      bool
}

// New creates a session and opens opts.Directory. An invalid directory is
// returned as an InvalidDirectory error alongside a usable session with an
// empty listing.
func New(opts Options) (*Session, error) {
	s := &Session{
		catalog:    opts.Catalog,
		engine:     opts.Engine,
		ledger:     ledger.New(opts.Store, ""),
		categories: slices.Clone(opts.Categories),
		clamp:      opts.Clamp,
	}
	if err := s.ChangeDirectory(opts.Directory); err != nil {
		return s, err
	}
	if opts.Resume {
		s.resume()
	}
	return s, nil
}

// resume reloads a stored ledger for the current directory and seeks to the
// first unannotated file. Only done when a session starts.
func (s *Session) resume() {
	resumed, err := s.ledger.Resume()
	if err != nil {
		log.LogWithError(err).Warn("could not resume annotations")
	}
	if resumed {
		s.seekFirstUnannotated()
	}
}

// FromConfig wires a session from cfg with a file-backed ledger.
func FromConfig(cfg *config.Config, engine organize.Reconciler) (*Session, error) {
	c, err := catalog.New(cfg.Extensions(), cfg.IgnorePatterns...)
	if err != nil {
		return nil, err
	}
	if engine == nil {
		engine = organize.NewWithConfig(cfg, c)
	}
	return New(Options{
		Directory:  cfg.DefaultDirectory,
		Categories: cfg.Categories(),
		Catalog:    c,
		Store:      ledger.NewFileStore(cfg.JSONPath),
		Engine:     engine,
		Clamp:      cfg.ClampImage,
		Resume:     cfg.Resume,
	})
}

// Directory returns the current directory.
func (s *Session) Directory() string {
	return s.dir
}

// Listing returns a copy of the active listing.
func (s *Session) Listing() []string {
	return slices.Clone(s.listing)
}

// Categories returns a copy of the category list.
func (s *Session) Categories() []string {
	return slices.Clone(s.categories)
}

// Keywords returns the active keyword filter.
func (s *Session) Keywords() keyword.Spec {
	return s.keywords
}

// Ledger returns the annotation ledger mirror.
func (s *Session) Ledger() *ledger.Ledger {
	return s.ledger
}

// Engine returns the move engine.
func (s *Session) Engine() organize.Reconciler {
	return s.engine
}

// Cursor returns the cursor index.
func (s *Session) Cursor() int {
	return s.cursor.Index()
}

// Current returns the file under the cursor.
func (s *Session) Current() (string, bool) {
	return s.cursor.Current(s.listing)
}

// Path returns the absolute path of name when it is part of the active
// listing.
func (s *Session) Path(name string) (string, bool) {
	if !slices.Contains(s.listing, name) {
		return "", false
	}
	return filepath.Join(s.dir, name), true
}

// Back moves the cursor one file back, never below the first.
func (s *Session) Back() {
	s.cursor.Advance(-1)
}

// Skip moves the cursor forward without annotating.
func (s *Session) Skip() {
	s.cursor.Advance(1)
}

// Seek jumps to position i of the active listing.
func (s *Session) Seek(i int) {
	s.cursor.Seek(i, len(s.listing))
}

// Annotate labels the current file, persists the ledger and advances.
func (s *Session) Annotate(label string) error {
	if label == "" {
		return errors.NewInvalidInputError("empty label", nil)
	}
	file, ok := s.Current()
	if !ok {
		return errors.ErrNothingCurrent
	}
	if err := s.ledger.Annotate(file, label); err != nil {
		return err
	}
	s.cursor.Advance(1)
	return nil
}

// AnnotateIndex labels the current file with the i-th category (zero-based).
func (s *Session) AnnotateIndex(i int) error {
	if i < 0 || i >= len(s.categories) {
		return errors.NewInvalidInputError("no such category", nil)
	}
	return s.Annotate(s.categories[i])
}

// ChangeDirectory switches to dir. The cursor and the in-memory annotations
// are reset; a stored ledger is never reloaded here. A missing or non-directory path leaves an empty listing and
// returns an InvalidDirectory error.
func (s *Session) ChangeDirectory(dir string) error {
	if abs, err := filepath.Abs(dir); err == nil && dir != "" {
		dir = abs
	}
	s.dir = dir
	s.ledger.SetDirectory(dir)
	s.cursor.Reset()
	s.relist()

	if !s.valid {
		log.LogWithFields(log.F("directory", dir)).Warn("not a valid directory")
		return errors.NewFileError("not a valid directory", dir, errors.InvalidDirectory, nil)
	}
	return nil
}

// ChangeCategories replaces the category list from a comma separated string.
// Annotations are kept; the cursor restarts.
func (s *Session) ChangeCategories(csv string) error {
	categories := config.ParseCategories(csv)
	if len(categories) == 0 {
		return errors.NewInvalidInputError("at least one category is required", nil)
	}
	s.categories = categories
	s.cursor.Reset()
	s.relist()
	return nil
}

// SetKeywords activates a keyword filter. Annotations are kept; the cursor
// restarts.
func (s *Session) SetKeywords(spec keyword.Spec) {
	s.keywords = spec
	s.cursor.Reset()
	s.relist()
}

// ClearKeywords removes the keyword filter.
func (s *Session) ClearKeywords() {
	s.SetKeywords(keyword.Spec{})
}

// ResetAnnotations empties the stored ledger and the in-memory mirror and
// restarts the cursor.
func (s *Session) ResetAnnotations() error {
	s.cursor.Reset()
	return s.ledger.ResetAll()
}

// ToggleHide flips image visibility and returns the new state.
func (s *Session) ToggleHide() bool {
	s.hidden = !s.hidden
	return s.hidden
}

// ToggleClamp flips display height clamping and returns the new state.
func (s *Session) ToggleClamp() bool {
	s.clamp = !s.clamp
	return s.clamp
}

// MoveFiles moves every annotated file into a folder named after its label,
// shrinking the stored ledger. Moved files leave the in-memory ledger and
// the listing even when the run fails part way.
func (s *Session) MoveFiles() (*organize.Report, error) {
	return s.reconcile(organize.NewLedgerGrouping(s.ledger.Store(), s.dir))
}

// MoveFilesByKeyword moves the files matching each keyword phrase into a
// folder named after the phrase. The stored ledger is not touched and the
// keyword filter is cleared afterwards.
func (s *Session) MoveFilesByKeyword() (*organize.Report, error) {
	if !s.keywords.Active() {
		return nil, errors.NewInvalidInputError("no keyword filter is active", nil)
	}
	report, err := s.reconcile(organize.NewKeywordGrouping(s.keywords))
	if report != nil && !report.DryRun {
		s.keywords = keyword.Spec{}
		s.relist()
	}
	return report, err
}

func (s *Session) reconcile(g organize.Grouping) (*organize.Report, error) {
	if !s.valid {
		return nil, errors.NewFileError("not a valid directory", s.dir, errors.InvalidDirectory, nil)
	}
	report, err := s.engine.Reconcile(s.dir, g)
	if report != nil && !report.DryRun {
		s.ledger.Forget(report.Moved()...)
		s.cursor.Reset()
		s.relist()
	}
	if err != nil {
		log.LogWithError(err).Error("move aborted")
	}
	return report, err
}

// Refresh rescans the directory after external changes, keeping the cursor
// on the same file when it is still listed.
func (s *Session) Refresh() {
	current, ok := s.Current()
	index := s.cursor.Index()
	s.relist()
	if ok {
		if i := slices.Index(s.listing, current); i >= 0 {
			s.cursor.Seek(i, len(s.listing))
			return
		}
	}
	s.cursor.Seek(index, len(s.listing))
}

func (s *Session) relist() {
	names, err := s.catalog.List(s.dir)
	s.valid = err == nil
	if !s.valid {
		s.listing = nil
		return
	}
	s.listing = s.keywords.Apply(names)
}

func (s *Session) seekFirstUnannotated() {
	state := s.ledger.State()
	for i, name := range s.listing {
		if _, ok := state.Label(name); !ok {
			s.cursor.Seek(i, len(s.listing))
			return
		}
	}
	s.cursor.Seek(len(s.listing), len(s.listing))
}
