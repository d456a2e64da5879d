package organize

import (
	"imgsort/internal/errors"
	"imgsort/internal/keyword"
	"imgsort/internal/ledger"
	"imgsort/internal/log"
)

// Mode names the source of a grouping.
type Mode string

const (
	ModeLedger  Mode = "ledger"
	ModeKeyword Mode = "keyword"
)

// Grouping resolves files to destination groups for a reconcile run.
type Grouping interface {
	// Mode identifies the grouping in reports and the journal.
	Mode() Mode
	// Groups maps group names to the files that belong in them. listing is
	// the directory's current catalog.
	Groups(listing []string) (map[string][]string, error)
	// Commit is called once with every file that was moved.
	Commit(moved []string) error
}

// LedgerGrouping groups the annotations stored in a ledger by label and
// shrinks the stored document as files move.
type LedgerGrouping struct {
	store ledger.Store
	dir   string
	doc   *ledger.Document
}

// NewLedgerGrouping returns a grouping over the document in store. A stored
// document recorded for a directory other than dir is left alone.
func NewLedgerGrouping(store ledger.Store, dir string) *LedgerGrouping {
	return &LedgerGrouping{store: store, dir: dir}
}

// Mode implements Grouping.
func (g *LedgerGrouping) Mode() Mode {
	return ModeLedger
}

// Groups implements Grouping. A missing ledger yields no groups.
func (g *LedgerGrouping) Groups([]string) (map[string][]string, error) {
	g.doc = nil
	doc, err := g.store.Load()
	if err != nil {
		if errors.IsFileNotFound(err) {
			return map[string][]string{}, nil
		}
		return nil, err
	}
	if doc.Directory != "" && !ledger.SameDirectory(doc.Directory, g.dir) {
		log.LogWithFields(log.F("ledger_directory", doc.Directory), log.F("directory", g.dir)).
			Warn("ledger belongs to another directory, nothing to move")
		return map[string][]string{}, nil
	}
	g.doc = doc
	return doc.State().ByLabel(), nil
}

// Commit implements Grouping. The moved files are removed from the stored
// document, and a document left without files is deleted.
func (g *LedgerGrouping) Commit(moved []string) error {
	if g.doc == nil {
		return nil
	}
	remaining := g.doc.State().Remove(moved...)
	if remaining.Status() == ledger.Absent {
		return g.store.Remove()
	}
	g.doc.Files = remaining.Files()
	return g.store.Save(g.doc)
}

// KeywordGrouping groups the listing by keyword phrase. The phrase is the
// folder name. It never touches the ledger.
type KeywordGrouping struct {
	spec keyword.Spec
}

// NewKeywordGrouping returns a grouping for spec.
func NewKeywordGrouping(spec keyword.Spec) *KeywordGrouping {
	return &KeywordGrouping{spec: spec}
}

// Mode implements Grouping.
func (g *KeywordGrouping) Mode() Mode {
	return ModeKeyword
}

// Groups implements Grouping.
func (g *KeywordGrouping) Groups(listing []string) (map[string][]string, error) {
	groups := make(map[string][]string)
	for _, group := range g.spec.Groups(listing) {
		groups[group.Phrase] = group.Files
	}
	return groups, nil
}

// Commit implements Grouping.
func (g *KeywordGrouping) Commit([]string) error {
	return nil
}

var (
	_ Grouping = (*LedgerGrouping)(nil)
	_ Grouping = (*KeywordGrouping)(nil)
)
