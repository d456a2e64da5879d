package organize

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"imgsort/internal/config"
	"imgsort/internal/errors"
	"imgsort/internal/log"

	"github.com/google/uuid"
)

// Collision strategies.
const (
	CollisionFail   = "fail"
	CollisionSkip   = "skip"
	CollisionRename = "rename"
)

// Lister returns the files currently present in a directory.
type Lister interface {
	Scan(dir string) []string
}

// Recorder receives one record per completed move.
type Recorder interface {
	Record(rec MoveRecord) error
}

// MoveRecord describes a single completed move.
type MoveRecord struct {
	BatchID     string
	Source      string
	Destination string
	Group       string
	Mode        Mode
	MovedAt     time.Time
}

// Engine moves grouped files into per-group folders.
type Engine struct {
	lister    Lister
	recorder  Recorder
	dryRun    bool
	collision string
	mu        sync.Mutex
}

// New creates an engine that fails on destination collisions.
func New(lister Lister) *Engine {
	return &Engine{
		lister:    lister,
		collision: CollisionFail,
	}
}

// NewWithConfig creates an engine using the dry-run and collision settings of cfg.
func NewWithConfig(cfg *config.Config, lister Lister) *Engine {
	e := New(lister)
	e.dryRun = cfg.Settings.DryRun
	if cfg.Settings.Collision != "" {
		e.collision = cfg.Settings.Collision
	}
	return e
}

// SetDryRun sets whether operations should be performed or just simulated
func (e *Engine) SetDryRun(dryRun bool) {
	e.dryRun = dryRun
}

// IsDryRun returns whether the engine is in dry run mode
func (e *Engine) IsDryRun() bool {
	return e.dryRun
}

// SetCollision sets the strategy used when a destination already exists.
func (e *Engine) SetCollision(strategy string) {
	e.collision = strategy
}

// SetRecorder attaches a journal for completed moves.
func (e *Engine) SetRecorder(r Recorder) {
	e.recorder = r
}

// Reconcile moves every group produced by g into dir/<group>.
//
// Groups are processed in name order. Before each group the directory is
// rescanned and only files still present are moved; the rest are reported as
// missing. A move failure stops the run. Completed moves are never rolled
// back, and g is committed with whatever was moved so the ledger matches the
// filesystem. The returned report is never nil.
func (e *Engine) Reconcile(dir string, g Grouping) (*Report, error) {
	report := &Report{
		BatchID: uuid.NewString(),
		Mode:    g.Mode(),
		DryRun:  e.dryRun,
	}

	groups, err := g.Groups(e.lister.Scan(dir))
	if err != nil {
		return report, err
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	slices.Sort(names)

	var runErr error
	for _, name := range names {
		result, err := e.moveGroup(dir, name, groups[name], report)
		report.Groups = append(report.Groups, result)
		if err != nil {
			runErr = err
			break
		}
	}

	if report.DryRun {
		return report, runErr
	}
	if err := g.Commit(report.Moved()); err != nil {
		if runErr == nil {
			return report, err
		}
		log.LogWithError(err).Error("failed to update ledger after aborted move")
	}
	return report, runErr
}

func (e *Engine) moveGroup(dir, group string, files []string, report *Report) (GroupResult, error) {
	result := GroupResult{Group: group}
	if err := validateGroup(group); err != nil {
		return result, err
	}

	present := make(map[string]bool)
	for _, name := range e.lister.Scan(dir) {
		present[name] = true
	}

	dest := filepath.Join(dir, group)
	if !e.dryRun {
		if err := os.MkdirAll(dest, 0755); err != nil {
			return result, errors.NewMoveError("failed to create group folder", group, "", errors.FileOperationFailed, err)
		}
	}

	files = slices.Clone(files)
	slices.Sort(files)
	for _, name := range files {
		if !present[name] {
			result.Missing = append(result.Missing, name)
			continue
		}
		src := filepath.Join(dir, name)
		final, err := e.MoveFile(src, filepath.Join(dest, name))
		if err != nil {
			return result, errors.NewMoveError("failed to move file", group, name, errors.MoveFailed, err)
		}
		if final == "" {
			result.Skipped = append(result.Skipped, name)
			continue
		}
		result.Moved = append(result.Moved, name)
		e.record(MoveRecord{
			BatchID:     report.BatchID,
			Source:      src,
			Destination: final,
			Group:       group,
			Mode:        report.Mode,
			MovedAt:     time.Now(),
		})
	}

	log.LogWithFields(
		log.F("group", group),
		log.F("moved", len(result.Moved)),
		log.F("missing", len(result.Missing)),
	).Info(result.Message(report.DryRun))
	return result, nil
}

func (e *Engine) record(rec MoveRecord) {
	if e.recorder == nil || e.dryRun {
		return
	}
	if err := e.recorder.Record(rec); err != nil {
		log.LogWithError(err).Warn("failed to journal move")
	}
}

// validateGroup rejects group names that would escape the directory.
func validateGroup(group string) error {
	if group == "" || group == "." || group == ".." ||
		strings.ContainsRune(group, '/') || strings.ContainsRune(group, filepath.Separator) {
		return errors.NewMoveError("invalid group name", group, "", errors.InvalidGroup, nil)
	}
	return nil
}

// MoveFile moves a file from source to destination, handling collisions based
// on the configured strategy. It returns the path the file ended up at, or ""
// when the move was skipped.
func (e *Engine) MoveFile(src, dest string) (string, error) {
	cleanSrc := filepath.Clean(src)
	cleanDest := filepath.Clean(dest)

	if cleanSrc == cleanDest {
		log.Debugf("Source and destination are the same, skipping: %s", src)
		return "", nil
	}

	srcInfo, err := os.Stat(cleanSrc)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewFileError("source file not found", cleanSrc, errors.FileNotFound, err)
		}
		return "", errors.NewFileError("source file error", cleanSrc, errors.FileAccessDenied, err)
	}
	if srcInfo.IsDir() {
		return "", errors.NewFileError("cannot move directory as file", cleanSrc, errors.InvalidPath, nil)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.dryRun {
		log.Infof("Would move %s -> %s", src, cleanDest)
		return cleanDest, nil
	}

	if err := os.MkdirAll(filepath.Dir(cleanDest), 0755); err != nil {
		return "", fmt.Errorf("failed to create destination directory: %w", err)
	}

	finalDest, err := e.handleCollision(cleanSrc, cleanDest)
	if err != nil {
		return "", err
	}
	if finalDest == "" {
		return "", nil
	}

	log.Debugf("Moving %s to %s", cleanSrc, finalDest)
	if err := os.Rename(cleanSrc, finalDest); err != nil {
		return "", fmt.Errorf("failed to move file: %w", err)
	}
	return finalDest, nil
}

// handleCollision implements collision resolution strategies.
// It returns the final destination path and an error if any.
// If the file should be skipped, it returns an empty string and nil error.
func (e *Engine) handleCollision(src, dest string) (string, error) {
	_, err := os.Stat(dest)
	if os.IsNotExist(err) {
		return dest, nil
	}
	if err != nil {
		return "", fmt.Errorf("error checking destination %s: %w", dest, err)
	}

	switch e.collision {
	case CollisionSkip:
		log.Infof("Skipping move for %s, %s already exists", src, dest)
		return "", nil
	case CollisionRename:
		return e.findUniqueDestName(dest)
	case CollisionFail, "":
		return "", errors.NewFileError("destination already exists", dest, errors.FileOperationFailed, nil)
	default:
		return "", errors.Newf("unknown collision strategy: %s", e.collision)
	}
}

// findUniqueDestName finds a unique filename by adding counter to the basename
func (e *Engine) findUniqueDestName(originalPath string) (string, error) {
	ext := filepath.Ext(originalPath)
	base := strings.TrimSuffix(originalPath, ext)

	for counter := 1; counter <= 1000; counter++ {
		newName := fmt.Sprintf("%s_(%d)%s", base, counter, ext)

		if _, err := os.Stat(newName); os.IsNotExist(err) {
			log.Infof("Renaming destination to %s due to collision", newName)
			return newName, nil
		}
	}

	return "", errors.Newf("failed to find unique name for %s after 1000 attempts", originalPath)
}
