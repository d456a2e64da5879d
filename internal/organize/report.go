package organize

import "fmt"

// GroupResult is the outcome of one group.
type GroupResult struct {
	Group   string
	Moved   []string
	Missing []string
	Skipped []string
}

// Message is the user-facing summary line.
func (r GroupResult) Message(dryRun bool) string {
	if dryRun {
		return fmt.Sprintf("would move %d images to %s...", len(r.Moved), r.Group)
	}
	return fmt.Sprintf("moving %d images to %s...", len(r.Moved), r.Group)
}

// Report summarises a reconcile run.
type Report struct {
	BatchID string
	Mode    Mode
	DryRun  bool
	Groups  []GroupResult
}

// Moved returns every moved file across groups.
func (r *Report) Moved() []string {
	var moved []string
	for _, g := range r.Groups {
		moved = append(moved, g.Moved...)
	}
	return moved
}

// Total is the number of moved files.
func (r *Report) Total() int {
	return len(r.Moved())
}

// Count is the number of files moved into group.
func (r *Report) Count(group string) int {
	for _, g := range r.Groups {
		if g.Group == group {
			return len(g.Moved)
		}
	}
	return 0
}

// Messages returns one summary line per processed group.
func (r *Report) Messages() []string {
	msgs := make([]string, 0, len(r.Groups))
	for _, g := range r.Groups {
		msgs = append(msgs, g.Message(r.DryRun))
	}
	return msgs
}
