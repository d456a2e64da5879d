package organize

// Reconciler defines the move operations the session depends on.
// This allows for dependency injection in tests and other parts of the application
type Reconciler interface {
	// SetDryRun sets whether operations should be performed or just simulated
	SetDryRun(dryRun bool)

	// IsDryRun reports whether moves are simulated
	IsDryRun() bool

	// MoveFile moves a file from source to destination with safety checks
	MoveFile(src, dest string) (string, error)

	// Reconcile moves grouped files into per-group folders
	Reconcile(dir string, g Grouping) (*Report, error)
}

// Ensure Engine implements the Reconciler interface
var _ Reconciler = (*Engine)(nil)
