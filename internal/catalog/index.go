package catalog

// Catalog defines the project catalog operations.
// Consumers should depend on this interface rather than the concrete *DB type.
type Catalog interface {
	UpsertProject(p ProjectRow, tasks []TaskRow) error
	DeleteProject(path string) error
	GetChecksum(path string) (string, error)
	GetProject(path string) (*ProjectRow, error)
	ListProjects(limit, offset int) ([]ProjectRow, int, error)
	SearchTasks(query string, limit int) ([]TaskHit, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies Catalog at compile time.
var _ Catalog = (*DB)(nil)
