// Package storage gives read-only access to the project library directory.
package storage

import (
	"path/filepath"
	"strings"

	"github.com/starford/ganttview/internal/models"
)

// ProjectExt is the file extension of MS Project XML exports.
const ProjectExt = ".xml"

// Provider is the interface for library file access.
type Provider interface {
	// List returns metadata for every project file under dir (relative to the library root).
	List(dir string) ([]models.ProjectMetadata, error)
	// Read returns the raw bytes of the file at path (relative to the library root).
	Read(path string) ([]byte, error)
	// Abs resolves path (relative to the library root) to an absolute path.
	Abs(path string) (string, error)
}

// IsProjectFile reports whether name looks like a project export. The
// extension match is case-insensitive and hidden files are ignored.
func IsProjectFile(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(base), ProjectExt)
}
