// Package filesystem provides the read-only filesystem boundary used for
// executable-existence checks and mod-tree enumeration. The deployment method
// itself never writes to the real filesystem; this interface is intentionally
// read-only.
package filesystem

import (
	"io/fs"
	"path/filepath"
)

// FS is the filesystem interface required by the deployment and launch layers.
type FS interface {
	// Stat returns file info for name.
	Stat(name string) (fs.FileInfo, error)

	// Walk walks the file tree rooted at root, calling fn for each file or
	// directory, including root.
	Walk(root string, fn filepath.WalkFunc) error
}

// Exists reports whether name exists on fsys. Any stat error other than
// not-exist is treated as absent; callers that need to distinguish should
// call Stat directly.
func Exists(fsys FS, name string) bool {
	_, err := fsys.Stat(name)
	return err == nil
}
