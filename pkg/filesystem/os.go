package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
)

// osFS implements FS against the real filesystem
type osFS struct{}

// NewOSFS creates a filesystem implementation backed by the os package
func NewOSFS() FS {
	return &osFS{}
}

func (o *osFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (o *osFS) Walk(root string, fn filepath.WalkFunc) error {
	return filepath.Walk(root, fn)
}
