package testutil

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/modvfs/modvfs/pkg/filesystem"
)

// BuildTree creates the given files (path -> content) on a fresh in-memory
// filesystem and returns it wrapped in the filesystem boundary interface.
func BuildTree(t *testing.T, files map[string]string) (filesystem.FS, afero.Fs) {
	t.Helper()
	mem := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(mem, path, []byte(content), 0644))
	}
	return filesystem.NewAferoFS(mem), mem
}
