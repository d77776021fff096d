package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b.hcl", "a.yaml", "sub/c.yml", "sub/d.txt"} {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}

	t.Run("multiple extensions", func(t *testing.T) {
		files, err := FindFilesByExtension(root, ".yaml", ".yml")
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "a.yaml"), filepath.Join(root, "sub", "c.yml")}, files)
	})

	t.Run("single file root", func(t *testing.T) {
		files, err := FindFilesByExtension(filepath.Join(root, "b.hcl"), ".hcl")
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "b.hcl")}, files)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := FindFilesByExtension(filepath.Join(root, "nope"), ".hcl")
		assert.Error(t, err)
	})
}
