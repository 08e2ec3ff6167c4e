package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFileSystem_Open_ValidDirectory(t *testing.T) {
	dir := t.TempDir()
	fsys := NewOSFileSystem()

	d, err := fsys.Open(dir)
	require.NoError(t, err)

	absDir, _ := filepath.Abs(dir)
	assert.Equal(t, absDir, d.Path())
}

func TestOSFileSystem_Open_NonexistentPath(t *testing.T) {
	_, err := NewOSFileSystem().Open(filepath.Join(t.TempDir(), "nonexistent"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestOSFileSystem_Open_FileNotDirectory(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "patients.csv")
	require.NoError(t, os.WriteFile(filePath, []byte("Name\n"), 0644))

	_, err := NewOSFileSystem().Open(filePath)
	assert.Error(t, err)
}

func TestOSFileSystem_ReadFile(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "patients.csv")
	require.NoError(t, os.WriteFile(filePath, []byte("Name,Age\n"), 0644))

	data, err := NewOSFileSystem().ReadFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, "Name,Age\n", string(data))
}

func TestOSFileSystem_ReadFile_Nonexistent(t *testing.T) {
	_, err := NewOSFileSystem().ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestOSFileSystem_Stat(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "patients.csv")
	require.NoError(t, os.WriteFile(filePath, []byte("abc"), 0644))

	info, err := NewOSFileSystem().Stat(filePath)
	require.NoError(t, err)
	assert.False(t, info.IsDir())
	assert.Equal(t, int64(3), info.Size())
}

func TestOSFileSystem_Walk(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "2024"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.csv"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "2024", "a.csv"), []byte("y"), 0644))

	d, err := NewOSFileSystem().Open(root)
	require.NoError(t, err)

	var rel []string
	err = d.Walk(func(file File, err error) error {
		require.NoError(t, err)
		rel = append(rel, file.RelativePath())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024", "2024/a.csv", "b.csv"}, rel)
}
