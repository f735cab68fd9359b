package pathutil_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jvs-project/clonekit/pkg/errclass"
	"github.com/jvs-project/clonekit/pkg/pathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateClonePaths_Siblings(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	require.NoError(t, os.Mkdir(src, 0755))

	assert.NoError(t, pathutil.ValidateClonePaths(src, filepath.Join(dir, "dst")))
	assert.NoError(t, pathutil.ValidateClonePaths(src, filepath.Join(dir, "src-copy")))
}

func TestValidateClonePaths_Same(t *testing.T) {
	src := t.TempDir()
	err := pathutil.ValidateClonePaths(src, src)
	require.ErrorIs(t, err, errclass.ErrPathOverlap)
}

func TestValidateClonePaths_DestinationInsideSource(t *testing.T) {
	src := t.TempDir()
	err := pathutil.ValidateClonePaths(src, filepath.Join(src, "nested", "deeper"))
	require.ErrorIs(t, err, errclass.ErrPathOverlap)
}

// TestValidateClonePaths_SymlinkIntoSource tests that a symlinked parent does not hide an overlap.
func TestValidateClonePaths_SymlinkIntoSource(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	require.NoError(t, os.Mkdir(src, 0755))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(src, link))

	err := pathutil.ValidateClonePaths(src, filepath.Join(link, "dst"))
	require.ErrorIs(t, err, errclass.ErrPathOverlap)
}

func TestValidateClonePaths_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := pathutil.ValidateClonePaths(filepath.Join(dir, "missing"), filepath.Join(dir, "dst"))
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.NotErrorIs(t, err, errclass.ErrPathOverlap)
}

func TestWithin(t *testing.T) {
	sep := string(filepath.Separator)
	root := sep + "data"

	assert.True(t, pathutil.Within(root, root))
	assert.True(t, pathutil.Within(root, root+sep+"a"))
	assert.True(t, pathutil.Within(root+sep, root+sep+"a"))
	assert.False(t, pathutil.Within(root, root+"2"))
	assert.False(t, pathutil.Within(root, sep+"other"))
	assert.True(t, pathutil.Within(sep, sep+"anything"))
}

// TestWithin_Normalization tests that composed and decomposed names compare equal.
func TestWithin_Normalization(t *testing.T) {
	sep := string(filepath.Separator)
	composed := sep + "café"
	decomposed := sep + "café"

	assert.True(t, pathutil.Within(composed, decomposed+sep+"x"))
}
