package engine_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jvs-project/clonekit/internal/engine"
	"github.com/jvs-project/clonekit/pkg/errclass"
	"github.com/jvs-project/clonekit/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, dir, name string, data []byte, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, perm))
	require.NoError(t, os.Chmod(path, perm))
	return path
}

func TestCopyFile_CreatesCopy(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "src.img", []byte("hello"), 0640)
	mtime := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))
	dst := filepath.Join(dir, "dst.img")

	n, err := engine.CopyFile(src, dst)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime))
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0640), info.Mode().Perm())
	}
}

// TestCopyFile_Large crosses the reservation threshold.
func TestCopyFile_Large(t *testing.T) {
	dir := t.TempDir()
	data := bytes.Repeat([]byte("0123456789abcdef"), 1<<16)
	src := writeSource(t, dir, "src.img", data, 0644)
	dst := filepath.Join(dir, "dst.img")

	n, err := engine.CopyFile(src, dst)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)

	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(data, content))
}

func TestCopyFile_ExistingDestination(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "src.img", []byte("new"), 0644)
	dst := writeSource(t, dir, "dst.img", []byte("old"), 0644)

	_, err := engine.CopyFile(src, dst)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errclass.ErrDestExists))

	content, _ := os.ReadFile(dst)
	assert.Equal(t, "old", string(content))
}

func TestCopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "dst.img")

	_, err := engine.CopyFile(filepath.Join(dir, "nope"), dst)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.NoFileExists(t, dst)
}

func TestCopyFile_DirectorySource(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "dst.img")

	_, err := engine.CopyFile(t.TempDir(), dst)
	require.Error(t, err)
	assert.NoFileExists(t, dst)
}

// TestReflinkFile_SucceedsOrLeavesNothing accepts both outcomes, depending on the filesystem.
func TestReflinkFile_SucceedsOrLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "src.img", []byte("cow"), 0644)
	dst := filepath.Join(dir, "dst.img")

	err := engine.ReflinkFile(src, dst)
	if err != nil {
		assert.True(t, engine.IsUnsupported(err), "unexpected error: %v", err)
		assert.NoFileExists(t, dst)
		return
	}

	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "cow", string(content))
}

func TestReflinkFile_ExistingDestinationUntouched(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "src.img", []byte("new"), 0644)
	dst := writeSource(t, dir, "dst.img", []byte("old"), 0644)

	err := engine.ReflinkFile(src, dst)
	require.Error(t, err)

	content, _ := os.ReadFile(dst)
	assert.Equal(t, "old", string(content))
}

func TestReflinkOrCopy(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "src.img", []byte("payload"), 0644)
	dst := filepath.Join(dir, "dst.img")

	fr, err := engine.ReflinkOrCopy(src, dst)
	require.NoError(t, err)
	assert.Equal(t, dst, fr.Path)
	assert.Contains(t, []model.CopyMethod{model.MethodReflink, model.MethodCopy}, fr.Method)
	if fr.Method == model.MethodCopy {
		assert.Equal(t, int64(7), fr.Bytes)
	}

	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(content))
}

// TestReflinkOrCopy_NoFallbackOnExistingDestination tests that a collision is not papered over by copying.
func TestReflinkOrCopy_NoFallbackOnExistingDestination(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "src.img", []byte("new"), 0644)
	dst := writeSource(t, dir, "dst.img", []byte("old"), 0644)

	_, err := engine.ReflinkOrCopy(src, dst)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errclass.ErrDestExists))

	content, _ := os.ReadFile(dst)
	assert.Equal(t, "old", string(content))
}

func TestReflinkOrCopy_MissingSource(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "dst.img")

	_, err := engine.ReflinkOrCopy(filepath.Join(dir, "nope"), dst)
	require.Error(t, err)
	assert.NoFileExists(t, dst)
}

func TestReflinkRange(t *testing.T) {
	dir := t.TempDir()
	data := bytes.Repeat([]byte{0xab}, 8192)
	srcPath := writeSource(t, dir, "src.img", data, 0644)

	src, err := os.Open(srcPath)
	require.NoError(t, err)
	defer src.Close()

	dst, err := os.OpenFile(filepath.Join(dir, "dst.img"), os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	require.NoError(t, err)
	defer dst.Close()

	err = engine.ReflinkRange(src, dst, 0, 0, int64(len(data)))
	if err != nil {
		assert.True(t, engine.IsUnsupported(err), "unexpected error: %v", err)
		return
	}

	got := make([]byte, len(data))
	_, err = dst.ReadAt(got, 0)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestReflinkRange_NegativeOffset(t *testing.T) {
	dir := t.TempDir()
	src, err := os.Create(filepath.Join(dir, "src"))
	require.NoError(t, err)
	defer src.Close()

	err = engine.ReflinkRange(src, src, -1, 0, 4096)
	assert.Error(t, err)
}
