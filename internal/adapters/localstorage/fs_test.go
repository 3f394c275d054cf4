package localstorage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkDirIsUnique(t *testing.T) {
	s := NewLocalStorage(t.TempDir())

	a, err := s.NewWorkDir(PrefixYouTube)
	require.NoError(t, err)
	b, err := s.NewWorkDir(PrefixYouTube)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(filepath.Base(a), PrefixYouTube))
	assert.DirExists(t, a)
	assert.DirExists(t, b)
}

func TestSaveUploadKeepsExtension(t *testing.T) {
	s := NewLocalStorage(t.TempDir())

	path, err := s.SaveUpload(context.Background(), strings.NewReader("audio-bytes"), "Meeting.MP3")
	require.NoError(t, err)

	assert.Equal(t, ".mp3", filepath.Ext(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), PrefixUpload))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "audio-bytes", string(data))
}

func TestNewLocalStorageUsesOwnRoot(t *testing.T) {
	base := t.TempDir()
	s := NewLocalStorage(base)
	assert.Equal(t, filepath.Join(base, RootName), s.BaseDir)

	dir, err := s.NewWorkDir(PrefixMedia)
	require.NoError(t, err)
	assert.Equal(t, s.BaseDir, filepath.Dir(dir))
}

func TestSaveUploadCanceled(t *testing.T) {
	s := NewLocalStorage(t.TempDir())
	dir := s.BaseDir

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.SaveUpload(ctx, strings.NewReader("x"), "a.wav")
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "partial upload must be removed")
}

func TestRemove(t *testing.T) {
	s := NewLocalStorage(t.TempDir())
	dir, err := s.NewWorkDir(PrefixMedia)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "audio.mp3"), []byte("x"), 0644))

	require.NoError(t, s.Remove(context.Background(), dir))
	assert.NoDirExists(t, dir)

	assert.NoError(t, s.Remove(context.Background(), dir), "removing twice is fine")
	assert.NoError(t, s.Remove(context.Background(), ""))
}

func TestSweep(t *testing.T) {
	s := NewLocalStorage(t.TempDir())
	root := s.BaseDir

	stale, err := s.NewWorkDir(PrefixYouTube)
	require.NoError(t, err)
	fresh, err := s.NewWorkDir(PrefixYouTube)
	require.NoError(t, err)
	foreign := filepath.Join(root, "someone_else")
	require.NoError(t, os.Mkdir(foreign, 0755))

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))
	require.NoError(t, os.Chtimes(foreign, old, old))

	n, err := s.Sweep(context.Background(), 24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	assert.NoDirExists(t, stale)
	assert.DirExists(t, fresh)
	assert.DirExists(t, foreign)
}

func TestSweepLeavesSharedTempDirAlone(t *testing.T) {
	shared := t.TempDir()
	s := NewLocalStorage(shared)

	stale, err := s.SaveUpload(context.Background(), strings.NewReader("x"), "talk.mp3")
	require.NoError(t, err)

	// files other programs left in the shared temp dir, including one in our root
	// that only looks like an upload
	outside := filepath.Join(shared, "upload_tax_return_2025.pdf")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0644))
	inside := filepath.Join(s.BaseDir, "upload_tax_return_2025.pdf")
	require.NoError(t, os.WriteFile(inside, []byte("x"), 0644))

	old := time.Now().Add(-48 * time.Hour)
	for _, p := range []string{stale, outside, inside} {
		require.NoError(t, os.Chtimes(p, old, old))
	}

	n, err := s.Sweep(context.Background(), 24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, outside)
	assert.FileExists(t, inside)
}

func TestSweepMissingRoot(t *testing.T) {
	s := NewLocalStorage(filepath.Join(t.TempDir(), "missing"))
	n, err := s.Sweep(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)
}
