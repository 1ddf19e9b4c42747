package extensions

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPreloader struct {
	names []string
	codes map[string]string
	fail  map[string]error
}

func newRecordingPreloader() *recordingPreloader {
	return &recordingPreloader{codes: map[string]string{}, fail: map[string]error{}}
}

func (p *recordingPreloader) Preload(_ context.Context, name, code string) error {
	if err := p.fail[name]; err != nil {
		return err
	}
	p.names = append(p.names, name)
	p.codes[name] = code
	return nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	t.Run("sorted matches only", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "b.star", "b = 1")
		writeFile(t, dir, "a.star", "a = 1")
		writeFile(t, dir, "notes.txt", "ignored")

		files, err := New(WithDirectory(dir, "")).Discover()
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "a.star"), filepath.Join(dir, "b.star")}, files)
	})

	t.Run("custom glob", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "a.star", "a = 1")
		writeFile(t, dir, "x.ext", "x = 1")

		files, err := New(WithDirectory(dir, "*.ext")).Discover()
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "x.ext")}, files)
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()
		files, err := New(WithDirectory(filepath.Join(t.TempDir(), "nope"), "")).Discover()
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("no directory configured", func(t *testing.T) {
		t.Parallel()
		files, err := New().Discover()
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("not a directory", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "file.star", "")
		_, err := New(WithDirectory(path, "")).Discover()
		assert.ErrorIs(t, err, ErrDirectory)
	})

	t.Run("bad pattern", func(t *testing.T) {
		t.Parallel()
		_, err := New(WithDirectory(t.TempDir(), "[")).Discover()
		assert.ErrorIs(t, err, ErrBadPattern)
	})
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("directory then uris then inline", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "b.star", "b = 2")
		writeFile(t, dir, "a.star", "a = 1")
		extra := writeFile(t, t.TempDir(), "extra.star", "extra = 3")

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("remote = 4"))
		}))
		defer srv.Close()
		remote := srv.URL + "/remote.star"

		target := newRecordingPreloader()
		n, err := New(
			WithDirectory(dir, ""),
			WithURIs("file://"+extra, remote),
			WithInline("inline", "inline = 5"),
		).Load(context.Background(), target)
		require.NoError(t, err)
		assert.Equal(t, 5, n)
		assert.Equal(t, []string{"a.star", "b.star", "file://" + extra, remote, "inline"}, target.names)
		assert.Equal(t, "remote = 4", target.codes[remote])
		assert.Equal(t, "inline = 5", target.codes["inline"])
	})

	t.Run("failures do not stop the rest", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "a.star", "a = 1")
		writeFile(t, dir, "b.star", "b = 2")

		target := newRecordingPreloader()
		target.fail["a.star"] = errors.New("syntax")

		n, err := New(WithDirectory(dir, "")).Load(context.Background(), target)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPreload)
		assert.Contains(t, err.Error(), "a.star")
		assert.Equal(t, 1, n)
		assert.Equal(t, []string{"b.star"}, target.names)
	})

	t.Run("missing uri", func(t *testing.T) {
		t.Parallel()
		target := newRecordingPreloader()
		_, err := New(WithURIs(filepath.Join(t.TempDir(), "gone.star"))).Load(context.Background(), target)
		require.Error(t, err)
		assert.Empty(t, target.names)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		n, err := New(WithInline("x", "x = 1")).Load(ctx, newRecordingPreloader())
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, n)
	})
}

func TestReadURI(t *testing.T) {
	t.Parallel()

	t.Run("relative and absolute file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := writeFile(t, dir, "hello.star", "greeting = 'hi'\n")

		code, err := ReadURI(path)
		require.NoError(t, err)
		assert.Equal(t, "greeting = 'hi'\n", code)

		code, err = ReadURI("file://" + path)
		require.NoError(t, err)
		assert.Equal(t, "greeting = 'hi'\n", code)
	})

	t.Run("http", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("x = 1\n"))
		}))
		t.Cleanup(srv.Close)

		code, err := ReadURI(srv.URL + "/x.star")
		require.NoError(t, err)
		assert.Equal(t, "x = 1\n", code)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := ReadURI(filepath.Join(t.TempDir(), "missing.star"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRead)
	})
}
