package archive

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const content = "#USM00072403 2015 01 15 00 9999    3\n"

func readAll(t *testing.T, path string) string {
	t.Helper()
	rc, err := Open(path)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func TestCreateOpen_RoundTrip(t *testing.T) {
	for _, name := range []string{"data.txt", "data.txt.gz", "data.txt.zst", "nested/dir/data.txt.GZ"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			w, err := Create(path)
			require.NoError(t, err)
			_, err = io.WriteString(w, content)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			assert.Equal(t, content, readAll(t, path))
		})
	}
}

func TestCreate_Compresses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.gz")
	w, err := Create(path)
	require.NoError(t, err)
	_, err = io.WriteString(w, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1f, 0x8b}, raw[:2])
}

func writeZip(t *testing.T, path string, entries map[string]string, dirs ...string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, d := range dirs {
		_, err := zw.Create(d + "/")
		require.NoError(t, err)
	}
	for name, body := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(w, body)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestOpen_Zip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "USM00072403-data.txt.zip")
	writeZip(t, path, map[string]string{"USM00072403-data.txt": content}, "docs")

	assert.Equal(t, content, readAll(t, path))
}

func TestOpen_EmptyZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.zip")
	writeZip(t, path, nil, "only-a-dir")

	_, err := Open(path)
	require.ErrorIs(t, err, ErrEmptyArchive)
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(filepath.Join(dir, "missing.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = Open(filepath.Join(dir, "missing.gz"))
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.gz")
	require.NoError(t, os.WriteFile(bad, []byte("not gzip"), 0o600))
	_, err = Open(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gzip")
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	paths := map[string]string{
		"igra": filepath.Join(dir, "igra.txt.gz"),
		"aod":  filepath.Join(dir, "aod.lev20"),
		"sda":  filepath.Join(dir, "sda.ONEILL_lev20"),
	}
	for key, p := range paths {
		w, err := Create(p)
		require.NoError(t, err)
		_, err = io.WriteString(w, key)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}

	src := &FileSource{Soundings: paths["igra"], OpticalDepth: paths["aod"], SpectralDeconvolution: paths["sda"]}
	ctx := context.Background()
	for key, open := range map[string]func(context.Context) (io.ReadCloser, error){
		"igra": src.OpenSoundings,
		"aod":  src.OpenOpticalDepth,
		"sda":  src.OpenSpectralDeconvolution,
	} {
		rc, err := open(ctx)
		require.NoError(t, err, key)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, key, string(b))
	}
}
