// Package archive opens input files that may be stored plain, gzip or zstd
// compressed, or inside a zip archive, and implements the pipeline source
// over three such files.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"

	"github.com/couchcryptid/near-space-etl/internal/config"
)

// ErrEmptyArchive is returned for a zip archive without a regular file.
var ErrEmptyArchive = errors.New("zip archive has no files")

// Open returns a reader over the decompressed content of path. The format
// is chosen by extension: .gz, .zst, .zip (first regular file) or plain.
func Open(path string) (io.ReadCloser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		return openZip(path)
	case ".gz":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		return &stackedCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case ".zst":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		zr, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd %s: %w", path, err)
		}
		return &stackedCloser{Reader: zr, closers: []io.Closer{zr.IOReadCloser(), f}}, nil
	default:
		return os.Open(path)
	}
}

func openZip(path string) (io.ReadCloser, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("zip %s: %w", path, err)
	}
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			zr.Close()
			return nil, fmt.Errorf("zip %s: open %s: %w", path, entry.Name, err)
		}
		return &stackedCloser{Reader: rc, closers: []io.Closer{rc, zr}}, nil
	}
	zr.Close()
	return nil, fmt.Errorf("%s: %w", path, ErrEmptyArchive)
}

// Create opens path for writing, compressing by extension (.gz, .zst).
// Parent directories are created.
func Create(path string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zw := gzip.NewWriter(f)
		return &stackedWriter{Writer: zw, closers: []io.Closer{zw, f}}, nil
	case ".zst":
		zw, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &stackedWriter{Writer: zw, closers: []io.Closer{zw, f}}, nil
	default:
		return f, nil
	}
}

// stackedCloser closes every layer in order and reports the first error.
type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	return closeAll(s.closers)
}

type stackedWriter struct {
	io.Writer
	closers []io.Closer
}

func (s *stackedWriter) Close() error {
	return closeAll(s.closers)
}

func closeAll(closers []io.Closer) error {
	var first error
	for _, c := range closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// FileSource reads the three pipeline inputs from the filesystem.
type FileSource struct {
	Soundings             string
	OpticalDepth          string
	SpectralDeconvolution string
}

// NewFileSource uses the input paths from cfg.
func NewFileSource(cfg *config.Config) *FileSource {
	return &FileSource{
		Soundings:             cfg.IGRAFile,
		OpticalDepth:          cfg.AODFile,
		SpectralDeconvolution: cfg.SDAFile,
	}
}

func (s *FileSource) OpenSoundings(context.Context) (io.ReadCloser, error) {
	return Open(s.Soundings)
}

func (s *FileSource) OpenOpticalDepth(context.Context) (io.ReadCloser, error) {
	return Open(s.OpticalDepth)
}

func (s *FileSource) OpenSpectralDeconvolution(context.Context) (io.ReadCloser, error) {
	return Open(s.SpectralDeconvolution)
}
