package scan

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// MaxLineSize is the longest log line a source will read.
const MaxLineSize = 1024 * 1024

// Source provides an iterator over log lines.
// Implementations must be safe for sequential access (not concurrent).
type Source interface {
	// Next returns the next line. It returns io.EOF when no more lines
	// are available.
	Next(ctx context.Context) (*Line, error)

	// Close releases any resources held by the source.
	Close() error
}

// FileSource reads lines from a list of files in order. Files ending in
// .gz or .zst are decompressed.
type FileSource struct {
	files []string

	currentFile    *os.File
	currentReader  io.ReadCloser
	currentScanner *bufio.Scanner
	currentSource  string
	currentLine    int
	fileIndex      int
}

// NewFileSource creates a Source that reads from the given files.
func NewFileSource(files []string) *FileSource {
	return &FileSource{
		files:     files,
		fileIndex: -1,
	}
}

// Next returns the next line. Returns io.EOF when all files have been
// exhausted.
func (s *FileSource) Next(ctx context.Context) (*Line, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if s.currentScanner == nil {
			if err := s.openNextFile(); err != nil {
				return nil, err
			}
		}

		if s.currentScanner.Scan() {
			s.currentLine++
			return &Line{
				Content: s.currentScanner.Text(),
				Source:  s.currentSource,
				LineNum: s.currentLine,
			}, nil
		}

		if err := s.currentScanner.Err(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.currentSource, err)
		}

		if err := s.closeCurrentFile(); err != nil {
			return nil, err
		}
	}
}

// Close releases resources.
func (s *FileSource) Close() error {
	return s.closeCurrentFile()
}

func (s *FileSource) openNextFile() error {
	s.fileIndex++
	if s.fileIndex >= len(s.files) {
		return io.EOF
	}

	path := s.files[s.fileIndex]
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", path, err)
	}

	r, err := decompress(path, f)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("opening log file %s: %w", path, err)
	}

	s.currentFile = f
	s.currentReader = r
	s.currentScanner = bufio.NewScanner(r)
	s.currentScanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	s.currentSource = path
	s.currentLine = 0

	return nil
}

func (s *FileSource) closeCurrentFile() error {
	if s.currentFile == nil {
		return nil
	}
	rerr := s.currentReader.Close()
	err := s.currentFile.Close()
	s.currentFile = nil
	s.currentReader = nil
	s.currentScanner = nil
	if rerr != nil {
		return rerr
	}
	return err
}

// decompress wraps f in a decoder chosen by the file extension.
func decompress(path string, f *os.File) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(path, ".gz"):
		return gzip.NewReader(f)
	case strings.HasSuffix(path, ".zst"):
		d, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	default:
		return io.NopCloser(f), nil
	}
}

// ReaderSource reads lines from a single reader, such as standard input.
type ReaderSource struct {
	name    string
	scanner *bufio.Scanner
	line    int
}

// NewReaderSource creates a Source over r. Lines are attributed to name.
func NewReaderSource(name string, r io.Reader) *ReaderSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return &ReaderSource{name: name, scanner: scanner}
}

// Next returns the next line or io.EOF.
func (s *ReaderSource) Next(ctx context.Context) (*Line, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.name, err)
		}
		return nil, io.EOF
	}
	s.line++
	return &Line{Content: s.scanner.Text(), Source: s.name, LineNum: s.line}, nil
}

// Close is a no-op.
func (s *ReaderSource) Close() error {
	return nil
}
