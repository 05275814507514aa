package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"insiderdash/internal/files"
)

// StdinName selects standard input as the dataset source
const StdinName = "-"

// Source provides the raw disclosure bytes. Open is called once per cache
// window; each call must yield the current content.
type Source interface {
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
	// Available reports whether Open is expected to succeed
	Available() error
}

// FileSource reads the dataset from a path on disk
type FileSource struct {
	Path string
}

// Name returns the file path
func (s FileSource) Name() string {
	return s.Path
}

// Open opens the file for reading
func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return os.Open(s.Path)
}

// Available checks that the path exists and is a regular file
func (s FileSource) Available() error {
	info, err := os.Stat(s.Path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", s.Path)
	}
	return nil
}

// ReaderSource drains a reader on first use and replays its bytes on every
// later Open, so a stream such as stdin can back a reloadable cache.
type ReaderSource struct {
	name string

	mu   sync.Mutex
	r    io.Reader
	data []byte
	err  error
}

// NewReaderSource wraps r under the given name
func NewReaderSource(name string, r io.Reader) *ReaderSource {
	return &ReaderSource{name: name, r: r}
}

// Name returns the source name
func (s *ReaderSource) Name() string {
	return s.name
}

// Open returns the buffered content, reading the wrapped reader once
func (s *ReaderSource) Open(ctx context.Context) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.r != nil {
		s.data, s.err = io.ReadAll(s.r)
		s.r = nil
	}
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

// Available always succeeds; read errors surface from Open
func (s *ReaderSource) Available() error {
	return nil
}

// DirectorySource reads the newest file of a directory matching Pattern.
// The choice is made on every Open, so a reload picks up a newly added
// export.
type DirectorySource struct {
	Dir     string
	Pattern string

	discovery *files.Discovery
}

// NewDirectorySource creates a DirectorySource; an empty pattern matches
// any CSV file
func NewDirectorySource(dir, pattern string) *DirectorySource {
	return &DirectorySource{Dir: dir, Pattern: pattern, discovery: files.NewDiscovery("")}
}

// Name returns the directory and pattern
func (s *DirectorySource) Name() string {
	if s.Pattern == "" {
		return s.Dir
	}
	return filepath.Join(s.Dir, s.Pattern)
}

// Current returns the path Open would read
func (s *DirectorySource) Current() (string, error) {
	latest, err := s.discovery.Latest(s.Dir, s.Pattern)
	if err != nil {
		return "", err
	}
	return latest.Path, nil
}

// Open opens the newest matching file
func (s *DirectorySource) Open(ctx context.Context) (io.ReadCloser, error) {
	path, err := s.Current()
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Available checks that a matching file exists
func (s *DirectorySource) Available() error {
	_, err := s.Current()
	return err
}

// NewSource maps a configured data path onto a Source: "-" means stdin and
// a directory means its newest file matching pattern
func NewSource(path, pattern string) Source {
	if path == StdinName {
		return NewReaderSource("stdin", os.Stdin)
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return NewDirectorySource(path, pattern)
	}
	return FileSource{Path: path}
}
