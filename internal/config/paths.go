package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// resolvePaths anchors relative file paths to the directory of the config
// file they were read from. Without a config file they stay relative to the
// working directory.
func (c *Config) resolvePaths() error {
	if c.source == "" {
		return nil
	}

	base, err := filepath.Abs(filepath.Dir(c.source))
	if err != nil {
		return fmt.Errorf("failed to resolve config directory: %w", err)
	}

	c.Pipeline.DataFile = ResolvePath(base, c.Pipeline.DataFile)
	if c.Logging.Output != "console" {
		c.Logging.FilePath = ResolvePath(base, c.Logging.FilePath)
	}
	return nil
}

// ResolvePath joins p onto base unless p is absolute, empty or stdin ("-")
func ResolvePath(base, p string) string {
	if p == "" || p == "-" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// EnsureDir creates the parent directory of path if it does not exist
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
