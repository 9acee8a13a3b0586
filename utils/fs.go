package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileOperations provides file system utilities for the CLI
type FileOperations struct{}

// NewFileOperations creates a new FileOperations instance
func NewFileOperations() *FileOperations {
	return &FileOperations{}
}

// EnsureDir creates the parent directory of path if it doesn't exist
func (f *FileOperations) EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o700)
}

// FileExists checks if a file exists
func (f *FileOperations) FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// WriteFileAtomic writes data next to path and renames it into place, so a
// reader never observes a half-written session file
func (f *FileOperations) WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	if err := f.EnsureDir(path); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	partPath := path + ".part"
	file, err := os.OpenFile(partPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(partPath)
		}
	}()

	if _, err = file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err = os.Rename(partPath, path); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}
