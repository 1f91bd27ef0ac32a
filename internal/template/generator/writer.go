package generator

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Writer persists generated output.
type Writer interface {
	// WriteFile atomically replaces path with content.
	WriteFile(path string, content []byte, mode os.FileMode) error

	// CreateDir creates a directory and any necessary parent directories.
	CreateDir(path string) error

	// Exists checks if a file or directory exists at the given path.
	Exists(path string) bool
}

// FileWriterOptions configures a FileWriter.
type FileWriterOptions struct {
	// PreserveExecutable keeps the executable bits of the template file.
	// Otherwise files are written 0644.
	PreserveExecutable bool
	Logger             *slog.Logger
}

// FileWriter implements Writer on the local filesystem.
type FileWriter struct {
	preserveExecutable bool
	logger             *slog.Logger
}

// NewFileWriter creates a new FileWriter.
func NewFileWriter(opts FileWriterOptions) *FileWriter {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &FileWriter{
		preserveExecutable: opts.PreserveExecutable,
		logger:             opts.Logger,
	}
}

// WriteFile writes content through a temporary sibling file and a rename, so a
// reader never observes a partial file.
func (w *FileWriter) WriteFile(path string, content []byte, mode os.FileMode) error {
	w.logger.Debug("writing file", "path", path, "bytes", len(content), "mode", mode)

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := w.CreateDir(dir); err != nil {
			return err
		}
	}

	fileMode := os.FileMode(0644)
	if w.preserveExecutable && mode&0111 != 0 {
		fileMode = mode.Perm() | 0600
	}

	tempFile := path + ".tmp"
	f, err := os.OpenFile(tempFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fileMode)
	if err != nil {
		return newGeneratorError(FilesystemFailed, "failed to create temporary file", path, err)
	}

	_, err = f.Write(content)
	closeErr := f.Close()

	if err != nil {
		_ = os.Remove(tempFile)
		return newGeneratorError(FilesystemFailed, "failed to write file content", path, err)
	}
	if closeErr != nil {
		_ = os.Remove(tempFile)
		return newGeneratorError(FilesystemFailed, "failed to close file", path, closeErr)
	}

	if err := os.Rename(tempFile, path); err != nil {
		_ = os.Remove(tempFile)
		return newGeneratorError(FilesystemFailed, "failed to rename temporary file", path, err)
	}

	return nil
}

// CreateDir creates a directory and any necessary parent directories with 0755.
func (w *FileWriter) CreateDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return newGeneratorError(FilesystemFailed, "failed to create directory", path, err)
	}
	return nil
}

// Exists checks if a file or directory exists at the given path.
func (w *FileWriter) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// readPrior returns the content at path, or nil when there is no file.
func readPrior(path string) (*string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, newGeneratorError(FilesystemFailed, "failed to read existing output", path, err)
	}
	s := string(data)
	return &s, nil
}
