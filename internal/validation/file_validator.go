package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNotAFile is returned when a payload path names a directory
	ErrNotAFile = errors.New("path is a directory, not a file")
	// ErrPayloadTooLarge is returned when a payload exceeds the size limit
	ErrPayloadTooLarge = errors.New("payload file too large")
	// ErrUnsupportedExtension is returned for files with an unexpected extension
	ErrUnsupportedExtension = errors.New("unsupported file extension")
)

// OutputExtensions lists the document extensions the exporters write
var OutputExtensions = []string{".xlsx", ".csv"}

// FileValidator checks the files the table export CLI reads and writes
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// ValidatePayloadFile checks that path is a readable .json file of at most
// maxBytes. A non-positive maxBytes disables the size check.
func (v *FileValidator) ValidatePayloadFile(path string, maxBytes int64) error {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".json" {
		v.logger.Error("Payload is not a JSON file",
			slog.String("file", path),
			slog.String("extension", ext))
		return fmt.Errorf("%w: %s (want .json)", ErrUnsupportedExtension, path)
	}

	info, err := v.validateFile(path)
	if err != nil {
		return err
	}

	if maxBytes > 0 && info.Size() > maxBytes {
		v.logger.Error("Payload file too large",
			slog.String("file", path),
			slog.Int64("size", info.Size()),
			slog.Int64("limit", maxBytes))
		return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrPayloadTooLarge, path, info.Size(), maxBytes)
	}

	return nil
}

// ValidateOutputPath ensures the document can be written to path. path is
// either an existing directory or a file whose extension is one of
// OutputExtensions; missing parent directories are created.
func (v *FileValidator) ValidateOutputPath(path string) error {
	dir := path
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		ext := strings.ToLower(filepath.Ext(path))
		if !isOutputExtension(ext) {
			v.logger.Error("Output file has an unsupported extension",
				slog.String("file", path),
				slog.String("extension", ext))
			return fmt.Errorf("%w: %s (want one of %s)", ErrUnsupportedExtension, path, strings.Join(OutputExtensions, ", "))
		}
		dir = filepath.Dir(path)
	}

	return v.ValidateOutputDirectory(dir)
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	file, err := os.CreateTemp(dir, ".write_test-*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	name := file.Name()
	file.Close()
	os.Remove(name)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// validateFile checks that path exists, is not a directory and can be opened
func (v *FileValidator) validateFile(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return nil, fmt.Errorf("%w: %s", ErrNotAFile, path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return info, nil
}

func isOutputExtension(ext string) bool {
	for _, allowed := range OutputExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
