package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// cacheFileExtension is the file extension used for cache records.
const cacheFileExtension = ".json"

// Common cache errors.
var (
	ErrCacheMissing     = errors.New("cache record not found")
	ErrCacheUnreadable  = errors.New("cache record unreadable")
	ErrCacheWriteFailed = errors.New("cache record write failed")
	ErrInvalidName      = errors.New("cache record name cannot be empty")
)

// Store reads and writes named JSON records in a single directory.
//
// A Store is not safe for concurrent writes to the same record; callers load each
// dataset at most once per run.
type Store struct {
	// directory is the cache directory path. It may not exist yet.
	directory string

	// now returns the current wall-clock time.
	now func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the clock used to compute record ages.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a store rooted at directory.
// The directory is not created until the first Write.
func NewStore(directory string, opts ...StoreOption) (*Store, error) {
	if directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}

	s := &Store{
		directory: directory,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Exists reports whether the named record is present.
// Only a definite "not found" counts as absent: a missing file, or a path component
// that is not a directory. Any other stat failure is treated as present so that Age
// and Read surface the real I/O problem.
func (s *Store) Exists(name string) bool {
	if name == "" {
		return false
	}
	_, err := os.Stat(s.Path(name))
	return !isNotExist(err)
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

// Age returns the wall-clock time since the named record was last modified.
func (s *Store) Age(name string) (time.Duration, error) {
	if name == "" {
		return 0, ErrInvalidName
	}

	info, err := os.Stat(s.Path(name))
	if err != nil {
		if isNotExist(err) {
			return 0, fmt.Errorf("%w: %s", ErrCacheMissing, name)
		}
		return 0, fmt.Errorf("%w: stat %s: %w", ErrCacheUnreadable, name, err)
	}

	age := s.now().Sub(info.ModTime())
	if age < 0 {
		return 0, fmt.Errorf("%w: %s modification time %s is in the future",
			ErrCacheUnreadable, name, info.ModTime().Format(time.RFC3339))
	}
	return age, nil
}

// Read returns the raw bytes of the named record.
func (s *Store) Read(name string) ([]byte, error) {
	if name == "" {
		return nil, ErrInvalidName
	}

	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if isNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrCacheMissing, name)
		}
		return nil, fmt.Errorf("%w: read %s: %w", ErrCacheUnreadable, name, err)
	}
	return data, nil
}

// Write replaces the named record with data, creating the cache directory if needed.
// The content is written to a temporary file first and renamed into place, so readers
// never observe a half-written record.
func (s *Store) Write(name string, data []byte) error {
	if name == "" {
		return ErrInvalidName
	}

	if err := os.MkdirAll(s.directory, 0750); err != nil {
		return fmt.Errorf("%w: create cache directory: %w", ErrCacheWriteFailed, err)
	}

	filePath := s.Path(name)
	tmp, err := os.CreateTemp(s.directory, filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file for %s: %w", ErrCacheWriteFailed, name, err)
	}
	tempPath := tmp.Name()

	if _, writeErr := tmp.Write(data); writeErr != nil {
		_ = tmp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("%w: write %s: %w", ErrCacheWriteFailed, name, writeErr)
	}
	if closeErr := tmp.Close(); closeErr != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("%w: close %s: %w", ErrCacheWriteFailed, name, closeErr)
	}

	if renameErr := os.Rename(tempPath, filePath); renameErr != nil {
		_ = os.Remove(tempPath) // Clean up temp file on error
		return fmt.Errorf("%w: rename %s: %w", ErrCacheWriteFailed, name, renameErr)
	}

	return nil
}

// Dir returns the cache directory path.
func (s *Store) Dir() string {
	return s.directory
}

// Path returns the file path of the named record.
// The name is sanitized to ensure filesystem safety.
func (s *Store) Path(name string) string {
	safeName := strings.ReplaceAll(name, "/", "_")
	safeName = strings.ReplaceAll(safeName, "\\", "_")
	safeName = strings.ReplaceAll(safeName, ":", "_")
	return filepath.Join(s.directory, safeName+cacheFileExtension)
}
