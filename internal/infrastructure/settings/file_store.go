package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore reads and atomically rewrites the settings file.
type FileStore struct {
	path string
}

// NewFileStore creates a new FileStore.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the path to the settings file.
func (s *FileStore) Path() string {
	return s.path
}

// Read returns the file contents. A missing file is not an error; exists
// reports whether it was found.
func (s *FileStore) Read() (data []byte, exists bool, err error) {
	data, err = os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read settings file: %w", err)
	}
	return data, true, nil
}

// Write replaces the file contents. The data goes to a temporary file in
// the same directory which is then renamed over the target, so readers
// never see a partial document.
func (s *FileStore) Write(data []byte) (err error) {
	dir := filepath.Dir(s.path)
	//nolint:gosec // G301: 0o755 is standard for user config directories
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary settings file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name()) // Best-effort cleanup
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync settings: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close settings: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("failed to set settings permissions: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace settings file: %w", err)
	}
	return nil
}
