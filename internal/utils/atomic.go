package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// StagedFile is content synced to a temp file next to its destination,
// waiting for Commit to rename it into place.
type StagedFile struct {
	path string
	tmp  string
	done bool
}

// StageFile writes data to a temp file in path's directory and syncs it.
// The destination is untouched until Commit.
func StageFile(path string, data []byte, perm os.FileMode) (*StagedFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	staged := &StagedFile{path: path, tmp: tmp.Name()}

	if _, err := tmp.Write(data); err != nil {
		Close(tmp)
		staged.Discard()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		Close(tmp)
		staged.Discard()
		return nil, fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		staged.Discard()
		return nil, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(staged.tmp, perm); err != nil {
		staged.Discard()
		return nil, fmt.Errorf("chmod temp file: %w", err)
	}
	return staged, nil
}

// Commit renames the staged file over its destination.
func (s *StagedFile) Commit() error {
	if s.done {
		return fmt.Errorf("staged file for %s already settled", s.path)
	}
	if err := os.Rename(s.tmp, s.path); err != nil {
		s.Discard()
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	s.done = true
	return nil
}

// Discard removes the temp file. It is a no-op after Commit.
func (s *StagedFile) Discard() {
	if s.done {
		return
	}
	_ = os.Remove(s.tmp)
	s.done = true
}

// WriteFileAtomic writes data to a temp file next to path, syncs it and
// renames it over path. Readers see either the old or the new content.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	staged, err := StageFile(path, data, perm)
	if err != nil {
		return err
	}
	return staged.Commit()
}
