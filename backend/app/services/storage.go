package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileStore keeps converted files on disk under generated names.
type FileStore struct {
	Dir string
	now func() time.Time
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{Dir: dir, now: time.Now}, nil
}

// Create opens a new file with a fresh name keeping ext.
func (s *FileStore) Create(ext string) (*os.File, string, error) {
	name := uuid.NewString() + ext
	f, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return nil, "", err
	}
	return f, name, nil
}

// Open opens a stored file. name must be a bare file name.
func (s *FileStore) Open(name string) (*os.File, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return nil, os.ErrNotExist
	}
	return os.Open(filepath.Join(s.Dir, name))
}

// Sweep removes files older than maxAge and returns how many went.
func (s *FileStore) Sweep(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return 0, err
	}
	cutoff := s.now().Add(-maxAge)
	n := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.Dir, e.Name())); err == nil {
			n++
		}
	}
	return n, nil
}

// copyTo streams a stored file into w.
func (s *FileStore) copyTo(w io.Writer, name string) error {
	f, err := s.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
