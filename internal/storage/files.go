// Package storage manages the on-disk upload area backing the file
// manager routes.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidFilename = errors.New("invalid filename")
	ErrFileNotFound    = errors.New("file not found")
)

// FileInfo is one entry of the upload directory listing.
type FileInfo struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// FileStore serves a single flat upload directory. Every name that crosses
// its boundary is sanitized, so path traversal cannot reach outside root.
type FileStore struct {
	root string
}

// NewFileStore creates the upload directory if needed.
func NewFileStore(root string) (*FileStore, error) {
	if root == "" {
		return nil, fmt.Errorf("upload directory cannot be empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &FileStore{root: root}, nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename flattens any path components out of name and strips
// characters outside [A-Za-z0-9_.-]. Returns ErrInvalidFilename when
// nothing usable remains.
func SanitizeFilename(name string) (string, error) {
	// Drop directory components from either separator convention.
	name = name[strings.LastIndexAny(name, `/\`)+1:]
	name = unsafeChars.ReplaceAllString(strings.TrimSpace(name), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "", ErrInvalidFilename
	}
	return name, nil
}

// Save streams src into the store under a sanitized version of name and
// returns the name actually used.
func (s *FileStore) Save(name string, src io.Reader) (string, error) {
	safe, err := SanitizeFilename(name)
	if err != nil {
		return "", err
	}
	dst, err := os.Create(filepath.Join(s.root, safe))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("write file: %w", err)
	}
	logrus.WithFields(logrus.Fields{"name": safe, "bytes": written}).Info("File stored")
	return safe, nil
}

// List returns the directory contents sorted by name. Subdirectories are
// skipped; the store is flat.
func (s *FileStore) List() ([]FileInfo, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read upload directory: %w", err)
	}
	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{Name: entry.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Path resolves name to its absolute location inside the store, for
// serving downloads. Returns ErrFileNotFound when it does not exist.
func (s *FileStore) Path(name string) (string, error) {
	safe, err := SanitizeFilename(name)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.root, safe)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", ErrFileNotFound
		}
		return "", fmt.Errorf("stat file: %w", err)
	}
	return path, nil
}

// Remove deletes name from the store.
func (s *FileStore) Remove(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove file: %w", err)
	}
	logrus.WithField("name", filepath.Base(path)).Info("File removed")
	return nil
}
