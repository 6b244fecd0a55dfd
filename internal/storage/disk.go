package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store abstracts where destination images live. Save returns the stored
// file name, which is what gets persisted on the record; Remove is invoked by
// the services' post-persist cleanup hooks.
type Store interface {
	Save(file *multipart.FileHeader) (string, error)
	Remove(name string) error
	URL(name string) string
}

// DiskStore keeps uploads on the local filesystem under a single directory.
type DiskStore struct {
	dir     string
	baseURL string
	logger  *zap.Logger
}

// NewDiskStore creates a Store rooted at dir. Stored files are served under
// baseURL by the static file route.
func NewDiskStore(dir, baseURL string, logger *zap.Logger) *DiskStore {
	return &DiskStore{dir: dir, baseURL: baseURL, logger: logger}
}

// Save writes the uploaded file under a fresh unique name and returns it.
func (s *DiskStore) Save(file *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		s.logger.Error("Failed to ensure upload directory exists", zap.String("path", s.dir), zap.Error(err))
		return "", fmt.Errorf("failed to ensure upload directory %s: %w", s.dir, err)
	}

	ext := filepath.Ext(file.Filename)
	name := uuid.New().String() + ext
	dstPath := filepath.Join(s.dir, name)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file %s: %w", file.Filename, err)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		s.logger.Error("Failed to create upload target", zap.String("path", dstPath), zap.Error(err))
		return "", fmt.Errorf("failed to create upload target %s: %w", dstPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath) // do not leave a partial file behind
		return "", fmt.Errorf("failed to write uploaded file %s: %w", dstPath, err)
	}

	s.logger.Info("Saved uploaded file", zap.String("original_filename", file.Filename), zap.String("saved_path", dstPath))
	return name, nil
}

// Remove deletes a previously stored file. Missing files are not an error.
func (s *DiskStore) Remove(name string) error {
	if name == "" {
		return nil
	}
	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stored file %s: %w", path, err)
	}
	return nil
}

// URL returns the public URL for a stored file name.
func (s *DiskStore) URL(name string) string {
	if name == "" {
		return ""
	}
	return s.baseURL + "/" + filepath.Base(name)
}
