package storage

import (
	"context"
	"os"
	"path/filepath"

	"raglite/raglite/utils/apperrors"
	"raglite/raglite/utils/logging"

	"go.uber.org/zap"
)

// LocalStorage keeps objects as plain files under a root directory.
type LocalStorage struct {
	root string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, apperrors.Storage("init", dir, err)
	}
	if err := os.MkdirAll(root, os.ModePerm); err != nil {
		return nil, apperrors.Storage("init", root, err)
	}
	logging.AppLogger.Info("local storage initialized", zap.String("dir", root))
	return &LocalStorage{root: root}, nil
}

// fullPath joins path onto the root. Cleaning the path against "/" first
// keeps ".." segments from escaping the root directory.
func (s *LocalStorage) fullPath(path string) string {
	return filepath.Join(s.root, filepath.Clean("/"+path))
}

func (s *LocalStorage) Upload(ctx context.Context, path string, data []byte) (string, error) {
	full := s.fullPath(path)
	if err := os.MkdirAll(filepath.Dir(full), os.ModePerm); err != nil {
		return "", apperrors.Storage("upload", path, err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", apperrors.Storage("upload", path, err)
	}
	logging.AppLogger.Info("file uploaded", zap.String("path", path))
	return path, nil
}

func (s *LocalStorage) Download(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(s.fullPath(path))
	if os.IsNotExist(err) {
		return nil, apperrors.NotFound(path)
	}
	if err != nil {
		return nil, apperrors.Storage("download", path, err)
	}
	return data, nil
}

func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	full := s.fullPath(path)
	err := os.Remove(full)
	if err != nil && !os.IsNotExist(err) {
		return apperrors.Storage("delete", path, err)
	}
	// Best effort: drop the parent directory if this was its last file.
	_ = os.Remove(filepath.Dir(full))
	return nil
}

func (s *LocalStorage) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(s.fullPath(path))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Storage("stat", path, err)
	}
	return true, nil
}

// URL returns the relative object path; local objects are only reachable
// through the application's own cover endpoint.
func (s *LocalStorage) URL(ctx context.Context, path string) (string, error) {
	return path, nil
}
