package storage

import (
	"context"
	"io"
	"mime"
	"path"
	"strings"

	"shopease/internal/config"
	repo "shopease/internal/repository"

	"github.com/pkg/errors"
)

// ErrObjectNotFound is returned by Get when the key does not exist.
var ErrObjectNotFound = repo.ErrObjectNotFound

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// Storage wraps an ObjectStorage backend with key validation.
// It satisfies repository.ObjectStore.
type Storage struct {
	backend ObjectStorage
}

func NewStorage(backend ObjectStorage) *Storage {
	return &Storage{backend: backend}
}

// New picks the backend named by STORAGE_BACKEND.
func New(cfg config.Config) (*Storage, error) {
	switch cfg.StorageBackend {
	case config.StorageMinio:
		client, err := NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		return NewStorage(client), nil
	case config.StorageLocal:
		return NewStorage(NewLocalDisk(cfg.UploadDir)), nil
	}
	return nil, errors.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

// CleanKey rejects absolute keys and keys escaping the bucket.
func CleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", errors.Errorf("invalid object key %q", key)
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.Errorf("invalid object key %q", key)
	}
	return cleaned, nil
}

func (s *Storage) EnsureBucket(ctx context.Context) error {
	return errors.Wrapf(s.backend.EnsureBucket(ctx), "ensure bucket %s", s.backend.Bucket())
}

func (s *Storage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	key, err := CleanKey(key)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = ContentType(key)
	}
	return errors.Wrapf(s.backend.Put(ctx, key, r, size, contentType), "put %s", key)
}

func (s *Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	key, err := CleanKey(key)
	if err != nil {
		return nil, err
	}
	rc, err := s.backend.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, err
		}
		return nil, errors.Wrapf(err, "get %s", key)
	}
	return rc, nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	key, err := CleanKey(key)
	if err != nil {
		return err
	}
	return errors.Wrapf(s.backend.Delete(ctx, key), "delete %s", key)
}

func (s *Storage) Bucket() string {
	return s.backend.Bucket()
}

// ContentType guesses from the key's extension.
func ContentType(key string) string {
	if ct := mime.TypeByExtension(strings.ToLower(path.Ext(key))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
