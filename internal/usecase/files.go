package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path"
	"strings"

	repo "shopease/internal/repository"

	"github.com/google/uuid"
)

const (
	imagePrefix    = "images/"
	documentPrefix = "documents/"

	// ImageURLPrefix is where product images are served.
	ImageURLPrefix = "/images/"
)

var (
	imageExts    = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}
	documentExts = map[string]bool{".pdf": true, ".jpg": true, ".jpeg": true, ".png": true}
)

// FileUpload is one multipart file as handed over by a handler.
type FileUpload struct {
	Filename    string
	Size        int64
	ContentType string
	Body        io.Reader
}

func uploadExt(f FileUpload, allowed map[string]bool) (string, bool) {
	ext := strings.ToLower(path.Ext(f.Filename))
	return ext, allowed[ext]
}

func checkUpload(f FileUpload, allowed map[string]bool, maxBytes int64, field string) (string, error) {
	ext, ok := uploadExt(f, allowed)
	if !ok {
		return "", ErrValidation(fmt.Sprintf("%s: unsupported file type %q", field, ext))
	}
	if f.Size <= 0 {
		return "", ErrValidation(fmt.Sprintf("%s: file is empty", field))
	}
	if maxBytes > 0 && f.Size > maxBytes {
		return "", ErrValidation(fmt.Sprintf("%s: file exceeds %d bytes", field, maxBytes))
	}
	return ext, nil
}

func newObjectKey(prefix, ext string) string {
	return prefix + uuid.NewString() + ext
}

// imageURL maps an image key to its public path.
func imageURL(key string) string {
	return ImageURLPrefix + strings.TrimPrefix(key, imagePrefix)
}

// ImageKeyFromPath is the inverse of imageURL for the /images route.
func ImageKeyFromPath(p string) string {
	return imagePrefix + strings.TrimPrefix(p, "/")
}

// releaseObjects deletes stored objects best-effort. Every failure is logged
// and returned as a warning line; it never fails the caller.
func releaseObjects(ctx context.Context, store repo.ObjectStore, logger *slog.Logger, reason string, keys ...string) []string {
	var warnings []string
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := store.Delete(ctx, key); err != nil {
			logger.WarnContext(ctx, "object delete failed",
				slog.String("key", key),
				slog.String("reason", reason),
				slog.Any("error", err),
			)
			warnings = append(warnings, fmt.Sprintf("failed to delete stored file %s", path.Base(key)))
		}
	}
	return warnings
}

func contentTypeOf(key string) string {
	if ct := mime.TypeByExtension(strings.ToLower(path.Ext(key))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
