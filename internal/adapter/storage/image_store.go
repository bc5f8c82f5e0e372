package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "places-service/pkg/errors"
)

// PublicPrefix is the URL path under which stored images are served.
const PublicPrefix = "uploads/images"

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

var (
	errInvalidMime  = apperrors.NewValidationError("", "Invalid mime type!")
	errFileTooLarge = apperrors.NewValidationError("", "File too large.")
)

// LocalImageStore keeps uploaded images on the local filesystem.
type LocalImageStore struct {
	dir      string
	maxBytes int64
	log      *zap.Logger
}

// NewLocalImageStore creates the upload directory if needed.
func NewLocalImageStore(dir string, maxBytes int64, log *zap.Logger) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalImageStore{dir: filepath.Clean(dir), maxBytes: maxBytes, log: log}, nil
}

// Dir returns the directory images are written to.
func (s *LocalImageStore) Dir() string {
	return s.dir
}

// Save stores a png or jpeg upload under a fresh name and returns its public path.
// The content type is detected from the file body, not the client header.
func (s *LocalImageStore) Save(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", apperrors.NewValidationError("image", "No file provided")
	}
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return "", errFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("detect upload type: %w", err)
	}
	ext, ok := extensions[mt.String()]
	if !ok {
		s.log.Debug("rejected upload", zap.String("mime", mt.String()), zap.String("filename", fh.Filename))
		return "", errInvalidMime
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	name := uuid.NewString() + ext
	dstPath := filepath.Join(s.dir, name)
	dst, err := os.OpenFile(dstPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("close image file: %w", err)
	}

	return PublicPrefix + "/" + name, nil
}

// Remove deletes a stored image by its public path. Paths outside the upload
// directory are rejected and a missing file is not an error.
func (s *LocalImageStore) Remove(publicPath string) error {
	clean := path.Clean(publicPath)
	name := path.Base(clean)
	if path.Dir(clean) != PublicPrefix || strings.HasPrefix(name, ".") {
		return fmt.Errorf("refusing to remove %q outside %q", publicPath, PublicPrefix)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}
