package persistence

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/awthompson/quill/blog/domain"
)

var _ domain.ImageStore = (*FSImageStore)(nil)

// urlPrefix is the path segment image files are served under. The stored
// relative path is what the browser sees after a leading slash.
const urlPrefix = "uploads"

// FSImageStore keeps uploaded image files on the local filesystem. File
// names derive from the upload time so concurrent uploads do not collide.
type FSImageStore struct {
	dir string
}

// NewImageStore creates an FSImageStore rooted at dir, creating the
// directory if needed.
func NewImageStore(dir string) (*FSImageStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}

	return &FSImageStore{dir: dir}, nil
}

// Save writes the image bytes to disk and returns the relative path the
// file is addressable under, e.g. "uploads/1700000000123456789.png".
func (s *FSImageStore) Save(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("image data cannot be empty")
	}

	name := fmt.Sprintf("%d%s", time.Now().UnixNano(), extensionFor(data))
	localPath := filepath.Join(s.dir, name)

	if err := os.WriteFile(localPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return path.Join(urlPrefix, name), nil
}

// Remove deletes the file behind a stored relative path. A missing file is
// not an error; the referencing row may simply have outlived it.
func (s *FSImageStore) Remove(storedPath string) error {
	if storedPath == "" {
		return nil
	}

	// Only the final element matters; this also keeps traversal characters
	// in a stored path from escaping the image directory.
	name := filepath.Base(storedPath)
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove image file: %w", err)
	}

	return nil
}

// extensionFor picks a file extension by sniffing the image bytes. The
// original filename never crosses the wire, so content type is all there
// is to go on.
func extensionFor(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".img"
	}
}
