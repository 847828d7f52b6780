package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// PhotoSubdir is the directory under the upload root that holds post photos.
const PhotoSubdir = "post_photos"

// ErrFileTooLarge is returned when an upload exceeds the configured limit.
var ErrFileTooLarge = errors.New("file too large")

// ErrUnsupportedImage is returned for uploads whose extension is not an image type.
var ErrUnsupportedImage = errors.New("unsupported image type")

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// SavePhoto copies r into root/post_photos under a random name that keeps the
// extension of filename. It returns the slash separated path relative to root.
func SavePhoto(root, filename string, r io.Reader, maxBytes int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !imageExts[ext] {
		return "", ErrUnsupportedImage
	}
	dir := filepath.Join(root, PhotoSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	name := uuid.NewString() + ext
	dst := filepath.Join(dir, name)
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	// Read one byte past the limit to detect oversized uploads
	written, err := io.Copy(out, &io.LimitedReader{R: r, N: maxBytes + 1})
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("write file: %w", err)
	}
	if written > maxBytes {
		_ = os.Remove(dst)
		return "", ErrFileTooLarge
	}
	return path.Join(PhotoSubdir, name), nil
}

// RemovePhoto deletes a stored photo. Missing files and empty paths are ignored.
func RemovePhoto(root, rel string) {
	if rel == "" {
		return
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return
	}
	if err := os.Remove(filepath.Join(root, clean)); err != nil && !os.IsNotExist(err) {
		Sugar.Warnf("remove photo %s: %v", rel, err)
	}
}
