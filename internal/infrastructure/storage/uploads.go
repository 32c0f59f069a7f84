// Package storage implements the upload pipeline: parse → temp write →
// validate → move. The temp file is removed on every failure path so no
// orphaned or half-written file survives a rejected upload.
package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/inkpress/blog-platform/internal/core/domain"
)

// Kind selects the destination directory for an upload.
type Kind string

const (
	KindAvatar    Kind = "avatar"
	KindPostImage Kind = "post_image"
)

const defaultMaxSize = 5 << 20 // 5 MiB

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store writes validated uploads under the configured directories. The temp
// directory must live on the same filesystem as the destinations so the final
// move is a rename.
type Store struct {
	tempDir string
	dirs    map[Kind]string
	maxSize int64
}

// NewStore creates the upload directories if needed and returns a Store.
func NewStore(tempDir, avatarDir, postImageDir string, maxSize int64) (*Store, error) {
	if maxSize <= 0 {
		maxSize = defaultMaxSize
	}
	dirs := map[Kind]string{
		KindAvatar:    avatarDir,
		KindPostImage: postImageDir,
	}
	for _, dir := range append([]string{tempDir}, avatarDir, postImageDir) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
		}
	}
	return &Store{tempDir: tempDir, dirs: dirs, maxSize: maxSize}, nil
}

// Save streams the upload to a temp file, validates size and content type,
// and moves it into the destination directory. It returns the stored
// filename. On any failure the temp file is removed and a ValidationError is
// returned for client-caused rejections.
func (s *Store) Save(kind Kind, r io.Reader) (string, error) {
	dir, ok := s.dirs[kind]
	if !ok {
		return "", fmt.Errorf("unknown upload kind %q", kind)
	}

	tmp, err := os.CreateTemp(s.tempDir, "upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		_ = os.Remove(tmpName)
	}

	// Copy at most maxSize+1 bytes: one extra byte distinguishes "exactly
	// at the limit" from "over it".
	n, err := io.Copy(tmp, io.LimitReader(r, s.maxSize+1))
	if err != nil {
		cleanup()
		return "", fmt.Errorf("write upload: %w", err)
	}
	if n > s.maxSize {
		cleanup()
		return "", domain.NewValidationError(map[string]string{"file": "file exceeds the maximum allowed size"})
	}
	if n == 0 {
		cleanup()
		return "", domain.NewValidationError(map[string]string{"file": "file is empty"})
	}

	// Sniff the real content type from the first bytes; the client-supplied
	// header is not trusted.
	head := make([]byte, 512)
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		cleanup()
		return "", fmt.Errorf("seek temp file: %w", err)
	}
	m, err := io.ReadFull(tmp, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		cleanup()
		return "", fmt.Errorf("read temp file: %w", err)
	}
	ext, ok := allowedTypes[http.DetectContentType(head[:m])]
	if !ok {
		cleanup()
		return "", domain.NewValidationError(map[string]string{"file": "file must be a jpeg, png, gif, or webp image"})
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("close temp file: %w", err)
	}

	name, err := randomName(ext)
	if err != nil {
		_ = os.Remove(tmpName)
		return "", err
	}

	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("move upload: %w", err)
	}
	return name, nil
}

// Remove deletes a stored file, ignoring already-missing files.
func (s *Store) Remove(kind Kind, name string) error {
	dir, ok := s.dirs[kind]
	if !ok || name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(dir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

func randomName(ext string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate filename: %w", err)
	}
	return hex.EncodeToString(buf) + ext, nil
}
