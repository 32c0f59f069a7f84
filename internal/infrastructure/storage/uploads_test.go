package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inkpress/blog-platform/internal/core/domain"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

func newTestStore(t *testing.T, maxSize int64) (*Store, string, string) {
	t.Helper()
	root := t.TempDir()
	tempDir := filepath.Join(root, "tmp")
	avatarDir := filepath.Join(root, "avatars")
	postDir := filepath.Join(root, "posts")

	store, err := NewStore(tempDir, avatarDir, postDir, maxSize)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, tempDir, avatarDir
}

func dirEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir %s: %v", dir, err)
	}
	return entries
}

func TestStore_Save(t *testing.T) {
	store, tempDir, avatarDir := newTestStore(t, 0)

	payload := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 100)...)
	name, err := store.Save(KindAvatar, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Fatalf("extension not derived from content type: %q", name)
	}

	stored, err := os.ReadFile(filepath.Join(avatarDir, name))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if !bytes.Equal(stored, payload) {
		t.Fatalf("stored bytes differ from upload")
	}
	if len(dirEntries(t, tempDir)) != 0 {
		t.Fatalf("temp file left behind after success")
	}
}

func TestStore_Save_RejectsOversize(t *testing.T) {
	store, tempDir, avatarDir := newTestStore(t, 64)

	payload := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 100)...)
	_, err := store.Save(KindAvatar, bytes.NewReader(payload))

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(dirEntries(t, tempDir)) != 0 {
		t.Fatalf("temp file left behind after rejection")
	}
	if len(dirEntries(t, avatarDir)) != 0 {
		t.Fatalf("rejected upload reached the destination dir")
	}
}

func TestStore_Save_RejectsNonImage(t *testing.T) {
	store, tempDir, _ := newTestStore(t, 0)

	_, err := store.Save(KindAvatar, strings.NewReader("#!/bin/sh\nrm -rf /\n"))
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(dirEntries(t, tempDir)) != 0 {
		t.Fatalf("temp file left behind after rejection")
	}
}

func TestStore_Save_RejectsEmpty(t *testing.T) {
	store, _, _ := newTestStore(t, 0)

	_, err := store.Save(KindAvatar, bytes.NewReader(nil))
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestStore_Save_UnknownKind(t *testing.T) {
	store, _, _ := newTestStore(t, 0)
	if _, err := store.Save(Kind("unrelated"), bytes.NewReader(pngHeader)); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestStore_Remove(t *testing.T) {
	store, _, avatarDir := newTestStore(t, 0)

	payload := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 20)...)
	name, err := store.Save(KindAvatar, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.Remove(KindAvatar, name); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(dirEntries(t, avatarDir)) != 0 {
		t.Fatalf("file not removed")
	}

	// Removing twice is not an error.
	if err := store.Remove(KindAvatar, name); err != nil {
		t.Fatalf("second Remove: %v", err)
	}

	// Path traversal in the stored name must not escape the directory.
	if err := store.Remove(KindAvatar, "../"+name); err != nil {
		t.Fatalf("Remove with traversal: %v", err)
	}
}
