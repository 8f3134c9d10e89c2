package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveReadRoundtrip(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("new disk: %v", err)
	}
	stored, err := d.Save("photo.jpg", []byte("payload"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(stored, "_photo.jpg") {
		t.Fatalf("expected uuid-prefixed name, got %q", stored)
	}
	data, err := d.Read(stored)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestSaveCollidingNames(t *testing.T) {
	d, _ := NewDisk(t.TempDir())
	a, _ := d.Save("same.jpg", []byte("one"))
	b, _ := d.Save("same.jpg", []byte("two"))
	if a == b {
		t.Fatalf("expected distinct stored names for identical originals")
	}
}

func TestReadMissingFile(t *testing.T) {
	d, _ := NewDisk(t.TempDir())
	if _, err := d.Read("nope.jpg"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReadBlocksPathTraversal(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(dir, "secret.txt")
	if err := os.WriteFile(outside, []byte("secret"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	sub := filepath.Join(dir, "uploads")
	d, err := NewDisk(sub)
	if err != nil {
		t.Fatalf("new disk: %v", err)
	}
	if _, err := d.Read("../secret.txt"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected traversal blocked with ErrNotFound, got %v", err)
	}
}

func TestSaveStripsDirectoryComponents(t *testing.T) {
	d, _ := NewDisk(t.TempDir())
	stored, err := d.Save("../../etc/passwd", []byte("x"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if strings.Contains(stored, "/") || strings.Contains(stored, "..") {
		t.Fatalf("expected sanitized stored name, got %q", stored)
	}
}
