package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("storage: file not found")

// Disk stores attachments under a single directory with generated names, so
// concurrent uploads of identically named files never collide.
type Disk struct {
	Dir string
}

func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Disk{Dir: dir}, nil
}

// Save writes data under a uuid-prefixed name derived from originalName and
// returns the stored name.
func (d *Disk) Save(originalName string, data []byte) (string, error) {
	base := filepath.Base(strings.TrimSpace(originalName))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "attachment"
	}
	stored := uuid.NewString() + "_" + base
	if err := os.WriteFile(filepath.Join(d.Dir, stored), data, 0o644); err != nil {
		return "", err
	}
	return stored, nil
}

// Read loads a stored file. The name is reduced to its base to block path
// traversal from client-supplied values.
func (d *Disk) Read(name string) ([]byte, error) {
	safe := filepath.Base(strings.TrimSpace(name))
	if safe == "" || safe == "." {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(filepath.Join(d.Dir, safe))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (d *Disk) Path(name string) string {
	return filepath.Join(d.Dir, filepath.Base(name))
}
