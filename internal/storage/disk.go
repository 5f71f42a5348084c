package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Disk stores files in a single local directory, the one gin serves
// statically under /uploads.
type Disk struct {
	dir string
}

// NewDisk creates the upload directory if needed and returns a store
// rooted there.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create dir %s: %w", dir, err)
	}
	return &Disk{dir: dir}, nil
}

// Dir returns the root directory of the store.
func (d *Disk) Dir() string { return d.dir }

func (d *Disk) Write(name string, src io.Reader) (int64, error) {
	if strings.ContainsAny(name, `/\`) || name == "" {
		return 0, &WriteError{Name: name, Err: fmt.Errorf("invalid file name")}
	}

	f, err := os.OpenFile(filepath.Join(d.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, &WriteError{Name: name, Err: err}
	}

	n, err := io.Copy(f, src)
	if err != nil {
		f.Close()
		os.Remove(filepath.Join(d.dir, name))
		return 0, &WriteError{Name: name, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(filepath.Join(d.dir, name))
		return 0, &WriteError{Name: name, Err: err}
	}
	return n, nil
}

func (d *Disk) Delete(name string) error {
	if err := os.Remove(filepath.Join(d.dir, filepath.Base(name))); err != nil {
		return &DeleteError{Name: name, Err: err}
	}
	return nil
}

func (d *Disk) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(d.dir, filepath.Base(name)))
	return err == nil
}
