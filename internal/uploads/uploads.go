// Package uploads receives multipart file submissions and streams them
// into durable storage under generated unique names. It knows nothing
// about products.
package uploads

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"product-store/internal/storage"
)

// StoredFile describes one file written to storage during the current
// request. It is owned by the request until the record it belongs to
// is persisted.
type StoredFile struct {
	Name     string // generated name in storage
	Original string // client-supplied name, kept for the extension only
	Size     int64
}

// TooLargeError reports a file over the per-file size ceiling.
type TooLargeError struct {
	Name  string
	Size  int64
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("uploads: %s is %d bytes, limit is %d", e.Name, e.Size, e.Limit)
}

// Receiver writes submitted files into a store, subject to a per-file
// size ceiling.
type Receiver struct {
	store    storage.Store
	maxBytes int64
}

func NewReceiver(store storage.Store, maxBytes int64) *Receiver {
	return &Receiver{store: store, maxBytes: maxBytes}
}

// SaveAll writes every submitted file to storage in submission order
// and returns their descriptors. A single oversize file or write
// failure rejects the whole submission: files already written by this
// call are removed before the error is returned.
func (r *Receiver) SaveAll(files []*multipart.FileHeader) ([]StoredFile, error) {
	saved := make([]StoredFile, 0, len(files))

	for _, fh := range files {
		if fh.Size > r.maxBytes {
			r.unwind(saved)
			return nil, &TooLargeError{Name: fh.Filename, Size: fh.Size, Limit: r.maxBytes}
		}

		src, err := fh.Open()
		if err != nil {
			r.unwind(saved)
			return nil, &storage.WriteError{Name: fh.Filename, Err: err}
		}

		name := UniqueName(fh.Filename)
		n, err := r.store.Write(name, src)
		src.Close()
		if err != nil {
			r.unwind(saved)
			return nil, err
		}

		saved = append(saved, StoredFile{Name: name, Original: fh.Filename, Size: n})
	}

	return saved, nil
}

func (r *Receiver) unwind(saved []StoredFile) {
	for _, f := range saved {
		// Best effort: nothing references these files yet.
		_ = r.store.Delete(f.Name)
	}
}

// UniqueName derives a collision-safe stored name from the current
// time, a random component and the original extension, e.g.
// 1616444052539-5f2c...e1.png.
func UniqueName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.New().String(), ext)
}
