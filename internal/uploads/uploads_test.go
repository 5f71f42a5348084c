package uploads_test

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-store/internal/storage"
	"product-store/internal/uploads"
)

// fileHeaders builds real multipart.FileHeader values by round-tripping
// a form through the stdlib parser.
func fileHeaders(t *testing.T, files map[string]string) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := w.CreateFormFile("image", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["image"]
}

func dirEntries(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return len(entries)
}

func TestSaveAllStoresEveryFile(t *testing.T) {
	store, err := storage.NewDisk(t.TempDir())
	require.NoError(t, err)
	r := uploads.NewReceiver(store, 5<<20)

	saved, err := r.SaveAll(fileHeaders(t, map[string]string{
		"mug.png":   "png bytes",
		"mug2.JPEG": "jpeg bytes",
	}))
	require.NoError(t, err)
	require.Len(t, saved, 2)

	names := map[string]bool{}
	for _, f := range saved {
		assert.True(t, store.Exists(f.Name))
		assert.False(t, names[f.Name], "stored names must be unique")
		names[f.Name] = true
		switch f.Original {
		case "mug.png":
			assert.True(t, strings.HasSuffix(f.Name, ".png"))
			assert.Equal(t, int64(len("png bytes")), f.Size)
		case "mug2.JPEG":
			assert.True(t, strings.HasSuffix(f.Name, ".jpeg"), "extension is lowercased")
		default:
			t.Fatalf("unexpected original name %q", f.Original)
		}
	}
}

func TestSaveAllEmptySubmission(t *testing.T) {
	store, err := storage.NewDisk(t.TempDir())
	require.NoError(t, err)
	r := uploads.NewReceiver(store, 5<<20)

	saved, err := r.SaveAll(nil)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestSaveAllOversizeRejectsWholeSubmission(t *testing.T) {
	store, err := storage.NewDisk(t.TempDir())
	require.NoError(t, err)
	r := uploads.NewReceiver(store, 8)

	_, err = r.SaveAll(fileHeaders(t, map[string]string{
		"ok.png":  "tiny",
		"big.png": "way too many bytes",
	}))

	var tooLarge *uploads.TooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, "big.png", tooLarge.Name)
	assert.Equal(t, int64(8), tooLarge.Limit)
	assert.Zero(t, dirEntries(t, store.Dir()), "files under the limit must not be kept")
}

type flakyStore struct {
	*storage.Disk
	writes int
	failAt int
}

func (s *flakyStore) Write(name string, src io.Reader) (int64, error) {
	s.writes++
	if s.writes == s.failAt {
		return 0, &storage.WriteError{Name: name, Err: errors.New("disk full")}
	}
	return s.Disk.Write(name, src)
}

func TestSaveAllWriteFailureRemovesEarlierFiles(t *testing.T) {
	disk, err := storage.NewDisk(t.TempDir())
	require.NoError(t, err)
	r := uploads.NewReceiver(&flakyStore{Disk: disk, failAt: 2}, 5<<20)

	_, err = r.SaveAll(fileHeaders(t, map[string]string{
		"one.png": "first",
		"two.png": "second",
	}))

	var werr *storage.WriteError
	require.ErrorAs(t, err, &werr)
	assert.Zero(t, dirEntries(t, disk.Dir()), "no partial leftover from a failed submission")
}

func TestUniqueName(t *testing.T) {
	a := uploads.UniqueName("photo.PNG")
	b := uploads.UniqueName("photo.PNG")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, ".png"))

	// No extension on the original means none on the stored name.
	assert.NotContains(t, uploads.UniqueName("raw"), ".")
}
