package uploads

import (
	"sync"

	"pdf2docx/internal/shared/storage/scratch"
)

// UploadedFile is an accepted upload stored in the scratch directory for the lifetime of one request.
type UploadedFile struct {
	OriginalName string
	StoredPath   string
	MimeType     string
	DetectedType string
	Size         int64

	dir        *scratch.Dir
	once       sync.Once
	releaseErr error
}

// ReadAll returns the stored bytes.
func (f *UploadedFile) ReadAll() ([]byte, error) {
	return f.dir.ReadFile(f.StoredPath)
}

// Release removes the stored file. Only the first call touches the disk.
func (f *UploadedFile) Release() error {
	f.once.Do(func() {
		f.releaseErr = f.dir.Remove(f.StoredPath)
	})
	return f.releaseErr
}
