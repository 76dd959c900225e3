// Package scratch manages the transient directory that holds uploads while they are converted.
package scratch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

var (
	// ErrInvalidName is returned for names that are not a single path element.
	ErrInvalidName = errors.New("scratch: invalid file name")
	// ErrOutsideDir is returned for paths that resolve outside the scratch directory.
	ErrOutsideDir = errors.New("scratch: path outside scratch directory")
	// ErrLimitExceeded is returned by Save when the content is larger than the given limit.
	ErrLimitExceeded = errors.New("scratch: content exceeds limit")
)

// Dir is a scratch directory on an afero filesystem.
type Dir struct {
	fs   afero.Fs
	root string
}

// New returns a scratch directory rooted at root on fs.
func New(fs afero.Fs, root string) *Dir {
	return &Dir{fs: fs, root: filepath.Clean(root)}
}

// NewOS returns a scratch directory on the operating system filesystem.
func NewOS(root string) *Dir {
	return New(afero.NewOsFs(), root)
}

// Root returns the directory path.
func (d *Dir) Root() string { return d.root }

// Fs returns the underlying filesystem.
func (d *Dir) Fs() afero.Fs { return d.fs }

// Ensure creates the directory if absent. Calling it again is a no-op.
func (d *Dir) Ensure() error {
	if err := d.fs.MkdirAll(d.root, 0o755); err != nil {
		return fmt.Errorf("scratch: mkdir %s: %w", d.root, err)
	}
	return nil
}

// Save writes r to a new file called name. The file must not already exist; a collision
// returns an error matching os.ErrExist and leaves the existing file untouched.
// A positive limit caps the number of bytes written; exceeding it removes the partial file.
func (d *Dir) Save(ctx context.Context, name string, r io.Reader, limit int64) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", 0, ErrInvalidName
	}

	fullPath := filepath.Join(d.root, name)
	f, err := d.fs.OpenFile(fullPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", 0, fmt.Errorf("scratch: create %s: %w", name, err)
	}

	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}
	written, copyErr := io.Copy(f, src)
	closeErr := f.Close()

	switch {
	case copyErr != nil:
		_ = d.fs.Remove(fullPath)
		return "", 0, fmt.Errorf("scratch: write %s: %w", name, copyErr)
	case limit > 0 && written > limit:
		_ = d.fs.Remove(fullPath)
		return "", 0, ErrLimitExceeded
	case closeErr != nil:
		_ = d.fs.Remove(fullPath)
		return "", 0, fmt.Errorf("scratch: close %s: %w", name, closeErr)
	}
	return fullPath, written, nil
}

// ReadFile returns the full content of a file inside the directory.
func (d *Dir) ReadFile(path string) ([]byte, error) {
	clean, err := d.contain(path)
	if err != nil {
		return nil, err
	}
	return afero.ReadFile(d.fs, clean)
}

// Remove deletes a file inside the directory. Removing a missing file is not an error.
func (d *Dir) Remove(path string) error {
	clean, err := d.contain(path)
	if err != nil {
		return err
	}
	if err := d.fs.Remove(clean); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("scratch: remove %s: %w", filepath.Base(clean), err)
	}
	return nil
}

// Exists reports whether path exists inside the directory.
func (d *Dir) Exists(path string) (bool, error) {
	clean, err := d.contain(path)
	if err != nil {
		return false, err
	}
	return afero.Exists(d.fs, clean)
}

// List returns the names of the files currently in the directory.
func (d *Dir) List() ([]string, error) {
	infos, err := afero.ReadDir(d.fs, d.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if !info.IsDir() {
			names = append(names, info.Name())
		}
	}
	return names, nil
}

func (d *Dir) contain(path string) (string, error) {
	clean := filepath.Clean(path)
	if !filepath.IsAbs(clean) && !strings.HasPrefix(clean, d.root+string(filepath.Separator)) {
		clean = filepath.Join(d.root, clean)
	}
	rel, err := filepath.Rel(d.root, clean)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrOutsideDir
	}
	return clean, nil
}
