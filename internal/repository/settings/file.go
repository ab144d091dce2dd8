package settings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// DefaultFilePermissions restricts the settings file to its owner.
const DefaultFilePermissions = 0o600

// FileRepository stores the settings as a JSON file.
type FileRepository struct {
	// fs is the filesystem holding the file.
	fs afero.Fs
	// path is the location of the JSON document.
	path string
	// now stamps saved records.
	now func() time.Time
	// mu protects concurrent access to the file.
	mu sync.Mutex
}

// NewFileRepository creates a repository that reads/writes JSON at path on fs.
// A nil fs means the OS filesystem.
func NewFileRepository(fs afero.Fs, path string) *FileRepository {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &FileRepository{
		fs:   fs,
		path: filepath.Clean(path),
		now:  time.Now,
	}
}

// Load reads the settings file.
func (r *FileRepository) Load(_ context.Context) (*domain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read settings file: %w", err)
	}

	return decode(contents)
}

// Save replaces the settings file. The document is written to a temporary
// file first and renamed over the old one.
func (r *FileRepository) Save(_ context.Context, req *domain.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := encode(req, r.now())
	if err != nil {
		return err
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err = r.fs.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create settings directory: %w", err)
		}
	}

	tmp := r.path + ".tmp"
	if err = afero.WriteFile(r.fs, tmp, data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	if err = r.fs.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}

	return nil
}
