package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// RotatingFile is an append-only log file that moves itself to
// old/<base>.YYYYMMDD-HHMMSS once it grows past maxSize bytes.
// A maxSize of zero or less never rotates.
type RotatingFile struct {
	mu      sync.Mutex
	fs      afero.Fs
	path    string
	maxSize int64
	size    int64
	f       afero.File
	now     func() time.Time
}

// NewRotatingFile opens path for appending, creating its directory. An
// existing file already over maxSize is rotated straight away; if that fails
// the file is closed and the error returned.
func NewRotatingFile(fs afero.Fs, path string, maxSize int64) (*RotatingFile, error) {
	w := &RotatingFile{
		fs:      fs,
		path:    path,
		maxSize: maxSize,
		now:     time.Now,
	}

	if err := w.open(); err != nil {
		return nil, err
	}
	if w.maxSize > 0 && w.size >= w.maxSize {
		if err := w.rotate(); err != nil {
			w.Close()
			return nil, err
		}
	}
	return w, nil
}

// Write implements io.Writer
func (w *RotatingFile) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.f == nil {
		return 0, os.ErrClosed
	}
	// A failed rotation keeps appending to the current file and retries on
	// the next write.
	if w.maxSize > 0 && w.size > 0 && w.size+int64(len(p)) > w.maxSize {
		_ = w.rotate()
		if w.f == nil {
			return 0, os.ErrClosed
		}
	}

	n, err := w.f.Write(p)
	w.size += int64(n)
	return n, err
}

// Close closes the underlying file
func (w *RotatingFile) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}

func (w *RotatingFile) open() error {
	if err := w.fs.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	f, err := w.fs.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}

	w.f = f
	w.size = fi.Size()
	return nil
}

// rotate archives the current file and starts an empty one. On failure the
// current file is left open for appending. Caller holds mu.
func (w *RotatingFile) rotate() error {
	oldDir := filepath.Join(filepath.Dir(w.path), "old")
	if err := w.fs.MkdirAll(oldDir, 0755); err != nil {
		return fmt.Errorf("creating old/ directory: %w", err)
	}

	base := filepath.Join(oldDir, fmt.Sprintf("%s.%s", filepath.Base(w.path), w.now().Format("20060102-150405")))
	archive := base
	for i := 1; ; i++ {
		exists, err := afero.Exists(w.fs, archive)
		if err != nil {
			return err
		}
		if !exists {
			break
		}
		archive = fmt.Sprintf("%s.%d", base, i)
	}

	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}

	if err := w.fs.Rename(w.path, archive); err != nil && !os.IsNotExist(err) {
		if reopenErr := w.open(); reopenErr != nil {
			return fmt.Errorf("archiving log file: %w (reopen: %v)", err, reopenErr)
		}
		return fmt.Errorf("archiving log file: %w", err)
	}

	f, err := w.fs.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		if reopenErr := w.open(); reopenErr != nil {
			return fmt.Errorf("creating new log file: %w (reopen: %v)", err, reopenErr)
		}
		return fmt.Errorf("creating new log file: %w", err)
	}
	w.f = f
	w.size = 0
	return nil
}
