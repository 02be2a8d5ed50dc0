package recorder

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/sells-group/install-check/internal/model"
)

// JSONLRecorder appends one JSON object per line to a local file. The file is
// opened and closed on every append.
type JSONLRecorder struct {
	path string
	mu   sync.Mutex // serializes appends from concurrent HTTP requests
}

// NewJSONL creates a recorder writing to path.
func NewJSONL(path string) *JSONLRecorder {
	return &JSONLRecorder{path: path}
}

// Path returns the log file location.
func (r *JSONLRecorder) Path() string { return r.path }

// Migrate creates the parent directory of the log file.
func (r *JSONLRecorder) Migrate(_ context.Context) error {
	dir := filepath.Dir(r.path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "recorder: create dir %s", dir)
	}
	return nil
}

// Append writes rec as a single line.
func (r *JSONLRecorder) Append(_ context.Context, rec model.Record) error {
	line, err := encodeRecord(rec)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return eris.Wrapf(err, "recorder: open %s", r.path)
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return eris.Wrapf(err, "recorder: write %s", r.path)
	}
	return eris.Wrapf(f.Close(), "recorder: close %s", r.path)
}

// Close is a no-op; the file is closed after every append.
func (r *JSONLRecorder) Close() error { return nil }
