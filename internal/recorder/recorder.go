// Package recorder appends classification records to a write-once log.
package recorder

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/sells-group/install-check/internal/config"
	"github.com/sells-group/install-check/internal/model"
)

// Recorder appends records. There is no update or delete path.
type Recorder interface {
	Append(ctx context.Context, rec model.Record) error
	Migrate(ctx context.Context) error
	Close() error
}

// Supported drivers.
const (
	DriverJSONL    = "jsonl"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// New opens the recorder selected by cfg.Driver and runs its migration.
func New(ctx context.Context, cfg config.RecorderConfig) (Recorder, error) {
	var (
		rec Recorder
		err error
	)
	switch cfg.Driver {
	case DriverJSONL, "":
		rec = NewJSONL(cfg.Path)
	case DriverSQLite:
		rec, err = NewSQLite(cfg.Path)
	case DriverPostgres:
		rec, err = NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("recorder: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := rec.Migrate(ctx); err != nil {
		_ = rec.Close()
		return nil, err
	}
	return rec, nil
}

// encodeRecord renders rec as one UTF-8 JSON line. Non-ASCII text such as
// "façade" and "≤" is written as-is.
func encodeRecord(rec model.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rec); err != nil {
		return nil, eris.Wrap(err, "recorder: encode record")
	}
	return buf.Bytes(), nil
}

// caseIDOrEmpty flattens the nullable case id for indexed columns.
func caseIDOrEmpty(rec model.Record) string {
	if rec.CaseID == nil {
		return ""
	}
	return *rec.CaseID
}
