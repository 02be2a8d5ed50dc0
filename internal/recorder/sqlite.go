package recorder

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/install-check/internal/model"
)

// SQLiteRecorder appends records to a local SQLite database.
type SQLiteRecorder struct {
	db *sqlx.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteRecorder, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteRecorder{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS classifications (
	id           TEXT PRIMARY KEY,
	recorded_at  DATETIME NOT NULL,
	case_id      TEXT NOT NULL DEFAULT '',
	decision     TEXT NOT NULL,
	network_type TEXT NOT NULL,
	risk_score   REAL NOT NULL,
	policy       TEXT NOT NULL,
	payload      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_classifications_case_id ON classifications(case_id);
CREATE INDEX IF NOT EXISTS idx_classifications_recorded_at ON classifications(recorded_at);
`

// Migrate creates the classifications table.
func (s *SQLiteRecorder) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close closes the database.
func (s *SQLiteRecorder) Close() error {
	return s.db.Close()
}

// recordRow is the column layout shared by the SQL recorders.
type recordRow struct {
	ID          string    `db:"id"`
	RecordedAt  time.Time `db:"recorded_at"`
	CaseID      string    `db:"case_id"`
	Decision    string    `db:"decision"`
	NetworkType string    `db:"network_type"`
	RiskScore   float64   `db:"risk_score"`
	Policy      string    `db:"policy"`
	Payload     string    `db:"payload"`
}

func newRecordRow(rec model.Record) (recordRow, error) {
	payload, err := encodeRecord(rec)
	if err != nil {
		return recordRow{}, err
	}
	return recordRow{
		ID:          rec.ID,
		RecordedAt:  rec.Timestamp.UTC(),
		CaseID:      caseIDOrEmpty(rec),
		Decision:    string(rec.Decision),
		NetworkType: string(rec.Fields.NetworkType),
		RiskScore:   rec.RiskScore,
		Policy:      rec.Policy,
		Payload:     string(payload[:len(payload)-1]), // drop the encoder's newline
	}, nil
}

// Append inserts rec. A duplicate id is an error; records are never replaced.
func (s *SQLiteRecorder) Append(ctx context.Context, rec model.Record) error {
	row, err := newRecordRow(rec)
	if err != nil {
		return err
	}
	_, err = s.db.NamedExecContext(ctx,
		`INSERT INTO classifications (id, recorded_at, case_id, decision, network_type, risk_score, policy, payload)
		 VALUES (:id, :recorded_at, :case_id, :decision, :network_type, :risk_score, :policy, :payload)`,
		row,
	)
	return eris.Wrapf(err, "sqlite: insert record %s", rec.ID)
}
