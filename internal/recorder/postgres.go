package recorder

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/install-check/internal/model"
)

// Pool is the subset of pgxpool.Pool the recorder uses.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

// PostgresRecorder appends records to a shared Postgres table.
type PostgresRecorder struct {
	pool Pool
}

// NewPostgres creates a PostgresRecorder with a small connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresRecorder, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 4
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresRecorder{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS classifications (
	id           UUID PRIMARY KEY,
	recorded_at  TIMESTAMPTZ NOT NULL,
	case_id      TEXT NOT NULL DEFAULT '',
	decision     TEXT NOT NULL,
	network_type TEXT NOT NULL,
	risk_score   DOUBLE PRECISION NOT NULL,
	policy       TEXT NOT NULL,
	payload      JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_classifications_case_id ON classifications(case_id);
`

// Migrate creates the classifications table.
func (p *PostgresRecorder) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

// Append inserts rec.
func (p *PostgresRecorder) Append(ctx context.Context, rec model.Record) error {
	row, err := newRecordRow(rec)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO classifications (id, recorded_at, case_id, decision, network_type, risk_score, policy, payload)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		row.ID, row.RecordedAt, row.CaseID, row.Decision, row.NetworkType, row.RiskScore, row.Policy, row.Payload,
	)
	return eris.Wrapf(err, "postgres: insert record %s", rec.ID)
}

// Close releases the pool.
func (p *PostgresRecorder) Close() error {
	p.pool.Close()
	return nil
}
