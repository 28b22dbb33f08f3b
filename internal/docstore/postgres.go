package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
)

var _ Store = (*PostgresStore)(nil)

// PostgresStore keeps every document in one jsonb table. Transactions run at
// SERIALIZABLE so concurrent commits touching the same documents fail with a
// serialization error (surfaced as ErrConflict) instead of interleaving.
type PostgresStore struct {
	db *sqlx.DB
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection text NOT NULL,
	id         text NOT NULL,
	doc        jsonb NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (collection, id)
)`

func NewPostgresStore(cfg *PostgresConfig) (*PostgresStore, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate documents table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string, dest interface{}) error {
	var raw []byte
	err := s.db.GetContext(ctx, &raw,
		`SELECT doc FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
		}
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (s *PostgresStore) Set(ctx context.Context, collection, id string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, doc, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (collection, id)
		DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		collection, id, raw)
	return err
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	return err
}

func (s *PostgresStore) List(ctx context.Context, collection string, dest interface{}) error {
	var raws [][]byte
	err := s.db.SelectContext(ctx, &raws,
		`SELECT doc FROM documents WHERE collection = $1 ORDER BY id`, collection)
	if err != nil {
		return err
	}
	msgs := make([]json.RawMessage, len(raws))
	for i, r := range raws {
		msgs[i] = r
	}
	arr, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	return json.Unmarshal(arr, dest)
}

func (s *PostgresStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	sqlTx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer sqlTx.Rollback()

	if err := fn(&postgresTx{ctx: ctx, tx: sqlTx}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return wrapConflict(err)
	}
	return nil
}

// wrapConflict maps serialization and unique-violation failures onto
// ErrConflict so callers can treat them as retryable commit errors.
func wrapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "23505":
			return fmt.Errorf("%w: %v", ErrConflict, err)
		}
	}
	return err
}

type postgresTx struct {
	ctx context.Context
	tx  *sqlx.Tx
}

func (t *postgresTx) Get(collection, id string, dest interface{}) error {
	var raw []byte
	err := t.tx.GetContext(t.ctx, &raw,
		`SELECT doc FROM documents WHERE collection = $1 AND id = $2 FOR UPDATE`, collection, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
		}
		return wrapConflict(err)
	}
	return json.Unmarshal(raw, dest)
}

func (t *postgresTx) Set(collection, id string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = t.tx.ExecContext(t.ctx, `
		INSERT INTO documents (collection, id, doc, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (collection, id)
		DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		collection, id, raw)
	return wrapConflict(err)
}

func (t *postgresTx) Delete(collection, id string) error {
	_, err := t.tx.ExecContext(t.ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	return wrapConflict(err)
}

func (t *postgresTx) Increment(collection, id, field string, delta int64) error {
	// The delta is applied inside the UPDATE itself; the counter value never
	// round-trips through the client.
	res, err := t.tx.ExecContext(t.ctx, `
		UPDATE documents
		SET doc = jsonb_set(doc, ARRAY[$3], to_jsonb(COALESCE((doc->>$3)::bigint, 0) + $4)),
		    updated_at = now()
		WHERE collection = $1 AND id = $2`,
		collection, id, field, delta)
	if err != nil {
		return wrapConflict(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	return nil
}
