// Package sqlite keeps file records in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"fileproc/internal/model"
	"fileproc/recordstore"

	_ "github.com/mattn/go-sqlite3"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type Store struct {
	db    *sql.DB
	table string
}

// Open creates the table if it does not exist.
func Open(ctx context.Context, dsn, table string) (*Store, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("sqlite: invalid table name %q", table)
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	ddl := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		filepath TEXT NOT NULL,
		text TEXT,
		status TEXT
	);
	`, table)
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, table: table}, nil
}

func (s *Store) Get(ctx context.Context, id string) (model.Record, error) {
	var (
		rec          model.Record
		text, status sql.NullString
	)
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT id, filepath, text, status FROM %s WHERE id = ?`, s.table), id)
	if err := row.Scan(&rec.ID, &rec.Filepath, &text, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Record{}, model.NotFound("record", id)
		}
		return model.Record{}, fmt.Errorf("sqlite get %s: %w", id, err)
	}
	rec.Text, rec.Status = text.String, status.String
	return rec, nil
}

func (s *Store) Put(ctx context.Context, rec model.Record) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
	INSERT INTO %s (id, filepath, text, status) VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		filepath = excluded.filepath,
		text = excluded.text,
		status = excluded.status`, s.table),
		rec.ID, rec.Filepath, nullable(rec.Text), nullable(rec.Status))
	if err != nil {
		return fmt.Errorf("sqlite put %s: %w", rec.ID, err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func init() {
	recordstore.Register("sqlite", func(ctx context.Context, o recordstore.Options) (recordstore.Store, error) {
		dsn := o.DSN
		if dsn == "" {
			dsn = "fileproc.db"
		}
		return Open(ctx, dsn, o.Table)
	})
}
