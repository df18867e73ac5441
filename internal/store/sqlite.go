package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/morthond/wotr-ladder/internal/schema"
)

// SQLiteStore implements Store on a single SQLite file. Each sheet is a
// run of rows keyed by (sheet, pos); cells round-trip as a JSON array so
// opaque formula cells survive untouched.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the store at dbPath and runs
// migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sheets (
			sheet TEXT NOT NULL,
			pos INTEGER NOT NULL,
			cells TEXT NOT NULL,
			PRIMARY KEY (sheet, pos)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sheets_sheet ON sheets(sheet)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RowCount returns the number of rows in sheet, headers included.
func (s *SQLiteStore) RowCount(ctx context.Context, sheet string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sheets WHERE sheet = ?`, sheet).Scan(&n)
	return n, err
}

// ReadRows returns count rows starting at start. count < 0 reads through
// the end of the sheet.
func (s *SQLiteStore) ReadRows(ctx context.Context, sheet string, start, count int) ([]schema.Row, error) {
	query := `SELECT cells FROM sheets WHERE sheet = ? AND pos >= ? ORDER BY pos`
	args := []any{sheet, start}
	if count >= 0 {
		query += ` LIMIT ?`
		args = append(args, count)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []schema.Row
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		var cells schema.Row
		if err := json.Unmarshal([]byte(blob), &cells); err != nil {
			return nil, fmt.Errorf("sheet %s: corrupt row: %w", sheet, err)
		}
		out = append(out, cells)
	}
	return out, rows.Err()
}

// WriteRows overwrites rows starting at start. Writing past the current
// end extends the sheet.
func (s *SQLiteStore) WriteRows(ctx context.Context, sheet string, start int, rows []schema.Row) error {
	return s.splice(ctx, sheet, func(all []schema.Row) ([]schema.Row, error) {
		for len(all) < start+len(rows) {
			all = append(all, schema.Row{})
		}
		for i, r := range rows {
			all[start+i] = r
		}
		return all, nil
	})
}

// InsertRows inserts rows before start, shifting the remainder down.
func (s *SQLiteStore) InsertRows(ctx context.Context, sheet string, start int, rows []schema.Row) error {
	return s.splice(ctx, sheet, func(all []schema.Row) ([]schema.Row, error) {
		if start < 0 || start > len(all) {
			return nil, fmt.Errorf("sheet %s: insert at %d outside 0..%d", sheet, start, len(all))
		}
		out := make([]schema.Row, 0, len(all)+len(rows))
		out = append(out, all[:start]...)
		out = append(out, rows...)
		out = append(out, all[start:]...)
		return out, nil
	})
}

// DeleteRows removes count rows starting at start.
func (s *SQLiteStore) DeleteRows(ctx context.Context, sheet string, start, count int) error {
	return s.splice(ctx, sheet, func(all []schema.Row) ([]schema.Row, error) {
		if start < 0 || start+count > len(all) {
			return nil, fmt.Errorf("sheet %s: delete %d..%d outside 0..%d", sheet, start, start+count, len(all))
		}
		return append(all[:start:start], all[start+count:]...), nil
	})
}

// SortRange sorts count rows starting at start by the cell at col.
func (s *SQLiteStore) SortRange(ctx context.Context, sheet string, start, count, col int, desc bool) error {
	return s.splice(ctx, sheet, func(all []schema.Row) ([]schema.Row, error) {
		if start < 0 || start+count > len(all) {
			return nil, fmt.Errorf("sheet %s: sort %d..%d outside 0..%d", sheet, start, start+count, len(all))
		}
		sortRows(all[start:start+count], col, desc)
		return all, nil
	})
}

// CreateSheet writes header rows for sheet if it does not exist yet. Used
// by the CLI seed command and tests.
func (s *SQLiteStore) CreateSheet(ctx context.Context, sheet string, headers []schema.Row) error {
	n, err := s.RowCount(ctx, sheet)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return s.WriteRows(ctx, sheet, 0, headers)
}

// splice rewrites a whole sheet under one transaction. Sheets are
// community-ladder sized, so read-modify-write keeps positions dense
// without bookkeeping.
func (s *SQLiteStore) splice(ctx context.Context, sheet string, mutate func([]schema.Row) ([]schema.Row, error)) error {
	all, err := s.ReadRows(ctx, sheet, 0, -1)
	if err != nil {
		return err
	}
	next, err := mutate(all)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sheets WHERE sheet = ?`, sheet); err != nil {
		return err
	}
	for i, r := range next {
		blob, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sheets (sheet, pos, cells) VALUES (?, ?, ?)`,
			sheet, i, string(blob)); err != nil {
			return err
		}
	}
	return tx.Commit()
}
