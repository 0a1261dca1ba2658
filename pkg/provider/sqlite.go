package provider

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/yourusername/open-isbn/pkg/isbn"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS isbn_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	isbn13 TEXT UNIQUE NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL DEFAULT '',
	agency TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_isbn_records_agency ON isbn_records(agency);
`

// SQLiteProvider implements the Provider interface for a SQLite database.
type SQLiteProvider struct {
	db     *sql.DB
	parser *isbn.Parser
}

// NewSQLiteProvider opens the database file at path, creating the records
// table if it does not exist.
func NewSQLiteProvider(path string, table *isbn.RangeTable) (*SQLiteProvider, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite provider requires a non-empty database path")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db at %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases coherent and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create isbn_records table: %w", err)
	}
	return &SQLiteProvider{db: db, parser: isbn.NewParser(table, isbn.Form13)}, nil
}

func (p *SQLiteProvider) CreateRecord(rec *Record) error {
	if rec.ISBN.IsZero() {
		return ErrNoISBN
	}
	agency := rec.ISBN.AgencyIn(p.parser.Table())
	created := time.Now().UTC()

	res, err := p.db.Exec(
		"INSERT INTO isbn_records (isbn13, title, source, agency, created_at) VALUES (?, ?, ?, ?, ?)",
		rec.ISBN, rec.Title, rec.Source, agency, created.Format(time.RFC3339Nano),
	)
	if err != nil {
		// isbn13 is the only constraint a validated record can violate.
		var se *sqlite.Error
		if errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read record id: %w", err)
	}
	rec.ID, rec.Agency, rec.CreatedAt = id, agency, created
	return nil
}

func (p *SQLiteProvider) GetRecord(digits string) (*Record, error) {
	row := p.db.QueryRow(
		"SELECT id, isbn13, title, source, agency, created_at FROM isbn_records WHERE isbn13 = ?", digits)
	rec, err := p.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

func (p *SQLiteProvider) ListRecords(limit, offset int) ([]Record, error) {
	limit, offset = normalizePage(limit, offset)
	rows, err := p.db.Query(
		"SELECT id, isbn13, title, source, agency, created_at FROM isbn_records ORDER BY id LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		rec, err := p.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (p *SQLiteProvider) CountByAgency() (map[string]int, error) {
	return countByAgency(p.db)
}

func (p *SQLiteProvider) Close() error {
	return p.db.Close()
}

func (p *SQLiteProvider) scan(s scanner) (*Record, error) {
	var (
		rec     Record
		digits  string
		created string
	)
	if err := s.Scan(&rec.ID, &digits, &rec.Title, &rec.Source, &rec.Agency, &created); err != nil {
		return nil, err
	}
	id, err := p.parser.Parse(digits)
	if err != nil {
		return nil, fmt.Errorf("stored isbn %s no longer parses: %w", digits, err)
	}
	rec.ISBN = id
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("bad created_at %q: %w", created, err)
	}
	return &rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func countByAgency(db *sql.DB) (map[string]int, error) {
	rows, err := db.Query("SELECT agency, COUNT(*) FROM isbn_records GROUP BY agency")
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			agency string
			n      int
		)
		if err := rows.Scan(&agency, &n); err != nil {
			return nil, err
		}
		counts[agency] = n
	}
	return counts, rows.Err()
}
