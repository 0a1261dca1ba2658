package provider

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/yourusername/open-isbn/pkg/isbn"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS isbn_records (
	id SERIAL PRIMARY KEY,
	isbn13 TEXT UNIQUE NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL DEFAULT '',
	agency TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_isbn_records_agency ON isbn_records(agency);
`

// uniqueViolation is the SQLSTATE postgres reports for a duplicate key.
const uniqueViolation = "23505"

type PostgresProvider struct {
	db     *sql.DB
	parser *isbn.Parser
}

func NewPostgresProvider(dsn string, table *isbn.RangeTable) (*PostgresProvider, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres provider requires a non-empty DSN")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres db: %w", err)
	}
	if _, err := db.Exec(postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create isbn_records table: %w", err)
	}
	return &PostgresProvider{db: db, parser: isbn.NewParser(table, isbn.Form13)}, nil
}

func (p *PostgresProvider) CreateRecord(rec *Record) error {
	if rec.ISBN.IsZero() {
		return ErrNoISBN
	}
	agency := rec.ISBN.AgencyIn(p.parser.Table())
	err := p.db.QueryRow(
		`INSERT INTO isbn_records (isbn13, title, source, agency)
		 VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		rec.ISBN, rec.Title, rec.Source, agency,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert record: %w", err)
	}
	rec.Agency = agency
	return nil
}

func (p *PostgresProvider) GetRecord(digits string) (*Record, error) {
	row := p.db.QueryRow(
		"SELECT id, isbn13, title, source, agency, created_at FROM isbn_records WHERE isbn13 = $1", digits)
	rec, err := p.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

func (p *PostgresProvider) ListRecords(limit, offset int) ([]Record, error) {
	limit, offset = normalizePage(limit, offset)
	rows, err := p.db.Query(
		"SELECT id, isbn13, title, source, agency, created_at FROM isbn_records ORDER BY id LIMIT $1 OFFSET $2",
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

func (p *PostgresProvider) CountByAgency() (map[string]int, error) {
	return countByAgency(p.db)
}

func (p *PostgresProvider) Close() error {
	return p.db.Close()
}

func (p *PostgresProvider) scan(s scanner) (*Record, error) {
	var (
		rec    Record
		digits string
	)
	if err := s.Scan(&rec.ID, &digits, &rec.Title, &rec.Source, &rec.Agency, &rec.CreatedAt); err != nil {
		return nil, err
	}
	id, err := p.parser.Parse(digits)
	if err != nil {
		return nil, fmt.Errorf("stored isbn %s no longer parses: %w", digits, err)
	}
	rec.ISBN = id
	return &rec, nil
}
