package provider

import (
	"errors"
	"time"

	"github.com/yourusername/open-isbn/pkg/isbn"
)

var (
	ErrDuplicate = errors.New("record already exists")
	ErrNotFound  = errors.New("record not found")
	ErrNoISBN    = errors.New("record has no isbn")
)

// Record is a stored, already-validated ISBN together with the catalogue
// metadata it was submitted with.
type Record struct {
	ID        int64           `json:"id"`
	ISBN      isbn.Identifier `json:"isbn"`
	Title     string          `json:"title"`
	Source    string          `json:"source,omitempty"`
	Agency    string          `json:"agency,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type Provider interface {
	// CreateRecord stores rec and fills in ID, Agency and CreatedAt.
	// A second record with the same 13-digit ISBN fails with ErrDuplicate.
	CreateRecord(rec *Record) error

	// GetRecord looks a record up by its 13-digit ISBN.
	GetRecord(digits string) (*Record, error)

	// ListRecords returns records in insertion order.
	ListRecords(limit, offset int) ([]Record, error)

	// CountByAgency returns the number of stored records per agency name.
	CountByAgency() (map[string]int, error)

	Close() error
}

// DefaultListLimit caps ListRecords when the caller passes a limit <= 0.
const DefaultListLimit = 50

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
