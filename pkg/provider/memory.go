package provider

import (
	"sync"
	"time"

	"github.com/yourusername/open-isbn/pkg/isbn"
)

type MemoryProvider struct {
	mu      sync.RWMutex
	table   *isbn.RangeTable
	records []Record
	byISBN  map[string]int
	nextID  int64
	now     func() time.Time
}

// NewMemoryProvider returns an empty store. Agency names are resolved
// against table, or the default table when nil.
func NewMemoryProvider(table *isbn.RangeTable) *MemoryProvider {
	if table == nil {
		table = isbn.DefaultRangeTable()
	}
	return &MemoryProvider{
		table:  table,
		byISBN: make(map[string]int),
		nextID: 1,
		now:    time.Now,
	}
}

func (m *MemoryProvider) CreateRecord(rec *Record) error {
	if rec.ISBN.IsZero() {
		return ErrNoISBN
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	digits := rec.ISBN.Digits()
	if _, ok := m.byISBN[digits]; ok {
		return ErrDuplicate
	}
	rec.ID = m.nextID
	rec.Agency = rec.ISBN.AgencyIn(m.table)
	rec.CreatedAt = m.now().UTC()
	m.nextID++

	m.byISBN[digits] = len(m.records)
	m.records = append(m.records, *rec)
	return nil
}

func (m *MemoryProvider) GetRecord(digits string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.byISBN[digits]
	if !ok {
		return nil, ErrNotFound
	}
	rec := m.records[i]
	return &rec, nil
}

func (m *MemoryProvider) ListRecords(limit, offset int) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	limit, offset = normalizePage(limit, offset)
	if offset >= len(m.records) {
		return []Record{}, nil
	}
	end := min(offset+limit, len(m.records))
	out := make([]Record, end-offset)
	copy(out, m.records[offset:end])
	return out, nil
}

func (m *MemoryProvider) CountByAgency() (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int)
	for _, r := range m.records {
		counts[r.Agency]++
	}
	return counts, nil
}

func (m *MemoryProvider) Close() error { return nil }
