package main

import "github.com/yourusername/open-isbn/pkg/provider"

type MockProvider struct {
	CreateRecordFunc  func(rec *provider.Record) error
	GetRecordFunc     func(digits string) (*provider.Record, error)
	ListRecordsFunc   func(limit, offset int) ([]provider.Record, error)
	CountByAgencyFunc func() (map[string]int, error)
}

func (m *MockProvider) CreateRecord(rec *provider.Record) error {
	if m.CreateRecordFunc != nil {
		return m.CreateRecordFunc(rec)
	}
	return nil
}

func (m *MockProvider) GetRecord(digits string) (*provider.Record, error) {
	if m.GetRecordFunc != nil {
		return m.GetRecordFunc(digits)
	}
	return nil, provider.ErrNotFound
}

func (m *MockProvider) ListRecords(limit, offset int) ([]provider.Record, error) {
	if m.ListRecordsFunc != nil {
		return m.ListRecordsFunc(limit, offset)
	}
	return []provider.Record{}, nil
}

func (m *MockProvider) CountByAgency() (map[string]int, error) {
	if m.CountByAgencyFunc != nil {
		return m.CountByAgencyFunc()
	}
	return map[string]int{}, nil
}

func (m *MockProvider) Close() error { return nil }
