package index

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/yourusername/open-isbn/pkg/isbn"
)

// GroupDocument is the searchable view of one registration group.
type GroupDocument struct {
	Prefix string `json:"prefix"`
	Group  string `json:"group"`
	Agency string `json:"agency"`
	Code   string `json:"code"`
}

// SearchHit is one matching group, identified as "prefix-group".
type SearchHit struct {
	ID     string  `json:"id"`
	Prefix string  `json:"prefix"`
	Group  string  `json:"group"`
	Agency string  `json:"agency"`
	Score  float64 `json:"score"`
}

type Manager struct {
	index bleve.Index
	path  string
}

func newMapping() mapping.IndexMapping {
	m := bleve.NewIndexMapping()
	m.DefaultAnalyzer = standard.Name

	doc := bleve.NewDocumentMapping()
	agency := bleve.NewTextFieldMapping()
	agency.Analyzer = standard.Name
	agency.Store = true
	doc.AddFieldMappingsAt("agency", agency)

	for _, name := range []string{"prefix", "group", "code"} {
		f := bleve.NewTextFieldMapping()
		f.Analyzer = keyword.Name
		f.Store = true
		doc.AddFieldMappingsAt(name, f)
	}
	m.DefaultMapping = doc
	return m
}

// NewMemoryManager creates an index that lives only in memory.
func NewMemoryManager() (*Manager, error) {
	idx, err := bleve.NewMemOnly(newMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}
	return &Manager{index: idx}, nil
}

// NewManager opens or creates an index at path.
func NewManager(path string) (*Manager, error) {
	var idx bleve.Index
	var err error

	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		idx, err = bleve.New(path, newMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create index: %w", err)
		}
		slog.Info("created new bleve index", "path", path)
	} else {
		idx, err = bleve.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open index: %w", err)
		}
		slog.Info("opened existing bleve index", "path", path)
	}
	return &Manager{index: idx, path: path}, nil
}

// BuildFromTable indexes every group in table in one batch.
func BuildFromTable(table *isbn.RangeTable) (*Manager, error) {
	m, err := NewMemoryManager()
	if err != nil {
		return nil, err
	}
	if err := m.IndexTable(table); err != nil {
		m.Close()
		return nil, err
	}
	return m, nil
}

func (m *Manager) Close() error {
	return m.index.Close()
}

// IndexTable adds or replaces the documents for every group in table.
func (m *Manager) IndexTable(table *isbn.RangeTable) error {
	batch := m.index.NewBatch()
	for _, prefix := range table.Prefixes() {
		for _, group := range table.Groups(prefix) {
			agency, _ := table.Agency(prefix, group)
			doc := GroupDocument{Prefix: prefix, Group: group, Agency: agency, Code: prefix + "-" + group}
			if err := batch.Index(doc.Code, doc); err != nil {
				return fmt.Errorf("failed to index group %s: %w", doc.Code, err)
			}
		}
	}
	if err := m.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to commit index batch: %w", err)
	}
	slog.Info("indexed range table", "groups", batch.Size())
	return nil
}

// Search runs a query string query ("finland", "agency:spain", "prefix:979")
// and returns at most limit hits.
func (m *Manager) Search(queryStr string, limit int) ([]SearchHit, error) {
	if limit <= 0 {
		limit = 50
	}
	req := bleve.NewSearchRequest(bleve.NewQueryStringQuery(queryStr))
	req.Size = limit
	req.Fields = []string{"prefix", "group", "agency"}

	res, err := m.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]SearchHit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hit := SearchHit{ID: h.ID, Score: h.Score}
		hit.Prefix, _ = h.Fields["prefix"].(string)
		hit.Group, _ = h.Fields["group"].(string)
		hit.Agency, _ = h.Fields["agency"].(string)
		hits = append(hits, hit)
	}
	slog.Debug("group search executed", "query", queryStr, "hits", res.Total, "took", res.Took)
	return hits, nil
}

// Count returns the number of indexed groups.
func (m *Manager) Count() (uint64, error) {
	return m.index.DocCount()
}
