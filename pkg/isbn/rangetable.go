package isbn

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

//go:embed data/range.json
var defaultRangeJSON []byte

// RegistrantRule assigns a registrant element length to every registrant
// value v with Low <= v <= High, where v is read from the first Length digits
// after the group element.
type RegistrantRule struct {
	Length int `json:"length"`
	Low    int `json:"low"`
	High   int `json:"high"`
}

// GroupEntry describes one registration group under a GS1 prefix.
type GroupEntry struct {
	Agency string           `json:"agency"`
	Rules  []RegistrantRule `json:"rules"`
}

// RawGroup is the on-disk shape of a group: the agency name and the rules
// flattened into (length, low, high) triples.
type RawGroup struct {
	Agency string `json:"agency"`
	Rules  []int  `json:"rules"`
}

// RawRanges is the on-disk shape of a range table: prefix -> group -> entry.
type RawRanges map[string]map[string]RawGroup

// RangeTable is the read-only registry of GS1 prefixes, registration groups
// and registrant rules. A RangeTable is safe for concurrent use.
type RangeTable struct {
	prefixes    map[string]map[string]GroupEntry
	maxGroupLen int
}

var (
	defaultTableOnce sync.Once
	defaultTable     *RangeTable
)

// DefaultRangeTable returns the table built from the embedded range data.
// It panics if the embedded data is malformed or not prefix-free.
func DefaultRangeTable() *RangeTable {
	defaultTableOnce.Do(func() {
		t, err := LoadRangeTable(bytes.NewReader(defaultRangeJSON))
		if err != nil {
			panic(fmt.Sprintf("isbn: embedded range data: %v", err))
		}
		defaultTable = t
	})
	return defaultTable
}

// LoadRangeTable decodes a JSON range document and builds a table from it.
func LoadRangeTable(r io.Reader) (*RangeTable, error) {
	var raw RawRanges
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode range data: %w", err)
	}
	return NewRangeTable(raw)
}

// NewRangeTable validates raw range data and builds a table. Rules with a
// zero length are dropped. Group codes under one prefix must be prefix-free.
func NewRangeTable(raw RawRanges) (*RangeTable, error) {
	t := &RangeTable{prefixes: make(map[string]map[string]GroupEntry, len(raw))}
	for prefix, groups := range raw {
		if len(prefix) != 3 || !allDigits(prefix) {
			return nil, fmt.Errorf("bad gs1 prefix %q", prefix)
		}
		entries := make(map[string]GroupEntry, len(groups))
		for code, g := range groups {
			if code == "" || len(code) > 9 || !allDigits(code) {
				return nil, fmt.Errorf("bad group code %q under %s", code, prefix)
			}
			rules, err := buildRules(g.Rules)
			if err != nil {
				return nil, fmt.Errorf("group %s-%s: %w", prefix, code, err)
			}
			entries[code] = GroupEntry{Agency: g.Agency, Rules: rules}
			if len(code) > t.maxGroupLen {
				t.maxGroupLen = len(code)
			}
		}
		if err := assertPrefixFree(entries); err != nil {
			return nil, fmt.Errorf("prefix %s: %w", prefix, err)
		}
		t.prefixes[prefix] = entries
	}
	return t, nil
}

func buildRules(flat []int) ([]RegistrantRule, error) {
	if len(flat)%3 != 0 {
		return nil, fmt.Errorf("rules must be (length, low, high) triples, got %d values", len(flat))
	}
	rules := make([]RegistrantRule, 0, len(flat)/3)
	for i := 0; i < len(flat); i += 3 {
		r := RegistrantRule{Length: flat[i], Low: flat[i+1], High: flat[i+2]}
		if r.Length == 0 {
			continue
		}
		if r.Length < 0 || r.Length > 7 || r.Low < 0 || r.Low > r.High {
			return nil, fmt.Errorf("bad rule %v", r)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func assertPrefixFree(entries map[string]GroupEntry) error {
	codes := make([]string, 0, len(entries))
	for code := range entries {
		codes = append(codes, code)
	}
	// After sorting, a code that prefixes another sorts immediately before
	// some code it prefixes.
	sort.Strings(codes)
	for i := 1; i < len(codes); i++ {
		if strings.HasPrefix(codes[i], codes[i-1]) {
			return fmt.Errorf("group %s is a prefix of group %s", codes[i-1], codes[i])
		}
	}
	return nil
}

// HasPrefix reports whether the table knows the GS1 prefix.
func (t *RangeTable) HasPrefix(gs1 string) bool {
	_, ok := t.prefixes[gs1]
	return ok
}

// Prefixes returns the known GS1 prefixes in ascending order.
func (t *RangeTable) Prefixes() []string {
	out := make([]string, 0, len(t.prefixes))
	for p := range t.prefixes {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Groups returns the group codes registered under gs1 in ascending order.
func (t *RangeTable) Groups(gs1 string) []string {
	groups := t.prefixes[gs1]
	out := make([]string, 0, len(groups))
	for code := range groups {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Group returns a copy of the entry for gs1 and group.
func (t *RangeTable) Group(gs1, group string) (GroupEntry, bool) {
	e, ok := t.prefixes[gs1][group]
	if !ok {
		return GroupEntry{}, false
	}
	e.Rules = append([]RegistrantRule(nil), e.Rules...)
	return e, true
}

// Agency returns the agency name for gs1 and group.
func (t *RangeTable) Agency(gs1, group string) (string, bool) {
	e, ok := t.prefixes[gs1][group]
	return e.Agency, ok
}

// matchGroup finds the unique group code under gs1 that prefixes rest.
func (t *RangeTable) matchGroup(gs1, rest string) (string, GroupEntry, bool) {
	groups := t.prefixes[gs1]
	for l := 1; l <= t.maxGroupLen && l <= len(rest); l++ {
		if e, ok := groups[rest[:l]]; ok {
			return rest[:l], e, true
		}
	}
	return "", GroupEntry{}, false
}
