package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/yourusername/open-isbn/pkg/config"
	"github.com/yourusername/open-isbn/pkg/index"
	"github.com/yourusername/open-isbn/pkg/isbn"
	"github.com/yourusername/open-isbn/pkg/marc"
	"github.com/yourusername/open-isbn/pkg/metrics"
	"github.com/yourusername/open-isbn/pkg/provider"
)

func TestHealth(t *testing.T) {
	r := newTestRouter(t, config.Default(), nil)
	w := doRequest(r, "GET", "/health", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d", w.Code)
	}
	if got := decodeBody(t, w)["status"]; got != "UP" {
		t.Errorf("Expected status UP, got %v", got)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header")
	}
}

func TestParseHandler(t *testing.T) {
	r := newTestRouter(t, config.Default(), nil)

	testCases := []struct {
		name       string
		params     url.Values
		wantCode   int
		wantFormat string
		wantISBN10 string
		wantKind   string
	}{
		{
			name:       "Plain 13 digits",
			params:     url.Values{"q": {"9780802130204"}},
			wantCode:   http.StatusOK,
			wantFormat: "ISBN 978-0-8021-3020-4",
			wantISBN10: "0-8021-3020-8",
		},
		{
			name:       "2005 rendered as ISBN-10",
			params:     url.Values{"q": {"ISBN 0 14 00.2346 1"}, "standard": {"2005"}, "format": {"ISBN-10"}},
			wantCode:   http.StatusOK,
			wantFormat: "ISBN-10 0-14-002346-1",
			wantISBN10: "0-14-002346-1",
		},
		{
			name:       "2017 accepts 13 digits",
			params:     url.Values{"q": {"979-10-90636-07-1"}, "standard": {"2017"}},
			wantCode:   http.StatusOK,
			wantFormat: "ISBN 979-10-90636-07-1",
		},
		{
			name:     "2017 rejects 10 digits",
			params:   url.Values{"q": {"014005510X"}, "standard": {"2017"}},
			wantCode: http.StatusUnprocessableEntity,
			wantKind: "invalid_format",
		},
		{
			name:     "Bad check digit",
			params:   url.Values{"q": {"9780802130200"}},
			wantCode: http.StatusUnprocessableEntity,
			wantKind: "invalid_check_digit",
		},
		{
			name:     "Unknown registrant",
			params:   url.Values{"q": {"9781060000001"}},
			wantCode: http.StatusUnprocessableEntity,
			wantKind: "unrecognised_registrant",
		},
		{
			name:     "Unknown format selector",
			params:   url.Values{"q": {"9780802130204"}, "standard": {"2005"}, "format": {"ISBN-11"}},
			wantCode: http.StatusBadRequest,
			wantKind: "unsupported_format",
		},
		{
			name:     "Format with legacy standard",
			params:   url.Values{"q": {"9780802130204"}, "format": {"ISBN-10"}},
			wantCode: http.StatusBadRequest,
			wantKind: "unsupported_format",
		},
		{
			name:     "Unknown standard",
			params:   url.Values{"q": {"9780802130204"}, "standard": {"1999"}},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(r, "GET", "/api/isbn/parse?"+tc.params.Encode(), nil, nil)
			if w.Code != tc.wantCode {
				t.Fatalf("Expected %d, got %d. Body: %s", tc.wantCode, w.Code, w.Body.String())
			}
			body := decodeBody(t, w)
			if tc.wantFormat != "" && body["formatted"] != tc.wantFormat {
				t.Errorf("formatted = %v, want %s", body["formatted"], tc.wantFormat)
			}
			if tc.wantCode == http.StatusOK {
				got, _ := body["isbn10"].(string)
				if got != tc.wantISBN10 {
					t.Errorf("isbn10 = %q, want %q", got, tc.wantISBN10)
				}
			}
			if tc.wantKind != "" && body["kind"] != tc.wantKind {
				t.Errorf("kind = %v, want %s", body["kind"], tc.wantKind)
			}
		})
	}
}

func TestParseHandlerUsesLoadedTable(t *testing.T) {
	doc := `{"978": {"0": {"agency": "Custom English", "rules": [4, 7000, 8499]}}}`
	table, err := isbn.LoadRangeTable(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Failed to load table: %v", err)
	}
	idx, err := index.BuildFromTable(table)
	if err != nil {
		t.Fatalf("Failed to build index: %v", err)
	}
	defer idx.Close()
	r := setupRouter(NewGateway(config.Default(), table, provider.NewMemoryProvider(table), idx, metrics.New()))

	w := doRequest(r, "GET", "/api/isbn/parse?q=9780802130204", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d. Body: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["agency"] != "Custom English" {
		t.Errorf("agency = %v, want Custom English", body["agency"])
	}
	if id, _ := body["isbn"].(map[string]any); id["agency"] != nil {
		t.Errorf("Expected no agency inside the identifier, got %v", id["agency"])
	}

	w = doRequest(r, "POST", "/api/isbn/batch", []byte(`{"items": ["9780802130204"]}`), nil)
	if !strings.Contains(w.Body.String(), `"agency":"Custom English"`) {
		t.Errorf("Expected batch result agency from the loaded table: %s", w.Body.String())
	}

	w = doRequest(r, "POST", "/api/records", []byte(`{"isbn": "9780802130204"}`), nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d. Body: %s", w.Code, w.Body.String())
	}
	if got := decodeBody(t, w)["agency"]; got != "Custom English" {
		t.Errorf("record agency = %v, want Custom English", got)
	}
}

func TestValidateHandler(t *testing.T) {
	r := newTestRouter(t, config.Default(), nil)

	testCases := []struct {
		q            string
		valid        bool
		checksumOK   bool
		expectedKind string
	}{
		{"978-0-8021-3020-4", true, true, ""},
		{"9780802130200", false, false, "invalid_check_digit"},
		{"9799999999983", false, true, "unrecognised_group"},
		{"no isbn here", false, false, "invalid_format"},
	}
	for _, tc := range testCases {
		w := doRequest(r, "GET", "/api/isbn/validate?q="+url.QueryEscape(tc.q), nil, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200 OK for %q, got %d", tc.q, w.Code)
		}
		body := decodeBody(t, w)
		if body["valid"] != tc.valid || body["checksum_valid"] != tc.checksumOK {
			t.Errorf("%q: valid=%v checksum_valid=%v, want %v %v", tc.q, body["valid"], body["checksum_valid"], tc.valid, tc.checksumOK)
		}
		if body["kind"] != tc.expectedKind {
			t.Errorf("%q: kind=%v, want %q", tc.q, body["kind"], tc.expectedKind)
		}
	}
}

func TestCheckDigitHandler(t *testing.T) {
	r := newTestRouter(t, config.Default(), nil)

	testCases := []struct {
		digits   string
		wantCode int
		want     string
	}{
		{"978080213020", http.StatusOK, "4"},
		{"014005510", http.StatusOK, "X"},
		{"123", http.StatusBadRequest, ""},
		{"97808021302a", http.StatusUnprocessableEntity, ""},
	}
	for _, tc := range testCases {
		w := doRequest(r, "GET", "/api/isbn/check-digit?digits="+tc.digits, nil, nil)
		if w.Code != tc.wantCode {
			t.Errorf("%s: expected %d, got %d. Body: %s", tc.digits, tc.wantCode, w.Code, w.Body.String())
			continue
		}
		if tc.want != "" && decodeBody(t, w)["check_digit"] != tc.want {
			t.Errorf("%s: check_digit = %v, want %s", tc.digits, decodeBody(t, w)["check_digit"], tc.want)
		}
	}
}

func TestBatchHandler(t *testing.T) {
	r := newTestRouter(t, config.Default(), nil)

	body := `{"items": ["9780802130204", "0140016481", "9780802130200"]}`
	w := doRequest(r, "POST", "/api/isbn/batch", []byte(body), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d. Body: %s", w.Code, w.Body.String())
	}

	var results []isbn.Result
	if err := json.Unmarshal(w.Body.Bytes(), &results); err != nil {
		t.Fatalf("Failed to decode results: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if !results[0].OK() || !results[1].OK() {
		t.Errorf("Expected first two results to succeed: %+v", results)
	}
	if results[1].ISBN.Hyphenated() != "978-0-14-001648-2" {
		t.Errorf("Unexpected second result %s", results[1].ISBN.Hyphenated())
	}
	if results[2].OK() || results[2].Kind != isbn.KindInvalidCheckDigit {
		t.Errorf("Expected check digit failure, got %+v", results[2])
	}

	w = doRequest(r, "POST", "/api/isbn/batch", []byte(`{}`), nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing items, got %d", w.Code)
	}
}

func TestGroupsHandler(t *testing.T) {
	r := newTestRouter(t, config.Default(), nil)

	w := doRequest(r, "GET", "/api/groups", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d", w.Code)
	}
	prefixes, _ := decodeBody(t, w)["prefixes"].([]any)
	if len(prefixes) != 2 || prefixes[0] != "978" || prefixes[1] != "979" {
		t.Errorf("Unexpected prefixes %v", prefixes)
	}

	w = doRequest(r, "GET", "/api/groups?prefix=979", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d", w.Code)
	}
	if got := decodeBody(t, w)["count"]; got != float64(5) {
		t.Errorf("Expected 5 groups under 979, got %v", got)
	}

	w = doRequest(r, "GET", "/api/groups?prefix=977", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown prefix, got %d", w.Code)
	}
}

func TestGroupSearchHandler(t *testing.T) {
	r := newTestRouter(t, config.Default(), nil)

	w := doRequest(r, "GET", "/api/groups/search?q=finland", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d. Body: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"978-951"`) {
		t.Errorf("Expected 978-951 among hits: %s", w.Body.String())
	}

	w = doRequest(r, "GET", "/api/groups/search", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty query, got %d", w.Code)
	}
}

func TestRecordsFlow(t *testing.T) {
	r := newTestRouter(t, config.Default(), nil)

	create := `{"isbn": "ISBN-10 0-8021-3020-8", "title": "The Sound and the Fury", "source": "test"}`
	w := doRequest(r, "POST", "/api/records", []byte(create), nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d. Body: %s", w.Code, w.Body.String())
	}
	var rec provider.Record
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("Failed to decode record: %v", err)
	}
	if rec.ISBN.Digits() != "9780802130204" || rec.Agency != "English language" {
		t.Errorf("Unexpected record %+v", rec)
	}

	w = doRequest(r, "POST", "/api/records", []byte(`{"isbn": "978-0-8021-3020-4"}`), nil)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 for duplicate, got %d", w.Code)
	}

	w = doRequest(r, "POST", "/api/records", []byte(`{"isbn": "9780802130200"}`), nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for bad ISBN, got %d", w.Code)
	}

	w = doRequest(r, "GET", "/api/records/0-8021-3020-8", nil, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 fetching by ISBN-10, got %d. Body: %s", w.Code, w.Body.String())
	}

	w = doRequest(r, "GET", "/api/records/9783423214346", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing record, got %d", w.Code)
	}

	w = doRequest(r, "GET", "/api/records", nil, nil)
	if recs, _ := decodeBody(t, w)["records"].([]any); len(recs) != 1 {
		t.Errorf("Expected 1 listed record, got %d", len(recs))
	}

	w = doRequest(r, "GET", "/api/records/stats", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d", w.Code)
	}
	if got := decodeBody(t, w)["total"]; got != float64(1) {
		t.Errorf("Expected total 1, got %v", got)
	}
}

func TestRecordsStoreFailure(t *testing.T) {
	mockProv := &MockProvider{}
	mockProv.CreateRecordFunc = func(rec *provider.Record) error {
		return errors.New("disk full")
	}
	mockProv.CountByAgencyFunc = func() (map[string]int, error) {
		return nil, errors.New("connection reset")
	}
	r := newTestRouter(t, config.Default(), mockProv)

	w := doRequest(r, "POST", "/api/records", []byte(`{"isbn": "9780802130204"}`), nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", w.Code)
	}
	w = doRequest(r, "GET", "/api/records/stats", nil, nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", w.Code)
	}
}

func TestMARCHandler(t *testing.T) {
	r := newTestRouter(t, config.Default(), nil)

	data := marc.Build(marc.ProfileMARC21, "ocm1", "Penguin", "014005510X (pbk.)", "9780802130200")
	w := doRequest(r, "POST", "/api/marc/isbns", data, map[string]string{"Content-Type": "application/marc"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d. Body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		RecordID string            `json:"record_id"`
		Profile  string            `json:"profile"`
		ISBNs    []json.RawMessage `json:"isbns"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if resp.RecordID != "ocm1" || resp.Profile != "marc21" || len(resp.ISBNs) != 2 {
		t.Errorf("Unexpected response %s", w.Body.String())
	}
	if !strings.Contains(string(resp.ISBNs[1]), "invalid_check_digit") {
		t.Errorf("Expected second ISBN to fail its check digit: %s", resp.ISBNs[1])
	}

	w = doRequest(r, "POST", "/api/marc/isbns", []byte("garbage"), nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for garbage, got %d", w.Code)
	}

	w = doRequest(r, "POST", "/api/marc/isbns?profile=dc", data, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown profile, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, config.Default(), nil)
	doRequest(r, "GET", "/api/isbn/parse?q=9780802130204", nil, nil)
	doRequest(r, "GET", "/api/isbn/parse?q=9780802130200", nil, nil)

	w := doRequest(r, "GET", "/metrics", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d", w.Code)
	}
	for _, want := range []string{`isbn_parse_total{kind="ok"} 1`, `isbn_parse_total{kind="invalid_check_digit"} 1`} {
		if !strings.Contains(w.Body.String(), want) {
			t.Errorf("Expected %q in metrics output", want)
		}
	}
}
