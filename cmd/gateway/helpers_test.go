package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/open-isbn/pkg/config"
	"github.com/yourusername/open-isbn/pkg/index"
	"github.com/yourusername/open-isbn/pkg/isbn"
	"github.com/yourusername/open-isbn/pkg/metrics"
	"github.com/yourusername/open-isbn/pkg/provider"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter wires a gateway over the default range table. A nil store
// selects a fresh in-memory provider.
func newTestRouter(t *testing.T, cfg config.Config, store provider.Provider) *gin.Engine {
	t.Helper()

	table := isbn.DefaultRangeTable()
	idx, err := index.BuildFromTable(table)
	if err != nil {
		t.Fatalf("Failed to build index: %v", err)
	}
	t.Cleanup(func() { idx.Close() })

	if store == nil {
		store = provider.NewMemoryProvider(table)
	}
	return setupRouter(NewGateway(cfg, table, store, idx, metrics.New()))
}

func doRequest(r http.Handler, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("Failed to decode body %q: %v", w.Body.String(), err)
	}
	return m
}
