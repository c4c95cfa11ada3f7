package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Remco28/fencer-schedules/internal/testutil"
	"github.com/Remco28/fencer-schedules/pkg/bulk"
	"github.com/Remco28/fencer-schedules/pkg/cache"
	"github.com/Remco28/fencer-schedules/pkg/client"
)

func newTestMux(t *testing.T, mock *testutil.MockFTL) *http.ServeMux {
	t.Helper()

	c, err := client.New(client.Config{
		BaseURL:     mock.URL(),
		UserAgent:   "test-agent",
		MaxAttempts: 1,
		BackoffBase: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("client.New() error = %v", err)
	}

	fetcher, err := bulk.New(bulk.Config{
		Client: c,
		Store:  cache.NewMemoryStore(time.Minute),
	})
	if err != nil {
		t.Fatalf("bulk.New() error = %v", err)
	}
	return newMux(fetcher)
}

func seedRound(mock *testutil.MockFTL) {
	poolID := strings.Repeat("A", 32)
	mock.SetPoolScores("E1", "R1", fmt.Sprintf(`<script>var ids = [%q];</script>`, poolID))
	mock.SetPoolDetail("E1", "R1", poolID,
		`<h4 class="poolNum">Pool #1</h4><table>`+
			`<tr class="poolRow"><td><span class="poolCompName">SMITH John</span></td></tr>`+
			`<tr class="poolRow"><td><span class="poolCompName">JONES Amy</span></td></tr>`+
			`</table>`)
	mock.SetPoolResults("E1", "R1",
		`[{"id": "F001", "name": "SMITH John", "v": 5, "m": 5, "prediction": "Advanced"}]`)
	mock.SetTableau("E1", "DE1", `<table class="elimTableau">
<tr><th>Finals</th></tr>
<tr><td class="tbb"><span class="tcln">SMITH</span><span class="tcfn">John</span></td></tr>
<tr><td><span class="tsco">15 - 9</span></td></tr>
<tr><td class="tbbr"><span class="tcln">JONES</span><span class="tcfn">Amy</span></td></tr>
</table>`)
}

func doRequest(mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestPoolsEndpoint(t *testing.T) {
	mock := testutil.NewMockFTL()
	defer mock.Close()
	seedRound(mock)

	mux := newTestMux(t, mock)
	rec := doRequest(mux, "/api/pools/E1/R1")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var bundle bulk.Bundle
	if err := json.Unmarshal(rec.Body.Bytes(), &bundle); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(bundle.Pools) != 1 || bundle.Pools[0].PoolNumber != 1 {
		t.Errorf("unexpected pools payload: %+v", bundle.Pools)
	}
	if len(bundle.Results) != 1 {
		t.Errorf("len(Results) = %d, want 1", len(bundle.Results))
	}
}

func TestPoolsEndpointNotYetAvailable(t *testing.T) {
	mock := testutil.NewMockFTL()
	defer mock.Close()
	seedRound(mock)
	mock.SetStatus("/pools/results/data/E1/R1", 404)

	mux := newTestMux(t, mock)
	rec := doRequest(mux, "/api/pools/E1/R1")

	if rec.Code != http.StatusTooEarly {
		t.Fatalf("status = %d, want 425; body = %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["reason"] != "not_yet_available" {
		t.Errorf("reason = %q, want not_yet_available", body["reason"])
	}
}

func TestPoolsEndpointUpstreamDown(t *testing.T) {
	mock := testutil.NewMockFTL()
	defer mock.Close()
	mock.SetStatus("/pools/scores/E1/R1", 500)

	mux := newTestMux(t, mock)
	rec := doRequest(mux, "/api/pools/E1/R1")

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502; body = %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["reason"] != "upstream_unavailable" {
		t.Errorf("reason = %q, want upstream_unavailable", body["reason"])
	}
}

func TestPoolsEndpointParseFailure(t *testing.T) {
	mock := testutil.NewMockFTL()
	defer mock.Close()
	mock.SetPoolScores("E1", "R1", "<html>no ids script here</html>")

	mux := newTestMux(t, mock)
	rec := doRequest(mux, "/api/pools/E1/R1")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["reason"] != "parse_failure" {
		t.Errorf("reason = %q, want parse_failure", body["reason"])
	}
}

func TestInvalidIDsRejected(t *testing.T) {
	mock := testutil.NewMockFTL()
	defer mock.Close()

	mux := newTestMux(t, mock)
	rec := doRequest(mux, "/api/pools/bad%2Fid/R1")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	mock := testutil.NewMockFTL()
	defer mock.Close()
	seedRound(mock)

	mux := newTestMux(t, mock)
	rec := doRequest(mux, "/api/pools/E1/R1/fencer?name=smith")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rec.Code, rec.Body.String())
	}

	var result bulk.SearchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(result.Matches) == 0 {
		t.Error("expected at least one match")
	}

	rec = doRequest(mux, "/api/pools/E1/R1/fencer")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status without name = %d, want 400", rec.Code)
	}
}

func TestTableauEndpoint(t *testing.T) {
	mock := testutil.NewMockFTL()
	defer mock.Close()
	seedRound(mock)

	mux := newTestMux(t, mock)
	rec := doRequest(mux, "/api/de/E1/DE1")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "SMITH John") {
		t.Errorf("body missing fencer name: %s", rec.Body.String())
	}
}

func TestHealthAndMetrics(t *testing.T) {
	mock := testutil.NewMockFTL()
	defer mock.Close()

	mux := newTestMux(t, mock)

	if rec := doRequest(mux, "/health"); rec.Code != http.StatusOK {
		t.Errorf("/health status = %d, want 200", rec.Code)
	}
	if rec := doRequest(mux, "/metrics"); rec.Code != http.StatusOK {
		t.Errorf("/metrics status = %d, want 200", rec.Code)
	}
}

func TestForceRefreshQuery(t *testing.T) {
	mock := testutil.NewMockFTL()
	defer mock.Close()
	seedRound(mock)

	mux := newTestMux(t, mock)
	listingPath := "/pools/scores/E1/R1"

	doRequest(mux, "/api/pools/E1/R1")
	doRequest(mux, "/api/pools/E1/R1")
	if got := mock.RequestCount(listingPath); got != 1 {
		t.Errorf("RequestCount = %d, want 1 (second read cached)", got)
	}

	doRequest(mux, "/api/pools/E1/R1?force_refresh=true")
	if got := mock.RequestCount(listingPath); got != 2 {
		t.Errorf("RequestCount = %d after force_refresh, want 2", got)
	}
}
