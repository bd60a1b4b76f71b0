package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/reportview/internal/config"
	"github.com/dgallion1/reportview/internal/loader"
	"github.com/dgallion1/reportview/internal/mission"
	"github.com/dgallion1/reportview/internal/session"
)

var report = `<html><head><title>Flight Report</title></head><body>` +
	`<nav id="toc"><button id="toc-collapse-all"></button><a href="#leg">Leg</a></nav>` +
	`<main>` +
	`<h1 id="intro">Intro</h1><p>intro</p>` +
	`<h2 id="leg">Leg</h2><p>leg</p>` +
	`<button id="mission-advanced-toggle">Advanced</button>` +
	`<table id="mission-table"><thead><tr>` + strings.Repeat("<th></th>", 14) + `</tr></thead><tbody></tbody></table>` +
	`</main></body></html>`

func newTestServer(t *testing.T, apiKey string) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	src := session.Source{Filename: "r.html", Data: []byte(report), Loader: &loader.HTMLLoader{}}
	mgr := session.NewManager(src, mission.DefaultData(), session.Config{TTL: time.Minute, MaxSessions: 8}, log)
	cfg := config.Config{APIKey: apiKey, MaxBodyBytes: 1 << 20}
	ts := httptest.NewServer(NewServer(mgr, log, cfg))
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		json.NewDecoder(resp.Body).Decode(&out)
	}
	return resp, out
}

func createSession(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp, body := do(t, http.MethodPost, ts.URL+"/api/sessions", "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	id, _ := body["session_id"].(string)
	if id == "" {
		t.Fatal("expected a session id")
	}
	return id
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, "")
	resp, body := do(t, http.MethodGet, ts.URL+"/health", "")
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Errorf("unexpected health response %d %v", resp.StatusCode, body)
	}
}

func TestCreateSession(t *testing.T) {
	ts := newTestServer(t, "")
	resp, body := do(t, http.MethodPost, ts.URL+"/api/sessions", "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if body["title"] != "Flight Report" {
		t.Errorf("expected title %q, got %v", "Flight Report", body["title"])
	}
	if body["collapse_label"] != "Collapse All" {
		t.Errorf("expected %q, got %v", "Collapse All", body["collapse_label"])
	}
	outline, _ := body["outline"].(map[string]any)
	children, _ := outline["children"].([]any)
	if len(children) != 1 {
		t.Errorf("expected one root section, got %v", outline)
	}
	tables, _ := body["tables"].([]any)
	if len(tables) != 1 {
		t.Errorf("expected one table, got %d", len(tables))
	}
}

func TestSectionToggleAndCollapseAll(t *testing.T) {
	ts := newTestServer(t, "")
	base := ts.URL + "/api/sessions/" + createSession(t, ts)

	resp, body := do(t, http.MethodPost, base+"/sections/1/toggle", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	sections := body["sections"].([]any)
	if sections[1].(map[string]any)["expanded"] != false {
		t.Errorf("expected section 1 collapsed, got %v", sections[1])
	}

	resp, body = do(t, http.MethodPost, base+"/sections/1/key", `{"key":"Enter"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["sections"].([]any)[1].(map[string]any)["expanded"] != true {
		t.Error("expected Enter to expand section 1")
	}

	_, body = do(t, http.MethodPost, base+"/collapse-all", "")
	if body["collapse_label"] != "Expand All" || body["all_collapsed"] != true {
		t.Errorf("unexpected collapse-all state %v", body)
	}
}

func TestNavigate(t *testing.T) {
	ts := newTestServer(t, "")
	base := ts.URL + "/api/sessions/" + createSession(t, ts)
	do(t, http.MethodPost, base+"/collapse-all", "")

	resp, body := do(t, http.MethodPost, base+"/navigate", `{"href":"#leg"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["intercepted"] != true || body["target_id"] != "leg" {
		t.Errorf("unexpected navigation %v", body)
	}
	expanded := body["expanded"].([]any)
	if len(expanded) != 2 || expanded[0] != float64(0) || expanded[1] != float64(1) {
		t.Errorf("expected [0 1], got %v", expanded)
	}
	scrolls := body["scrolls"].([]any)
	if len(scrolls) != 1 {
		t.Fatalf("expected one scroll, got %v", scrolls)
	}
	if body["sidebar_expanded"] != false {
		t.Error("expected sidebar collapsed")
	}
}

func TestTableEndpoints(t *testing.T) {
	ts := newTestServer(t, "")
	base := ts.URL + "/api/sessions/" + createSession(t, ts)

	_, body := do(t, http.MethodPost, base+"/tables/mission-table/rows/5/select", "")
	tbl := body["tables"].([]any)[0].(map[string]any)
	if tbl["selected"] != float64(5) {
		t.Errorf("expected row 5 selected, got %v", tbl["selected"])
	}
	if tbl["headers"].([]any)[2] != "Ser No" {
		t.Errorf("expected DO_SET_SERVO headers, got %v", tbl["headers"])
	}

	_, body = do(t, http.MethodPost, base+"/tables/mission-table/advanced", "")
	tbl = body["tables"].([]any)[0].(map[string]any)
	if tbl["advanced_hidden"] != true || tbl["selected"] != float64(5) {
		t.Errorf("unexpected state after toggle %v", tbl)
	}

	_, body = do(t, http.MethodPost, base+"/tables/mission-table/header", "")
	tbl = body["tables"].([]any)[0].(map[string]any)
	if tbl["selected"] != float64(0) || tbl["headers"].([]any)[2] != "P1" {
		t.Errorf("unexpected state after reset %v", tbl)
	}

	resp, _ := do(t, http.MethodPost, base+"/tables/mission-table/rows/99/select", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown row, got %d", resp.StatusCode)
	}
	resp, _ = do(t, http.MethodPost, base+"/tables/nope/header", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown table, got %d", resp.StatusCode)
	}
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t, "")
	base := ts.URL + "/api/sessions/" + createSession(t, ts)

	cases := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/api/sessions/unknown/state", "", http.StatusNotFound},
		{http.MethodPost, "/sections/abc/toggle", "", http.StatusBadRequest},
		{http.MethodPost, "/sections/9/toggle", "", http.StatusNotFound},
		{http.MethodPost, "/sections/0/key", `{}`, http.StatusBadRequest},
		{http.MethodPost, "/navigate", `{not json`, http.StatusBadRequest},
		{http.MethodPost, "/click", `{"id":"missing"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		url := base + tc.path
		if strings.HasPrefix(tc.path, "/api/") {
			url = ts.URL + tc.path
		}
		resp, body := do(t, tc.method, url, tc.body)
		if resp.StatusCode != tc.want {
			t.Errorf("%s %s: expected %d, got %d", tc.method, tc.path, tc.want, resp.StatusCode)
		}
		if body["error"] == nil {
			t.Errorf("%s %s: expected error body", tc.method, tc.path)
		}
	}
}

func TestRenderAndDelete(t *testing.T) {
	ts := newTestServer(t, "")
	id := createSession(t, ts)
	base := ts.URL + "/api/sessions/" + id

	resp, err := http.Get(base + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	html, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Errorf("expected html, got %q", resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(string(html), "collapsible-heading") {
		t.Error("expected sectioned markup")
	}

	resp, _ = do(t, http.MethodDelete, base+"/", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}
	resp, _ = do(t, http.MethodGet, base+"/state", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestAuth(t *testing.T) {
	ts := newTestServer(t, "secret")

	resp, _ := do(t, http.MethodPost, ts.URL+"/api/sessions", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/sessions", nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("expected 201, got %d", resp.StatusCode)
	}

	// Health stays public.
	resp, _ = do(t, http.MethodGet, ts.URL+"/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}
