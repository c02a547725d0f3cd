package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pots/internal/budget/memory"
	"pots/internal/core"
	"pots/internal/services"
)

type nullPublisher struct{}

func (nullPublisher) PublishSnapshotSaved(context.Context, int64) error { return nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	svc := services.NewBudgetService(memory.New(core.DefaultState()), nullPublisher{})
	s := NewServer("127.0.0.1:0", svc)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

type budgetBody struct {
	Accounts []struct {
		ID        string `json:"id"`
		Assigned  int64  `json:"assigned"`
		Available int64  `json:"available"`
	} `json:"accounts"`
	SubGoals []struct {
		ID       string `json:"id"`
		Assigned int64  `json:"assigned"`
		Progress int    `json:"progress"`
	} `json:"subGoals"`
	TotalFunds    int64 `json:"totalFunds"`
	TotalAssigned int64 `json:"totalAssigned"`
	ReadyToAssign int64 `json:"readyToAssign"`
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	if rec := doRequest(s, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz = %d, want 200", rec.Code)
	}
	if rec := doRequest(s, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Fatalf("readyz = %d, want 200", rec.Code)
	}
}

func TestGetBudgetReturnsSeedTotals(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/v1/budget", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
	if v := rec.Header().Get("X-Content-Type-Options"); v != "nosniff" {
		t.Fatalf("missing security headers, nosniff = %q", v)
	}

	var body budgetBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.TotalFunds != 22800 || body.TotalAssigned != 13000 || body.ReadyToAssign != 9800 {
		t.Fatalf("totals = %d/%d/%d", body.TotalFunds, body.TotalAssigned, body.ReadyToAssign)
	}
}

func TestAssignEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/v1/assign",
		`{"accountId":"acct-alex-main","subGoalId":"sg-house-moving","amount":500}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Result core.AssignResult `json:"result"`
		Budget budgetBody        `json:"budget"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Result.Outcome != core.AssignAppliedFull || resp.Result.Applied != 500 {
		t.Fatalf("result = %+v", resp.Result)
	}
	if resp.Budget.ReadyToAssign != 9300 {
		t.Fatalf("readyToAssign = %d, want 9300", resp.Budget.ReadyToAssign)
	}

	// A later read must see the refreshed view, not a stale cache entry.
	rec = doRequest(s, http.MethodGet, "/api/v1/budget", "")
	var body budgetBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.TotalAssigned != 13500 {
		t.Fatalf("totalAssigned = %d, want 13500", body.TotalAssigned)
	}
}

func TestAssignRejectsBadInput(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"accountId":`, http.StatusBadRequest},
		{"unknown subgoal", `{"accountId":"acct-alex-main","subGoalId":"nope","amount":10}`, http.StatusNotFound},
		{"zero amount", `{"accountId":"acct-alex-main","subGoalId":"sg-house-moving","amount":0}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(s, http.MethodPost, "/api/v1/assign", tc.body)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestAutoAssignEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/v1/auto-assign", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Result core.AutoAssignResult `json:"result"`
		Budget budgetBody            `json:"budget"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Result.Outcome != core.AutoAssignMoved || resp.Result.Moved != 9800 {
		t.Fatalf("result = %+v", resp.Result)
	}
	if resp.Budget.ReadyToAssign != 0 {
		t.Fatalf("readyToAssign = %d, want 0", resp.Budget.ReadyToAssign)
	}
}

func TestAccountLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/v1/accounts",
		`{"name":"Premium Bonds","owner":"Alex","balance":"1500.4"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var body budgetBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.TotalFunds != 22800+1500 {
		t.Fatalf("totalFunds = %d, want 24300", body.TotalFunds)
	}

	// Removing a funded account drops its allocations with it.
	rec = doRequest(s, http.MethodDelete, "/api/v1/accounts/acct-joint-isa", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, sg := range body.SubGoals {
		if sg.ID == "sg-house-deposit" && sg.Assigned != 0 {
			t.Fatalf("deposit still shows assigned=%d after cascade", sg.Assigned)
		}
	}
}

func TestGoalAndSubGoalRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/v1/goals", `{"name":"Holiday"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create goal = %d", rec.Code)
	}
	var d core.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	goalID := d.Goals[len(d.Goals)-1].ID

	rec = doRequest(s, http.MethodPost, "/api/v1/goals/"+goalID+"/subgoals",
		`{"name":"Flights","target":900}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create subgoal = %d", rec.Code)
	}

	rec = doRequest(s, http.MethodPut, "/api/v1/goals/"+goalID, `{"name":"Summer Holiday"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("rename goal = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	found := false
	for _, g := range d.Goals {
		if g.ID == goalID && g.Name == "Summer Holiday" {
			found = true
		}
	}
	if !found {
		t.Fatalf("renamed goal missing from view")
	}

	rec = doRequest(s, http.MethodDelete, "/api/v1/goals/"+goalID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete goal = %d", rec.Code)
	}
}

func TestUpsertReportRoute(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPut, "/api/v1/reports",
		`{"month":"2026-02","owner":"Alex","planned":600,"actual":480}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var d core.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(d.Reports) != 1 || d.Reports[0].Variance != -120 {
		t.Fatalf("reports = %+v", d.Reports)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/v1/assign", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
