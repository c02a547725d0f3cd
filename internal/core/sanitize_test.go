package core

import (
	"reflect"
	"strings"
	"testing"
)

func TestSanitizeFillsMissingFields(t *testing.T) {
	s := Sanitize(State{
		Accounts: []Account{
			{Name: "  ", Owner: "somebody else", Balance: -200},
			{ID: "acct-keep", Name: " Holiday Fund ", Owner: "Jordan", Balance: 500},
		},
		Goals: []Goal{
			{SubGoals: []SubGoal{{Target: -50}, {ID: "sg-keep", Name: "Deposit", Target: 900}}},
		},
	})

	a := s.Accounts[0]
	if a.ID == "" || !strings.HasPrefix(a.ID, "acct-") {
		t.Fatalf("expected generated account id with acct- prefix, got %q", a.ID)
	}
	if a.Name != "Account 1" {
		t.Fatalf("expected placeholder name, got %q", a.Name)
	}
	if a.Owner != OwnerJoint {
		t.Fatalf("unknown owner should fall back to %q, got %q", OwnerJoint, a.Owner)
	}
	if a.Balance != 0 {
		t.Fatalf("negative balance should clamp to 0, got %d", a.Balance)
	}

	b := s.Accounts[1]
	if b.ID != "acct-keep" || b.Name != "Holiday Fund" || b.Owner != "Jordan" || b.Balance != 500 {
		t.Fatalf("valid account should survive with trimmed name, got %+v", b)
	}

	g := s.Goals[0]
	if g.ID == "" || g.Name != "Goal 1" {
		t.Fatalf("goal should get id and placeholder name, got %+v", g)
	}
	if g.SubGoals[0].ID == "" || g.SubGoals[0].Name != "Sub-goal 1" || g.SubGoals[0].Target != 0 {
		t.Fatalf("sub-goal should be repaired, got %+v", g.SubGoals[0])
	}
	if g.SubGoals[1].ID != "sg-keep" || g.SubGoals[1].Target != 900 {
		t.Fatalf("valid sub-goal should survive, got %+v", g.SubGoals[1])
	}
}

func TestSanitizeDropsInvalidAllocations(t *testing.T) {
	base := State{
		Accounts: []Account{{ID: "acct-1", Name: "Main", Owner: "Alex", Balance: 1000}},
		Goals: []Goal{
			{ID: "goal-1", Name: "House", SubGoals: []SubGoal{{ID: "sg-1", Name: "Deposit", Target: 600}}},
		},
		Allocations: []Allocation{
			{ID: "alloc-ok", AccountID: "acct-1", SubGoalID: "sg-1", Amount: 100},
			{ID: "alloc-gone-acct", AccountID: "acct-deleted", SubGoalID: "sg-1", Amount: 100},
			{ID: "alloc-gone-sg", AccountID: "acct-1", SubGoalID: "sg-deleted", Amount: 100},
			{ID: "alloc-zero", AccountID: "acct-1", SubGoalID: "sg-1", Amount: 0},
			{ID: "alloc-neg", AccountID: "acct-1", SubGoalID: "sg-1", Amount: -40},
		},
	}

	s := Sanitize(base)
	if len(s.Allocations) != 1 || s.Allocations[0].ID != "alloc-ok" {
		t.Fatalf("expected only the valid allocation to survive, got %+v", s.Allocations)
	}
	// Everything else untouched.
	if len(s.Accounts) != 1 || len(s.Goals) != 1 || len(s.Goals[0].SubGoals) != 1 {
		t.Fatalf("unrelated entities should be unaffected")
	}
}

func TestSanitizeReports(t *testing.T) {
	s := Sanitize(State{
		Reports: []MonthlyReport{
			{Month: "2026-01", Owner: "Alex", Planned: 500, Actual: 320},
			{Month: " 2026-02 ", Owner: "nobody", Planned: -10, Actual: 200.0},
			{Month: "not-a-month", Owner: "Alex", Planned: 100, Actual: 100},
			{Month: "", Owner: "Jordan"},
		},
	})

	if len(s.Reports) != 2 {
		t.Fatalf("expected 2 surviving reports, got %d", len(s.Reports))
	}
	if s.Reports[0].Owner != "Alex" || s.Reports[0].Planned != 500 {
		t.Fatalf("valid report should survive, got %+v", s.Reports[0])
	}
	if s.Reports[1].Month != "2026-02" || s.Reports[1].Owner != OwnerJoint || s.Reports[1].Planned != 0 {
		t.Fatalf("repaired report wrong: %+v", s.Reports[1])
	}
}

func TestSanitizeEmptyState(t *testing.T) {
	s := Sanitize(State{})
	if s.Accounts == nil || s.Goals == nil || s.Allocations == nil {
		t.Fatalf("sanitize should always produce the three collections")
	}
	if len(s.Accounts)+len(s.Goals)+len(s.Allocations) != 0 {
		t.Fatalf("empty in, empty out: %+v", s)
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	raw := State{
		Accounts: []Account{
			{Name: "", Owner: "??", Balance: -1},
			{ID: "acct-2", Name: "Pot", Owner: "Jordan", Balance: 300},
		},
		Goals: []Goal{
			{Name: "  Trip ", SubGoals: []SubGoal{{Name: "", Target: 150}}},
		},
		Allocations: []Allocation{
			{AccountID: "acct-2", SubGoalID: "missing", Amount: 50},
		},
		Reports: []MonthlyReport{{Month: "2026-03", Owner: "X", Planned: 10}},
	}

	once := Sanitize(raw)
	twice := Sanitize(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("sanitize is not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}

	seeded := Sanitize(DefaultState())
	if !reflect.DeepEqual(seeded, Sanitize(seeded)) {
		t.Fatalf("sanitize of the seed state is not idempotent")
	}
}
