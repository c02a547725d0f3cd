package core

import "testing"

func fixtureState() State {
	return Sanitize(State{
		Accounts: []Account{
			{ID: "acct-a", Name: "A", Owner: "Alex", Balance: 1000},
			{ID: "acct-b", Name: "B", Owner: "Jordan", Balance: 500},
		},
		Goals: []Goal{
			{ID: "goal-1", Name: "House", SubGoals: []SubGoal{
				{ID: "sg-1", Name: "Deposit", Target: 600},
				{ID: "sg-2", Name: "Fees", Target: 400},
			}},
			{ID: "goal-2", Name: "Buffer", SubGoals: []SubGoal{
				{ID: "sg-3", Name: "Cover", Target: 0},
			}},
		},
		Allocations: []Allocation{
			{ID: "al-1", AccountID: "acct-a", SubGoalID: "sg-1", Amount: 250},
			{ID: "al-2", AccountID: "acct-b", SubGoalID: "sg-1", Amount: 100},
			{ID: "al-3", AccountID: "acct-a", SubGoalID: "sg-2", Amount: 400},
		},
	})
}

func TestDeriveAccountFigures(t *testing.T) {
	d := Derive(fixtureState())

	a, ok := d.Account("acct-a")
	if !ok {
		t.Fatalf("acct-a missing from snapshot")
	}
	if a.Assigned != 650 || a.Available != 350 {
		t.Fatalf("acct-a assigned/available = %d/%d, want 650/350", a.Assigned, a.Available)
	}
	b, _ := d.Account("acct-b")
	if b.Assigned != 100 || b.Available != 400 {
		t.Fatalf("acct-b assigned/available = %d/%d, want 100/400", b.Assigned, b.Available)
	}
}

func TestDeriveSubGoalFigures(t *testing.T) {
	d := Derive(fixtureState())

	sg1, _ := d.SubGoal("sg-1")
	if sg1.Assigned != 350 || sg1.Remaining != 250 {
		t.Fatalf("sg-1 assigned/remaining = %d/%d, want 350/250", sg1.Assigned, sg1.Remaining)
	}
	if sg1.Progress != 58 { // round(350/600*100)
		t.Fatalf("sg-1 progress = %d, want 58", sg1.Progress)
	}
	if sg1.GoalID != "goal-1" || sg1.GoalName != "House" {
		t.Fatalf("sg-1 should carry its parent goal, got %q/%q", sg1.GoalID, sg1.GoalName)
	}

	sg2, _ := d.SubGoal("sg-2")
	if sg2.Remaining != 0 || sg2.Progress != 100 {
		t.Fatalf("fully funded sg-2 remaining/progress = %d/%d, want 0/100", sg2.Remaining, sg2.Progress)
	}
}

func TestDeriveZeroTargetSubGoal(t *testing.T) {
	d := Derive(fixtureState())
	sg3, _ := d.SubGoal("sg-3")
	if sg3.Progress != 0 || sg3.Remaining != 0 {
		t.Fatalf("zero-target sub-goal progress/remaining = %d/%d, want 0/0", sg3.Progress, sg3.Remaining)
	}
}

func TestDeriveGoalAndHouseholdTotals(t *testing.T) {
	d := Derive(fixtureState())

	g1 := d.Goals[0]
	if g1.Target != 1000 || g1.Assigned != 750 || g1.Remaining != 250 || g1.Progress != 75 {
		t.Fatalf("goal-1 figures wrong: %+v", g1)
	}

	if d.TotalFunds != 1500 || d.TotalAssigned != 750 || d.ReadyToAssign != 750 {
		t.Fatalf("household funds wrong: funds=%d assigned=%d ready=%d", d.TotalFunds, d.TotalAssigned, d.ReadyToAssign)
	}
	if d.TotalTarget != 1000 || d.UnderFunded != 250 || d.OverallProgress != 75 {
		t.Fatalf("household targets wrong: target=%d under=%d progress=%d", d.TotalTarget, d.UnderFunded, d.OverallProgress)
	}
}

func TestDeriveConservation(t *testing.T) {
	for _, s := range []State{Sanitize(DefaultState()), fixtureState()} {
		d := Derive(s)

		var balances, byAccount, bySubGoal Amount
		for _, a := range d.Accounts {
			balances += a.Balance
			byAccount += a.Assigned
		}
		for _, sg := range d.SubGoals {
			bySubGoal += sg.Assigned
		}
		if balances != d.TotalFunds {
			t.Fatalf("sum of balances %d != TotalFunds %d", balances, d.TotalFunds)
		}
		if byAccount != d.TotalAssigned || bySubGoal != d.TotalAssigned {
			t.Fatalf("assigned totals disagree: byAccount=%d bySubGoal=%d total=%d", byAccount, bySubGoal, d.TotalAssigned)
		}
	}
}

func TestDeriveNegativeAvailable(t *testing.T) {
	s := fixtureState()
	// Lower a balance below what's already allocated from it.
	s = UpdateAccount(s, Account{ID: "acct-a", Name: "A", Owner: "Alex", Balance: 100})
	s = Sanitize(s)

	d := Derive(s)
	a, _ := d.Account("acct-a")
	if a.Available != -550 {
		t.Fatalf("available should go negative, got %d", a.Available)
	}
	if d.ReadyToAssign != -150 {
		t.Fatalf("readyToAssign should go negative, got %d", d.ReadyToAssign)
	}
}

func TestDeriveProgressBounds(t *testing.T) {
	// Over-assignment via a target lowered after allocation.
	s := fixtureState()
	s = UpdateSubGoal(s, "goal-1", SubGoal{ID: "sg-1", Name: "Deposit", Target: 200})
	s = Sanitize(s)

	d := Derive(s)
	sg, _ := d.SubGoal("sg-1")
	if sg.Progress != 100 {
		t.Fatalf("progress must cap at 100, got %d", sg.Progress)
	}
	if sg.Remaining != 0 {
		t.Fatalf("remaining must floor at 0, got %d", sg.Remaining)
	}
	for _, sub := range d.SubGoals {
		if sub.Progress < 0 || sub.Progress > 100 || sub.Remaining < 0 {
			t.Fatalf("bounds violated for %s: progress=%d remaining=%d", sub.ID, sub.Progress, sub.Remaining)
		}
	}
}

func TestDeriveSkipsDanglingAllocations(t *testing.T) {
	// Derive must not panic on unsanitized input.
	s := fixtureState()
	s.Allocations = append(s.Allocations, Allocation{ID: "al-x", AccountID: "gone", SubGoalID: "sg-1", Amount: 999})
	d := Derive(s)
	sg1, _ := d.SubGoal("sg-1")
	if sg1.Assigned != 350 {
		t.Fatalf("dangling allocation should be skipped, assigned=%d", sg1.Assigned)
	}
}
