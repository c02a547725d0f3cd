package core

// State is the full raw budget: bank accounts, savings goals broken into
// sub-goals, the allocations earmarking account money to sub-goals, and the
// orthogonal per-owner monthly savings reports. The JSON field names are the
// interchange shape used by persisted snapshots and the HTTP API, so they
// must stay stable.
//
// State is a value: every operation in this package takes a State and
// returns a new one, never mutating shared structure the caller still holds.
type State struct {
	Accounts    []Account       `json:"accounts"`
	Goals       []Goal          `json:"goals"`
	Allocations []Allocation    `json:"allocations"`
	Reports     []MonthlyReport `json:"reports,omitempty"`
}

// Account is a bank account holding real cash.
type Account struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Owner   string `json:"owner"`
	Balance Amount `json:"balance"`
}

// Goal groups sub-goals for display; it has no target or balance of its
// own, its figures are always the sum of its sub-goals'.
type Goal struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	SubGoals []SubGoal `json:"subGoals"`
}

// SubGoal is the funding unit: the thing money is actually assigned to.
type SubGoal struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Target Amount `json:"target"`
}

// Allocation earmarks money from one account toward one sub-goal. It is the
// only relationship entity; the allocator keeps at most one allocation per
// (account, sub-goal) pair, though duplicates arriving from elsewhere are
// tolerated and counted as-is.
type Allocation struct {
	ID        string `json:"id"`
	AccountID string `json:"accountId"`
	SubGoalID string `json:"subGoalId"`
	Amount    Amount `json:"amount"`
}

// MonthlyReport records one owner's planned and actual savings for a month
// ("2026-01"). Reports are a reporting extension: they are sanitized and
// derived like the other collections but play no part in the allocation
// invariants.
type MonthlyReport struct {
	Month   string `json:"month"`
	Owner   string `json:"owner"`
	Planned Amount `json:"planned"`
	Actual  Amount `json:"actual"`
}

// DefaultState returns the seed budget a fresh install starts from.
func DefaultState() State {
	return State{
		Accounts: []Account{
			{ID: "acct-alex-main", Name: "Main Current", Owner: "Alex", Balance: 4200},
			{ID: "acct-jordan-save", Name: "Savings Pot", Owner: "Jordan", Balance: 6800},
			{ID: "acct-joint-isa", Name: "Joint Goal Saver", Owner: "Joint", Balance: 11800},
		},
		Goals: []Goal{
			{
				ID:   "goal-house",
				Name: "House",
				SubGoals: []SubGoal{
					{ID: "sg-house-deposit", Name: "Deposit", Target: 45000},
					{ID: "sg-house-solicitor", Name: "Solicitor Fees", Target: 3500},
					{ID: "sg-house-moving", Name: "Moving Costs", Target: 2800},
				},
			},
			{
				ID:   "goal-safety",
				Name: "Emergency Buffer",
				SubGoals: []SubGoal{
					{ID: "sg-safety-income", Name: "6-Month Income Cover", Target: 12000},
					{ID: "sg-safety-home", Name: "Home Repair Buffer", Target: 2000},
				},
			},
		},
		Allocations: []Allocation{
			{ID: "alloc-1", AccountID: "acct-joint-isa", SubGoalID: "sg-house-deposit", Amount: 9400},
			{ID: "alloc-2", AccountID: "acct-jordan-save", SubGoalID: "sg-house-solicitor", Amount: 1200},
			{ID: "alloc-3", AccountID: "acct-alex-main", SubGoalID: "sg-house-moving", Amount: 600},
			{ID: "alloc-4", AccountID: "acct-joint-isa", SubGoalID: "sg-safety-income", Amount: 1800},
		},
	}
}
