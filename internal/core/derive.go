package core

import "math"

// AccountFigures is an account plus its derived money figures. Available is
// balance minus assigned and may legitimately go negative when a balance is
// lowered after money was allocated; that is displayed as-is, never
// silently corrected.
type AccountFigures struct {
	Account
	Assigned  Amount `json:"assigned"`
	Available Amount `json:"available"`
}

// SubGoalFigures is a sub-goal plus its derived funding progress, flattened
// out of its parent goal.
type SubGoalFigures struct {
	SubGoal
	GoalID    string `json:"goalId"`
	GoalName  string `json:"goalName"`
	Assigned  Amount `json:"assigned"`
	Remaining Amount `json:"remaining"`
	Progress  int    `json:"progress"`
}

// GoalFigures sums a goal's sub-goals.
type GoalFigures struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Target    Amount `json:"target"`
	Assigned  Amount `json:"assigned"`
	Remaining Amount `json:"remaining"`
	Progress  int    `json:"progress"`
}

// ReportFigures is a monthly report row plus its variance (actual minus
// planned, negative when behind plan).
type ReportFigures struct {
	MonthlyReport
	Variance Amount `json:"variance"`
}

// Snapshot is every derived figure computed in one consistent pass over the
// current allocations. It is recomputed from scratch after every mutation;
// nothing in it is cached across calls.
type Snapshot struct {
	Accounts []AccountFigures `json:"accounts"`
	Goals    []GoalFigures    `json:"goals"`
	SubGoals []SubGoalFigures `json:"subGoals"`
	Reports  []ReportFigures  `json:"reports,omitempty"`

	TotalFunds      Amount `json:"totalFunds"`
	TotalAssigned   Amount `json:"totalAssigned"`
	ReadyToAssign   Amount `json:"readyToAssign"`
	TotalTarget     Amount `json:"totalTarget"`
	UnderFunded     Amount `json:"underFunded"`
	OverallProgress int    `json:"overallProgress"`

	accountIndex map[string]int
	subGoalIndex map[string]int
}

// Account returns the derived figures for one account.
func (d Snapshot) Account(id string) (AccountFigures, bool) {
	i, ok := d.accountIndex[id]
	if !ok {
		return AccountFigures{}, false
	}
	return d.Accounts[i], true
}

// SubGoal returns the derived figures for one sub-goal.
func (d Snapshot) SubGoal(id string) (SubGoalFigures, bool) {
	i, ok := d.subGoalIndex[id]
	if !ok {
		return SubGoalFigures{}, false
	}
	return d.SubGoals[i], true
}

// Derive computes the full snapshot for a sanitized state. It is a total
// function: allocations pointing at entities that no longer exist are
// skipped (the sanitizer should already have removed them), a zero target
// means zero progress, and negative available or ready-to-assign figures
// are valid output.
func Derive(s State) Snapshot {
	accountAssigned := make(map[string]Amount, len(s.Accounts))
	for _, acct := range s.Accounts {
		accountAssigned[acct.ID] = 0
	}

	// Flatten sub-goals keeping goal order, then sub-goal order within goal.
	var flat []SubGoalFigures
	subGoalAssigned := make(map[string]Amount)
	for _, goal := range s.Goals {
		for _, sub := range goal.SubGoals {
			flat = append(flat, SubGoalFigures{
				SubGoal:  sub,
				GoalID:   goal.ID,
				GoalName: goal.Name,
			})
			subGoalAssigned[sub.ID] = 0
		}
	}

	for _, alloc := range s.Allocations {
		amt := alloc.Amount.Normalize()
		if amt == 0 {
			continue
		}
		if _, ok := accountAssigned[alloc.AccountID]; !ok {
			continue
		}
		if _, ok := subGoalAssigned[alloc.SubGoalID]; !ok {
			continue
		}
		accountAssigned[alloc.AccountID] += amt
		subGoalAssigned[alloc.SubGoalID] += amt
	}

	d := Snapshot{
		accountIndex: make(map[string]int, len(s.Accounts)),
		subGoalIndex: make(map[string]int, len(flat)),
	}

	d.Accounts = make([]AccountFigures, 0, len(s.Accounts))
	for i, acct := range s.Accounts {
		assigned := accountAssigned[acct.ID]
		d.Accounts = append(d.Accounts, AccountFigures{
			Account:   acct,
			Assigned:  assigned,
			Available: acct.Balance - assigned,
		})
		d.accountIndex[acct.ID] = i
		d.TotalFunds += acct.Balance
		d.TotalAssigned += assigned
	}

	d.SubGoals = make([]SubGoalFigures, 0, len(flat))
	for i, sub := range flat {
		sub.Target = sub.Target.Normalize()
		sub.Assigned = subGoalAssigned[sub.ID]
		sub.Remaining = (sub.Target - sub.Assigned).Normalize()
		sub.Progress = progressPercent(sub.Assigned, sub.Target)
		d.SubGoals = append(d.SubGoals, sub)
		d.subGoalIndex[sub.ID] = i
		d.UnderFunded += sub.Remaining
	}

	d.Goals = make([]GoalFigures, 0, len(s.Goals))
	for _, goal := range s.Goals {
		g := GoalFigures{ID: goal.ID, Name: goal.Name}
		for _, sub := range goal.SubGoals {
			g.Target += sub.Target.Normalize()
			g.Assigned += subGoalAssigned[sub.ID]
		}
		g.Remaining = (g.Target - g.Assigned).Normalize()
		g.Progress = progressPercent(g.Assigned, g.Target)
		d.Goals = append(d.Goals, g)
		d.TotalTarget += g.Target
	}

	d.ReadyToAssign = d.TotalFunds - d.TotalAssigned
	d.OverallProgress = progressPercent(d.TotalAssigned, d.TotalTarget)

	if len(s.Reports) > 0 {
		d.Reports = make([]ReportFigures, 0, len(s.Reports))
		for _, rep := range s.Reports {
			d.Reports = append(d.Reports, ReportFigures{
				MonthlyReport: rep,
				Variance:      rep.Actual - rep.Planned,
			})
		}
	}

	return d
}

// progressPercent reports assigned as a percentage of target, capped at 100
// so over-assignment never shows above full. A zero target is 0%, not a
// division by zero.
func progressPercent(assigned, target Amount) int {
	if target <= 0 {
		return 0
	}
	p := int(math.Round(float64(assigned) / float64(target) * 100))
	if p > 100 {
		p = 100
	}
	return p
}
