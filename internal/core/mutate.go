package core

// Structural edits to the budget. Each helper returns a new State; deletes
// cascade to the allocations referencing the removed entity so no orphans
// survive. Callers re-sanitize afterward, which also backfills any missing
// ids or names on added entities.

// AddAccount appends an account.
func AddAccount(s State, acct Account) State {
	s.Accounts = append(copyAccounts(s.Accounts), acct)
	return s
}

// UpdateAccount replaces the named account's editable fields. Unknown ids
// are a no-op.
func UpdateAccount(s State, acct Account) State {
	accounts := copyAccounts(s.Accounts)
	for i := range accounts {
		if accounts[i].ID == acct.ID {
			accounts[i].Name = acct.Name
			accounts[i].Owner = acct.Owner
			accounts[i].Balance = acct.Balance
			break
		}
	}
	s.Accounts = accounts
	return s
}

// RemoveAccount deletes an account and every allocation drawing from it.
func RemoveAccount(s State, accountID string) State {
	accounts := make([]Account, 0, len(s.Accounts))
	for _, acct := range s.Accounts {
		if acct.ID != accountID {
			accounts = append(accounts, acct)
		}
	}
	s.Accounts = accounts

	allocations := make([]Allocation, 0, len(s.Allocations))
	for _, alloc := range s.Allocations {
		if alloc.AccountID != accountID {
			allocations = append(allocations, alloc)
		}
	}
	s.Allocations = allocations
	return s
}

// AddGoal appends a goal with its sub-goals.
func AddGoal(s State, goal Goal) State {
	s.Goals = append(copyGoals(s.Goals), goal)
	return s
}

// RenameGoal sets a goal's name. Unknown ids are a no-op.
func RenameGoal(s State, goalID, name string) State {
	goals := copyGoals(s.Goals)
	for i := range goals {
		if goals[i].ID == goalID {
			goals[i].Name = name
			break
		}
	}
	s.Goals = goals
	return s
}

// RemoveGoal deletes a goal and every allocation toward its sub-goals.
func RemoveGoal(s State, goalID string) State {
	removed := make(map[string]struct{})
	goals := make([]Goal, 0, len(s.Goals))
	for _, goal := range s.Goals {
		if goal.ID == goalID {
			for _, sub := range goal.SubGoals {
				removed[sub.ID] = struct{}{}
			}
			continue
		}
		goals = append(goals, goal)
	}
	s.Goals = goals
	return dropAllocationsBySubGoal(s, removed)
}

// AddSubGoal appends a sub-goal to the named goal. Unknown goal ids are a
// no-op.
func AddSubGoal(s State, goalID string, sub SubGoal) State {
	goals := copyGoals(s.Goals)
	for i := range goals {
		if goals[i].ID == goalID {
			goals[i].SubGoals = append(goals[i].SubGoals, sub)
			break
		}
	}
	s.Goals = goals
	return s
}

// UpdateSubGoal replaces a sub-goal's name and target within its goal.
func UpdateSubGoal(s State, goalID string, sub SubGoal) State {
	goals := copyGoals(s.Goals)
	for i := range goals {
		if goals[i].ID != goalID {
			continue
		}
		for j := range goals[i].SubGoals {
			if goals[i].SubGoals[j].ID == sub.ID {
				goals[i].SubGoals[j].Name = sub.Name
				goals[i].SubGoals[j].Target = sub.Target
				break
			}
		}
		break
	}
	s.Goals = goals
	return s
}

// RemoveSubGoal deletes a sub-goal and every allocation toward it.
func RemoveSubGoal(s State, goalID, subGoalID string) State {
	goals := copyGoals(s.Goals)
	for i := range goals {
		if goals[i].ID != goalID {
			continue
		}
		subs := make([]SubGoal, 0, len(goals[i].SubGoals))
		for _, sub := range goals[i].SubGoals {
			if sub.ID != subGoalID {
				subs = append(subs, sub)
			}
		}
		goals[i].SubGoals = subs
		break
	}
	s.Goals = goals
	return dropAllocationsBySubGoal(s, map[string]struct{}{subGoalID: {}})
}

// SetAllocationAmount overwrites an allocation's amount directly. A zero
// (or normalized-to-zero) amount leaves a row the next Sanitize drops.
func SetAllocationAmount(s State, allocationID string, amount Amount) State {
	allocations := make([]Allocation, len(s.Allocations))
	copy(allocations, s.Allocations)
	for i := range allocations {
		if allocations[i].ID == allocationID {
			allocations[i].Amount = amount.Normalize()
			break
		}
	}
	s.Allocations = allocations
	return s
}

// RemoveAllocation deletes one allocation by id.
func RemoveAllocation(s State, allocationID string) State {
	allocations := make([]Allocation, 0, len(s.Allocations))
	for _, alloc := range s.Allocations {
		if alloc.ID != allocationID {
			allocations = append(allocations, alloc)
		}
	}
	s.Allocations = allocations
	return s
}

// UpsertReport replaces the report row for (month, owner) or appends one.
func UpsertReport(s State, rep MonthlyReport) State {
	reports := make([]MonthlyReport, len(s.Reports))
	copy(reports, s.Reports)
	for i := range reports {
		if reports[i].Month == rep.Month && reports[i].Owner == rep.Owner {
			reports[i] = rep
			s.Reports = reports
			return s
		}
	}
	s.Reports = append(reports, rep)
	return s
}

func dropAllocationsBySubGoal(s State, removed map[string]struct{}) State {
	allocations := make([]Allocation, 0, len(s.Allocations))
	for _, alloc := range s.Allocations {
		if _, ok := removed[alloc.SubGoalID]; !ok {
			allocations = append(allocations, alloc)
		}
	}
	s.Allocations = allocations
	return s
}

func copyAccounts(in []Account) []Account {
	out := make([]Account, len(in))
	copy(out, in)
	return out
}

func copyGoals(in []Goal) []Goal {
	out := make([]Goal, len(in))
	for i, g := range in {
		subs := make([]SubGoal, len(g.SubGoals))
		copy(subs, g.SubGoals)
		g.SubGoals = subs
		out[i] = g
	}
	return out
}
