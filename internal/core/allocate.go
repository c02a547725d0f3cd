package core

// AssignOutcome classifies the result of a manual assignment. None of
// these are errors: malformed or impossible requests are reported as
// distinct outcomes with no mutation, never thrown.
type AssignOutcome string

const (
	// AssignNothing means the normalized requested amount was zero.
	AssignNothing AssignOutcome = "nothing"
	// AssignInvalidSelection means the account or sub-goal does not exist.
	AssignInvalidSelection AssignOutcome = "invalid-selection"
	// AssignNoAvailableCash means the account has no cash left to earmark.
	AssignNoAvailableCash AssignOutcome = "no-available-cash"
	// AssignAlreadyFunded means the sub-goal needs nothing more.
	AssignAlreadyFunded AssignOutcome = "already-funded"
	// AssignAppliedFull means the full requested amount was assigned.
	AssignAppliedFull AssignOutcome = "applied-full"
	// AssignAppliedPartial means the assignment was capped below the
	// requested amount by available cash or remaining need.
	AssignAppliedPartial AssignOutcome = "applied-partial"
)

// AssignResult reports what a manual assignment did. Applied is the amount
// actually moved (zero unless the outcome is applied-full or
// applied-partial).
type AssignResult struct {
	Outcome AssignOutcome `json:"outcome"`
	Applied Amount        `json:"applied"`
}

// AssignFunds earmarks up to requested units from an account to a sub-goal.
// The applied amount is capped three ways:
//
//	applied = min(requested, account.available, subGoal.remaining)
//
// which is what guarantees an account's allocations never exceed its
// balance and a sub-goal's never exceed its target at assignment time.
// An existing allocation for the same (account, sub-goal) pair is merged
// into rather than duplicated.
//
// The input state is expected to be sanitized; the returned state is the
// input with at most one allocation added or grown. Callers re-sanitize
// and re-derive afterward.
func AssignFunds(s State, accountID, subGoalID string, requested Amount) (State, AssignResult) {
	requested = requested.Normalize()
	if requested == 0 {
		return s, AssignResult{Outcome: AssignNothing}
	}

	derived := Derive(s)
	account, okAcct := derived.Account(accountID)
	subGoal, okSub := derived.SubGoal(subGoalID)
	if !okAcct || !okSub {
		return s, AssignResult{Outcome: AssignInvalidSelection}
	}
	if account.Available <= 0 {
		return s, AssignResult{Outcome: AssignNoAvailableCash}
	}
	if subGoal.Remaining <= 0 {
		return s, AssignResult{Outcome: AssignAlreadyFunded}
	}

	applied := minAmount(requested, account.Available, subGoal.Remaining)
	s = upsertAllocation(s, accountID, subGoalID, applied)

	if applied < requested {
		return s, AssignResult{Outcome: AssignAppliedPartial, Applied: applied}
	}
	return s, AssignResult{Outcome: AssignAppliedFull, Applied: applied}
}

// AutoAssignOutcome classifies the result of an auto-assign sweep.
type AutoAssignOutcome string

const (
	// AutoAssignAllFunded means there were no open sub-goals to fund.
	AutoAssignAllFunded AutoAssignOutcome = "all-funded"
	// AutoAssignNoFunds means no account had positive available cash.
	AutoAssignNoFunds AutoAssignOutcome = "no-funds"
	// AutoAssignNoValidMoves means the sweep ran but moved nothing.
	// Unreachable given the two preconditions above, handled anyway.
	AutoAssignNoValidMoves AutoAssignOutcome = "no-valid-moves"
	// AutoAssignMoved means money was moved; Moved carries the total.
	AutoAssignMoved AutoAssignOutcome = "moved"
)

// AutoAssignResult reports what an auto-assign sweep did.
type AutoAssignResult struct {
	Outcome AutoAssignOutcome `json:"outcome"`
	Moved   Amount            `json:"moved"`
}

// AutoAssign sweeps every account with available cash against every
// sub-goal that still needs money, in a single forward greedy pass:
// accounts in collection order, sub-goals in flattened goal order. Each
// pair moves min(account's running available, sub-goal's running need).
// First-listed accounts and sub-goals are favored; there is no
// backtracking and no fairness balancing. The sweep stops when either all
// open sub-goals are zeroed or all funded accounts are drained.
func AutoAssign(s State) (State, AutoAssignResult) {
	derived := Derive(s)

	var open []SubGoalFigures
	for _, sub := range derived.SubGoals {
		if sub.Remaining > 0 {
			open = append(open, sub)
		}
	}
	var funded []AccountFigures
	for _, acct := range derived.Accounts {
		if acct.Available > 0 {
			funded = append(funded, acct)
		}
	}

	if len(open) == 0 {
		return s, AutoAssignResult{Outcome: AutoAssignAllFunded}
	}
	if len(funded) == 0 {
		return s, AutoAssignResult{Outcome: AutoAssignNoFunds}
	}

	need := make(map[string]Amount, len(open))
	for _, sub := range open {
		need[sub.ID] = sub.Remaining
	}

	var moved Amount
	for _, acct := range funded {
		available := acct.Available
		for _, sub := range open {
			if available <= 0 {
				break
			}
			remaining := need[sub.ID]
			if remaining <= 0 {
				continue
			}
			amount := minAmount(available, remaining)
			if amount <= 0 {
				continue
			}
			s = upsertAllocation(s, acct.ID, sub.ID, amount)
			available -= amount
			need[sub.ID] = remaining - amount
			moved += amount
		}
	}

	if moved == 0 {
		return s, AutoAssignResult{Outcome: AutoAssignNoValidMoves}
	}
	return s, AutoAssignResult{Outcome: AutoAssignMoved, Moved: moved}
}

// upsertAllocation merges amount into the allocation for the given
// (account, sub-goal) pair, creating it with a fresh id when absent. The
// allocations slice is copied so callers holding the old state are
// unaffected.
func upsertAllocation(s State, accountID, subGoalID string, amount Amount) State {
	amount = amount.Normalize()
	if amount == 0 {
		return s
	}

	allocations := make([]Allocation, len(s.Allocations))
	copy(allocations, s.Allocations)
	s.Allocations = allocations

	for i, alloc := range s.Allocations {
		if alloc.AccountID == accountID && alloc.SubGoalID == subGoalID {
			s.Allocations[i].Amount = (alloc.Amount + amount).Normalize()
			return s
		}
	}

	s.Allocations = append(s.Allocations, Allocation{
		ID:        NewID("alloc"),
		AccountID: accountID,
		SubGoalID: subGoalID,
		Amount:    amount,
	})
	return s
}

func minAmount(a Amount, rest ...Amount) Amount {
	min := a
	for _, v := range rest {
		if v < min {
			min = v
		}
	}
	return min
}
