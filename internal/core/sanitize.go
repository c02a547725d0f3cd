package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OwnerJoint is the shared household owner every unrecognized owner value
// falls back to.
const OwnerJoint = "Joint"

// HouseholdMembers is the fixed set of valid account and report owners.
var HouseholdMembers = []string{"Alex", "Jordan", OwnerJoint}

// NewID returns a fresh opaque identifier with a readable prefix, e.g.
// "alloc-9f1c02ab".
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// Sanitize repairs a raw state tree into a structurally valid one. It never
// fails: missing ids are generated, blank names and owners are defaulted,
// monetary fields are normalized, and allocations that reference a missing
// account or sub-goal (or carry a non-positive amount) are dropped. The
// steps run in order because the allocation filter depends on the id sets
// the earlier steps produce.
//
// Sanitize is idempotent: applying it to its own output changes nothing.
func Sanitize(s State) State {
	out := State{}

	accountIDs := make(map[string]struct{}, len(s.Accounts))
	out.Accounts = make([]Account, 0, len(s.Accounts))
	for i, acct := range s.Accounts {
		if acct.ID == "" {
			acct.ID = NewID("acct")
		}
		acct.Name = normalizeName(acct.Name, fmt.Sprintf("Account %d", i+1))
		acct.Owner = normalizeOwner(acct.Owner)
		acct.Balance = acct.Balance.Normalize()
		accountIDs[acct.ID] = struct{}{}
		out.Accounts = append(out.Accounts, acct)
	}

	subGoalIDs := make(map[string]struct{})
	out.Goals = make([]Goal, 0, len(s.Goals))
	for i, goal := range s.Goals {
		if goal.ID == "" {
			goal.ID = NewID("goal")
		}
		goal.Name = normalizeName(goal.Name, fmt.Sprintf("Goal %d", i+1))
		subs := make([]SubGoal, 0, len(goal.SubGoals))
		for j, sub := range goal.SubGoals {
			if sub.ID == "" {
				sub.ID = NewID("sg")
			}
			sub.Name = normalizeName(sub.Name, fmt.Sprintf("Sub-goal %d", j+1))
			sub.Target = sub.Target.Normalize()
			subGoalIDs[sub.ID] = struct{}{}
			subs = append(subs, sub)
		}
		goal.SubGoals = subs
		out.Goals = append(out.Goals, goal)
	}

	out.Allocations = make([]Allocation, 0, len(s.Allocations))
	for _, alloc := range s.Allocations {
		if alloc.ID == "" {
			alloc.ID = NewID("alloc")
		}
		alloc.Amount = alloc.Amount.Normalize()
		if alloc.Amount <= 0 {
			continue
		}
		if _, ok := accountIDs[alloc.AccountID]; !ok {
			continue
		}
		if _, ok := subGoalIDs[alloc.SubGoalID]; !ok {
			continue
		}
		out.Allocations = append(out.Allocations, alloc)
	}

	if len(s.Reports) > 0 {
		out.Reports = make([]MonthlyReport, 0, len(s.Reports))
		for _, rep := range s.Reports {
			rep.Month = strings.TrimSpace(rep.Month)
			if _, err := time.Parse("2006-01", rep.Month); err != nil {
				continue
			}
			rep.Owner = normalizeOwner(rep.Owner)
			rep.Planned = rep.Planned.Normalize()
			rep.Actual = rep.Actual.Normalize()
			out.Reports = append(out.Reports, rep)
		}
		if len(out.Reports) == 0 {
			out.Reports = nil
		}
	}

	return out
}

func normalizeName(name, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	return name
}

func normalizeOwner(owner string) string {
	owner = strings.TrimSpace(owner)
	for _, m := range HouseholdMembers {
		if owner == m {
			return m
		}
	}
	return OwnerJoint
}
