package http

import (
	"net/http"

	"pots/internal/core"
)

// assignResponse pairs the allocation outcome with the refreshed view so
// clients never need a follow-up read.
type assignResponse struct {
	Result core.AssignResult `json:"result"`
	Budget core.Snapshot     `json:"budget"`
}

type autoAssignResponse struct {
	Result core.AutoAssignResult `json:"result"`
	Budget core.Snapshot         `json:"budget"`
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	gen := s.generation.Load()
	if d, ok := s.snapshots.Get(gen); ok {
		writeJSON(w, http.StatusOK, d)
		return
	}
	d, err := s.svc.View(r.Context())
	if err != nil {
		writeInternalErr(w, r, err)
		return
	}
	s.snapshots.Put(gen, d)
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.State(r.Context())
	if err != nil {
		writeInternalErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountID string      `json:"accountId"`
		SubGoalID string      `json:"subGoalId"`
		Amount    core.Amount `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	d, res, err := s.svc.AssignFunds(r.Context(), req.AccountID, req.SubGoalID, req.Amount)
	if err != nil {
		writeInternalErr(w, r, err)
		return
	}
	if res.Applied > 0 {
		s.cacheMutation(d)
	}
	writeJSON(w, assignStatus(res.Outcome), assignResponse{Result: res, Budget: d})
}

func assignStatus(o core.AssignOutcome) int {
	switch o {
	case core.AssignAppliedFull, core.AssignAppliedPartial:
		return http.StatusOK
	case core.AssignInvalidSelection:
		return http.StatusNotFound
	default:
		return http.StatusUnprocessableEntity
	}
}

func (s *Server) handleAutoAssign(w http.ResponseWriter, r *http.Request) {
	d, res, err := s.svc.AutoAssign(r.Context())
	if err != nil {
		writeInternalErr(w, r, err)
		return
	}
	if res.Outcome == core.AutoAssignMoved {
		s.cacheMutation(d)
	}
	writeJSON(w, http.StatusOK, autoAssignResponse{Result: res, Budget: d})
}

func (s *Server) handleAddAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string      `json:"name"`
		Owner   string      `json:"owner"`
		Balance core.Amount `json:"balance"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	d, err := s.svc.AddAccount(r.Context(), core.Account{Name: req.Name, Owner: req.Owner, Balance: req.Balance})
	if err != nil {
		writeInternalErr(w, r, err)
		return
	}
	s.cacheMutation(d)
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string      `json:"name"`
		Owner   string      `json:"owner"`
		Balance core.Amount `json:"balance"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	acct := core.Account{ID: r.PathValue("id"), Name: req.Name, Owner: req.Owner, Balance: req.Balance}
	d, err := s.svc.UpdateAccount(r.Context(), acct)
	if err != nil {
		writeInternalErr(w, r, err)
		return
	}
	s.cacheMutation(d)
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleRemoveAccount(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.RemoveAccount(r.Context(), r.PathValue("id"))
	if err != nil {
		writeInternalErr(w, r, err)
		return
	}
	s.cacheMutation(d)
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleAddGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	d, err := s.svc.AddGoal(r.Context(), core.Goal{Name: req.Name})
	if err != nil {
		writeInternalErr(w, r, err)
		return
	}
	s.cacheMutation(d)
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleRenameGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	d, err := s.svc.RenameGoal(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		writeInternalErr(w, r, err)
		return
	}
	s.cacheMutation(d)
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleRemoveGoal(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.RemoveGoal(r.Context(), r.PathValue("id"))
	if err != nil {
		writeInternalErr(w, r, err)
		return
	}
	s.cacheMutation(d)
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleAddSubGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string      `json:"name"`
		Target core.Amount `json:"target"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	d, err := s.svc.AddSubGoal(r.Context(), r.PathValue("id"), core.SubGoal{Name: req.Name, Target: req.Target})
	if err != nil {
		writeInternalErr(w, r, err)
		return
	}
	s.cacheMutation(d)
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleUpdateSubGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string      `json:"name"`
		Target core.Amount `json:"target"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sub := core.SubGoal{ID: r.PathValue("subGoalID"), Name: req.Name, Target: req.Target}
	d, err := s.svc.UpdateSubGoal(r.Context(), r.PathValue("id"), sub)
	if err != nil {
		writeInternalErr(w, r, err)
		return
	}
	s.cacheMutation(d)
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleRemoveSubGoal(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.RemoveSubGoal(r.Context(), r.PathValue("id"), r.PathValue("subGoalID"))
	if err != nil {
		writeInternalErr(w, r, err)
		return
	}
	s.cacheMutation(d)
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleSetAllocation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount core.Amount `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	d, err := s.svc.SetAllocationAmount(r.Context(), r.PathValue("id"), req.Amount)
	if err != nil {
		writeInternalErr(w, r, err)
		return
	}
	s.cacheMutation(d)
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleRemoveAllocation(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.RemoveAllocation(r.Context(), r.PathValue("id"))
	if err != nil {
		writeInternalErr(w, r, err)
		return
	}
	s.cacheMutation(d)
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleUpsertReport(w http.ResponseWriter, r *http.Request) {
	var rep core.MonthlyReport
	if err := decodeJSON(r, &rep); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	d, err := s.svc.UpsertReport(r.Context(), rep)
	if err != nil {
		writeInternalErr(w, r, err)
		return
	}
	s.cacheMutation(d)
	writeJSON(w, http.StatusOK, d)
}

// cacheMutation advances the view generation and primes the cache with
// the snapshot the mutation already derived.
func (s *Server) cacheMutation(d core.Snapshot) {
	s.snapshots.Put(s.generation.Add(1), d)
}
