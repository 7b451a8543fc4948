package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/MRamiBalles/PocketOffice/server/internal/domain/project"
	"github.com/MRamiBalles/PocketOffice/server/internal/engine"
	"github.com/MRamiBalles/PocketOffice/server/internal/infra/storage"
)

var (
	errNoStore = errors.New("persistence is not configured")
	errNoSave  = errors.New("no saved game")
)

const defaultRecapLimit = 50

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.State())
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	state := s.engine.TogglePause()
	writeJSON(w, http.StatusOK, map[string]engine.RunState{"run_state": state})
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	var req speedRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	applied := s.engine.SetSpeed(req.Multiplier)
	writeJSON(w, http.StatusOK, map[string]float64{"speed": applied})
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Ledger())
}

func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Candidates())
}

func (s *Server) handleRefreshCandidates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.RefreshCandidates())
}

func (s *Server) handleEmployees(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Employees())
}

func (s *Server) handleHire(w http.ResponseWriter, r *http.Request) {
	var req hireRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	emp, err := s.engine.Hire(req.CandidateID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, emp)
}

func (s *Server) handleFire(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Fire(mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/projects?status=Available
func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	status := project.Status(r.URL.Query().Get("status"))
	switch status {
	case "", project.StatusAvailable, project.StatusActive, project.StatusCompleted, project.StatusFailed:
	default:
		s.writeError(w, errBadRequest{msg: "unknown status " + strconv.Quote(string(status))})
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Projects(status))
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	p, err := s.engine.AssignProject(mux.Vars(r)["id"], req.EmployeeIDs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.PendingEvents())
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.engine.ResolveEvent(mux.Vars(r)["id"], *req.Choice); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.State())
}

func (s *Server) handleTakeLoan(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.engine.TakeLoan(req.Amount); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.State())
}

func (s *Server) handleRepayLoan(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.engine.RepayLoan(req.Amount); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.State())
}

func (s *Server) handleOffice(w http.ResponseWriter, r *http.Request) {
	state := s.engine.State()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"floors":       state.Floors,
		"max_floors":   state.MaxFloors,
		"monthly_rent": state.MonthlyRent,
		"buffs":        state.Buffs,
		"layout":       s.engine.Layout(),
	})
}

func (s *Server) handleUnlockFloor(w http.ResponseWriter, r *http.Request) {
	floor, _ := strconv.Atoi(mux.Vars(r)["floor"])
	if err := s.engine.UnlockFloor(floor); err != nil {
		s.writeError(w, err)
		return
	}
	s.handleOffice(w, r)
}

func (s *Server) handlePlaceRoom(w http.ResponseWriter, r *http.Request) {
	floor, _ := strconv.Atoi(mux.Vars(r)["floor"])
	var req roomRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.engine.PlaceRoom(floor, req.X, req.Y, req.Type); err != nil {
		s.writeError(w, err)
		return
	}
	s.handleOffice(w, r)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, errNoStore)
		return
	}
	snap := s.engine.Snapshot()

	start := time.Now()
	err := s.store.Save(r.Context(), snap)
	s.recordSnapshot(true, start, err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Event("GAME_SAVED", "api", snap.Company.DateString())
	writeJSON(w, http.StatusOK, map[string]interface{}{"saved_at": snap.SavedAt})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, errNoStore)
		return
	}

	start := time.Now()
	snap, err := s.store.Load(r.Context())
	s.recordSnapshot(false, start, err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if snap == nil {
		s.writeError(w, errNoSave)
		return
	}
	if err := s.engine.Restore(snap); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.State())
}

// GET /api/recap?limit=20
func (s *Server) handleRecap(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, errNoStore)
		return
	}
	limit := defaultRecapLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, errBadRequest{msg: "invalid limit"})
			return
		}
		limit = n
	}
	recap, err := storage.Recap(r.Context(), s.store, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recap)
}

func (s *Server) recordSnapshot(save bool, start time.Time, err error) {
	if s.metrics != nil {
		s.metrics.RecordSnapshot(save, time.Since(start), err)
	}
}
