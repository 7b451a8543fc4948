// Package api exposes the simulation over HTTP.
// Handlers only translate requests; every rule lives in the engine.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/MRamiBalles/PocketOffice/server/internal/domain/office"
	"github.com/MRamiBalles/PocketOffice/server/internal/engine"
	"github.com/MRamiBalles/PocketOffice/server/internal/infra/storage"
	"github.com/MRamiBalles/PocketOffice/server/internal/network"
	"github.com/MRamiBalles/PocketOffice/server/internal/platform/logger"
	"github.com/MRamiBalles/PocketOffice/server/internal/platform/metrics"
)

// Server wires the engine, persistence and live feed to HTTP routes.
type Server struct {
	engine   *engine.Engine
	store    storage.Store
	hub      *network.Hub
	metrics  *metrics.Collector
	logger   *logger.Logger
	validate *validator.Validate
}

// New creates a server. store and hub may be nil; their routes then answer 503.
func New(eng *engine.Engine, store storage.Store, hub *network.Hub, collector *metrics.Collector, log *logger.Logger) *Server {
	return &Server{
		engine:   eng,
		store:    store,
		hub:      hub,
		metrics:  collector,
		logger:   log,
		validate: validator.New(),
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	network.NewReplayHandler(s.engine, s.logger).RegisterRoutes(r)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/pause", s.handlePause).Methods(http.MethodPost)
	api.HandleFunc("/speed", s.handleSpeed).Methods(http.MethodPost)
	api.HandleFunc("/ledger", s.handleLedger).Methods(http.MethodGet)

	api.HandleFunc("/candidates", s.handleCandidates).Methods(http.MethodGet)
	api.HandleFunc("/candidates/refresh", s.handleRefreshCandidates).Methods(http.MethodPost)
	api.HandleFunc("/employees", s.handleEmployees).Methods(http.MethodGet)
	api.HandleFunc("/employees", s.handleHire).Methods(http.MethodPost)
	api.HandleFunc("/employees/{id}", s.handleFire).Methods(http.MethodDelete)

	api.HandleFunc("/projects", s.handleProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}/assign", s.handleAssign).Methods(http.MethodPost)

	api.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	api.HandleFunc("/events/{id}/resolve", s.handleResolve).Methods(http.MethodPost)

	api.HandleFunc("/loan", s.handleTakeLoan).Methods(http.MethodPost)
	api.HandleFunc("/loan/repay", s.handleRepayLoan).Methods(http.MethodPost)

	api.HandleFunc("/office", s.handleOffice).Methods(http.MethodGet)
	api.HandleFunc("/office/floors/{floor:[0-9]+}", s.handleUnlockFloor).Methods(http.MethodPost)
	api.HandleFunc("/office/floors/{floor:[0-9]+}/rooms", s.handlePlaceRoom).Methods(http.MethodPut)

	api.HandleFunc("/save", s.handleSave).Methods(http.MethodPost)
	api.HandleFunc("/load", s.handleLoad).Methods(http.MethodPost)
	api.HandleFunc("/recap", s.handleRecap).Methods(http.MethodGet)

	if s.hub != nil {
		r.HandleFunc("/ws", s.hub.ServeWS)
	}
	if s.metrics != nil {
		r.HandleFunc("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
		r.HandleFunc("/metrics/prometheus", s.metrics.PrometheusHandler()).Methods(http.MethodGet)
	}
	return r
}

// decode reads a JSON body and checks its struct tags.
func (s *Server) decode(r *http.Request, into interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return errBadRequest{msg: "invalid JSON body"}
	}
	if err := s.validate.Struct(into); err != nil {
		return errBadRequest{msg: err.Error()}
	}
	return nil
}

type errBadRequest struct{ msg string }

func (e errBadRequest) Error() string { return e.msg }

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var bad errBadRequest
	switch {
	case errors.As(err, &bad):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrEmployeeNotFound),
		errors.Is(err, engine.ErrProjectNotFound),
		errors.Is(err, engine.ErrEventNotFound),
		errors.Is(err, errNoSave):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrInvalidAmount),
		errors.Is(err, engine.ErrNoStaff),
		errors.Is(err, engine.ErrInvalidChoice),
		errors.Is(err, office.ErrOutOfBounds),
		errors.Is(err, office.ErrUnknownRoomType):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, engine.ErrProjectNotAvailable),
		errors.Is(err, engine.ErrEmployeeUnavailable),
		errors.Is(err, engine.ErrEmployeeBusy),
		errors.Is(err, engine.ErrLoanActive),
		errors.Is(err, engine.ErrNoActiveLoan),
		errors.Is(err, engine.ErrFloorLimit),
		errors.Is(err, office.ErrFloorLocked),
		errors.Is(err, office.ErrFloorOutOfOrder):
		return http.StatusConflict
	case errors.Is(err, engine.ErrInvalidSnapshot),
		errors.Is(err, storage.ErrCorruptSnapshot):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errNoStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
