package network

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/MRamiBalles/PocketOffice/server/internal/events"
	"github.com/MRamiBalles/PocketOffice/server/internal/platform/logger"
)

// HistorySource returns already broadcast notifications, oldest first.
type HistorySource interface {
	History() []events.GameEvent
}

// ReplayHandler serves the in-memory notification history.
type ReplayHandler struct {
	source HistorySource
	logger *logger.Logger
}

// NewReplayHandler creates a new replay handler.
func NewReplayHandler(source HistorySource, log *logger.Logger) *ReplayHandler {
	return &ReplayHandler{source: source, logger: log}
}

// ReplayResponse is the API response for a replay query.
type ReplayResponse struct {
	TotalEvents int                `json:"total_events"`
	GeneratedAt string             `json:"generated_at"`
	Events      []events.GameEvent `json:"events"`
}

// HandleReplay returns filtered history.
// GET /api/history?type=PROJECT_COMPLETED&year=2024&month=3&limit=50
func (rh *ReplayHandler) HandleReplay(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	eventType := q.Get("type")

	year, err := optionalInt(q.Get("year"))
	if err != nil {
		rh.jsonError(w, "Invalid year", http.StatusBadRequest)
		return
	}
	month, err := optionalInt(q.Get("month"))
	if err != nil {
		rh.jsonError(w, "Invalid month", http.StatusBadRequest)
		return
	}
	limit, err := optionalInt(q.Get("limit"))
	if err != nil || limit < 0 {
		rh.jsonError(w, "Invalid limit", http.StatusBadRequest)
		return
	}

	filtered := []events.GameEvent{}
	for _, e := range rh.source.History() {
		if eventType != "" && string(e.Type) != eventType {
			continue
		}
		if year != 0 && e.Year != year {
			continue
		}
		if month != 0 && e.Month != month {
			continue
		}
		filtered = append(filtered, e)
	}
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[len(filtered)-limit:]
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ReplayResponse{
		TotalEvents: len(filtered),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Events:      filtered,
	})
}

// HandleStats counts history per notification type.
// GET /api/history/stats
func (rh *ReplayHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	all := rh.source.History()
	stats := map[events.EventType]int{}
	for _, e := range all {
		stats[e.Type]++
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"total_events": len(all),
		"by_type":      stats,
	})
}

// RegisterRoutes sets up the history routes.
func (rh *ReplayHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/history", rh.HandleReplay).Methods(http.MethodGet)
	r.HandleFunc("/api/history/stats", rh.HandleStats).Methods(http.MethodGet)
}

func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// jsonError sends an error response.
func (rh *ReplayHandler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
