package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/hwangga/signal-app/internal/models"
	"github.com/hwangga/signal-app/internal/monitoring"
	"github.com/hwangga/signal-app/internal/pipeline"
	"github.com/hwangga/signal-app/internal/results"
)

type handler struct {
	runner     Runner
	store      *results.Store
	monitor    *monitoring.Monitor
	summarizer Summarizer
}

func newHandler(runner Runner, store *results.Store, monitor *monitoring.Monitor, summarizer Summarizer) *handler {
	return &handler{
		runner:     runner,
		store:      store,
		monitor:    monitor,
		summarizer: summarizer,
	}
}

// resultResponse wraps a result set with an explicit state so the frontend
// can tell "matched nothing" apart from failures without parsing errors.
type resultResponse struct {
	State  string            `json:"state"` // "ok" or "empty"
	Result *models.ResultSet `json:"result"`
}

func newResultResponse(rs *models.ResultSet) resultResponse {
	state := "ok"
	if rs.IsEmpty() {
		state = "empty"
	}
	return resultResponse{State: state, Result: rs}
}

// Search runs the pipeline for the posted criteria and replaces the current
// result set on success.
func (h *handler) Search(w http.ResponseWriter, r *http.Request) {
	var criteria models.SearchCriteria
	if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid search criteria", err)
		return
	}

	startTime := time.Now()
	rs, err := h.runner.Run(r.Context(), criteria)
	if err != nil {
		h.monitor.RecordFailure(err, time.Since(startTime))
		kind := pipeline.KindOf(err)
		respondWithError(w, statusForKind(kind), messageForKind(kind), err)
		return
	}

	h.store.Replace(rs)
	duration := time.Since(startTime)
	if rs.DegradedChannels > 0 {
		h.monitor.RecordDegraded(rs.Summary(), duration)
	} else {
		h.monitor.RecordSuccess(rs.Summary(), duration)
	}

	respondWithJSON(w, http.StatusOK, newResultResponse(rs))
}

// Results returns the current result set.
func (h *handler) Results(w http.ResponseWriter, r *http.Request) {
	rs := h.store.Current()
	if rs == nil {
		respondWithError(w, http.StatusNotFound, "No search has been run yet", nil)
		return
	}
	respondWithJSON(w, http.StatusOK, newResultResponse(rs))
}

// Insights returns an AI summary of the current result set.
func (h *handler) Insights(w http.ResponseWriter, r *http.Request) {
	if h.summarizer == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Insights are not configured", nil)
		return
	}

	rs := h.store.Current()
	if rs == nil || rs.IsEmpty() {
		respondWithError(w, http.StatusNotFound, "No result set to summarize", nil)
		return
	}

	summary, err := h.summarizer.Summarize(r.Context(), rs)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Failed to generate insights", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"run_id":  rs.RunID,
		"summary": summary,
	})
}

func (h *handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.monitor.IsHealthy() {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK - %s", h.monitor.StatusSummary())
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	fmt.Fprintf(w, "Service unhealthy - %s", h.monitor.StatusSummary())
}

func (h *handler) Status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, h.monitor.StatusSummary())
}

// statusForKind maps the pipeline error taxonomy to HTTP statuses. The
// frontend relies on these being distinct: each kind needs a different
// corrective action from the user.
func statusForKind(kind pipeline.Kind) int {
	switch kind {
	case pipeline.KindInvalidInput:
		return http.StatusBadRequest
	case pipeline.KindUnauthenticated:
		return http.StatusUnauthorized
	case pipeline.KindQuotaExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}

func messageForKind(kind pipeline.Kind) string {
	switch kind {
	case pipeline.KindInvalidInput:
		return "Invalid search criteria"
	case pipeline.KindUnauthenticated:
		return "YouTube credential was rejected"
	case pipeline.KindQuotaExceeded:
		return "YouTube API quota exceeded"
	default:
		return "Upstream request failed"
	}
}

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		log.Printf("%s: %v", message, err)
	}
	respondWithJSON(w, status, map[string]string{"error": message})
}
