package handler

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nhel2500/AUPWU/internal/service"
	"github.com/nhel2500/AUPWU/pkg/logger"
)

type ResultsHandler struct {
	tallyService service.Tally
	logger       *logger.Logger
}

func NewResultsHandler(tallyService service.Tally, log *logger.Logger) *ResultsHandler {
	return &ResultsHandler{
		tallyService: tallyService,
		logger:       log,
	}
}

// GetResults handles GET /api/v1/elections/{electionID}/results
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	electionID, err := pathID(r, "electionID")
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	report, err := h.tallyService.Report(r.Context(), electionID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	payload := map[string]interface{}{
		"election": report.Election,
		"results":  report.Results,
	}

	etag := generateETag(payload)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=30")

	respondJSON(w, http.StatusOK, payload)
}

// GetPositionResult handles GET /api/v1/elections/{electionID}/positions/{positionID}/results
func (h *ResultsHandler) GetPositionResult(w http.ResponseWriter, r *http.Request) {
	electionID, err := pathID(r, "electionID")
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	positionID, err := pathID(r, "positionID")
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	result, err := h.tallyService.Tally(r.Context(), electionID, positionID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetReport handles GET /api/v1/elections/{electionID}/report
func (h *ResultsHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	electionID, err := pathID(r, "electionID")
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	report, err := h.tallyService.Report(r.Context(), electionID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func generateETag(data interface{}) string {
	jsonData, _ := json.Marshal(data)
	hash := md5.Sum(jsonData)
	return fmt.Sprintf(`"%x"`, hash)
}
