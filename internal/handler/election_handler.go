package handler

import (
	"encoding/json"
	"net/http"

	"github.com/nhel2500/AUPWU/internal/domain"
	"github.com/nhel2500/AUPWU/internal/middleware"
	"github.com/nhel2500/AUPWU/internal/service"
	apperrors "github.com/nhel2500/AUPWU/pkg/errors"
	"github.com/nhel2500/AUPWU/pkg/logger"
)

// ElectionHandler serves the admin election lifecycle endpoints.
type ElectionHandler struct {
	electionService service.ElectionAdmin
	logger          *logger.Logger
}

func NewElectionHandler(electionService service.ElectionAdmin, log *logger.Logger) *ElectionHandler {
	return &ElectionHandler{
		electionService: electionService,
		logger:          log,
	}
}

// List handles GET /api/v1/admin/elections
func (h *ElectionHandler) List(w http.ResponseWriter, r *http.Request) {
	elections, err := h.electionService.List(r.Context())
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"elections": elections,
	})
}

// Get handles GET /api/v1/admin/elections/{electionID}
func (h *ElectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	electionID, err := pathID(r, "electionID")
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	election, positions, err := h.electionService.Get(r.Context(), electionID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"election":  election,
		"positions": positions,
	})
}

// Create handles POST /api/v1/admin/elections
func (h *ElectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	member, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		respondError(w, r, apperrors.NewAuthenticationError("Authentication required"), h.logger)
		return
	}

	var in domain.ElectionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, r, apperrors.NewValidationError("Invalid request body", nil), h.logger)
		return
	}

	election, err := h.electionService.Create(r.Context(), member.MemberID, &in)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusCreated, election)
}

// Update handles PUT /api/v1/admin/elections/{electionID}
func (h *ElectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	electionID, err := pathID(r, "electionID")
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	member, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		respondError(w, r, apperrors.NewAuthenticationError("Authentication required"), h.logger)
		return
	}

	var in domain.ElectionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, r, apperrors.NewValidationError("Invalid request body", nil), h.logger)
		return
	}

	election, err := h.electionService.Update(r.Context(), member.MemberID, electionID, &in)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, election)
}

// Delete handles DELETE /api/v1/admin/elections/{electionID}
func (h *ElectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	electionID, err := pathID(r, "electionID")
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	member, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		respondError(w, r, apperrors.NewAuthenticationError("Authentication required"), h.logger)
		return
	}

	if err := h.electionService.Delete(r.Context(), member.MemberID, electionID); err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Election deleted",
	})
}

// SetPositions handles PUT /api/v1/admin/elections/{electionID}/positions
func (h *ElectionHandler) SetPositions(w http.ResponseWriter, r *http.Request) {
	electionID, err := pathID(r, "electionID")
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	member, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		respondError(w, r, apperrors.NewAuthenticationError("Authentication required"), h.logger)
		return
	}

	var body struct {
		Positions []domain.PositionEntry `json:"positions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, r, apperrors.NewValidationError("Invalid request body", nil), h.logger)
		return
	}

	if err := h.electionService.SetPositions(r.Context(), member.MemberID, electionID, body.Positions); err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Positions updated",
	})
}
