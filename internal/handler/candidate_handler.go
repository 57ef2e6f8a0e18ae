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

type CandidateHandler struct {
	candidacyService service.Candidacy
	logger           *logger.Logger
}

func NewCandidateHandler(candidacyService service.Candidacy, log *logger.Logger) *CandidateHandler {
	return &CandidateHandler{
		candidacyService: candidacyService,
		logger:           log,
	}
}

// Apply handles POST /api/v1/positions/{positionID}/apply
func (h *CandidateHandler) Apply(w http.ResponseWriter, r *http.Request) {
	positionID, err := pathID(r, "positionID")
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
		Platform string `json:"platform"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, r, apperrors.NewValidationError("Invalid request body", nil), h.logger)
		return
	}

	candidate, err := h.candidacyService.Apply(r.Context(), &domain.CandidacyInput{
		PositionID: positionID,
		MemberID:   member.MemberID,
		Platform:   body.Platform,
	})
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusCreated, candidate)
}

// ListForReview handles GET /api/v1/admin/positions/{positionID}/candidates
func (h *CandidateHandler) ListForReview(w http.ResponseWriter, r *http.Request) {
	positionID, err := pathID(r, "positionID")
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	candidates, err := h.candidacyService.ListForReview(r.Context(), positionID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"candidates": candidates,
	})
}

// ListApproved handles GET /api/v1/positions/{positionID}/candidates
func (h *CandidateHandler) ListApproved(w http.ResponseWriter, r *http.Request) {
	positionID, err := pathID(r, "positionID")
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	candidates, err := h.candidacyService.ListApproved(r.Context(), positionID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"candidates": candidates,
	})
}

// Approve handles POST /api/v1/admin/candidates/{candidateID}/approval
func (h *CandidateHandler) Approve(w http.ResponseWriter, r *http.Request) {
	candidateID, err := pathID(r, "candidateID")
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
		Approved bool `json:"approved"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, r, apperrors.NewValidationError("Invalid request body", nil), h.logger)
		return
	}

	candidate, err := h.candidacyService.Approve(r.Context(), member.MemberID, candidateID, body.Approved)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, candidate)
}
