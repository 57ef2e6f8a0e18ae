package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nhel2500/AUPWU/internal/domain"
	"github.com/nhel2500/AUPWU/internal/middleware"
	"github.com/nhel2500/AUPWU/internal/service"
	apperrors "github.com/nhel2500/AUPWU/pkg/errors"
	"github.com/nhel2500/AUPWU/pkg/logger"
)

type BallotHandler struct {
	ballotService service.Ballot
	logger        *logger.Logger
}

func NewBallotHandler(ballotService service.Ballot, log *logger.Logger) *BallotHandler {
	return &BallotHandler{
		ballotService: ballotService,
		logger:        log,
	}
}

// ListOpenElections handles GET /api/v1/elections
func (h *BallotHandler) ListOpenElections(w http.ResponseWriter, r *http.Request) {
	elections, err := h.ballotService.ListOpenElections(r.Context())
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"elections": elections,
	})
}

// GetBallot handles GET /api/v1/elections/{electionID}/ballot
func (h *BallotHandler) GetBallot(w http.ResponseWriter, r *http.Request) {
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

	state, err := h.ballotService.GetBallot(r.Context(), electionID, member.MemberID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// GetPositionBallot handles GET /api/v1/elections/{electionID}/positions/{positionID}/ballot
func (h *BallotHandler) GetPositionBallot(w http.ResponseWriter, r *http.Request) {
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
	member, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		respondError(w, r, apperrors.NewAuthenticationError("Authentication required"), h.logger)
		return
	}

	ballot, err := h.ballotService.GetPositionBallot(r.Context(), electionID, positionID, member.MemberID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, ballot)
}

// CastVote handles POST /api/v1/elections/{electionID}/vote
func (h *BallotHandler) CastVote(w http.ResponseWriter, r *http.Request) {
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

	var req domain.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperrors.NewValidationError("Invalid request body", nil), h.logger)
		return
	}
	req.ElectionID = electionID
	req.VoterID = member.MemberID

	if req.PositionID <= 0 || req.CandidateID <= 0 {
		respondError(w, r, apperrors.NewValidationError("position_id and candidate_id are required", nil), h.logger)
		return
	}

	resp, err := h.ballotService.CastVote(r.Context(), &req)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, nil)
	}
	return id, nil
}
